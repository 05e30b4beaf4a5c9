package ui

import (
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/tagdrawer/internal/api"
	"github.com/gravitrone/tagdrawer/internal/drafts"
	"github.com/gravitrone/tagdrawer/internal/drawer"
	"github.com/gravitrone/tagdrawer/internal/tagpages"
)

const unitID = "block-v1:OpenedX+DemoX+Demo+type@vertical+block@abc"

// fakeAPI serves the drawer session and the tag page cache.
type fakeAPI struct {
	mu         sync.Mutex
	taxonomies []api.Taxonomy
	applied    *api.ContentTaxonomyTags
	// pages by "parent|search", one slice per page
	pages   map[string][][]api.TaxonomyTag
	errs    map[string]error
	queries []api.TagQuery
	updates map[int][]string
}

func (f *fakeAPI) ListTaxonomies(org string, enabledOnly bool) ([]api.Taxonomy, error) {
	return f.taxonomies, nil
}

func (f *fakeAPI) ContentTaxonomyTags(contentID string) (*api.ContentTaxonomyTags, error) {
	return f.applied, nil
}

func (f *fakeAPI) UpdateContentTags(contentID string, taxonomyID int, tags []string) (*api.ContentTaxonomyTags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[int][]string{}
	}
	f.updates[taxonomyID] = tags
	return nil, nil
}

func (f *fakeAPI) ContentData(contentID string) (*api.ContentData, error) {
	return &api.ContentData{DisplayName: "Unit 1"}, nil
}

func (f *fakeAPI) TaxonomyTags(taxonomyID int, q api.TagQuery) (*api.TaxonomyTagPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if err := f.errs[q.ParentTag+"|"+q.SearchTerm]; err != nil {
		return nil, err
	}
	pages := f.pages[q.ParentTag+"|"+q.SearchTerm]
	idx := q.Page - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(pages) {
		return &api.TaxonomyTagPage{NumPages: len(pages)}, nil
	}
	return &api.TaxonomyTagPage{NumPages: len(pages), CurrentPage: idx + 1, Results: pages[idx]}, nil
}

func ttag(value, parent string, children int) api.TaxonomyTag {
	return api.TaxonomyTag{Value: value, ParentValue: parent, ChildCount: children}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		taxonomies: []api.Taxonomy{
			{ID: 1, Name: "Subjects", Enabled: true, AllowMultiple: true},
			{ID: 2, Name: "Difficulty", Enabled: true},
		},
		applied: &api.ContentTaxonomyTags{Taxonomies: []api.ContentTaxonomy{
			{TaxonomyID: 1, Name: "Subjects", Tags: []api.ContentTag{
				{Value: "Biology", Lineage: []string{"Science", "Biology"}},
				{Value: "Art", Lineage: []string{"Art"}},
			}},
		}},
		pages: map[string][][]api.TaxonomyTag{
			"|": {{ttag("Art", "", 0), ttag("Math", "", 0), ttag("Science", "", 2)}},
			"Science|": {{ttag("Biology", "Science", 1), ttag("Chemistry", "Science", 0)}},
			"Biology|": {{ttag("DNA", "Biology", 0)}},
			"|bio": {{ttag("Science", "", 2), ttag("Biology", "Science", 1)}},
		},
	}
}

type fixture struct {
	api     *fakeAPI
	store   *drafts.Store
	session *drawer.Session
	pages   *tagpages.Cache
}

func newFixture(t *testing.T, f *fakeAPI) *fixture {
	t.Helper()
	store, err := drafts.Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	session, err := drawer.Load(f, store, unitID)
	require.NoError(t, err)
	return &fixture{api: f, store: store, session: session, pages: tagpages.New(f)}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to an App and returns the final model and command.
func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = a.Update(key(k))
		a = model.(App)
	}
	return a, cmd
}

// drain runs cmd and feeds the resulting message back into the App.
func drain(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return a
		}
		var model tea.Model
		model, cmd = a.Update(msg)
		a = model.(App)
	}
	return a
}
