// Package drawer holds the tagging state of one content object: the tags the
// server reports, the edits staged on top of them and the save flow.
package drawer

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/tagdrawer/internal/api"
	"github.com/gravitrone/tagdrawer/internal/debug"
	"github.com/gravitrone/tagdrawer/internal/tagtree"
)

var (
	ErrUnknownTaxonomy = errors.New("unknown taxonomy")
	ErrInvalidLineage  = errors.New("invalid lineage")
	ErrSingleTagOnly   = errors.New("taxonomy allows a single tag")
)

// Client is the slice of the tagging API a session needs.
type Client interface {
	ListTaxonomies(org string, enabledOnly bool) ([]api.Taxonomy, error)
	ContentTaxonomyTags(contentID string) (*api.ContentTaxonomyTags, error)
	UpdateContentTags(contentID string, taxonomyID int, tags []string) (*api.ContentTaxonomyTags, error)
	ContentData(contentID string) (*api.ContentData, error)
}

// EditStore persists staged edits.
type EditStore interface {
	Append(contentID string, taxonomyID int, e tagtree.Edit) error
	List(contentID string) (map[int][]tagtree.Edit, error)
	Clear(contentID string, taxonomyID int) error
}

// Taxonomy is one taxonomy as seen from the content object.
type Taxonomy struct {
	api.Taxonomy
	Fetched []tagtree.Tag
	Edits   []tagtree.Edit
}

// Dirty reports whether edits are staged.
func (t Taxonomy) Dirty() bool {
	return len(t.Edits) > 0
}

// Session is the drawer state for one content object. It is not safe for
// concurrent use.
type Session struct {
	ContentID string
	Org       string
	Name      string

	client     Client
	store      EditStore
	taxonomies []*Taxonomy
}

// Load fetches the org's taxonomies, the content's applied tags and its
// display name, then restores staged edits from store.
func Load(client Client, store EditStore, contentID string) (*Session, error) {
	defer debug.LogEnterExit("drawer.Load")()

	org, ok := api.OrgFromContentID(contentID)
	if !ok {
		debug.Log("no org in content id %q, listing every taxonomy", contentID)
	}
	s := &Session{ContentID: contentID, Org: org, Name: contentID, client: client, store: store}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload refetches server state and staged edits.
func (s *Session) Reload() error {
	var (
		taxonomies []api.Taxonomy
		applied    *api.ContentTaxonomyTags
		data       *api.ContentData
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		taxonomies, err = s.client.ListTaxonomies(s.Org, true)
		if err != nil {
			return fmt.Errorf("list taxonomies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		applied, err = s.client.ContentTaxonomyTags(s.ContentID)
		if err != nil {
			return fmt.Errorf("fetch content tags: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		data, err = s.client.ContentData(s.ContentID)
		if err != nil {
			// the name is cosmetic
			debug.Log("content data for %s: %v", s.ContentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if data != nil && data.Name() != "" {
		s.Name = data.Name()
	}
	s.taxonomies = mergeTaxonomies(taxonomies, applied)
	return s.ReloadEdits()
}

// ReloadEdits rereads staged edits from the store.
func (s *Session) ReloadEdits() error {
	edits, err := s.store.List(s.ContentID)
	if err != nil {
		return fmt.Errorf("load staged edits: %w", err)
	}
	for _, t := range s.taxonomies {
		t.Edits = edits[t.ID]
	}
	return nil
}

// mergeTaxonomies lists every available taxonomy with the tags the content
// carries in it. Taxonomies the content is tagged with but that are not in
// the available list are appended so their tags stay editable.
func mergeTaxonomies(available []api.Taxonomy, applied *api.ContentTaxonomyTags) []*Taxonomy {
	out := make([]*Taxonomy, 0, len(available))
	byID := map[int]*Taxonomy{}
	for _, tax := range available {
		t := &Taxonomy{Taxonomy: tax, Fetched: []tagtree.Tag{}}
		out = append(out, t)
		byID[tax.ID] = t
	}
	if applied == nil {
		return out
	}
	for _, ct := range applied.Taxonomies {
		t, ok := byID[ct.TaxonomyID]
		if !ok {
			t = &Taxonomy{Taxonomy: api.Taxonomy{
				ID:            ct.TaxonomyID,
				Name:          ct.Name,
				Enabled:       true,
				AllowMultiple: true,
			}}
			out = append(out, t)
			byID[ct.TaxonomyID] = t
		}
		t.Fetched = api.ToTags(ct.Tags)
	}
	return out
}

// Taxonomies returns the session's taxonomies in display order.
func (s *Session) Taxonomies() []Taxonomy {
	out := make([]Taxonomy, len(s.taxonomies))
	for i, t := range s.taxonomies {
		out[i] = *t
	}
	return out
}

// Taxonomy returns one taxonomy by id.
func (s *Session) Taxonomy(id int) (Taxonomy, error) {
	t, err := s.find(id)
	if err != nil {
		return Taxonomy{}, err
	}
	return *t, nil
}

func (s *Session) find(id int) (*Taxonomy, error) {
	for _, t := range s.taxonomies {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownTaxonomy, id)
}

// ValidateLineage rejects lineages the reconciler's contract excludes.
func ValidateLineage(lineage []string) error {
	if len(lineage) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidLineage)
	}
	for i, segment := range lineage {
		if strings.TrimSpace(segment) == "" {
			return fmt.Errorf("%w: segment %d is blank", ErrInvalidLineage, i)
		}
	}
	return nil
}

// Stage validates and records an edit.
func (s *Session) Stage(taxonomyID int, e tagtree.Edit) error {
	t, err := s.find(taxonomyID)
	if err != nil {
		return err
	}
	if err := ValidateLineage(e.Lineage); err != nil {
		return err
	}
	e.Lineage = append([]string(nil), e.Lineage...)
	if err := s.store.Append(s.ContentID, taxonomyID, e); err != nil {
		return err
	}
	t.Edits = append(t.Edits, e)
	debug.Log("staged %s %v on taxonomy %d", e.Kind, e.Lineage, taxonomyID)
	return nil
}

// View returns the canonical tree: fetched tags with staged edits replayed.
func (s *Session) View(taxonomyID int) (*tagtree.Tree, error) {
	t, err := s.find(taxonomyID)
	if err != nil {
		return nil, err
	}
	return tagtree.Replay(t.Fetched, t.Edits), nil
}

// Preview merges an in-progress selection over the canonical view.
func (s *Session) Preview(taxonomyID int, overlay *tagtree.Tree) (*tagtree.Tree, error) {
	view, err := s.View(taxonomyID)
	if err != nil {
		return nil, err
	}
	return tagtree.Merge(view, overlay), nil
}

// Payload returns the tags a save would submit.
func (s *Session) Payload(taxonomyID int) ([]tagtree.Tag, error) {
	t, err := s.find(taxonomyID)
	if err != nil {
		return nil, err
	}
	return tagtree.ReconcileCommit(t.Fetched, t.Edits), nil
}

// Diff compares the save payload with the fetched tags.
func (s *Session) Diff(taxonomyID int) (added, removed []tagtree.Tag, err error) {
	t, err := s.find(taxonomyID)
	if err != nil {
		return nil, nil, err
	}
	payload := tagtree.ReconcileCommit(t.Fetched, t.Edits)
	before := tagtree.Flatten(tagtree.Replay(t.Fetched, nil))
	return subtract(payload, before), subtract(before, payload), nil
}

func subtract(a, b []tagtree.Tag) []tagtree.Tag {
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		seen[strings.Join(t.Lineage, "\x00")] = struct{}{}
	}
	var out []tagtree.Tag
	for _, t := range a {
		if _, ok := seen[strings.Join(t.Lineage, "\x00")]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// Dirty lists the taxonomies with staged edits.
func (s *Session) Dirty() []int {
	var ids []int
	for _, t := range s.taxonomies {
		if t.Dirty() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Commit submits one taxonomy's payload and clears its staged edits.
func (s *Session) Commit(taxonomyID int) error {
	defer debug.LogEnterExit(fmt.Sprintf("drawer.Commit(%d)", taxonomyID))()

	t, err := s.find(taxonomyID)
	if err != nil {
		return err
	}
	payload := tagtree.ReconcileCommit(t.Fetched, t.Edits)
	if !t.AllowMultiple && len(payload) > 1 {
		return fmt.Errorf("%w: %q has %d tags staged", ErrSingleTagOnly, t.Name, len(payload))
	}

	resp, err := s.client.UpdateContentTags(s.ContentID, taxonomyID, tagtree.Values(payload))
	if err != nil {
		return fmt.Errorf("update tags of taxonomy %d: %w", taxonomyID, err)
	}
	if err := s.store.Clear(s.ContentID, taxonomyID); err != nil {
		return err
	}

	t.Fetched = payload
	if resp != nil {
		for _, ct := range resp.Taxonomies {
			if ct.TaxonomyID == taxonomyID {
				t.Fetched = api.ToTags(ct.Tags)
			}
		}
	}
	t.Edits = nil
	return nil
}

// CommitAll commits every dirty taxonomy in display order, stopping at the
// first failure.
func (s *Session) CommitAll() error {
	for _, id := range s.Dirty() {
		if err := s.Commit(id); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops one taxonomy's staged edits.
func (s *Session) Discard(taxonomyID int) error {
	t, err := s.find(taxonomyID)
	if err != nil {
		return err
	}
	if err := s.store.Clear(s.ContentID, taxonomyID); err != nil {
		return err
	}
	t.Edits = nil
	return nil
}

// DiscardAll drops every staged edit.
func (s *Session) DiscardAll() error {
	for _, id := range s.Dirty() {
		if err := s.Discard(id); err != nil {
			return err
		}
	}
	return nil
}
