package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/tagdrawer/internal/api"
	"github.com/gravitrone/tagdrawer/internal/drawer"
	"github.com/gravitrone/tagdrawer/internal/lineagekey"
	"github.com/gravitrone/tagdrawer/internal/tagpages"
	"github.com/gravitrone/tagdrawer/internal/tagtree"
	"github.com/gravitrone/tagdrawer/internal/ui/components"
)

const (
	searchDebounce   = 300 * time.Millisecond
	levelLoadTimeout = 30 * time.Second
)

// --- Messages ---

type levelLoadedMsg struct {
	taxonomyID int
	key        string
	search     string
	numPages   int
	level      tagpages.Level
	err        error
}

type searchTickMsg struct{ seq int }

type selectorClosedMsg struct {
	taxonomyID int
	staged     int
	err        error
}

// --- Rows ---

type selectorRowKind int

const (
	selectorRowTag selectorRowKind = iota
	selectorRowMore
	selectorRowLoading
	selectorRowError
)

// selectorRow is one line of the selector. For non-tag rows lineage is the
// parent level's lineage.
type selectorRow struct {
	kind    selectorRowKind
	lineage []string
	tag     api.TaxonomyTag
	depth   int
	err     string
}

type levelState struct {
	tags     []api.TaxonomyTag
	hasMore  bool
	numPages int
	loading  bool
	err      error
}

// SelectorModel browses one taxonomy's tags and collects tags to add or
// remove. Checked boxes come from sel, which is kept in step with the
// overlay by replaying the selector's own adds and removes.
type SelectorModel struct {
	session  *drawer.Session
	pages    *tagpages.Cache
	taxonomy drawer.Taxonomy
	vim      bool

	input     textinput.Model
	searching bool
	query     string
	searchSeq int

	levels   map[string]*levelState
	expanded map[string]bool

	adds    []tagtree.Edit
	removes []tagtree.Edit
	sel     *lineagekey.Set
	overlay *tagtree.Tree
	preview *tagtree.Tree

	rows  []selectorRow
	list  *components.List
	err   string
	width int
}

// NewSelectorModel opens the selector on taxonomy.
func NewSelectorModel(session *drawer.Session, pages *tagpages.Cache, taxonomy drawer.Taxonomy, vim bool) SelectorModel {
	input := textinput.New()
	input.Placeholder = "search tags"
	input.Prompt = "/ "
	input.CharLimit = 200

	m := SelectorModel{
		session:  session,
		pages:    pages,
		taxonomy: taxonomy,
		vim:      vim,
		input:    input,
		levels:   map[string]*levelState{},
		expanded: map[string]bool{},
		list:     components.NewList(15),
	}
	m.rebuild()
	return m
}

func (m SelectorModel) Init() tea.Cmd {
	return m.openLevel(nil)
}

// openLevel marks a level as loading and returns the command that loads it.
func (m *SelectorModel) openLevel(parent []string) tea.Cmd {
	key := lineagekey.Encode(parent)
	st, ok := m.levels[key]
	if !ok {
		st = &levelState{numPages: 1}
		m.levels[key] = st
	} else if st.loading || st.err == nil && st.tags != nil && !st.hasMore {
		return nil
	}
	st.loading = true
	st.err = nil
	m.rebuildRows()
	return m.loadLevel(parent, st.numPages)
}

func (m *SelectorModel) loadLevel(parent []string, numPages int) tea.Cmd {
	pages := m.pages
	taxonomyID := m.taxonomy.ID
	key := lineagekey.Encode(parent)
	search := m.query
	parentValue := ""
	if len(parent) > 0 {
		parentValue = parent[len(parent)-1]
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), levelLoadTimeout)
		defer cancel()
		level, err := pages.Level(ctx, taxonomyID, parentValue, numPages, search)
		return levelLoadedMsg{
			taxonomyID: taxonomyID,
			key:        key,
			search:     search,
			numPages:   numPages,
			level:      level,
			err:        err,
		}
	}
}

func (m SelectorModel) Update(msg tea.Msg) (SelectorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case levelLoadedMsg:
		if msg.taxonomyID != m.taxonomy.ID || msg.search != m.query {
			return m, nil
		}
		st, ok := m.levels[msg.key]
		if !ok {
			return m, nil
		}
		st.loading = false
		if msg.err != nil {
			st.err = msg.err
		} else {
			st.tags = msg.level.Tags
			st.hasMore = msg.level.HasMore
			st.numPages = msg.numPages
		}
		m.rebuildRows()
		return m, nil

	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		query := strings.TrimSpace(m.input.Value())
		if query == m.query {
			return m, nil
		}
		m.query = query
		m.levels = map[string]*levelState{}
		m.expanded = map[string]bool{}
		m.list.Reset()
		return m, m.openLevel(nil)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m SelectorModel) updateSearch(msg tea.KeyMsg) (SelectorModel, tea.Cmd) {
	if isBack(msg) || isEnter(msg) || isKey(msg, "down", "tab") {
		m.searching = false
		m.input.Blur()
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	seq := m.searchSeq
	tick := tea.Tick(searchDebounce, func(time.Time) tea.Msg { return searchTickMsg{seq: seq} })
	return m, tea.Batch(cmd, tick)
}

func (m SelectorModel) updateBrowse(msg tea.KeyMsg) (SelectorModel, tea.Cmd) {
	switch {
	case isBack(msg):
		return m, closeSelector(m.taxonomy.ID, 0, nil)
	case isKey(msg, "/"):
		m.searching = true
		return m, m.input.Focus()
	case isKey(msg, "s", "ctrl+s"):
		return m.confirm()
	case isUp(msg, m.vim):
		if m.list.Cursor == 0 {
			m.searching = true
			return m, m.input.Focus()
		}
		m.list.Up()
	case isDown(msg, m.vim):
		m.list.Down()
	}

	row, ok := m.current()
	if !ok {
		return m, nil
	}
	switch {
	case isSpace(msg):
		if row.kind == selectorRowTag {
			m.toggle(row.lineage)
		}
	case isRight(msg, m.vim):
		if row.kind == selectorRowTag && row.tag.ChildCount > 0 {
			return m, m.expand(row.lineage)
		}
	case isLeft(msg, m.vim):
		m.collapseOrParent(row)
	case isEnter(msg):
		switch row.kind {
		case selectorRowMore:
			m.levels[lineagekey.Encode(row.lineage)].numPages++
			return m, m.openLevel(row.lineage)
		case selectorRowError:
			return m, m.openLevel(row.lineage)
		case selectorRowTag:
			if row.tag.ChildCount > 0 {
				key := lineagekey.Encode(row.lineage)
				if m.expanded[key] {
					m.expanded[key] = false
					m.rebuildRows()
					return m, nil
				}
				return m, m.expand(row.lineage)
			}
			m.toggle(row.lineage)
		}
	}
	return m, nil
}

func (m *SelectorModel) current() (selectorRow, bool) {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.rows) {
		return selectorRow{}, false
	}
	return m.rows[idx], true
}

func (m *SelectorModel) expand(lineage []string) tea.Cmd {
	m.expanded[lineagekey.Encode(lineage)] = true
	if _, ok := m.levels[lineagekey.Encode(lineage)]; ok {
		m.rebuildRows()
		return nil
	}
	return m.openLevel(lineage)
}

func (m *SelectorModel) collapseOrParent(row selectorRow) {
	if row.kind == selectorRowTag {
		key := lineagekey.Encode(row.lineage)
		if m.expanded[key] {
			m.expanded[key] = false
			m.rebuildRows()
			return
		}
	}
	parent := row.lineage
	if row.kind == selectorRowTag {
		parent = row.lineage[:len(row.lineage)-1]
	}
	if len(parent) == 0 {
		return
	}
	for i, r := range m.rows {
		if r.kind == selectorRowTag && equalLineage(r.lineage, parent) {
			m.list.SetCursor(i)
			return
		}
	}
}

// toggle checks or unchecks a tag. Implicit tags are not selectable.
func (m *SelectorModel) toggle(lineage []string) {
	if n, ok := m.preview.Lookup(lineage); ok && !n.Explicit {
		m.err = "implied by a selected child tag"
		return
	}
	m.err = ""
	if m.sel.Has(lineage) {
		if i := indexEdit(m.adds, lineage); i >= 0 {
			m.adds = append(m.adds[:i], m.adds[i+1:]...)
		} else {
			m.removes = append(m.removes, tagtree.Remove(lineage...))
		}
	} else {
		if i := indexEdit(m.removes, lineage); i >= 0 {
			m.removes = append(m.removes[:i], m.removes[i+1:]...)
		} else {
			m.adds = append(m.adds, tagtree.Add(append([]string(nil), lineage...)...))
		}
	}
	m.rebuild()
}

// rebuild recomputes the selection and preview from the session view and
// the selector's pending edits.
func (m *SelectorModel) rebuild() {
	view, err := m.session.View(m.taxonomy.ID)
	if err != nil {
		m.err = err.Error()
		view = tagtree.NewTree()
	}
	m.sel = lineagekey.FromTree(view)
	m.overlay = tagtree.NewTree()
	for _, e := range m.adds {
		tagtree.Apply(m.overlay, e, m.sel)
	}
	m.overlay.Sort()

	preview, err := m.session.Preview(m.taxonomy.ID, m.overlay)
	if err != nil {
		preview = view
	}
	for _, e := range m.removes {
		tagtree.Apply(preview, e, m.sel)
	}
	m.preview = preview
	m.rebuildRows()
}

func (m *SelectorModel) rebuildRows() {
	rows := make([]selectorRow, 0, len(m.rows))
	rows = m.appendLevel(rows, nil, 0)
	m.rows = rows
	m.list.SetLen(len(rows))
}

func (m *SelectorModel) appendLevel(rows []selectorRow, parent []string, depth int) []selectorRow {
	st, ok := m.levels[lineagekey.Encode(parent)]
	if !ok {
		return rows
	}
	for _, tag := range st.tags {
		lineage := append(append([]string(nil), parent...), tag.Value)
		rows = append(rows, selectorRow{kind: selectorRowTag, lineage: lineage, tag: tag, depth: depth})
		if m.expanded[lineagekey.Encode(lineage)] {
			rows = m.appendLevel(rows, lineage, depth+1)
		}
	}
	switch {
	case st.loading:
		rows = append(rows, selectorRow{kind: selectorRowLoading, lineage: parent, depth: depth})
	case st.err != nil:
		rows = append(rows, selectorRow{kind: selectorRowError, lineage: parent, depth: depth, err: st.err.Error()})
	case st.hasMore:
		rows = append(rows, selectorRow{kind: selectorRowMore, lineage: parent, depth: depth})
	}
	return rows
}

// confirm stages the selector's adds, then its removes, in the order the
// preview applied them.
func (m SelectorModel) confirm() (SelectorModel, tea.Cmd) {
	staged := 0
	for _, e := range append(append([]tagtree.Edit(nil), m.adds...), m.removes...) {
		if err := m.session.Stage(m.taxonomy.ID, e); err != nil {
			return m, closeSelector(m.taxonomy.ID, staged, err)
		}
		staged++
	}
	return m, closeSelector(m.taxonomy.ID, staged, nil)
}

func closeSelector(taxonomyID, staged int, err error) tea.Cmd {
	return func() tea.Msg {
		return selectorClosedMsg{taxonomyID: taxonomyID, staged: staged, err: err}
	}
}

// Pending returns the number of adds and removes not yet staged.
func (m SelectorModel) Pending() (adds, removes int) {
	return len(m.adds), len(m.removes)
}

func (m SelectorModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	start, end := m.list.Window()
	if len(m.rows) == 0 {
		b.WriteString(MutedStyle.Render("  no tags"))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], m.list.IsSelected(i) && !m.searching))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(ErrorStyle.Render(m.err))
		b.WriteString("\n")
	}

	badge := ""
	if adds, removes := m.Pending(); adds+removes > 0 {
		badge = fmt.Sprintf("%d to add, %d to remove", adds, removes)
	}
	title := "Add tags · " + m.taxonomy.Name
	hints := components.Hints(
		"space", "Toggle",
		"→/←", "Open/Close",
		"/", "Search",
		"s", "Stage",
		"esc", "Cancel",
	)
	return components.ActiveTitledBox(title, strings.TrimRight(b.String(), "\n"), m.width) +
		"\n" + components.StatusBar(badge, hints, m.width)
}

func (m SelectorModel) renderRow(row selectorRow, selected bool) string {
	indent := strings.Repeat("  ", row.depth)
	pointer := "  "
	if selected {
		pointer = SelectedStyle.Render(glyphPointer) + " "
	}

	switch row.kind {
	case selectorRowMore:
		return pointer + indent + AccentStyle.Render("… load more")
	case selectorRowLoading:
		return pointer + indent + MutedStyle.Render("loading…")
	case selectorRowError:
		return pointer + indent + ErrorStyle.Render("failed to load: "+components.SanitizeOneLine(row.err))
	}

	box := "[ ]"
	style := NormalStyle
	if n, ok := m.preview.Lookup(row.lineage); ok && !n.Explicit {
		box = "[-]"
		style = ImplicitStyle
	} else if m.sel.Has(row.lineage) {
		box = "[x]"
		style = ExplicitStyle
	}
	arrow := " "
	if row.tag.ChildCount > 0 {
		arrow = glyphCollapsed
		if m.expanded[lineagekey.Encode(row.lineage)] {
			arrow = glyphExpanded
		}
	}
	label := components.SanitizeOneLine(row.tag.Value)
	if selected {
		label = SelectedStyle.Render(label)
	} else {
		label = style.Render(label)
	}
	return pointer + indent + box + " " + arrow + " " + label
}

func indexEdit(edits []tagtree.Edit, lineage []string) int {
	for i, e := range edits {
		if equalLineage(e.Lineage, lineage) {
			return i
		}
	}
	return -1
}

func equalLineage(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
