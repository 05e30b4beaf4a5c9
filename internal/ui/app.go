package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/tagdrawer/internal/debug"
	"github.com/gravitrone/tagdrawer/internal/drawer"
	"github.com/gravitrone/tagdrawer/internal/tagpages"
	"github.com/gravitrone/tagdrawer/internal/tagtree"
	"github.com/gravitrone/tagdrawer/internal/ui/components"
)

// --- Modes ---

type appMode int

const (
	modeBrowse appMode = iota
	modeSelect
	modeConfirmSave
	modeConfirmDiscard
)

// --- Messages ---

type draftsChangedMsg struct{}

type committedMsg struct{ err error }

type reloadedMsg struct{ err error }

// --- Rows ---

type treeRowKind int

const (
	treeRowTaxonomy treeRowKind = iota
	treeRowTag
	treeRowEmpty
)

type treeRow struct {
	kind       treeRowKind
	taxonomyID int
	name       string
	count      int
	dirty      bool
	lineage    []string
	explicit   bool
}

// Option configures an App.
type Option func(*App)

// WithChanges reloads staged edits whenever ch fires.
func WithChanges(ch <-chan struct{}) Option {
	return func(a *App) { a.changes = ch }
}

// WithVimKeys enables hjkl navigation.
func WithVimKeys(on bool) Option {
	return func(a *App) { a.vim = on }
}

// App is the root TUI model: every taxonomy of one content object as a
// collapsible tag tree, with a selector for adding tags.
type App struct {
	session *drawer.Session
	pages   *tagpages.Cache
	changes <-chan struct{}
	vim     bool

	mode      appMode
	selector  SelectorModel
	collapsed map[int]bool
	rows      []treeRow
	list      *components.List
	diffs     []components.DiffRow
	discardID int
	dirty     int

	busy   bool
	status string
	err    string
	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(session *drawer.Session, pages *tagpages.Cache, opts ...Option) App {
	a := App{
		session:   session,
		pages:     pages,
		collapsed: map[int]bool{},
		list:      components.NewList(20),
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.rebuild()
	return a
}

func (a App) Init() tea.Cmd {
	return waitForChanges(a.changes)
}

func waitForChanges(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return draftsChangedMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if page := msg.Height - 8; page > 3 {
			a.list.PageSize = page
			if a.selector.list != nil && page > 7 {
				a.selector.list.PageSize = page - 4
			}
		}
		a.list.SetLen(len(a.rows))
		a.selector.width = msg.Width
		return a, nil

	case draftsChangedMsg:
		if !a.busy && a.mode != modeSelect {
			if err := a.session.ReloadEdits(); err != nil {
				a.err = err.Error()
			} else {
				debug.Log("staged edits changed on disk")
			}
			a.rebuild()
		}
		return a, waitForChanges(a.changes)

	case committedMsg:
		a.busy = false
		a.mode = modeBrowse
		if msg.err != nil {
			a.setError(msg.err)
		} else {
			a.err = ""
			a.status = "tags saved"
		}
		a.rebuild()
		return a, nil

	case reloadedMsg:
		a.busy = false
		if msg.err != nil {
			a.setError(msg.err)
		} else {
			a.err = ""
			a.status = "reloaded"
		}
		a.rebuild()
		return a, nil

	case selectorClosedMsg:
		a.mode = modeBrowse
		if msg.err != nil {
			a.setError(msg.err)
		} else if msg.staged > 0 {
			a.err = ""
			a.status = fmt.Sprintf("staged %d change(s)", msg.staged)
		}
		a.rebuild()
		return a, nil

	case levelLoadedMsg, searchTickMsg:
		if a.mode != modeSelect {
			return a, nil
		}
		var cmd tea.Cmd
		a.selector, cmd = a.selector.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if isKey(msg, "ctrl+c") {
			return a, tea.Quit
		}
		if a.busy {
			return a, nil
		}
		switch a.mode {
		case modeSelect:
			var cmd tea.Cmd
			a.selector, cmd = a.selector.Update(msg)
			return a, cmd
		case modeConfirmSave:
			return a.updateConfirmSave(msg)
		case modeConfirmDiscard:
			return a.updateConfirmDiscard(msg)
		}
		return a.updateBrowse(msg)
	}
	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isQuit(msg):
		return a, tea.Quit
	case isUp(msg, a.vim):
		a.list.Up()
		return a, nil
	case isDown(msg, a.vim):
		a.list.Down()
		return a, nil
	case isKey(msg, "s"):
		return a.openConfirmSave()
	case isKey(msg, "r"):
		a.busy = true
		a.status = "reloading…"
		for _, tax := range a.session.Taxonomies() {
			a.pages.Invalidate(tax.ID)
		}
		session := a.session
		return a, func() tea.Msg { return reloadedMsg{err: session.Reload()} }
	}

	row, ok := a.current()
	if !ok {
		return a, nil
	}
	switch {
	case isEnter(msg), isSpace(msg):
		if row.kind == treeRowTaxonomy {
			a.collapsed[row.taxonomyID] = !a.collapsed[row.taxonomyID]
			a.rebuild()
		}
	case isLeft(msg, a.vim):
		if row.kind == treeRowTaxonomy {
			a.collapsed[row.taxonomyID] = true
			a.rebuild()
		}
	case isRight(msg, a.vim):
		if row.kind == treeRowTaxonomy {
			a.collapsed[row.taxonomyID] = false
			a.rebuild()
		}
	case isKey(msg, "a"):
		tax, err := a.session.Taxonomy(row.taxonomyID)
		if err != nil {
			a.setError(err)
			return a, nil
		}
		a.mode = modeSelect
		a.status = ""
		a.selector = NewSelectorModel(a.session, a.pages, tax, a.vim)
		a.selector.width = a.width
		if a.list.PageSize > 7 {
			a.selector.list.PageSize = a.list.PageSize - 4
		}
		return a, a.selector.Init()
	case isDelete(msg):
		return a.removeTag(row)
	case isKey(msg, "u"):
		tax, err := a.session.Taxonomy(row.taxonomyID)
		if err != nil || !tax.Dirty() {
			a.status = "nothing staged here"
			return a, nil
		}
		a.discardID = row.taxonomyID
		a.mode = modeConfirmDiscard
	}
	return a, nil
}

func (a App) removeTag(row treeRow) (tea.Model, tea.Cmd) {
	if row.kind != treeRowTag {
		return a, nil
	}
	if !row.explicit {
		a.status = "implied by a child tag; remove the child instead"
		return a, nil
	}
	if err := a.session.Stage(row.taxonomyID, tagtree.Remove(row.lineage...)); err != nil {
		a.setError(err)
		return a, nil
	}
	a.err = ""
	a.status = "staged removal of " + components.SanitizeLineage(row.lineage)
	a.rebuild()
	return a, nil
}

func (a App) openConfirmSave() (tea.Model, tea.Cmd) {
	dirty := a.session.Dirty()
	if len(dirty) == 0 {
		a.status = "nothing to save"
		return a, nil
	}
	a.diffs = a.diffs[:0]
	for _, id := range dirty {
		tax, err := a.session.Taxonomy(id)
		if err != nil {
			continue
		}
		added, removed, err := a.session.Diff(id)
		if err != nil {
			a.setError(err)
			return a, nil
		}
		a.diffs = append(a.diffs, components.DiffRow{
			Label:   tax.Name,
			Added:   tagtree.Values(added),
			Removed: tagtree.Values(removed),
		})
	}
	a.mode = modeConfirmSave
	return a, nil
}

func (a App) updateConfirmSave(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isYes(msg):
		a.busy = true
		a.status = "saving…"
		session := a.session
		return a, func() tea.Msg { return committedMsg{err: session.CommitAll()} }
	case isNo(msg):
		a.mode = modeBrowse
	}
	return a, nil
}

func (a App) updateConfirmDiscard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isYes(msg):
		a.mode = modeBrowse
		if err := a.session.Discard(a.discardID); err != nil {
			a.setError(err)
		} else {
			a.status = "discarded staged edits"
		}
		a.rebuild()
	case isNo(msg):
		a.mode = modeBrowse
	}
	return a, nil
}

func (a *App) setError(err error) {
	a.status = ""
	switch {
	case errors.Is(err, drawer.ErrSingleTagOnly):
		a.err = err.Error() + "; remove tags before saving"
	default:
		a.err = err.Error()
	}
}

func (a *App) current() (treeRow, bool) {
	idx := a.list.Selected()
	if idx < 0 || idx >= len(a.rows) {
		return treeRow{}, false
	}
	return a.rows[idx], true
}

// rebuild flattens every taxonomy's canonical view into display rows.
func (a *App) rebuild() {
	rows := make([]treeRow, 0, len(a.rows))
	for _, tax := range a.session.Taxonomies() {
		view, err := a.session.View(tax.ID)
		if err != nil {
			continue
		}
		rows = append(rows, treeRow{
			kind:       treeRowTaxonomy,
			taxonomyID: tax.ID,
			name:       tax.Name,
			count:      len(tagtree.Flatten(view)),
			dirty:      tax.Dirty(),
		})
		if a.collapsed[tax.ID] {
			continue
		}
		if view.Len() == 0 {
			rows = append(rows, treeRow{kind: treeRowEmpty, taxonomyID: tax.ID})
			continue
		}
		view.Walk(func(lineage []string, n *tagtree.Node) {
			rows = append(rows, treeRow{
				kind:       treeRowTag,
				taxonomyID: tax.ID,
				lineage:    append([]string(nil), lineage...),
				explicit:   n.Explicit,
			})
		})
	}
	a.rows = rows
	a.dirty = len(a.session.Dirty())
	a.list.SetLen(len(rows))
}

func (a App) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Manage tags"))
	b.WriteString("  ")
	b.WriteString(SubtitleStyle.Render(components.ClampTextWidth(a.session.Name, 60)))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(components.ClampTextWidth(a.session.ContentID, 80)))
	b.WriteString("\n\n")

	switch a.mode {
	case modeSelect:
		b.WriteString(a.selector.View())
		return b.String()
	case modeConfirmSave:
		b.WriteString(components.ConfirmDiffDialog("Save tags", a.diffs, a.width))
		return b.String()
	case modeConfirmDiscard:
		name := fmt.Sprintf("taxonomy %d", a.discardID)
		if tax, err := a.session.Taxonomy(a.discardID); err == nil {
			name = tax.Name
		}
		b.WriteString(components.ConfirmDialog("Discard", "Drop staged edits for "+name+"?"))
		return b.String()
	}

	start, end := a.list.Window()
	if len(a.rows) == 0 {
		b.WriteString(MutedStyle.Render("no taxonomies available for this content"))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(a.renderRow(a.rows[i], a.list.IsSelected(i)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case a.err != "":
		b.WriteString(ErrorStyle.Render(components.SanitizeOneLine(a.err)))
		b.WriteString("\n")
	case a.status != "":
		b.WriteString(SuccessStyle.Render(a.status))
		b.WriteString("\n")
	}

	hints := components.Hints(
		"a", "Add",
		"x", "Remove",
		"s", "Save",
		"u", "Discard",
		"r", "Reload",
		"q", "Quit",
	)
	badge := ""
	if a.dirty > 0 && !a.busy {
		badge = fmt.Sprintf("%d unsaved", a.dirty)
	}
	b.WriteString(components.StatusBar(badge, hints, a.width))
	return b.String()
}

func (a App) renderRow(row treeRow, selected bool) string {
	pointer := "  "
	if selected {
		pointer = SelectedStyle.Render(glyphPointer) + " "
	}
	switch row.kind {
	case treeRowTaxonomy:
		arrow := glyphExpanded
		if a.collapsed[row.taxonomyID] {
			arrow = glyphCollapsed
		}
		line := TaxonomyStyle.Render(arrow+" "+components.SanitizeOneLine(row.name)) +
			MutedStyle.Render(fmt.Sprintf(" (%d)", row.count))
		if row.dirty {
			line += WarningStyle.Render(" " + glyphDirty)
		}
		return pointer + line
	case treeRowEmpty:
		return pointer + "    " + MutedStyle.Render("no tags")
	}

	indent := strings.Repeat("  ", len(row.lineage))
	label := components.SanitizeOneLine(row.lineage[len(row.lineage)-1])
	glyph, style := glyphExplicit, ExplicitStyle
	if !row.explicit {
		glyph, style = glyphImplicit, ImplicitStyle
	}
	if selected {
		style = SelectedStyle
	}
	return pointer + indent + lipgloss.JoinHorizontal(lipgloss.Top, MutedStyle.Render(glyph+" "), style.Render(label))
}
