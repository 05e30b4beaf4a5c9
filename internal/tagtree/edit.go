package tagtree

import "fmt"

// EditKind is the kind of a staged edit.
type EditKind int

const (
	EditAdd EditKind = iota
	EditRemove
)

func (k EditKind) String() string {
	switch k {
	case EditAdd:
		return "add"
	case EditRemove:
		return "remove"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// ParseEditKind is the inverse of EditKind.String.
func ParseEditKind(s string) (EditKind, error) {
	switch s {
	case "add":
		return EditAdd, nil
	case "remove":
		return EditRemove, nil
	}
	return 0, fmt.Errorf("unknown edit kind %q", s)
}

// Edit is a staged, not yet submitted change to one taxonomy's tags.
type Edit struct {
	Kind    EditKind
	Lineage []string
}

// Add returns an add edit for lineage.
func Add(lineage ...string) Edit {
	return Edit{Kind: EditAdd, Lineage: lineage}
}

// Remove returns a remove edit for lineage.
func Remove(lineage ...string) Edit {
	return Edit{Kind: EditRemove, Lineage: lineage}
}

// Apply applies one edit in place. Adding a tag makes every ancestor already
// in the tree implicit, since the more specific tag supersedes it.
func Apply(tree *Tree, e Edit, sel Selection) {
	switch e.Kind {
	case EditAdd:
		AddTag(tree, e.Lineage, sel)
		for i := 1; i < len(e.Lineage); i++ {
			if n, ok := tree.Lookup(e.Lineage[:i]); ok {
				n.Explicit = false
			}
		}
	case EditRemove:
		RemoveTag(tree, e.Lineage)
		if sel != nil && len(e.Lineage) > 0 {
			sel.Deselect(e.Lineage)
		}
	}
}

// Replay rebuilds the tree for fetched tags and applies edits in order. The
// result is sorted.
func Replay(fetched []Tag, edits []Edit) *Tree {
	tree := BuildTree(fetched)
	for _, e := range edits {
		Apply(tree, e, nil)
	}
	tree.Sort()
	return tree
}

// ReconcileCommit returns the tags to submit once edits are saved.
func ReconcileCommit(fetched []Tag, edits []Edit) []Tag {
	return Flatten(Replay(fetched, edits))
}
