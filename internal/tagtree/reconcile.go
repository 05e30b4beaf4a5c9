package tagtree

// Selection receives checkbox bookkeeping while tags are added.
type Selection interface {
	Select(lineage []string)
	Deselect(lineage []string)
}

// BuildTree converts applied tags into a tree. Missing ancestors are created
// implicit; the tail of every lineage is forced explicit. Keys keep the order
// in which they were first seen.
func BuildTree(tags []Tag) *Tree {
	tree := NewTree()
	for _, tag := range tags {
		if len(tag.Lineage) == 0 {
			continue
		}
		level := tree
		var node *Node
		for _, key := range tag.Lineage {
			node = level.child(key)
			level = node.Children
		}
		node.Explicit = true
	}
	return tree
}

// Merge deep-merges overlay into a copy of base. Where both hold a node the
// overlay's flag wins. The result is sorted at every level; neither input is
// modified.
func Merge(base, overlay *Tree) *Tree {
	out := base.Clone()
	mergeInto(out, overlay)
	out.Sort()
	return out
}

func mergeInto(dst, src *Tree) {
	if src == nil {
		return
	}
	for _, key := range src.keys {
		s := src.nodes[key]
		d, ok := dst.Get(key)
		if !ok {
			dst.set(key, &Node{Explicit: s.Explicit, Children: s.Children.Clone()})
			continue
		}
		d.Explicit = s.Explicit
		if d.Children == nil {
			d.Children = NewTree()
		}
		mergeInto(d.Children, s.Children)
	}
}

// AddTag marks the tail of lineage explicit, creating implicit ancestors as
// needed. Existing ancestors keep their flag. When sel is set, every proper
// prefix is deselected and the full lineage selected.
func AddTag(tree *Tree, lineage []string, sel Selection) {
	if tree == nil || len(lineage) == 0 {
		return
	}
	level := tree
	for i, key := range lineage {
		node := level.child(key)
		prefix := lineage[:i+1]
		if i == len(lineage)-1 {
			node.Explicit = true
			if sel != nil {
				sel.Select(prefix)
			}
		} else if sel != nil {
			sel.Deselect(prefix)
		}
		level = node.Children
	}
}

// RemoveTag removes the tag at lineage and prunes ancestors left implicit and
// childless. A removed tag that still has descendants stays as an implicit
// node. Missing segments make it a no-op.
func RemoveTag(tree *Tree, lineage []string) {
	if tree == nil || len(lineage) == 0 {
		return
	}
	key := lineage[0]
	node, ok := tree.Get(key)
	if !ok {
		return
	}
	RemoveTag(node.Children, lineage[1:])
	if len(lineage) == 1 {
		node.Explicit = false
	}
	if node.Children.Len() == 0 && !node.Explicit {
		tree.remove(key)
	}
}

// Flatten lists explicit nodes depth-first in the tree's key order.
func Flatten(tree *Tree) []Tag {
	tags := []Tag{}
	tree.Walk(func(lineage []string, n *Node) {
		if !n.Explicit {
			return
		}
		tags = append(tags, Tag{
			Value:   lineage[len(lineage)-1],
			Lineage: append([]string(nil), lineage...),
		})
	})
	return tags
}

// Values returns the plain tag values sent on update.
func Values(tags []Tag) []string {
	values := make([]string, 0, len(tags))
	for _, t := range tags {
		values = append(values, t.Value)
	}
	return values
}
