// Package tagtree reconciles the tags applied to a piece of content with the
// edits staged against them, for a single taxonomy.
package tagtree

import (
	"bytes"
	"sort"

	"github.com/goccy/go-json"
)

// Tag is one applied tag in the wire format.
type Tag struct {
	Value   string   `json:"value"`
	Lineage []string `json:"lineage"`
}

// Node is a tag in the reconciled tree. Explicit nodes were applied by the
// user; implicit nodes exist only because a descendant is explicit.
type Node struct {
	Explicit bool
	Children *Tree
}

func newNode(explicit bool) *Node {
	return &Node{Explicit: explicit, Children: NewTree()}
}

// Tree maps child labels to nodes and remembers key order.
type Tree struct {
	keys  []string
	nodes map[string]*Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: map[string]*Node{}}
}

// Len returns the number of keys at this level.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys at this level in their current order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Get returns the child node stored under key.
func (t *Tree) Get(key string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[key]
	return n, ok
}

// Lookup walks lineage from this level and returns the node at its tail.
func (t *Tree) Lookup(lineage []string) (*Node, bool) {
	if len(lineage) == 0 {
		return nil, false
	}
	level := t
	var node *Node
	for _, key := range lineage {
		n, ok := level.Get(key)
		if !ok {
			return nil, false
		}
		node = n
		level = n.Children
	}
	return node, true
}

func (t *Tree) set(key string, n *Node) {
	if t.nodes == nil {
		t.nodes = map[string]*Node{}
	}
	if _, ok := t.nodes[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.nodes[key] = n
}

// child returns the node under key, creating an implicit one when missing.
func (t *Tree) child(key string) *Node {
	if n, ok := t.Get(key); ok {
		if n.Children == nil {
			n.Children = NewTree()
		}
		return n
	}
	n := newNode(false)
	t.set(key, n)
	return n
}

func (t *Tree) remove(key string) {
	if _, ok := t.nodes[key]; !ok {
		return
	}
	delete(t.nodes, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Sort orders keys at every level by byte-wise comparison.
func (t *Tree) Sort() {
	if t == nil {
		return
	}
	sort.Strings(t.keys)
	for _, n := range t.nodes {
		n.Children.Sort()
	}
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	if t == nil {
		return out
	}
	for _, key := range t.keys {
		n := t.nodes[key]
		out.set(key, &Node{Explicit: n.Explicit, Children: n.Children.Clone()})
	}
	return out
}

// Equal reports whether both trees hold the same keys, in the same order,
// with the same flags.
func (t *Tree) Equal(other *Tree) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, key := range t.Keys() {
		if other.keys[i] != key {
			return false
		}
		a, b := t.nodes[key], other.nodes[key]
		if a.Explicit != b.Explicit || !a.Children.Equal(b.Children) {
			return false
		}
	}
	return true
}

// Walk visits every node depth-first in key order. The lineage slice is
// reused between calls; copy it to keep it.
func (t *Tree) Walk(fn func(lineage []string, n *Node)) {
	t.walk(nil, fn)
}

func (t *Tree) walk(prefix []string, fn func([]string, *Node)) {
	if t == nil {
		return
	}
	for _, key := range t.keys {
		n := t.nodes[key]
		lineage := append(prefix, key)
		fn(lineage, n)
		n.Children.walk(lineage, fn)
	}
}

// MarshalJSON writes the tree as a nested object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(`:{"explicit":`)
		if t.nodes[key].Explicit {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		buf.WriteString(`,"children":`)
		children, err := t.nodes[key].Children.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(children)
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
