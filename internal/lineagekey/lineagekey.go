// Package lineagekey turns tag lineages into the opaque keys used for
// checkbox state in the drawer.
package lineagekey

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gravitrone/tagdrawer/internal/tagtree"
)

const sep = ","

// Encode percent-encodes each segment and joins them with a comma.
func Encode(lineage []string) string {
	parts := make([]string, len(lineage))
	for i, segment := range lineage {
		parts[i] = url.PathEscape(segment)
	}
	return strings.Join(parts, sep)
}

// Decode splits a key produced by Encode back into its lineage.
func Decode(key string) ([]string, error) {
	if key == "" {
		return nil, fmt.Errorf("empty lineage key")
	}
	parts := strings.Split(key, sep)
	lineage := make([]string, len(parts))
	for i, part := range parts {
		segment, err := url.PathUnescape(part)
		if err != nil {
			return nil, fmt.Errorf("decode segment %d: %w", i, err)
		}
		lineage[i] = segment
	}
	return lineage, nil
}

// Set is an insertion-ordered set of encoded lineages. It satisfies
// tagtree.Selection.
type Set struct {
	keys  []string
	index map[string]int
}

var _ tagtree.Selection = (*Set)(nil)

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{index: map[string]int{}}
}

// FromTree selects every explicit lineage in tree.
func FromTree(tree *tagtree.Tree) *Set {
	s := NewSet()
	tree.Walk(func(lineage []string, n *tagtree.Node) {
		if n.Explicit {
			s.Select(lineage)
		}
	})
	return s
}

// Select adds lineage to the set.
func (s *Set) Select(lineage []string) {
	key := Encode(lineage)
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
}

// Deselect removes lineage from the set.
func (s *Set) Deselect(lineage []string) {
	key := Encode(lineage)
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.keys); j++ {
		s.index[s.keys[j]] = j
	}
}

// Has reports whether lineage is selected.
func (s *Set) Has(lineage []string) bool {
	_, ok := s.index[Encode(lineage)]
	return ok
}

// Len returns the number of selected lineages.
func (s *Set) Len() int {
	return len(s.keys)
}

// Keys returns the encoded keys in selection order.
func (s *Set) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Lineages decodes every selected key.
func (s *Set) Lineages() [][]string {
	out := make([][]string, 0, len(s.keys))
	for _, key := range s.keys {
		lineage, err := Decode(key)
		if err != nil {
			// keys only ever come from Encode
			continue
		}
		out = append(out, lineage)
	}
	return out
}

// Values returns the tail segment of every selected lineage, the shape the
// update call expects.
func (s *Set) Values() []string {
	lineages := s.Lineages()
	values := make([]string, 0, len(lineages))
	for _, l := range lineages {
		values = append(values, l[len(l)-1])
	}
	return values
}
