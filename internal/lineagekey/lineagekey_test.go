package lineagekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/tagdrawer/internal/tagtree"
)

func TestEncodeMatchesDrawerFormat(t *testing.T) {
	key := Encode([]string{"Science and Research", "Molecular, Cellular, and Microbiology", "Virology"})
	assert.Equal(t, "Science%20and%20Research,Molecular%2C%20Cellular%2C%20and%20Microbiology,Virology", key)
}

func TestDecodeRoundTrip(t *testing.T) {
	lineages := [][]string{
		{"a"},
		{"a,b", "c d", "100%"},
		{"slash/inside", "?query", "ünïcode"},
	}
	for _, l := range lineages {
		got, err := Decode(Encode(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := Decode("")
	assert.Error(t, err)

	_, err = Decode("ok,%zz")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "segment 1")
}

func TestSetDrivenByAddTag(t *testing.T) {
	set := NewSet()
	tree := tagtree.NewTree()

	tagtree.AddTag(tree, []string{"A"}, set)
	assert.True(t, set.Has([]string{"A"}))

	// adding a child deselects the parent checkbox
	tagtree.AddTag(tree, []string{"A", "B"}, set)
	assert.False(t, set.Has([]string{"A"}))
	assert.True(t, set.Has([]string{"A", "B"}))
	assert.Equal(t, []string{"B"}, set.Values())
}

func TestSetDeselectKeepsOrder(t *testing.T) {
	set := NewSet()
	set.Select([]string{"x"})
	set.Select([]string{"y"})
	set.Select([]string{"z"})
	set.Select([]string{"y"})

	set.Deselect([]string{"y"})
	set.Deselect([]string{"missing"})

	assert.Equal(t, []string{"x", "z"}, set.Keys())
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has([]string{"z"}))
}

func TestFromTree(t *testing.T) {
	tree := tagtree.BuildTree([]tagtree.Tag{
		{Value: "C", Lineage: []string{"A", "B", "C"}},
		{Value: "D", Lineage: []string{"D"}},
	})

	set := FromTree(tree)

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"D"}}, set.Lineages())
}
