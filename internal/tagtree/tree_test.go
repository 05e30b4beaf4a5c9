package tagtree

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeMarshalJSONKeepsKeyOrder(t *testing.T) {
	tree := BuildTree([]Tag{
		{Value: "z", Lineage: []string{"root", "z"}},
		{Value: "a", Lineage: []string{"root", "a"}},
	})
	tree.Sort()

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t,
		`{"root":{"explicit":false,"children":{"a":{"explicit":true,"children":{}},"z":{"explicit":true,"children":{}}}}}`,
		string(data))
}

func TestTreeMarshalJSONEscapesKeys(t *testing.T) {
	tree := BuildTree([]Tag{{Value: `say "hi"`, Lineage: []string{`say "hi"`}}})

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, `say "hi"`)
}

func TestTreeWalkVisitsPreOrder(t *testing.T) {
	tree := BuildTree([]Tag{
		{Value: "C", Lineage: []string{"A", "B", "C"}},
		{Value: "D", Lineage: []string{"A", "D"}},
	})

	var seen []string
	tree.Walk(func(lineage []string, _ *Node) {
		seen = append(seen, lineage[len(lineage)-1])
	})
	assert.Equal(t, []string{"A", "B", "C", "D"}, seen)
}

func TestTreeLookup(t *testing.T) {
	tree := BuildTree([]Tag{{Value: "B", Lineage: []string{"A", "B"}}})

	n, ok := tree.Lookup([]string{"A", "B"})
	require.True(t, ok)
	assert.True(t, n.Explicit)

	_, ok = tree.Lookup([]string{"A", "X"})
	assert.False(t, ok)
	_, ok = tree.Lookup(nil)
	assert.False(t, ok)
}

func TestTreeEqualIsOrderSensitive(t *testing.T) {
	a := BuildTree([]Tag{{Value: "x", Lineage: []string{"x"}}, {Value: "y", Lineage: []string{"y"}}})
	b := BuildTree([]Tag{{Value: "y", Lineage: []string{"y"}}, {Value: "x", Lineage: []string{"x"}}})

	assert.False(t, a.Equal(b))
	b.Sort()
	assert.True(t, a.Equal(b))
}

func TestNilTreeIsEmpty(t *testing.T) {
	var tree *Tree
	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.Keys())
	assert.Equal(t, 0, tree.Clone().Len())
	assert.Empty(t, Flatten(tree))
}
