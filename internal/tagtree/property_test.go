package tagtree

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

var labels = []string{"Art", "Biology", "DNA", "art", "Genetics, Applied", "Z"}

func lineageGen() *rapid.Generator[[]string] {
	return rapid.SliceOfN(rapid.SampledFrom(labels), 1, 4)
}

func tagSetGen() *rapid.Generator[[]Tag] {
	return rapid.Custom(func(t *rapid.T) []Tag {
		lineages := rapid.SliceOfNDistinct(lineageGen(), 0, 8, lineageKey).Draw(t, "lineages")
		tags := make([]Tag, 0, len(lineages))
		for _, l := range lineages {
			tags = append(tags, Tag{Value: l[len(l)-1], Lineage: l})
		}
		return tags
	})
}

func editsGen() *rapid.Generator[[]Edit] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) Edit {
		kind := EditAdd
		if rapid.Bool().Draw(t, "remove") {
			kind = EditRemove
		}
		return Edit{Kind: kind, Lineage: lineageGen().Draw(t, "lineage")}
	}), 0, 10)
}

func lineageKey(l []string) string {
	return strings.Join(l, "\x00")
}

func tagKeys(tags []Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		out[lineageKey(tag.Lineage)] = tag.Value
	}
	return out
}

func TestPropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tags := tagSetGen().Draw(t, "tags")
		got := Flatten(BuildTree(tags))
		if len(got) != len(tags) {
			t.Fatalf("flatten returned %d tags, want %d", len(got), len(tags))
		}
		want := tagKeys(tags)
		for key, value := range tagKeys(got) {
			if want[key] != value {
				t.Fatalf("unexpected tag %q", key)
			}
		}
	})
}

func TestPropertyRemoveIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := BuildTree(tagSetGen().Draw(t, "tags"))
		lineage := lineageGen().Draw(t, "lineage")

		RemoveTag(tree, lineage)
		once := tree.Clone()
		RemoveTag(tree, lineage)

		if !once.Equal(tree) {
			t.Fatalf("second removal of %v changed the tree", lineage)
		}
	})
}

func TestPropertyNoImplicitLeaves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := Replay(tagSetGen().Draw(t, "tags"), editsGen().Draw(t, "edits"))
		tree.Walk(func(lineage []string, n *Node) {
			if !n.Explicit && n.Children.Len() == 0 {
				t.Fatalf("implicit leaf at %v", lineage)
			}
		})
	})
}

func TestPropertyMergeIsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := BuildTree(tagSetGen().Draw(t, "base"))
		overlay := BuildTree(tagSetGen().Draw(t, "overlay"))
		baseCopy, overlayCopy := base.Clone(), overlay.Clone()

		a := Merge(base, overlay)
		b := Merge(base, overlay)

		if !base.Equal(baseCopy) || !overlay.Equal(overlayCopy) {
			t.Fatalf("merge mutated its inputs")
		}
		if !a.Equal(b) {
			t.Fatalf("merge is not deterministic")
		}
	})
}

func TestPropertyOverlayOfAddsMatchesReplay(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fetched := tagSetGen().Draw(t, "fetched")
		edits := editsGen().Draw(t, "edits")
		adds := rapid.SliceOfN(lineageGen(), 0, 5).Draw(t, "adds")

		overlayEdits := make([]Edit, 0, len(adds))
		for _, l := range adds {
			overlayEdits = append(overlayEdits, Add(l...))
		}

		preview := Merge(Replay(fetched, edits), Replay(nil, overlayEdits))
		committed := Replay(fetched, append(append([]Edit(nil), edits...), overlayEdits...))

		if !preview.Equal(committed) {
			t.Fatalf("preview and replay disagree")
		}
	})
}
