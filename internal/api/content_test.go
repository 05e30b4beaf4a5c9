package api

import (
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/tagdrawer/internal/tagtree"
)

const unitID = "block-v1:OpenedX+DemoX+Demo+type@vertical+block@abc"

func TestContentTaxonomyTags(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/content_tagging/v1/object_tags/"+unitID+"/", r.URL.Path)
		w.Write(jsonResponse(map[string]any{
			"taxonomies": []map[string]any{{
				"taxonomy_id":    3,
				"name":           "Subjects",
				"can_tag_object": true,
				"tags": []map[string]any{{
					"value":   "DNA Sequencing",
					"lineage": []string{"Science and Research", "Genetics Subcategory", "DNA Sequencing"},
				}},
			}},
		}))
	})

	got, err := client.ContentTaxonomyTags(unitID)
	require.NoError(t, err)
	require.Len(t, got.Taxonomies, 1)
	tax := got.Taxonomies[0]
	assert.Equal(t, 3, tax.TaxonomyID)
	assert.True(t, tax.CanTagObject)
	require.Len(t, tax.Tags, 1)
	assert.Equal(t, "DNA Sequencing", tax.Tags[0].Value)
	assert.Len(t, tax.Tags[0].Lineage, 3)
}

func TestUpdateContentTags(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "3", r.URL.Query().Get("taxonomy"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var input UpdateContentTagsInput
		require.NoError(t, json.Unmarshal(body, &input))
		assert.Equal(t, []string{"DNA Sequencing", "Virology"}, input.Tags)
		w.Write(jsonResponse(map[string]any{"taxonomies": []any{}}))
	})

	_, err := client.UpdateContentTags(unitID, 3, []string{"DNA Sequencing", "Virology"})
	require.NoError(t, err)
}

func TestUpdateContentTagsSendsEmptyListNotNull(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"tags":[]}`, string(body))
		w.Write(jsonResponse(map[string]any{"taxonomies": []any{}}))
	})

	_, err := client.UpdateContentTags(unitID, 3, nil)
	require.NoError(t, err)
}

func TestContentDataName(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contentstore/v1/content/"+unitID, r.URL.Path)
		w.Write(jsonResponse(map[string]any{"display_name": "Week 1 Unit"}))
	})

	data, err := client.ContentData(unitID)
	require.NoError(t, err)
	assert.Equal(t, "Week 1 Unit", data.Name())
	assert.Equal(t, "Demo Course", ContentData{CourseDisplayNameWithDefault: "Demo Course"}.Name())
}

func TestOrgFromContentID(t *testing.T) {
	tests := []struct {
		id   string
		org  string
		isOK bool
	}{
		{id: unitID, org: "OpenedX", isOK: true},
		{id: "course-v1:SampleTaxonomyOrg1+STC1+2023_1", org: "SampleTaxonomyOrg1", isOK: true},
		{id: "lb:Axim:lib1:html:intro", org: "Axim", isOK: true},
		{id: "nocolon", isOK: false},
		{id: "block-v1:+x", isOK: false},
	}
	for _, tt := range tests {
		org, ok := OrgFromContentID(tt.id)
		assert.Equal(t, tt.isOK, ok, tt.id)
		assert.Equal(t, tt.org, org, tt.id)
	}
}

func TestToTagsCopiesLineage(t *testing.T) {
	wire := []ContentTag{{Value: "B", Lineage: []string{"A", "B"}}}
	tags := ToTags(wire)
	wire[0].Lineage[0] = "changed"

	assert.Equal(t, []tagtree.Tag{{Value: "B", Lineage: []string{"A", "B"}}}, tags)
}
