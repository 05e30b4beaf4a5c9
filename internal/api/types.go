package api

import "github.com/gravitrone/tagdrawer/internal/tagtree"

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Taxonomy ---

// Taxonomy is a named tag hierarchy content can be classified against.
type Taxonomy struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Enabled          bool     `json:"enabled"`
	AllowMultiple    bool     `json:"allow_multiple"`
	AllowFreeText    bool     `json:"allow_free_text"`
	SystemDefined    bool     `json:"system_defined"`
	VisibleToAuthors bool     `json:"visible_to_authors"`
	Orgs             []string `json:"orgs"`
	AllOrgs          bool     `json:"all_orgs"`
}

// TaxonomyTag is one entry of a taxonomy's tag listing. ParentValue is empty
// for root tags.
type TaxonomyTag struct {
	Value       string `json:"value"`
	ExternalID  string `json:"external_id,omitempty"`
	ChildCount  int    `json:"child_count"`
	Depth       int    `json:"depth"`
	ParentValue string `json:"parent_value"`
	UsageCount  int    `json:"usage_count,omitempty"`
}

// TaxonomyTagPage is one page of a taxonomy's tags.
type TaxonomyTagPage struct {
	Next        string        `json:"next"`
	Previous    string        `json:"previous"`
	Count       int           `json:"count"`
	NumPages    int           `json:"num_pages"`
	CurrentPage int           `json:"current_page"`
	Start       int           `json:"start"`
	Results     []TaxonomyTag `json:"results"`
}

// TagQuery selects a level of a taxonomy's tags.
type TagQuery struct {
	ParentTag  string
	SearchTerm string
	Page       int
}

// --- Content Tags ---

// ContentTag is a tag applied to a content object.
type ContentTag struct {
	Value   string   `json:"value"`
	Lineage []string `json:"lineage"`
}

// ContentTaxonomy holds the tags a content object carries in one taxonomy.
type ContentTaxonomy struct {
	TaxonomyID   int          `json:"taxonomy_id"`
	Name         string       `json:"name"`
	CanTagObject bool         `json:"can_tag_object"`
	Tags         []ContentTag `json:"tags"`
}

// ContentTaxonomyTags is the full set of tags applied to a content object.
type ContentTaxonomyTags struct {
	Taxonomies []ContentTaxonomy `json:"taxonomies"`
}

// UpdateContentTagsInput is the body of a tag update.
type UpdateContentTagsInput struct {
	Tags []string `json:"tags"`
}

// ContentData carries display metadata about a content object.
type ContentData struct {
	DisplayName                  string `json:"display_name,omitempty"`
	CourseDisplayNameWithDefault string `json:"course_display_name_with_default,omitempty"`
}

// Name returns the display name for units and components, falling back to
// the course name.
func (d ContentData) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.CourseDisplayNameWithDefault
}

// ToTags converts wire tags to reconciler tags.
func ToTags(tags []ContentTag) []tagtree.Tag {
	out := make([]tagtree.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagtree.Tag{Value: t.Value, Lineage: append([]string(nil), t.Lineage...)})
	}
	return out
}

// --- Query ---

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string
