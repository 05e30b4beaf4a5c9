package api

import (
	"fmt"
	"strconv"
)

const taggingPrefix = "/api/content_tagging/v1"

// ListTaxonomies returns the taxonomies available to an org. An empty org
// lists every taxonomy.
func (c *Client) ListTaxonomies(org string, enabledOnly bool) ([]Taxonomy, error) {
	params := QueryParams{}
	if org != "" {
		params["org"] = org
	}
	if enabledOnly {
		params["enabled"] = "true"
	}
	data, err := c.get(buildQuery(taggingPrefix+"/taxonomies/", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Taxonomy](data)
}

// TaxonomyTags returns one page of a taxonomy's tags under q.ParentTag.
func (c *Client) TaxonomyTags(taxonomyID int, q TagQuery) (*TaxonomyTagPage, error) {
	params := QueryParams{}
	if q.ParentTag != "" {
		params["parent_tag"] = q.ParentTag
	}
	if q.SearchTerm != "" {
		params["search_term"] = q.SearchTerm
	}
	if q.Page > 1 {
		params["page"] = strconv.Itoa(q.Page)
	}
	data, err := c.get(buildQuery(fmt.Sprintf("%s/taxonomies/%d/tags/", taggingPrefix, taxonomyID), params))
	if err != nil {
		return nil, err
	}
	return decodeOne[TaxonomyTagPage](data)
}
