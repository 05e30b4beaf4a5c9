package api

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentTaxonomyTags returns the tags applied to a content object, grouped
// by taxonomy.
func (c *Client) ContentTaxonomyTags(contentID string) (*ContentTaxonomyTags, error) {
	data, err := c.get(fmt.Sprintf("%s/object_tags/%s/", taggingPrefix, url.PathEscape(contentID)))
	if err != nil {
		return nil, err
	}
	return decodeOne[ContentTaxonomyTags](data)
}

// UpdateContentTags replaces the tags a content object carries in one
// taxonomy.
func (c *Client) UpdateContentTags(contentID string, taxonomyID int, tags []string) (*ContentTaxonomyTags, error) {
	if tags == nil {
		tags = []string{}
	}
	path := buildQuery(
		fmt.Sprintf("%s/object_tags/%s/", taggingPrefix, url.PathEscape(contentID)),
		QueryParams{"taxonomy": fmt.Sprintf("%d", taxonomyID)},
	)
	data, err := c.put(path, UpdateContentTagsInput{Tags: tags})
	if err != nil {
		return nil, err
	}
	return decodeOne[ContentTaxonomyTags](data)
}

// ContentData returns display metadata for a content object.
func (c *Client) ContentData(contentID string) (*ContentData, error) {
	data, err := c.get("/api/contentstore/v1/content/" + url.PathEscape(contentID))
	if err != nil {
		return nil, err
	}
	return decodeOne[ContentData](data)
}

// OrgFromContentID extracts the org from a usage or library key such as
// "block-v1:Org+Course+Run+type@html+block@1" or "lb:Org:lib:html:1".
func OrgFromContentID(contentID string) (string, bool) {
	head := strings.SplitN(contentID, "+", 2)[0]
	parts := strings.Split(head, ":")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
