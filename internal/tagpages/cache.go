// Package tagpages caches pages of taxonomy tags while a user browses a
// taxonomy level by level.
package tagpages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gravitrone/tagdrawer/internal/api"
	"github.com/gravitrone/tagdrawer/internal/debug"
)

// maxParallelPages bounds how many pages of one level load at once.
const maxParallelPages = 4

// Fetcher loads one page of taxonomy tags.
type Fetcher interface {
	TaxonomyTags(taxonomyID int, q api.TagQuery) (*api.TaxonomyTagPage, error)
}

type pageKey struct {
	taxonomyID int
	parent     string
	page       int
	search     string
}

func (k pageKey) String() string {
	return fmt.Sprintf("%d|%s|%d|%s", k.taxonomyID, k.parent, k.page, k.search)
}

// Level is the loaded state of one taxonomy level.
type Level struct {
	Tags    []api.TaxonomyTag
	HasMore bool
}

// Cache stores fetched pages keyed by taxonomy, parent tag, page and search
// term. It is safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	group   singleflight.Group

	mu    sync.RWMutex
	pages map[pageKey]*api.TaxonomyTagPage
}

// New returns an empty cache backed by fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		pages:   map[pageKey]*api.TaxonomyTagPage{},
	}
}

// Level loads pages 1..numPages of the tags under parent (empty for the root
// level). Tags returned for other parents, as search results carry their
// ancestors and descendants, are kept as page 1 of their own parent.
func (c *Cache) Level(ctx context.Context, taxonomyID int, parent string, numPages int, search string) (Level, error) {
	if numPages < 1 {
		numPages = 1
	}
	start := time.Now()
	pages := make([]*api.TaxonomyTagPage, numPages)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPages)
	for i := 0; i < numPages; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := c.page(pageKey{taxonomyID: taxonomyID, parent: parent, page: i + 1, search: search})
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Level{}, err
	}

	var level Level
	preload := map[string][]api.TaxonomyTag{}
	var order []string
	for _, page := range pages {
		for _, tag := range page.Results {
			if tag.ParentValue == parent {
				level.Tags = append(level.Tags, tag)
				continue
			}
			if _, ok := preload[tag.ParentValue]; !ok {
				order = append(order, tag.ParentValue)
			}
			preload[tag.ParentValue] = append(preload[tag.ParentValue], tag)
		}
	}
	for _, p := range order {
		c.storeIfAbsent(pageKey{taxonomyID: taxonomyID, parent: p, page: 1, search: search}, preload[p])
	}

	level.HasMore = numPages < pages[0].NumPages
	debug.LogTiming(fmt.Sprintf("tagpages.Level(%d, %q, %d)", taxonomyID, parent, numPages), time.Since(start))
	return level, nil
}

// Invalidate drops every cached page of a taxonomy.
func (c *Cache) Invalidate(taxonomyID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.pages {
		if k.taxonomyID == taxonomyID {
			delete(c.pages, k)
		}
	}
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

func (c *Cache) page(key pageKey) (*api.TaxonomyTagPage, error) {
	c.mu.RLock()
	page, ok := c.pages[key]
	c.mu.RUnlock()
	if ok {
		return page, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		cached, ok := c.pages[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		page, err := c.fetcher.TaxonomyTags(key.taxonomyID, api.TagQuery{
			ParentTag:  key.parent,
			SearchTerm: key.search,
			Page:       key.page,
		})
		if err != nil {
			return nil, fmt.Errorf("load tags of taxonomy %d page %d: %w", key.taxonomyID, key.page, err)
		}
		c.mu.Lock()
		c.pages[key] = page
		c.mu.Unlock()
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.TaxonomyTagPage), nil
}

func (c *Cache) storeIfAbsent(key pageKey, tags []api.TaxonomyTag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pages[key]; ok {
		return
	}
	c.pages[key] = &api.TaxonomyTagPage{
		Count:       len(tags),
		NumPages:    1,
		CurrentPage: 1,
		Results:     tags,
	}
}
