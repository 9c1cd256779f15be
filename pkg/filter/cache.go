package filter

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/iwvelando/catalog-quota/pkg/product"
)

// FacetCache memoizes facet counts for one catalog. Entries are keyed by the
// normalized filter state and the requested dimensions, so equivalent states hit
// the same entry. Build a new cache whenever the catalog changes.
type FacetCache struct {
	engine   *Engine
	products []product.Product
	entries  *lru.Cache
}

// NewFacetCache creates a cache holding at most size facet results for products.
func NewFacetCache(engine *Engine, products []product.Product, size int) (*FacetCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create facet cache: %w", err)
	}
	return &FacetCache{engine: engine, products: products, entries: entries}, nil
}

// Facets returns the facet counts for s, computing them on a miss. Callers receive
// their own copy and may modify it freely.
func (c *FacetCache) Facets(s FilterState, dims ...Dimension) (Facets, bool, error) {
	key := cacheKey(s, dims)
	if cached, ok := c.entries.Get(key); ok {
		return cached.(Facets).Clone(), true, nil
	}

	facets, err := c.engine.Facets(c.products, s, dims...)
	if err != nil {
		return nil, false, err
	}
	c.entries.Add(key, facets.Clone())
	return facets, false, nil
}

// Len returns the number of cached results.
func (c *FacetCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result.
func (c *FacetCache) Purge() {
	c.entries.Purge()
}

func cacheKey(s FilterState, dims []Dimension) string {
	names := make([]string, 0, len(dims))
	for _, d := range dims {
		names = append(names, string(d))
	}
	sort.Strings(names)
	return s.Key() + "|" + strings.Join(names, ",")
}
