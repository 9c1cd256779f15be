package filter

import (
	"reflect"
	"testing"

	"github.com/iwvelando/catalog-quota/pkg/testutil"
)

func TestFacetCacheHitsEquivalentStates(t *testing.T) {
	engine := newTestEngine()
	catalog := testutil.Catalog()

	cache, err := NewFacetCache(engine, catalog, 8)
	if err != nil {
		t.Fatalf("NewFacetCache() error = %v", err)
	}

	first, hit, err := cache.Facets(FilterState{Brands: []string{"HP", "dell"}}, DimBrand, DimRAM)
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}
	if hit {
		t.Error("first Facets() call reported a cache hit")
	}

	second, hit, err := cache.Facets(FilterState{Brands: []string{"dell", "hp"}}, DimRAM, DimBrand)
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}
	if !hit {
		t.Error("equivalent state missed the cache")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached facets %v differ from computed %v", second, first)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", cache.Len())
	}
}

func TestFacetCacheReturnsCopies(t *testing.T) {
	cache, err := NewFacetCache(newTestEngine(), testutil.Catalog(), 4)
	if err != nil {
		t.Fatalf("NewFacetCache() error = %v", err)
	}

	first, _, err := cache.Facets(FilterState{}, DimBrand)
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}
	first[DimBrand]["hp"] = 1000

	second, _, err := cache.Facets(FilterState{}, DimBrand)
	if err != nil {
		t.Fatalf("Facets() error = %v", err)
	}
	if second[DimBrand]["hp"] != 2 {
		t.Errorf("cached count for hp = %d, expected 2", second[DimBrand]["hp"])
	}
}

func TestFacetCacheEvictsAndPurges(t *testing.T) {
	cache, err := NewFacetCache(newTestEngine(), testutil.Catalog(), 2)
	if err != nil {
		t.Fatalf("NewFacetCache() error = %v", err)
	}

	for _, brand := range []string{"hp", "dell", "apple"} {
		if _, _, err := cache.Facets(FilterState{Brands: []string{brand}}); err != nil {
			t.Fatalf("Facets() error = %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, expected 2 after eviction", cache.Len())
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after Purge()", cache.Len())
	}
}

func TestNewFacetCacheRejectsInvalidSize(t *testing.T) {
	if _, err := NewFacetCache(newTestEngine(), nil, 0); err == nil {
		t.Error("NewFacetCache(size 0) expected error")
	}
}
