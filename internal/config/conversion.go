package config

import (
	"github.com/iwvelando/catalog-quota/internal/catalog"
	"github.com/iwvelando/catalog-quota/internal/engine"
	"github.com/iwvelando/catalog-quota/pkg/pricing"
)

// ToCalculator builds the pricing calculator for the configured plans.
func (c *Configuration) ToCalculator() (*pricing.Calculator, error) {
	return pricing.NewCalculator(c.Pricing.Terms, c.Pricing.DefaultTerm, c.Pricing.DefaultInitialPercent)
}

// ToSource converts the catalog section into a catalog.Source.
func (c *Configuration) ToSource() catalog.Source {
	return catalog.Source{
		Kind:     c.Catalog.Source,
		Path:     c.Catalog.Path,
		URL:      c.Catalog.URL,
		Timeout:  c.Catalog.Timeout,
		MockSize: c.Catalog.MockSize,
		MockSeed: c.Catalog.MockSeed,
	}
}

// ToAppState converts the query section into the engine's app state.
func (c *Configuration) ToAppState() engine.AppState {
	return engine.AppState{
		Filters:  c.Query.Filters,
		Sort:     c.Query.Sort,
		Page:     c.Query.Page,
		PageSize: c.Query.PageSize,
		Facets:   append([]string(nil), c.Query.Facets...),
		Compare:  append([]string(nil), c.Query.Compare...),
		FieldSet: c.Query.FieldSet,
	}
}

// EngineOptions returns the engine options implied by the configuration.
func (c *Configuration) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithFacetCacheSize(c.Catalog.FacetCacheSize),
		engine.WithCurrencySymbol(c.Output.CurrencySymbol),
	}
}
