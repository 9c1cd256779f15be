// Package engine runs the catalog pipeline: filtering, faceting, ordering,
// pagination and comparison over a loaded catalog.
package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iwvelando/catalog-quota/internal/metrics"
	"github.com/iwvelando/catalog-quota/internal/optimizer"
	"github.com/iwvelando/catalog-quota/pkg/compare"
	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/filter"
	"github.com/iwvelando/catalog-quota/pkg/ordering"
	"github.com/iwvelando/catalog-quota/pkg/pricing"
	"github.com/iwvelando/catalog-quota/pkg/product"
	"github.com/iwvelando/catalog-quota/pkg/validation"
)

// AppState is everything a caller controls about one catalog view.
type AppState struct {
	Filters  filter.FilterState `json:"filters"`
	Sort     string             `json:"sort,omitempty"`
	Page     int                `json:"page,omitempty"`
	PageSize int                `json:"pageSize,omitempty"`
	Facets   []string           `json:"facets,omitempty"`
	Compare  []string           `json:"compare,omitempty"`
	FieldSet string             `json:"fieldSet,omitempty"`
}

// Listing pairs a product with its default-plan quote.
type Listing struct {
	Product product.Product `json:"product"`
	Quote   pricing.Quote   `json:"quote"`
}

// Comparison is the side-by-side view of the selected products.
type Comparison struct {
	FieldSet        compare.FieldSet         `json:"fieldSet"`
	Products        []Listing                `json:"products"`
	Specs           []compare.ComparableSpec `json:"specs"`
	PriceDifference compare.PriceDifference  `json:"priceDifference"`
	Wins            []int                    `json:"wins"`
}

// View is the result of running an AppState against the catalog.
type View struct {
	Total      int           `json:"total"`
	Matched    int           `json:"matched"`
	Sort       ordering.Key  `json:"sort"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Pages      int           `json:"pages"`
	Items      []Listing     `json:"items"`
	Facets     filter.Facets `json:"facets"`
	Comparison *Comparison   `json:"comparison,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// Affordability lists the catalog products a monthly budget covers.
type Affordability struct {
	Summary optimizer.Summary `json:"summary"`
	Matched int               `json:"matched"`
	Items   []Listing         `json:"items"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records pipeline activity on m.
func WithMetrics(m *metrics.PipelineMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithFacetCacheSize sets how many facet results are memoized. Zero disables the cache.
func WithFacetCacheSize(size int) Option {
	return func(e *Engine) {
		e.facetCacheSize = size
	}
}

// WithCurrencySymbol sets the symbol used in comparison display strings.
func WithCurrencySymbol(symbol string) Option {
	return func(e *Engine) {
		e.currencySymbol = symbol
	}
}

// Engine evaluates app states over a fixed catalog. It is safe for concurrent use.
type Engine struct {
	logger         *zap.Logger
	products       []product.Product
	calc           *pricing.Calculator
	filters        *filter.Engine
	facets         *filter.FacetCache
	metrics        *metrics.PipelineMetrics
	facetCacheSize int
	currencySymbol string
	budgets        *optimizer.Runner
}

// New creates an Engine over products. A nil calculator uses the default plans.
func New(logger *zap.Logger, products []product.Product, calc *pricing.Calculator, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = pricing.DefaultCalculator()
	}

	e := &Engine{
		logger:         logger,
		products:       products,
		calc:           calc,
		filters:        filter.NewEngine(calc),
		facetCacheSize: constants.DefaultFacetCacheSize,
		currencySymbol: constants.DefaultCurrencySymbol,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.facetCacheSize > 0 {
		cache, err := filter.NewFacetCache(e.filters, products, e.facetCacheSize)
		if err != nil {
			return nil, err
		}
		e.facets = cache
	}

	e.budgets = optimizer.NewRunner(logger, calc, optimizer.Config{}, e.currencySymbol)
	e.metrics.SetCatalogSize(len(products))
	return e, nil
}

// Products returns the catalog.
func (e *Engine) Products() []product.Product {
	return e.products
}

// Calculator returns the pricing calculator used for every quote.
func (e *Engine) Calculator() *pricing.Calculator {
	return e.calc
}

// Product looks up one product and its default quote.
func (e *Engine) Product(id string) (Listing, bool) {
	p, ok := product.FindByID(e.products, id)
	if !ok {
		return Listing{}, false
	}
	return e.listing(p), true
}

// Run filters, facets, sorts and paginates the catalog for state, and compares the
// selected products when any are given. Unmatchable filters and unusable comparison
// selections are reported as warnings; unknown sort keys, field sets, facet
// dimensions and product ids are errors.
func (e *Engine) Run(state AppState) (*View, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveRun("run", time.Since(start))
	}()

	key, err := ordering.ParseKey(state.Sort)
	if err != nil {
		return nil, err
	}
	dims, err := parseDimensions(state.Facets)
	if err != nil {
		return nil, err
	}

	warnings := validation.ValidateFilterState(state.Filters)
	warnings = append(warnings, validation.ValidatePagination(state.Page, state.PageSize)...)

	matched := e.filters.Apply(e.products, state.Filters)
	e.metrics.ObserveMatched(len(matched))

	facets, err := e.computeFacets(state.Filters, dims)
	if err != nil {
		return nil, err
	}

	sorted, err := ordering.Sort(matched, key, e.calc)
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(state.Page, state.PageSize)
	view := &View{
		Total:    len(e.products),
		Matched:  len(matched),
		Sort:     key,
		Page:     page,
		PageSize: pageSize,
		Pages:    (len(sorted) + pageSize - 1) / pageSize,
		Items:    make([]Listing, 0, pageSize),
		Facets:   facets,
	}
	from := len(sorted)
	if page < view.Pages {
		from = page * pageSize
	}
	to := from + pageSize
	if to > len(sorted) {
		to = len(sorted)
	}
	for _, p := range sorted[from:to] {
		view.Items = append(view.Items, e.listing(p))
	}

	if len(state.Compare) > 0 {
		comparison, err := e.Compare(state.Compare, state.FieldSet)
		var sizeErr *compare.InvalidComparisonSizeError
		switch {
		case errors.As(err, &sizeErr):
			warnings = append(warnings, fmt.Sprintf("Comparison skipped: %v", err))
		case err != nil:
			return nil, err
		default:
			view.Comparison = comparison
		}
	}

	for _, w := range warnings {
		e.logger.Warn("Catalog state warning: "+w,
			zap.String("op", "engine.Run"),
		)
	}
	e.metrics.AddWarnings(len(warnings))
	view.Warnings = warnings

	e.logger.Debug("catalog state evaluated",
		zap.String("op", "engine.Run"),
		zap.Int("matched", view.Matched),
		zap.Int("total", view.Total),
		zap.String("sort", string(key)),
		zap.Int("page", page),
	)
	return view, nil
}

// Compare builds the comparison of the products with the given ids, in order.
func (e *Engine) Compare(ids []string, fieldSet string) (*Comparison, error) {
	fs, err := compare.ParseFieldSet(fieldSet)
	if err != nil {
		return nil, err
	}
	comparator, err := compare.NewComparator(e.calc, fs)
	if err != nil {
		return nil, err
	}
	comparator = comparator.WithCurrencySymbol(e.currencySymbol)

	selected, err := compare.Select(e.products, ids)
	if err != nil {
		return nil, err
	}
	specs, err := comparator.CompareSpecs(selected)
	if err != nil {
		return nil, err
	}
	diff, err := comparator.PriceDifference(selected)
	if err != nil {
		return nil, err
	}

	comparison := &Comparison{
		FieldSet:        fs,
		Products:        make([]Listing, 0, len(selected)),
		Specs:           specs,
		PriceDifference: diff,
		Wins:            compare.Summary(specs),
	}
	for _, p := range selected {
		comparison.Products = append(comparison.Products, e.listing(p))
	}

	e.metrics.IncComparison(string(fs))
	e.logger.Debug("products compared",
		zap.String("op", "engine.Compare"),
		zap.Strings("ids", ids),
		zap.String("fieldSet", string(fs)),
		zap.Float64("annualSaving", diff.AnnualSaving),
	)
	return comparison, nil
}

// Affordable finds the highest price budget covers under the given plan and lists
// the most expensive products at or below it, quoted with that plan. A zero term
// selects the default term.
func (e *Engine) Affordable(budget float64, termMonths int, initialPercent float64, limit int) (*Affordability, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveRun("affordable", time.Since(start))
	}()

	summary, err := e.budgets.MaxPrice(budget, termMonths, initialPercent)
	if err != nil {
		return nil, err
	}

	covered := e.filters.Apply(e.products, filter.FilterState{
		PriceRange: &filter.Range{Min: 0, Max: summary.MaxPrice},
	})
	sorted, err := ordering.Sort(covered, ordering.PriceDesc, e.calc)
	if err != nil {
		return nil, err
	}

	_, limit = normalizePage(0, limit)
	if limit > len(sorted) {
		limit = len(sorted)
	}
	result := &Affordability{
		Summary: summary,
		Matched: len(covered),
		Items:   make([]Listing, 0, limit),
	}
	for _, p := range sorted[:limit] {
		q, err := e.calc.Quote(p.Price, summary.TermMonths, initialPercent)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, Listing{Product: p, Quote: q})
	}

	e.logger.Debug("budget evaluated",
		zap.String("op", "engine.Affordable"),
		zap.Float64("budget", budget),
		zap.Float64("maxPrice", summary.MaxPrice),
		zap.Int("matched", result.Matched),
	)
	return result, nil
}

func (e *Engine) computeFacets(s filter.FilterState, dims []filter.Dimension) (filter.Facets, error) {
	if e.facets == nil {
		return e.filters.Facets(e.products, s, dims...)
	}
	facets, hit, err := e.facets.Facets(s, dims...)
	if err != nil {
		return nil, err
	}
	e.metrics.IncFacetLookup(hit)
	return facets, nil
}

func (e *Engine) listing(p product.Product) Listing {
	return Listing{Product: p, Quote: e.calc.DefaultQuote(p.Price)}
}

func parseDimensions(names []string) ([]filter.Dimension, error) {
	dims := make([]filter.Dimension, 0, len(names))
	for _, name := range names {
		d, err := filter.ParseDimension(name)
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// normalizePage clamps page to zero or more and pageSize to (0, MaxPageSize].
func normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
