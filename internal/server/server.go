// Package server exposes the catalog engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/iwvelando/catalog-quota/internal/engine"
	"github.com/iwvelando/catalog-quota/internal/optimizer"
	"github.com/iwvelando/catalog-quota/pkg/compare"
	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/filter"
	"github.com/iwvelando/catalog-quota/pkg/ordering"
	"github.com/iwvelando/catalog-quota/pkg/pricing"
)

// Options configures the HTTP handler.
type Options struct {
	MaxBodySize int64
	Version     string
	// Gatherer backs /metrics. The endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

type handler struct {
	logger      *zap.Logger
	engine      *engine.Engine
	maxBodySize int64
	version     string
	validate    *validator.Validate
}

// NewHandler constructs the HTTP handler serving the catalog API.
func NewHandler(logger *zap.Logger, eng *engine.Engine, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      eng,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		validate:    validator.New(),
	}

	r := chi.NewRouter()
	r.Use(
		recoverer(logger),
		requestID,
		requestLogger(logger),
	)

	r.Get("/healthz", h.handleHealth)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Post("/catalog", h.handleCatalog)
		r.Post("/compare", h.handleCompare)
		r.Get("/quote", h.handleQuote)
		r.Get("/plans", h.handlePlans)
		r.Get("/affordability", h.handleAffordability)
		r.Get("/products/{id}", h.handleProduct)
		r.Post("/query/export", h.handleQueryExport)
	})

	return r
}

type compareRequest struct {
	IDs      []string `json:"ids" validate:"dive,required"`
	FieldSet string   `json:"fieldSet"`
}

type quoteParams struct {
	Price          float64 `validate:"gt=0"`
	Term           int
	InitialPercent float64 `validate:"gte=0,lte=100"`
}

type affordParams struct {
	Budget         float64 `validate:"gt=0"`
	Term           int
	InitialPercent float64 `validate:"gte=0,lte=100"`
	Limit          int     `validate:"gte=0,lte=100"`
}

type productResponse struct {
	engine.Listing
	Plans []pricing.Quote `json:"plans"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCatalog"

	var state engine.AppState
	if !h.decodeBody(w, r, &state, op) {
		return
	}

	view, err := h.engine.Run(state)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	var req compareRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid comparison request: %v", err), op)
		return
	}

	comparison, err := h.engine.Compare(req.IDs, req.FieldSet)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, comparison)
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"

	params, err := h.parseQuoteParams(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	quote, err := h.engine.Calculator().Quote(params.Price, params.Term, params.InitialPercent)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

func (h *handler) handlePlans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePlans"

	params, err := h.parseQuoteParams(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	plans, err := h.engine.Calculator().Plans(params.Price, params.InitialPercent)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAffordability"

	query := r.URL.Query()
	params := affordParams{InitialPercent: h.engine.Calculator().DefaultInitialPercent()}

	budget, err := strconv.ParseFloat(strings.TrimSpace(query.Get("budget")), 64)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid budget %q", query.Get("budget")), op)
		return
	}
	params.Budget = budget

	for name, dst := range map[string]*int{"term": &params.Term, "limit": &params.Limit} {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw), op)
			return
		}
		*dst = value
	}
	if raw := strings.TrimSpace(query.Get("initial")); raw != "" {
		initial, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(initial) || math.IsInf(initial, 0) {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid initial percent %q", raw), op)
			return
		}
		params.InitialPercent = initial
	}

	if err := h.validate.Struct(params); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid affordability parameters: %v", err), op)
		return
	}

	result, err := h.engine.Affordable(params.Budget, params.Term, params.InitialPercent, params.Limit)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleProduct(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProduct"

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	listing, ok := h.engine.Product(id)
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("%v: %q", compare.ErrUnknownProduct, id), op)
		return
	}

	calc := h.engine.Calculator()
	plans, err := calc.Plans(listing.Product.Price, calc.DefaultInitialPercent())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, productResponse{Listing: listing, Plans: plans})
}

// handleQueryExport renders an app state as the query section of a config file.
func (h *handler) handleQueryExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQueryExport"

	var state engine.AppState
	if !h.decodeBody(w, r, &state, op) {
		return
	}

	yamlBytes, err := marshalQueryYAML(state)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode query: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) parseQuoteParams(r *http.Request) (quoteParams, error) {
	calc := h.engine.Calculator()
	query := r.URL.Query()
	params := quoteParams{
		Term:           calc.DefaultTerm(),
		InitialPercent: calc.DefaultInitialPercent(),
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(query.Get("price")), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return params, fmt.Errorf("invalid price %q", query.Get("price"))
	}
	params.Price = price

	if raw := strings.TrimSpace(query.Get("term")); raw != "" {
		term, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid term %q", raw)
		}
		params.Term = term
	}
	if raw := strings.TrimSpace(query.Get("initial")); raw != "" {
		initial, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(initial) || math.IsInf(initial, 0) {
			return params, fmt.Errorf("invalid initial percent %q", raw)
		}
		params.InitialPercent = initial
	}

	if err := h.validate.Struct(params); err != nil {
		return params, fmt.Errorf("invalid quote parameters: %w", err)
	}
	return params, nil
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var termErr *pricing.InvalidTermError
	var sizeErr *compare.InvalidComparisonSizeError
	switch {
	case errors.Is(err, compare.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.As(err, &termErr),
		errors.As(err, &sizeErr),
		errors.Is(err, pricing.ErrInvalidInitialPercent),
		errors.Is(err, pricing.ErrInvalidPrice),
		errors.Is(err, optimizer.ErrInvalidBudget),
		errors.Is(err, compare.ErrDuplicateProduct),
		errors.Is(err, compare.ErrUnknownFieldSet),
		errors.Is(err, ordering.ErrUnknownSortKey),
		errors.Is(err, filter.ErrUnknownDimension):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// marshalQueryYAML renders state under a query key with scalar settings first.
func marshalQueryYAML(state engine.AppState) ([]byte, error) {
	filters, err := filtersMap(state.Filters)
	if err != nil {
		return nil, err
	}

	items := []orderedItem{
		{key: "sort", value: state.Sort},
		{key: "page", value: state.Page},
		{key: "pageSize", value: state.PageSize},
		{key: "fieldSet", value: state.FieldSet},
		{key: "facets", value: nonNil(state.Facets)},
		{key: "compare", value: nonNil(state.Compare)},
		{key: "filters", value: filters},
	}

	return yaml.Marshal(map[string]orderedConfig{"query": {items: items}})
}

// filtersMap drops unset filters by round-tripping through their JSON form.
func filtersMap(s filter.FilterState) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any)
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("catalog request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
