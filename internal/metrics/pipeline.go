// Package metrics exposes Prometheus collectors for the catalog pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records catalog evaluation activity. A nil *PipelineMetrics, or
// one built without a registerer, records nothing.
type PipelineMetrics struct {
	runDuration  *prometheus.HistogramVec
	matched      prometheus.Histogram
	facetLookups *prometheus.CounterVec
	comparisons  *prometheus.CounterVec
	warnings     prometheus.Counter
	catalogSize  prometheus.Gauge
	catalogLoads *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_run_duration_seconds",
		Help:    "Duration of catalog evaluations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	matched := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_matched_products",
		Help:    "Number of products matching a filter state.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	facetLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_facet_lookups_total",
		Help: "Facet count lookups by cache result.",
	}, []string{"result"})
	comparisons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_comparisons_total",
		Help: "Product comparisons by field set.",
	}, []string{"field_set"})
	warnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_filter_warnings_total",
		Help: "Filter state warnings reported to callers.",
	})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Number of products in the loaded catalog.",
	})
	catalogLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Catalog loads by source and outcome.",
	}, []string{"source", "outcome"})
	reg.MustRegister(runDuration, matched, facetLookups, comparisons, warnings, catalogSize, catalogLoads)
	return &PipelineMetrics{
		runDuration:  runDuration,
		matched:      matched,
		facetLookups: facetLookups,
		comparisons:  comparisons,
		warnings:     warnings,
		catalogSize:  catalogSize,
		catalogLoads: catalogLoads,
	}
}

// ObserveRun records the duration of one operation.
func (m *PipelineMetrics) ObserveRun(operation string, duration time.Duration) {
	if m == nil || m.runDuration == nil {
		return
	}
	m.runDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// ObserveMatched records the size of a filtered result.
func (m *PipelineMetrics) ObserveMatched(n int) {
	if m == nil || m.matched == nil {
		return
	}
	m.matched.Observe(float64(n))
}

// IncFacetLookup counts a facet computation as a cache hit or miss.
func (m *PipelineMetrics) IncFacetLookup(hit bool) {
	if m == nil || m.facetLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.facetLookups.WithLabelValues(result).Inc()
}

// IncComparison counts a comparison under fieldSet.
func (m *PipelineMetrics) IncComparison(fieldSet string) {
	if m == nil || m.comparisons == nil {
		return
	}
	m.comparisons.WithLabelValues(normalizeLabel(fieldSet)).Inc()
}

// AddWarnings counts filter warnings.
func (m *PipelineMetrics) AddWarnings(n int) {
	if m == nil || m.warnings == nil || n <= 0 {
		return
	}
	m.warnings.Add(float64(n))
}

// SetCatalogSize records the loaded catalog size.
func (m *PipelineMetrics) SetCatalogSize(n int) {
	if m == nil || m.catalogSize == nil {
		return
	}
	m.catalogSize.Set(float64(n))
}

// IncCatalogLoad counts a catalog load attempt.
func (m *PipelineMetrics) IncCatalogLoad(source string, err error) {
	if m == nil || m.catalogLoads == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.catalogLoads.WithLabelValues(normalizeLabel(source), outcome).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
