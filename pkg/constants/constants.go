// Package constants provides shared constants for the catalog-quota application.
package constants

import "time"

// ReleaseDateLayout is the month-precision layout used for product release dates.
const ReleaseDateLayout = "2006-01"

// Financing constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DefaultTermMonths is the installment term used whenever a single quota is
	// displayed, filtered on, sorted by or compared.
	DefaultTermMonths = 24

	// DefaultInitialPercent is the initial payment percent paired with DefaultTermMonths.
	DefaultInitialPercent = 10.0

	// MaxInitialPercent is the upper bound for an initial payment percent.
	MaxInitialPercent = 100.0
)

// SupportedTerms lists the installment terms offered on the catalog.
var SupportedTerms = []int{12, 18, 24, 36}

// Comparison constants
const (
	// MinComparedProducts is the smallest comparison set accepted.
	MinComparedProducts = 2

	// MaxComparedProducts is the largest comparison set accepted.
	MaxComparedProducts = 4
)

// Catalog constants
const (
	// LimitedStockThreshold is the stock quantity at or below which a product is
	// considered limited.
	LimitedStockThreshold = 5

	// DefaultPageSize is the default number of products per page.
	DefaultPageSize = 12

	// MaxPageSize caps the page size accepted from callers.
	MaxPageSize = 100

	// DefaultMockSize is the size of the generated mock catalog.
	DefaultMockSize = 60

	// DefaultMockSeed seeds the mock catalog generator.
	DefaultMockSeed = 42

	// DefaultFacetCacheSize is the number of filter states memoized per catalog.
	DefaultFacetCacheSize = 256
)

// Catalog source constants
const (
	// SourceMock selects the generated mock catalog.
	SourceMock = "mock"

	// SourceFile selects a JSON catalog on disk.
	SourceFile = "file"

	// SourceAPI selects a catalog fetched over HTTP.
	SourceAPI = "api"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// DefaultCurrencySymbol prefixes formatted amounts.
	DefaultCurrencySymbol = "$"
)

// Configuration file constants
const (
	// ProgramName names the command line flag set.
	ProgramName = "catalog-quota"

	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultFetchTimeoutSeconds bounds the catalog HTTP fetch.
	DefaultFetchTimeoutSeconds = 10

	// DefaultReadHeaderTimeout bounds reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing a response.
	DefaultWriteTimeout = 30 * time.Second

	// ShutdownTimeout bounds the graceful drain of in-flight requests.
	ShutdownTimeout = 5 * time.Second
)

// Validation constants
const (
	// ValueTolerance is the tolerance used when deciding whether compared values differ.
	ValueTolerance = 1e-9

	// MaxSearchPrice is the ceiling of the affordable price search.
	MaxSearchPrice = 1000000.0

	// MaxSearchIterations bounds the affordable price bisection.
	MaxSearchIterations = 64

	// CurrencyUnit is the rounding unit for quotas and initial payments.
	CurrencyUnit = 1.0
)
