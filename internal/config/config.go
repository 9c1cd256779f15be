// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/filter"
	"github.com/iwvelando/catalog-quota/pkg/validation"
)

// Configuration holds all configuration for catalog-quota.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Pricing PricingConfig `yaml:"pricing,omitempty"`
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
	Query   QueryConfig   `yaml:"query,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"` // pretty, csv
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
}

// PricingConfig holds the installment plans offered on the catalog.
type PricingConfig struct {
	Terms                 []int   `yaml:"terms,omitempty"`
	DefaultTerm           int     `yaml:"defaultTerm,omitempty"`
	DefaultInitialPercent float64 `yaml:"defaultInitialPercent,omitempty"`
}

// CatalogConfig selects where products are loaded from.
type CatalogConfig struct {
	Source         string        `yaml:"source,omitempty"` // mock, file, api
	Path           string        `yaml:"path,omitempty"`
	URL            string        `yaml:"url,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	MockSize       int           `yaml:"mockSize,omitempty"`
	MockSeed       int64         `yaml:"mockSeed,omitempty"`
	FacetCacheSize int           `yaml:"facetCacheSize,omitempty"`
}

// QueryConfig is the catalog view rendered by a one-shot run.
type QueryConfig struct {
	Filters  filter.FilterState `yaml:"filters,omitempty"`
	Sort     string             `yaml:"sort,omitempty"`
	Page     int                `yaml:"page,omitempty"`
	PageSize int                `yaml:"pageSize,omitempty"`
	Facets   []string           `yaml:"facets,omitempty"`
	Compare  []string           `yaml:"compare,omitempty"`
	FieldSet string             `yaml:"fieldSet,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.currencySymbol", constants.DefaultCurrencySymbol)
	v.SetDefault("pricing.terms", constants.SupportedTerms)
	v.SetDefault("pricing.defaultTerm", constants.DefaultTermMonths)
	v.SetDefault("pricing.defaultInitialPercent", constants.DefaultInitialPercent)
	v.SetDefault("catalog.source", constants.SourceMock)
	v.SetDefault("catalog.timeout", constants.DefaultFetchTimeoutSeconds*time.Second)
	v.SetDefault("catalog.mockSize", constants.DefaultMockSize)
	v.SetDefault("catalog.mockSeed", constants.DefaultMockSeed)
	v.SetDefault("catalog.facetCacheSize", constants.DefaultFacetCacheSize)
	v.SetDefault("query.pageSize", constants.DefaultPageSize)
}

// flagKeys maps command line flags onto the configuration keys they override.
var flagKeys = map[string]string{
	"output-format": "output.format",
	"log-level":     "logging.level",
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	return LoadConfigurationWithFlags(configPath, nil)
}

// LoadConfigurationWithFlags loads the configuration at configPath. Flags in flags
// that were set on the command line take precedence over the file.
func LoadConfigurationWithFlags(configPath string, flags *pflag.FlagSet) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix("CATALOG")
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	setDefaults(v)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	v := viper.New()
	setDefaults(v)
	conf, err := decode(v)
	if err != nil {
		panic(err)
	}
	return conf
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		warnings = append(warnings, err.Error())
	}
	warnings = append(warnings, validation.ValidatePricing(c.Pricing.Terms, c.Pricing.DefaultTerm, c.Pricing.DefaultInitialPercent)...)
	if err := validation.ValidateCatalogSource(c.Catalog.Source, c.Catalog.Path, c.Catalog.URL); err != nil {
		warnings = append(warnings, err.Error())
	}
	if c.Catalog.Source == constants.SourceMock && c.Catalog.MockSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("Mock catalog size %d is not positive, the default %d is used", c.Catalog.MockSize, constants.DefaultMockSize))
	}
	if c.Query.Sort != "" {
		if err := validation.ValidateSortKey(c.Query.Sort); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if c.Query.FieldSet != "" {
		if err := validation.ValidateFieldSet(c.Query.FieldSet); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	warnings = append(warnings, validation.ValidatePagination(c.Query.Page, c.Query.PageSize)...)
	warnings = append(warnings, validation.ValidateFilterState(c.Query.Filters)...)

	return warnings
}
