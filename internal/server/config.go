package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/iwvelando/catalog-quota/internal/config"
	"github.com/iwvelando/catalog-quota/pkg/constants"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string `yaml:"address"`
	MaxBodySize string `yaml:"maxBodySize"`
	// ReadHeaderTimeout and WriteTimeout bound each request; ShutdownTimeout bounds
	// the drain of in-flight requests on exit.
	ReadHeaderTimeout time.Duration        `yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration        `yaml:"writeTimeout"`
	ShutdownTimeout   time.Duration        `yaml:"shutdownTimeout"`
	DisableMetrics    bool                 `yaml:"disableMetrics"`
	Logging           config.LoggingConfig `yaml:"logging"`

	bodySizeBytes int64
}

// sizeUnits maps size suffixes onto byte multipliers.
var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// DefaultConfig returns the server configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Address:           constants.DefaultServerAddress,
		MaxBodySize:       strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		ShutdownTimeout:   constants.ShutdownTimeout,
		bodySizeBytes:     constants.DefaultMaxBodySizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. A missing file or an empty
// path yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the request body limit. Non-positive sizes are ignored.
func (c *Config) SetBodySizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.bodySizeBytes = size
	c.MaxBodySize = strconv.FormatInt(size, 10)
}

// normalize fills zero values with defaults and resolves MaxBodySize.
func (c *Config) normalize() error {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.Address) == "" {
		c.Address = defaults.Address
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}

	size, err := ParseSize(c.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = size
	c.MaxBodySize = strconv.FormatInt(size, 10)
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10MB") into bytes.
// The empty string yields the default request body limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	unit := strings.TrimSpace(trimmed[len(digits):])

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > 0 && n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
