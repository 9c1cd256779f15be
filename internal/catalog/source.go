package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iwvelando/catalog-quota/internal/metrics"
	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// ErrEmptyCatalog is returned when a source yields no usable products.
var ErrEmptyCatalog = errors.New("catalog contains no usable products")

// Source describes where the catalog is loaded from.
type Source struct {
	Kind     string
	Path     string
	URL      string
	Timeout  time.Duration
	MockSize int
	MockSeed int64
}

// Load reads the catalog from src and maps it onto products. Records that fail to
// map are logged and skipped; Load fails only when the source cannot be read or
// nothing usable remains.
func Load(ctx context.Context, logger *zap.Logger, src Source, m *metrics.PipelineMetrics) ([]product.Product, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	items, err := read(ctx, logger, src)
	if err != nil {
		m.IncCatalogLoad(src.Kind, err)
		return nil, err
	}

	result := Map(items)
	for _, w := range result.Warnings {
		logger.Warn(w, zap.String("op", "catalog.Load"))
	}
	if result.Err != nil {
		for _, e := range multierr.Errors(result.Err) {
			logger.Warn("skipping catalog record",
				zap.String("op", "catalog.Load"),
				zap.Error(e),
			)
		}
	}
	if len(result.Products) == 0 {
		err = ErrEmptyCatalog
		if result.Err != nil {
			err = fmt.Errorf("%w: %v", ErrEmptyCatalog, result.Err)
		}
		m.IncCatalogLoad(src.Kind, err)
		return nil, err
	}

	m.IncCatalogLoad(src.Kind, nil)
	m.SetCatalogSize(len(result.Products))
	logger.Info("catalog loaded",
		zap.String("op", "catalog.Load"),
		zap.String("source", src.Kind),
		zap.Int("products", len(result.Products)),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result.Products, nil
}

func read(ctx context.Context, logger *zap.Logger, src Source) ([]ApiProduct, error) {
	switch src.Kind {
	case constants.SourceMock, "":
		size := src.MockSize
		if size <= 0 {
			size = constants.DefaultMockSize
		}
		return Generate(size, src.MockSeed), nil
	case constants.SourceFile:
		payload, err := LoadFile(src.Path)
		if err != nil {
			return nil, err
		}
		return payload.Products, nil
	case constants.SourceAPI:
		timeout := src.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultFetchTimeoutSeconds * time.Second
		}
		payload, err := NewClient(logger, timeout).Fetch(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		return payload.Products, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", src.Kind)
	}
}
