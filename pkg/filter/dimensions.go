package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/catalog-quota/pkg/mathutil"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// ErrUnknownDimension is returned for dimension names that are not recognized or
// that cannot be faceted.
var ErrUnknownDimension = errors.New("unknown filter dimension")

// Dimension names one independently filterable product attribute.
type Dimension string

const (
	DimDeviceType        Dimension = "device_type"
	DimBrand             Dimension = "brand"
	DimCondition         Dimension = "condition"
	DimGama              Dimension = "gama"
	DimStockStatus       Dimension = "stock_status"
	DimPrice             Dimension = "price"
	DimTouch             Dimension = "touch"
	DimRAMExpandable     Dimension = "ram_expandable"
	DimBacklitKeyboard   Dimension = "backlit_keyboard"
	DimNumpad            Dimension = "numpad"
	DimFingerprintReader Dimension = "fingerprint_reader"
	DimWindowsIncluded   Dimension = "windows_included"
	DimThunderbolt       Dimension = "thunderbolt"
	DimEthernet          Dimension = "ethernet"
	DimRAM               Dimension = "ram"
	DimStorage           Dimension = "storage"
	DimProcessor         Dimension = "processor"
	DimProcessorBrand    Dimension = "processor_brand"
	DimDisplaySize       Dimension = "display_size"
	DimResolution        Dimension = "resolution"
	DimDisplayType       Dimension = "display_type"
	DimGPUType           Dimension = "gpu_type"
	DimUsage             Dimension = "usage"
	DimQuery             Dimension = "query"
	DimQuota             Dimension = "quota"
)

type dimension struct {
	dim    Dimension
	active func(s *FilterState) bool
	match  func(e *Engine, p *product.Product, s *FilterState) bool
	reset  func(s *FilterState)
	// values lists the option values a product contributes to the facet; nil for
	// dimensions that cannot be faceted.
	values func(p *product.Product) []string
}

// definitions is evaluated in order: scalar attributes first, nested spec lookups
// next, text search and the computed quota last.
var definitions = []dimension{
	stringDim(DimDeviceType, func(s *FilterState) *[]string { return &s.DeviceTypes },
		func(p *product.Product) string { return string(p.DeviceType) }),
	stringDim(DimBrand, func(s *FilterState) *[]string { return &s.Brands },
		func(p *product.Product) string { return p.Brand }),
	stringDim(DimCondition, func(s *FilterState) *[]string { return &s.Conditions },
		func(p *product.Product) string { return string(p.Condition) }),
	stringDim(DimGama, func(s *FilterState) *[]string { return &s.Gamas },
		func(p *product.Product) string { return string(p.Gama) }),
	stringDim(DimStockStatus, func(s *FilterState) *[]string { return &s.StockStatuses },
		func(p *product.Product) string { return string(p.StockStatus) }),
	rangeDim(DimPrice, func(s *FilterState) **Range { return &s.PriceRange },
		func(_ *Engine, p *product.Product) float64 { return p.Price }),
	flagDim(DimTouch, func(s *FilterState) **bool { return &s.Touch },
		func(p *product.Product) bool { return p.Specs.Display.Touch }),
	flagDim(DimRAMExpandable, func(s *FilterState) **bool { return &s.RAMExpandable },
		func(p *product.Product) bool { return p.Specs.RAM.Expandable }),
	flagDim(DimBacklitKeyboard, func(s *FilterState) **bool { return &s.BacklitKeyboard },
		func(p *product.Product) bool { return p.Specs.Keyboard.Backlit }),
	flagDim(DimNumpad, func(s *FilterState) **bool { return &s.Numpad },
		func(p *product.Product) bool { return p.Specs.Keyboard.Numpad }),
	flagDim(DimFingerprintReader, func(s *FilterState) **bool { return &s.FingerprintReader },
		func(p *product.Product) bool { return p.Specs.Keyboard.FingerprintReader }),
	flagDim(DimWindowsIncluded, func(s *FilterState) **bool { return &s.WindowsIncluded },
		func(p *product.Product) bool { return p.Specs.OS.WindowsIncluded }),
	flagDim(DimThunderbolt, func(s *FilterState) **bool { return &s.Thunderbolt },
		func(p *product.Product) bool { return p.Specs.Ports.Thunderbolt }),
	flagDim(DimEthernet, func(s *FilterState) **bool { return &s.Ethernet },
		func(p *product.Product) bool { return p.Specs.Ports.Ethernet }),
	intDim(DimRAM, func(s *FilterState) *[]int { return &s.RAMSizes },
		func(p *product.Product) int { return p.Specs.RAM.SizeGB }),
	intDim(DimStorage, func(s *FilterState) *[]int { return &s.StorageSizes },
		func(p *product.Product) int { return p.Specs.Storage.SizeGB }),
	stringDim(DimProcessor, func(s *FilterState) *[]string { return &s.ProcessorModels },
		func(p *product.Product) string { return p.Specs.Processor.Model }),
	stringDim(DimProcessorBrand, func(s *FilterState) *[]string { return &s.ProcessorBrands },
		func(p *product.Product) string { return p.Specs.Processor.Brand }),
	{
		dim:    DimDisplaySize,
		active: func(s *FilterState) bool { return len(s.DisplaySizes) > 0 },
		match: func(_ *Engine, p *product.Product, s *FilterState) bool {
			for _, size := range s.DisplaySizes {
				if math.Abs(size-p.Specs.Display.SizeInches) < 0.05 {
					return true
				}
			}
			return false
		},
		reset: func(s *FilterState) { s.DisplaySizes = nil },
		values: func(p *product.Product) []string {
			return []string{FormatDisplaySize(p.Specs.Display.SizeInches)}
		},
	},
	stringDim(DimResolution, func(s *FilterState) *[]string { return &s.Resolutions },
		func(p *product.Product) string { return p.Specs.Display.Resolution }),
	stringDim(DimDisplayType, func(s *FilterState) *[]string { return &s.DisplayTypes },
		func(p *product.Product) string { return p.Specs.Display.Type }),
	stringDim(DimGPUType, func(s *FilterState) *[]string { return &s.GPUTypes },
		func(p *product.Product) string { return string(p.Specs.GPU.Type) }),
	{
		dim:    DimUsage,
		active: func(s *FilterState) bool { return len(s.UsageTypes) > 0 },
		match: func(_ *Engine, p *product.Product, s *FilterState) bool {
			for _, usage := range p.UsageTypes {
				if containsFold(s.UsageTypes, string(usage)) {
					return true
				}
			}
			return false
		},
		reset: func(s *FilterState) { s.UsageTypes = nil },
		values: func(p *product.Product) []string {
			values := make([]string, 0, len(p.UsageTypes))
			for _, usage := range p.UsageTypes {
				values = append(values, string(usage))
			}
			return values
		},
	},
	{
		dim:    DimQuery,
		active: func(s *FilterState) bool { return strings.TrimSpace(s.Query) != "" },
		match: func(_ *Engine, p *product.Product, s *FilterState) bool {
			q := strings.ToLower(strings.TrimSpace(s.Query))
			for _, field := range []string{p.Name, p.Brand, p.BrandName, p.Specs.Processor.Model} {
				if strings.Contains(strings.ToLower(field), q) {
					return true
				}
			}
			return false
		},
		reset: func(s *FilterState) { s.Query = "" },
	},
	rangeDim(DimQuota, func(s *FilterState) **Range { return &s.QuotaRange },
		func(e *Engine, p *product.Product) float64 { return e.quoter.DefaultQuota(p.Price) }),
}

var lookup = func() map[Dimension]dimension {
	m := make(map[Dimension]dimension, len(definitions))
	for _, def := range definitions {
		m[def.dim] = def
	}
	return m
}()

// Dimensions lists every known dimension in evaluation order.
func Dimensions() []Dimension {
	dims := make([]Dimension, 0, len(definitions))
	for _, def := range definitions {
		dims = append(dims, def.dim)
	}
	return dims
}

// FacetDimensions lists the dimensions that produce facet counts.
func FacetDimensions() []Dimension {
	var dims []Dimension
	for _, def := range definitions {
		if def.values != nil {
			dims = append(dims, def.dim)
		}
	}
	return dims
}

// ParseDimension resolves a dimension name.
func ParseDimension(name string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := lookup[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return d, nil
}

// FormatDisplaySize renders a screen size the way facet options are keyed.
func FormatDisplaySize(inches float64) string {
	return strconv.FormatFloat(mathutil.Round2(inches), 'f', -1, 64)
}

func stringDim(dim Dimension, field func(*FilterState) *[]string, value func(*product.Product) string) dimension {
	return dimension{
		dim:    dim,
		active: func(s *FilterState) bool { return len(*field(s)) > 0 },
		match: func(_ *Engine, p *product.Product, s *FilterState) bool {
			return containsFold(*field(s), value(p))
		},
		reset:  func(s *FilterState) { *field(s) = nil },
		values: func(p *product.Product) []string { return []string{value(p)} },
	}
}

func intDim(dim Dimension, field func(*FilterState) *[]int, value func(*product.Product) int) dimension {
	return dimension{
		dim:    dim,
		active: func(s *FilterState) bool { return len(*field(s)) > 0 },
		match: func(_ *Engine, p *product.Product, s *FilterState) bool {
			v := value(p)
			for _, accepted := range *field(s) {
				if accepted == v {
					return true
				}
			}
			return false
		},
		reset:  func(s *FilterState) { *field(s) = nil },
		values: func(p *product.Product) []string { return []string{strconv.Itoa(value(p))} },
	}
}

func flagDim(dim Dimension, field func(*FilterState) **bool, value func(*product.Product) bool) dimension {
	return dimension{
		dim:    dim,
		active: func(s *FilterState) bool { return *field(s) != nil },
		match: func(_ *Engine, p *product.Product, s *FilterState) bool {
			return **field(s) == value(p)
		},
		reset:  func(s *FilterState) { *field(s) = nil },
		values: func(p *product.Product) []string { return []string{strconv.FormatBool(value(p))} },
	}
}

func rangeDim(dim Dimension, field func(*FilterState) **Range, value func(*Engine, *product.Product) float64) dimension {
	return dimension{
		dim:    dim,
		active: func(s *FilterState) bool { return *field(s) != nil },
		match: func(e *Engine, p *product.Product, s *FilterState) bool {
			r := *field(s)
			return mathutil.InRange(value(e, p), r.Min, r.Max)
		},
		reset: func(s *FilterState) { *field(s) = nil },
	}
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(strings.TrimSpace(candidate), v) {
			return true
		}
	}
	return false
}
