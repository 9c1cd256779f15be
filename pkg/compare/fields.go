package compare

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/catalog-quota/pkg/format"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// FieldSet versions the list of compared specs.
type FieldSet string

const (
	// FieldSetV1 compares processor, memory, storage, display and quota.
	FieldSetV1 FieldSet = "v1"
	// FieldSetV2 extends v1 with graphics, refresh rate, battery, weight, ports and price.
	FieldSetV2 FieldSet = "v2"
)

// ParseFieldSet resolves a field set name. The empty string selects FieldSetV1.
func ParseFieldSet(name string) (FieldSet, error) {
	fs := FieldSet(strings.ToLower(strings.TrimSpace(name)))
	if fs == "" {
		return FieldSetV1, nil
	}
	if _, ok := fieldSets[fs]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldSet, name)
	}
	return fs, nil
}

type field struct {
	key            string
	label          string
	higherIsBetter bool
	value          func(c *Comparator, p *product.Product) float64
	display        func(c *Comparator, p *product.Product) string
}

var (
	processorField = field{
		key: "processor", label: "Processor", higherIsBetter: true,
		value:   func(_ *Comparator, p *product.Product) float64 { return product.ProcessorScore(p.Specs.Processor.Model) },
		display: func(_ *Comparator, p *product.Product) string { return p.Specs.Processor.Model },
	}
	ramField = field{
		key: "ram", label: "RAM", higherIsBetter: true,
		value: func(_ *Comparator, p *product.Product) float64 { return float64(p.Specs.RAM.SizeGB) },
		display: func(_ *Comparator, p *product.Product) string {
			s := format.Capacity(p.Specs.RAM.SizeGB)
			if p.Specs.RAM.Type != "" {
				s += " " + p.Specs.RAM.Type
			}
			return s
		},
	}
	storageField = field{
		key: "storage", label: "Storage", higherIsBetter: true,
		value: func(_ *Comparator, p *product.Product) float64 { return float64(p.Specs.Storage.SizeGB) },
		display: func(_ *Comparator, p *product.Product) string {
			s := format.Capacity(p.Specs.Storage.SizeGB)
			if p.Specs.Storage.Type != "" {
				s += " " + p.Specs.Storage.Type
			}
			return s
		},
	}
	displaySizeField = field{
		key: "display_size", label: "Display", higherIsBetter: true,
		value:   func(_ *Comparator, p *product.Product) float64 { return p.Specs.Display.SizeInches },
		display: func(_ *Comparator, p *product.Product) string { return format.Inches(p.Specs.Display.SizeInches) },
	}
	resolutionField = field{
		key: "resolution", label: "Resolution", higherIsBetter: true,
		value:   func(_ *Comparator, p *product.Product) float64 { return product.ResolutionTier(p.Specs.Display.Resolution) },
		display: func(_ *Comparator, p *product.Product) string { return p.Specs.Display.Resolution },
	}
	quotaField = field{
		key: "quota", label: "Monthly quota", higherIsBetter: false,
		value: func(c *Comparator, p *product.Product) float64 { return c.quota(p) },
		display: func(c *Comparator, p *product.Product) string {
			return format.Quota(c.quota(p), c.currencySymbol)
		},
	}
	gpuField = field{
		key: "gpu", label: "Graphics", higherIsBetter: true,
		value: func(_ *Comparator, p *product.Product) float64 {
			if p.Specs.GPU.Type != product.GPUDedicated {
				return 0
			}
			// Any dedicated card outranks integrated graphics.
			return 1 + float64(p.Specs.GPU.VRAMGB)
		},
		display: func(_ *Comparator, p *product.Product) string {
			if p.Specs.GPU.Model != "" {
				return p.Specs.GPU.Model
			}
			return string(p.Specs.GPU.Type)
		},
	}
	refreshField = field{
		key: "refresh_rate", label: "Refresh rate", higherIsBetter: true,
		value:   func(_ *Comparator, p *product.Product) float64 { return float64(p.Specs.Display.RefreshHz) },
		display: func(_ *Comparator, p *product.Product) string { return format.Unit(float64(p.Specs.Display.RefreshHz), "Hz") },
	}
	batteryField = field{
		key: "battery", label: "Battery", higherIsBetter: true,
		value:   func(_ *Comparator, p *product.Product) float64 { return p.Specs.BatteryWh },
		display: func(_ *Comparator, p *product.Product) string { return format.Unit(p.Specs.BatteryWh, "Wh") },
	}
	weightField = field{
		key: "weight", label: "Weight", higherIsBetter: false,
		value:   func(_ *Comparator, p *product.Product) float64 { return p.Weight },
		display: func(_ *Comparator, p *product.Product) string { return format.Unit(p.Weight, "kg") },
	}
	portsField = field{
		key: "ports", label: "Ports", higherIsBetter: true,
		value:   func(_ *Comparator, p *product.Product) float64 { return float64(p.Specs.Ports.Count()) },
		display: func(_ *Comparator, p *product.Product) string { return strconv.Itoa(p.Specs.Ports.Count()) },
	}
	priceField = field{
		key: "price", label: "Price", higherIsBetter: false,
		value: func(_ *Comparator, p *product.Product) float64 { return p.Price },
		display: func(c *Comparator, p *product.Product) string {
			return format.Currency(p.Price, c.currencySymbol)
		},
	}
)

var fieldSets = map[FieldSet][]field{
	FieldSetV1: {processorField, ramField, storageField, displaySizeField, resolutionField, quotaField},
	FieldSetV2: {processorField, ramField, storageField, displaySizeField, resolutionField, gpuField,
		refreshField, batteryField, weightField, portsField, priceField, quotaField},
}

// Keys lists the spec keys compared under fs, in order.
func Keys(fs FieldSet) []string {
	fields := fieldSets[fs]
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}
