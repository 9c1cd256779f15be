package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/datetime"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// flatSpecs is the typed view of the API's flat specs record.
type flatSpecs struct {
	ProcessorBrand    string  `mapstructure:"processor_brand"`
	ProcessorModel    string  `mapstructure:"processor_model"`
	ProcessorCores    int     `mapstructure:"processor_cores"`
	RAMGB             int     `mapstructure:"ram_gb"`
	RAMType           string  `mapstructure:"ram_type"`
	RAMExpandable     bool    `mapstructure:"ram_expandable"`
	RAMMaxGB          int     `mapstructure:"ram_max_gb"`
	StorageGB         int     `mapstructure:"storage_gb"`
	StorageType       string  `mapstructure:"storage_type"`
	DisplaySize       float64 `mapstructure:"display_size"`
	Resolution        string  `mapstructure:"resolution"`
	DisplayType       string  `mapstructure:"display_type"`
	Touch             bool    `mapstructure:"touch"`
	RefreshRate       int     `mapstructure:"refresh_rate"`
	GPUType           string  `mapstructure:"gpu_type"`
	GPUModel          string  `mapstructure:"gpu_model"`
	GPUVRAMGB         int     `mapstructure:"gpu_vram_gb"`
	BacklitKeyboard   bool    `mapstructure:"backlit_keyboard"`
	Numpad            bool    `mapstructure:"numpad"`
	FingerprintReader bool    `mapstructure:"fingerprint_reader"`
	Thunderbolt       bool    `mapstructure:"thunderbolt"`
	Ethernet          bool    `mapstructure:"ethernet"`
	USBC              int     `mapstructure:"usb_c"`
	USBA              int     `mapstructure:"usb_a"`
	HDMI              bool    `mapstructure:"hdmi"`
	WindowsIncluded   bool    `mapstructure:"windows_included"`
	OS                string  `mapstructure:"os"`
	BatteryWh         float64 `mapstructure:"battery_wh"`
}

// MapResult is the outcome of mapping an API payload.
type MapResult struct {
	Products []product.Product
	// Warnings lists recoverable oddities such as unknown spec keys.
	Warnings []string
	// Skipped counts records that could not be mapped.
	Skipped int
	// Err aggregates the errors of every skipped record.
	Err error
}

// Map converts API records into products. Invalid records are skipped and their
// errors aggregated in MapResult.Err; the remaining records are still returned.
func Map(items []ApiProduct) MapResult {
	var result MapResult
	seen := make(map[string]bool, len(items))

	for i := range items {
		item := &items[i]
		if seen[item.ID] && item.ID != "" {
			result.Skipped++
			result.Err = multierr.Append(result.Err, fmt.Errorf("product %q: duplicate id", item.ID))
			continue
		}

		p, warnings, err := mapProduct(item)
		if err != nil {
			result.Skipped++
			result.Err = multierr.Append(result.Err, fmt.Errorf("product %q: %w", item.ID, err))
			continue
		}
		seen[item.ID] = true
		result.Products = append(result.Products, p)
		result.Warnings = append(result.Warnings, warnings...)
	}
	return result
}

func mapProduct(item *ApiProduct) (product.Product, []string, error) {
	if err := validate.Struct(item); err != nil {
		return product.Product{}, nil, fmt.Errorf("invalid record: %w", err)
	}

	specs, unused, err := decodeSpecs(item.Specs)
	if err != nil {
		return product.Product{}, nil, fmt.Errorf("invalid specs: %w", err)
	}
	var warnings []string
	for _, key := range unused {
		warnings = append(warnings, fmt.Sprintf("product %q: ignoring unknown spec %q", item.ID, key))
	}

	released, err := datetime.ParseReleaseDate(item.ReleasedAt)
	if err != nil {
		return product.Product{}, nil, err
	}

	brandName := item.Brand.Name
	if brandName == "" {
		brandName = item.Brand.Slug
	}

	p := product.Product{
		ID:          item.ID,
		SKU:         item.SKU,
		Slug:        item.Slug,
		Brand:       strings.ToLower(strings.TrimSpace(item.Brand.Slug)),
		BrandName:   brandName,
		Name:        item.Name,
		DeviceType:  deviceType(item.Category),
		Price:       item.Price,
		Condition:   condition(item.Condition),
		StockStatus: product.StockStatusFor(item.StockAvailable, constants.LimitedStockThreshold),
		Stock:       item.StockAvailable,
		Specs: product.Specs{
			Processor: product.Processor{Brand: specs.ProcessorBrand, Model: specs.ProcessorModel, Cores: specs.ProcessorCores},
			RAM:       product.RAM{SizeGB: specs.RAMGB, Type: specs.RAMType, Expandable: specs.RAMExpandable, MaxGB: specs.RAMMaxGB},
			Storage:   product.Storage{SizeGB: specs.StorageGB, Type: specs.StorageType},
			Display: product.Display{
				SizeInches: specs.DisplaySize,
				Resolution: specs.Resolution,
				Type:       specs.DisplayType,
				Touch:      specs.Touch,
				RefreshHz:  specs.RefreshRate,
			},
			GPU:       product.GPU{Type: gpuType(specs.GPUType), Model: specs.GPUModel, VRAMGB: specs.GPUVRAMGB},
			Keyboard:  product.Keyboard{Backlit: specs.BacklitKeyboard, Numpad: specs.Numpad, FingerprintReader: specs.FingerprintReader},
			Ports:     product.Ports{Thunderbolt: specs.Thunderbolt, Ethernet: specs.Ethernet, USBC: specs.USBC, USBA: specs.USBA, HDMI: specs.HDMI},
			OS:        product.OS{WindowsIncluded: specs.WindowsIncluded, Name: specs.OS},
			BatteryWh: specs.BatteryWh,
		},
		Tags:       item.Labels,
		Images:     item.Images,
		ReleasedAt: released,
		Popularity: item.Popularity,
		Weight:     item.Weight,
	}
	if len(item.Images) > 0 {
		p.Thumbnail = item.Images[0]
	}
	for _, c := range item.Colors {
		p.Colors = append(p.Colors, product.Color{ID: c.ID, Name: c.Name, Hex: c.Hex})
	}
	for _, u := range item.Usage {
		p.UsageTypes = append(p.UsageTypes, product.UsageType(strings.ToLower(strings.TrimSpace(u))))
	}
	p.Gama = gama(item.Gama, &p)

	return p, warnings, nil
}

// decodeSpecs decodes the flat record, accepting stringly typed values, and returns
// the keys it did not recognize in sorted order.
func decodeSpecs(raw map[string]any) (flatSpecs, []string, error) {
	var specs flatSpecs
	if len(raw) == 0 {
		return specs, nil, nil
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &specs,
	})
	if err != nil {
		return specs, nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return specs, nil, err
	}
	sort.Strings(md.Unused)
	return specs, md.Unused, nil
}

func deviceType(category string) product.DeviceType {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "tablet", "tablets":
		return product.DeviceTablet
	case "phone", "phones", "smartphone", "smartphones":
		return product.DevicePhone
	default:
		return product.DeviceLaptop
	}
}

func condition(c string) product.Condition {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return product.ConditionNew
	}
	return product.Condition(c)
}

func gpuType(t string) product.GPUType {
	if strings.EqualFold(strings.TrimSpace(t), string(product.GPUDedicated)) {
		return product.GPUDedicated
	}
	return product.GPUIntegrated
}

// gama keeps an explicit tier and otherwise derives one from the hardware and price.
func gama(g string, p *product.Product) product.Gama {
	if g != "" {
		return product.Gama(strings.ToLower(strings.TrimSpace(g)))
	}
	switch {
	case p.Specs.GPU.Type == product.GPUDedicated:
		return product.GamaGaming
	case p.Price >= 5000:
		return product.GamaProfessional
	case p.Price < 2000:
		return product.GamaBudget
	default:
		return product.GamaStudent
	}
}
