package catalog

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/catalog-quota/pkg/datetime"
)

// mockEpoch is the earliest release month of a generated product.
var mockEpoch = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

type mockModel struct {
	brand     string
	brandName string
	name      string
	gama      string
	usage     []string
	basePrice float64
	specs     map[string]any
}

var mockModels = []mockModel{
	{"hp", "HP", "HP 250 G9", "budget", []string{"office", "study"}, 1900, map[string]any{
		"processor_brand": "Intel", "processor_model": "Core i3", "processor_cores": 6,
		"ram_type": "DDR4", "ram_expandable": true, "ram_max_gb": 16, "storage_type": "SSD",
		"display_size": 15.6, "resolution": "FHD", "display_type": "IPS", "refresh_rate": 60,
		"gpu_type": "integrated", "gpu_model": "UHD Graphics", "numpad": true, "usb_a": 2, "usb_c": 1,
		"hdmi": true, "ethernet": true, "windows_included": true, "os": "Windows 11 Home", "battery_wh": 41,
	}},
	{"hp", "HP", "HP Victus 16", "gaming", []string{"gaming", "multimedia"}, 4700, map[string]any{
		"processor_brand": "AMD", "processor_model": "Ryzen 7", "processor_cores": 8,
		"ram_type": "DDR5", "ram_expandable": true, "ram_max_gb": 32, "storage_type": "SSD",
		"display_size": 16.1, "resolution": "FHD", "display_type": "IPS", "refresh_rate": 144,
		"gpu_type": "dedicated", "gpu_model": "RTX 4060", "gpu_vram_gb": 8, "backlit_keyboard": true,
		"numpad": true, "usb_a": 3, "usb_c": 1, "hdmi": true, "ethernet": true, "windows_included": true,
		"os": "Windows 11 Home", "battery_wh": 70,
	}},
	{"dell", "Dell", "Dell Latitude 7440", "professional", []string{"office", "programming"}, 5400, map[string]any{
		"processor_brand": "Intel", "processor_model": "Core i7", "processor_cores": 12,
		"ram_type": "DDR5", "ram_expandable": false, "storage_type": "SSD",
		"display_size": 14, "resolution": "FHD+", "display_type": "IPS", "refresh_rate": 60,
		"gpu_type": "integrated", "gpu_model": "Iris Xe", "backlit_keyboard": true, "fingerprint_reader": true,
		"thunderbolt": true, "usb_a": 1, "usb_c": 2, "hdmi": true, "windows_included": true,
		"os": "Windows 11 Pro", "battery_wh": 57,
	}},
	{"dell", "Dell", "Dell Inspiron 15", "student", []string{"office", "study"}, 2600, map[string]any{
		"processor_brand": "Intel", "processor_model": "Core i5", "processor_cores": 10,
		"ram_type": "DDR4", "ram_expandable": true, "ram_max_gb": 32, "storage_type": "SSD",
		"display_size": 15.6, "resolution": "FHD", "display_type": "WVA", "refresh_rate": 120,
		"gpu_type": "integrated", "gpu_model": "Iris Xe", "numpad": true, "usb_a": 2, "usb_c": 1,
		"hdmi": true, "windows_included": true, "os": "Windows 11 Home", "battery_wh": 54,
	}},
	{"lenovo", "Lenovo", "Lenovo IdeaPad Slim 3", "student", []string{"office", "study"}, 2300, map[string]any{
		"processor_brand": "AMD", "processor_model": "Ryzen 5", "processor_cores": 6,
		"ram_type": "DDR5", "ram_expandable": false, "storage_type": "SSD",
		"display_size": 15.6, "resolution": "FHD", "display_type": "IPS", "refresh_rate": 60,
		"gpu_type": "integrated", "gpu_model": "Radeon Graphics", "backlit_keyboard": true,
		"usb_a": 2, "usb_c": 1, "hdmi": true, "windows_included": true, "os": "Windows 11 Home", "battery_wh": 47,
	}},
	{"lenovo", "Lenovo", "Lenovo Yoga 7", "creative", []string{"design", "multimedia"}, 4200, map[string]any{
		"processor_brand": "Intel", "processor_model": "Core Ultra 7", "processor_cores": 16,
		"ram_type": "LPDDR5x", "ram_expandable": false, "storage_type": "SSD",
		"display_size": 14, "resolution": "2.8K", "display_type": "OLED", "touch": true, "refresh_rate": 90,
		"gpu_type": "integrated", "gpu_model": "Arc Graphics", "backlit_keyboard": true, "fingerprint_reader": true,
		"thunderbolt": true, "usb_a": 1, "usb_c": 2, "hdmi": true, "windows_included": true,
		"os": "Windows 11 Home", "battery_wh": 71,
	}},
	{"asus", "ASUS", "ASUS Vivobook Go 15", "budget", []string{"study"}, 1500, map[string]any{
		"processor_brand": "AMD", "processor_model": "Athlon Silver", "processor_cores": 2,
		"ram_type": "LPDDR5", "ram_expandable": false, "storage_type": "eMMC",
		"display_size": 15.6, "resolution": "HD", "display_type": "TN", "refresh_rate": 60,
		"gpu_type": "integrated", "gpu_model": "Radeon 610M", "usb_a": 2, "usb_c": 1, "hdmi": true,
		"windows_included": true, "os": "Windows 11 S", "battery_wh": 42,
	}},
	{"asus", "ASUS", "ASUS ROG Strix G16", "gaming", []string{"gaming", "programming"}, 6900, map[string]any{
		"processor_brand": "Intel", "processor_model": "Core i9", "processor_cores": 24,
		"ram_type": "DDR5", "ram_expandable": true, "ram_max_gb": 64, "storage_type": "SSD",
		"display_size": 16, "resolution": "QHD", "display_type": "IPS", "refresh_rate": 240,
		"gpu_type": "dedicated", "gpu_model": "RTX 4070", "gpu_vram_gb": 8, "backlit_keyboard": true,
		"thunderbolt": true, "ethernet": true, "usb_a": 3, "usb_c": 1, "hdmi": true,
		"windows_included": true, "os": "Windows 11 Home", "battery_wh": 90,
	}},
	{"apple", "Apple", "MacBook Air 13", "student", []string{"study", "office", "multimedia"}, 4300, map[string]any{
		"processor_brand": "Apple", "processor_model": "M2", "processor_cores": 8,
		"ram_type": "Unified", "ram_expandable": false, "storage_type": "SSD",
		"display_size": 13.6, "resolution": "Retina", "display_type": "Liquid Retina", "refresh_rate": 60,
		"gpu_type": "integrated", "gpu_model": "Apple GPU", "backlit_keyboard": true, "fingerprint_reader": true,
		"thunderbolt": true, "usb_c": 2, "os": "macOS", "battery_wh": 52,
	}},
	{"apple", "Apple", "MacBook Pro 14", "creative", []string{"design", "programming", "multimedia"}, 8200, map[string]any{
		"processor_brand": "Apple", "processor_model": "M3 Pro", "processor_cores": 11,
		"ram_type": "Unified", "ram_expandable": false, "storage_type": "SSD",
		"display_size": 14.2, "resolution": "Retina", "display_type": "Mini-LED", "refresh_rate": 120,
		"gpu_type": "integrated", "gpu_model": "Apple GPU", "backlit_keyboard": true, "fingerprint_reader": true,
		"thunderbolt": true, "usb_c": 3, "hdmi": true, "os": "macOS", "battery_wh": 72,
	}},
}

var (
	mockRAM       = []int{8, 16, 32}
	mockStorage   = []int{256, 512, 1024}
	mockCondition = []string{"new", "new", "new", "refurbished", "used"}
	mockLabels    = []string{"bestseller", "oferta", "recomendado", "nuevo"}
	mockColors    = []ApiColor{
		{ID: "silver", Name: "Silver", Hex: "#C0C0C0"},
		{ID: "black", Name: "Black", Hex: "#1A1A1A"},
		{ID: "blue", Name: "Blue", Hex: "#1F4E79"},
	}
)

// Generate returns n deterministic catalog records for seed. The same n and seed
// always produce the same records.
func Generate(n int, seed int64) []ApiProduct {
	rng := rand.New(rand.NewSource(seed))
	items := make([]ApiProduct, 0, n)

	for i := 0; i < n; i++ {
		model := mockModels[i%len(mockModels)]
		ram := mockRAM[rng.Intn(len(mockRAM))]
		storage := mockStorage[rng.Intn(len(mockStorage))]
		cond := mockCondition[rng.Intn(len(mockCondition))]

		price := model.basePrice + float64(ram/8-1)*300 + float64(storage/256-1)*150
		switch cond {
		case "refurbished":
			price *= 0.8
		case "used":
			price *= 0.65
		}
		// Catalog prices end in 9.
		price = float64(int(price/10)*10 + 9)

		specs := make(map[string]any, len(model.specs)+2)
		for k, v := range model.specs {
			specs[k] = v
		}
		specs["ram_gb"] = ram
		// Half the records serve sizes as strings, like the live API.
		if rng.Intn(2) == 0 {
			specs["storage_gb"] = strconv.Itoa(storage)
		} else {
			specs["storage_gb"] = storage
		}

		var labels []string
		if rng.Intn(4) == 0 {
			labels = append(labels, mockLabels[rng.Intn(len(mockLabels))])
		}

		id := fmt.Sprintf("%s-%03d", model.brand, i+1)
		items = append(items, ApiProduct{
			ID:             id,
			SKU:            strings.ToUpper(fmt.Sprintf("%s%05d", model.brand[:2], 10000+i)),
			Name:           fmt.Sprintf("%s %dGB/%dGB", model.name, ram, storage),
			Slug:           id,
			Brand:          ApiBrand{Slug: model.brand, Name: model.brandName},
			Category:       "laptop",
			Price:          price,
			StockAvailable: rng.Intn(30),
			Specs:          specs,
			Colors:         []ApiColor{mockColors[rng.Intn(len(mockColors))]},
			Images:         []string{fmt.Sprintf("https://cdn.example.com/products/%s.jpg", id)},
			Labels:         labels,
			Condition:      cond,
			Gama:           model.gama,
			Usage:          model.usage,
			ReleasedAt:     datetime.FormatMonth(datetime.OffsetMonths(mockEpoch, rng.Intn(36))),
			Popularity:     rng.Intn(100),
			Weight:         1.2 + float64(rng.Intn(14))/10,
		})
	}
	return items
}
