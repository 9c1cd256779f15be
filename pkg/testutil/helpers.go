// Package testutil provides common catalog fixtures for testing.
package testutil

import (
	"github.com/iwvelando/catalog-quota/pkg/datetime"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// NewProduct returns an in-stock, new, 16GB/512GB laptop with the given identity and
// price. Tests adjust the remaining fields directly.
func NewProduct(id, brand string, price float64) product.Product {
	return product.Product{
		ID:          id,
		SKU:         "SKU-" + id,
		Slug:        brand + "-" + id,
		Brand:       brand,
		BrandName:   brand,
		Name:        brand + " " + id,
		DeviceType:  product.DeviceLaptop,
		Price:       price,
		Condition:   product.ConditionNew,
		Gama:        product.GamaStudent,
		StockStatus: product.StockInStock,
		Stock:       20,
		UsageTypes:  []product.UsageType{product.UsageOffice, product.UsageStudy},
		Specs: product.Specs{
			Processor: product.Processor{Brand: "Intel", Model: "Core i5", Cores: 8},
			RAM:       product.RAM{SizeGB: 16, Type: "DDR4", Expandable: true, MaxGB: 32},
			Storage:   product.Storage{SizeGB: 512, Type: "SSD"},
			Display:   product.Display{SizeInches: 15.6, Resolution: "FHD", Type: "IPS", RefreshHz: 60},
			GPU:       product.GPU{Type: product.GPUIntegrated, Model: "Iris Xe"},
			Keyboard:  product.Keyboard{Backlit: true},
			Ports:     product.Ports{USBC: 1, USBA: 2, HDMI: true},
			OS:        product.OS{WindowsIncluded: true, Name: "Windows 11"},
			BatteryWh: 54,
		},
		ReleasedAt: datetime.MustParseTime(datetime.ReleaseDateLayout, "2024-01"),
		Popularity: 50,
		Weight:     1.8,
	}
}

// BrandCatalog returns counts[brand] products per brand, in the order the brands
// are given, with distinct ids and prices.
func BrandCatalog(brands []string, counts map[string]int) []product.Product {
	var products []product.Product
	price := 2000.0
	for _, brand := range brands {
		for i := 0; i < counts[brand]; i++ {
			id := brand + "-" + string(rune('a'+i))
			products = append(products, NewProduct(id, brand, price))
			price += 100
		}
	}
	return products
}

// Catalog returns a small heterogeneous catalog exercising every filter dimension.
func Catalog() []product.Product {
	hpOffice := NewProduct("hp-1", "hp", 2400)
	hpOffice.Name = "HP 250 G9"
	hpOffice.Gama = product.GamaBudget
	hpOffice.Specs.RAM = product.RAM{SizeGB: 8, Type: "DDR4", Expandable: true, MaxGB: 16}
	hpOffice.Specs.Storage.SizeGB = 256
	hpOffice.Specs.Keyboard = product.Keyboard{Numpad: true}
	hpOffice.Specs.Ports.Ethernet = true
	hpOffice.Popularity = 80
	hpOffice.ReleasedAt = datetime.MustParseTime(datetime.ReleaseDateLayout, "2023-05")

	hpGamer := NewProduct("hp-2", "hp", 5200)
	hpGamer.Name = "HP Victus 16"
	hpGamer.Gama = product.GamaGaming
	hpGamer.UsageTypes = []product.UsageType{product.UsageGaming, product.UsageMultimedia}
	hpGamer.Specs.Processor = product.Processor{Brand: "AMD", Model: "Ryzen 7", Cores: 8}
	hpGamer.Specs.Display = product.Display{SizeInches: 16.1, Resolution: "QHD", Type: "IPS", RefreshHz: 165}
	hpGamer.Specs.GPU = product.GPU{Type: product.GPUDedicated, Model: "RTX 4060", VRAMGB: 8}
	hpGamer.Specs.Ports.Ethernet = true
	hpGamer.Stock = 3
	hpGamer.StockStatus = product.StockLimited
	hpGamer.Popularity = 95
	hpGamer.ReleasedAt = datetime.MustParseTime(datetime.ReleaseDateLayout, "2024-06")

	dellPro := NewProduct("dell-1", "dell", 4800)
	dellPro.Name = "Dell Latitude 7440"
	dellPro.Gama = product.GamaProfessional
	dellPro.UsageTypes = []product.UsageType{product.UsageOffice, product.UsageProgramming}
	dellPro.Specs.Processor = product.Processor{Brand: "Intel", Model: "Core i7", Cores: 12}
	dellPro.Specs.RAM = product.RAM{SizeGB: 32, Type: "DDR5", Expandable: false}
	dellPro.Specs.Display = product.Display{SizeInches: 14, Resolution: "FHD+", Type: "IPS", Touch: true, RefreshHz: 60}
	dellPro.Specs.Keyboard = product.Keyboard{Backlit: true, FingerprintReader: true}
	dellPro.Specs.Ports.Thunderbolt = true
	dellPro.Popularity = 60
	dellPro.ReleasedAt = datetime.MustParseTime(datetime.ReleaseDateLayout, "2024-02")

	dellRefurb := NewProduct("dell-2", "dell", 1800)
	dellRefurb.Name = "Dell Inspiron 15"
	dellRefurb.Condition = product.ConditionRefurbished
	dellRefurb.Gama = product.GamaBudget
	dellRefurb.Specs.RAM = product.RAM{SizeGB: 8, Type: "DDR4", Expandable: true, MaxGB: 16}
	dellRefurb.Specs.Processor = product.Processor{Brand: "Intel", Model: "Core i3", Cores: 4}
	dellRefurb.Specs.Display.Resolution = "HD"
	dellRefurb.Specs.OS = product.OS{WindowsIncluded: false, Name: "FreeDOS"}
	dellRefurb.Stock = 0
	dellRefurb.StockStatus = product.StockOutOfStock
	dellRefurb.Popularity = 20
	dellRefurb.ReleasedAt = datetime.MustParseTime(datetime.ReleaseDateLayout, "2022-09")

	lenovoStudent := NewProduct("lenovo-1", "lenovo", 3000)
	lenovoStudent.Name = "Lenovo IdeaPad Slim 3"
	lenovoStudent.Specs.Processor = product.Processor{Brand: "AMD", Model: "Ryzen 5", Cores: 6}
	lenovoStudent.Popularity = 70
	lenovoStudent.Tags = []string{"Bestseller"}

	appleCreative := NewProduct("apple-1", "apple", 7200)
	appleCreative.Name = "MacBook Pro 14"
	appleCreative.Gama = product.GamaCreative
	appleCreative.UsageTypes = []product.UsageType{product.UsageDesign, product.UsageProgramming, product.UsageMultimedia}
	appleCreative.Specs.Processor = product.Processor{Brand: "Apple", Model: "M3 Pro", Cores: 11}
	appleCreative.Specs.RAM = product.RAM{SizeGB: 18, Type: "Unified", Expandable: false}
	appleCreative.Specs.Storage.SizeGB = 1024
	appleCreative.Specs.Display = product.Display{SizeInches: 14.2, Resolution: "Retina", Type: "Mini-LED", RefreshHz: 120}
	appleCreative.Specs.Ports = product.Ports{Thunderbolt: true, USBC: 3, HDMI: true}
	appleCreative.Specs.OS = product.OS{WindowsIncluded: false, Name: "macOS"}
	appleCreative.Popularity = 90
	appleCreative.ReleasedAt = datetime.MustParseTime(datetime.ReleaseDateLayout, "2023-11")

	return []product.Product{hpOffice, hpGamer, dellPro, dellRefurb, lenovoStudent, appleCreative}
}
