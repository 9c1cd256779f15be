// Package product defines the immutable catalog entry consumed by the pricing,
// filtering, ordering and comparison packages.
package product

import (
	"strings"
	"time"
)

// DeviceType classifies the kind of device.
type DeviceType string

const (
	DeviceLaptop DeviceType = "laptop"
	DeviceTablet DeviceType = "tablet"
	DevicePhone  DeviceType = "phone"
)

// Condition is the physical condition of the unit.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionRefurbished Condition = "refurbished"
	ConditionUsed        Condition = "used"
)

// Gama is the commercial tier of a product.
type Gama string

const (
	GamaBudget       Gama = "budget"
	GamaStudent      Gama = "student"
	GamaProfessional Gama = "professional"
	GamaCreative     Gama = "creative"
	GamaGaming       Gama = "gaming"
)

// StockStatus summarizes availability.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLimited    StockStatus = "limited"
	StockOutOfStock StockStatus = "out_of_stock"
)

// UsageType is an intended usage a product is suited for.
type UsageType string

const (
	UsageOffice      UsageType = "office"
	UsageStudy       UsageType = "study"
	UsageDesign      UsageType = "design"
	UsageGaming      UsageType = "gaming"
	UsageProgramming UsageType = "programming"
	UsageMultimedia  UsageType = "multimedia"
)

// GPUType distinguishes integrated from dedicated graphics.
type GPUType string

const (
	GPUIntegrated GPUType = "integrated"
	GPUDedicated  GPUType = "dedicated"
)

// Product is a catalog entry. Values are treated as read-only once loaded.
type Product struct {
	ID          string      `json:"id"`
	SKU         string      `json:"sku,omitempty"`
	Slug        string      `json:"slug,omitempty"`
	Brand       string      `json:"brand"`
	BrandName   string      `json:"brandName,omitempty"`
	Name        string      `json:"name"`
	DeviceType  DeviceType  `json:"deviceType"`
	Price       float64     `json:"price"`
	Condition   Condition   `json:"condition"`
	Gama        Gama        `json:"gama"`
	StockStatus StockStatus `json:"stockStatus"`
	Stock       int         `json:"stock"`
	UsageTypes  []UsageType `json:"usageTypes,omitempty"`
	Specs       Specs       `json:"specs"`
	Colors      []Color     `json:"colors,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	Images      []string    `json:"images,omitempty"`
	ReleasedAt  time.Time   `json:"releasedAt"`
	Popularity  int         `json:"popularity"`
	Weight      float64     `json:"weight,omitempty"`
}

// Color is a purchasable color variant.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Specs is the typed technical record of a product.
type Specs struct {
	Processor Processor `json:"processor"`
	RAM       RAM       `json:"ram"`
	Storage   Storage   `json:"storage"`
	Display   Display   `json:"display"`
	GPU       GPU       `json:"gpu"`
	Keyboard  Keyboard  `json:"keyboard"`
	Ports     Ports     `json:"ports"`
	OS        OS        `json:"os"`
	BatteryWh float64   `json:"batteryWh,omitempty"`
}

type Processor struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Cores int    `json:"cores,omitempty"`
}

type RAM struct {
	SizeGB     int    `json:"sizeGb"`
	Type       string `json:"type,omitempty"`
	Expandable bool   `json:"expandable"`
	MaxGB      int    `json:"maxGb,omitempty"`
}

type Storage struct {
	SizeGB int    `json:"sizeGb"`
	Type   string `json:"type,omitempty"`
}

type Display struct {
	SizeInches float64 `json:"sizeInches"`
	Resolution string  `json:"resolution"`
	Type       string  `json:"type,omitempty"`
	Touch      bool    `json:"touch"`
	RefreshHz  int     `json:"refreshHz,omitempty"`
}

type GPU struct {
	Type   GPUType `json:"type"`
	Model  string  `json:"model,omitempty"`
	VRAMGB int     `json:"vramGb,omitempty"`
}

type Keyboard struct {
	Backlit           bool `json:"backlit"`
	Numpad            bool `json:"numpad"`
	FingerprintReader bool `json:"fingerprintReader"`
}

type Ports struct {
	Thunderbolt bool `json:"thunderbolt"`
	Ethernet    bool `json:"ethernet"`
	USBC        int  `json:"usbC,omitempty"`
	USBA        int  `json:"usbA,omitempty"`
	HDMI        bool `json:"hdmi"`
}

// Count returns the number of physical ports, counting each boolean port as one.
func (p Ports) Count() int {
	n := p.USBC + p.USBA
	for _, present := range []bool{p.Thunderbolt, p.Ethernet, p.HDMI} {
		if present {
			n++
		}
	}
	return n
}

type OS struct {
	WindowsIncluded bool   `json:"windowsIncluded"`
	Name            string `json:"name,omitempty"`
}

// HasUsage reports whether the product is suited for usage u.
func (p Product) HasUsage(u UsageType) bool {
	for _, usage := range p.UsageTypes {
		if usage == u {
			return true
		}
	}
	return false
}

// HasTag reports whether the product carries a promotional tag, ignoring case.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// InStock reports whether the product can currently be bought.
func (p Product) InStock() bool {
	return p.StockStatus != StockOutOfStock
}

// StockStatusFor derives a status from a stock quantity.
func StockStatusFor(quantity, limitedThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity <= limitedThreshold:
		return StockLimited
	default:
		return StockInStock
	}
}

// FindByID returns the product with the given id.
func FindByID(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
