package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/iwvelando/catalog-quota/pkg/product"
)

func apiProduct(id string, price float64) ApiProduct {
	return ApiProduct{
		ID:             id,
		Name:           "Laptop " + id,
		Brand:          ApiBrand{Slug: "HP", Name: "HP"},
		Category:       "laptop",
		Price:          price,
		StockAvailable: 10,
		Specs: map[string]any{
			"processor_brand": "Intel",
			"processor_model": "Core i5",
			"ram_gb":          16,
			"storage_gb":      512,
			"display_size":    15.6,
			"resolution":      "FHD",
			"gpu_type":        "integrated",
		},
		Colors:     []ApiColor{{ID: "silver", Name: "Silver", Hex: "#C0C0C0"}},
		Images:     []string{"https://cdn.example.com/" + id + ".jpg"},
		ReleasedAt: "2024-03",
		Popularity: 40,
	}
}

func TestMapConvertsRecord(t *testing.T) {
	result := Map([]ApiProduct{apiProduct("hp-1", 3200)})
	require.NoError(t, result.Err)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Equal(t, "hp", p.Brand)
	assert.Equal(t, "HP", p.BrandName)
	assert.Equal(t, product.DeviceLaptop, p.DeviceType)
	assert.Equal(t, product.ConditionNew, p.Condition)
	assert.Equal(t, product.StockInStock, p.StockStatus)
	assert.Equal(t, 16, p.Specs.RAM.SizeGB)
	assert.Equal(t, 512, p.Specs.Storage.SizeGB)
	assert.Equal(t, 15.6, p.Specs.Display.SizeInches)
	assert.Equal(t, product.GPUIntegrated, p.Specs.GPU.Type)
	assert.Equal(t, "https://cdn.example.com/hp-1.jpg", p.Thumbnail)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.ReleasedAt)
	assert.Equal(t, product.GamaStudent, p.Gama)
	require.Len(t, p.Colors, 1)
	assert.Equal(t, "#C0C0C0", p.Colors[0].Hex)
}

func TestMapAcceptsStringlyTypedSpecs(t *testing.T) {
	item := apiProduct("hp-1", 3200)
	item.Specs["ram_gb"] = "32"
	item.Specs["display_size"] = "14"
	item.Specs["touch"] = "true"
	item.Specs["refresh_rate"] = 120.0

	result := Map([]ApiProduct{item})
	require.NoError(t, result.Err)
	require.Len(t, result.Products, 1)

	specs := result.Products[0].Specs
	assert.Equal(t, 32, specs.RAM.SizeGB)
	assert.Equal(t, 14.0, specs.Display.SizeInches)
	assert.True(t, specs.Display.Touch)
	assert.Equal(t, 120, specs.Display.RefreshHz)
}

func TestMapWarnsOnUnknownSpecs(t *testing.T) {
	item := apiProduct("hp-1", 3200)
	item.Specs["webcam"] = "1080p"
	item.Specs["color_gamut"] = "100% sRGB"

	result := Map([]ApiProduct{item})
	require.NoError(t, result.Err)
	assert.Equal(t, []string{
		`product "hp-1": ignoring unknown spec "color_gamut"`,
		`product "hp-1": ignoring unknown spec "webcam"`,
	}, result.Warnings)
}

func TestMapSkipsInvalidRecords(t *testing.T) {
	noName := apiProduct("bad-name", 3000)
	noName.Name = ""
	freePrice := apiProduct("bad-price", 0)
	badCondition := apiProduct("bad-condition", 3000)
	badCondition.Condition = "broken"
	badDate := apiProduct("bad-date", 3000)
	badDate.ReleasedAt = "soon"
	badColor := apiProduct("bad-color", 3000)
	badColor.Colors = []ApiColor{{ID: "red", Hex: "red-ish"}}
	noBrand := apiProduct("bad-brand", 3000)
	noBrand.Brand = ApiBrand{}
	badSpecs := apiProduct("bad-specs", 3000)
	badSpecs.Specs["ram_gb"] = "a lot"

	items := []ApiProduct{
		apiProduct("ok-1", 2000),
		noName, freePrice, badCondition, badDate, badColor, noBrand, badSpecs,
		apiProduct("ok-2", 2500),
	}
	result := Map(items)

	require.Len(t, result.Products, 2)
	assert.Equal(t, "ok-1", result.Products[0].ID)
	assert.Equal(t, "ok-2", result.Products[1].ID)
	assert.Equal(t, 7, result.Skipped)
	require.Error(t, result.Err)
	assert.Len(t, multierr.Errors(result.Err), 7)
	assert.Contains(t, result.Err.Error(), `product "bad-price"`)
}

func TestMapSkipsDuplicateIDs(t *testing.T) {
	result := Map([]ApiProduct{apiProduct("hp-1", 3000), apiProduct("hp-1", 4000)})

	require.Len(t, result.Products, 1)
	assert.Equal(t, 3000.0, result.Products[0].Price)
	assert.Equal(t, 1, result.Skipped)
	assert.ErrorContains(t, result.Err, "duplicate id")
}

func TestMapDerivesStockStatus(t *testing.T) {
	tests := []struct {
		stock    int
		expected product.StockStatus
	}{
		{0, product.StockOutOfStock},
		{3, product.StockLimited},
		{5, product.StockLimited},
		{6, product.StockInStock},
	}

	for _, tt := range tests {
		item := apiProduct("hp-1", 3000)
		item.StockAvailable = tt.stock
		result := Map([]ApiProduct{item})
		require.Len(t, result.Products, 1)
		assert.Equal(t, tt.expected, result.Products[0].StockStatus, "stock %d", tt.stock)
	}
}

func TestMapDerivesGama(t *testing.T) {
	tests := []struct {
		name     string
		gama     string
		price    float64
		gpu      string
		expected product.Gama
	}{
		{"explicit", "Creative", 3000, "integrated", product.GamaCreative},
		{"dedicated gpu", "", 3000, "dedicated", product.GamaGaming},
		{"expensive", "", 5400, "integrated", product.GamaProfessional},
		{"cheap", "", 1500, "integrated", product.GamaBudget},
		{"mid range", "", 3000, "integrated", product.GamaStudent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := apiProduct("hp-1", tt.price)
			item.Gama = tt.gama
			item.Specs["gpu_type"] = tt.gpu
			result := Map([]ApiProduct{item})
			require.Len(t, result.Products, 1)
			assert.Equal(t, tt.expected, result.Products[0].Gama)
		})
	}
}

func TestMapDeviceTypeAndCondition(t *testing.T) {
	tablet := apiProduct("tab-1", 1200)
	tablet.Category = "Tablets"
	refurb := apiProduct("ref-1", 1200)
	refurb.Condition = "refurbished"
	uncategorized := apiProduct("unc-1", 1200)
	uncategorized.Category = ""
	capitalized := apiProduct("cap-1", 1200)
	capitalized.Condition = " Used "

	result := Map([]ApiProduct{tablet, refurb, uncategorized, capitalized})
	require.NoError(t, result.Err)
	require.Len(t, result.Products, 4)
	assert.Equal(t, product.DeviceTablet, result.Products[0].DeviceType)
	assert.Equal(t, product.ConditionRefurbished, result.Products[1].Condition)
	assert.Equal(t, product.DeviceLaptop, result.Products[2].DeviceType)
	assert.Equal(t, product.ConditionNew, result.Products[2].Condition)
	assert.Equal(t, product.ConditionUsed, result.Products[3].Condition)
}
