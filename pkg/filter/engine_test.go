package filter

import (
	"reflect"
	"testing"

	"github.com/iwvelando/catalog-quota/pkg/pricing"
	"github.com/iwvelando/catalog-quota/pkg/product"
	"github.com/iwvelando/catalog-quota/pkg/testutil"
)

func newTestEngine() *Engine {
	return NewEngine(pricing.DefaultCalculator())
}

func ids(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyBrandFilter(t *testing.T) {
	catalog := testutil.BrandCatalog([]string{"hp", "dell"}, map[string]int{"hp": 2, "dell": 3})
	engine := newTestEngine()

	result := engine.Apply(catalog, FilterState{Brands: []string{"hp"}})

	if len(result) != 2 {
		t.Fatalf("Apply() returned %d products, expected 2", len(result))
	}
	for _, p := range result {
		if p.Brand != "hp" {
			t.Errorf("Apply() returned brand %q, expected hp", p.Brand)
		}
	}
}

func TestApplyDimensions(t *testing.T) {
	catalog := testutil.Catalog()
	engine := newTestEngine()

	tests := []struct {
		name     string
		state    FilterState
		expected []string
	}{
		{"Empty state keeps everything", FilterState{}, []string{"hp-1", "hp-2", "dell-1", "dell-2", "lenovo-1", "apple-1"}},
		{"Brand ignores case", FilterState{Brands: []string{"HP"}}, []string{"hp-1", "hp-2"}},
		{"Brands are ORed", FilterState{Brands: []string{"apple", "lenovo"}}, []string{"lenovo-1", "apple-1"}},
		{"RAM size", FilterState{RAMSizes: []int{8}}, []string{"hp-1", "dell-2"}},
		{"Storage size", FilterState{StorageSizes: []int{256, 1024}}, []string{"hp-1", "apple-1"}},
		{"Condition", FilterState{Conditions: []string{"refurbished"}}, []string{"dell-2"}},
		{"Gama", FilterState{Gamas: []string{"budget"}}, []string{"hp-1", "dell-2"}},
		{"Price range inclusive", FilterState{PriceRange: &Range{Min: 2400, Max: 4800}}, []string{"hp-1", "dell-1", "lenovo-1"}},
		{"Quota range", FilterState{QuotaRange: &Range{Min: 100, Max: 200}}, []string{"hp-2", "dell-1", "lenovo-1"}},
		{"Inverted range matches nothing", FilterState{PriceRange: &Range{Min: 5000, Max: 1000}}, []string{}},
		{"Touch", FilterState{Touch: Bool(true)}, []string{"dell-1"}},
		{"Without touch", FilterState{Touch: Bool(false), Brands: []string{"dell"}}, []string{"dell-2"}},
		{"RAM not expandable", FilterState{RAMExpandable: Bool(false)}, []string{"dell-1", "apple-1"}},
		{"Numpad", FilterState{Numpad: Bool(true)}, []string{"hp-1"}},
		{"Fingerprint reader", FilterState{FingerprintReader: Bool(true)}, []string{"dell-1"}},
		{"Windows not included", FilterState{WindowsIncluded: Bool(false)}, []string{"dell-2", "apple-1"}},
		{"Thunderbolt", FilterState{Thunderbolt: Bool(true)}, []string{"dell-1", "apple-1"}},
		{"Ethernet", FilterState{Ethernet: Bool(true)}, []string{"hp-1", "hp-2"}},
		{"Usage", FilterState{UsageTypes: []string{"programming"}}, []string{"dell-1", "apple-1"}},
		{"Processor model", FilterState{ProcessorModels: []string{"core i7", "M3 Pro"}}, []string{"dell-1", "apple-1"}},
		{"Processor brand", FilterState{ProcessorBrands: []string{"amd"}}, []string{"hp-2", "lenovo-1"}},
		{"Display size", FilterState{DisplaySizes: []float64{15.6}}, []string{"hp-1", "dell-2", "lenovo-1"}},
		{"Resolution", FilterState{Resolutions: []string{"fhd"}}, []string{"hp-1", "lenovo-1"}},
		{"Display type", FilterState{DisplayTypes: []string{"mini-led"}}, []string{"apple-1"}},
		{"GPU type", FilterState{GPUTypes: []string{"dedicated"}}, []string{"hp-2"}},
		{"Stock status", FilterState{StockStatuses: []string{"limited", "out_of_stock"}}, []string{"hp-2", "dell-2"}},
		{"Device type", FilterState{DeviceTypes: []string{"tablet"}}, []string{}},
		{"Query by name", FilterState{Query: "macbook"}, []string{"apple-1"}},
		{"Query by processor", FilterState{Query: " ryzen "}, []string{"hp-2", "lenovo-1"}},
		{"Combined constraints", FilterState{Brands: []string{"hp"}, RAMSizes: []int{16}}, []string{"hp-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(engine.Apply(catalog, tt.state))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Apply() = %v, expected %v", got, tt.expected)
			}
			if n := engine.Count(catalog, tt.state); n != len(tt.expected) {
				t.Errorf("Count() = %d, expected %d", n, len(tt.expected))
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	catalog := testutil.Catalog()
	engine := newTestEngine()
	state := FilterState{UsageTypes: []string{"office"}, PriceRange: &Range{Min: 0, Max: 5000}}

	once := engine.Apply(catalog, state)
	twice := engine.Apply(once, state)

	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("Apply() not idempotent: %v then %v", ids(once), ids(twice))
	}
}

func TestApplyIsMonotonic(t *testing.T) {
	catalog := testutil.Catalog()
	engine := newTestEngine()

	states := []FilterState{
		{},
		{ProcessorBrands: []string{"intel"}},
		{ProcessorBrands: []string{"intel"}, BacklitKeyboard: Bool(true)},
		{ProcessorBrands: []string{"intel"}, BacklitKeyboard: Bool(true), PriceRange: &Range{Min: 0, Max: 3000}},
	}

	previous := len(catalog) + 1
	for i, s := range states {
		n := len(engine.Apply(catalog, s))
		if n > previous {
			t.Errorf("state %d matched %d products, more than the looser state's %d", i, n, previous)
		}
		previous = n
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	catalog := testutil.Catalog()
	before := ids(catalog)
	newTestEngine().Apply(catalog, FilterState{Brands: []string{"dell"}})
	if !reflect.DeepEqual(before, ids(catalog)) {
		t.Errorf("Apply() modified its input: %v", ids(catalog))
	}
}

func TestMatches(t *testing.T) {
	engine := newTestEngine()
	p := testutil.NewProduct("x", "asus", 3600)

	if !engine.Matches(p, FilterState{}) {
		t.Error("Matches() with empty state should be true")
	}
	if !engine.Matches(p, FilterState{QuotaRange: &Range{Min: 135, Max: 135}}) {
		t.Error("Matches() should include a quota equal to both bounds")
	}
	if engine.Matches(p, FilterState{Brands: []string{"hp"}}) {
		t.Error("Matches() should reject another brand")
	}
}

func TestFilterStateWithoutAndActive(t *testing.T) {
	s := FilterState{
		Brands:     []string{"hp"},
		RAMSizes:   []int{16},
		Touch:      Bool(true),
		PriceRange: &Range{Min: 1, Max: 2},
		Query:      "pro",
	}

	expected := []Dimension{DimBrand, DimPrice, DimTouch, DimRAM, DimQuery}
	if got := s.Active(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Active() = %v, expected %v", got, expected)
	}

	for _, dim := range expected {
		derived := s.Without(dim)
		for _, active := range derived.Active() {
			if active == dim {
				t.Errorf("Without(%s) left the dimension active", dim)
			}
		}
		if len(derived.Active()) != len(expected)-1 {
			t.Errorf("Without(%s) changed other dimensions: %v", dim, derived.Active())
		}
	}

	if len(s.Brands) != 1 || s.Touch == nil {
		t.Error("Without() modified the receiver")
	}
	if !(FilterState{}).IsEmpty() {
		t.Error("IsEmpty() should be true for the zero state")
	}
}

func TestFilterStateKeyNormalization(t *testing.T) {
	a := FilterState{Brands: []string{"HP", "dell"}, RAMSizes: []int{16, 8}, Query: " Pro "}
	b := FilterState{Brands: []string{"Dell", "hp", "hp"}, RAMSizes: []int{8, 16}, Query: "pro"}
	c := FilterState{Brands: []string{"dell"}, RAMSizes: []int{8, 16}}

	if a.Key() != b.Key() {
		t.Errorf("Key() differs for equivalent states: %s vs %s", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Error("Key() should differ for different states")
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		input     string
		expected  Dimension
		wantError bool
	}{
		{"brand", DimBrand, false},
		{" RAM ", DimRAM, false},
		{"quota", DimQuota, false},
		{"colour", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDimension(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseDimension(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDimension(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDimension(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatDisplaySize(t *testing.T) {
	tests := map[float64]string{15.6: "15.6", 14: "14", 16.123: "16.12"}
	for in, expected := range tests {
		if got := FormatDisplaySize(in); got != expected {
			t.Errorf("FormatDisplaySize(%v) = %q, expected %q", in, got, expected)
		}
	}
}
