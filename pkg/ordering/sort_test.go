package ordering

import (
	"errors"
	"reflect"
	"testing"

	"github.com/iwvelando/catalog-quota/pkg/pricing"
	"github.com/iwvelando/catalog-quota/pkg/product"
	"github.com/iwvelando/catalog-quota/pkg/testutil"
)

func ids(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestSortKeys(t *testing.T) {
	catalog := testutil.Catalog()
	calc := pricing.DefaultCalculator()

	tests := []struct {
		key      Key
		expected []string
	}{
		{PriceAsc, []string{"dell-2", "hp-1", "lenovo-1", "dell-1", "hp-2", "apple-1"}},
		{PriceDesc, []string{"apple-1", "hp-2", "dell-1", "lenovo-1", "hp-1", "dell-2"}},
		{QuotaAsc, []string{"dell-2", "hp-1", "lenovo-1", "dell-1", "hp-2", "apple-1"}},
		{Newest, []string{"hp-2", "dell-1", "lenovo-1", "apple-1", "hp-1", "dell-2"}},
		{Popular, []string{"hp-2", "apple-1", "hp-1", "lenovo-1", "dell-1", "dell-2"}},
		{Recommended, []string{"lenovo-1", "apple-1", "hp-1", "dell-1", "hp-2", "dell-2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			sorted, err := Sort(catalog, tt.key, calc)
			if err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			if got := ids(sorted); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Sort(%s) = %v, expected %v", tt.key, got, tt.expected)
			}

			again, err := Sort(sorted, tt.key, calc)
			if err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			if !reflect.DeepEqual(ids(again), ids(sorted)) {
				t.Errorf("re-sorting by %s changed the order: %v", tt.key, ids(again))
			}
		})
	}
}

func TestSortIsStable(t *testing.T) {
	a := testutil.NewProduct("a", "hp", 3000)
	b := testutil.NewProduct("b", "dell", 2000)
	c := testutil.NewProduct("c", "asus", 3000)
	d := testutil.NewProduct("d", "acer", 3000)

	sorted, err := Sort([]product.Product{c, a, b, d}, PriceAsc, nil)
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	expected := []string{"b", "c", "a", "d"}
	if got := ids(sorted); !reflect.DeepEqual(got, expected) {
		t.Errorf("Sort() = %v, expected %v", got, expected)
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	catalog := testutil.Catalog()
	before := ids(catalog)

	if _, err := Sort(catalog, PriceDesc, nil); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	if !reflect.DeepEqual(before, ids(catalog)) {
		t.Errorf("Sort() modified its input: %v", ids(catalog))
	}
}

func TestRecommendedIsDeterministic(t *testing.T) {
	a := testutil.NewProduct("b-2", "hp", 3000)
	b := testutil.NewProduct("b-1", "hp", 3000)
	c := testutil.NewProduct("a-1", "hp", 2000)

	calc := pricing.DefaultCalculator()
	first, err := Sort([]product.Product{a, b, c}, Recommended, calc)
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	second, err := Sort([]product.Product{c, b, a}, Recommended, calc)
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}

	expected := []string{"a-1", "b-1", "b-2"}
	if !reflect.DeepEqual(ids(first), expected) || !reflect.DeepEqual(ids(second), expected) {
		t.Errorf("Recommended ordering depends on input order: %v vs %v", ids(first), ids(second))
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		input     string
		expected  Key
		wantError bool
	}{
		{"", Recommended, false},
		{"price_asc", PriceAsc, false},
		{" POPULAR ", Popular, false},
		{"cheapest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKey(tt.input)
			if tt.wantError {
				if !errors.Is(err, ErrUnknownSortKey) {
					t.Errorf("ParseKey(%q) error = %v, expected ErrUnknownSortKey", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseKey(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSortUnknownKey(t *testing.T) {
	if _, err := Sort(testutil.Catalog(), Key("random"), nil); !errors.Is(err, ErrUnknownSortKey) {
		t.Errorf("Sort() error = %v, expected ErrUnknownSortKey", err)
	}
}
