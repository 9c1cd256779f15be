// Package compare derives side-by-side comparable specifications and quota deltas
// for a small set of products.
package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/mathutil"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// NoWinner marks a spec with no single best product.
const NoWinner = -1

var (
	// ErrUnknownFieldSet is returned by ParseFieldSet for unrecognized versions.
	ErrUnknownFieldSet = errors.New("unknown comparison field set")
	// ErrUnknownProduct is returned when a requested product id is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrDuplicateProduct is returned when the same product is selected twice.
	ErrDuplicateProduct = errors.New("duplicate product in comparison")
)

// InvalidComparisonSizeError is returned when fewer than two or more than four
// products are compared.
type InvalidComparisonSizeError struct {
	Size int
}

func (e *InvalidComparisonSizeError) Error() string {
	return fmt.Sprintf("cannot compare %d products: between %d and %d are required",
		e.Size, constants.MinComparedProducts, constants.MaxComparedProducts)
}

// Quoter yields the default-plan monthly installment of a price.
type Quoter interface {
	DefaultQuota(price float64) float64
}

// ComparableSpec is one compared dimension across the selected products.
type ComparableSpec struct {
	Key            string    `json:"key"`
	Label          string    `json:"label"`
	Values         []float64 `json:"values"`
	Display        []string  `json:"display"`
	IsDifferent    bool      `json:"isDifferent"`
	HigherIsBetter bool      `json:"higherIsBetter"`
	Winner         int       `json:"winner"`
}

// HasWinner reports whether a single product is best on this spec.
func (s ComparableSpec) HasWinner() bool {
	return s.Winner != NoWinner
}

// PriceDifference holds quota deltas relative to the cheapest compared product.
type PriceDifference struct {
	Quotas        []float64 `json:"quotas"`
	Cheapest      int       `json:"cheapest"`
	MostExpensive int       `json:"mostExpensive"`
	MonthlyDelta  []float64 `json:"monthlyDelta"`
	AnnualDelta   []float64 `json:"annualDelta"`
	AnnualSaving  float64   `json:"annualSaving"`
}

// Comparator compares products under a field set.
type Comparator struct {
	quoter         Quoter
	fields         []field
	fieldSet       FieldSet
	currencySymbol string
}

// NewComparator creates a Comparator that prices products with q.
func NewComparator(q Quoter, fs FieldSet) (*Comparator, error) {
	fields, ok := fieldSets[fs]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldSet, fs)
	}
	return &Comparator{
		quoter:         q,
		fields:         fields,
		fieldSet:       fs,
		currencySymbol: constants.DefaultCurrencySymbol,
	}, nil
}

// WithCurrencySymbol returns a copy of the comparator that renders money with symbol.
func (c *Comparator) WithCurrencySymbol(symbol string) *Comparator {
	cp := *c
	cp.currencySymbol = symbol
	return &cp
}

// FieldSet returns the comparator's field set.
func (c *Comparator) FieldSet() FieldSet {
	return c.fieldSet
}

// CompareSpecs returns one ComparableSpec per field, in field-set order.
func (c *Comparator) CompareSpecs(products []product.Product) ([]ComparableSpec, error) {
	if err := checkSize(len(products)); err != nil {
		return nil, err
	}

	specs := make([]ComparableSpec, 0, len(c.fields))
	for _, f := range c.fields {
		spec := ComparableSpec{
			Key:            f.key,
			Label:          f.label,
			Values:         make([]float64, len(products)),
			Display:        make([]string, len(products)),
			HigherIsBetter: f.higherIsBetter,
		}
		for i := range products {
			spec.Values[i] = f.value(c, &products[i])
			spec.Display[i] = f.display(c, &products[i])
		}
		spec.IsDifferent = !allEqual(spec.Values)
		spec.Winner = winner(spec.Values, spec.HigherIsBetter, spec.IsDifferent)
		specs = append(specs, spec)
	}
	return specs, nil
}

// PriceDifference computes each product's quota delta against the cheapest one.
// Ties resolve to the first product holding the extreme quota.
func (c *Comparator) PriceDifference(products []product.Product) (PriceDifference, error) {
	if err := checkSize(len(products)); err != nil {
		return PriceDifference{}, err
	}

	diff := PriceDifference{
		Quotas:       make([]float64, len(products)),
		MonthlyDelta: make([]float64, len(products)),
		AnnualDelta:  make([]float64, len(products)),
	}
	for i := range products {
		diff.Quotas[i] = c.quota(&products[i])
		if diff.Quotas[i] < diff.Quotas[diff.Cheapest] {
			diff.Cheapest = i
		}
		if diff.Quotas[i] > diff.Quotas[diff.MostExpensive] {
			diff.MostExpensive = i
		}
	}

	cheapest := diff.Quotas[diff.Cheapest]
	for i, q := range diff.Quotas {
		diff.MonthlyDelta[i] = q - cheapest
		diff.AnnualDelta[i] = diff.MonthlyDelta[i] * constants.MonthsPerYear
	}
	diff.AnnualSaving = (diff.Quotas[diff.MostExpensive] - cheapest) * constants.MonthsPerYear
	return diff, nil
}

// Summary counts, per product, the specs it wins outright.
func Summary(specs []ComparableSpec) []int {
	if len(specs) == 0 {
		return nil
	}
	wins := make([]int, len(specs[0].Values))
	for _, s := range specs {
		if s.Winner >= 0 && s.Winner < len(wins) {
			wins[s.Winner]++
		}
	}
	return wins
}

// Select resolves ids against the catalog, preserving the requested order.
func Select(products []product.Product, ids []string) ([]product.Product, error) {
	selected := make([]product.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProduct, id)
		}
		seen[id] = true
		p, ok := product.FindByID(products, id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

func (c *Comparator) quota(p *product.Product) float64 {
	if c.quoter == nil {
		return p.Price
	}
	return c.quoter.DefaultQuota(p.Price)
}

func checkSize(n int) error {
	if n < constants.MinComparedProducts || n > constants.MaxComparedProducts {
		return &InvalidComparisonSizeError{Size: n}
	}
	return nil
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if !mathutil.Equal(v, values[0]) {
			return false
		}
	}
	return true
}

// winner returns the index of the unique extreme value, or NoWinner when all values
// are equal or the extreme is shared.
func winner(values []float64, higherIsBetter, different bool) int {
	if !different {
		return NoWinner
	}
	best := 0
	for i, v := range values {
		if (higherIsBetter && v > values[best]) || (!higherIsBetter && v < values[best]) {
			best = i
		}
	}
	shared := 0
	for _, v := range values {
		if mathutil.Equal(v, values[best]) {
			shared++
		}
	}
	if shared > 1 {
		return NoWinner
	}
	return best
}
