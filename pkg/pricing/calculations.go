// Package pricing converts list prices into flat monthly installments.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/shopspring/decimal"
)

// ErrInvalidInitialPercent is returned when an initial payment percent falls
// outside [0, 100].
var ErrInvalidInitialPercent = errors.New("initial payment percent must be between 0 and 100")

// ErrInvalidPrice is returned for a price that is not a finite number.
var ErrInvalidPrice = errors.New("price must be a finite number")

// InvalidTermError reports a non-positive or unsupported installment term.
type InvalidTermError struct {
	Term      int
	Supported []int
}

func (e *InvalidTermError) Error() string {
	if e.Term <= 0 {
		return fmt.Sprintf("invalid term %d: term must be a positive number of months", e.Term)
	}
	return fmt.Sprintf("unsupported term %d: expected one of %v", e.Term, e.Supported)
}

// Quote holds the installment breakdown for a price.
type Quote struct {
	Price          float64 `json:"price"`
	TermMonths     int     `json:"termMonths"`
	InitialPercent float64 `json:"initialPercent"`
	InitialAmount  float64 `json:"initialAmount"`
	Financed       float64 `json:"financed"`
	Quota          float64 `json:"quota"`
	// FinalQuota absorbs the rounding residue so the schedule sums to Price.
	FinalQuota float64 `json:"finalQuota"`
}

// Total returns the sum of the initial payment and every installment.
func (q Quote) Total() float64 {
	return q.InitialAmount + q.Quota*float64(q.TermMonths-1) + q.FinalQuota
}

var hundred = decimal.NewFromInt(100)

// CalculateQuota computes the initial payment and the flat monthly installment for
// a price. No interest is modeled: the financed principal is divided evenly over the
// term and both amounts are rounded half-up to the nearest currency unit.
func CalculateQuota(price float64, termMonths int, initialPercent float64) (Quote, error) {
	if termMonths <= 0 {
		return Quote{}, &InvalidTermError{Term: termMonths}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return Quote{}, ErrInvalidPrice
	}
	if math.IsNaN(initialPercent) || initialPercent < 0 || initialPercent > constants.MaxInitialPercent {
		return Quote{}, ErrInvalidInitialPercent
	}

	p := decimal.NewFromFloat(price)
	term := decimal.NewFromInt(int64(termMonths))

	initial := p.Mul(decimal.NewFromFloat(initialPercent)).Div(hundred).Round(0)
	financed := p.Sub(initial)
	quota := financed.Div(term).Round(0)
	final := financed.Sub(quota.Mul(decimal.NewFromInt(int64(termMonths - 1))))

	return Quote{
		Price:          price,
		TermMonths:     termMonths,
		InitialPercent: initialPercent,
		InitialAmount:  initial.InexactFloat64(),
		Financed:       financed.InexactFloat64(),
		Quota:          quota.InexactFloat64(),
		FinalQuota:     final.InexactFloat64(),
	}, nil
}

// Calculator quotes prices against a fixed set of supported terms and a
// catalog-wide default plan.
type Calculator struct {
	terms                 []int
	defaultTerm           int
	defaultInitialPercent float64
}

// NewCalculator validates the supported terms and default plan.
func NewCalculator(terms []int, defaultTerm int, defaultInitialPercent float64) (*Calculator, error) {
	if len(terms) == 0 {
		terms = constants.SupportedTerms
	}
	sorted := make([]int, 0, len(terms))
	seen := make(map[int]struct{}, len(terms))
	for _, term := range terms {
		if term <= 0 {
			return nil, &InvalidTermError{Term: term}
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		sorted = append(sorted, term)
	}
	sort.Ints(sorted)

	if _, ok := seen[defaultTerm]; !ok {
		return nil, &InvalidTermError{Term: defaultTerm, Supported: sorted}
	}
	if defaultInitialPercent < 0 || defaultInitialPercent > constants.MaxInitialPercent {
		return nil, ErrInvalidInitialPercent
	}

	return &Calculator{
		terms:                 sorted,
		defaultTerm:           defaultTerm,
		defaultInitialPercent: defaultInitialPercent,
	}, nil
}

// DefaultCalculator returns a Calculator using the catalog defaults.
func DefaultCalculator() *Calculator {
	c, err := NewCalculator(constants.SupportedTerms, constants.DefaultTermMonths, constants.DefaultInitialPercent)
	if err != nil {
		panic(err)
	}
	return c
}

// Terms returns the supported terms in ascending order.
func (c *Calculator) Terms() []int {
	return append([]int(nil), c.terms...)
}

// DefaultTerm returns the default term in months.
func (c *Calculator) DefaultTerm() int {
	return c.defaultTerm
}

// DefaultInitialPercent returns the default initial payment percent.
func (c *Calculator) DefaultInitialPercent() float64 {
	return c.defaultInitialPercent
}

// Supports reports whether term is one of the supported terms.
func (c *Calculator) Supports(term int) bool {
	for _, t := range c.terms {
		if t == term {
			return true
		}
	}
	return false
}

// Quote computes a quote, rejecting terms outside the supported set.
func (c *Calculator) Quote(price float64, termMonths int, initialPercent float64) (Quote, error) {
	if !c.Supports(termMonths) {
		return Quote{}, &InvalidTermError{Term: termMonths, Supported: c.Terms()}
	}
	return CalculateQuota(price, termMonths, initialPercent)
}

// QuoteOrDefault computes a quote and falls back to the default term when the
// requested term is invalid. The returned flag reports whether the fallback applied.
func (c *Calculator) QuoteOrDefault(price float64, termMonths int, initialPercent float64) (Quote, bool, error) {
	q, err := c.Quote(price, termMonths, initialPercent)
	var termErr *InvalidTermError
	if errors.As(err, &termErr) {
		q, err = CalculateQuota(price, c.defaultTerm, initialPercent)
		return q, true, err
	}
	return q, false, err
}

// DefaultQuote quotes a price with the default term and initial percent.
func (c *Calculator) DefaultQuote(price float64) Quote {
	// The defaults are validated in NewCalculator; only a non-finite price fails,
	// which yields the zero Quote.
	q, _ := CalculateQuota(price, c.defaultTerm, c.defaultInitialPercent)
	return q
}

// DefaultQuota returns the monthly installment under the default plan.
func (c *Calculator) DefaultQuota(price float64) float64 {
	return c.DefaultQuote(price).Quota
}

// Plans returns one quote per supported term, shortest term first.
func (c *Calculator) Plans(price float64, initialPercent float64) ([]Quote, error) {
	plans := make([]Quote, 0, len(c.terms))
	for _, term := range c.terms {
		q, err := CalculateQuota(price, term, initialPercent)
		if err != nil {
			return nil, err
		}
		plans = append(plans, q)
	}
	return plans, nil
}
