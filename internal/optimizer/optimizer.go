// Package optimizer searches for the highest list price whose installment fits a
// monthly budget.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/format"
	"github.com/iwvelando/catalog-quota/pkg/pricing"
)

// ErrInvalidBudget is returned for budgets that are not positive.
var ErrInvalidBudget = errors.New("monthly budget must be positive")

// Config bounds the price search. Zero values select the package defaults.
type Config struct {
	Ceiling       float64
	Tolerance     float64
	MaxIterations int
}

// Summary captures the result of one budget search.
type Summary struct {
	Budget          float64  `json:"budget"`
	TermMonths      int      `json:"termMonths"`
	InitialPercent  float64  `json:"initialPercent"`
	MaxPrice        float64  `json:"maxPrice"`
	MaxPriceDisplay string   `json:"maxPriceDisplay,omitempty"`
	Quota           float64  `json:"quota"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
}

type evaluation struct {
	price  float64
	quota  float64
	budget float64
}

func (e evaluation) feasible() bool {
	return e.quota <= e.budget
}

func (e evaluation) headroom() float64 {
	return e.budget - e.quota
}

// Runner evaluates budgets against a calculator's plans.
type Runner struct {
	logger *zap.Logger
	calc   *pricing.Calculator
	cfg    Config
	symbol string
}

// NewRunner constructs a Runner. A nil calculator uses the default plans.
func NewRunner(logger *zap.Logger, calc *pricing.Calculator, cfg Config, symbol string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = pricing.DefaultCalculator()
	}
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = constants.MaxSearchPrice
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = constants.CurrencyUnit
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = constants.MaxSearchIterations
	}
	return &Runner{logger: logger, calc: calc, cfg: cfg, symbol: symbol}
}

// MaxPrice finds the highest whole-unit price whose monthly quota under the given
// plan does not exceed budget. A zero term selects the default term.
func (r *Runner) MaxPrice(budget float64, termMonths int, initialPercent float64) (Summary, error) {
	if budget <= 0 || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return Summary{}, fmt.Errorf("%w: got %v", ErrInvalidBudget, budget)
	}
	if termMonths == 0 {
		termMonths = r.calc.DefaultTerm()
	}

	lowerEval, err := r.evaluate(0, budget, termMonths, initialPercent)
	if err != nil {
		return Summary{}, err
	}
	upperEval, err := r.evaluate(r.cfg.Ceiling, budget, termMonths, initialPercent)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Budget:         budget,
		TermMonths:     termMonths,
		InitialPercent: initialPercent,
	}

	if upperEval.feasible() {
		summary.Notes = []string{fmt.Sprintf(
			"budget %s covers every price up to the search ceiling %s",
			format.Quota(budget, r.symbol),
			format.Currency(r.cfg.Ceiling, r.symbol),
		)}
		return r.finish(summary, upperEval, false), nil
	}

	iterations := 0
	best := lowerEval
	lower := lowerEval.price
	upper := upperEval.price
	for iterations < r.cfg.MaxIterations && upper-lower > r.cfg.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(mid, budget, termMonths, initialPercent)
		if err != nil {
			return Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			best = evalMid
			lower = mid
		} else {
			upper = mid
		}
	}
	summary.Iterations = iterations
	converged := upper-lower <= r.cfg.Tolerance

	// Rounding of the initial payment can make the quota dip locally, so the
	// snapped price is walked down until it fits again.
	snapped := math.Floor(best.price)
	for snapped > 0 {
		evalSnapped, err := r.evaluate(snapped, budget, termMonths, initialPercent)
		if err != nil {
			return Summary{}, err
		}
		if evalSnapped.feasible() {
			best = evalSnapped
			break
		}
		snapped -= constants.CurrencyUnit
	}
	if snapped <= 0 {
		best = lowerEval
	}

	if !converged {
		summary.Notes = []string{fmt.Sprintf("search stopped after %d iterations", iterations)}
	}
	return r.finish(summary, best, converged), nil
}

func (r *Runner) finish(summary Summary, best evaluation, converged bool) Summary {
	summary.MaxPrice = best.price
	summary.MaxPriceDisplay = format.Currency(best.price, r.symbol)
	summary.Quota = best.quota
	summary.Headroom = best.headroom()
	summary.Converged = converged

	r.logger.Debug("budget search finished",
		zap.String("op", "optimizer.MaxPrice"),
		zap.Float64("budget", summary.Budget),
		zap.Int("term", summary.TermMonths),
		zap.Float64("maxPrice", summary.MaxPrice),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
	return summary
}

func (r *Runner) evaluate(price, budget float64, termMonths int, initialPercent float64) (evaluation, error) {
	q, err := r.calc.Quote(price, termMonths, initialPercent)
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{price: price, quota: q.Quota, budget: budget}, nil
}
