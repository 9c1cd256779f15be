package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateQuota(t *testing.T) {
	tests := []struct {
		name            string
		price           float64
		term            int
		initialPercent  float64
		expectedInitial float64
		expectedFinance float64
		expectedQuota   float64
	}{
		{
			name:            "Reference plan 24 months 10 percent",
			price:           3600,
			term:            24,
			initialPercent:  10,
			expectedInitial: 360,
			expectedFinance: 3240,
			expectedQuota:   135,
		},
		{
			name:            "No initial payment",
			price:           1200,
			term:            12,
			initialPercent:  0,
			expectedInitial: 0,
			expectedFinance: 1200,
			expectedQuota:   100,
		},
		{
			name:            "Full initial payment",
			price:           2500,
			term:            18,
			initialPercent:  100,
			expectedInitial: 2500,
			expectedFinance: 0,
			expectedQuota:   0,
		},
		{
			name:            "Quota rounds half up",
			price:           1000,
			term:            36,
			initialPercent:  0,
			expectedInitial: 0,
			expectedFinance: 1000,
			expectedQuota:   28, // 27.78
		},
		{
			name:            "Initial rounds half up at midpoint",
			price:           3605,
			term:            24,
			initialPercent:  10,
			expectedInitial: 361, // 360.5
			expectedFinance: 3244,
			expectedQuota:   135, // 135.17
		},
		{
			name:            "Exact midpoint quota",
			price:           60,
			term:            24,
			initialPercent:  0,
			expectedInitial: 0,
			expectedFinance: 60,
			expectedQuota:   3, // 2.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := CalculateQuota(tt.price, tt.term, tt.initialPercent)
			if err != nil {
				t.Fatalf("CalculateQuota() unexpected error: %v", err)
			}
			if q.InitialAmount != tt.expectedInitial {
				t.Errorf("InitialAmount = %v, expected %v", q.InitialAmount, tt.expectedInitial)
			}
			if q.Financed != tt.expectedFinance {
				t.Errorf("Financed = %v, expected %v", q.Financed, tt.expectedFinance)
			}
			if q.Quota != tt.expectedQuota {
				t.Errorf("Quota = %v, expected %v", q.Quota, tt.expectedQuota)
			}
		})
	}
}

func TestCalculateQuotaErrors(t *testing.T) {
	tests := []struct {
		name           string
		term           int
		initialPercent float64
		wantTermErr    bool
		wantPercentErr bool
	}{
		{"Zero term", 0, 10, true, false},
		{"Negative term", -12, 10, true, false},
		{"Negative percent", 24, -1, false, true},
		{"Percent above hundred", 24, 100.5, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateQuota(1000, tt.term, tt.initialPercent)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			var termErr *InvalidTermError
			if errors.As(err, &termErr) != tt.wantTermErr {
				t.Errorf("InvalidTermError match = %v, expected %v (err: %v)", !tt.wantTermErr, tt.wantTermErr, err)
			}
			if errors.Is(err, ErrInvalidInitialPercent) != tt.wantPercentErr {
				t.Errorf("ErrInvalidInitialPercent match = %v, expected %v (err: %v)", !tt.wantPercentErr, tt.wantPercentErr, err)
			}
		})
	}
}

func TestCalculateQuotaRejectsNonFiniteInput(t *testing.T) {
	for _, price := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if _, err := CalculateQuota(price, 24, 10); !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("CalculateQuota(%v) error = %v, expected ErrInvalidPrice", price, err)
		}
		if _, err := DefaultCalculator().Plans(price, 10); !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("Plans(%v) error = %v, expected ErrInvalidPrice", price, err)
		}
	}
	if _, err := CalculateQuota(1000, 24, math.NaN()); !errors.Is(err, ErrInvalidInitialPercent) {
		t.Errorf("CalculateQuota with NaN percent error = %v, expected ErrInvalidInitialPercent", err)
	}
}

func TestQuotaMonotonicity(t *testing.T) {
	for _, term := range []int{12, 18, 24, 36} {
		for _, percent := range []float64{0, 10, 25, 50} {
			previous := -1.0
			for price := 100.0; price <= 6000; price++ {
				q, err := CalculateQuota(price, term, percent)
				if err != nil {
					t.Fatalf("CalculateQuota(%v, %d, %v) error = %v", price, term, percent, err)
				}
				if q.Quota < previous {
					t.Fatalf("quota decreased at price %v (term %d, percent %v): %v < %v",
						price, term, percent, q.Quota, previous)
				}
				previous = q.Quota
			}

			low, _ := CalculateQuota(1000, term, percent)
			high, _ := CalculateQuota(1000+float64(term)*4, term, percent)
			if !(low.Quota < high.Quota) {
				t.Errorf("expected strictly greater quota for a price larger by several terms, got %v and %v",
					low.Quota, high.Quota)
			}
		}
	}
}

func TestQuotaDecomposition(t *testing.T) {
	for _, term := range []int{12, 18, 24, 36} {
		for _, percent := range []float64{0, 5, 10, 20, 33, 100} {
			for price := 50.0; price <= 5000; price += 37 {
				q, err := CalculateQuota(price, term, percent)
				if err != nil {
					t.Fatalf("CalculateQuota() error = %v", err)
				}

				// Each installment carries at most half a unit of rounding.
				flat := q.InitialAmount + q.Quota*float64(term)
				if math.Abs(flat-price) > float64(term)/2+1e-9 {
					t.Errorf("price %v term %d percent %v: initial+quota*term = %v too far from price",
						price, term, percent, flat)
				}

				if math.Abs(q.Total()-price) > 1e-6 {
					t.Errorf("price %v term %d percent %v: schedule total %v != price",
						price, term, percent, q.Total())
				}
			}
		}
	}

	q, _ := CalculateQuota(3600, 24, 10)
	if q.InitialAmount+q.Quota*24 != 3600 {
		t.Errorf("evenly divisible plan should decompose exactly, got %v", q.InitialAmount+q.Quota*24)
	}
	if q.FinalQuota != q.Quota {
		t.Errorf("evenly divisible plan should have FinalQuota == Quota, got %v", q.FinalQuota)
	}
}

func TestNewCalculator(t *testing.T) {
	c, err := NewCalculator([]int{36, 12, 24, 18, 12}, 24, 10)
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	terms := c.Terms()
	expected := []int{12, 18, 24, 36}
	if len(terms) != len(expected) {
		t.Fatalf("Terms() = %v, expected %v", terms, expected)
	}
	for i := range expected {
		if terms[i] != expected[i] {
			t.Errorf("Terms()[%d] = %d, expected %d", i, terms[i], expected[i])
		}
	}

	if _, err := NewCalculator([]int{12, 24}, 18, 10); err == nil {
		t.Error("expected error for default term outside supported set")
	}
	if _, err := NewCalculator([]int{0, 12}, 12, 10); err == nil {
		t.Error("expected error for non-positive supported term")
	}
	if _, err := NewCalculator([]int{12}, 12, 150); !errors.Is(err, ErrInvalidInitialPercent) {
		t.Errorf("expected ErrInvalidInitialPercent, got %v", err)
	}
}

func TestCalculatorQuote(t *testing.T) {
	c := DefaultCalculator()

	if _, err := c.Quote(3600, 30, 10); err == nil {
		t.Error("expected InvalidTermError for unsupported term")
	} else {
		var termErr *InvalidTermError
		if !errors.As(err, &termErr) || termErr.Term != 30 {
			t.Errorf("expected InvalidTermError{Term: 30}, got %v", err)
		}
	}

	q, fellBack, err := c.QuoteOrDefault(3600, 30, 10)
	if err != nil {
		t.Fatalf("QuoteOrDefault() error = %v", err)
	}
	if !fellBack || q.TermMonths != 24 || q.Quota != 135 {
		t.Errorf("QuoteOrDefault() = %+v (fallback %v), expected default term quote of 135", q, fellBack)
	}

	q, fellBack, err = c.QuoteOrDefault(3600, 12, 10)
	if err != nil || fellBack || q.Quota != 270 {
		t.Errorf("QuoteOrDefault(12) = %+v (fallback %v, err %v), expected 270 without fallback", q, fellBack, err)
	}

	if got := c.DefaultQuota(3600); got != 135 {
		t.Errorf("DefaultQuota(3600) = %v, expected 135", got)
	}
}

func TestCalculatorPlans(t *testing.T) {
	c := DefaultCalculator()
	plans, err := c.Plans(3600, 10)
	if err != nil {
		t.Fatalf("Plans() error = %v", err)
	}
	expected := map[int]float64{12: 270, 18: 180, 24: 135, 36: 90}
	if len(plans) != len(expected) {
		t.Fatalf("Plans() returned %d plans, expected %d", len(plans), len(expected))
	}
	for i, plan := range plans {
		if plan.Quota != expected[plan.TermMonths] {
			t.Errorf("plan for %d months quota = %v, expected %v", plan.TermMonths, plan.Quota, expected[plan.TermMonths])
		}
		if i > 0 && plans[i-1].TermMonths >= plan.TermMonths {
			t.Errorf("plans not ordered by term: %d before %d", plans[i-1].TermMonths, plan.TermMonths)
		}
	}

	if _, err := c.Plans(3600, -5); !errors.Is(err, ErrInvalidInitialPercent) {
		t.Errorf("expected ErrInvalidInitialPercent, got %v", err)
	}
}
