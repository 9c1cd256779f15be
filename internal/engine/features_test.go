package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/iwvelando/catalog-quota/pkg/compare"
	"github.com/iwvelando/catalog-quota/pkg/filter"
	"github.com/iwvelando/catalog-quota/pkg/pricing"
	"github.com/iwvelando/catalog-quota/pkg/product"
	"github.com/iwvelando/catalog-quota/pkg/testutil"
)

type catalogTestContext struct {
	products   []product.Product
	state      AppState
	quote      pricing.Quote
	quoteErr   error
	view       *View
	facet      map[string]int
	comparison *Comparison
	err        error
}

func (c *catalogTestContext) reset() {
	*c = catalogTestContext{}
}

func (c *catalogTestContext) engine() (*Engine, error) {
	return New(zap.NewNop(), c.products, nil)
}

func (c *catalogTestContext) aCatalogWithProducts(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		price, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		c.products = append(c.products, testutil.NewProduct(row.Cells[0].Value, row.Cells[1].Value, price))
	}
	return nil
}

func (c *catalogTestContext) aCatalogWithBrandCounts(first int, firstBrand string, second int, secondBrand string) error {
	c.products = testutil.BrandCatalog([]string{firstBrand, secondBrand},
		map[string]int{firstBrand: first, secondBrand: second})
	return nil
}

func (c *catalogTestContext) iQuoteAPrice(price, term, percent int) error {
	c.quote, c.quoteErr = pricing.DefaultCalculator().Quote(float64(price), term, float64(percent))
	return nil
}

func (c *catalogTestContext) theInitialAmountIs(expected int) error {
	return c.expectQuoteField("initial amount", c.quote.InitialAmount, expected)
}

func (c *catalogTestContext) theFinancedAmountIs(expected int) error {
	return c.expectQuoteField("financed amount", c.quote.Financed, expected)
}

func (c *catalogTestContext) theMonthlyQuotaIs(expected int) error {
	return c.expectQuoteField("quota", c.quote.Quota, expected)
}

func (c *catalogTestContext) expectQuoteField(name string, got float64, expected int) error {
	if c.quoteErr != nil {
		return fmt.Errorf("quote failed: %w", c.quoteErr)
	}
	if got != float64(expected) {
		return fmt.Errorf("expected %s %d, got %v", name, expected, got)
	}
	return nil
}

func (c *catalogTestContext) theQuoteFailsWithAnInvalidTerm() error {
	var termErr *pricing.InvalidTermError
	if !errors.As(c.quoteErr, &termErr) {
		return fmt.Errorf("expected InvalidTermError, got %v", c.quoteErr)
	}
	return nil
}

func (c *catalogTestContext) iFilterByBrand(brand string) error {
	c.state.Filters.Brands = []string{brand}
	return c.run()
}

func (c *catalogTestContext) iSortBy(key string) error {
	c.state.Sort = key
	return c.run()
}

func (c *catalogTestContext) run() error {
	e, err := c.engine()
	if err != nil {
		return err
	}
	c.view, c.err = e.Run(c.state)
	return c.err
}

func (c *catalogTestContext) productsMatch(expected int) error {
	if c.view.Matched != expected {
		return fmt.Errorf("expected %d matches, got %d", expected, c.view.Matched)
	}
	return nil
}

func (c *catalogTestContext) everyMatchedProductHasBrand(brand string) error {
	for _, item := range c.view.Items {
		if item.Product.Brand != brand {
			return fmt.Errorf("product %s has brand %q", item.Product.ID, item.Product.Brand)
		}
	}
	return nil
}

func (c *catalogTestContext) iCountTheFacet(name string) error {
	dim, err := filter.ParseDimension(name)
	if err != nil {
		return err
	}
	e, err := c.engine()
	if err != nil {
		return err
	}
	c.facet, err = e.filters.CountsFor(c.products, dim, c.state.Filters)
	return err
}

func (c *catalogTestContext) theFacetCountsAre(table *godog.Table) error {
	expected := make(map[string]int)
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		n, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		expected[row.Cells[0].Value] = n
	}
	if len(expected) != len(c.facet) {
		return fmt.Errorf("expected %d options, got %v", len(expected), c.facet)
	}
	for option, n := range expected {
		if c.facet[option] != n {
			return fmt.Errorf("expected %s=%d, got %d", option, n, c.facet[option])
		}
	}
	return nil
}

func (c *catalogTestContext) iCompareProducts(ids string) error {
	e, err := c.engine()
	if err != nil {
		return err
	}
	c.comparison, c.err = e.Compare(splitList(ids), "")
	return nil
}

func (c *catalogTestContext) theCheapestProductIs(id string) error {
	if c.err != nil {
		return c.err
	}
	cheapest := c.comparison.Products[c.comparison.PriceDifference.Cheapest].Product.ID
	if cheapest != id {
		return fmt.Errorf("expected cheapest %q, got %q", id, cheapest)
	}
	return nil
}

func (c *catalogTestContext) theMonthlyDeltasAre(list string) error {
	expected := splitList(list)
	deltas := c.comparison.PriceDifference.MonthlyDelta
	if len(expected) != len(deltas) {
		return fmt.Errorf("expected %d deltas, got %v", len(expected), deltas)
	}
	for i, s := range expected {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		if deltas[i] != v {
			return fmt.Errorf("delta %d: expected %v, got %v", i, v, deltas[i])
		}
	}
	return nil
}

func (c *catalogTestContext) theAnnualSavingIs(expected int) error {
	if got := c.comparison.PriceDifference.AnnualSaving; got != float64(expected) {
		return fmt.Errorf("expected annual saving %d, got %v", expected, got)
	}
	return nil
}

func (c *catalogTestContext) theSpecWinnerIs(key, id string) error {
	for _, spec := range c.comparison.Specs {
		if spec.Key != key {
			continue
		}
		if !spec.HasWinner() {
			return fmt.Errorf("spec %q has no winner", key)
		}
		if got := c.comparison.Products[spec.Winner].Product.ID; got != id {
			return fmt.Errorf("spec %q winner is %q, expected %q", key, got, id)
		}
		return nil
	}
	return fmt.Errorf("spec %q not compared", key)
}

func (c *catalogTestContext) theComparisonFailsWithSize(size int) error {
	var sizeErr *compare.InvalidComparisonSizeError
	if !errors.As(c.err, &sizeErr) {
		return fmt.Errorf("expected InvalidComparisonSizeError, got %v", c.err)
	}
	if sizeErr.Size != size {
		return fmt.Errorf("expected size %d, got %d", size, sizeErr.Size)
	}
	return nil
}

func (c *catalogTestContext) theOrderIs(list string) error {
	expected := splitList(list)
	if len(expected) != len(c.view.Items) {
		return fmt.Errorf("expected %d items, got %d", len(expected), len(c.view.Items))
	}
	for i, id := range expected {
		if c.view.Items[i].Product.ID != id {
			return fmt.Errorf("position %d: expected %q, got %q", i, id, c.view.Items[i].Product.ID)
		}
	}
	return nil
}

func splitList(list string) []string {
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &catalogTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a catalog with products:$`, tc.aCatalogWithProducts)
	ctx.Step(`^a catalog with (\d+) "([^"]*)" products and (\d+) "([^"]*)" products$`, tc.aCatalogWithBrandCounts)

	// When steps
	ctx.Step(`^I quote a price of (\d+) over (\d+) months with (\d+)% initial payment$`, tc.iQuoteAPrice)
	ctx.Step(`^I filter by brand "([^"]*)"$`, tc.iFilterByBrand)
	ctx.Step(`^I sort by "([^"]*)"$`, tc.iSortBy)
	ctx.Step(`^I count the "([^"]*)" facet$`, tc.iCountTheFacet)
	ctx.Step(`^I compare products "([^"]*)"$`, tc.iCompareProducts)

	// Then steps
	ctx.Step(`^the initial amount is (\d+)$`, tc.theInitialAmountIs)
	ctx.Step(`^the financed amount is (\d+)$`, tc.theFinancedAmountIs)
	ctx.Step(`^the monthly quota is (\d+)$`, tc.theMonthlyQuotaIs)
	ctx.Step(`^the quote fails with an invalid term$`, tc.theQuoteFailsWithAnInvalidTerm)
	ctx.Step(`^(\d+) products match$`, tc.productsMatch)
	ctx.Step(`^every matched product has brand "([^"]*)"$`, tc.everyMatchedProductHasBrand)
	ctx.Step(`^the facet counts are:$`, tc.theFacetCountsAre)
	ctx.Step(`^the cheapest product is "([^"]*)"$`, tc.theCheapestProductIs)
	ctx.Step(`^the monthly deltas are "([^"]*)"$`, tc.theMonthlyDeltasAre)
	ctx.Step(`^the annual saving is (\d+)$`, tc.theAnnualSavingIs)
	ctx.Step(`^the "([^"]*)" spec winner is "([^"]*)"$`, tc.theSpecWinnerIs)
	ctx.Step(`^the comparison fails with size (\d+)$`, tc.theComparisonFailsWithSize)
	ctx.Step(`^the order is "([^"]*)"$`, tc.theOrderIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/catalog.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
