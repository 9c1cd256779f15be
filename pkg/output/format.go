// Package output provides utilities for formatting and displaying catalog views.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iwvelando/catalog-quota/internal/engine"
	"github.com/iwvelando/catalog-quota/pkg/compare"
	"github.com/iwvelando/catalog-quota/pkg/filter"
	"github.com/iwvelando/catalog-quota/pkg/format"
)

// PrettyFormat writes a human-readable rather than machine-readable report of view.
func PrettyFormat(w io.Writer, view *engine.View, symbol string) error {
	p := message.NewPrinter(language.English)

	pages := view.Pages
	if pages == 0 {
		pages = 1
	}
	_, _ = p.Fprintf(w, "--- Catalog: %d of %d products (sort %s, page %d of %d) ---\n",
		view.Matched, view.Total, view.Sort, view.Page+1, pages)
	fmt.Fprintf(w, "ID | Product | Price | Initial | Quota | Stock\n")
	fmt.Fprintf(w, "__ | _______ | _____ | _______ | _____ | _____\n")
	for _, item := range view.Items {
		fmt.Fprintf(w, "%s | %s | %s | %s | %s x%d | %s\n",
			item.Product.ID,
			item.Product.Name,
			format.Currency(item.Product.Price, symbol),
			format.Currency(item.Quote.InitialAmount, symbol),
			format.Quota(item.Quote.Quota, symbol),
			item.Quote.TermMonths,
			item.Product.StockStatus,
		)
	}
	if len(view.Items) == 0 {
		fmt.Fprintf(w, "(no products match the current filters)\n")
	}

	if len(view.Facets) > 0 {
		fmt.Fprintf(w, "\n--- Facets ---\n")
		for _, dim := range sortedDimensions(view.Facets) {
			counts := view.Facets[dim]
			options := make([]string, 0, len(counts))
			for _, option := range sortedOptions(counts) {
				options = append(options, p.Sprintf("%s (%d)", option, counts[option]))
			}
			fmt.Fprintf(w, "%s: %s\n", dim, strings.Join(options, ", "))
		}
	}

	if view.Comparison != nil {
		fmt.Fprintf(w, "\n")
		if err := PrettyComparison(w, view.Comparison, symbol); err != nil {
			return err
		}
	}

	if len(view.Warnings) > 0 {
		fmt.Fprintf(w, "\n--- Warnings ---\n")
		for _, warning := range view.Warnings {
			fmt.Fprintf(w, "! %s\n", warning)
		}
	}
	return nil
}

// PrettyComparison writes the side-by-side comparison. The winning value of each
// spec is marked with an asterisk.
func PrettyComparison(w io.Writer, c *engine.Comparison, symbol string) error {
	header := []string{"Spec"}
	for _, listing := range c.Products {
		header = append(header, listing.Product.ID)
	}
	fmt.Fprintf(w, "--- Comparison (%s) ---\n", c.FieldSet)
	fmt.Fprintf(w, "%s\n", strings.Join(header, " | "))

	for _, spec := range c.Specs {
		row := []string{spec.Label}
		for i, display := range spec.Display {
			if spec.Winner == i {
				display += " *"
			}
			row = append(row, display)
		}
		if spec.IsDifferent {
			row[0] += " (differs)"
		}
		fmt.Fprintf(w, "%s\n", strings.Join(row, " | "))
	}

	diff := c.PriceDifference
	deltas := []string{"Monthly delta"}
	annual := []string{"Annual delta"}
	for i := range diff.MonthlyDelta {
		deltas = append(deltas, "+"+format.Quota(diff.MonthlyDelta[i], symbol))
		annual = append(annual, "+"+format.Currency(diff.AnnualDelta[i], symbol))
	}
	fmt.Fprintf(w, "%s\n", strings.Join(deltas, " | "))
	fmt.Fprintf(w, "%s\n", strings.Join(annual, " | "))

	if len(c.Products) > 0 {
		fmt.Fprintf(w, "Choosing %s saves %s a year over %s\n",
			c.Products[diff.Cheapest].Product.ID,
			format.Currency(diff.AnnualSaving, symbol),
			c.Products[diff.MostExpensive].Product.ID,
		)
	}

	wins := []string{"Wins"}
	for _, n := range c.Wins {
		wins = append(wins, strconv.Itoa(n))
	}
	fmt.Fprintf(w, "%s\n", strings.Join(wins, " | "))
	return nil
}

// CsvFormat writes the listed items in comma-separated value format.
func CsvFormat(w io.Writer, view *engine.View) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "brand", "name", "price", "term", "initial", "quota", "final_quota", "stock_status"})
	for _, item := range view.Items {
		_ = cw.Write([]string{
			item.Product.ID,
			item.Product.Brand,
			item.Product.Name,
			formatFloat(item.Product.Price),
			strconv.Itoa(item.Quote.TermMonths),
			formatFloat(item.Quote.InitialAmount),
			formatFloat(item.Quote.Quota),
			formatFloat(item.Quote.FinalQuota),
			string(item.Product.StockStatus),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write catalog CSV: %w", err)
	}

	if view.Comparison != nil {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return CsvComparison(w, view.Comparison)
	}
	return nil
}

// CsvComparison writes one row per compared spec followed by the winner's id.
func CsvComparison(w io.Writer, c *engine.Comparison) error {
	cw := csv.NewWriter(w)

	header := []string{"spec"}
	for _, listing := range c.Products {
		header = append(header, listing.Product.ID)
	}
	header = append(header, "winner")
	_ = cw.Write(header)

	for _, spec := range c.Specs {
		row := append([]string{spec.Key}, spec.Display...)
		winner := ""
		if spec.Winner != compare.NoWinner {
			winner = c.Products[spec.Winner].Product.ID
		}
		_ = cw.Write(append(row, winner))
	}

	row := []string{"monthly_delta"}
	for _, d := range c.PriceDifference.MonthlyDelta {
		row = append(row, formatFloat(d))
	}
	_ = cw.Write(append(row, ""))

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write comparison CSV: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedDimensions(facets filter.Facets) []filter.Dimension {
	dims := make([]filter.Dimension, 0, len(facets))
	for dim := range facets {
		dims = append(dims, dim)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}

// sortedOptions orders options by descending count, then name.
func sortedOptions(counts map[string]int) []string {
	options := make([]string, 0, len(counts))
	for option := range counts {
		options = append(options, option)
	}
	sort.Slice(options, func(i, j int) bool {
		if counts[options[i]] != counts[options[j]] {
			return counts[options[i]] > counts[options[j]]
		}
		return options[i] < options[j]
	})
	return options
}
