// Package format renders prices and technical values for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/catalog-quota/pkg/mathutil"
)

// Currency returns whole currency units with thousands separators and the given
// symbol (e.g., "-$1,234").
func Currency(amount float64, symbol string) string {
	formatted := groupThousands(fmt.Sprintf("%.0f", mathutil.RoundUnit(math.Abs(amount))))
	if amount < 0 && formatted != "0" {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// Quota renders a monthly installment (e.g., "$135/mo").
func Quota(amount float64, symbol string) string {
	return Currency(amount, symbol) + "/mo"
}

// NumericCurrency returns whole units with separators and no symbol (e.g., "-1,234").
func NumericCurrency(amount float64) string {
	return Currency(amount, "")
}

// Capacity renders a size in gigabytes, switching to terabytes on whole multiples
// of 1024 (e.g., "512 GB", "1 TB").
func Capacity(gb int) string {
	if gb >= 1024 && gb%1024 == 0 {
		return strconv.Itoa(gb/1024) + " TB"
	}
	return strconv.Itoa(gb) + " GB"
}

// Inches renders a screen diagonal (e.g., `15.6"`).
func Inches(size float64) string {
	return strconv.FormatFloat(math.Round(size*10)/10, 'f', -1, 64) + `"`
}

// Unit renders a value with a unit suffix, or "-" when the value is unknown.
func Unit(value float64, unit string) string {
	if value <= 0 {
		return "-"
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + unit
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
