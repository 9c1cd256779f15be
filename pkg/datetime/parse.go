// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/catalog-quota/pkg/constants"
)

const (
	// ReleaseDateLayout is the month-precision layout for release dates.
	ReleaseDateLayout = constants.ReleaseDateLayout
)

var releaseLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	ReleaseDateLayout,
	"2006",
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseReleaseDate accepts RFC3339, day, month or year precision dates. An empty
// string yields the zero time.
func ParseReleaseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized release date %q", value)
}

// FormatMonth renders a time with month precision, or "" for the zero time.
func FormatMonth(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ReleaseDateLayout)
}

// OffsetMonths returns t shifted by the given number of months.
func OffsetMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
