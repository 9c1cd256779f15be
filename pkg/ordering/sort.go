// Package ordering sorts product listings by a user-selected key.
package ordering

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/catalog-quota/pkg/product"
)

// ErrUnknownSortKey is returned by ParseKey for unrecognized keys.
var ErrUnknownSortKey = errors.New("unknown sort key")

// Key selects an ordering.
type Key string

const (
	PriceAsc    Key = "price_asc"
	PriceDesc   Key = "price_desc"
	QuotaAsc    Key = "quota_asc"
	Newest      Key = "newest"
	Popular     Key = "popular"
	Recommended Key = "recommended"
)

// Keys lists every supported key.
func Keys() []Key {
	return []Key{Recommended, PriceAsc, PriceDesc, QuotaAsc, Newest, Popular}
}

// FeaturedTags promote a product in the recommended ordering.
var FeaturedTags = []string{"recomendado", "recommended", "bestseller", "oferta"}

// Quoter yields the default-plan monthly installment of a price.
type Quoter interface {
	DefaultQuota(price float64) float64
}

// ParseKey resolves a key name. The empty string selects Recommended.
func ParseKey(name string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(name)))
	if k == "" {
		return Recommended, nil
	}
	for _, known := range Keys() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, name)
}

// Sort returns a new slice ordered by key. Ties keep their input order. The quoter
// is only consulted for QuotaAsc and Recommended.
func Sort(products []product.Product, key Key, q Quoter) ([]product.Product, error) {
	sorted := make([]product.Product, len(products))
	copy(sorted, products)

	var less func(a, b *product.Product) bool
	switch key {
	case PriceAsc:
		less = func(a, b *product.Product) bool { return a.Price < b.Price }
	case PriceDesc:
		less = func(a, b *product.Product) bool { return a.Price > b.Price }
	case QuotaAsc:
		less = func(a, b *product.Product) bool { return quota(q, a) < quota(q, b) }
	case Newest:
		less = func(a, b *product.Product) bool { return a.ReleasedAt.After(b.ReleasedAt) }
	case Popular:
		less = func(a, b *product.Product) bool { return a.Popularity > b.Popularity }
	case Recommended, "":
		less = func(a, b *product.Product) bool { return recommendedLess(a, b, q) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})
	return sorted, nil
}

func recommendedLess(a, b *product.Product, q Quoter) bool {
	if ra, rb := stockRank(a.StockStatus), stockRank(b.StockStatus); ra != rb {
		return ra < rb
	}
	if fa, fb := featured(a), featured(b); fa != fb {
		return fa
	}
	if a.Popularity != b.Popularity {
		return a.Popularity > b.Popularity
	}
	if qa, qb := quota(q, a), quota(q, b); qa != qb {
		return qa < qb
	}
	return a.ID < b.ID
}

func stockRank(s product.StockStatus) int {
	switch s {
	case product.StockInStock:
		return 0
	case product.StockLimited:
		return 1
	case product.StockOutOfStock:
		return 3
	default:
		return 2
	}
}

func featured(p *product.Product) bool {
	for _, tag := range FeaturedTags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}

// quota falls back to the list price without a quoter.
func quota(q Quoter, p *product.Product) float64 {
	if q == nil {
		return p.Price
	}
	return q.DefaultQuota(p.Price)
}
