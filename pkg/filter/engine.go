package filter

import (
	"github.com/iwvelando/catalog-quota/pkg/product"
)

// Quoter yields the monthly installment used for quota range filtering. It must be
// the same default plan used wherever the quota is displayed.
type Quoter interface {
	DefaultQuota(price float64) float64
}

// Engine evaluates products against filter states. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	quoter Quoter
}

// NewEngine creates an Engine that computes quotas with q.
func NewEngine(q Quoter) *Engine {
	return &Engine{quoter: q}
}

// Matches reports whether p satisfies every constrained dimension of s. Malformed
// constraints such as inverted ranges match nothing; reporting them is left to the
// caller.
func (e *Engine) Matches(p product.Product, s FilterState) bool {
	for i := range definitions {
		def := &definitions[i]
		if def.active(&s) && !def.match(e, &p, &s) {
			return false
		}
	}
	return true
}

// Apply returns the products matching s in their original order. The input slice
// is not modified.
func (e *Engine) Apply(products []product.Product, s FilterState) []product.Product {
	active := e.activeDefinitions(&s)
	matched := make([]product.Product, 0, len(products))
	for i := range products {
		if e.matchesAll(&products[i], &s, active) {
			matched = append(matched, products[i])
		}
	}
	return matched
}

// Count returns how many products match s.
func (e *Engine) Count(products []product.Product, s FilterState) int {
	active := e.activeDefinitions(&s)
	n := 0
	for i := range products {
		if e.matchesAll(&products[i], &s, active) {
			n++
		}
	}
	return n
}

func (e *Engine) activeDefinitions(s *FilterState) []*dimension {
	var active []*dimension
	for i := range definitions {
		if definitions[i].active(s) {
			active = append(active, &definitions[i])
		}
	}
	return active
}

func (e *Engine) matchesAll(p *product.Product, s *FilterState, active []*dimension) bool {
	for _, def := range active {
		if !def.match(e, p, s) {
			return false
		}
	}
	return true
}
