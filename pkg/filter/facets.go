package filter

import (
	"fmt"

	"github.com/iwvelando/catalog-quota/pkg/product"
)

// Facets maps a dimension to its option counts.
type Facets map[Dimension]map[string]int

// Clone returns a deep copy.
func (f Facets) Clone() Facets {
	out := make(Facets, len(f))
	for dim, counts := range f {
		c := make(map[string]int, len(counts))
		for option, n := range counts {
			c[option] = n
		}
		out[dim] = c
	}
	return out
}

// CountsFor counts, for every option of dim present in the catalog, the products
// that carry that option and match s once dim itself is left unconstrained. Options
// with no matching product are reported with a zero count.
func (e *Engine) CountsFor(products []product.Product, dim Dimension, s FilterState) (map[string]int, error) {
	def, err := facetDefinition(dim)
	if err != nil {
		return nil, err
	}

	derived := s.Without(dim)
	options := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range products {
		for _, v := range def.values(&products[i]) {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				options = append(options, v)
			}
		}
	}

	counts := make(map[string]int, len(options))
	for _, option := range options {
		n := 0
		for i := range products {
			if !hasOption(def.values(&products[i]), option) {
				continue
			}
			if e.Matches(products[i], derived) {
				n++
			}
		}
		counts[option] = n
	}
	return counts, nil
}

// Facets computes the counts of several dimensions in a single pass over the
// catalog. A product matching every constraint counts toward each requested
// dimension; a product failing exactly one constraint counts only toward that
// dimension; anything else counts nowhere. With no dims, every facet dimension is
// computed. The result equals calling CountsFor per dimension.
func (e *Engine) Facets(products []product.Product, s FilterState, dims ...Dimension) (Facets, error) {
	if len(dims) == 0 {
		dims = FacetDimensions()
	}

	requested := make([]*dimension, 0, len(dims))
	wanted := make(map[Dimension]bool, len(dims))
	facets := make(Facets, len(dims))
	for _, dim := range dims {
		def, err := facetDefinition(dim)
		if err != nil {
			return nil, err
		}
		if wanted[dim] {
			continue
		}
		wanted[dim] = true
		requested = append(requested, def)
		facets[dim] = make(map[string]int)
	}

	active := e.activeDefinitions(&s)
	for i := range products {
		p := &products[i]

		failures := 0
		var failed Dimension
		for _, def := range active {
			if !def.match(e, p, &s) {
				failures++
				failed = def.dim
				if failures > 1 {
					break
				}
			}
		}

		for _, def := range requested {
			counts := facets[def.dim]
			contributes := failures == 0 || (failures == 1 && failed == def.dim)
			for _, v := range def.values(p) {
				if contributes {
					counts[v]++
				} else if _, ok := counts[v]; !ok {
					counts[v] = 0
				}
			}
		}
	}
	return facets, nil
}

func facetDefinition(dim Dimension) (*dimension, error) {
	for i := range definitions {
		if definitions[i].dim == dim {
			if definitions[i].values == nil {
				return nil, fmt.Errorf("%w: %q has no facet options", ErrUnknownDimension, dim)
			}
			return &definitions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
}

func hasOption(values []string, option string) bool {
	for _, v := range values {
		if v == option {
			return true
		}
	}
	return false
}
