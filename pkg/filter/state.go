// Package filter evaluates products against a composite filter state and derives
// dynamic facet counts.
package filter

import (
	"encoding/json"
	"sort"
	"strings"
)

// Range is an inclusive [Min, Max] bound. A range with Min > Max matches nothing.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Inverted reports whether the range cannot contain any value.
func (r Range) Inverted() bool {
	return r.Min > r.Max
}

// FilterState is a snapshot of every active predicate. Empty slices, nil ranges and
// nil flags leave their dimension unconstrained.
type FilterState struct {
	Brands          []string  `json:"brands,omitempty"`
	UsageTypes      []string  `json:"usageTypes,omitempty"`
	RAMSizes        []int     `json:"ramSizes,omitempty"`
	StorageSizes    []int     `json:"storageSizes,omitempty"`
	Gamas           []string  `json:"gamas,omitempty"`
	Conditions      []string  `json:"conditions,omitempty"`
	ProcessorModels []string  `json:"processorModels,omitempty"`
	ProcessorBrands []string  `json:"processorBrands,omitempty"`
	DisplaySizes    []float64 `json:"displaySizes,omitempty"`
	Resolutions     []string  `json:"resolutions,omitempty"`
	DisplayTypes    []string  `json:"displayTypes,omitempty"`
	DeviceTypes     []string  `json:"deviceTypes,omitempty"`
	StockStatuses   []string  `json:"stockStatuses,omitempty"`
	GPUTypes        []string  `json:"gpuTypes,omitempty"`

	PriceRange *Range `json:"priceRange,omitempty"`
	QuotaRange *Range `json:"quotaRange,omitempty"`

	Touch             *bool `json:"touch,omitempty"`
	RAMExpandable     *bool `json:"ramExpandable,omitempty"`
	BacklitKeyboard   *bool `json:"backlitKeyboard,omitempty"`
	Numpad            *bool `json:"numpad,omitempty"`
	FingerprintReader *bool `json:"fingerprintReader,omitempty"`
	WindowsIncluded   *bool `json:"windowsIncluded,omitempty"`
	Thunderbolt       *bool `json:"thunderbolt,omitempty"`
	Ethernet          *bool `json:"ethernet,omitempty"`

	Query string `json:"query,omitempty"`
}

// Without returns a copy of the state with dim reset to unconstrained.
func (s FilterState) Without(dim Dimension) FilterState {
	def, ok := lookup[dim]
	if !ok {
		return s
	}
	def.reset(&s)
	return s
}

// Active lists the dimensions that currently constrain the result.
func (s FilterState) Active() []Dimension {
	var active []Dimension
	for _, def := range definitions {
		if def.active(&s) {
			active = append(active, def.dim)
		}
	}
	return active
}

// IsEmpty reports whether no dimension is constrained.
func (s FilterState) IsEmpty() bool {
	return len(s.Active()) == 0
}

// Key returns a stable serialization of the state. Equivalent states, including
// ones whose slices list the same values in another order or case, share a key.
func (s FilterState) Key() string {
	n := s
	n.Brands = normalizeStrings(s.Brands)
	n.UsageTypes = normalizeStrings(s.UsageTypes)
	n.Gamas = normalizeStrings(s.Gamas)
	n.Conditions = normalizeStrings(s.Conditions)
	n.ProcessorModels = normalizeStrings(s.ProcessorModels)
	n.ProcessorBrands = normalizeStrings(s.ProcessorBrands)
	n.Resolutions = normalizeStrings(s.Resolutions)
	n.DisplayTypes = normalizeStrings(s.DisplayTypes)
	n.DeviceTypes = normalizeStrings(s.DeviceTypes)
	n.StockStatuses = normalizeStrings(s.StockStatuses)
	n.GPUTypes = normalizeStrings(s.GPUTypes)
	n.RAMSizes = normalizeInts(s.RAMSizes)
	n.StorageSizes = normalizeInts(s.StorageSizes)
	n.DisplaySizes = normalizeFloats(s.DisplaySizes)
	n.Query = strings.ToLower(strings.TrimSpace(s.Query))

	data, err := json.Marshal(n)
	if err != nil {
		// Only plain data lives in FilterState.
		panic(err)
	}
	return string(data)
}

func normalizeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func normalizeInts(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func normalizeFloats(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// Bool returns a pointer to b, for building flag constraints.
func Bool(b bool) *bool {
	return &b
}
