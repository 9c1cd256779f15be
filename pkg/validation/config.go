package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/filter"
	"github.com/iwvelando/catalog-quota/pkg/product"
)

var (
	knownDeviceTypes = []string{string(product.DeviceLaptop), string(product.DeviceTablet), string(product.DevicePhone)}
	knownConditions  = []string{string(product.ConditionNew), string(product.ConditionRefurbished), string(product.ConditionUsed)}
	knownGamas       = []string{string(product.GamaBudget), string(product.GamaStudent), string(product.GamaProfessional),
		string(product.GamaCreative), string(product.GamaGaming)}
	knownStockStatuses = []string{string(product.StockInStock), string(product.StockLimited), string(product.StockOutOfStock)}
	knownGPUTypes      = []string{string(product.GPUIntegrated), string(product.GPUDedicated)}
)

// ValidateFilterState reports constraints that can never match. Such constraints
// are not errors: the filter engine simply matches nothing on them.
func ValidateFilterState(s filter.FilterState) []string {
	var warnings []string

	warnings = append(warnings, validateRange("price", s.PriceRange)...)
	warnings = append(warnings, validateRange("quota", s.QuotaRange)...)

	warnings = append(warnings, validateEnum("device type", s.DeviceTypes, knownDeviceTypes)...)
	warnings = append(warnings, validateEnum("condition", s.Conditions, knownConditions)...)
	warnings = append(warnings, validateEnum("gama", s.Gamas, knownGamas)...)
	warnings = append(warnings, validateEnum("stock status", s.StockStatuses, knownStockStatuses)...)
	warnings = append(warnings, validateEnum("GPU type", s.GPUTypes, knownGPUTypes)...)

	for _, size := range s.RAMSizes {
		if size <= 0 {
			warnings = append(warnings, fmt.Sprintf("RAM size filter %d GB is not positive", size))
		}
	}
	for _, size := range s.StorageSizes {
		if size <= 0 {
			warnings = append(warnings, fmt.Sprintf("Storage size filter %d GB is not positive", size))
		}
	}
	for _, size := range s.DisplaySizes {
		if size <= 0 {
			warnings = append(warnings, fmt.Sprintf("Display size filter %v is not positive", size))
		}
	}

	return warnings
}

// ValidatePricing reports inconsistencies in a pricing configuration.
func ValidatePricing(terms []int, defaultTerm int, initialPercent float64) []string {
	var warnings []string

	found := false
	for _, term := range terms {
		if term <= 0 {
			warnings = append(warnings, fmt.Sprintf("Term %d months is not positive and will be rejected", term))
		}
		if term == defaultTerm {
			found = true
		}
	}
	if len(terms) > 0 && !found {
		warnings = append(warnings, fmt.Sprintf("Default term %d months is not among the supported terms %v", defaultTerm, terms))
	}
	if initialPercent < 0 || initialPercent > constants.MaxInitialPercent {
		warnings = append(warnings, fmt.Sprintf("Default initial percent %v is outside [0, %v]", initialPercent, constants.MaxInitialPercent))
	}

	return warnings
}

// ValidatePagination reports page settings that will be clamped.
func ValidatePagination(page, pageSize int) []string {
	var warnings []string
	if page < 0 {
		warnings = append(warnings, fmt.Sprintf("Page %d is negative and will be treated as the first page", page))
	}
	if pageSize > constants.MaxPageSize {
		warnings = append(warnings, fmt.Sprintf("Page size %d exceeds the maximum of %d", pageSize, constants.MaxPageSize))
	}
	if pageSize < 0 {
		warnings = append(warnings, fmt.Sprintf("Page size %d is negative and will use the default of %d", pageSize, constants.DefaultPageSize))
	}
	return warnings
}

func validateRange(name string, r *filter.Range) []string {
	if r == nil {
		return nil
	}
	var warnings []string
	if r.Inverted() {
		warnings = append(warnings, fmt.Sprintf("%s range is inverted (min %v > max %v) and matches nothing",
			capitalize(name), r.Min, r.Max))
	}
	if r.Max < 0 {
		warnings = append(warnings, fmt.Sprintf("%s range maximum %v is negative and matches nothing", capitalize(name), r.Max))
	}
	return warnings
}

func validateEnum(name string, values, known []string) []string {
	var warnings []string
	for _, v := range values {
		if !containsFold(known, v) {
			warnings = append(warnings, fmt.Sprintf("Unknown %s %q matches nothing", name, v))
		}
	}
	return warnings
}

func containsFold(values []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
