// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/catalog-quota/pkg/compare"
	"github.com/iwvelando/catalog-quota/pkg/constants"
	"github.com/iwvelando/catalog-quota/pkg/ordering"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateSortKey checks that key names a supported ordering. Empty is accepted.
func ValidateSortKey(key string) error {
	_, err := ordering.ParseKey(key)
	return err
}

// ValidateFieldSet checks that name is a known comparison field set. Empty is accepted.
func ValidateFieldSet(name string) error {
	_, err := compare.ParseFieldSet(name)
	return err
}

// ValidateCatalogSource checks that the selected source has what it needs.
func ValidateCatalogSource(source, path, url string) error {
	switch source {
	case constants.SourceMock:
		return nil
	case constants.SourceFile:
		if path == "" {
			return fmt.Errorf("catalog source %s requires a path", source)
		}
		return nil
	case constants.SourceAPI:
		if url == "" {
			return fmt.Errorf("catalog source %s requires a url", source)
		}
		return nil
	default:
		return fmt.Errorf("expected catalog source of %s, %s or %s, got %s",
			constants.SourceMock, constants.SourceFile, constants.SourceAPI, source)
	}
}
