package io

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	switch format {
	case FormatCSV, FormatJSON:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q (must be csv or json)", format)
}

// FormatFromPath guesses the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}
