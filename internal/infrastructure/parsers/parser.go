// Package parsers provides parsers for importing medicines from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawMedicine represents a medicine parsed from an external source before
// validation. PopularityScore is a raw value; the import service coerces it
// to a non-negative integer.
type RawMedicine struct {
	ID                   string   `json:"id,omitempty"`
	Name                 string   `json:"name"`
	GenericName          string   `json:"generic_name,omitempty"`
	BrandName            string   `json:"brand_name,omitempty"`
	CommonNames          []string `json:"common_names,omitempty"`
	Manufacturer         string   `json:"manufacturer,omitempty"`
	Description          string   `json:"description,omitempty"`
	Category             string   `json:"category,omitempty"`
	PrescriptionRequired bool     `json:"prescription_required,omitempty"`
	PopularityScore      int      `json:"popularity_score,omitempty"`
	LineNum              int      `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing medicines from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawMedicine, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
