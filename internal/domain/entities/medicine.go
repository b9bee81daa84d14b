package entities

import (
	"strings"
	"time"
)

// Medicine represents a single searchable medicine identity. Records coming
// from the store carry an ID and a popularity score; candidates proposed by
// the AI suggester are transient Medicines without either.
type Medicine struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	GenericName          string    `json:"generic_name,omitempty"`
	BrandName            string    `json:"brand_name,omitempty"`
	CommonNames          []string  `json:"common_names,omitempty"`
	Manufacturer         string    `json:"manufacturer,omitempty"`
	Description          string    `json:"description,omitempty"`
	Category             string    `json:"category,omitempty"`
	PrescriptionRequired bool      `json:"prescription_required"`
	PopularityScore      int       `json:"popularity_score"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SearchFields returns the four searchable fields of the medicine, lowercased.
// CommonNames are deduplicated so a repeated alias never counts twice.
func (m *Medicine) SearchFields() []string {
	fields := make([]string, 0, 3+len(m.CommonNames))
	if m.Name != "" {
		fields = append(fields, NormalizeName(m.Name))
	}
	if m.GenericName != "" {
		fields = append(fields, NormalizeName(m.GenericName))
	}
	if m.BrandName != "" {
		fields = append(fields, NormalizeName(m.BrandName))
	}
	seen := make(map[string]bool, len(m.CommonNames))
	for _, cn := range m.CommonNames {
		normalized := NormalizeName(cn)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		fields = append(fields, normalized)
	}
	return fields
}
