package mocks

import (
	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

// FuzzyIndex is a mock implementation of ports.FuzzyIndex returning
// configured hits.
type FuzzyIndex struct {
	Hits      []ports.IndexHit
	QueryHits []ports.IndexHit
	SearchErr error
	Closed    bool
}

// Search returns the configured hits or error.
func (m *FuzzyIndex) Search(_ string) ([]ports.IndexHit, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Hits, nil
}

// SearchQueryString returns the configured query-string hits or error.
func (m *FuzzyIndex) SearchQueryString(_ string) ([]ports.IndexHit, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.QueryHits, nil
}

// Close marks the index closed.
func (m *FuzzyIndex) Close() error {
	m.Closed = true
	return nil
}

// IndexBuilder is a mock implementation of ports.IndexBuilder.
type IndexBuilder struct {
	Index    *FuzzyIndex
	BuildErr error

	// BuildCalls counts Build invocations.
	BuildCalls int
}

// Build returns the configured index or error.
func (m *IndexBuilder) Build(_ []entities.Medicine) (ports.FuzzyIndex, error) {
	m.BuildCalls++
	if m.BuildErr != nil {
		return nil, m.BuildErr
	}
	if m.Index != nil {
		return m.Index, nil
	}
	return &FuzzyIndex{}, nil
}
