package ports

import "github.com/ersonp/medsearch-core/internal/domain/entities"

// IndexHit is a single approximate match from the fuzzy index.
// Score is in the low-is-better domain: 0 is a perfect match, values
// approach 1 as relevance drops.
type IndexHit struct {
	ID    string
	Score float64
}

// FuzzyIndex supports approximate lookups over one cache snapshot.
// The index never truncates its output; ranking and truncation belong to
// the search orchestrator.
type FuzzyIndex interface {
	// Search finds typo-tolerant matches for a free-text query across the
	// weighted name fields.
	Search(query string) ([]IndexHit, error)

	// SearchQueryString evaluates an extended boolean-style query for
	// advanced callers.
	SearchQueryString(query string) ([]IndexHit, error)

	// Close releases index resources.
	Close() error
}

// IndexBuilder builds a fuzzy index from a snapshot's records.
type IndexBuilder interface {
	Build(records []entities.Medicine) (FuzzyIndex, error)
}
