package ports

import (
	"context"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

// MedicineSuggester defines the interface for the external generative search
// path. Implementations treat the remote service as untrusted: responses are
// parsed defensively and candidates without a usable name are rejected.
type MedicineSuggester interface {
	// Available probes the external service. Any failure, including timeout,
	// reports false.
	Available(ctx context.Context) bool

	// SuggestMedicines asks the service to propose up to limit candidate
	// medicines matching the query. Returned medicines are transient: they
	// carry no ID or popularity score.
	SuggestMedicines(ctx context.Context, query string, limit int) ([]entities.Medicine, error)
}
