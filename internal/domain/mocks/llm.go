package mocks

import (
	"context"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

// MedicineSuggester is a mock implementation of ports.MedicineSuggester.
type MedicineSuggester struct {
	// Up is the value returned by Available.
	Up bool

	// Candidates and SuggestErr are the SuggestMedicines return values.
	Candidates []entities.Medicine
	SuggestErr error

	// SuggestCalls counts SuggestMedicines invocations.
	SuggestCalls int
}

// Available returns the configured liveness state.
func (m *MedicineSuggester) Available(_ context.Context) bool {
	return m.Up
}

// SuggestMedicines returns the configured candidates or error.
func (m *MedicineSuggester) SuggestMedicines(_ context.Context, _ string, _ int) ([]entities.Medicine, error) {
	m.SuggestCalls++
	if m.SuggestErr != nil {
		return nil, m.SuggestErr
	}
	return m.Candidates, nil
}
