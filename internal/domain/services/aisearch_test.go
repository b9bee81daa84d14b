package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/mocks"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

func newAIFixture(t *testing.T, suggester *mocks.MedicineSuggester, idx *mocks.FuzzyIndex) (*AISearchService, *mocks.MedicineSuggester) {
	t.Helper()
	store := mocks.NewMedicineStore()
	seedCatalog(store)
	cache := NewCache(store, &mocks.IndexBuilder{Index: idx}, time.Hour, testLogger())
	search := NewSearchService(cache, testLogger())
	var port ports.MedicineSuggester
	if suggester != nil {
		port = suggester
	}
	return NewAISearchService(port, search, testLogger()), suggester
}

func TestAISearchRanksCandidatesBestFirst(t *testing.T) {
	suggester := &mocks.MedicineSuggester{
		Up: true,
		Candidates: []entities.Medicine{
			{Name: "Aspirin Forte", GenericName: "Acetylsalicylic acid"},
			{Name: "Aspirin", GenericName: "Acetylsalicylic acid"},
		},
	}
	svc, _ := newAIFixture(t, suggester, &mocks.FuzzyIndex{})

	result, err := svc.Search(context.Background(), "aspirin", AISearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, SourceAI, result.Source)
	require.Len(t, result.Results, 2)
	// Exact full-name match earns the bonus on top of the name weight.
	assert.Equal(t, "Aspirin", result.Results[0].Medicine.Name)
	assert.InDelta(t, 0.7, result.Results[0].Score, 1e-9)
	assert.Equal(t, "Aspirin Forte", result.Results[1].Medicine.Name)
	assert.InDelta(t, 0.4, result.Results[1].Score, 1e-9)
	for _, r := range result.Results {
		assert.Equal(t, entities.MatchAI, r.MatchType)
	}
}

func TestAISearchFiltersBelowMinScore(t *testing.T) {
	suggester := &mocks.MedicineSuggester{
		Up: true,
		Candidates: []entities.Medicine{
			{Name: "Ibuprofen", Description: "Relieves migraine and joint pain"},
		},
	}
	svc, _ := newAIFixture(t, suggester, &mocks.FuzzyIndex{})

	// Only the description matches, scoring 0.1, below the default floor.
	result, err := svc.Search(context.Background(), "migraine", AISearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, result.Source)
	assert.Empty(t, result.Results)

	result, err = svc.Search(context.Background(), "migraine", AISearchOptions{MinScore: -1})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.InDelta(t, 0.1, result.Results[0].Score, 1e-9)
}

func TestAISearchFallsBackWhenUnavailable(t *testing.T) {
	suggester := &mocks.MedicineSuggester{Up: false}
	idx := &mocks.FuzzyIndex{Hits: []ports.IndexHit{{ID: "m3", Score: 0.4}}}
	svc, _ := newAIFixture(t, suggester, idx)

	result, err := svc.Search(context.Background(), "Tylanol", AISearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, result.Source)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Tylenol", result.Results[0].Medicine.Name)
	assert.Zero(t, suggester.SuggestCalls)
}

func TestAISearchFallsBackOnSuggestionError(t *testing.T) {
	suggester := &mocks.MedicineSuggester{Up: true, SuggestErr: errors.New("rate limited")}
	idx := &mocks.FuzzyIndex{Hits: []ports.IndexHit{{ID: "m1", Score: 0.3}}}
	svc, _ := newAIFixture(t, suggester, idx)

	result, err := svc.Search(context.Background(), "paracetamol", AISearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, result.Source)
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1, suggester.SuggestCalls)
}

func TestAISearchNilSuggesterAlwaysFallsBack(t *testing.T) {
	idx := &mocks.FuzzyIndex{Hits: []ports.IndexHit{{ID: "m1", Score: 0.3}}}
	svc, _ := newAIFixture(t, nil, idx)

	result, err := svc.Search(context.Background(), "paracetamol", AISearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
}

func TestAISearchRejectsShortQuery(t *testing.T) {
	svc, _ := newAIFixture(t, &mocks.MedicineSuggester{Up: true}, &mocks.FuzzyIndex{})

	_, err := svc.Search(context.Background(), " x ", AISearchOptions{})
	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestAISearchTruncatesToLimit(t *testing.T) {
	suggester := &mocks.MedicineSuggester{
		Up: true,
		Candidates: []entities.Medicine{
			{Name: "Aspirin"},
			{Name: "Aspirin Forte"},
			{Name: "Aspirin Junior"},
		},
	}
	svc, _ := newAIFixture(t, suggester, &mocks.FuzzyIndex{})

	result, err := svc.Search(context.Background(), "aspirin", AISearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
}
