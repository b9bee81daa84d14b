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

func seedCatalog(store *mocks.MedicineStore) {
	store.Seed(
		entities.Medicine{
			ID: "m1", Name: "Paracetamol", GenericName: "Acetaminophen",
			PopularityScore: 90, IsActive: true,
		},
		entities.Medicine{
			ID: "m2", Name: "Paracetamol Plus", GenericName: "Acetaminophen",
			PopularityScore: 70, IsActive: true,
		},
		entities.Medicine{
			ID: "m3", Name: "Tylenol", GenericName: "Acetaminophen", BrandName: "Tylenol",
			PopularityScore: 80, IsActive: true,
		},
		entities.Medicine{
			ID: "m4", Name: "Cold Relief Syrup", Category: "syrup",
			PopularityScore: 40, IsActive: true,
		},
	)
}

func newSearchFixture(t *testing.T, idx *mocks.FuzzyIndex) (*SearchService, *mocks.MedicineStore, *Cache) {
	t.Helper()
	store := mocks.NewMedicineStore()
	seedCatalog(store)
	cache := NewCache(store, &mocks.IndexBuilder{Index: idx}, time.Hour, testLogger())
	return NewSearchService(cache, testLogger()), store, cache
}

func TestSearchExactMatchesBreakTiesByPopularity(t *testing.T) {
	svc, _, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	page, err := svc.Search(context.Background(), "paracetamol", SearchOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, page.Total)
	assert.Equal(t, "Paracetamol", page.Results[0].Medicine.Name)
	assert.Equal(t, "Paracetamol Plus", page.Results[1].Medicine.Name)
	for _, r := range page.Results {
		assert.Equal(t, entities.MatchExact, r.MatchType)
		assert.Zero(t, r.Score)
	}
}

func TestSearchFuzzyClaimsMisspelledQuery(t *testing.T) {
	idx := &mocks.FuzzyIndex{Hits: []ports.IndexHit{{ID: "m3", Score: 0.4}}}
	svc, _, _ := newSearchFixture(t, idx)

	page, err := svc.Search(context.Background(), "Tylanol", SearchOptions{})
	require.NoError(t, err)

	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Tylenol", page.Results[0].Medicine.Name)
	assert.Equal(t, entities.MatchFuzzy, page.Results[0].MatchType)
	assert.InDelta(t, 1.4, page.Results[0].Score, 1e-9)
}

func TestSearchExactClaimBeatsFuzzyHit(t *testing.T) {
	idx := &mocks.FuzzyIndex{Hits: []ports.IndexHit{{ID: "m1", Score: 0.2}}}
	svc, _, _ := newSearchFixture(t, idx)

	page, err := svc.Search(context.Background(), "paracetamol", SearchOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, page.Results)
	assert.Equal(t, entities.MatchExact, page.Results[0].MatchType)
	assert.Zero(t, page.Results[0].Score)
}

func TestSearchWordOverlapScoresByMatchedFraction(t *testing.T) {
	svc, _, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	page, err := svc.Search(context.Background(), "cold relief tablet", SearchOptions{})
	require.NoError(t, err)

	require.Equal(t, 1, page.Total)
	result := page.Results[0]
	assert.Equal(t, "Cold Relief Syrup", result.Medicine.Name)
	assert.Equal(t, entities.MatchWord, result.MatchType)
	// 2 of 3 query words matched.
	assert.InDelta(t, 2.0+1.0/3.0, result.Score, 1e-9)
}

func TestSearchWordOverlapMatchesCommonNames(t *testing.T) {
	svc, store, _ := newSearchFixture(t, &mocks.FuzzyIndex{})
	store.Seed(entities.Medicine{
		ID: "m5", Name: "Dolo 650",
		CommonNames:     []string{"pain", "tablet", "pain"},
		PopularityScore: 60, IsActive: true,
	})

	page, err := svc.Search(context.Background(), "pain relief tablet", SearchOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, page.Total)
	// 2 of 3 words via common names outranks 1 of 3 via the syrup's name;
	// the duplicated alias does not double-count.
	assert.Equal(t, "Dolo 650", page.Results[0].Medicine.Name)
	assert.InDelta(t, 2.0+1.0/3.0, page.Results[0].Score, 1e-9)
	assert.Equal(t, "Cold Relief Syrup", page.Results[1].Medicine.Name)
	assert.InDelta(t, 2.0+2.0/3.0, page.Results[1].Score, 1e-9)
}

func TestSearchPaginatesAfterRanking(t *testing.T) {
	svc, _, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	page, err := svc.Search(context.Background(), "paracetamol", SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Paracetamol", page.Results[0].Medicine.Name)

	page, err = svc.Search(context.Background(), "paracetamol", SearchOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Paracetamol Plus", page.Results[0].Medicine.Name)

	page, err = svc.Search(context.Background(), "paracetamol", SearchOptions{Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Empty(t, page.Results)
}

func TestSearchMinScoreDropsWeakMatches(t *testing.T) {
	idx := &mocks.FuzzyIndex{Hits: []ports.IndexHit{{ID: "m3", Score: 0.4}}}
	svc, _, _ := newSearchFixture(t, idx)

	page, err := svc.Search(context.Background(), "Tylanol", SearchOptions{MinScore: 1.0})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	page, err = svc.Search(context.Background(), "Tylanol", SearchOptions{MinScore: 2.0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSearchValidatesInput(t *testing.T) {
	svc, _, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	_, err := svc.Search(context.Background(), "a", SearchOptions{})
	assert.ErrorIs(t, err, ErrQueryTooShort)

	_, err = svc.Search(context.Background(), "   ", SearchOptions{})
	assert.ErrorIs(t, err, ErrQueryTooShort)

	_, err = svc.Search(context.Background(), "paracetamol", SearchOptions{Offset: -1})
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = svc.Search(context.Background(), "paracetamol", SearchOptions{Limit: -5})
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = svc.Search(context.Background(), "paracetamol", SearchOptions{Type: "semantic"})
	assert.ErrorIs(t, err, ErrInvalidSearchType)
}

func TestSearchQueryTypeUsesQueryStringSyntax(t *testing.T) {
	idx := &mocks.FuzzyIndex{QueryHits: []ports.IndexHit{{ID: "m2", Score: 0.5}}}
	svc, _, _ := newSearchFixture(t, idx)

	page, err := svc.Search(context.Background(), "+paracetamol +plus", SearchOptions{Type: SearchTypeQuery})
	require.NoError(t, err)

	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Paracetamol Plus", page.Results[0].Medicine.Name)
}

func TestSearchIndexFailureDegradesToExactOnly(t *testing.T) {
	idx := &mocks.FuzzyIndex{SearchErr: errors.New("index closed")}
	svc, _, _ := newSearchFixture(t, idx)

	page, err := svc.Search(context.Background(), "paracetamol", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestSearchRepeatedQueryIsIdempotent(t *testing.T) {
	svc, store, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	first, err := svc.Search(context.Background(), "paracetamol", SearchOptions{})
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "paracetamol", SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.ListCalls)
}

func TestAutocompleteShortQueryReturnsEmpty(t *testing.T) {
	svc, store, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	results, err := svc.Autocomplete(context.Background(), " p ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, store.ListCalls)
}

func TestAutocompleteTruncatesToLimit(t *testing.T) {
	svc, _, _ := newSearchFixture(t, &mocks.FuzzyIndex{})

	results, err := svc.Autocomplete(context.Background(), "paracetamol", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Paracetamol", results[0].Medicine.Name)
}

func TestSearchEmptyCatalogReturnsNoResults(t *testing.T) {
	store := mocks.NewMedicineStore()
	cache := NewCache(store, &mocks.IndexBuilder{}, time.Hour, testLogger())
	svc := NewSearchService(cache, testLogger())

	page, err := svc.Search(context.Background(), "paracetamol", SearchOptions{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Results)
}

func TestStatsSummarizesSnapshot(t *testing.T) {
	svc, store, _ := newSearchFixture(t, &mocks.FuzzyIndex{})
	store.Seed(entities.Medicine{
		ID: "m5", Name: "Aspirin", CommonNames: []string{"ASA"},
		PopularityScore: 95, IsActive: true,
	})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.WithGeneric)
	assert.Equal(t, 1, stats.WithBrand)
	assert.Equal(t, 1, stats.WithCommonNames)
	require.NotEmpty(t, stats.TopPopular)
	assert.Equal(t, "Aspirin", stats.TopPopular[0].Name)
}
