package bleve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

func buildTestIndex(t *testing.T) ports.FuzzyIndex {
	t.Helper()
	idx, err := NewBuilder(1).Build([]entities.Medicine{
		{ID: "m1", Name: "Paracetamol", GenericName: "Acetaminophen"},
		{ID: "m2", Name: "Tylenol", GenericName: "Acetaminophen", BrandName: "Tylenol"},
		{ID: "m3", Name: "Ibuprofen", CommonNames: []string{"Advil", "Nurofen"}},
		{ID: "m4", Name: "Aspirin"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func hitIDs(hits []ports.IndexHit) []string {
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestIndexFindsMisspelledName(t *testing.T) {
	idx := buildTestIndex(t)

	hits, err := idx.Search("Tylanol")
	require.NoError(t, err)
	assert.Contains(t, hitIDs(hits), "m2")
}

func TestIndexMatchesCommonNames(t *testing.T) {
	idx := buildTestIndex(t)

	hits, err := idx.Search("Advil")
	require.NoError(t, err)
	assert.Contains(t, hitIDs(hits), "m3")
}

func TestIndexScoresAreLowIsBetter(t *testing.T) {
	idx := buildTestIndex(t)

	hits, err := idx.Search("Paracetamol")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.Greater(t, h.Score, 0.0)
		assert.Less(t, h.Score, 1.0)
	}
}

func TestIndexEmptyQueryReturnsNothing(t *testing.T) {
	idx := buildTestIndex(t)

	hits, err := idx.Search("   ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexEmptyCatalog(t *testing.T) {
	idx, err := NewBuilder(0).Build(nil)
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Search("anything")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexQueryStringSyntax(t *testing.T) {
	idx := buildTestIndex(t)

	hits, err := idx.SearchQueryString("generic_name:acetaminophen")
	require.NoError(t, err)
	ids := hitIDs(hits)
	assert.Contains(t, ids, "m1")
	assert.Contains(t, ids, "m2")
	assert.NotContains(t, ids, "m3")
}
