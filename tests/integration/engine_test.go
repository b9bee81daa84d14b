package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/medsearch-core/internal/application/handlers"
	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/services"
	"github.com/ersonp/medsearch-core/internal/infrastructure/config"
	"github.com/ersonp/medsearch-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/medsearch-core/internal/infrastructure/searchindex/bleve"
)

// testStack wires the real repository, index, and services over a file
// database, the same way the CLI does.
type testStack struct {
	repo     *sqlite.Repository
	cache    *services.Cache
	search   *services.SearchService
	medicine *services.MedicineService
	imports  *services.ImportService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "medsearch.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := services.NewCache(repo, bleve.NewBuilder(1), time.Hour, logger)
	t.Cleanup(func() { cache.Close() })

	search := services.NewSearchService(cache, logger)
	return &testStack{
		repo:     repo,
		cache:    cache,
		search:   search,
		medicine: services.NewMedicineService(repo, cache, logger),
		imports:  services.NewImportService(repo, cache, logger),
	}
}

func TestEngineIntegration_FuzzySearchOverFileDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.medicine.Create(ctx, entities.Medicine{
		Name:        "Tylenol",
		GenericName: "Acetaminophen",
		BrandName:   "Tylenol",
	})
	require.NoError(t, err)
	_, err = stack.medicine.Create(ctx, entities.Medicine{
		Name:            "Paracetamol",
		GenericName:     "Acetaminophen",
		PopularityScore: 90,
	})
	require.NoError(t, err)

	// A misspelled query is caught by the real bleve index.
	page, err := stack.search.Search(ctx, "Tylanol", services.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Results)
	assert.Equal(t, "Tylenol", page.Results[0].Medicine.Name)
	assert.Equal(t, entities.MatchFuzzy, page.Results[0].MatchType)

	// A correctly spelled query is an exact claim.
	page, err = stack.search.Search(ctx, "paracetamol", services.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Results)
	assert.Equal(t, entities.MatchExact, page.Results[0].MatchType)
	assert.Zero(t, page.Results[0].Score)
}

func TestEngineIntegration_MutationsReachSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	ctx := context.Background()

	created, err := stack.medicine.Create(ctx, entities.Medicine{Name: "Ibuprofen"})
	require.NoError(t, err)

	page, err := stack.search.Search(ctx, "ibuprofen", services.SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	require.NoError(t, stack.medicine.Deactivate(ctx, created.ID))

	page, err = stack.search.Search(ctx, "ibuprofen", services.SearchOptions{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	// The deactivation is audited.
	entries, err := stack.medicine.History(ctx, services.ActionDeactivated, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].MedicineID)
}

func TestEngineIntegration_BulkImportThroughHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	ctx := context.Background()
	handler := handlers.NewImportHandler(stack.imports)

	records := `[`
	for i := 0; i < 150; i++ {
		if i > 0 {
			records += ","
		}
		if i == 10 {
			records += `{"name": "", "description": "malformed"}`
			continue
		}
		records += fmt.Sprintf(`{"name": "Medicine %03d", "popularity_score": %d}`, i, i)
	}
	records += `]`

	jsonFile := filepath.Join(t.TempDir(), "medicines.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(records), 0644))

	result, err := handler.Handle(ctx, jsonFile, handlers.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 150, result.Requested)
	assert.Equal(t, 149, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	count, err := stack.repo.CountMedicines(ctx)
	require.NoError(t, err)
	assert.Equal(t, 149, count)

	// The freshly imported names are immediately searchable.
	page, err := stack.search.Search(ctx, "Medicine 042", services.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Results)
	assert.Equal(t, "Medicine 042", page.Results[0].Medicine.Name)
	assert.Equal(t, entities.MatchExact, page.Results[0].MatchType)
}

func TestEngineIntegration_AISearchFallsBackWithoutService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.medicine.Create(ctx, entities.Medicine{Name: "Tylenol"})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ai := services.NewAISearchService(nil, stack.search, logger)

	result, err := ai.Search(ctx, "Tylanol", services.AISearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, services.SourceFallback, result.Source)
	require.NotEmpty(t, result.Results)
	assert.Equal(t, "Tylenol", result.Results[0].Medicine.Name)
}
