package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/medsearch-core/internal/application/handlers"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
	"github.com/ersonp/medsearch-core/internal/domain/services"
	"github.com/ersonp/medsearch-core/internal/infrastructure/config"
	llm "github.com/ersonp/medsearch-core/internal/infrastructure/llm/openai"
	"github.com/ersonp/medsearch-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/medsearch-core/internal/infrastructure/searchindex/bleve"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	SearchHandler   *handlers.SearchHandler
	AISearchHandler *handlers.AISearchHandler
	MedicineHandler *handlers.MedicineHandler
	ImportHandler   *handlers.ImportHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	builder := bleve.NewBuilder(cfg.Search.Fuzziness)
	cache := services.NewCache(repo, builder, cfg.FreshnessWindow(), logger)
	defer cache.Close()

	// Without an API key the AI search still works, answering from the
	// local fuzzy fallback.
	var suggester ports.MedicineSuggester
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}
		suggester = client
	}

	searchService := services.NewSearchService(cache, logger)

	deps := &Deps{
		Config:          cfg,
		SearchHandler:   handlers.NewSearchHandler(searchService),
		AISearchHandler: handlers.NewAISearchHandler(services.NewAISearchService(suggester, searchService, logger)),
		MedicineHandler: handlers.NewMedicineHandler(services.NewMedicineService(repo, cache, logger)),
		ImportHandler:   handlers.NewImportHandler(services.NewImportService(repo, cache, logger)),
	}

	return fn(deps)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if globalVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
