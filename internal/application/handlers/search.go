// Package handlers wires domain services to the application surface.
package handlers

import (
	"context"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/services"
)

// SearchHandler handles search operations at the application layer.
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// HandleSearch runs a full search and returns one page of ranked results.
func (h *SearchHandler) HandleSearch(ctx context.Context, query, searchType string, limit, offset int, minScore float64) (*entities.SearchPage, error) {
	return h.searchService.Search(ctx, query, services.SearchOptions{
		Type:     searchType,
		Limit:    limit,
		Offset:   offset,
		MinScore: minScore,
	})
}

// HandleAutocomplete returns ranked suggestions for a partial query.
func (h *SearchHandler) HandleAutocomplete(ctx context.Context, query string, limit int) ([]entities.ScoredResult, error) {
	return h.searchService.Autocomplete(ctx, query, limit)
}

// HandleStats summarizes the cached catalog.
func (h *SearchHandler) HandleStats(ctx context.Context) (*entities.CacheStats, error) {
	return h.searchService.Stats(ctx)
}
