package handlers

import (
	"context"

	"github.com/ersonp/medsearch-core/internal/domain/services"
)

// AISearchHandler handles AI-backed search operations.
type AISearchHandler struct {
	service *services.AISearchService
}

// NewAISearchHandler creates a new AISearchHandler.
func NewAISearchHandler(service *services.AISearchService) *AISearchHandler {
	return &AISearchHandler{
		service: service,
	}
}

// Handle answers a free-text query, degrading to local fuzzy search when
// the AI service cannot be used. The result's Source field tells which
// path produced it.
func (h *AISearchHandler) Handle(ctx context.Context, query string, limit int, minScore float64) (*services.AISearchResult, error) {
	return h.service.Search(ctx, query, services.AISearchOptions{
		Limit:    limit,
		MinScore: minScore,
	})
}
