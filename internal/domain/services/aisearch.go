package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

// Result sources reported by the AI search.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// DefaultAIMinScore is the relevance floor applied when the caller does
// not set one.
const DefaultAIMinScore = 0.3

// Relevance weights for AI candidates, higher-is-better in [0, 1].
const (
	aiNameWeight        = 0.4
	aiGenericWeight     = 0.3
	aiCommonNameWeight  = 0.2
	aiDescriptionWeight = 0.1
	aiExactNameBonus    = 0.3
	aiMaxScore          = 1.0
)

// AISearchOptions controls an AI search call.
type AISearchOptions struct {
	// Limit caps the number of results. Defaults to DefaultSearchLimit.
	Limit int
	// MinScore is the relevance floor in the higher-is-better AI domain.
	// A negative value disables the filter; zero means DefaultAIMinScore.
	MinScore float64
}

// AISearchResult carries the ranked results together with the source that
// produced them, so callers can tell a degraded answer from a real one.
type AISearchResult struct {
	Results []entities.ScoredResult `json:"results"`
	Source  string                  `json:"source"`
}

// AISearchService answers free-text queries through the external AI
// suggester, degrading to local fuzzy search when the service is
// unconfigured, unreachable, or returns garbage.
type AISearchService struct {
	suggester ports.MedicineSuggester
	search    *SearchService
	logger    *slog.Logger
}

// NewAISearchService creates an AI search service. A nil suggester is
// allowed and means every query takes the fallback path.
func NewAISearchService(suggester ports.MedicineSuggester, search *SearchService, logger *slog.Logger) *AISearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AISearchService{suggester: suggester, search: search, logger: logger}
}

// Search answers a free-text query. The suggester is probed first; any
// failure along the AI path falls back to local fuzzy search rather than
// surfacing an error.
func (s *AISearchService) Search(ctx context.Context, query string, opts AISearchOptions) (*AISearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = DefaultAIMinScore
	}

	if s.suggester == nil {
		return s.fallback(ctx, query, opts.Limit)
	}
	if !s.suggester.Available(ctx) {
		s.logger.Warn("ai suggester unavailable, using local fuzzy search", "query", query)
		return s.fallback(ctx, query, opts.Limit)
	}

	candidates, err := s.suggester.SuggestMedicines(ctx, query, opts.Limit)
	if err != nil {
		s.logger.Warn("ai suggestion failed, using local fuzzy search", "query", query, "error", err)
		return s.fallback(ctx, query, opts.Limit)
	}

	results := rankCandidates(query, candidates, minScore)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return &AISearchResult{Results: results, Source: SourceAI}, nil
}

func (s *AISearchService) fallback(ctx context.Context, query string, limit int) (*AISearchResult, error) {
	results, err := s.search.Fuzzy(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &AISearchResult{Results: results, Source: SourceFallback}, nil
}

// rankCandidates scores AI candidates by field containment and sorts them
// best first, breaking ties by name. Candidates below minScore are dropped.
func rankCandidates(query string, candidates []entities.Medicine, minScore float64) []entities.ScoredResult {
	normalized := entities.NormalizeName(query)
	results := make([]entities.ScoredResult, 0, len(candidates))
	for i := range candidates {
		cand := &candidates[i]
		if strings.TrimSpace(cand.Name) == "" {
			continue
		}
		score := relevance(normalized, cand)
		if score < minScore {
			continue
		}
		results = append(results, entities.ScoredResult{
			Medicine:  *cand,
			Score:     score,
			MatchType: entities.MatchAI,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Medicine.Name < results[j].Medicine.Name
	})
	return results
}

func relevance(normalized string, cand *entities.Medicine) float64 {
	score := 0.0
	name := entities.NormalizeName(cand.Name)
	if strings.Contains(name, normalized) {
		score += aiNameWeight
	}
	if cand.GenericName != "" && strings.Contains(entities.NormalizeName(cand.GenericName), normalized) {
		score += aiGenericWeight
	}
	for _, cn := range cand.CommonNames {
		if strings.Contains(entities.NormalizeName(cn), normalized) {
			score += aiCommonNameWeight
			break
		}
	}
	if cand.Description != "" && strings.Contains(strings.ToLower(cand.Description), normalized) {
		score += aiDescriptionWeight
	}
	if name == normalized {
		score += aiExactNameBonus
	}
	if score > aiMaxScore {
		score = aiMaxScore
	}
	return score
}
