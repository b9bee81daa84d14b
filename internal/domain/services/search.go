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

const (
	// MinQueryLength is the minimum query length after trimming.
	MinQueryLength = 2
	// DefaultSearchLimit is used when the caller does not set a limit.
	DefaultSearchLimit = 10

	scoreExact      = 0.0
	fuzzyTierOffset = 1.0
	wordTierOffset  = 2.0
)

// Search types.
const (
	SearchTypeHybrid = "hybrid"
	SearchTypeFuzzy  = "fuzzy"
	SearchTypeQuery  = "query"
)

// SearchOptions controls a Search call.
type SearchOptions struct {
	// Type selects the strategy set: hybrid (default), fuzzy, or query.
	Type string
	// Limit and Offset paginate the ranked results. Limit defaults to
	// DefaultSearchLimit.
	Limit  int
	Offset int
	// MinScore is a quality ceiling in the lower-is-better score domain:
	// results scoring above it are dropped. Zero disables the filter.
	MinScore float64
}

// SearchService ranks medicines from the cache snapshot using three
// strategies: exact substring, fuzzy index, and word overlap. Each record
// is claimed by the first strategy that matches it.
type SearchService struct {
	cache  *Cache
	logger *slog.Logger
}

// NewSearchService creates a search service over the given cache.
func NewSearchService(cache *Cache, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{cache: cache, logger: logger}
}

// Autocomplete returns up to limit ranked suggestions for a prefix-style
// query. Queries shorter than MinQueryLength after trimming return an
// empty list without error, so callers can invoke it on every keystroke.
func (s *SearchService) Autocomplete(ctx context.Context, query string, limit int) ([]entities.ScoredResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []entities.ScoredResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	results := s.rankHybrid(query, snap)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Search runs a full search and returns one page of ranked results.
// Ranking, filtering, and the total count all happen over the complete
// match set; pagination is applied last.
func (s *SearchService) Search(ctx context.Context, query string, opts SearchOptions) (*entities.SearchPage, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, ErrInvalidPagination
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Type == "" {
		opts.Type = SearchTypeHybrid
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	var results []entities.ScoredResult
	switch opts.Type {
	case SearchTypeHybrid:
		results = s.rankHybrid(query, snap)
	case SearchTypeFuzzy:
		results = s.rankIndex(query, snap, false)
	case SearchTypeQuery:
		results = s.rankIndex(query, snap, true)
	default:
		return nil, ErrInvalidSearchType
	}

	if opts.MinScore > 0 {
		filtered := results[:0]
		for _, r := range results {
			if r.Score <= opts.MinScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	return paginate(results, opts.Limit, opts.Offset), nil
}

// Fuzzy returns up to limit fuzzy-index matches for the query. It backs
// the degraded path of the AI search.
func (s *SearchService) Fuzzy(ctx context.Context, query string, limit int) ([]entities.ScoredResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	results := s.rankIndex(query, snap, false)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Stats summarizes the current snapshot contents.
func (s *SearchService) Stats(ctx context.Context) (*entities.CacheStats, error) {
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entities.CacheStats{Total: len(snap.Records)}
	for i := range snap.Records {
		m := &snap.Records[i]
		if m.GenericName != "" {
			stats.WithGeneric++
		}
		if m.BrandName != "" {
			stats.WithBrand++
		}
		if len(m.CommonNames) > 0 {
			stats.WithCommonNames++
		}
	}

	top := make([]entities.Medicine, len(snap.Records))
	copy(top, snap.Records)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].PopularityScore != top[j].PopularityScore {
			return top[i].PopularityScore > top[j].PopularityScore
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 5 {
		top = top[:5]
	}
	stats.TopPopular = top
	return stats, nil
}

// claim records which strategy matched a medicine and at what score.
type claim struct {
	score     float64
	matchType entities.MatchType
}

// rankHybrid runs the three strategies in priority order. A record claimed
// by an earlier strategy is skipped by later ones.
func (s *SearchService) rankHybrid(query string, snap *Snapshot) []entities.ScoredResult {
	normalized := entities.NormalizeName(query)
	claims := make(map[string]claim)

	for i := range snap.Records {
		rec := &snap.Records[i]
		if fieldContains(rec, normalized) {
			claims[rec.ID] = claim{score: scoreExact, matchType: entities.MatchExact}
		}
	}

	for _, hit := range s.indexHits(query, snap, false) {
		if _, claimed := claims[hit.ID]; claimed {
			continue
		}
		claims[hit.ID] = claim{score: fuzzyTierOffset + hit.Score, matchType: entities.MatchFuzzy}
	}

	if words := uniqueWords(normalized); len(words) > 1 {
		for i := range snap.Records {
			rec := &snap.Records[i]
			if _, claimed := claims[rec.ID]; claimed {
				continue
			}
			matched := matchedWordCount(rec, words)
			if matched == 0 {
				continue
			}
			fraction := float64(matched) / float64(len(words))
			claims[rec.ID] = claim{score: wordTierOffset + (1 - fraction), matchType: entities.MatchWord}
		}
	}

	return s.collect(claims, snap)
}

// rankIndex ranks using only the fuzzy index. With queryString set, the
// raw query is interpreted as extended query syntax instead.
func (s *SearchService) rankIndex(query string, snap *Snapshot, queryString bool) []entities.ScoredResult {
	claims := make(map[string]claim)
	for _, hit := range s.indexHits(query, snap, queryString) {
		claims[hit.ID] = claim{score: fuzzyTierOffset + hit.Score, matchType: entities.MatchFuzzy}
	}
	return s.collect(claims, snap)
}

// indexHits queries the snapshot index. An index failure degrades to no
// fuzzy hits rather than failing the whole search.
func (s *SearchService) indexHits(query string, snap *Snapshot, queryString bool) []ports.IndexHit {
	if snap.Index == nil {
		return nil
	}

	var (
		hits []ports.IndexHit
		err  error
	)
	if queryString {
		hits, err = snap.Index.SearchQueryString(query)
	} else {
		hits, err = snap.Index.Search(query)
	}
	if err != nil {
		s.logger.Warn("fuzzy index search failed", "query", query, "error", err)
		return nil
	}
	return hits
}

// collect materializes claims into a ranked result list: score ascending,
// then popularity descending, then name ascending.
func (s *SearchService) collect(claims map[string]claim, snap *Snapshot) []entities.ScoredResult {
	results := make([]entities.ScoredResult, 0, len(claims))
	for i := range snap.Records {
		rec := &snap.Records[i]
		cl, ok := claims[rec.ID]
		if !ok {
			continue
		}
		results = append(results, entities.ScoredResult{
			Medicine:  *rec,
			Score:     cl.score,
			MatchType: cl.matchType,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		if results[i].Medicine.PopularityScore != results[j].Medicine.PopularityScore {
			return results[i].Medicine.PopularityScore > results[j].Medicine.PopularityScore
		}
		return results[i].Medicine.Name < results[j].Medicine.Name
	})
	return results
}

func paginate(results []entities.ScoredResult, limit, offset int) *entities.SearchPage {
	page := &entities.SearchPage{
		Total:  len(results),
		Limit:  limit,
		Offset: offset,
	}
	if offset >= len(results) {
		page.Results = []entities.ScoredResult{}
		return page
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	page.Results = results[offset:end]
	return page
}

// fieldContains reports whether any searchable field contains the
// normalized query as a substring.
func fieldContains(m *entities.Medicine, normalized string) bool {
	for _, field := range m.SearchFields() {
		if strings.Contains(field, normalized) {
			return true
		}
	}
	return false
}

// uniqueWords splits a normalized query into deduplicated words.
func uniqueWords(normalized string) []string {
	fields := strings.Fields(normalized)
	seen := make(map[string]bool, len(fields))
	words := fields[:0]
	for _, w := range fields {
		if seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// matchedWordCount counts how many query words appear in at least one
// searchable field. A word matching several fields still counts once.
func matchedWordCount(m *entities.Medicine, words []string) int {
	fields := m.SearchFields()
	matched := 0
	for _, word := range words {
		for _, field := range fields {
			if strings.Contains(field, word) {
				matched++
				break
			}
		}
	}
	return matched
}
