package entities

// MatchType identifies which strategy produced a search result.
type MatchType string

const (
	// MatchExact is a case-insensitive substring hit on one of the four fields.
	MatchExact MatchType = "exact"
	// MatchFuzzy is a typo-tolerant hit from the fuzzy index.
	MatchFuzzy MatchType = "fuzzy"
	// MatchWord is a partial word-overlap hit.
	MatchWord MatchType = "word"
	// MatchAI is a candidate proposed by the external AI suggester.
	MatchAI MatchType = "ai"
)

// ScoredResult is a medicine annotated with its match score.
//
// The hybrid search domain uses lower-is-better scores: exact hits score 0,
// fuzzy hits land in (1, 2), word-overlap hits in [2, 3). The AI path uses
// its own higher-is-better domain in [0, 1]; the two are never compared.
type ScoredResult struct {
	Medicine  Medicine  `json:"medicine"`
	Score     float64   `json:"score"`
	MatchType MatchType `json:"match_type"`
}

// SearchPage is one page of ranked results. Total counts all matches after
// filtering, before pagination.
type SearchPage struct {
	Results []ScoredResult `json:"results"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// CacheStats summarizes the current cache snapshot.
type CacheStats struct {
	Total           int        `json:"total"`
	WithGeneric     int        `json:"with_generic"`
	WithBrand       int        `json:"with_brand"`
	WithCommonNames int        `json:"with_common_names"`
	TopPopular      []Medicine `json:"top_popular"`
}
