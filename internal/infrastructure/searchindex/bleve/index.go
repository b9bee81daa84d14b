// Package bleve provides a bleve-backed implementation of the FuzzyIndex interface.
package bleve

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

// DefaultFuzziness is the edit distance used when none is configured.
const DefaultFuzziness = 1

// fieldWeights are the per-field match weights, applied as query boosts.
var fieldWeights = []struct {
	field  string
	weight float64
}{
	{"name", 0.4},
	{"generic_name", 0.3},
	{"brand_name", 0.2},
	{"common_names", 0.1},
}

// Builder implements ports.IndexBuilder over an in-memory bleve index.
type Builder struct {
	fuzziness int
}

// NewBuilder creates an index builder with the given maximum edit distance.
func NewBuilder(fuzziness int) *Builder {
	if fuzziness <= 0 {
		fuzziness = DefaultFuzziness
	}
	return &Builder{fuzziness: fuzziness}
}

// Build indexes the snapshot's records. The index is memory-only and is
// discarded with its snapshot.
func (b *Builder) Build(records []entities.Medicine) (ports.FuzzyIndex, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	batch := idx.NewBatch()
	for i := range records {
		rec := &records[i]
		doc := map[string]any{
			"name":         rec.Name,
			"generic_name": rec.GenericName,
			"brand_name":   rec.BrandName,
			"common_names": strings.Join(rec.CommonNames, " "),
		}
		if err := batch.Index(rec.ID, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing medicine %q: %w", rec.Name, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("applying index batch: %w", err)
	}

	return &Index{idx: idx, size: len(records), fuzziness: b.fuzziness}, nil
}

// Index is a fuzzy index over one cache snapshot.
type Index struct {
	idx       bleve.Index
	size      int
	fuzziness int
}

// Search finds typo-tolerant matches for a free-text query across the
// weighted name fields.
func (i *Index) Search(q string) ([]ports.IndexHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	disjuncts := make([]query.Query, 0, 2*len(fieldWeights))
	for _, fw := range fieldWeights {
		exact := bleve.NewMatchQuery(q)
		exact.SetField(fw.field)
		exact.SetBoost(fw.weight)
		disjuncts = append(disjuncts, exact)

		fuzzy := bleve.NewMatchQuery(q)
		fuzzy.SetField(fw.field)
		fuzzy.SetFuzziness(i.fuzziness)
		fuzzy.SetBoost(fw.weight)
		disjuncts = append(disjuncts, fuzzy)
	}

	return i.run(bleve.NewDisjunctionQuery(disjuncts...))
}

// SearchQueryString evaluates an extended boolean-style query for advanced
// callers, using bleve's query string syntax.
func (i *Index) SearchQueryString(q string) ([]ports.IndexHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	return i.run(bleve.NewQueryStringQuery(q))
}

// Close releases index resources.
func (i *Index) Close() error {
	return i.idx.Close()
}

// run executes a query against the whole index. Truncation is the
// orchestrator's responsibility, so the request size covers every record.
func (i *Index) run(q query.Query) ([]ports.IndexHit, error) {
	if i.size == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(q, i.size, 0, false)
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]ports.IndexHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		// Bleve scores are higher-is-better; invert into the engine's
		// low-is-better domain.
		hits = append(hits, ports.IndexHit{ID: hit.ID, Score: 1 / (1 + hit.Score)})
	}
	return hits, nil
}
