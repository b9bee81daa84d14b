package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
	"github.com/ersonp/medsearch-core/internal/infrastructure/parsers"
)

// DefaultBatchSize is the number of records written per transaction
// during bulk import.
const DefaultBatchSize = 100

// ImportOptions controls an import run.
type ImportOptions struct {
	BatchSize int
	// DryRun validates without writing.
	DryRun bool
}

// ImportError describes one rejected record.
type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e ImportError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ImportResult reports what happened to each record of an import run.
// Requested = Imported + Skipped always holds, so callers can spot a
// discrepancy without diffing the source file.
type ImportResult struct {
	Requested int           `json:"requested"`
	Imported  int           `json:"imported"`
	Skipped   int           `json:"skipped"`
	Errors    []ImportError `json:"errors,omitempty"`
}

// ImportService bulk-loads parsed medicines into the store.
type ImportService struct {
	store  ports.MedicineStore
	cache  *Cache
	logger *slog.Logger
}

// NewImportService creates a bulk import service.
func NewImportService(store ports.MedicineStore, cache *Cache, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{store: store, cache: cache, logger: logger}
}

// Import validates records and writes the valid ones in batches. A
// record that fails validation is skipped and reported, not fatal. A
// batch that fails to write is logged and skipped. The run only errors
// when records were requested and none could be written.
func (s *ImportService) Import(ctx context.Context, raws []parsers.RawMedicine, opts ImportOptions) (*ImportResult, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	result := &ImportResult{Requested: len(raws)}
	medicines := make([]entities.Medicine, 0, len(raws))
	now := timeNow()

	for i := range raws {
		raw := &raws[i]
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, ImportError{
				Line:    raw.LineNum,
				Message: "missing required field: name",
			})
			continue
		}

		id := strings.TrimSpace(raw.ID)
		if id == "" {
			id = uuid.NewString()
		}
		popularity := raw.PopularityScore
		if popularity < 0 {
			popularity = 0
		}

		medicines = append(medicines, entities.Medicine{
			ID:                   id,
			Name:                 name,
			GenericName:          strings.TrimSpace(raw.GenericName),
			BrandName:            strings.TrimSpace(raw.BrandName),
			CommonNames:          raw.CommonNames,
			Manufacturer:         strings.TrimSpace(raw.Manufacturer),
			Description:          strings.TrimSpace(raw.Description),
			Category:             strings.TrimSpace(raw.Category),
			PrescriptionRequired: raw.PrescriptionRequired,
			PopularityScore:      popularity,
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}

	if opts.DryRun {
		result.Imported = len(medicines)
		return result, nil
	}

	for start := 0; start < len(medicines); start += batchSize {
		end := start + batchSize
		if end > len(medicines) {
			end = len(medicines)
		}
		batch := medicines[start:end]

		if err := s.store.SaveBatch(ctx, batch); err != nil {
			s.logger.Error("import batch failed", "start", start, "size", len(batch), "error", err)
			result.Skipped += len(batch)
			result.Errors = append(result.Errors, ImportError{
				Message: fmt.Sprintf("batch starting at record %d failed: %v", start+1, err),
			})
			continue
		}
		result.Imported += len(batch)
	}

	if result.Requested > 0 && result.Imported == 0 {
		return result, fmt.Errorf("import failed: none of %d records could be written", result.Requested)
	}

	if result.Imported > 0 {
		s.audit(ctx, result)
		s.cache.Invalidate()
	}
	return result, nil
}

func (s *ImportService) audit(ctx context.Context, result *ImportResult) {
	details := map[string]any{
		"requested": result.Requested,
		"imported":  result.Imported,
		"skipped":   result.Skipped,
	}
	if err := s.store.LogAction(ctx, ActionImported, "", details); err != nil {
		s.logger.Warn("audit log write failed", "action", ActionImported, "error", err)
	}
}
