package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

// Audit actions recorded by the mutation gateway.
const (
	ActionCreated     = "medicine_created"
	ActionUpdated     = "medicine_updated"
	ActionDeactivated = "medicine_deactivated"
	ActionImported    = "medicines_imported"
)

// MedicineService is the mutation gateway. Every successful mutation is
// audited and invalidates the cache so the next search sees it.
type MedicineService struct {
	store  ports.MedicineStore
	cache  *Cache
	logger *slog.Logger
}

// NewMedicineService creates a mutation gateway over the store and cache.
func NewMedicineService(store ports.MedicineStore, cache *Cache, logger *slog.Logger) *MedicineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MedicineService{store: store, cache: cache, logger: logger}
}

// Create inserts a new medicine. The ID and timestamps are assigned here;
// a negative popularity score is coerced to zero.
func (s *MedicineService) Create(ctx context.Context, medicine entities.Medicine) (*entities.Medicine, error) {
	medicine.Name = strings.TrimSpace(medicine.Name)
	if medicine.Name == "" {
		return nil, ErrNameRequired
	}

	if medicine.ID == "" {
		medicine.ID = uuid.NewString()
	}
	if medicine.PopularityScore < 0 {
		medicine.PopularityScore = 0
	}
	medicine.IsActive = true
	now := timeNow()
	medicine.CreatedAt = now
	medicine.UpdatedAt = now

	if err := s.store.SaveMedicine(ctx, &medicine); err != nil {
		return nil, fmt.Errorf("saving medicine: %w", err)
	}

	s.audit(ctx, ActionCreated, medicine.ID, map[string]any{"name": medicine.Name})
	s.cache.Invalidate()
	return &medicine, nil
}

// Update modifies an existing medicine and bumps its UpdatedAt.
func (s *MedicineService) Update(ctx context.Context, medicine entities.Medicine) (*entities.Medicine, error) {
	if medicine.ID == "" {
		return nil, fmt.Errorf("medicine ID is required")
	}
	medicine.Name = strings.TrimSpace(medicine.Name)
	if medicine.Name == "" {
		return nil, ErrNameRequired
	}

	existing, err := s.store.FindMedicineByID(ctx, medicine.ID)
	if err != nil {
		return nil, fmt.Errorf("finding medicine: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("medicine %s not found", medicine.ID)
	}

	if medicine.PopularityScore < 0 {
		medicine.PopularityScore = 0
	}
	medicine.IsActive = existing.IsActive
	medicine.CreatedAt = existing.CreatedAt
	medicine.UpdatedAt = timeNow()

	if err := s.store.UpdateMedicine(ctx, &medicine); err != nil {
		return nil, fmt.Errorf("updating medicine: %w", err)
	}

	s.audit(ctx, ActionUpdated, medicine.ID, map[string]any{"name": medicine.Name})
	s.cache.Invalidate()
	return &medicine, nil
}

// Deactivate soft-deletes a medicine. The record stays in the store for
// the audit trail but disappears from search.
func (s *MedicineService) Deactivate(ctx context.Context, id string) error {
	existing, err := s.store.FindMedicineByID(ctx, id)
	if err != nil {
		return fmt.Errorf("finding medicine: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("medicine %s not found", id)
	}

	if err := s.store.DeactivateMedicine(ctx, id); err != nil {
		return fmt.Errorf("deactivating medicine: %w", err)
	}

	s.audit(ctx, ActionDeactivated, id, map[string]any{"name": existing.Name})
	s.cache.Invalidate()
	return nil
}

// Get returns a medicine by ID, active or not.
func (s *MedicineService) Get(ctx context.Context, id string) (*entities.Medicine, error) {
	medicine, err := s.store.FindMedicineByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding medicine: %w", err)
	}
	if medicine == nil {
		return nil, fmt.Errorf("medicine %s not found", id)
	}
	return medicine, nil
}

// List returns all active medicines.
func (s *MedicineService) List(ctx context.Context) ([]entities.Medicine, error) {
	return s.store.ListActiveMedicines(ctx)
}

// History returns recent audit entries for one action type.
func (s *MedicineService) History(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.FindAuditLogByAction(ctx, action, limit)
}

// audit records a mutation. The audit log is best-effort; a logging
// failure never fails the mutation it describes.
func (s *MedicineService) audit(ctx context.Context, action, medicineID string, details map[string]any) {
	if err := s.store.LogAction(ctx, action, medicineID, details); err != nil {
		s.logger.Warn("audit log write failed", "action", action, "medicine_id", medicineID, "error", err)
	}
}
