// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

// MedicineStore defines the interface for the backing medicine store.
// Name uniqueness among active records is enforced by the store, not by
// the search core.
type MedicineStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the store connection.
	Close() error

	// ListActiveMedicines returns all active medicines ordered by popularity
	// descending, name ascending.
	ListActiveMedicines(ctx context.Context) ([]entities.Medicine, error)

	// FindMedicineByID finds a medicine by its ID, active or not.
	// Returns nil if no such medicine exists.
	FindMedicineByID(ctx context.Context, id string) (*entities.Medicine, error)

	// FindMedicineByName finds an active medicine by its normalized name.
	// Returns nil if no such medicine exists.
	FindMedicineByName(ctx context.Context, name string) (*entities.Medicine, error)

	// SaveMedicine inserts a new medicine.
	SaveMedicine(ctx context.Context, medicine *entities.Medicine) error

	// UpdateMedicine updates an existing medicine.
	UpdateMedicine(ctx context.Context, medicine *entities.Medicine) error

	// DeactivateMedicine flips a medicine to inactive. Records are never
	// hard-deleted.
	DeactivateMedicine(ctx context.Context, id string) error

	// SaveBatch inserts a batch of medicines in a single transaction.
	SaveBatch(ctx context.Context, medicines []entities.Medicine) error

	// CountMedicines returns the number of active medicines.
	CountMedicines(ctx context.Context) (int, error)

	// LogAction logs a mutation to the audit log.
	LogAction(ctx context.Context, action string, medicineID string, details map[string]any) error

	// FindAuditLogByAction finds audit log entries by action type.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
