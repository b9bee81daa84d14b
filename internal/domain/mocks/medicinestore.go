// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

// MedicineStore is an in-memory mock implementation of ports.MedicineStore.
type MedicineStore struct {
	mu        sync.Mutex
	Medicines map[string]*entities.Medicine
	Audit     []entities.AuditEntry

	// ListErr forces ListActiveMedicines to fail.
	ListErr error
	// SaveErr forces SaveMedicine and UpdateMedicine to fail.
	SaveErr error
	// BatchErr forces SaveBatch to fail for batches containing a medicine
	// whose name appears in BatchFailNames; when BatchFailNames is empty it
	// fails every batch.
	BatchErr       error
	BatchFailNames map[string]bool

	// ListCalls counts ListActiveMedicines invocations.
	ListCalls int
}

// NewMedicineStore creates an empty mock store.
func NewMedicineStore() *MedicineStore {
	return &MedicineStore{
		Medicines: make(map[string]*entities.Medicine),
	}
}

// Seed inserts medicines directly, bypassing validation.
func (m *MedicineStore) Seed(medicines ...entities.Medicine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range medicines {
		med := medicines[i]
		m.Medicines[med.ID] = &med
	}
}

// EnsureSchema is a no-op.
func (m *MedicineStore) EnsureSchema(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MedicineStore) Close() error {
	return nil
}

// ListActiveMedicines returns the seeded active medicines ordered by
// popularity descending, name ascending.
func (m *MedicineStore) ListActiveMedicines(_ context.Context) ([]entities.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	result := make([]entities.Medicine, 0, len(m.Medicines))
	for _, med := range m.Medicines {
		if med.IsActive {
			result = append(result, *med)
		}
	}
	sortMedicines(result)
	return result, nil
}

// FindMedicineByID returns the medicine with the given ID, or nil.
func (m *MedicineStore) FindMedicineByID(_ context.Context, id string) (*entities.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.Medicines[id]
	if !ok {
		return nil, nil
	}
	copied := *med
	return &copied, nil
}

// FindMedicineByName returns the active medicine with the given name, or nil.
func (m *MedicineStore) FindMedicineByName(_ context.Context, name string) (*entities.Medicine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	normalized := entities.NormalizeName(name)
	for _, med := range m.Medicines {
		if med.IsActive && entities.NormalizeName(med.Name) == normalized {
			copied := *med
			return &copied, nil
		}
	}
	return nil, nil
}

// SaveMedicine stores the medicine.
func (m *MedicineStore) SaveMedicine(_ context.Context, medicine *entities.Medicine) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *medicine
	m.Medicines[medicine.ID] = &copied
	return nil
}

// UpdateMedicine replaces the stored medicine.
func (m *MedicineStore) UpdateMedicine(_ context.Context, medicine *entities.Medicine) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *medicine
	m.Medicines[medicine.ID] = &copied
	return nil
}

// DeactivateMedicine flips the medicine to inactive.
func (m *MedicineStore) DeactivateMedicine(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if med, ok := m.Medicines[id]; ok {
		med.IsActive = false
	}
	return nil
}

// SaveBatch stores all medicines in the batch, or fails per BatchErr.
func (m *MedicineStore) SaveBatch(_ context.Context, medicines []entities.Medicine) error {
	if m.BatchErr != nil {
		if len(m.BatchFailNames) == 0 {
			return m.BatchErr
		}
		for i := range medicines {
			if m.BatchFailNames[medicines[i].Name] {
				return m.BatchErr
			}
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range medicines {
		med := medicines[i]
		m.Medicines[med.ID] = &med
	}
	return nil
}

// CountMedicines returns the number of active medicines.
func (m *MedicineStore) CountMedicines(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, med := range m.Medicines {
		if med.IsActive {
			count++
		}
	}
	return count, nil
}

// LogAction records the action in memory.
func (m *MedicineStore) LogAction(_ context.Context, action string, medicineID string, details map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:         int64(len(m.Audit) + 1),
		Action:     action,
		MedicineID: medicineID,
		Details:    details,
	})
	return nil
}

// FindAuditLogByAction returns recorded entries matching the action.
func (m *MedicineStore) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []entities.AuditEntry
	for _, e := range m.Audit {
		if e.Action == action {
			entries = append(entries, e)
		}
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

// sortMedicines orders by popularity descending, name ascending.
func sortMedicines(medicines []entities.Medicine) {
	for i := 0; i < len(medicines)-1; i++ {
		for j := i + 1; j < len(medicines); j++ {
			swap := false
			if medicines[j].PopularityScore > medicines[i].PopularityScore {
				swap = true
			} else if medicines[j].PopularityScore == medicines[i].PopularityScore {
				if medicines[j].Name < medicines[i].Name {
					swap = true
				}
			}
			if swap {
				medicines[i], medicines[j] = medicines[j], medicines[i]
			}
		}
	}
}
