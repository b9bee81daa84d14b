package handlers

import (
	"context"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/services"
)

// MedicineHandler handles medicine mutations at the application layer.
type MedicineHandler struct {
	service *services.MedicineService
}

// NewMedicineHandler creates a new MedicineHandler.
func NewMedicineHandler(service *services.MedicineService) *MedicineHandler {
	return &MedicineHandler{
		service: service,
	}
}

// HandleCreate adds a new medicine.
func (h *MedicineHandler) HandleCreate(ctx context.Context, medicine entities.Medicine) (*entities.Medicine, error) {
	return h.service.Create(ctx, medicine)
}

// HandleUpdate modifies an existing medicine.
func (h *MedicineHandler) HandleUpdate(ctx context.Context, medicine entities.Medicine) (*entities.Medicine, error) {
	return h.service.Update(ctx, medicine)
}

// HandleDeactivate soft-deletes a medicine.
func (h *MedicineHandler) HandleDeactivate(ctx context.Context, id string) error {
	return h.service.Deactivate(ctx, id)
}

// HandleGet returns a medicine by ID, active or not.
func (h *MedicineHandler) HandleGet(ctx context.Context, id string) (*entities.Medicine, error) {
	return h.service.Get(ctx, id)
}

// HandleList returns all active medicines.
func (h *MedicineHandler) HandleList(ctx context.Context) ([]entities.Medicine, error) {
	return h.service.List(ctx)
}

// HandleHistory returns recent audit entries for one action type.
func (h *MedicineHandler) HandleHistory(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	return h.service.History(ctx, action, limit)
}
