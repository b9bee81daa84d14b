package entities

import "time"

// AuditEntry represents a logged mutation in the system.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	MedicineID string         `json:"medicine_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
