// Package sqlite provides a SQLite implementation of the MedicineStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Repository implements ports.MedicineStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Medicine name records; deactivated records are kept for audit
	CREATE TABLE IF NOT EXISTS medicines (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		generic_name TEXT,
		brand_name TEXT,
		common_names TEXT NOT NULL DEFAULT '[]',
		manufacturer TEXT,
		description TEXT,
		category TEXT,
		prescription_required INTEGER NOT NULL DEFAULT 0,
		popularity_score INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	-- Name uniqueness holds among active records only
	CREATE UNIQUE INDEX IF NOT EXISTS idx_medicines_active_name
		ON medicines(name) WHERE is_active = 1;
	CREATE INDEX IF NOT EXISTS idx_medicines_popularity
		ON medicines(is_active, popularity_score DESC);

	-- Audit log (tracks all mutations)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		medicine_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const medicineColumns = `id, name, generic_name, brand_name, common_names,
	manufacturer, description, category, prescription_required,
	popularity_score, is_active, created_at, updated_at`

// ListActiveMedicines returns all active medicines ordered by popularity
// descending, name ascending.
func (r *Repository) ListActiveMedicines(ctx context.Context) ([]entities.Medicine, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM medicines
		WHERE is_active = 1
		ORDER BY popularity_score DESC, name ASC
	`, medicineColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying medicines: %w", err)
	}
	defer rows.Close()

	medicines := make([]entities.Medicine, 0, 64)
	for rows.Next() {
		med, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, *med)
	}
	return medicines, rows.Err()
}

// FindMedicineByID finds a medicine by its ID, active or not.
func (r *Repository) FindMedicineByID(ctx context.Context, id string) (*entities.Medicine, error) {
	query := fmt.Sprintf(`SELECT %s FROM medicines WHERE id = ?`, medicineColumns)
	return r.queryOne(ctx, query, id)
}

// FindMedicineByName finds an active medicine by its name (case-insensitive).
func (r *Repository) FindMedicineByName(ctx context.Context, name string) (*entities.Medicine, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM medicines
		WHERE is_active = 1 AND name = ? COLLATE NOCASE
	`, medicineColumns)
	return r.queryOne(ctx, query, name)
}

// SaveMedicine inserts a new medicine.
func (r *Repository) SaveMedicine(ctx context.Context, medicine *entities.Medicine) error {
	commonNames, err := marshalCommonNames(medicine.CommonNames)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO medicines (id, name, generic_name, brand_name, common_names,
			manufacturer, description, category, prescription_required,
			popularity_score, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		medicine.ID,
		medicine.Name,
		medicine.GenericName,
		medicine.BrandName,
		commonNames,
		medicine.Manufacturer,
		medicine.Description,
		medicine.Category,
		medicine.PrescriptionRequired,
		medicine.PopularityScore,
		medicine.IsActive,
		medicine.CreatedAt,
		medicine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving medicine: %w", err)
	}
	return nil
}

// UpdateMedicine updates an existing medicine.
func (r *Repository) UpdateMedicine(ctx context.Context, medicine *entities.Medicine) error {
	commonNames, err := marshalCommonNames(medicine.CommonNames)
	if err != nil {
		return err
	}

	query := `
		UPDATE medicines SET
			name = ?, generic_name = ?, brand_name = ?, common_names = ?,
			manufacturer = ?, description = ?, category = ?,
			prescription_required = ?, popularity_score = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		medicine.Name,
		medicine.GenericName,
		medicine.BrandName,
		commonNames,
		medicine.Manufacturer,
		medicine.Description,
		medicine.Category,
		medicine.PrescriptionRequired,
		medicine.PopularityScore,
		medicine.UpdatedAt,
		medicine.ID,
	)
	if err != nil {
		return fmt.Errorf("updating medicine: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("medicine not found: %s", medicine.ID)
	}
	return nil
}

// DeactivateMedicine flips a medicine to inactive. Records are never
// hard-deleted.
func (r *Repository) DeactivateMedicine(ctx context.Context, id string) error {
	query := `
		UPDATE medicines SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_active = 1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivating medicine: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("medicine not found: %s", id)
	}
	return nil
}

// SaveBatch inserts a batch of medicines in a single transaction.
func (r *Repository) SaveBatch(ctx context.Context, medicines []entities.Medicine) error {
	if len(medicines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO medicines (id, name, generic_name, brand_name, common_names,
			manufacturer, description, category, prescription_required,
			popularity_score, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing batch insert: %w", err)
	}
	defer stmt.Close()

	for i := range medicines {
		med := &medicines[i]
		commonNames, err := marshalCommonNames(med.CommonNames)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			med.ID,
			med.Name,
			med.GenericName,
			med.BrandName,
			commonNames,
			med.Manufacturer,
			med.Description,
			med.Category,
			med.PrescriptionRequired,
			med.PopularityScore,
			med.IsActive,
			med.CreatedAt,
			med.UpdatedAt,
		); err != nil {
			return fmt.Errorf("inserting medicine %q: %w", med.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// CountMedicines returns the number of active medicines.
func (r *Repository) CountMedicines(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM medicines WHERE is_active = 1`
	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting medicines: %w", err)
	}
	return count, nil
}

// LogAction logs a mutation to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, medicineID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var medicineIDPtr sql.NullString
	if medicineID != "" {
		medicineIDPtr = sql.NullString{String: medicineID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, medicine_id, details) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, medicineIDPtr, detailsJSON)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLogByAction finds audit log entries by action type.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, medicine_id, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, action, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.AuditEntry, 0, limit)
	for rows.Next() {
		var entry entities.AuditEntry
		var medicineID, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&medicineID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.MedicineID = medicineID.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// queryOne executes a query expected to return at most one medicine.
func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (*entities.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying medicine: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMedicine(rows)
}

// scanMedicine scans a medicine row.
func scanMedicine(rows *sql.Rows) (*entities.Medicine, error) {
	var med entities.Medicine
	var genericName, brandName, manufacturer, description, category sql.NullString
	var commonNames string

	err := rows.Scan(
		&med.ID,
		&med.Name,
		&genericName,
		&brandName,
		&commonNames,
		&manufacturer,
		&description,
		&category,
		&med.PrescriptionRequired,
		&med.PopularityScore,
		&med.IsActive,
		&med.CreatedAt,
		&med.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning medicine: %w", err)
	}

	med.GenericName = genericName.String
	med.BrandName = brandName.String
	med.Manufacturer = manufacturer.String
	med.Description = description.String
	med.Category = category.String

	if commonNames != "" {
		if err := json.Unmarshal([]byte(commonNames), &med.CommonNames); err != nil {
			return nil, fmt.Errorf("unmarshaling common names: %w", err)
		}
	}

	return &med, nil
}

// marshalCommonNames serializes the aliases as a JSON array column.
func marshalCommonNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("marshaling common names: %w", err)
	}
	return string(data), nil
}
