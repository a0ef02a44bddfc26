package repository

import (
	"database/sql"
	"fmt"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// MaterialRepository handles materials catalog database operations
type MaterialRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *sql.DB, logger *zap.Logger) *MaterialRepository {
	return &MaterialRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new catalog entry
func (r *MaterialRepository) Create(m *entity.Material) error {
	query := `
		INSERT INTO materials (profile_id, description, unit, unit_price)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.Exec(query, m.ProfileID, m.Description, m.Unit, m.UnitPrice)
	if err != nil {
		r.logger.Error("Failed to create material", zap.Error(err))
		return fmt.Errorf("failed to create material: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	m.ID = id
	return nil
}

// GetByID retrieves a catalog entry by its ID
func (r *MaterialRepository) GetByID(id int64) (*entity.Material, error) {
	query := `
		SELECT id, profile_id, description, unit, unit_price, created_at
		FROM materials
		WHERE id = ?
	`

	var m entity.Material
	err := r.db.QueryRow(query, id).Scan(
		&m.ID, &m.ProfileID, &m.Description, &m.Unit, &m.UnitPrice, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get material", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return &m, nil
}

// ListByProfile returns the materials catalog for a profile
func (r *MaterialRepository) ListByProfile(profileID int64) ([]entity.Material, error) {
	query := `
		SELECT id, profile_id, description, unit, unit_price, created_at
		FROM materials
		WHERE profile_id = ?
		ORDER BY description
	`

	rows, err := r.db.Query(query, profileID)
	if err != nil {
		r.logger.Error("Failed to list materials", zap.Error(err))
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var materials []entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(
			&m.ID, &m.ProfileID, &m.Description, &m.Unit, &m.UnitPrice, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// Delete removes a catalog entry
func (r *MaterialRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM materials WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete material", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
