package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// ClientRepository handles stored customer database operations
type ClientRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new client
func (r *ClientRepository) Create(c *entity.Client) error {
	emails, err := json.Marshal(c.Emails)
	if err != nil {
		return fmt.Errorf("failed to encode emails: %w", err)
	}

	query := `
		INSERT INTO clients (profile_id, name, emails, address)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.Exec(query, c.ProfileID, c.Name, string(emails), c.Address)
	if err != nil {
		r.logger.Error("Failed to create client", zap.Error(err))
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = id
	return nil
}

// GetByID retrieves a client by its ID
func (r *ClientRepository) GetByID(id int64) (*entity.Client, error) {
	query := `
		SELECT id, profile_id, name, emails, address, created_at, updated_at
		FROM clients
		WHERE id = ?
	`

	var c entity.Client
	var emails string
	err := r.db.QueryRow(query, id).Scan(
		&c.ID, &c.ProfileID, &c.Name, &emails, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if err := json.Unmarshal([]byte(emails), &c.Emails); err != nil {
		return nil, fmt.Errorf("failed to decode emails: %w", err)
	}
	return &c, nil
}

// ListByProfile returns every client stored for a profile
func (r *ClientRepository) ListByProfile(profileID int64) ([]entity.Client, error) {
	query := `
		SELECT id, profile_id, name, emails, address, created_at, updated_at
		FROM clients
		WHERE profile_id = ?
		ORDER BY name
	`

	rows, err := r.db.Query(query, profileID)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []entity.Client
	for rows.Next() {
		var c entity.Client
		var emails string
		if err := rows.Scan(
			&c.ID, &c.ProfileID, &c.Name, &emails, &c.Address,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		if err := json.Unmarshal([]byte(emails), &c.Emails); err != nil {
			return nil, fmt.Errorf("failed to decode emails: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update updates an existing client
func (r *ClientRepository) Update(c *entity.Client) error {
	emails, err := json.Marshal(c.Emails)
	if err != nil {
		return fmt.Errorf("failed to encode emails: %w", err)
	}

	query := `
		UPDATE clients SET
			name = ?, emails = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query, c.Name, string(emails), c.Address, c.ID)
	if err != nil {
		r.logger.Error("Failed to update client", zap.Int64("id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to update client: %w", err)
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

// Delete removes a client
func (r *ClientRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete client", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete client: %w", err)
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
