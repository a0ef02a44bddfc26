package repository

import (
	"database/sql"
	"fmt"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// ProfileRepository handles business profile database operations
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new business profile
func (r *ProfileRepository) Create(p *entity.Profile) error {
	query := `
		INSERT INTO profiles (
			name, abn, address, email, phone, bank_bsb, bank_account,
			invoice_prefix, next_invoice_number, gst_enabled,
			default_hourly_rate, logo_ref
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		p.Name, p.ABN, p.Address, p.Email, p.Phone,
		p.BankBSB, p.BankAccount,
		p.InvoicePrefix, p.NextInvoiceNumber, p.GSTEnabled,
		p.DefaultHourlyRate, p.LogoRef,
	)
	if err != nil {
		r.logger.Error("Failed to create profile", zap.Error(err))
		return fmt.Errorf("failed to create profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	return nil
}

// GetByID retrieves a profile by its ID
func (r *ProfileRepository) GetByID(id int64) (*entity.Profile, error) {
	query := `
		SELECT id, name, abn, address, email, phone, bank_bsb, bank_account,
			invoice_prefix, next_invoice_number, gst_enabled,
			default_hourly_rate, logo_ref, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	var p entity.Profile
	err := r.db.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &p.ABN, &p.Address, &p.Email, &p.Phone,
		&p.BankBSB, &p.BankAccount,
		&p.InvoicePrefix, &p.NextInvoiceNumber, &p.GSTEnabled,
		&p.DefaultHourlyRate, &p.LogoRef, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// List returns all business profiles
func (r *ProfileRepository) List() ([]entity.Profile, error) {
	query := `
		SELECT id, name, abn, address, email, phone, bank_bsb, bank_account,
			invoice_prefix, next_invoice_number, gst_enabled,
			default_hourly_rate, logo_ref, created_at, updated_at
		FROM profiles
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.ABN, &p.Address, &p.Email, &p.Phone,
			&p.BankBSB, &p.BankAccount,
			&p.InvoicePrefix, &p.NextInvoiceNumber, &p.GSTEnabled,
			&p.DefaultHourlyRate, &p.LogoRef, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update updates an existing profile
func (r *ProfileRepository) Update(p *entity.Profile) error {
	query := `
		UPDATE profiles SET
			name = ?, abn = ?, address = ?, email = ?, phone = ?,
			bank_bsb = ?, bank_account = ?, invoice_prefix = ?,
			gst_enabled = ?, default_hourly_rate = ?, logo_ref = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		p.Name, p.ABN, p.Address, p.Email, p.Phone,
		p.BankBSB, p.BankAccount, p.InvoicePrefix,
		p.GSTEnabled, p.DefaultHourlyRate, p.LogoRef,
		p.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.Int64("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
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

// Delete removes a profile
func (r *ProfileRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete profile", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete profile: %w", err)
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
