package repository

import (
	"database/sql"
	"fmt"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// PhotoRepository records job photos uploaded against draft sessions
type PhotoRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *sql.DB, logger *zap.Logger) *PhotoRepository {
	return &PhotoRepository{
		db:     db,
		logger: logger,
	}
}

// Create records an uploaded photo
func (r *PhotoRepository) Create(p *entity.Photo) error {
	query := `
		INSERT INTO photos (draft_uid, ref, original_name, content_type, size_bytes)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(query, p.DraftUID, p.Ref, p.OriginalName, p.ContentType, p.SizeBytes)
	if err != nil {
		r.logger.Error("Failed to record photo", zap.Error(err))
		return fmt.Errorf("failed to record photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	return nil
}

// ListByDraft returns every photo uploaded for a draft session
func (r *PhotoRepository) ListByDraft(draftUID string) ([]entity.Photo, error) {
	query := `
		SELECT id, draft_uid, ref, original_name, content_type, size_bytes, created_at
		FROM photos
		WHERE draft_uid = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, draftUID)
	if err != nil {
		r.logger.Error("Failed to list photos", zap.Error(err))
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []entity.Photo
	for rows.Next() {
		var p entity.Photo
		if err := rows.Scan(
			&p.ID, &p.DraftUID, &p.Ref, &p.OriginalName,
			&p.ContentType, &p.SizeBytes, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
