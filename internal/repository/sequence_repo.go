package repository

import (
	"context"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next increments and returns the counter for one (identity, class)
// pair. The upsert runs as a single server-side statement, so two
// concurrent callers can never observe the same value and no value is
// ever skipped. The row is created on first use with counter = 1.
func (r *SequenceRepository) Next(ctx context.Context, ownerType string, ownerID uuid.UUID, documentClass string) (int64, error) {
	var counter int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (id, owner_type, owner_id, document_class, counter, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, NOW(), NOW())
		ON CONFLICT (owner_type, owner_id, document_class)
		DO UPDATE SET counter = sequence_counters.counter + 1, updated_at = NOW()
		RETURNING counter`,
		uuid.New(), ownerType, ownerID, documentClass,
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

// Current reads the last issued value without incrementing. Returns 0
// when no number has been issued yet.
func (r *SequenceRepository) Current(ctx context.Context, ownerType string, ownerID uuid.UUID, documentClass string) (int64, error) {
	var sc models.SequenceCounter
	err := r.db.WithContext(ctx).
		First(&sc, "owner_type = ? AND owner_id = ? AND document_class = ?", ownerType, ownerID, documentClass).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return sc.Counter, nil
}
