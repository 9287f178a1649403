package models

import (
	"time"

	"github.com/google/uuid"
)

// Issuing identity owner types for sequence counters.
const (
	OwnerCompany = "company"
	OwnerContact = "contact"
)

// SequenceCounter holds the last issued value for one
// (issuing identity, document class) pair. It is only ever touched
// through a single atomic increment-and-return statement.
type SequenceCounter struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerType     string    `gorm:"uniqueIndex:idx_seq_owner_class"`
	OwnerID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_seq_owner_class"`
	DocumentClass string    `gorm:"uniqueIndex:idx_seq_owner_class"`
	Counter       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
