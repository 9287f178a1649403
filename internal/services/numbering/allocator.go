package numbering

import (
	"context"
	"errors"
	"fmt"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNoPrefix means the issuing identity has no number prefix
	// configured for the requested document class.
	ErrNoPrefix = errors.New("issuing identity has no number prefix configured")
)

// Identity is the legal party whose sequence governs an invoice:
// either the tenant's own company or a contact issuing under its name.
type Identity struct {
	OwnerType string
	OwnerID   uuid.UUID
}

func CompanyIdentity(id uuid.UUID) Identity {
	return Identity{OwnerType: models.OwnerCompany, OwnerID: id}
}

func ContactIdentity(id uuid.UUID) Identity {
	return Identity{OwnerType: models.OwnerContact, OwnerID: id}
}

// SequenceSource hands out the next raw counter value for an
// (identity, document class) pair. The increment-and-read must be a
// single atomic operation; see repository.SequenceRepository.Next.
type SequenceSource interface {
	Next(ctx context.Context, ownerType string, ownerID uuid.UUID, documentClass string) (int64, error)
}

type Allocator struct {
	sequences SequenceSource
}

func NewAllocator(sequences SequenceSource) *Allocator {
	return &Allocator{sequences: sequences}
}

// Allocate assigns the next formatted number for the identity and
// document class. A failed allocation is fatal for the caller: the
// invoice must never proceed with a placeholder number.
func (a *Allocator) Allocate(ctx context.Context, identity Identity, documentClass, prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNoPrefix
	}
	counter, err := a.sequences.Next(ctx, identity.OwnerType, identity.OwnerID, documentClass)
	if err != nil {
		return "", fmt.Errorf("sequence increment for %s/%s failed: %w", identity.OwnerType, documentClass, err)
	}
	return Format(prefix, counter), nil
}

// Format renders a counter value as "PREFIX-0001".
func Format(prefix string, counter int64) string {
	return fmt.Sprintf("%s-%04d", prefix, counter)
}
