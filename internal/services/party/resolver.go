package party

import (
	"context"
	"errors"
	"fmt"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
)

var ErrEmptyParty = errors.New("party has no legal name")

// Ref is the tagged variant of "who is legally acting as this party":
// the tenant itself, or an external contact. It is resolved exactly
// once into a concrete snapshot; business logic never inspects
// nullable-foreign-key-plus-flag pairs directly.
type Ref struct {
	self      bool
	contactID uuid.UUID
}

func Self() Ref {
	return Ref{self: true}
}

func External(contactID uuid.UUID) Ref {
	return Ref{contactID: contactID}
}

func (r Ref) IsSelf() bool { return r.self }

// ContactSource is the read-only access the resolver needs.
type ContactSource interface {
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Contact, error)
}

type Resolver struct {
	contacts ContactSource
}

func NewResolver(contacts ContactSource) *Resolver {
	return &Resolver{contacts: contacts}
}

// Resolve builds an immutable snapshot of the referenced party's legal
// data. Drafts may re-resolve on every update; a finalized invoice
// keeps its frozen snapshot forever. The source record is never
// mutated.
func (r *Resolver) Resolve(ctx context.Context, ref Ref, company *models.Company) (models.PartySnapshot, error) {
	if ref.IsSelf() {
		snap := company.Snapshot()
		if snap.Name == "" {
			return models.PartySnapshot{}, ErrEmptyParty
		}
		return snap, nil
	}

	contact, err := r.contacts.GetByID(ctx, company.ID, ref.contactID)
	if err != nil {
		return models.PartySnapshot{}, fmt.Errorf("resolve contact %s: %w", ref.contactID, err)
	}
	snap := contact.Snapshot()
	if snap.Name == "" {
		return models.PartySnapshot{}, ErrEmptyParty
	}
	return snap, nil
}
