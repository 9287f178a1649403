package party

import (
	"context"
	"testing"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeContacts struct {
	contacts map[uuid.UUID]*models.Contact
}

func (f *fakeContacts) GetByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*models.Contact, error) {
	if c, ok := f.contacts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestResolve_Self(t *testing.T) {
	company := &models.Company{
		ID:    uuid.New(),
		Name:  "Musterfirma GmbH",
		City:  "Berlin",
		VatID: "DE123456789",
	}
	r := NewResolver(&fakeContacts{})

	snap, err := r.Resolve(context.Background(), Self(), company)
	require.NoError(t, err)
	assert.Equal(t, "Musterfirma GmbH", snap.Name)
	assert.Equal(t, "DE123456789", snap.VatID)
}

func TestResolve_External(t *testing.T) {
	company := &models.Company{ID: uuid.New(), Name: "Musterfirma GmbH"}
	contact := &models.Contact{
		ID:        uuid.New(),
		CompanyID: company.ID,
		Name:      "Partner AG",
		TaxID:     "12/345/67890",
	}
	r := NewResolver(&fakeContacts{contacts: map[uuid.UUID]*models.Contact{contact.ID: contact}})

	snap, err := r.Resolve(context.Background(), External(contact.ID), company)
	require.NoError(t, err)
	assert.Equal(t, "Partner AG", snap.Name)
	assert.Equal(t, "12/345/67890", snap.TaxID)
}

func TestResolve_UnknownContact(t *testing.T) {
	company := &models.Company{ID: uuid.New(), Name: "Musterfirma GmbH"}
	r := NewResolver(&fakeContacts{})

	_, err := r.Resolve(context.Background(), External(uuid.New()), company)
	assert.Error(t, err)
}

// Editing the source record after resolution must not change an
// already-taken snapshot.
func TestResolve_SnapshotIsFrozen(t *testing.T) {
	company := &models.Company{ID: uuid.New(), Name: "Musterfirma GmbH", IBAN: "DE02120300000000202051"}
	r := NewResolver(&fakeContacts{})

	snap, err := r.Resolve(context.Background(), Self(), company)
	require.NoError(t, err)

	company.Name = "Umbenannt GmbH"
	company.IBAN = "DE00000000000000000000"

	assert.Equal(t, "Musterfirma GmbH", snap.Name)
	assert.Equal(t, "DE02120300000000202051", snap.IBAN)
}
