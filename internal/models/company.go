package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant's own organization profile. Its legal data is
// copied into a PartySnapshot whenever the tenant itself is a party of
// an invoice.
type Company struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `json:"name"`

	Street       string `json:"street"`
	StreetNumber string `json:"street_number"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	Country      string `gorm:"default:DE" json:"country"`

	VatID string `json:"vat_id"`
	TaxID string `json:"tax_id"`

	IBAN     string `json:"iban"`
	BIC      string `json:"bic"`
	BankName string `json:"bank_name"`

	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	RegisterCourt  string `json:"register_court"`
	RegisterNumber string `json:"register_number"`

	// Number prefixes per document class, e.g. INV-0001 / ST-0001.
	InvoicePrefix      string `gorm:"default:INV" json:"invoice_prefix"`
	CancellationPrefix string `gorm:"default:ST" json:"cancellation_prefix"`

	// PNG or JPEG, drawn into the invoice header when present.
	Logo []byte `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot freezes the company's current legal data.
func (c *Company) Snapshot() PartySnapshot {
	return PartySnapshot{
		Name:           c.Name,
		Street:         c.Street,
		StreetNumber:   c.StreetNumber,
		Zip:            c.Zip,
		City:           c.City,
		Country:        c.Country,
		VatID:          c.VatID,
		TaxID:          c.TaxID,
		IBAN:           c.IBAN,
		BIC:            c.BIC,
		BankName:       c.BankName,
		ContactName:    c.ContactName,
		ContactEmail:   c.ContactEmail,
		ContactPhone:   c.ContactPhone,
		RegisterCourt:  c.RegisterCourt,
		RegisterNumber: c.RegisterNumber,
	}
}
