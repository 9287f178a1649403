package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an external counterparty. A contact can also act as the
// legal seller of an invoice issued through the tenant's account, in
// which case it carries its own number prefixes and sequence.
type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Name      string    `gorm:"index" json:"name"`

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

	// Only set for contacts that issue invoices under their own name.
	InvoicePrefix      string `json:"invoice_prefix"`
	CancellationPrefix string `json:"cancellation_prefix"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot freezes the contact's current legal data.
func (c *Contact) Snapshot() PartySnapshot {
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
