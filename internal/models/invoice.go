package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice lifecycle statuses. Everything after "draft" is append-only
// except the status itself.
const (
	StatusDraft     = "draft"
	StatusCreated   = "created"
	StatusSent      = "sent"
	StatusReminded  = "reminded"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Document classes. A cancellation invoice negates a previously issued
// invoice and draws its number from a separate sequence.
const (
	KindInvoice      = "invoice"
	KindCancellation = "cancellation"
)

type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Kind      string    `gorm:"index;default:invoice" json:"kind"`
	Status    string    `gorm:"index" json:"status"`

	// Number stays nil until finalization assigns one.
	Number      *string    `gorm:"index" json:"number"`
	InvoiceDate *time.Time `json:"invoice_date"`
	DueDate     *time.Time `json:"due_date"`

	SellerIsSelf    bool       `json:"seller_is_self"`
	BuyerIsSelf     bool       `json:"buyer_is_self"`
	SellerContactID *uuid.UUID `gorm:"type:uuid" json:"seller_contact_id"`
	BuyerContactID  *uuid.UUID `gorm:"type:uuid" json:"buyer_contact_id"`

	// Frozen legal data of both parties, captured at finalization.
	SellerSnapshot datatypes.JSONType[PartySnapshot] `json:"seller_snapshot"`
	BuyerSnapshot  datatypes.JSONType[PartySnapshot] `json:"buyer_snapshot"`

	Items []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal  decimal.Decimal `gorm:"type:numeric(14,2)" json:"subtotal"`
	VatAmount decimal.Decimal `gorm:"type:numeric(14,2)" json:"vat_amount"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2)" json:"total"`

	PDFKey string `json:"pdf_key"`
	XMLKey string `json:"xml_key"`

	RecipientEmail string `json:"recipient_email"`
	Language       string `gorm:"default:de" json:"language"`
	HeaderText     string `json:"header_text"`
	FooterText     string `json:"footer_text"`

	// One-to-one link: at most one cancellation per invoice.
	CancelledInvoiceID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"cancelled_invoice_id"`

	FinalizedAt *time.Time `json:"finalized_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsDraft reports whether the invoice is still mutable.
func (i *Invoice) IsDraft() bool {
	return i.Status == StatusDraft
}

// FormattedNumber returns the assigned number, or "" while draft.
func (i *Invoice) FormattedNumber() string {
	if i.Number == nil {
		return ""
	}
	return *i.Number
}
