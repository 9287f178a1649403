package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one position of an invoice. Total is always
// Quantity * UnitPrice, VatAmount is Total * VatRate / 100.
type LineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Position  int       `gorm:"index" json:"position"`

	Description string          `json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,3)" json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2)" json:"unit_price"`
	VatRate     decimal.Decimal `gorm:"type:numeric(5,2)" json:"vat_rate"`
	Total       decimal.Decimal `gorm:"type:numeric(14,2)" json:"total"`
	VatAmount   decimal.Decimal `gorm:"type:numeric(14,2)" json:"vat_amount"`
}

// Recalculate derives Total and VatAmount from quantity, price and rate.
func (li *LineItem) Recalculate() {
	li.Total = li.Quantity.Mul(li.UnitPrice).Round(2)
	li.VatAmount = li.Total.Mul(li.VatRate).Div(decimal.NewFromInt(100)).Round(2)
}

// Negate flips the sign of quantity and all derived amounts. Used for
// cancellation invoices; amounts are sign-flipped, never recomputed, so
// the cancellation is an exact inverse of the original.
func (li *LineItem) Negate() {
	li.Quantity = li.Quantity.Neg()
	li.Total = li.Total.Neg()
	li.VatAmount = li.VatAmount.Neg()
}
