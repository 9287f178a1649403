package validation

import (
	"fmt"
	"strings"

	"invoicing-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Item is one validation finding, tagged with the field it concerns so
// callers can group messages by subject (issuer / counterparty / items).
type Item struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result of a compliance check. Errors block finalization, warnings
// are logged and do not.
type Result struct {
	Valid    bool   `json:"valid"`
	Errors   []Item `json:"errors"`
	Warnings []Item `json:"warnings"`
}

// Validator checks a candidate invoice against the statutory and
// e-invoicing completeness rules. It never mutates state.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate gates finalization. The seller/buyer snapshots are the ones
// that would be frozen into the invoice; sellerPrefix is the number
// prefix of the issuing identity, checked here so a missing prefix is
// reported up front instead of surfacing late during numbering.
func (v *Validator) Validate(inv *models.Invoice, seller, buyer models.PartySnapshot, sellerPrefix string) Result {
	errs := make([]Item, 0)
	warns := make([]Item, 0)

	// Issuer completeness.
	if seller.Name == "" {
		errs = append(errs, Item{"issuer.name", "legal name of the issuer is missing"})
	}
	if !seller.HasAddress() {
		errs = append(errs, Item{"issuer.address", "issuer postal address is incomplete (street, number, postal code, city, country)"})
	}
	if !seller.HasTaxIdentifier() {
		errs = append(errs, Item{"issuer.tax", "issuer needs a tax id or a VAT id"})
	}
	if seller.IBAN == "" {
		errs = append(errs, Item{"issuer.iban", "issuer bank IBAN is missing"})
	}
	if !seller.HasContact() {
		errs = append(errs, Item{"issuer.contact", "issuer needs a contact name, phone or email"})
	}
	if sellerPrefix == "" {
		errs = append(errs, Item{"issuer.invoice_prefix", "issuing identity has no invoice number prefix configured"})
	}

	// Counterparty completeness.
	if buyer.Name == "" {
		errs = append(errs, Item{"counterparty.name", "legal name of the counterparty is missing"})
	}
	if !buyer.HasAddress() {
		errs = append(errs, Item{"counterparty.address", "counterparty postal address is incomplete"})
	}

	// Line items.
	if len(inv.Items) == 0 {
		errs = append(errs, Item{"items", "at least one line item is required"})
	}
	for i, item := range inv.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Description) == "" {
			errs = append(errs, Item{field + ".description", "description is required"})
		}
		if !item.Quantity.IsPositive() {
			errs = append(errs, Item{field + ".quantity", "quantity must be greater than zero"})
		}
		if strings.TrimSpace(item.Unit) == "" {
			errs = append(errs, Item{field + ".unit", "unit is required"})
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, Item{field + ".unit_price", "unit price must not be negative"})
		}
		if item.VatRate.IsNegative() || item.VatRate.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, Item{field + ".vat_rate", "VAT rate must be between 0 and 100"})
		}
	}

	// Dates.
	if inv.InvoiceDate == nil {
		errs = append(errs, Item{"invoice_date", "invoice date is required"})
	}
	if inv.InvoiceDate != nil && inv.DueDate != nil && inv.DueDate.Before(*inv.InvoiceDate) {
		warns = append(warns, Item{"due_date", "due date is before the invoice date"})
	}
	if len(inv.Items) > 0 && inv.Total.IsZero() {
		warns = append(warns, Item{"total", "invoice total is zero"})
	}

	return Result{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}
