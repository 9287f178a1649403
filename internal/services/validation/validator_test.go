package validation

import (
	"testing"
	"time"

	"invoicing-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func completeSeller() models.PartySnapshot {
	return models.PartySnapshot{
		Name:         "Musterfirma GmbH",
		Street:       "Hauptstraße",
		StreetNumber: "12",
		Zip:          "10115",
		City:         "Berlin",
		Country:      "DE",
		VatID:        "DE123456789",
		IBAN:         "DE02120300000000202051",
		ContactEmail: "billing@musterfirma.de",
	}
}

func completeBuyer() models.PartySnapshot {
	return models.PartySnapshot{
		Name:         "Kunde AG",
		Street:       "Marktplatz",
		StreetNumber: "1",
		Zip:          "80331",
		City:         "München",
		Country:      "DE",
	}
}

func validDraft() *models.Invoice {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	item := models.LineItem{
		Description: "Beratung",
		Quantity:    decimal.NewFromInt(2),
		Unit:        "h",
		UnitPrice:   decimal.NewFromInt(100),
		VatRate:     decimal.NewFromInt(19),
	}
	item.Recalculate()
	return &models.Invoice{
		Status:      models.StatusDraft,
		InvoiceDate: &date,
		Items:       []models.LineItem{item},
		Total:       decimal.NewFromInt(238),
	}
}

func fieldsOf(items []Item) []string {
	fields := make([]string, 0, len(items))
	for _, it := range items {
		fields = append(fields, it.Field)
	}
	return fields
}

func TestValidate_CompleteInvoicePasses(t *testing.T) {
	v := NewValidator()
	res := v.Validate(validDraft(), completeSeller(), completeBuyer(), "INV")
	assert.True(t, res.Valid, "unexpected errors: %v", res.Errors)
	assert.Empty(t, res.Errors)
}

func TestValidate_IssuerTaxIdentifier(t *testing.T) {
	v := NewValidator()

	// Neither tax id nor VAT id: hard error.
	seller := completeSeller()
	seller.VatID = ""
	seller.TaxID = ""
	res := v.Validate(validDraft(), seller, completeBuyer(), "INV")
	assert.False(t, res.Valid)
	assert.Contains(t, fieldsOf(res.Errors), "issuer.tax")

	// Either one alone satisfies the statutory rule.
	seller.TaxID = "12/345/67890"
	res = v.Validate(validDraft(), seller, completeBuyer(), "INV")
	assert.NotContains(t, fieldsOf(res.Errors), "issuer.tax")

	seller.TaxID = ""
	seller.VatID = "DE123456789"
	res = v.Validate(validDraft(), seller, completeBuyer(), "INV")
	assert.NotContains(t, fieldsOf(res.Errors), "issuer.tax")
}

func TestValidate_IssuerContactRule(t *testing.T) {
	v := NewValidator()
	seller := completeSeller()
	seller.ContactName = ""
	seller.ContactEmail = ""
	seller.ContactPhone = ""
	res := v.Validate(validDraft(), seller, completeBuyer(), "INV")
	assert.Contains(t, fieldsOf(res.Errors), "issuer.contact")

	seller.ContactPhone = "+49 30 1234567"
	res = v.Validate(validDraft(), seller, completeBuyer(), "INV")
	assert.NotContains(t, fieldsOf(res.Errors), "issuer.contact")
}

func TestValidate_MissingPrefixIsFrontLoaded(t *testing.T) {
	v := NewValidator()
	res := v.Validate(validDraft(), completeSeller(), completeBuyer(), "")
	assert.False(t, res.Valid)
	assert.Contains(t, fieldsOf(res.Errors), "issuer.invoice_prefix")
}

func TestValidate_LineItems(t *testing.T) {
	v := NewValidator()

	inv := validDraft()
	inv.Items = nil
	res := v.Validate(inv, completeSeller(), completeBuyer(), "INV")
	assert.Contains(t, fieldsOf(res.Errors), "items")

	inv = validDraft()
	inv.Items[0].Description = "  "
	inv.Items[0].Quantity = decimal.Zero
	inv.Items[0].Unit = ""
	inv.Items[0].UnitPrice = decimal.NewFromInt(-1)
	inv.Items[0].VatRate = decimal.NewFromInt(120)
	res = v.Validate(inv, completeSeller(), completeBuyer(), "INV")
	fields := fieldsOf(res.Errors)
	assert.Contains(t, fields, "items[0].description")
	assert.Contains(t, fields, "items[0].quantity")
	assert.Contains(t, fields, "items[0].unit")
	assert.Contains(t, fields, "items[0].unit_price")
	assert.Contains(t, fields, "items[0].vat_rate")
}

func TestValidate_MissingInvoiceDate(t *testing.T) {
	v := NewValidator()
	inv := validDraft()
	inv.InvoiceDate = nil
	res := v.Validate(inv, completeSeller(), completeBuyer(), "INV")
	assert.Contains(t, fieldsOf(res.Errors), "invoice_date")
}

func TestValidate_DueDateBeforeInvoiceDateIsWarning(t *testing.T) {
	v := NewValidator()
	inv := validDraft()
	due := inv.InvoiceDate.AddDate(0, 0, -10)
	inv.DueDate = &due
	res := v.Validate(inv, completeSeller(), completeBuyer(), "INV")
	assert.True(t, res.Valid)
	assert.Contains(t, fieldsOf(res.Warnings), "due_date")
}
