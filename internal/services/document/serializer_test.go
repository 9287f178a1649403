package document

import (
	"bytes"
	"testing"
	"time"

	"invoicing-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func finalizedInvoice() *models.Invoice {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := date.AddDate(0, 0, 14)
	number := "INV-0001"

	li := models.LineItem{
		Description: "Beratung",
		Quantity:    decimal.NewFromInt(2),
		Unit:        "h",
		UnitPrice:   decimal.NewFromInt(100),
		VatRate:     decimal.NewFromInt(19),
	}
	li.Recalculate()

	return &models.Invoice{
		ID:          uuid.New(),
		Kind:        models.KindInvoice,
		Status:      models.StatusCreated,
		Number:      &number,
		InvoiceDate: &date,
		DueDate:     &due,
		Language:    "de",
		SellerSnapshot: datatypes.NewJSONType(models.PartySnapshot{
			Name: "Musterfirma GmbH", Street: "Hauptstraße", StreetNumber: "12",
			Zip: "10115", City: "Berlin", Country: "DE",
			VatID: "DE123456789", IBAN: "DE02120300000000202051", BIC: "BYLADEM1001",
			ContactEmail: "billing@musterfirma.de",
		}),
		BuyerSnapshot: datatypes.NewJSONType(models.PartySnapshot{
			Name: "Kunde AG", Street: "Marktplatz", StreetNumber: "1",
			Zip: "80331", City: "München", Country: "DE",
		}),
		Items:       []models.LineItem{li},
		Subtotal:    decimal.NewFromInt(200),
		VatAmount:   decimal.NewFromInt(38),
		Total:       decimal.NewFromInt(238),
		FinalizedAt: &date,
	}
}

func TestSerialize_Invoice(t *testing.T) {
	s := NewSerializer()
	out, err := s.Serialize(finalizedInvoice(), SerializeOptions{})
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, "<ram:ID>INV-0001</ram:ID>")
	assert.Contains(t, xml, "<ram:TypeCode>380</ram:TypeCode>")
	assert.Contains(t, xml, `<udt:DateTimeString format="102">20260301</udt:DateTimeString>`)
	assert.Contains(t, xml, "<ram:Name>Musterfirma GmbH</ram:Name>")
	assert.Contains(t, xml, `<ram:BilledQuantity unitCode="HUR">2</ram:BilledQuantity>`)
	assert.Contains(t, xml, "<ram:LineTotalAmount>200.00</ram:LineTotalAmount>")
	assert.Contains(t, xml, `<ram:TaxTotalAmount currencyID="EUR">38.00</ram:TaxTotalAmount>`)
	assert.Contains(t, xml, "<ram:GrandTotalAmount>238.00</ram:GrandTotalAmount>")
	assert.Contains(t, xml, "<ram:IBANID>DE02120300000000202051</ram:IBANID>")
	assert.Contains(t, xml, `<ram:ID schemeID="VA">DE123456789</ram:ID>`)
	assert.NotContains(t, xml, "InvoiceReferencedDocument")
}

func TestSerialize_Cancellation(t *testing.T) {
	inv := finalizedInvoice()
	number := "ST-0001"
	inv.Kind = models.KindCancellation
	inv.Number = &number
	for i := range inv.Items {
		inv.Items[i].Negate()
	}
	inv.Subtotal = inv.Subtotal.Neg()
	inv.VatAmount = inv.VatAmount.Neg()
	inv.Total = inv.Total.Neg()

	s := NewSerializer()
	out, err := s.Serialize(inv, SerializeOptions{IsCancellation: true, OriginalNumber: "INV-0001"})
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, "<ram:ID>ST-0001</ram:ID>")
	assert.Contains(t, xml, "<ram:TypeCode>381</ram:TypeCode>")
	assert.Contains(t, xml, "<ram:IssuerAssignedID>INV-0001</ram:IssuerAssignedID>")
	assert.Contains(t, xml, `<ram:BilledQuantity unitCode="HUR">-2</ram:BilledQuantity>`)
	assert.Contains(t, xml, "<ram:GrandTotalAmount>-238.00</ram:GrandTotalAmount>")
}

// Fractional quantities must survive serialization at their stored
// precision, identical to what the rendered document shows.
func TestSerialize_FractionalQuantity(t *testing.T) {
	inv := finalizedInvoice()
	li := models.LineItem{
		Description: "Wartung",
		Quantity:    decimal.RequireFromString("1.125"),
		Unit:        "h",
		UnitPrice:   decimal.NewFromInt(80),
		VatRate:     decimal.NewFromInt(19),
	}
	li.Recalculate()
	inv.Items = []models.LineItem{li}

	s := NewSerializer()
	out, err := s.Serialize(inv, SerializeOptions{})
	require.NoError(t, err)

	xml := string(out)
	assert.Contains(t, xml, `<ram:BilledQuantity unitCode="HUR">1.125</ram:BilledQuantity>`)
	assert.NotContains(t, xml, ">1.13<")
	// 1.125 x 80 rounds to 90.00; the line total must state exactly that.
	assert.Contains(t, xml, "<ram:LineTotalAmount>90.00</ram:LineTotalAmount>")
}

// Same invoice state must always yield byte-identical XML.
func TestSerialize_Deterministic(t *testing.T) {
	inv := finalizedInvoice()
	s := NewSerializer()

	first, err := s.Serialize(inv, SerializeOptions{})
	require.NoError(t, err)
	second, err := s.Serialize(inv, SerializeOptions{})
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestUnitCode(t *testing.T) {
	assert.Equal(t, "HUR", unitCode("h"))
	assert.Equal(t, "H87", unitCode("Stk"))
	assert.Equal(t, "C62", unitCode("whatever"))
}

func TestTaxCategory(t *testing.T) {
	assert.Equal(t, "S", taxCategory(decimal.NewFromInt(19)))
	assert.Equal(t, "Z", taxCategory(decimal.Zero))
}
