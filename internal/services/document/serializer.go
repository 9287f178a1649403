package document

import (
	"encoding/xml"
	"fmt"

	"invoicing-backend/internal/models"

	"github.com/shopspring/decimal"
)

// EN 16931 CII document type codes.
const (
	typeCodeInvoice      = "380"
	typeCodeCancellation = "381"
)

// SerializeOptions mirror RenderOptions for the structured twin.
type SerializeOptions struct {
	IsCancellation bool
	OriginalNumber string
}

// Serializer emits the EN 16931 (CII / Factur-X profile) XML twin of
// an invoice. It is pure and deterministic: the same invoice state
// always yields byte-identical XML, which keeps hybrid embedding
// reproducible and hash-based archival possible.
type Serializer struct{}

func NewSerializer() *Serializer {
	return &Serializer{}
}

func (s *Serializer) Serialize(inv *models.Invoice, opts SerializeOptions) ([]byte, error) {
	seller := inv.SellerSnapshot.Data()
	buyer := inv.BuyerSnapshot.Data()

	typeCode := typeCodeInvoice
	if opts.IsCancellation {
		typeCode = typeCodeCancellation
	}

	doc := ciiInvoice{
		Rsm: "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100",
		Ram: "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100",
		Udt: "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100",
		Context: ciiContext{
			Guideline: ciiID{ID: "urn:cen.eu:en16931:2017"},
		},
		Document: ciiDocument{
			ID:       inv.FormattedNumber(),
			TypeCode: typeCode,
		},
	}
	if inv.InvoiceDate != nil {
		doc.Document.IssueDateTime = &ciiDateTime{DateTimeString: ciiDateString{Format: "102", Value: inv.InvoiceDate.Format("20060102")}}
	}
	if inv.HeaderText != "" {
		doc.Document.IncludedNote = append(doc.Document.IncludedNote, ciiNote{Content: inv.HeaderText})
	}
	if inv.FooterText != "" {
		doc.Document.IncludedNote = append(doc.Document.IncludedNote, ciiNote{Content: inv.FooterText})
	}

	tx := &doc.Transaction
	for i, item := range inv.Items {
		tx.LineItems = append(tx.LineItems, ciiLineItem{
			LineDocument: ciiLineDocument{LineID: fmt.Sprintf("%d", i+1)},
			Product:      ciiProduct{Name: item.Description},
			Agreement: ciiLineAgreement{
				NetPrice: ciiPrice{ChargeAmount: amount(item.UnitPrice)},
			},
			Delivery: ciiLineDelivery{
				// Quantities keep their stored precision so the XML
				// matches the rendered document and the line math
				// (quantity x net price = line total) stays exact.
				BilledQuantity: ciiQuantity{UnitCode: unitCode(item.Unit), Value: item.Quantity.String()},
			},
			Settlement: ciiLineSettlement{
				TradeTax: ciiTradeTax{
					TypeCode:     "VAT",
					CategoryCode: taxCategory(item.VatRate),
					RatePercent:  item.VatRate.StringFixed(2),
				},
				Summation: ciiLineSummation{LineTotalAmount: amount(item.Total)},
			},
		})
	}

	tx.Agreement = ciiHeaderAgreement{
		Seller: tradeParty(seller),
		Buyer:  tradeParty(buyer),
	}

	settlement := &tx.Settlement
	settlement.CurrencyCode = "EUR"
	if seller.IBAN != "" {
		settlement.PaymentMeans = &ciiPaymentMeans{
			TypeCode: "58",
			PayeeAccount: &ciiCreditorAccount{
				IBAN:        seller.IBAN,
				AccountName: seller.Name,
			},
		}
		if seller.BIC != "" {
			settlement.PaymentMeans.PayeeInstitution = &ciiCreditorInstitution{BIC: seller.BIC}
		}
	}
	for _, g := range VatBreakdown(inv.Items) {
		settlement.TradeTaxes = append(settlement.TradeTaxes, ciiTradeTax{
			CalculatedAmount: amountPtr(g.Amount),
			TypeCode:         "VAT",
			BasisAmount:      amountPtr(g.Base),
			CategoryCode:     taxCategory(g.Rate),
			RatePercent:      g.Rate.StringFixed(2),
		})
	}
	if inv.DueDate != nil {
		settlement.PaymentTerms = &ciiPaymentTerms{
			DueDate: &ciiDateTime{DateTimeString: ciiDateString{Format: "102", Value: inv.DueDate.Format("20060102")}},
		}
	}
	if opts.IsCancellation && opts.OriginalNumber != "" {
		// The cancellation references the invoice it negates.
		settlement.ReferencedDocument = &ciiReferencedDocument{IssuerAssignedID: opts.OriginalNumber}
	}
	settlement.Summation = ciiHeaderSummation{
		LineTotalAmount:     amount(inv.Subtotal),
		TaxBasisTotalAmount: amount(inv.Subtotal),
		TaxTotalAmount:      ciiCurrencyAmount{CurrencyID: "EUR", Value: inv.VatAmount.StringFixed(2)},
		GrandTotalAmount:    amount(inv.Total),
		DuePayableAmount:    amount(inv.Total),
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal invoice xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func amountPtr(d decimal.Decimal) *string {
	s := d.StringFixed(2)
	return &s
}

// taxCategory maps a rate to the EN 16931 VAT category: S for standard
// rated lines, Z for zero rate.
func taxCategory(rate decimal.Decimal) string {
	if rate.IsZero() {
		return "Z"
	}
	return "S"
}

// unitCode maps human units to UN/ECE Recommendation 20 codes.
func unitCode(unit string) string {
	switch unit {
	case "h", "Std", "Std.", "hour", "hours":
		return "HUR"
	case "Tag", "Tage", "day", "days":
		return "DAY"
	case "kg":
		return "KGM"
	case "Stk", "Stk.", "pcs", "piece", "pieces":
		return "H87"
	case "Pauschale", "flat", "lump":
		return "LS"
	default:
		return "C62"
	}
}

func tradeParty(p models.PartySnapshot) ciiTradeParty {
	party := ciiTradeParty{
		Name: p.Name,
		Address: &ciiAddress{
			PostcodeCode: p.Zip,
			LineOne:      p.AddressLine(),
			CityName:     p.City,
			CountryID:    p.Country,
		},
	}
	if p.HasContact() {
		party.Contact = &ciiTradeContact{PersonName: p.ContactName}
		if p.ContactPhone != "" {
			party.Contact.Telephone = &ciiUniversalComm{CompleteNumber: p.ContactPhone}
		}
		if p.ContactEmail != "" {
			party.Contact.Email = &ciiEmailComm{URIID: p.ContactEmail}
		}
	}
	// FC = local tax number, VA = VAT id. Either satisfies the statute.
	if p.TaxID != "" {
		party.TaxRegistrations = append(party.TaxRegistrations, ciiTaxRegistration{ID: ciiSchemeID{SchemeID: "FC", Value: p.TaxID}})
	}
	if p.VatID != "" {
		party.TaxRegistrations = append(party.TaxRegistrations, ciiTaxRegistration{ID: ciiSchemeID{SchemeID: "VA", Value: p.VatID}})
	}
	return party
}
