package models

// PartySnapshot is a frozen copy of a legal entity's invoicing data.
// It is embedded by value inside an invoice so that later edits to the
// live company/contact record never alter an issued document.
type PartySnapshot struct {
	Name         string `json:"name"`
	Street       string `json:"street"`
	StreetNumber string `json:"street_number"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	Country      string `json:"country"`

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
}

// HasAddress reports whether the postal address is complete.
func (p PartySnapshot) HasAddress() bool {
	return p.Street != "" && p.StreetNumber != "" && p.Zip != "" && p.City != "" && p.Country != ""
}

// HasTaxIdentifier reports whether at least one of tax id / VAT id is set.
// The statute requires either one, not both.
func (p PartySnapshot) HasTaxIdentifier() bool {
	return p.TaxID != "" || p.VatID != ""
}

// HasContact reports whether at least one seller contact channel is set,
// as required by the e-invoicing seller contact rule.
func (p PartySnapshot) HasContact() bool {
	return p.ContactName != "" || p.ContactEmail != "" || p.ContactPhone != ""
}

// AddressLine renders "Street Number" as a single line.
func (p PartySnapshot) AddressLine() string {
	if p.StreetNumber == "" {
		return p.Street
	}
	return p.Street + " " + p.StreetNumber
}
