package document

import "encoding/xml"

// Struct mapping of the EN 16931 Cross Industry Invoice syntax.
// Field order follows the schema; encoding/xml preserves it, which is
// what makes serialization deterministic.

type ciiInvoice struct {
	XMLName     xml.Name       `xml:"rsm:CrossIndustryInvoice"`
	Rsm         string         `xml:"xmlns:rsm,attr"`
	Ram         string         `xml:"xmlns:ram,attr"`
	Udt         string         `xml:"xmlns:udt,attr"`
	Context     ciiContext     `xml:"rsm:ExchangedDocumentContext"`
	Document    ciiDocument    `xml:"rsm:ExchangedDocument"`
	Transaction ciiTransaction `xml:"rsm:SupplyChainTradeTransaction"`
}

type ciiContext struct {
	Guideline ciiID `xml:"ram:GuidelineSpecifiedDocumentContextParameter"`
}

type ciiID struct {
	ID string `xml:"ram:ID"`
}

type ciiDocument struct {
	ID            string       `xml:"ram:ID"`
	TypeCode      string       `xml:"ram:TypeCode"`
	IssueDateTime *ciiDateTime `xml:"ram:IssueDateTime,omitempty"`
	IncludedNote  []ciiNote    `xml:"ram:IncludedNote,omitempty"`
}

type ciiDateTime struct {
	DateTimeString ciiDateString `xml:"udt:DateTimeString"`
}

type ciiDateString struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type ciiNote struct {
	Content string `xml:"ram:Content"`
}

type ciiTransaction struct {
	LineItems  []ciiLineItem      `xml:"ram:IncludedSupplyChainTradeLineItem"`
	Agreement  ciiHeaderAgreement `xml:"ram:ApplicableHeaderTradeAgreement"`
	Delivery   ciiHeaderDelivery  `xml:"ram:ApplicableHeaderTradeDelivery"`
	Settlement ciiHeaderSettlement `xml:"ram:ApplicableHeaderTradeSettlement"`
}

type ciiLineItem struct {
	LineDocument ciiLineDocument   `xml:"ram:AssociatedDocumentLineDocument"`
	Product      ciiProduct        `xml:"ram:SpecifiedTradeProduct"`
	Agreement    ciiLineAgreement  `xml:"ram:SpecifiedLineTradeAgreement"`
	Delivery     ciiLineDelivery   `xml:"ram:SpecifiedLineTradeDelivery"`
	Settlement   ciiLineSettlement `xml:"ram:SpecifiedLineTradeSettlement"`
}

type ciiLineDocument struct {
	LineID string `xml:"ram:LineID"`
}

type ciiProduct struct {
	Name string `xml:"ram:Name"`
}

type ciiLineAgreement struct {
	NetPrice ciiPrice `xml:"ram:NetPriceProductTradePrice"`
}

type ciiPrice struct {
	ChargeAmount string `xml:"ram:ChargeAmount"`
}

type ciiLineDelivery struct {
	BilledQuantity ciiQuantity `xml:"ram:BilledQuantity"`
}

type ciiQuantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type ciiLineSettlement struct {
	TradeTax  ciiTradeTax      `xml:"ram:ApplicableTradeTax"`
	Summation ciiLineSummation `xml:"ram:SpecifiedTradeSettlementLineMonetarySummation"`
}

type ciiTradeTax struct {
	CalculatedAmount *string `xml:"ram:CalculatedAmount,omitempty"`
	TypeCode         string  `xml:"ram:TypeCode"`
	BasisAmount      *string `xml:"ram:BasisAmount,omitempty"`
	CategoryCode     string  `xml:"ram:CategoryCode"`
	RatePercent      string  `xml:"ram:RateApplicablePercent"`
}

type ciiLineSummation struct {
	LineTotalAmount string `xml:"ram:LineTotalAmount"`
}

type ciiHeaderAgreement struct {
	Seller ciiTradeParty `xml:"ram:SellerTradeParty"`
	Buyer  ciiTradeParty `xml:"ram:BuyerTradeParty"`
}

type ciiTradeParty struct {
	Name             string               `xml:"ram:Name"`
	Contact          *ciiTradeContact     `xml:"ram:DefinedTradeContact,omitempty"`
	Address          *ciiAddress          `xml:"ram:PostalTradeAddress,omitempty"`
	TaxRegistrations []ciiTaxRegistration `xml:"ram:SpecifiedTaxRegistration,omitempty"`
}

type ciiTradeContact struct {
	PersonName string            `xml:"ram:PersonName,omitempty"`
	Telephone  *ciiUniversalComm `xml:"ram:TelephoneUniversalCommunication,omitempty"`
	Email      *ciiEmailComm     `xml:"ram:EmailURIUniversalCommunication,omitempty"`
}

type ciiUniversalComm struct {
	CompleteNumber string `xml:"ram:CompleteNumber"`
}

type ciiEmailComm struct {
	URIID string `xml:"ram:URIID"`
}

type ciiAddress struct {
	PostcodeCode string `xml:"ram:PostcodeCode"`
	LineOne      string `xml:"ram:LineOne"`
	CityName     string `xml:"ram:CityName"`
	CountryID    string `xml:"ram:CountryID"`
}

type ciiTaxRegistration struct {
	ID ciiSchemeID `xml:"ram:ID"`
}

type ciiSchemeID struct {
	SchemeID string `xml:"schemeID,attr"`
	Value    string `xml:",chardata"`
}

type ciiHeaderDelivery struct{}

type ciiHeaderSettlement struct {
	CurrencyCode       string                 `xml:"ram:InvoiceCurrencyCode"`
	PaymentMeans       *ciiPaymentMeans       `xml:"ram:SpecifiedTradeSettlementPaymentMeans,omitempty"`
	TradeTaxes         []ciiTradeTax          `xml:"ram:ApplicableTradeTax"`
	PaymentTerms       *ciiPaymentTerms       `xml:"ram:SpecifiedTradePaymentTerms,omitempty"`
	ReferencedDocument *ciiReferencedDocument `xml:"ram:InvoiceReferencedDocument,omitempty"`
	Summation          ciiHeaderSummation     `xml:"ram:SpecifiedTradeSettlementHeaderMonetarySummation"`
}

type ciiPaymentMeans struct {
	TypeCode         string                 `xml:"ram:TypeCode"`
	PayeeAccount     *ciiCreditorAccount    `xml:"ram:PayeePartyCreditorFinancialAccount,omitempty"`
	PayeeInstitution *ciiCreditorInstitution `xml:"ram:PayeeSpecifiedCreditorFinancialInstitution,omitempty"`
}

type ciiCreditorAccount struct {
	IBAN        string `xml:"ram:IBANID"`
	AccountName string `xml:"ram:AccountName,omitempty"`
}

type ciiCreditorInstitution struct {
	BIC string `xml:"ram:BICID"`
}

type ciiPaymentTerms struct {
	DueDate *ciiDateTime `xml:"ram:DueDateDateTime,omitempty"`
}

type ciiReferencedDocument struct {
	IssuerAssignedID string `xml:"ram:IssuerAssignedID"`
}

type ciiHeaderSummation struct {
	LineTotalAmount     string            `xml:"ram:LineTotalAmount"`
	TaxBasisTotalAmount string            `xml:"ram:TaxBasisTotalAmount"`
	TaxTotalAmount      ciiCurrencyAmount `xml:"ram:TaxTotalAmount"`
	GrandTotalAmount    string            `xml:"ram:GrandTotalAmount"`
	DuePayableAmount    string            `xml:"ram:DuePayableAmount"`
}

type ciiCurrencyAmount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}
