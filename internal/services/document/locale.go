package document

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale bundles label translation plus date and currency formatting
// for one invoice language. German is the default.
type Locale struct {
	lang    string
	printer *message.Printer
}

func NewLocale(lang string) Locale {
	switch lang {
	case "en":
		return Locale{lang: "en", printer: message.NewPrinter(language.English)}
	default:
		return Locale{lang: "de", printer: message.NewPrinter(language.German)}
	}
}

func (l Locale) Lang() string { return l.lang }

// Money formats a monetary value with the locale's grouping and
// decimal conventions and two decimals, e.g. "1.234,56 €" / "€1,234.56".
// Digits come from the exact fixed-point string; only the integer part
// goes through the locale printer for grouping, so amounts never take
// a lossy float round trip.
func (l Locale) Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart := s[:len(s)-3], s[len(s)-2:]

	grouped := intPart
	if units, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = l.printer.Sprint(number.Decimal(units))
	}

	sep := ","
	if l.lang == "en" {
		sep = "."
	}
	out := grouped + sep + fracPart
	if neg {
		out = "-" + out
	}
	if l.lang == "en" {
		return "€" + out
	}
	return out + " €"
}

// Quantity formats a quantity without padding trailing zeros.
func (l Locale) Quantity(d decimal.Decimal) string {
	s := d.String()
	if l.lang == "de" {
		s = strings.ReplaceAll(s, ".", ",")
	}
	return s
}

// Percent renders a VAT rate like "19 %" / "19%".
func (l Locale) Percent(d decimal.Decimal) string {
	if l.lang == "en" {
		return l.Quantity(d) + "%"
	}
	return l.Quantity(d) + " %"
}

func (l Locale) Date(t time.Time) string {
	if l.lang == "en" {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("02.01.2006")
}

var labels = map[string]map[string]string{
	"de": {
		"invoice":           "Rechnung",
		"cancellation":      "Stornorechnung",
		"cancels":           "Storno zu Rechnung %s",
		"invoice_no":        "Rechnungsnummer",
		"date":              "Rechnungsdatum",
		"due_date":          "Fällig am",
		"pos":               "Pos.",
		"description":       "Beschreibung",
		"quantity":          "Menge",
		"unit":              "Einheit",
		"unit_price":        "Einzelpreis",
		"total":             "Gesamt",
		"subtotal":          "Zwischensumme (netto)",
		"vat_on":            "zzgl. USt. %s auf %s",
		"grand_total":       "Gesamtbetrag",
		"bank":              "Bankverbindung",
		"tax_id":            "Steuernummer",
		"vat_id":            "USt-IdNr.",
		"register":          "Registergericht",
		"page":              "Seite %d/{nb}",
	},
	"en": {
		"invoice":           "Invoice",
		"cancellation":      "Cancellation invoice",
		"cancels":           "Cancels invoice %s",
		"invoice_no":        "Invoice no.",
		"date":              "Invoice date",
		"due_date":          "Due date",
		"pos":               "Pos.",
		"description":       "Description",
		"quantity":          "Qty",
		"unit":              "Unit",
		"unit_price":        "Unit price",
		"total":             "Total",
		"subtotal":          "Subtotal (net)",
		"vat_on":            "plus VAT %s on %s",
		"grand_total":       "Total amount",
		"bank":              "Bank details",
		"tax_id":            "Tax no.",
		"vat_id":            "VAT ID",
		"register":          "Commercial register",
		"page":              "Page %d/{nb}",
	},
}

// T returns the label for a key in this locale.
func (l Locale) T(key string) string {
	if s, ok := labels[l.lang][key]; ok {
		return s
	}
	return key
}
