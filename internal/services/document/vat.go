package document

import (
	"sort"

	"invoicing-backend/internal/models"

	"github.com/shopspring/decimal"
)

// VatGroup is one VAT subtotal for a distinct rate present in the
// line items.
type VatGroup struct {
	Rate   decimal.Decimal
	Base   decimal.Decimal
	Amount decimal.Decimal
}

// VatBreakdown groups line items by VAT rate and returns one subtotal
// per distinct rate, sorted ascending. Multi-rate invoices show one
// VAT line per rate, never a single blended line.
func VatBreakdown(items []models.LineItem) []VatGroup {
	byRate := make(map[string]*VatGroup)
	for _, item := range items {
		key := item.VatRate.String()
		g, ok := byRate[key]
		if !ok {
			g = &VatGroup{Rate: item.VatRate, Base: decimal.Zero, Amount: decimal.Zero}
			byRate[key] = g
		}
		g.Base = g.Base.Add(item.Total)
		g.Amount = g.Amount.Add(item.VatAmount)
	}

	groups := make([]VatGroup, 0, len(byRate))
	for _, g := range byRate {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Rate.LessThan(groups[j].Rate)
	})
	return groups
}
