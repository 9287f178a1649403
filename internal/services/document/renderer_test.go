package document

import (
	"bytes"
	"strings"
	"testing"

	"invoicing-backend/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(finalizedInvoice(), RenderOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 500)
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer()
	inv := finalizedInvoice()

	first, err := r.Render(inv, RenderOptions{})
	require.NoError(t, err)
	second, err := r.Render(inv, RenderOptions{})
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestRender_MultiPage(t *testing.T) {
	inv := finalizedInvoice()
	var items []models.LineItem
	for i := 0; i < 80; i++ {
		li := models.LineItem{
			Description: "Position mit längerem Beschreibungstext",
			Quantity:    decimal.NewFromInt(1),
			Unit:        "Stk",
			UnitPrice:   decimal.NewFromInt(10),
			VatRate:     decimal.NewFromInt(19),
			Position:    i,
		}
		li.Recalculate()
		items = append(items, li)
	}
	inv.Items = items

	r := NewRenderer()
	out, err := r.Render(inv, RenderOptions{})
	require.NoError(t, err)
	// Two pages leave two /Page objects in the file.
	assert.GreaterOrEqual(t, bytes.Count(out, []byte("/Type /Page")), 2)
}

// An item table that ends just above the break must push the totals
// block onto a fresh page instead of into the footer band.
func TestRender_TotalsNeverOverlapFooter(t *testing.T) {
	build := func(n int) *models.Invoice {
		inv := finalizedInvoice()
		var items []models.LineItem
		for i := 0; i < n; i++ {
			li := models.LineItem{
				Description: "Position",
				Quantity:    decimal.NewFromInt(1),
				Unit:        "Stk",
				UnitPrice:   decimal.NewFromInt(10),
				VatRate:     decimal.NewFromInt(19),
				Position:    i,
			}
			li.Recalculate()
			items = append(items, li)
		}
		inv.Items = items
		return inv
	}

	r := NewRenderer()
	short, err := r.Render(build(22), RenderOptions{})
	require.NoError(t, err)
	tight, err := r.Render(build(24), RenderOptions{})
	require.NoError(t, err)

	// 22 rows leave room for the totals; 24 rows end so close to the
	// break that the totals need a page of their own.
	assert.Equal(t, 1, pageCount(short))
	assert.Equal(t, 2, pageCount(tight))
}

func pageCount(pdf []byte) int {
	// Each page contributes one /Type /Page object; the page-tree node
	// matches as /Type /Pages and is subtracted again.
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

func TestRender_Cancellation(t *testing.T) {
	inv := finalizedInvoice()
	number := "ST-0001"
	inv.Kind = models.KindCancellation
	inv.Number = &number

	r := NewRenderer()
	out, err := r.Render(inv, RenderOptions{IsCancellation: true, OriginalNumber: "INV-0001"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestSanitizeLine(t *testing.T) {
	assert.Equal(t, "a b c", sanitizeLine("a\r\nb\nc"))
	assert.Equal(t, "x", sanitizeLine("  x  "))
}

func TestTruncate(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	long := strings.Repeat("Beschreibung ", 20)
	got := truncate(pdf, long, 70)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, pdf.GetStringWidth(got), 70.0)

	assert.Equal(t, "kurz", truncate(pdf, "kurz", 70))
}
