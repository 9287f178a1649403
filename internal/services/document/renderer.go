package document

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"invoicing-backend/internal/models"

	"github.com/go-pdf/fpdf"
)

// Fixed A4 layout in millimeters.
const (
	pageLeft     = 20.0
	pageRight    = 190.0
	pageTop      = 15.0
	tableBreakY  = 250.0
	footerTopY   = 270.0
	logoBoxW     = 40.0
	logoBoxH     = 20.0
	lineHeight   = 6.0
	smallLine    = 4.0
)

// Column x-positions and widths of the item table.
var columns = struct {
	pos, desc, qty, unit, price, total     float64
	posW, descW, qtyW, unitW, priceW, totalW float64
}{
	pos: 20, posW: 10,
	desc: 30, descW: 73,
	qty: 103, qtyW: 17,
	unit: 120, unitW: 15,
	price: 135, priceW: 27,
	total: 162, totalW: 28,
}

// RenderOptions carry what the invoice record itself does not.
type RenderOptions struct {
	IsCancellation bool
	OriginalNumber string
	Logo           []byte
}

// Renderer draws the fixed-layout visual document. Same invoice state
// always yields the same page layout; the creation timestamp is taken
// from the invoice so rendering stays reproducible.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(inv *models.Invoice, opts RenderOptions) ([]byte, error) {
	loc := NewLocale(inv.Language)
	seller := inv.SellerSnapshot.Data()
	buyer := inv.BuyerSnapshot.Data()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pageLeft, pageTop, 210-pageRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	pdf.SetTitle(tr(documentTitle(loc, opts)+" "+inv.FormattedNumber()), false)
	pdf.SetAuthor(tr(seller.Name), false)
	pdf.SetCreator("invoicing-backend", false)
	pdf.SetSubject(tr(inv.FormattedNumber()), false)
	if inv.FinalizedAt != nil {
		pdf.SetCreationDate(inv.FinalizedAt.UTC())
	} else {
		pdf.SetCreationDate(time.Unix(0, 0).UTC())
	}

	pdf.SetFooterFunc(func() {
		r.drawFooter(pdf, tr, loc, seller)
	})

	pdf.AddPage()
	r.drawHeader(pdf, tr, loc, inv, seller, buyer, opts)

	y := r.drawTitle(pdf, tr, loc, inv, opts)
	y = r.drawNarrative(pdf, tr, inv.HeaderText, y)
	y = r.drawTableHeader(pdf, tr, loc, y)

	for i, item := range inv.Items {
		if y > tableBreakY {
			pdf.AddPage()
			y = r.drawTableHeader(pdf, tr, loc, pageTop+15)
		}
		r.drawItemRow(pdf, tr, loc, item, i+1, y)
		y += lineHeight
	}
	pdf.Line(columns.total, y, columns.total+columns.totalW, y)
	y += 2

	// The totals block never collides with the footer band; it spills
	// to a fresh page as a whole.
	if y+totalsHeight(inv.Items) > footerTopY {
		pdf.AddPage()
		y = pageTop + 15
	}
	y = r.drawTotals(pdf, tr, loc, inv, y)
	r.drawNarrative(pdf, tr, inv.FooterText, y+6)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func documentTitle(loc Locale, opts RenderOptions) string {
	if opts.IsCancellation {
		return loc.T("cancellation")
	}
	return loc.T("invoice")
}

func (r *Renderer) drawHeader(pdf *fpdf.Fpdf, tr func(string) string, loc Locale, inv *models.Invoice, seller, buyer models.PartySnapshot, opts RenderOptions) {
	if len(opts.Logo) > 0 {
		r.drawLogo(pdf, opts.Logo)
	}

	// One-line sender above the recipient window.
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	sender := fmt.Sprintf("%s · %s · %s %s", seller.Name, seller.AddressLine(), seller.Zip, seller.City)
	pdf.Text(pageLeft, 45, tr(sanitizeLine(sender)))
	pdf.SetTextColor(0, 0, 0)

	// Recipient address window.
	pdf.SetFont("Helvetica", "", 10)
	y := 52.0
	for _, line := range []string{buyer.Name, buyer.AddressLine(), buyer.Zip + " " + buyer.City, buyer.Country} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.Text(pageLeft, y, tr(sanitizeLine(line)))
		y += 5
	}

	// Meta block on the right.
	pdf.SetFont("Helvetica", "", 9)
	metaY := 52.0
	meta := [][2]string{
		{loc.T("invoice_no"), inv.FormattedNumber()},
	}
	if inv.InvoiceDate != nil {
		meta = append(meta, [2]string{loc.T("date"), loc.Date(*inv.InvoiceDate)})
	}
	if inv.DueDate != nil {
		meta = append(meta, [2]string{loc.T("due_date"), loc.Date(*inv.DueDate)})
	}
	for _, kv := range meta {
		pdf.SetXY(120, metaY)
		pdf.CellFormat(35, 5, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 5, tr(kv[1]), "", 0, "R", false, 0, "")
		metaY += 5
	}
}

// drawLogo scales the seller logo into a bounded box while preserving
// its aspect ratio.
func (r *Renderer) drawLogo(pdf *fpdf.Fpdf, logo []byte) {
	imageType := ""
	switch http.DetectContentType(logo) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	default:
		return
	}
	info := pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(logo))
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return
	}
	scale := logoBoxW / info.Width()
	if h := logoBoxH / info.Height(); h < scale {
		scale = h
	}
	w := info.Width() * scale
	h := info.Height() * scale
	pdf.ImageOptions("logo", pageRight-w, pageTop, w, h, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
}

func (r *Renderer) drawTitle(pdf *fpdf.Fpdf, tr func(string) string, loc Locale, inv *models.Invoice, opts RenderOptions) float64 {
	y := 92.0
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(pageLeft, y, tr(documentTitle(loc, opts)+" "+inv.FormattedNumber()))
	y += 6
	if opts.IsCancellation && opts.OriginalNumber != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(pageLeft, y, tr(fmt.Sprintf(loc.T("cancels"), opts.OriginalNumber)))
		y += 6
	}
	return y + 2
}

func (r *Renderer) drawNarrative(pdf *fpdf.Fpdf, tr func(string) string, text string, y float64) float64 {
	if strings.TrimSpace(text) == "" {
		return y
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(pageLeft, y)
	pdf.MultiCell(pageRight-pageLeft, 4.5, tr(text), "", "L", false)
	return pdf.GetY() + 4
}

func (r *Renderer) drawTableHeader(pdf *fpdf.Fpdf, tr func(string) string, loc Locale, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetXY(columns.pos, y)
	pdf.CellFormat(columns.posW, lineHeight, tr(loc.T("pos")), "", 0, "L", true, 0, "")
	pdf.CellFormat(columns.descW, lineHeight, tr(loc.T("description")), "", 0, "L", true, 0, "")
	pdf.CellFormat(columns.qtyW, lineHeight, tr(loc.T("quantity")), "", 0, "R", true, 0, "")
	pdf.CellFormat(columns.unitW, lineHeight, tr(loc.T("unit")), "", 0, "L", true, 0, "")
	pdf.CellFormat(columns.priceW, lineHeight, tr(loc.T("unit_price")), "", 0, "R", true, 0, "")
	pdf.CellFormat(columns.totalW, lineHeight, tr(loc.T("total")), "", 0, "R", true, 0, "")
	pdf.Line(columns.pos, y+lineHeight, pageRight, y+lineHeight)
	return y + lineHeight + 1
}

func (r *Renderer) drawItemRow(pdf *fpdf.Fpdf, tr func(string) string, loc Locale, item models.LineItem, pos int, y float64) {
	pdf.SetFont("Helvetica", "", 9)
	desc := truncate(pdf, tr(sanitizeLine(item.Description)), columns.descW-2)
	pdf.SetXY(columns.pos, y)
	pdf.CellFormat(columns.posW, lineHeight, fmt.Sprintf("%d", pos), "", 0, "L", false, 0, "")
	pdf.CellFormat(columns.descW, lineHeight, desc, "", 0, "L", false, 0, "")
	pdf.CellFormat(columns.qtyW, lineHeight, tr(loc.Quantity(item.Quantity)), "", 0, "R", false, 0, "")
	pdf.CellFormat(columns.unitW, lineHeight, tr(sanitizeLine(item.Unit)), "", 0, "L", false, 0, "")
	pdf.CellFormat(columns.priceW, lineHeight, tr(loc.Money(item.UnitPrice)), "", 0, "R", false, 0, "")
	pdf.CellFormat(columns.totalW, lineHeight, tr(loc.Money(item.Total)), "", 0, "R", false, 0, "")
}

// totalsHeight is the vertical space the totals block will occupy:
// subtotal, one line per VAT rate, separator, grand total.
func totalsHeight(items []models.LineItem) float64 {
	return float64(len(VatBreakdown(items))+2)*lineHeight + 2
}

func (r *Renderer) drawTotals(pdf *fpdf.Fpdf, tr func(string) string, loc Locale, inv *models.Invoice, y float64) float64 {
	right := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.SetXY(90, y)
		pdf.CellFormat(72, lineHeight, tr(label), "", 0, "R", false, 0, "")
		pdf.CellFormat(columns.totalW, lineHeight, tr(value), "", 0, "R", false, 0, "")
		y += lineHeight
	}

	right(loc.T("subtotal"), loc.Money(inv.Subtotal), false)
	for _, g := range VatBreakdown(inv.Items) {
		label := fmt.Sprintf(loc.T("vat_on"), loc.Percent(g.Rate), loc.Money(g.Base))
		right(label, loc.Money(g.Amount), false)
	}
	pdf.Line(columns.total, y+1, columns.total+columns.totalW, y+1)
	y += 2
	right(loc.T("grand_total"), loc.Money(inv.Total), true)
	return y
}

func (r *Renderer) drawFooter(pdf *fpdf.Fpdf, tr func(string) string, loc Locale, seller models.PartySnapshot) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	y := 275.0

	left := []string{
		seller.Name,
		seller.AddressLine(),
		seller.Zip + " " + seller.City,
	}
	mid := []string{loc.T("bank")}
	if seller.BankName != "" {
		mid = append(mid, seller.BankName)
	}
	if seller.IBAN != "" {
		mid = append(mid, "IBAN "+seller.IBAN)
	}
	if seller.BIC != "" {
		mid = append(mid, "BIC "+seller.BIC)
	}
	var legal []string
	if seller.TaxID != "" {
		legal = append(legal, loc.T("tax_id")+" "+seller.TaxID)
	}
	if seller.VatID != "" {
		legal = append(legal, loc.T("vat_id")+" "+seller.VatID)
	}
	if seller.RegisterCourt != "" {
		legal = append(legal, loc.T("register")+" "+seller.RegisterCourt+" "+seller.RegisterNumber)
	}

	for i, col := range [][]string{left, mid, legal} {
		x := pageLeft + float64(i)*60
		yy := y
		for _, line := range col {
			if strings.TrimSpace(line) == "" {
				continue
			}
			pdf.Text(x, yy, tr(sanitizeLine(line)))
			yy += smallLine
		}
	}

	pdf.Text(pageRight-20, y, tr(fmt.Sprintf(loc.T("page"), pdf.PageNo())))
	pdf.SetTextColor(0, 0, 0)
}

// sanitizeLine collapses embedded line breaks so every field renders
// as a single logical line.
func sanitizeLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

// truncate shortens a string with an ellipsis so it never overflows
// its column.
func truncate(pdf *fpdf.Fpdf, s string, maxWidth float64) string {
	if pdf.GetStringWidth(s) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if pdf.GetStringWidth(string(runes)+ellipsis) <= maxWidth {
			return string(runes) + ellipsis
		}
	}
	return ellipsis
}
