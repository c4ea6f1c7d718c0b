package invoice

import (
	"bytes"
	"fmt"

	"extranet/internal/domain"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const Filename = "facture_prix.pdf"

// Layout fixes the page geometry in points (A4 portrait). With these values
// a full page holds about 40 item rows.
type Layout struct {
	MarginX      float64 // left and right margin
	TopY         float64 // baseline of the first line on each page
	BottomMargin float64 // start a new page when the cursor passes height-BottomMargin
	RowH         float64
	MaxLabelLen  int // display truncation only, stored labels are untouched
}

func DefaultLayout() Layout {
	return Layout{MarginX: 50, TopY: 60, BottomMargin: 80, RowH: 16, MaxLabelLen: 80}
}

// Renderer turns a user's price list into a paginated PDF invoice. It holds
// no mutable state and is safe for concurrent use.
type Renderer struct {
	L        Layout
	Compress bool // stream compression; disabled only to inspect output
}

func NewRenderer() *Renderer { return &Renderer{L: DefaultLayout(), Compress: true} }

// Render draws the invoice for the given user and items, in caller order,
// and returns the serialized document. The printed TOTAL is the exact
// decimal sum of the printed row prices.
func (r *Renderer) Render(user *domain.User, items []domain.PriceItem) ([]byte, error) {
	pdf, _ := r.build(user, items)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(user *domain.User, items []domain.PriceItem) (*fpdf.Fpdf, decimal.Decimal) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	width, height := pdf.GetPageSize()
	// core fonts are cp1252; translate UTF-8 labels and names
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := r.L.TopY
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(r.L.MarginX, y, "Facture - Liste des prix")
	y += 22

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(r.L.MarginX, y, tr(fmt.Sprintf("Client: %s (%s)", user.Name, user.Email)))
	y += 14
	pdf.Text(r.L.MarginX, y, "Groupe: "+user.GroupID)
	y += 22

	y = r.tableHeader(pdf, tr, width, y)

	total := decimal.Zero
	pdf.SetFont("Helvetica", "", 11)

	for _, it := range items {
		// new page before the row would cross the bottom margin
		if y > height-r.L.BottomMargin {
			pdf.AddPage()
			y = r.tableHeader(pdf, tr, width, r.L.TopY)
			pdf.SetFont("Helvetica", "", 11)
		}

		label := []rune(it.Label)
		if len(label) > r.L.MaxLabelLen {
			label = label[:r.L.MaxLabelLen]
		}
		total = total.Add(it.Price)

		pdf.Text(r.L.MarginX, y, tr(string(label)))
		r.textRight(pdf, width, y, it.Price.StringFixed(2))
		y += r.L.RowH
	}

	y += 8
	pdf.Line(r.L.MarginX, y, width-r.L.MarginX, y)
	y += 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(r.L.MarginX, y, "TOTAL")
	r.textRight(pdf, width, y, total.StringFixed(2)+" EUR")

	return pdf, total
}

// tableHeader draws the column captions and rule, so every page's rows are
// self-describing. Returns the cursor position for the first row.
func (r *Renderer) tableHeader(pdf *fpdf.Fpdf, tr func(string) string, width, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(r.L.MarginX, y, tr("Libellé"))
	r.textRight(pdf, width, y, "Prix (EUR)")
	y += 12
	pdf.Line(r.L.MarginX, y, width-r.L.MarginX, y)
	return y + 18
}

func (r *Renderer) textRight(pdf *fpdf.Fpdf, width, y float64, s string) {
	pdf.Text(width-r.L.MarginX-pdf.GetStringWidth(s), y, s)
}
