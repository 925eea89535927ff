package reporting

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nuqta-dev/tenadmin/internal/subscription"
)

// Color scheme - professional dark blue theme
var (
	colorPrimary     = [3]int{30, 58, 95}    // Dark navy
	colorAccent      = [3]int{46, 204, 113}  // Green
	colorWarning     = [3]int{241, 196, 15}  // Yellow
	colorDanger      = [3]int{231, 76, 60}   // Red
	colorTextDark    = [3]int{44, 62, 80}    // Dark text
	colorTextMuted   = [3]int{127, 140, 141} // Muted text
	colorTableHeader = [3]int{30, 58, 95}    // Navy header
	colorTableAlt    = [3]int{241, 245, 249} // Alternating row
)

// PDFGenerator handles PDF report generation.
type PDFGenerator struct{}

// NewPDFGenerator creates a new PDF generator.
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Generate creates a PDF report from the provided data.
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)

	pdf.AddPage()
	g.writeTitle(pdf, data)
	g.writeSummary(pdf, data)
	g.writeTable(pdf, data)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) writeTitle(pdf *fpdf.Fpdf, data *ReportData) {
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Tenant Subscription Report", "", 1, "L", false, 0, "")

	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+data.GeneratedAt.Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (g *PDFGenerator) writeSummary(pdf *fpdf.Fpdf, data *ReportData) {
	type bucket struct {
		label  string
		status subscription.Status
		color  [3]int
	}
	buckets := []bucket{
		{"Active", subscription.StatusActive, colorAccent},
		{"Expiring", subscription.StatusExpiring, colorWarning},
		{"Expired", subscription.StatusExpired, colorDanger},
	}

	cardW := 50.0
	x := pdf.GetX()
	y := pdf.GetY()
	for i, b := range buckets {
		cx := x + float64(i)*(cardW+5)
		pdf.SetFillColor(b.color[0], b.color[1], b.color[2])
		pdf.Rect(cx, y, cardW, 3, "F")

		pdf.SetXY(cx, y+5)
		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(cardW, 8, strconv.Itoa(data.Counts[b.status]), "", 0, "L", false, 0, "")

		pdf.SetXY(cx, y+13)
		pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(cardW, 5, b.label, "", 0, "L", false, 0, "")
	}
	pdf.SetXY(x, y+22)
	pdf.Ln(4)
}

func (g *PDFGenerator) writeTable(pdf *fpdf.Fpdf, data *ReportData) {
	headers := []string{"ID", "Name", "Subdomain", "End Date", "Status", "Days"}
	widths := []float64{14, 56, 34, 26, 24, 16}

	drawHeader := func() {
		pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 9)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range data.Rows {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
		}

		t := r.Tenant
		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		pdf.CellFormat(widths[0], 7, strconv.Itoa(t.ID), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 7, truncate(t.EnglishName, 34), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 7, truncate(t.Subdomain, 20), "", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[3], 7, t.EndDate, "", 0, "L", fill, 0, "")

		c := statusColor(r.Eval.Status)
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(widths[4], 7, string(r.Eval.Status), "", 0, "L", fill, 0, "")

		pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
		pdf.CellFormat(widths[5], 7, strconv.Itoa(r.Eval.DaysUntilExpiry), "", 0, "R", fill, 0, "")
		pdf.Ln(-1)
	}
}

func statusColor(s subscription.Status) [3]int {
	switch s {
	case subscription.StatusExpired:
		return colorDanger
	case subscription.StatusExpiring:
		return colorWarning
	default:
		return colorAccent
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
