package printer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// ConsolidatedTitle heads reports that span every branch
const ConsolidatedTitle = "Consolidado Geral"

// ReasonLine is one entry of the by-reason summary
type ReasonLine struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// ReturnRow is one returned delivery on the report
type ReturnRow struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	DriverName   string `json:"driverName"`
	Reason       string `json:"reason"`
	Boxes        int    `json:"boxes"`
	SellerName   string `json:"sellerName"`
	// NoticeURL is encoded as a QR code when set
	NoticeURL string `json:"noticeUrl,omitempty"`
}

// ReturnReport holds everything printed on the returns sheet
type ReturnReport struct {
	Title       string       `json:"title"`
	Period      string       `json:"period"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Returns     int          `json:"returns"`
	Boxes       int          `json:"boxes"`
	Reasons     []ReasonLine `json:"reasons"`
	Rows        []ReturnRow  `json:"rows"`
}

const (
	pageW    = 210.0
	margin   = 12.0
	rowH     = 18.0
	qrSize   = 15.0
	footerAt = 265.0
)

// column layout of the returns table (mm)
var columns = []struct {
	title string
	width float64
}{
	{"Cliente", 58},
	{"Motorista", 36},
	{"Motivo", 34},
	{"CX", 10},
	{"Vendedor", 30},
	{"Aviso", 18},
}

// GenerateReturnReport renders the printable returns sheet
func GenerateReturnReport(r ReturnReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	// Core fonts are cp1252; accents in Portuguese labels need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := r.Title
	if title == "" {
		title = ConsolidatedTitle
	}
	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf.AddPage()
	y := header(pdf, tr, title, r.Period, generated)
	y = summary(pdf, tr, r, y)
	y = tableHeader(pdf, tr, y)

	pdf.SetFont("Arial", "", 8)
	for i, row := range r.Rows {
		if y+rowH > footerAt {
			signature(pdf, tr)
			pdf.AddPage()
			y = tableHeader(pdf, tr, margin)
			pdf.SetFont("Arial", "", 8)
		}
		if err := tableRow(pdf, tr, i, row, y); err != nil {
			return nil, err
		}
		y += rowH
	}
	if len(r.Rows) == 0 {
		pdf.SetXY(margin, y+2)
		pdf.CellFormat(pageW-2*margin, 8, tr("Nenhum retorno no período."), "", 0, "C", false, 0, "")
	}
	signature(pdf, tr)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render return report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func header(pdf *gofpdf.Fpdf, tr func(string) string, title, period string, at time.Time) float64 {
	pdf.SetFont("Arial", "B", 16)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin, 8, tr("Relatório de Retornos - SwiftLog"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(margin)
	pdf.CellFormat(pageW-2*margin, 6, tr(title), "", 1, "L", false, 0, "")
	pdf.SetX(margin)
	pdf.CellFormat(pageW-2*margin, 6, tr(fmt.Sprintf("Período: %s  |  Emitido em %s", period, at.Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")
	pdf.Line(margin, 34, pageW-margin, 34)
	return 38
}

func summary(pdf *gofpdf.Fpdf, tr func(string) string, r ReturnReport, y float64) float64 {
	boxW := (pageW - 2*margin - 8) / 3
	top := ""
	if len(r.Reasons) > 0 {
		top = fmt.Sprintf("%s (%d)", r.Reasons[0].Reason, r.Reasons[0].Count)
	}
	cards := []struct{ label, value string }{
		{"Retornos", fmt.Sprint(r.Returns)},
		{"Volumes", fmt.Sprintf("%d CX", r.Boxes)},
		{"Principal motivo", top},
	}
	for i, c := range cards {
		x := margin + float64(i)*(boxW+4)
		pdf.Rect(x, y, boxW, 16, "D")
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(x+2, y+2)
		pdf.CellFormat(boxW-4, 4, tr(c.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.SetXY(x+2, y+8)
		pdf.CellFormat(boxW-4, 6, tr(c.value), "", 0, "L", false, 0, "")
	}
	y += 20

	if len(r.Reasons) > 1 {
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(margin, y)
		line := "Por motivo:"
		for _, rl := range r.Reasons {
			line += fmt.Sprintf("  %s %d", rl.Reason, rl.Count)
		}
		pdf.MultiCell(pageW-2*margin, 4, tr(line), "", "L", false)
		y = pdf.GetY() + 2
	}
	return y
}

func tableHeader(pdf *gofpdf.Fpdf, tr func(string) string, y float64) float64 {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 240)
	pdf.SetXY(margin, y)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "C", true, 0, "")
	}
	return y + 7
}

func tableRow(pdf *gofpdf.Fpdf, tr func(string) string, i int, row ReturnRow, y float64) error {
	values := []string{
		fmt.Sprintf("%s\n%s", row.CustomerID, row.CustomerName),
		row.DriverName,
		row.Reason,
		fmt.Sprint(row.Boxes),
		row.SellerName,
	}
	x := margin
	for ci, v := range values {
		w := columns[ci].width
		pdf.Rect(x, y, w, rowH, "D")
		pdf.SetXY(x+1, y+2)
		pdf.MultiCell(w-2, 4, tr(v), "", "L", false)
		x += w
	}

	qrW := columns[len(columns)-1].width
	pdf.Rect(x, y, qrW, rowH, "D")
	if row.NoticeURL == "" {
		return nil
	}
	png, err := qrcode.Encode(row.NoticeURL, qrcode.Low, 256)
	if err != nil {
		return fmt.Errorf("failed to encode notice QR: %w", err)
	}
	name := fmt.Sprintf("notice_%d", i)
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x+(qrW-qrSize)/2, y+(rowH-qrSize)/2, qrSize, qrSize, false, opts, 0, "")
	return nil
}

func signature(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Arial", "", 9)
	pdf.Line(margin, footerAt+12, margin+70, footerAt+12)
	pdf.Line(pageW-margin-70, footerAt+12, pageW-margin, footerAt+12)
	pdf.SetXY(margin, footerAt+13)
	pdf.CellFormat(70, 5, tr("Conferente"), "", 0, "C", false, 0, "")
	pdf.SetXY(pageW-margin-70, footerAt+13)
	pdf.CellFormat(70, 5, tr("Responsável Logística"), "", 0, "C", false, 0, "")
}
