// Package pdf renders payment receipts and financial reports.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"seiva/internal/core"
	"seiva/internal/log"
)

const (
	schoolName    = "ESCOLA SEIVA DA NAÇÃO"
	schoolStreet  = "Av. Samora Machel, Mussumbuluco"
	schoolCity    = "Maputo - Moçambique"
	schoolContact = "Contato: +258 84 269 6623"
	footerLine    = "Obrigado por fazer parte da família Seiva da Nação!"
)

var (
	primaryColor = [3]int{19, 236, 128}
	darkColor    = [3]int{16, 34, 25}
)

type Renderer struct {
	httpClient *http.Client
	logger     *log.Logger
}

func NewRenderer(logger *log.Logger) *Renderer {
	return &Renderer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.WithComponent("pdf"),
	}
}

// RenderReceipt produces an A4 landscape receipt split into two halves,
// one for the institution and one for the guardian, with a dashed cut
// line between them. logoURL may be empty; a drawn crest is used when the
// image cannot be fetched.
func (r *Renderer) RenderReceipt(ctx context.Context, t core.Transaction, logoURL string) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	pageWidth, pageHeight := doc.GetPageSize()
	halfWidth := pageWidth / 2

	logoName := r.registerLogo(ctx, doc, logoURL)

	r.drawReceiptSide(doc, t, logoName, 0, halfWidth, pageHeight, "Via da Instituição")
	r.drawReceiptSide(doc, t, logoName, halfWidth, halfWidth, pageHeight, "Via do Encarregado")

	// Cut line down the middle
	doc.SetDrawColor(180, 180, 180)
	doc.SetLineWidth(0.5)
	doc.SetDashPattern([]float64{3, 3}, 0)
	doc.Line(halfWidth, 10, halfWidth, pageHeight-10)
	doc.SetDashPattern([]float64{}, 0)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawReceiptSide(doc *fpdf.Fpdf, t core.Transaction, logoName string, offsetX, halfWidth, pageHeight float64, title string) {
	const margin = 10.0
	cursorY := 10.0

	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(100, 100, 100)
	textCentered(doc, title, offsetX+halfWidth/2, cursorY)
	cursorY += 5

	if logoName != "" {
		doc.ImageOptions(logoName, offsetX+margin, cursorY, 30, 30, false, fpdf.ImageOptions{}, 0, "")
	} else {
		// Drawn crest when no image is available
		doc.SetFillColor(primaryColor[0], primaryColor[1], primaryColor[2])
		doc.Circle(offsetX+margin+15, cursorY+15, 15, "F")
		doc.SetFont("Helvetica", "B", 12)
		doc.SetTextColor(255, 255, 255)
		textCentered(doc, "SN", offsetX+margin+15, cursorY+16)
	}

	textStartX := offsetX + margin + 35

	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	doc.Text(textStartX, cursorY+8, translate(doc, schoolName))

	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(60, 60, 60)
	doc.Text(textStartX, cursorY+14, translate(doc, schoolStreet))
	doc.Text(textStartX, cursorY+18, translate(doc, schoolCity))
	doc.Text(textStartX, cursorY+22, translate(doc, schoolContact))

	cursorY += 35

	doc.SetDrawColor(primaryColor[0], primaryColor[1], primaryColor[2])
	doc.SetLineWidth(0.5)
	doc.Line(offsetX+margin, cursorY, offsetX+halfWidth-margin, cursorY)
	cursorY += 8

	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	textCentered(doc, "RECIBO DE PAGAMENTO", offsetX+halfWidth/2, cursorY)
	cursorY += 8

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(100, 100, 100)
	doc.Text(offsetX+margin, cursorY, fmt.Sprintf("Ref: #%s", t.ID))
	emission := fmt.Sprintf("Emissão: %s", time.Now().Format("02/01/2006 15:04:05"))
	textRight(doc, emission, offsetX+halfWidth-margin, cursorY)
	cursorY += 5

	cursorY = r.drawReceiptTable(doc, t, offsetX+margin, cursorY, halfWidth-2*margin)
	cursorY += 15

	doc.SetFont("Helvetica", "B", 11)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	total := fmt.Sprintf("Total: MZN %s", formatAmount(t.Amount.StringFixed(2)))
	textRight(doc, total, offsetX+halfWidth-margin, cursorY)
	cursorY += 25

	doc.SetDrawColor(150, 150, 150)
	doc.SetLineWidth(0.3)
	doc.Line(offsetX+halfWidth/2-30, cursorY, offsetX+halfWidth/2+30, cursorY)
	cursorY += 5

	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(100, 100, 100)
	textCentered(doc, "Tesouraria / Carimbo Digital", offsetX+halfWidth/2, cursorY)

	doc.SetFont("Helvetica", "BI", 8)
	doc.SetTextColor(primaryColor[0], primaryColor[1], primaryColor[2])
	textCentered(doc, footerLine, offsetX+halfWidth/2, pageHeight-10)
}

func (r *Renderer) drawReceiptTable(doc *fpdf.Fpdf, t core.Transaction, x, y, width float64) float64 {
	headers := []string{"Descrição", "Forma Pagto", "Tipo", "Valor (MZN)"}
	widths := []float64{width * 0.40, width * 0.20, width * 0.20, width * 0.20}

	doc.SetXY(x, y)
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(primaryColor[0], primaryColor[1], primaryColor[2])
	doc.SetTextColor(255, 255, 255)
	doc.SetDrawColor(200, 200, 200)
	doc.SetLineWidth(0.1)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, translate(doc, h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	payment := t.PaymentMethod
	if payment == "" {
		payment = "N/A"
	}
	cells := []string{t.Description, payment, t.Type, formatAmount(t.Amount.StringFixed(2))}
	aligns := []string{"L", "C", "C", "R"}

	doc.SetX(x)
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	for i, cell := range cells {
		if i == len(cells)-1 {
			doc.SetFont("Helvetica", "B", 9)
		}
		doc.CellFormat(widths[i], 7, translate(doc, cell), "1", 0, aligns[i], false, 0, "")
	}
	doc.Ln(-1)

	return doc.GetY()
}

// registerLogo fetches the logo and registers it with the document.
// Returns "" when the fetch fails so callers fall back to the drawn
// crest.
func (r *Renderer) registerLogo(ctx context.Context, doc *fpdf.Fpdf, logoURL string) string {
	if strings.TrimSpace(logoURL) == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		r.logger.Warn("Invalid logo URL", "url", logoURL, "error", err)
		return ""
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("Failed to fetch logo", "url", logoURL, "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("Logo fetch returned non-OK status", "url", logoURL, "status", resp.StatusCode)
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		r.logger.Warn("Failed to read logo", "url", logoURL, "error", err)
		return ""
	}

	imageType := sniffImageType(data, resp.Header.Get("Content-Type"))
	if imageType == "" {
		r.logger.Warn("Unsupported logo format", "url", logoURL)
		return ""
	}

	const name = "school-logo"
	doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if doc.Err() {
		r.logger.Warn("Failed to register logo image", "error", doc.Error())
		doc.ClearError()
		return ""
	}
	return name
}

func sniffImageType(data []byte, contentType string) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "JPG"
	case strings.Contains(contentType, "png"):
		return "PNG"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "JPG"
	default:
		return ""
	}
}

// formatAmount rewrites 1234.50 as 1.234,50.
func formatAmount(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	out := b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func textCentered(doc *fpdf.Fpdf, s string, x, y float64) {
	tr := translate(doc, s)
	doc.Text(x-doc.GetStringWidth(tr)/2, y, tr)
}

func textRight(doc *fpdf.Fpdf, s string, x, y float64) {
	tr := translate(doc, s)
	doc.Text(x-doc.GetStringWidth(tr), y, tr)
}

// translate maps UTF-8 to the core font codepage so accented Portuguese
// renders correctly.
func translate(doc *fpdf.Fpdf, s string) string {
	tr := doc.UnicodeTranslatorFromDescriptor("")
	return tr(s)
}
