package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"seiva/internal/core"
)

var reportMonthNames = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// RenderMonthlyReport produces a portrait A4 statement for one month:
// totals up top, then every transaction of that month in date order.
func (r *Renderer) RenderMonthlyReport(ctx context.Context, transactions []core.Transaction, year, month int, logoURL string) ([]byte, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("render report: invalid month %d", month)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	const margin = 15.0
	contentWidth := pageWidth - 2*margin
	cursorY := 15.0

	logoName := r.registerLogo(ctx, doc, logoURL)
	if logoName != "" {
		doc.ImageOptions(logoName, margin, cursorY, 22, 22, false, fpdf.ImageOptions{}, 0, "")
	} else {
		doc.SetFillColor(primaryColor[0], primaryColor[1], primaryColor[2])
		doc.Circle(margin+11, cursorY+11, 11, "F")
		doc.SetFont("Helvetica", "B", 11)
		doc.SetTextColor(255, 255, 255)
		textCentered(doc, "SN", margin+11, cursorY+12)
	}

	doc.SetFont("Helvetica", "B", 15)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	doc.Text(margin+28, cursorY+9, translate(doc, schoolName))
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(60, 60, 60)
	doc.Text(margin+28, cursorY+15, translate(doc, schoolStreet))
	doc.Text(margin+28, cursorY+19, translate(doc, schoolCity))
	cursorY += 30

	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	title := fmt.Sprintf("Relatório Mensal - %s %d", reportMonthNames[month-1], year)
	textCentered(doc, title, pageWidth/2, cursorY)
	cursorY += 6
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(100, 100, 100)
	emission := fmt.Sprintf("Emissão: %s", time.Now().Format("02/01/2006 15:04:05"))
	textCentered(doc, emission, pageWidth/2, cursorY)
	cursorY += 8

	var income, expense decimal.Decimal
	var rows []core.Transaction
	for _, t := range transactions {
		if t.Date.Year != year || t.Date.Month != month {
			continue
		}
		rows = append(rows, t)
		switch t.Category {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	balance := income.Sub(expense)

	// Summary strip
	doc.SetDrawColor(primaryColor[0], primaryColor[1], primaryColor[2])
	doc.SetLineWidth(0.4)
	doc.Line(margin, cursorY, margin+contentWidth, cursorY)
	cursorY += 7
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	doc.Text(margin, cursorY, translate(doc, fmt.Sprintf("Entradas: MZN %s", formatAmount(income.StringFixed(2)))))
	textCentered(doc, fmt.Sprintf("Saídas: MZN %s", formatAmount(expense.StringFixed(2))), pageWidth/2, cursorY)
	textRight(doc, fmt.Sprintf("Saldo: MZN %s", formatAmount(balance.StringFixed(2))), margin+contentWidth, cursorY)
	cursorY += 5
	doc.Line(margin, cursorY, margin+contentWidth, cursorY)
	cursorY += 8

	headers := []string{"Data", "Descrição", "Conta", "Categoria", "Valor (MZN)"}
	widths := []float64{
		contentWidth * 0.14, contentWidth * 0.36, contentWidth * 0.16,
		contentWidth * 0.14, contentWidth * 0.20,
	}

	doc.SetXY(margin, cursorY)
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(primaryColor[0], primaryColor[1], primaryColor[2])
	doc.SetTextColor(255, 255, 255)
	doc.SetDrawColor(200, 200, 200)
	doc.SetLineWidth(0.1)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, translate(doc, h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(darkColor[0], darkColor[1], darkColor[2])
	for _, t := range rows {
		label := "Entrada"
		if t.Category == core.Expense {
			label = "Saída"
		}
		doc.SetX(margin)
		doc.CellFormat(widths[0], 6, t.Date.String(), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], 6, translate(doc, clip(doc, t.Description, widths[1]-2)), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 6, translate(doc, clip(doc, t.Type, widths[2]-2)), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[3], 6, translate(doc, label), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[4], 6, formatAmount(t.Amount.StringFixed(2)), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
	if len(rows) == 0 {
		doc.SetX(margin)
		doc.SetTextColor(100, 100, 100)
		doc.CellFormat(contentWidth, 8, translate(doc, "Sem movimentos neste mês."), "1", 1, "C", false, 0, "")
	}

	doc.SetY(-25)
	doc.SetFont("Helvetica", "BI", 8)
	doc.SetTextColor(primaryColor[0], primaryColor[1], primaryColor[2])
	textCentered(doc, footerLine, pageWidth/2, doc.GetY())

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// clip shortens a string until it fits the given cell width.
func clip(doc *fpdf.Fpdf, s string, width float64) string {
	for doc.GetStringWidth(translate(doc, s)) > width && len(s) > 4 {
		runes := []rune(s)
		s = string(runes[:len(runes)-4]) + "…"
	}
	return s
}
