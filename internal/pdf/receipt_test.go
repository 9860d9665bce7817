package pdf

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"seiva/internal/core"
	"seiva/internal/log"
)

func testTransaction() core.Transaction {
	return core.Transaction{
		ID:            "42",
		Date:          core.NewCivilDate(2025, 6, 5),
		Category:      core.Income,
		Type:          "Mensalidades",
		Description:   "Mensalidade - Maria Silva",
		Amount:        decimal.RequireFromString("2887.50"),
		PaymentMethod: "M-Pesa",
		AccountCode:   "7.2",
	}
}

func TestRenderReceiptProducesPDF(t *testing.T) {
	r := NewRenderer(log.New(log.DefaultConfig()))

	out, err := r.RenderReceipt(context.Background(), testTransaction(), "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", out[:8])
	}
	if len(out) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderReceiptLogoFetchFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRenderer(log.New(log.DefaultConfig()))

	out, err := r.RenderReceipt(context.Background(), testTransaction(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderMonthlyReport(t *testing.T) {
	r := NewRenderer(log.New(log.DefaultConfig()))

	transactions := []core.Transaction{
		testTransaction(),
		{
			ID:          "43",
			Date:        core.NewCivilDate(2025, 6, 20),
			Category:    core.Expense,
			Type:        "Custos com Pessoal",
			Description: "Salários",
			Amount:      decimal.NewFromInt(15000),
			AccountCode: "6.1",
		},
		{
			// Different month, must be excluded
			ID:          "44",
			Date:        core.NewCivilDate(2025, 5, 2),
			Category:    core.Expense,
			Description: "Água",
			Amount:      decimal.NewFromInt(500),
		},
	}

	out, err := r.RenderMonthlyReport(context.Background(), transactions, 2025, 6, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderMonthlyReportInvalidMonth(t *testing.T) {
	r := NewRenderer(log.New(log.DefaultConfig()))
	if _, err := r.RenderMonthlyReport(context.Background(), nil, 2025, 13, ""); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2310.00", "2.310,00"},
		{"2887.50", "2.887,50"},
		{"150.00", "150,00"},
		{"1234567.89", "1.234.567,89"},
		{"-500.25", "-500,25"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
