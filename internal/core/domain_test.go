package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewCivilDate(2025, 6, 1),
		Category:    Income,
		Description: "Mensalidade - Maria",
		Amount:      decimal.NewFromInt(2310),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Category: Income, Description: "a", Amount: decimal.NewFromInt(1)},                                           // zero date
		{Date: NewCivilDate(2025, 6, 1), Category: "transfer", Description: "a", Amount: decimal.NewFromInt(1)},       // bad category
		{Date: NewCivilDate(2025, 6, 1), Category: Income, Description: "  ", Amount: decimal.NewFromInt(1)},          // empty description
		{Date: NewCivilDate(2025, 6, 1), Category: Income, Description: "a", Amount: decimal.NewFromInt(-1)},          // negative
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestStudentValidate(t *testing.T) {
	good := Student{Name: "Maria Silva", Class: "1ª Classe", Guardian: "João Silva", Status: StatusPending}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Student{
		{Name: "", Class: "1ª Classe"},
		{Name: "Ana", Class: "7ª Classe"},
		{Name: "Ana", Class: "1ª Classe", Status: "Overdue"},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIDUnmarshalForms(t *testing.T) {
	cases := []struct {
		in   string
		want ID
	}{
		{`"42"`, "42"},
		{`42`, "42"},
		{`"a1b2"`, "a1b2"},
		{`null`, ""},
	}
	for _, tc := range cases {
		var id ID
		if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if id != tc.want {
			t.Fatalf("unmarshal %s = %q, want %q", tc.in, id, tc.want)
		}
	}
}

func TestTransactionJSONAmountForms(t *testing.T) {
	// The store may hand back amounts as JSON numbers or strings.
	for _, raw := range []string{
		`{"id":7,"date":"2025-06-01","category":"income","description":"x","amount":2887.5}`,
		`{"id":"7","date":"2025-06-01","category":"income","description":"x","amount":"2887.50"}`,
	} {
		var tr Transaction
		if err := json.Unmarshal([]byte(raw), &tr); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if tr.ID != "7" {
			t.Fatalf("id = %q", tr.ID)
		}
		want, _ := decimal.NewFromString("2887.5")
		if !tr.Amount.Equal(want) {
			t.Fatalf("amount = %s", tr.Amount)
		}
	}
}
