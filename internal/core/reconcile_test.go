package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func tuitionPayment(studentID ID, date CivilDate) Transaction {
	return Transaction{
		Date:        date,
		Category:    Income,
		AccountCode: TuitionAccountCode,
		Description: "Mensalidade",
		Amount:      decimal.NewFromInt(2310),
		StudentID:   studentID,
	}
}

func TestCorrectStatus(t *testing.T) {
	cases := []struct {
		paid      bool
		day, thr  int
		want      Status
	}{
		{true, 1, 10, StatusPaid},
		{true, 25, 10, StatusPaid},
		{false, 10, 10, StatusPending},
		{false, 11, 10, StatusLate},
		{false, 1, 10, StatusPending},
	}
	for i, tc := range cases {
		if got := CorrectStatus(tc.paid, tc.day, tc.thr); got != tc.want {
			t.Fatalf("case %d: got %s, want %s", i, got, tc.want)
		}
	}
}

func TestReconcilePaidThisMonthWins(t *testing.T) {
	today := NewCivilDate(2025, 6, 20)
	students := []Student{{ID: "1", Name: "Maria", Class: "1ª Classe", Status: StatusLate}}
	txs := []Transaction{tuitionPayment("1", NewCivilDate(2025, 6, 5))}

	res := Reconcile(students, txs, today, DefaultTuitionRule())
	if res.Students[0].Status != StatusPaid {
		t.Fatalf("status = %s, want Paid", res.Students[0].Status)
	}
	if len(res.Changed) != 1 || res.Changed[0].To != StatusPaid || res.Changed[0].From != StatusLate {
		t.Fatalf("changed = %+v", res.Changed)
	}
}

func TestReconcileNoTransactionsDependsOnDay(t *testing.T) {
	students := []Student{{ID: "1", Name: "Ana", Class: "2ª Classe", Status: StatusPaid}}

	early := Reconcile(students, nil, NewCivilDate(2025, 6, 3), DefaultTuitionRule())
	if early.Students[0].Status != StatusPending {
		t.Fatalf("day 3: status = %s, want Pending", early.Students[0].Status)
	}
	late := Reconcile(students, nil, NewCivilDate(2025, 6, 15), DefaultTuitionRule())
	if late.Students[0].Status != StatusLate {
		t.Fatalf("day 15: status = %s, want Late", late.Students[0].Status)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	today := NewCivilDate(2025, 6, 20)
	students := []Student{
		{ID: "1", Name: "Maria", Status: StatusPending},
		{ID: "2", Name: "João", Status: StatusPaid},
		{ID: "3", Name: "Ana", Status: StatusLate},
	}
	txs := []Transaction{tuitionPayment("1", NewCivilDate(2025, 6, 2))}

	first := Reconcile(students, txs, today, DefaultTuitionRule())
	if len(first.Changed) == 0 {
		t.Fatal("first pass should change something")
	}
	second := Reconcile(first.Students, txs, today, DefaultTuitionRule())
	if len(second.Changed) != 0 {
		t.Fatalf("second pass changed %+v, want nothing", second.Changed)
	}
}

func TestReconcileNumericAndStringIDsMatch(t *testing.T) {
	// Student id stored as the number 7, transaction student_id as "7":
	// both decode to the canonical form and must match.
	var sid, txSID ID
	if err := sid.UnmarshalJSON([]byte(`7`)); err != nil {
		t.Fatal(err)
	}
	if err := txSID.UnmarshalJSON([]byte(`"7"`)); err != nil {
		t.Fatal(err)
	}

	today := NewCivilDate(2025, 6, 20)
	students := []Student{{ID: sid, Name: "Pedro", Status: StatusLate}}
	txs := []Transaction{tuitionPayment(txSID, NewCivilDate(2025, 6, 12))}

	res := Reconcile(students, txs, today, DefaultTuitionRule())
	if res.Students[0].Status != StatusPaid {
		t.Fatalf("status = %s, want Paid (id forms must match)", res.Students[0].Status)
	}
}

func TestReconcileIgnoresOtherMonthsAndCodes(t *testing.T) {
	today := NewCivilDate(2025, 6, 20)
	students := []Student{{ID: "1", Name: "Rita", Status: StatusPending}}
	txs := []Transaction{
		tuitionPayment("1", NewCivilDate(2025, 5, 5)), // previous month
		{ // same month but enrollment fee, not tuition
			Date: NewCivilDate(2025, 6, 5), Category: Income, AccountCode: "7.1",
			Description: "Matrícula", Amount: decimal.NewFromInt(500), StudentID: "1",
		},
		{ // tuition code but expense
			Date: NewCivilDate(2025, 6, 5), Category: Expense, AccountCode: TuitionAccountCode,
			Description: "Estorno", Amount: decimal.NewFromInt(100), StudentID: "1",
		},
	}

	res := Reconcile(students, txs, today, DefaultTuitionRule())
	if res.Students[0].Status != StatusLate {
		t.Fatalf("status = %s, want Late (no qualifying payment)", res.Students[0].Status)
	}
}

func TestReconcilePassesUnchangedThrough(t *testing.T) {
	today := NewCivilDate(2025, 6, 5)
	students := []Student{{ID: "1", Name: "Zé", Class: "3ª Classe", Guardian: "Pai", Status: StatusPending}}
	res := Reconcile(students, nil, today, DefaultTuitionRule())
	if len(res.Changed) != 0 {
		t.Fatalf("changed = %+v", res.Changed)
	}
	if res.Students[0] != students[0] {
		t.Fatalf("student mutated: %+v", res.Students[0])
	}
}
