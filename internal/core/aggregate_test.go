package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func tx(category Category, amount int64, date CivilDate) Transaction {
	return Transaction{
		Date:        date,
		Category:    category,
		Description: "t",
		Amount:      decimal.NewFromInt(amount),
	}
}

func TestIsInPeriodReflexive(t *testing.T) {
	today := NewCivilDate(2025, 8, 14)
	for _, p := range Periods() {
		if !IsInPeriod(today, p, today) {
			t.Fatalf("today must be inside its own %s period", p)
		}
	}
}

func TestIsInPeriodVariants(t *testing.T) {
	today := NewCivilDate(2025, 8, 14)
	cases := []struct {
		d    CivilDate
		p    Period
		want bool
	}{
		{NewCivilDate(2025, 8, 13), PeriodDaily, false},
		{NewCivilDate(2025, 8, 8), PeriodWeekly, true},   // today-6, inclusive
		{NewCivilDate(2025, 8, 7), PeriodWeekly, false},  // today-7
		{NewCivilDate(2025, 8, 15), PeriodWeekly, false}, // future
		{NewCivilDate(2025, 8, 1), PeriodMonthly, true},
		{NewCivilDate(2025, 7, 31), PeriodMonthly, false},
		{NewCivilDate(2025, 7, 1), PeriodQuarterly, true},  // Jul-Sep
		{NewCivilDate(2025, 6, 30), PeriodQuarterly, false},
		{NewCivilDate(2025, 12, 31), PeriodSemestral, true}, // Jul-Dec
		{NewCivilDate(2025, 6, 1), PeriodSemestral, false},
		{NewCivilDate(2025, 1, 1), PeriodAnnual, true},
		{NewCivilDate(2024, 12, 31), PeriodAnnual, false},
	}
	for _, tc := range cases {
		if got := IsInPeriod(tc.d, tc.p, today); got != tc.want {
			t.Fatalf("IsInPeriod(%v, %s) = %v, want %v", tc.d, tc.p, got, tc.want)
		}
	}
}

func TestAggregateTotalsAndBalance(t *testing.T) {
	today := NewCivilDate(2025, 3, 20)
	txs := []Transaction{
		tx(Income, 1000, NewCivilDate(2025, 3, 15)),
		tx(Expense, 200, NewCivilDate(2025, 3, 20)),
		tx(Income, 5000, NewCivilDate(2025, 1, 10)), // outside monthly period
	}
	sum := Aggregate(txs, PeriodMonthly, today)
	if !sum.Income.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("income = %s", sum.Income)
	}
	if !sum.Expense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expense = %s", sum.Expense)
	}
	if !sum.Balance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("balance = %s", sum.Balance)
	}
}

func TestAggregateMonthlySeries(t *testing.T) {
	today := NewCivilDate(2025, 3, 20)
	txs := []Transaction{
		tx(Income, 1000, NewCivilDate(2025, 3, 15)),
		tx(Expense, 200, NewCivilDate(2025, 3, 20)),
		tx(Income, 9999, NewCivilDate(2024, 3, 15)), // prior year, must not appear
	}
	sum := Aggregate(txs, PeriodMonthly, today)
	if len(sum.Series) != 12 {
		t.Fatalf("series has %d buckets, want 12", len(sum.Series))
	}
	for i, b := range sum.Series {
		if i == 2 { // March
			if !b.Entrada.Equal(decimal.NewFromInt(1000)) || !b.Saida.Equal(decimal.NewFromInt(200)) {
				t.Fatalf("Mar bucket = {%s, %s}", b.Entrada, b.Saida)
			}
			if b.Name != "Mar" {
				t.Fatalf("bucket 2 named %q", b.Name)
			}
			continue
		}
		if !b.Entrada.IsZero() || !b.Saida.IsZero() {
			t.Fatalf("bucket %s not zero: {%s, %s}", b.Name, b.Entrada, b.Saida)
		}
	}
}

func TestAggregateSeriesIgnoresPeriodFilter(t *testing.T) {
	// The chart is always the full current year, even under the daily period.
	today := NewCivilDate(2025, 8, 14)
	txs := []Transaction{tx(Income, 300, NewCivilDate(2025, 1, 2))}
	sum := Aggregate(txs, PeriodDaily, today)
	if !sum.Income.IsZero() {
		t.Fatalf("daily income = %s, want 0", sum.Income)
	}
	if !sum.Series[0].Entrada.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("Jan bucket = %s, want 300", sum.Series[0].Entrada)
	}
}

func TestAggregateEmpty(t *testing.T) {
	sum := Aggregate(nil, PeriodAnnual, NewCivilDate(2025, 1, 1))
	if !sum.Income.IsZero() || !sum.Expense.IsZero() || !sum.Balance.IsZero() {
		t.Fatalf("empty aggregate not zero: %+v", sum)
	}
	if len(sum.Series) != 12 {
		t.Fatalf("series has %d buckets", len(sum.Series))
	}
}
