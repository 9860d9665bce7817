package core

import "github.com/shopspring/decimal"

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodSemestral Period = "semestral"
	PeriodAnnual    Period = "annual"
)

type (
	// Period selects the date range of the dashboard totals. It is a UI
	// selection, never persisted.
	Period string

	// MonthlyFlow is one bucket of the full-year cash flow chart.
	MonthlyFlow struct {
		Name    string          `json:"name"`
		Entrada decimal.Decimal `json:"entrada"`
		Saida   decimal.Decimal `json:"saida"`
	}

	// Summary carries the period-scoped totals plus the fixed 12-month
	// series for the current year.
	Summary struct {
		Period  Period          `json:"period"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
		Balance decimal.Decimal `json:"balance"`
		Series  []MonthlyFlow   `json:"monthlySeries"`
	}
)

// monthNames are the chart labels, January first.
var monthNames = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodSemestral, PeriodAnnual:
		return true
	}
	return false
}

// Periods lists every selectable reporting period.
func Periods() []Period {
	return []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodSemestral, PeriodAnnual}
}

// IsInPeriod reports whether the date falls in the reporting period anchored
// at today. Weekly is the inclusive trailing window [today-6, today];
// quarters are zero-indexed floor(month/3); semesters split at July. Today
// itself is in its own period under every variant.
func IsInPeriod(d CivilDate, p Period, today CivilDate) bool {
	switch p {
	case PeriodDaily:
		return d == today
	case PeriodWeekly:
		diff := today.DaysSince(d)
		return diff >= 0 && diff <= 6
	case PeriodMonthly:
		return d.SameMonth(today)
	case PeriodQuarterly:
		return d.Year == today.Year && (d.Month-1)/3 == (today.Month-1)/3
	case PeriodSemestral:
		return d.Year == today.Year && (d.Month-1)/6 == (today.Month-1)/6
	case PeriodAnnual:
		return d.Year == today.Year
	}
	return false
}

// Aggregate computes income, expense and balance over the selected period
// and the 12-bucket monthly series for today's year. The series ignores the
// period filter: it is the full-year chart, fed by every transaction whose
// literal year equals the current one.
func Aggregate(transactions []Transaction, p Period, today CivilDate) Summary {
	sum := Summary{
		Period:  p,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Series:  make([]MonthlyFlow, 12),
	}
	for i := range sum.Series {
		sum.Series[i] = MonthlyFlow{Name: monthNames[i], Entrada: decimal.Zero, Saida: decimal.Zero}
	}

	for _, t := range transactions {
		if IsInPeriod(t.Date, p, today) {
			switch t.Category {
			case Income:
				sum.Income = sum.Income.Add(t.Amount)
			case Expense:
				sum.Expense = sum.Expense.Add(t.Amount)
			}
		}
		if t.Date.Year == today.Year && t.Date.Month >= 1 && t.Date.Month <= 12 {
			b := &sum.Series[t.Date.Month-1]
			switch t.Category {
			case Income:
				b.Entrada = b.Entrada.Add(t.Amount)
			case Expense:
				b.Saida = b.Saida.Add(t.Amount)
			}
		}
	}
	sum.Balance = sum.Income.Sub(sum.Expense)
	return sum
}
