package core

import "github.com/shopspring/decimal"

// TuitionRule carries the parameters of the monthly tuition charge: the base
// value, the day-of-month after which the late penalty applies, and the
// penalty rate as an exact fraction.
type TuitionRule struct {
	AccountCode  string
	BaseValue    decimal.Decimal
	ThresholdDay int
	PenaltyRate  decimal.Decimal
}

// DefaultTuitionRule mirrors the reference configuration: 2310.00 base,
// 25% penalty after the 10th.
func DefaultTuitionRule() TuitionRule {
	return TuitionRule{
		AccountCode:  TuitionAccountCode,
		BaseValue:    decimal.NewFromInt(2310),
		ThresholdDay: 10,
		PenaltyRate:  decimal.New(25, -2),
	}
}

// ComputeTuitionAmount returns the expected tuition charge for a payment on
// the given date. Past the threshold day the base value grows by the penalty
// rate; on or before it the base applies unchanged. The result is advisory
// (it pre-fills the form) and rounded to currency precision.
func ComputeTuitionAmount(date CivilDate, base decimal.Decimal, thresholdDay int, rate decimal.Decimal) decimal.Decimal {
	if date.Day > thresholdDay {
		factor := decimal.NewFromInt(1).Add(rate)
		return base.Mul(factor).Round(2)
	}
	return base.Round(2)
}

// Amount applies the rule to a date.
func (r TuitionRule) Amount(date CivilDate) decimal.Decimal {
	return ComputeTuitionAmount(date, r.BaseValue, r.ThresholdDay, r.PenaltyRate)
}

// AppliesTo reports whether the rule is relevant for a transaction being
// drafted: tuition-coded income only.
func (r TuitionRule) AppliesTo(category Category, accountCode string) bool {
	return category == Income && accountCode == r.AccountCode
}
