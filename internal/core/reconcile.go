package core

// StatusChange records one student whose stored status disagreed with the
// derived one during a reconciliation pass.
type StatusChange struct {
	StudentID ID     `json:"student_id"`
	Name      string `json:"name"`
	From      Status `json:"from"`
	To        Status `json:"to"`
}

// ReconcileResult is the outcome of one pass: the full student collection
// with corrected statuses (unchanged students pass through verbatim) and the
// subset that needs persisting.
type ReconcileResult struct {
	Students []Student
	Changed  []StatusChange
}

// CorrectStatus derives the payment status for a single student from whether
// a tuition payment exists this month and how far into the month today is.
func CorrectStatus(paidThisMonth bool, currentDay, thresholdDay int) Status {
	switch {
	case paidThisMonth:
		return StatusPaid
	case currentDay > thresholdDay:
		return StatusLate
	default:
		return StatusPending
	}
}

// Reconcile recomputes every student's payment status for today's month.
// A student counts as paid iff some transaction is tuition-coded income
// linked to the student (ids compared in canonical string form) and dated in
// the current civil month. The function is pure; persisting the changed
// statuses is the caller's side effect.
//
// Running it twice with no new transactions in between yields an empty
// Changed set on the second run.
func Reconcile(students []Student, transactions []Transaction, today CivilDate, rule TuitionRule) ReconcileResult {
	paid := make(map[ID]bool, len(students))
	for _, t := range transactions {
		if t.Category != Income || t.AccountCode != rule.AccountCode {
			continue
		}
		if t.StudentID == "" {
			continue
		}
		if !t.Date.SameMonth(today) {
			continue
		}
		paid[t.StudentID] = true
	}

	out := ReconcileResult{Students: make([]Student, len(students))}
	for i, s := range students {
		want := CorrectStatus(paid[s.ID], today.Day, rule.ThresholdDay)
		if s.Status != want {
			out.Changed = append(out.Changed, StatusChange{
				StudentID: s.ID,
				Name:      s.Name,
				From:      s.Status,
				To:        want,
			})
			s.Status = want
		}
		out.Students[i] = s
	}
	return out
}
