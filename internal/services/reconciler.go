package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"seiva/internal/amqp"
	"seiva/internal/core"
	"seiva/internal/log"
	"seiva/internal/store"
)

// Reconciler re-derives student payment statuses on every load and writes
// corrections back to the store.
type Reconciler struct {
	students store.StudentStore
	rule     core.TuitionRule
	events   *amqp.Client
	logger   *log.Logger
}

func NewReconciler(students store.StudentStore, rule core.TuitionRule, events *amqp.Client, logger *log.Logger) *Reconciler {
	return &Reconciler{
		students: students,
		rule:     rule,
		events:   events,
		logger:   logger.WithComponent("reconciler"),
	}
}

// Apply computes the correct status for each student and pushes changed
// ones back to the store concurrently. Store failures are logged, never
// retried; the corrected slice is returned either way so callers always
// see the derived truth.
func (r *Reconciler) Apply(ctx context.Context, students []core.Student, transactions []core.Transaction, today core.CivilDate) []core.Student {
	result := core.Reconcile(students, transactions, today, r.rule)
	if len(result.Changed) == 0 {
		return result.Students
	}

	var g errgroup.Group
	g.SetLimit(8)
	for _, change := range result.Changed {
		g.Go(func() error {
			if err := r.students.UpdateStatus(ctx, change.StudentID, change.To); err != nil {
				r.logger.Error("Failed to persist status correction",
					"student_id", change.StudentID,
					"from", change.From,
					"to", change.To,
					"error", err)
				return nil
			}
			if r.events != nil {
				if err := r.events.Publish(ctx, amqp.NewStudentStatusSet(change.StudentID, change.To)); err != nil {
					r.logger.Error("Failed to publish status event",
						"student_id", change.StudentID, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info("Reconciled student statuses",
		"students", len(students),
		"changed", len(result.Changed))

	return result.Students
}
