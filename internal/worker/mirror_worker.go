// Package worker applies mirror events from AMQP to a local SQLite copy
// of the hosted store.
package worker

import (
	"context"
	"fmt"

	"seiva/internal/amqp"
	"seiva/internal/log"
	"seiva/internal/storage"
)

type MirrorWorker struct {
	mirror *storage.Mirror
	logger *log.Logger
}

func NewMirrorWorker(repo *storage.SQLiteRepository, logger *log.Logger) *MirrorWorker {
	return &MirrorWorker{
		mirror: repo.Mirror(),
		logger: logger.WithComponent("mirror"),
	}
}

// HandleEvent applies one event to the mirror. Replays are safe: created
// events upsert and deletes of missing rows are no-ops.
func (w *MirrorWorker) HandleEvent(ctx context.Context, event *amqp.MirrorEvent) error {
	switch event.Kind {
	case amqp.TransactionCreated:
		if event.Transaction == nil {
			return fmt.Errorf("transaction event without payload")
		}
		if err := w.mirror.UpsertTransaction(ctx, *event.Transaction); err != nil {
			return err
		}
		w.logger.Info("Mirrored transaction", "id", event.Transaction.ID)
		return nil

	case amqp.TransactionDeleted:
		if err := w.mirror.DeleteTransaction(ctx, event.ID); err != nil {
			return err
		}
		w.logger.Info("Removed mirrored transaction", "id", event.ID)
		return nil

	case amqp.StudentCreated:
		if event.Student == nil {
			return fmt.Errorf("student event without payload")
		}
		if err := w.mirror.UpsertStudent(ctx, *event.Student); err != nil {
			return err
		}
		w.logger.Info("Mirrored student", "id", event.Student.ID)
		return nil

	case amqp.StudentDeleted:
		if err := w.mirror.DeleteStudent(ctx, event.ID); err != nil {
			return err
		}
		w.logger.Info("Removed mirrored student", "id", event.ID)
		return nil

	case amqp.StudentStatusSet:
		if err := w.mirror.SetStudentStatus(ctx, event.ID, event.Status); err != nil {
			return err
		}
		w.logger.Info("Mirrored status change", "id", event.ID, "status", event.Status)
		return nil

	default:
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}
}

// Run consumes events until the context is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.Consume(ctx, func(event *amqp.MirrorEvent) error {
		return w.HandleEvent(ctx, event)
	})
}
