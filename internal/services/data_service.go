// Package services orchestrates the store ports, reconciliation and event
// publishing behind the HTTP handlers.
package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"seiva/internal/amqp"
	"seiva/internal/core"
	"seiva/internal/log"
	"seiva/internal/store"
)

// Snapshot is the result of one load: both collections plus a flag
// telling the caller the store could not be reached. A failed load never
// surfaces partial data.
type Snapshot struct {
	Seq          uint64
	Transactions []core.Transaction
	Students     []core.Student
	StoreError   bool
}

// DataService owns the session's view of the data. Loads are numbered so
// a slow fetch finishing after a newer one never overwrites fresher
// state.
type DataService struct {
	transactions store.TransactionStore
	students     store.StudentStore
	reconciler   *Reconciler
	amqpClient   *amqp.Client
	logger       *log.Logger

	mu      sync.Mutex
	nextSeq uint64
	applied uint64
	latest  Snapshot
}

func NewDataService(transactions store.TransactionStore, students store.StudentStore, reconciler *Reconciler, amqpClient *amqp.Client, logger *log.Logger) *DataService {
	return &DataService{
		transactions: transactions,
		students:     students,
		reconciler:   reconciler,
		amqpClient:   amqpClient,
		logger:       logger.WithComponent("data"),
	}
}

// Load fetches both collections concurrently, reconciles student statuses
// and returns the snapshot. When a concurrent load has already applied a
// newer sequence, the stale result is discarded and the fresher snapshot
// returned instead.
func (s *DataService) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()

	var (
		transactions []core.Transaction
		students     []core.Student
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.FetchAll(gctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		students, err = s.students.FetchAll(gctx)
		if err != nil {
			return fmt.Errorf("fetch students: %w", err)
		}
		return nil
	})

	snap := Snapshot{Seq: seq}
	if err := g.Wait(); err != nil {
		s.logger.Error("Load failed, serving empty collections", "seq", seq, "error", err)
		snap.StoreError = true
	} else {
		snap.Transactions = transactions
		snap.Students = s.reconciler.Apply(ctx, students, transactions, core.Today())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.logger.Warn("Discarding stale load", "seq", seq, "applied", s.applied)
		return s.latest
	}
	s.applied = seq
	s.latest = snap
	return snap
}

// AddTransaction validates, derives the type label from the account and
// persists the transaction, then publishes a mirror event.
func (s *DataService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.AccountCode != "" {
		t.Type = core.AccountName(t.AccountCode)
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.transactions.Insert(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionCreated(created))
	return created, nil
}

func (s *DataService) DeleteTransaction(ctx context.Context, id core.ID) error {
	if err := s.transactions.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewTransactionDeleted(id))
	return nil
}

func (s *DataService) AddStudent(ctx context.Context, st core.Student) (core.Student, error) {
	if st.Status == "" {
		st.Status = core.StatusPending
	}
	if err := st.Validate(); err != nil {
		return core.Student{}, err
	}

	created, err := s.students.Insert(ctx, st)
	if err != nil {
		return core.Student{}, fmt.Errorf("add student: %w", err)
	}

	s.publish(ctx, amqp.NewStudentCreated(created))
	return created, nil
}

func (s *DataService) DeleteStudent(ctx context.Context, id core.ID) error {
	if err := s.students.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewStudentDeleted(id))
	return nil
}

// publish sends a mirror event when AMQP is configured. Event delivery is
// best effort, a broker outage never fails the request.
func (s *DataService) publish(ctx context.Context, event *amqp.MirrorEvent) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish mirror event", "kind", event.Kind, "error", err)
	}
}
