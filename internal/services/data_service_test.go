package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"seiva/internal/core"
	"seiva/internal/log"
	"seiva/internal/store"
	"seiva/internal/store/memory"
)

func newTestService(t *testing.T) (*DataService, *memory.Store) {
	t.Helper()
	mem := memory.New()
	logger := log.New(log.DefaultConfig())
	reconciler := NewReconciler(mem.Students(), core.DefaultTuitionRule(), nil, logger)
	return NewDataService(mem, mem.Students(), reconciler, nil, logger), mem
}

func TestLoadReconcilesStatuses(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	student, err := mem.Students().Insert(ctx, core.Student{
		Name:   "Maria",
		Class:  "1ª Classe",
		Status: core.StatusLate,
	})
	if err != nil {
		t.Fatalf("insert student: %v", err)
	}

	today := core.Today()
	if _, err := mem.Insert(ctx, core.Transaction{
		Date:        today,
		Category:    core.Income,
		Description: "Mensalidade - Maria",
		Amount:      decimal.NewFromInt(2310),
		AccountCode: core.TuitionAccountCode,
		StudentID:   student.ID,
		StudentName: "Maria",
	}); err != nil {
		t.Fatalf("insert transaction: %v", err)
	}

	snap := svc.Load(ctx)
	if snap.StoreError {
		t.Fatal("unexpected store error")
	}
	if len(snap.Students) != 1 || snap.Students[0].Status != core.StatusPaid {
		t.Fatalf("snapshot status = %v, want Paid", snap.Students)
	}

	// The correction must also have been written back.
	persisted, _ := mem.Students().FetchAll(ctx)
	if persisted[0].Status != core.StatusPaid {
		t.Fatalf("persisted status = %q, want Paid", persisted[0].Status)
	}
}

type failingTransactionStore struct{}

func (failingTransactionStore) FetchAll(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("store down")
}
func (failingTransactionStore) Insert(context.Context, core.Transaction) (core.Transaction, error) {
	return core.Transaction{}, errors.New("store down")
}
func (failingTransactionStore) DeleteByID(context.Context, core.ID) error {
	return errors.New("store down")
}

func TestLoadStoreFailureYieldsEmptySnapshot(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()
	if _, err := mem.Students().Insert(ctx, core.Student{Name: "Ana", Class: "1ª Classe", Status: core.StatusPending}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	logger := log.New(log.DefaultConfig())
	reconciler := NewReconciler(mem.Students(), core.DefaultTuitionRule(), nil, logger)
	svc := NewDataService(failingTransactionStore{}, mem.Students(), reconciler, nil, logger)

	snap := svc.Load(ctx)
	if !snap.StoreError {
		t.Fatal("expected StoreError")
	}
	if len(snap.Transactions) != 0 || len(snap.Students) != 0 {
		t.Fatal("failed load must not surface partial data")
	}
}

// gatedTransactionStore blocks the first fetch until released so a test
// can interleave a faster second load.
type gatedTransactionStore struct {
	store.TransactionStore
	entered chan struct{}
	release chan struct{}
	first   bool
	mu      sync.Mutex
}

func (g *gatedTransactionStore) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	g.mu.Lock()
	block := !g.first
	g.first = true
	g.mu.Unlock()
	if block {
		close(g.entered)
		<-g.release
	}
	return g.TransactionStore.FetchAll(ctx)
}

func TestLoadDiscardsStaleResponse(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()

	logger := log.New(log.DefaultConfig())
	reconciler := NewReconciler(mem.Students(), core.DefaultTuitionRule(), nil, logger)
	gated := &gatedTransactionStore{
		TransactionStore: mem,
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	svc := NewDataService(gated, mem.Students(), reconciler, nil, logger)

	slow := make(chan Snapshot)
	go func() {
		slow <- svc.Load(ctx)
	}()
	<-gated.entered

	// Second load completes while the first is still blocked.
	fast := svc.Load(ctx)
	if fast.Seq != 2 {
		t.Fatalf("fast load seq = %d, want 2", fast.Seq)
	}

	close(gated.release)
	stale := <-slow
	if stale.Seq != 2 {
		t.Fatalf("stale load returned seq %d, want the fresher snapshot", stale.Seq)
	}
}

func TestAddTransactionDerivesTypeFromAccount(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.AddTransaction(context.Background(), core.Transaction{
		Date:        core.NewCivilDate(2025, 6, 5),
		Category:    core.Income,
		Description: "Mensalidade - Maria",
		Amount:      decimal.NewFromInt(2310),
		AccountCode: "7.2",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.Type != "Mensalidades" {
		t.Fatalf("type = %q, want Mensalidades", created.Type)
	}
	if created.ID == "" {
		t.Fatal("missing id")
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddTransaction(context.Background(), core.Transaction{
		Date:        core.NewCivilDate(2025, 6, 5),
		Category:    "transfer",
		Description: "x",
		Amount:      decimal.NewFromInt(1),
	})
	if !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestDeleteUnknownTransaction(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.DeleteTransaction(context.Background(), "999"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddStudentDefaultsToPending(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.AddStudent(context.Background(), core.Student{
		Name:  "Carlos",
		Class: "3ª Classe",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.Status != core.StatusPending {
		t.Fatalf("status = %q, want Pending", created.Status)
	}
}
