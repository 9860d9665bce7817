package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"seiva/internal/core"
	"seiva/internal/store"
)

func TestTransactionInsertFetchDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Insert(ctx, core.Transaction{
		Date:        core.NewCivilDate(2025, 6, 5),
		Category:    core.Income,
		Description: "Mensalidade - Maria",
		Amount:      decimal.NewFromInt(2310),
		AccountCode: "7.2",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.ID == "" {
		t.Fatal("insert did not assign an id")
	}

	second, err := s.Insert(ctx, core.Transaction{
		Date:        core.NewCivilDate(2025, 6, 20),
		Category:    core.Expense,
		Description: "Material escolar",
		Amount:      decimal.NewFromInt(150),
		AccountCode: "6.1",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := s.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("fetched %d transactions, want 2", len(all))
	}
	if !all[0].ID.Equal(second.ID) {
		t.Fatalf("expected newest first, got %q", all[0].ID)
	}

	if err := s.DeleteByID(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteByID(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestTransactionInsertRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Insert(context.Background(), core.Transaction{
		Date:        core.NewCivilDate(2025, 6, 5),
		Category:    "transfer",
		Description: "x",
		Amount:      decimal.NewFromInt(1),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestStudentsOrderedByName(t *testing.T) {
	s := New()
	ctx := context.Background()
	students := s.Students()

	for _, name := range []string{"Carlos", "Ana", "Beatriz"} {
		if _, err := students.Insert(ctx, core.Student{
			Name:   name,
			Class:  "2ª Classe",
			Status: core.StatusPending,
		}); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	all, err := students.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	got := []string{all[0].Name, all[1].Name, all[2].Name}
	want := []string{"Ana", "Beatriz", "Carlos"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestStudentUpdateStatus(t *testing.T) {
	s := New()
	ctx := context.Background()
	students := s.Students()

	st, err := students.Insert(ctx, core.Student{Name: "Ana", Class: "1ª Classe", Status: core.StatusPending})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := students.UpdateStatus(ctx, st.ID, core.StatusPaid); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ := students.FetchAll(ctx)
	if all[0].Status != core.StatusPaid {
		t.Fatalf("status = %q, want Paid", all[0].Status)
	}

	if err := students.UpdateStatus(ctx, "999", core.StatusLate); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown id = %v, want ErrNotFound", err)
	}
}

func TestSeedAdvancesIDCounter(t *testing.T) {
	s := New()
	s.Seed([]core.Transaction{{ID: "7"}}, []core.Student{{ID: "12"}})

	st, err := s.Students().Insert(context.Background(), core.Student{Name: "Ana", Class: "1ª Classe", Status: core.StatusPending})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if st.ID != "13" {
		t.Fatalf("id = %q, want 13", st.ID)
	}
}

func TestSettingsLogoRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	settings := s.Settings()

	url, err := settings.LogoURL(ctx)
	if err != nil || url != "" {
		t.Fatalf("initial logo = %q err=%v", url, err)
	}
	if err := settings.SetLogoURL(ctx, "https://example.com/logo.png"); err != nil {
		t.Fatalf("set: %v", err)
	}
	url, _ = settings.LogoURL(ctx)
	if url != "https://example.com/logo.png" {
		t.Fatalf("logo = %q", url)
	}
}
