// Package memory provides an in-process store used by the memory backend
// and by tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"seiva/internal/core"
	"seiva/internal/store"
)

type Store struct {
	mu           sync.Mutex
	nextID       int
	transactions []core.Transaction
	students     []core.Student
	logoURL      string
}

func New() *Store {
	return &Store{nextID: 1}
}

// Seed preloads records without going through validation. Intended for
// tests and the demo backend.
func (s *Store) Seed(transactions []core.Transaction, students []core.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, transactions...)
	s.students = append(s.students, students...)
	for _, t := range transactions {
		if n, err := strconv.Atoi(string(t.ID)); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	for _, st := range students {
		if n, err := strconv.Atoi(string(st.ID)); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
}

func (s *Store) FetchAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.String() > out[j].Date.String()
	})
	return out, nil
}

func (s *Store) Insert(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = core.ID(strconv.Itoa(s.nextID))
	s.nextID++
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) DeleteByID(_ context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions {
		if t.ID.Equal(id) {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Students returns a separate view over the same store so the backend can
// hand out both ports from one instance.
func (s *Store) Students() *StudentStore {
	return &StudentStore{store: s}
}

// Settings returns the settings view of the store.
func (s *Store) Settings() *SettingsStore {
	return &SettingsStore{store: s}
}

type StudentStore struct {
	store *Store
}

func (ss *StudentStore) FetchAll(_ context.Context) ([]core.Student, error) {
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	out := append([]core.Student(nil), ss.store.students...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (ss *StudentStore) Insert(_ context.Context, st core.Student) (core.Student, error) {
	if err := st.Validate(); err != nil {
		return core.Student{}, err
	}
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	st.ID = core.ID(strconv.Itoa(ss.store.nextID))
	ss.store.nextID++
	ss.store.students = append(ss.store.students, st)
	return st, nil
}

func (ss *StudentStore) DeleteByID(_ context.Context, id core.ID) error {
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	for i, st := range ss.store.students {
		if st.ID.Equal(id) {
			ss.store.students = append(ss.store.students[:i], ss.store.students[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (ss *StudentStore) UpdateStatus(_ context.Context, id core.ID, status core.Status) error {
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	for i, st := range ss.store.students {
		if st.ID.Equal(id) {
			ss.store.students[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type SettingsStore struct {
	store *Store
}

func (st *SettingsStore) LogoURL(_ context.Context) (string, error) {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	return st.store.logoURL, nil
}

func (st *SettingsStore) SetLogoURL(_ context.Context, url string) error {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	st.store.logoURL = url
	return nil
}
