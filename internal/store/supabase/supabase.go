// Package supabase adapts the store ports to a hosted Supabase project
// through its PostgREST API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"

	"seiva/internal/core"
	"seiva/internal/store"
)

const (
	transactionsTable = "transactions"
	studentsTable     = "students"
	settingsTable     = "settings"

	logoSettingKey = "school_logo_url"
)

type Client struct {
	rest *postgrest.Client
}

// New builds a client for the given Supabase project. url is the project
// base URL, key the anon or service role key.
func New(url, key string) (*Client, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase: url and key are required")
	}
	rest := postgrest.NewClient(strings.TrimRight(url, "/")+"/rest/v1", "public", map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("supabase: create client: %w", rest.ClientError)
	}
	return &Client{rest: rest}, nil
}

// Transactions returns the transaction port backed by this client.
func (c *Client) Transactions() *TransactionStore {
	return &TransactionStore{rest: c.rest}
}

// Students returns the student port backed by this client.
func (c *Client) Students() *StudentStore {
	return &StudentStore{rest: c.rest}
}

// Settings returns the settings port backed by this client.
func (c *Client) Settings() *SettingsStore {
	return &SettingsStore{rest: c.rest}
}

type TransactionStore struct {
	rest *postgrest.Client
}

func (s *TransactionStore) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	data, _, err := s.rest.From(transactionsTable).
		Select("*", "", false).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("supabase: fetch transactions: %w", err)
	}
	var out []core.Transaction
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("supabase: decode transactions: %w", err)
	}
	return out, nil
}

func (s *TransactionStore) Insert(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	row := transactionRow(t)
	data, _, err := s.rest.From(transactionsTable).
		Insert(row, false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("supabase: insert transaction: %w", err)
	}
	var created []core.Transaction
	if err := json.Unmarshal(data, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("supabase: decode inserted transaction: %w", err)
	}
	if len(created) == 0 {
		return core.Transaction{}, fmt.Errorf("supabase: insert returned no rows")
	}
	return created[0], nil
}

func (s *TransactionStore) DeleteByID(ctx context.Context, id core.ID) error {
	data, _, err := s.rest.From(transactionsTable).
		Delete("representation", "").
		Eq("id", string(id)).
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("supabase: delete transaction %s: %w", id, err)
	}
	if emptyResult(data) {
		return store.ErrNotFound
	}
	return nil
}

type StudentStore struct {
	rest *postgrest.Client
}

func (s *StudentStore) FetchAll(ctx context.Context) ([]core.Student, error) {
	data, _, err := s.rest.From(studentsTable).
		Select("*", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("supabase: fetch students: %w", err)
	}
	var out []core.Student
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("supabase: decode students: %w", err)
	}
	return out, nil
}

func (s *StudentStore) Insert(ctx context.Context, st core.Student) (core.Student, error) {
	if err := st.Validate(); err != nil {
		return core.Student{}, err
	}
	row := map[string]any{
		"name":     st.Name,
		"class":    st.Class,
		"guardian": st.Guardian,
		"status":   string(st.Status),
	}
	data, _, err := s.rest.From(studentsTable).
		Insert(row, false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return core.Student{}, fmt.Errorf("supabase: insert student: %w", err)
	}
	var created []core.Student
	if err := json.Unmarshal(data, &created); err != nil {
		return core.Student{}, fmt.Errorf("supabase: decode inserted student: %w", err)
	}
	if len(created) == 0 {
		return core.Student{}, fmt.Errorf("supabase: insert returned no rows")
	}
	return created[0], nil
}

func (s *StudentStore) DeleteByID(ctx context.Context, id core.ID) error {
	data, _, err := s.rest.From(studentsTable).
		Delete("representation", "").
		Eq("id", string(id)).
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("supabase: delete student %s: %w", id, err)
	}
	if emptyResult(data) {
		return store.ErrNotFound
	}
	return nil
}

func (s *StudentStore) UpdateStatus(ctx context.Context, id core.ID, status core.Status) error {
	data, _, err := s.rest.From(studentsTable).
		Update(map[string]any{"status": string(status)}, "representation", "").
		Eq("id", string(id)).
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("supabase: update student %s status: %w", id, err)
	}
	if emptyResult(data) {
		return store.ErrNotFound
	}
	return nil
}

type SettingsStore struct {
	rest *postgrest.Client
}

type settingRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *SettingsStore) LogoURL(ctx context.Context) (string, error) {
	data, _, err := s.rest.From(settingsTable).
		Select("key,value", "", false).
		Eq("key", logoSettingKey).
		ExecuteWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("supabase: fetch logo setting: %w", err)
	}
	var rows []settingRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("supabase: decode logo setting: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Value, nil
}

func (s *SettingsStore) SetLogoURL(ctx context.Context, url string) error {
	row := settingRow{Key: logoSettingKey, Value: url}
	_, _, err := s.rest.From(settingsTable).
		Insert(row, true, "key", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("supabase: save logo setting: %w", err)
	}
	return nil
}

// transactionRow flattens a transaction for PostgREST, letting the
// database assign the id.
func transactionRow(t core.Transaction) map[string]any {
	row := map[string]any{
		"date":          t.Date.String(),
		"category":      string(t.Category),
		"description":   t.Description,
		"amount":        t.Amount.String(),
		"type":          t.Type,
		"paymentMethod": t.PaymentMethod,
		"recurrence":    string(t.Recurrence),
		"account_code":  t.AccountCode,
		"student_id":    string(t.StudentID),
		"student_name":  t.StudentName,
	}
	return row
}

func emptyResult(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return trimmed == "" || trimmed == "[]" || trimmed == "null"
}
