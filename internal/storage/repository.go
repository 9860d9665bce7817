// Package storage implements the store ports on a local SQLite database.
// It backs the sqlite data backend and the mirror kept by the worker.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"seiva/internal/core"
	"seiva/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Transactions returns the transaction port backed by this repository.
func (r *SQLiteRepository) Transactions() *TransactionRepo {
	return &TransactionRepo{db: r.db}
}

// Students returns the student port backed by this repository.
func (r *SQLiteRepository) Students() *StudentRepo {
	return &StudentRepo{db: r.db}
}

// Settings returns the settings port backed by this repository.
func (r *SQLiteRepository) Settings() *SettingsRepo {
	return &SettingsRepo{db: r.db}
}

// Mirror returns the write side used by the worker to replicate hosted
// records, keeping their original ids.
func (r *SQLiteRepository) Mirror() *Mirror {
	return &Mirror{db: r.db}
}

const transactionColumns = "id, date, category, type, description, amount, payment_method, recurrence, account_code, student_id, student_name"

type TransactionRepo struct {
	db *sql.DB
}

func (r *TransactionRepo) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Insert(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, category, type, description, amount, payment_method, recurrence, account_code, student_id, student_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.String(), string(t.Category), t.Type, t.Description, t.Amount.String(),
		t.PaymentMethod, string(t.Recurrence), t.AccountCode, string(t.StudentID), t.StudentName)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction id: %w", err)
	}
	t.ID = core.ID(strconv.FormatInt(id, 10))
	return t, nil
}

func (r *TransactionRepo) DeleteByID(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return requireAffected(res)
}

type StudentRepo struct {
	db *sql.DB
}

func (r *StudentRepo) FetchAll(ctx context.Context) ([]core.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, class, guardian, status FROM students ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("fetch students: %w", err)
	}
	defer rows.Close()

	var out []core.Student
	for rows.Next() {
		var (
			id int64
			s  core.Student
		)
		if err := rows.Scan(&id, &s.Name, &s.Class, &s.Guardian, &s.Status); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		s.ID = core.ID(strconv.FormatInt(id, 10))
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StudentRepo) Insert(ctx context.Context, s core.Student) (core.Student, error) {
	if err := s.Validate(); err != nil {
		return core.Student{}, err
	}
	if s.Status == "" {
		s.Status = core.StatusPending
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO students (name, class, guardian, status) VALUES (?, ?, ?, ?)",
		s.Name, s.Class, s.Guardian, string(s.Status))
	if err != nil {
		return core.Student{}, fmt.Errorf("insert student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Student{}, fmt.Errorf("insert student id: %w", err)
	}
	s.ID = core.ID(strconv.FormatInt(id, 10))
	return s, nil
}

func (r *StudentRepo) DeleteByID(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	return requireAffected(res)
}

func (r *StudentRepo) UpdateStatus(ctx context.Context, id core.ID, status core.Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE students SET status = ? WHERE id = ?", string(status), string(id))
	if err != nil {
		return fmt.Errorf("update student %s status: %w", id, err)
	}
	return requireAffected(res)
}

type SettingsRepo struct {
	db *sql.DB
}

const logoSettingKey = "school_logo_url"

func (r *SettingsRepo) LogoURL(ctx context.Context) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", logoSettingKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch logo setting: %w", err)
	}
	return value, nil
}

func (r *SettingsRepo) SetLogoURL(ctx context.Context, url string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		logoSettingKey, url)
	if err != nil {
		return fmt.Errorf("save logo setting: %w", err)
	}
	return nil
}

// Mirror replicates records from the hosted store, preserving their ids so
// later events can find them.
type Mirror struct {
	db *sql.DB
}

func (m *Mirror) UpsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO transactions (id, date, category, type, description, amount, payment_method, recurrence, account_code, student_id, student_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date = excluded.date, category = excluded.category, type = excluded.type,
		   description = excluded.description, amount = excluded.amount,
		   payment_method = excluded.payment_method, recurrence = excluded.recurrence,
		   account_code = excluded.account_code, student_id = excluded.student_id,
		   student_name = excluded.student_name`,
		string(t.ID), t.Date.String(), string(t.Category), t.Type, t.Description, t.Amount.String(),
		t.PaymentMethod, string(t.Recurrence), t.AccountCode, string(t.StudentID), t.StudentName)
	if err != nil {
		return fmt.Errorf("mirror transaction %s: %w", t.ID, err)
	}
	return nil
}

func (m *Mirror) DeleteTransaction(ctx context.Context, id core.ID) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("mirror delete transaction %s: %w", id, err)
	}
	return nil
}

func (m *Mirror) UpsertStudent(ctx context.Context, s core.Student) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO students (id, name, class, guardian, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, class = excluded.class,
		   guardian = excluded.guardian, status = excluded.status`,
		string(s.ID), s.Name, s.Class, s.Guardian, string(s.Status))
	if err != nil {
		return fmt.Errorf("mirror student %s: %w", s.ID, err)
	}
	return nil
}

func (m *Mirror) DeleteStudent(ctx context.Context, id core.ID) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("mirror delete student %s: %w", id, err)
	}
	return nil
}

func (m *Mirror) SetStudentStatus(ctx context.Context, id core.ID, status core.Status) error {
	_, err := m.db.ExecContext(ctx,
		"UPDATE students SET status = ? WHERE id = ?", string(status), string(id))
	if err != nil {
		return fmt.Errorf("mirror student %s status: %w", id, err)
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		id     int64
		date   string
		amount string
		t      core.Transaction
	)
	if err := rows.Scan(&id, &date, &t.Category, &t.Type, &t.Description, &amount,
		&t.PaymentMethod, &t.Recurrence, &t.AccountCode, &t.StudentID, &t.StudentName); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.ID = core.ID(strconv.FormatInt(id, 10))

	d, err := core.ParseCivilDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d date %q: %w", id, date, err)
	}
	t.Date = d

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d amount %q: %w", id, amount, err)
	}
	t.Amount = a
	return t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
