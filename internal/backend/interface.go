package backend

import (
	"context"

	"seiva/internal/store"
)

// Backend bundles the store ports a running instance needs.
type Backend struct {
	Transactions store.TransactionStore
	Students     store.StudentStore
	Settings     store.SettingsStore
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Supabase specific
	SupabaseURL string
	SupabaseKey string
}

// Type represents the kind of data backend.
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	SupabaseBackend Type = "supabase"
	MemoryBackend   Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SupabaseBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
