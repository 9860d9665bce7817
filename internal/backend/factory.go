// Package backend selects and wires a data backend from configuration.
package backend

import (
	"context"
	"fmt"

	"seiva/internal/log"
	"seiva/internal/storage"
	"seiva/internal/store/memory"
	"seiva/internal/store/supabase"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent("backend"),
	}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SupabaseBackend:
		return f.createSupabaseBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Backend: Backend{
			Transactions: repo.Transactions(),
			Students:     repo.Students(),
			Settings:     repo.Settings(),
		},
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSupabaseBackend(config Config) (*Result, error) {
	client, err := supabase.New(config.SupabaseURL, config.SupabaseKey)
	if err != nil {
		return nil, fmt.Errorf("initialize Supabase client: %w", err)
	}

	f.logger.Info("Initialized Supabase backend", "url", config.SupabaseURL)

	return &Result{
		Backend: Backend{
			Transactions: client.Transactions(),
			Students:     client.Students(),
			Settings:     client.Settings(),
		},
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend")

	return &Result{
		Backend: Backend{
			Transactions: store,
			Students:     store.Students(),
			Settings:     store.Settings(),
		},
		Cleanup: nil,
	}, nil
}
