// Package store defines the outbound ports for transaction, student and
// settings persistence. Adapters live in subpackages.
package store

import (
	"context"
	"errors"

	"seiva/internal/core"
)

var ErrNotFound = errors.New("record not found")

// Ports for outbound adapters.
type (
	// TransactionStore persists financial transactions. FetchAll returns
	// them ordered by date descending.
	TransactionStore interface {
		FetchAll(ctx context.Context) ([]core.Transaction, error)
		Insert(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteByID(ctx context.Context, id core.ID) error
	}

	// StudentStore persists enrolled students. FetchAll returns them
	// ordered by name ascending.
	StudentStore interface {
		FetchAll(ctx context.Context) ([]core.Student, error)
		Insert(ctx context.Context, s core.Student) (core.Student, error)
		DeleteByID(ctx context.Context, id core.ID) error
		UpdateStatus(ctx context.Context, id core.ID, status core.Status) error
	}

	// SettingsStore holds the handful of mutable instance settings,
	// currently just the school logo.
	SettingsStore interface {
		LogoURL(ctx context.Context) (string, error)
		SetLogoURL(ctx context.Context, url string) error
	}
)
