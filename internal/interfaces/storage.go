// Package interfaces defines service contracts for FinSight
package interfaces

import (
	"context"

	"github.com/finsight-app/finsight/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	UserStore() UserStore
	WatchlistStore() WatchlistStore
	StepStore() StepStore

	Close() error
}

// UserStore manages registered accounts.
type UserStore interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, email string) error

	// ListSubscribed returns every user subscribed to the news digest.
	ListSubscribed(ctx context.Context) ([]*models.User, error)
}

// WatchlistStore manages per-user tracked symbols.
type WatchlistStore interface {
	// GetSymbols returns the tracked symbols for a user, in insertion order.
	// A user with no watchlist yields an empty slice, not an error.
	GetSymbols(ctx context.Context, email string) ([]string, error)
	AddSymbol(ctx context.Context, email, symbol string) error
	RemoveSymbol(ctx context.Context, email, symbol string) error
}

// StepStore persists durable-step completion markers keyed by run ID and
// step name.
type StepStore interface {
	Get(ctx context.Context, runID, stepName string) (*models.StepRecord, error)
	Put(ctx context.Context, record *models.StepRecord) error
}
