package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/interfaces"
)

// watchlistRecord is the stored shape: one record per user, symbols in
// insertion order.
type watchlistRecord struct {
	Email   string   `json:"email"`
	Symbols []string `json:"symbols"`
}

// WatchlistStore persists per-user tracked symbols.
type WatchlistStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewWatchlistStore(db *surrealdb.DB, logger *common.Logger) *WatchlistStore {
	return &WatchlistStore{
		db:     db,
		logger: logger,
	}
}

func (s *WatchlistStore) GetSymbols(ctx context.Context, email string) ([]string, error) {
	record, err := surrealdb.Select[watchlistRecord](ctx, s.db, surrealmodels.NewRecordID("watchlist", email))
	if err != nil {
		if isNotFoundError(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to select watchlist: %w", err)
	}
	if record == nil || record.Email == "" {
		return []string{}, nil
	}
	return record.Symbols, nil
}

func (s *WatchlistStore) AddSymbol(ctx context.Context, email, symbol string) error {
	symbols, err := s.GetSymbols(ctx, email)
	if err != nil {
		return err
	}
	for _, existing := range symbols {
		if existing == symbol {
			return nil
		}
	}
	return s.save(ctx, email, append(symbols, symbol))
}

func (s *WatchlistStore) RemoveSymbol(ctx context.Context, email, symbol string) error {
	symbols, err := s.GetSymbols(ctx, email)
	if err != nil {
		return err
	}
	filtered := symbols[:0]
	for _, existing := range symbols {
		if existing != symbol {
			filtered = append(filtered, existing)
		}
	}
	return s.save(ctx, email, filtered)
}

func (s *WatchlistStore) save(ctx context.Context, email string, symbols []string) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("watchlist", email),
		"record": watchlistRecord{Email: email, Symbols: symbols},
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]watchlistRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save watchlist after retries: %w", lastErr)
}

// Ensure WatchlistStore implements the interface
var _ interfaces.WatchlistStore = (*WatchlistStore)(nil)
