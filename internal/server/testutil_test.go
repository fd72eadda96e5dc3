package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/finsight-app/finsight/internal/app"
	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/engine"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

// --- In-memory storage for handler tests ---

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (s *memUserStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (s *memUserStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = user
	return nil
}

func (s *memUserStore) DeleteUser(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, email)
	return nil
}

func (s *memUserStore) ListSubscribed(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, u := range s.users {
		if u.Subscribed {
			out = append(out, u)
		}
	}
	return out, nil
}

type memWatchlistStore struct {
	mu      sync.Mutex
	symbols map[string][]string
}

func (s *memWatchlistStore) GetSymbols(ctx context.Context, email string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.symbols[email]...), nil
}

func (s *memWatchlistStore) AddSymbol(ctx context.Context, email, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.symbols[email] {
		if existing == symbol {
			return nil
		}
	}
	s.symbols[email] = append(s.symbols[email], symbol)
	return nil
}

func (s *memWatchlistStore) RemoveSymbol(ctx context.Context, email, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.symbols[email][:0]
	for _, existing := range s.symbols[email] {
		if existing != symbol {
			kept = append(kept, existing)
		}
	}
	s.symbols[email] = kept
	return nil
}

type memStorage struct {
	users     *memUserStore
	watchlist *memWatchlistStore
	steps     interfaces.StepStore
}

func (m *memStorage) UserStore() interfaces.UserStore           { return m.users }
func (m *memStorage) WatchlistStore() interfaces.WatchlistStore { return m.watchlist }
func (m *memStorage) StepStore() interfaces.StepStore           { return m.steps }
func (m *memStorage) Close() error                              { return nil }

// recordingRouter captures routed triggers instead of running pipelines.
type recordingRouter struct {
	mu       sync.Mutex
	triggers []models.Trigger
	runIDs   []string
	done     chan struct{}
}

func newRecordingRouter() *recordingRouter {
	return &recordingRouter{done: make(chan struct{}, 16)}
}

func (r *recordingRouter) Route(ctx context.Context, runID string, trigger models.Trigger) *models.RunReport {
	r.mu.Lock()
	r.triggers = append(r.triggers, trigger)
	r.runIDs = append(r.runIDs, runID)
	r.mu.Unlock()
	r.done <- struct{}{}
	return &models.RunReport{Success: true}
}

func (r *recordingRouter) routed() []models.Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Trigger{}, r.triggers...)
}

// newTestServer builds a Server over in-memory storage and a recording
// router.
func newTestServer(t *testing.T) (*Server, *memStorage, *recordingRouter) {
	t.Helper()

	storage := &memStorage{
		users:     &memUserStore{users: make(map[string]*models.User)},
		watchlist: &memWatchlistStore{symbols: make(map[string][]string)},
		steps:     engine.NewMemoryStepStore(),
	}
	router := newRecordingRouter()

	a := &app.App{
		Config:  common.NewDefaultConfig(),
		Logger:  common.NewSilentLogger(),
		Storage: storage,
		Router:  router,
	}

	return NewServer(a), storage, router
}

// jsonBody encodes v for use as a request body.
func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return &buf
}
