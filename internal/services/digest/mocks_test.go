package digest

import (
	"context"
	"fmt"
	"sync"

	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

// --- Test doubles ---

type mockNewsClient struct {
	companyNews  []models.NewsArticle
	companyErr   error
	marketNews   []models.NewsArticle
	marketErr    error
	companyCalls int
	marketCalls  int
}

func (m *mockNewsClient) GetCompanyNews(ctx context.Context, symbols []string, limit int) ([]models.NewsArticle, error) {
	m.companyCalls++
	return m.companyNews, m.companyErr
}

func (m *mockNewsClient) GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	m.marketCalls++
	return m.marketNews, m.marketErr
}

type mockGeminiClient struct {
	text  string
	err   error
	calls int

	// failFor marks per-call failures by call ordinal (1-based).
	failFor map[int]error

	mu sync.Mutex
}

func (m *mockGeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.failFor[m.calls]; ok {
		return "", err
	}
	return m.text, m.err
}

type sentMail struct {
	Email   string
	Date    string
	Content string
}

type mockMailClient struct {
	mu       sync.Mutex
	digests  []sentMail
	welcomes []sentMail
	failFor  map[string]error // keyed by recipient email
}

func (m *mockMailClient) SendDigest(ctx context.Context, email, date, newsContent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[email]; ok {
		return err
	}
	m.digests = append(m.digests, sentMail{Email: email, Date: date, Content: newsContent})
	return nil
}

func (m *mockMailClient) SendWelcome(ctx context.Context, email, name, intro string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[email]; ok {
		return err
	}
	m.welcomes = append(m.welcomes, sentMail{Email: email, Content: intro})
	return nil
}

func (m *mockMailClient) sentDigests() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.digests))
	copy(out, m.digests)
	return out
}

type mockUserStore struct {
	users   []*models.User
	listErr error
}

func (m *mockUserStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *mockUserStore) SaveUser(ctx context.Context, user *models.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserStore) DeleteUser(ctx context.Context, email string) error { return nil }

func (m *mockUserStore) ListSubscribed(ctx context.Context) ([]*models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.User
	for _, u := range m.users {
		if u.Subscribed {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockWatchlistStore struct {
	symbols map[string][]string
	getErr  error
}

func (m *mockWatchlistStore) GetSymbols(ctx context.Context, email string) ([]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.symbols[email], nil
}

func (m *mockWatchlistStore) AddSymbol(ctx context.Context, email, symbol string) error {
	if m.symbols == nil {
		m.symbols = make(map[string][]string)
	}
	m.symbols[email] = append(m.symbols[email], symbol)
	return nil
}

func (m *mockWatchlistStore) RemoveSymbol(ctx context.Context, email, symbol string) error {
	return nil
}

type mockStorage struct {
	users     *mockUserStore
	watchlist *mockWatchlistStore
	steps     interfaces.StepStore
}

func (m *mockStorage) UserStore() interfaces.UserStore           { return m.users }
func (m *mockStorage) WatchlistStore() interfaces.WatchlistStore { return m.watchlist }
func (m *mockStorage) StepStore() interfaces.StepStore           { return m.steps }
func (m *mockStorage) Close() error                              { return nil }

// testArticles builds n distinct articles.
func testArticles(n int) []models.NewsArticle {
	articles := make([]models.NewsArticle, n)
	for i := range articles {
		articles[i] = models.NewsArticle{
			Headline: fmt.Sprintf("Story %d", i+1),
			Summary:  fmt.Sprintf("Summary of story %d", i+1),
			Source:   "wire",
		}
	}
	return articles
}
