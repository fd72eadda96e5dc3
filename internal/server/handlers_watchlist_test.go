package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleWatchlist_RequiresIdentity(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	rec := httptest.NewRecorder()

	srv.handleWatchlist(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleWatchlist_GetReturnsSymbols(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	storage.watchlist.symbols["a@b.com"] = []string{"AAPL", "MSFT"}

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist?email=a@b.com", nil)
	rec := httptest.NewRecorder()

	srv.handleWatchlist(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Email   string   `json:"email"`
		Symbols []string `json:"symbols"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "a@b.com", resp.Email)
	assert.Equal(t, []string{"AAPL", "MSFT"}, resp.Symbols)
}

func TestHandleWatchlist_AddSymbolNormalizesCase(t *testing.T) {
	srv, storage, _ := newTestServer(t)

	body := jsonBody(t, map[string]string{"symbol": " tsla "})
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist?email=a@b.com", body)
	rec := httptest.NewRecorder()

	srv.handleWatchlist(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	symbols, err := storage.watchlist.GetSymbols(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA"}, symbols)
}

func TestHandleWatchlist_AddRejectsEmptySymbol(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := jsonBody(t, map[string]string{"symbol": "  "})
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist?email=a@b.com", body)
	rec := httptest.NewRecorder()

	srv.handleWatchlist(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWatchlist_RemoveSymbolViaQuery(t *testing.T) {
	srv, storage, _ := newTestServer(t)
	storage.watchlist.symbols["a@b.com"] = []string{"AAPL", "TSLA"}

	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist?email=a@b.com&symbol=AAPL", nil)
	rec := httptest.NewRecorder()

	srv.handleWatchlist(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	symbols, err := storage.watchlist.GetSymbols(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA"}, symbols)
}

func TestHandleWatchlist_MethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/watchlist?email=a@b.com", nil)
	rec := httptest.NewRecorder()

	srv.handleWatchlist(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
