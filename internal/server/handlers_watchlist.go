package server

import (
	"net/http"
	"strings"
)

type watchlistMutation struct {
	Symbol string `json:"symbol"`
}

// handleWatchlist serves the tracked-symbol list behind the digest's
// symbol-scoped news fetch. GET lists, POST adds, DELETE removes.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	email := s.emailFromRequest(r)
	if email == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	store := s.app.Storage.WatchlistStore()
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		symbols, err := store.GetSymbols(ctx, email)
		if err != nil {
			s.logger.Error().Err(err).Str("email", email).Msg("Failed to load watchlist")
			WriteError(w, http.StatusInternalServerError, "Failed to load watchlist")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"email":   email,
			"symbols": symbols,
		})

	case http.MethodPost:
		var req watchlistMutation
		if !DecodeJSON(w, r, &req) {
			return
		}
		symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
		if symbol == "" {
			WriteError(w, http.StatusBadRequest, "Symbol is required")
			return
		}
		if err := store.AddSymbol(ctx, email, symbol); err != nil {
			s.logger.Error().Err(err).Str("email", email).Str("symbol", symbol).Msg("Failed to add symbol")
			WriteError(w, http.StatusInternalServerError, "Failed to add symbol")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "symbol": symbol})

	case http.MethodDelete:
		symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
		if symbol == "" {
			var req watchlistMutation
			DecodeJSONLenient(r, &req)
			symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
		}
		if symbol == "" {
			WriteError(w, http.StatusBadRequest, "Symbol is required")
			return
		}
		if err := store.RemoveSymbol(ctx, email, symbol); err != nil {
			s.logger.Error().Err(err).Str("email", email).Str("symbol", symbol).Msg("Failed to remove symbol")
			WriteError(w, http.StatusInternalServerError, "Failed to remove symbol")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "symbol": symbol})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}
