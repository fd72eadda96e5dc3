package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/finsight-app/finsight/internal/models"
)

type registerRequest struct {
	Email    string                    `json:"email"`
	Name     string                    `json:"name"`
	Password string                    `json:"password"`
	Profile  *models.OnboardingProfile `json:"profile,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// handleAuthRegister creates an account and starts the signup pipeline.
// The user.registered trigger is emitted only after the account is durably
// stored, so the welcome flow never races an uncommitted user.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ctx := r.Context()
	users := s.app.Storage.UserStore()

	if existing, err := users.GetUser(ctx, req.Email); err == nil && existing != nil {
		WriteError(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Subscribed:   true,
		Profile:      req.Profile,
		CreatedAt:    time.Now().UTC(),
	}

	if err := users.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := s.signToken(user.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign session token")
		WriteError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	runID := uuid.New().String()
	trigger := models.NewUserRegistered(user.Email, user.Name, user.Profile)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.app.Router.Route(ctx, runID, trigger)
	}()

	s.logger.Info().
		Str("email", user.Email).
		Str("run_id", runID).
		Msg("User registered")

	WriteJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Token:   token,
		Email:   user.Email,
		Name:    user.Name,
	})
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.app.Storage.UserStore().GetUser(r.Context(), req.Email)
	if err != nil || user == nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.signToken(user.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign session token")
		WriteError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{
		Success: true,
		Token:   token,
		Email:   user.Email,
		Name:    user.Name,
	})
}

// handleAuthLogout is a no-op acknowledgment. Sessions are stateless JWTs;
// the client discards its token.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// signToken issues an HS256 session token for the given email.
func (s *Server) signToken(email string) (string, error) {
	cfg := s.app.Config.Auth
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(cfg.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// emailFromRequest resolves the acting user's email: bearer token first,
// query parameter as fallback for unauthenticated tooling.
func (s *Server) emailFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.app.Config.Auth.JWTSecret), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if sub, ok := claims["sub"].(string); ok {
					return sub
				}
			}
		}
	}
	return r.URL.Query().Get("email")
}
