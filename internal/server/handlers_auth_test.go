package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/finsight-app/finsight/internal/models"
)

func registerBody(t *testing.T) map[string]interface{} {
	t.Helper()
	return map[string]interface{}{
		"email":    "new@x.com",
		"name":     "Alex",
		"password": "hunter2hunter2",
		"profile": map[string]string{
			"country":            "Australia",
			"investment_goals":   "growth",
			"risk_tolerance":     "moderate",
			"preferred_industry": "technology",
		},
	}
}

func TestHandleAuthRegister_CreatesUserAndEmitsTrigger(t *testing.T) {
	srv, storage, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, registerBody(t)))
	rec := httptest.NewRecorder()

	srv.handleAuthRegister(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@x.com", resp.Email)

	// Account is stored, subscribed, with a bcrypt hash rather than the
	// plaintext password.
	user, err := storage.users.GetUser(context.Background(), "new@x.com")
	require.NoError(t, err)
	assert.True(t, user.Subscribed)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Australia", user.Profile.Country)

	// The signup pipeline is triggered after the account is durable.
	waitForRoute(t, router)
	routed := router.routed()
	require.Len(t, routed, 1)
	assert.Equal(t, models.TriggerUserRegistered, routed[0].Kind)
	assert.Equal(t, "new@x.com", routed[0].Email)
}

func TestHandleAuthRegister_DuplicateEmailConflicts(t *testing.T) {
	srv, storage, router := newTestServer(t)
	storage.users.users["new@x.com"] = &models.User{Email: "new@x.com"}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, registerBody(t)))
	rec := httptest.NewRecorder()

	srv.handleAuthRegister(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, router.routed())
}

func TestHandleAuthRegister_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing email", map[string]interface{}{"password": "hunter2hunter2"}},
		{"malformed email", map[string]interface{}{"email": "not-an-email", "password": "hunter2hunter2"}},
		{"short password", map[string]interface{}{"email": "a@b.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, router := newTestServer(t)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, tt.body))
			rec := httptest.NewRecorder()

			srv.handleAuthRegister(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, router.routed())
		})
	}
}

func TestHandleAuthLogin_Success(t *testing.T) {
	srv, storage, _ := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)
	storage.users.users["a@b.com"] = &models.User{Email: "a@b.com", Name: "A", PasswordHash: string(hash)}

	body := jsonBody(t, map[string]string{"email": "a@b.com", "password": "hunter2hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rec := httptest.NewRecorder()

	srv.handleAuthLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
}

func TestHandleAuthLogin_WrongPassword(t *testing.T) {
	srv, storage, _ := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	storage.users.users["a@b.com"] = &models.User{Email: "a@b.com", PasswordHash: string(hash)}

	body := jsonBody(t, map[string]string{"email": "a@b.com", "password": "wrong-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rec := httptest.NewRecorder()

	srv.handleAuthLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAuthLogin_UnknownUser(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := jsonBody(t, map[string]string{"email": "ghost@x.com", "password": "whatever123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rec := httptest.NewRecorder()

	srv.handleAuthLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAuthLogout(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	srv.handleAuthLogout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEmailFromRequest_BearerToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	token, err := srv.signToken("a@b.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	assert.Equal(t, "a@b.com", srv.emailFromRequest(req))
}

func TestEmailFromRequest_InvalidTokenFallsBackToQuery(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist?email=q@x.com", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	assert.Equal(t, "q@x.com", srv.emailFromRequest(req))
}
