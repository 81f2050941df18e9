package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taakra-backend/internal/models"
	"taakra-backend/internal/services"

	"github.com/stretchr/testify/require"
)

func newTestTokens() *services.TokenManager {
	return services.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func claimsEchoHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		require.NotNil(t, claims)
		require.Equal(t, wantUserID, claims.UserID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthValidToken(t *testing.T) {
	tokens := newTestTokens()
	access, err := tokens.GenerateAccessToken("user-1", models.RoleUser)
	require.NoError(t, err)

	handler := Auth(tokens)(claimsEchoHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(newTestTokens())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success":false,"error":"Authorization header required"}`, rec.Body.String())
}

func TestAuthMalformedHeader(t *testing.T) {
	handler := Auth(newTestTokens())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthBadToken(t *testing.T) {
	handler := Auth(newTestTokens())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := newTestTokens()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(tokens)(RequireRole(models.RoleAdmin, models.RoleSupport)(next))

	cases := []struct {
		role models.Role
		code int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleSupport, http.StatusOK},
		{models.RoleUser, http.StatusForbidden},
	}
	for _, tc := range cases {
		access, err := tokens.GenerateAccessToken("user-1", tc.role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, tc.code, rec.Code, "role %s", tc.role)
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
