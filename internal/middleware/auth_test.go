package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/middleware"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "account-1",
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// echoUserID writes the authenticated account ID so tests can observe what
// the middleware placed into the context.
func echoUserID(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(contextx.UserID(r.Context())))
}

func failureMessage(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Meta struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"_meta"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Meta.Error.Message
}

func runRequest(req *http.Request) *httptest.ResponseRecorder {
	handler := middleware.Authenticator(testSecret, slog.New(slog.DiscardHandler))(http.HandlerFunc(echoUserID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

/* TestAuthenticator_ExcludedRoutes confirms the anonymous allow-list: open
routes pass without a token while the existence probe stays protected. */
func TestAuthenticator_ExcludedRoutes(t *testing.T) {
	open := []string{
		"/",
		"/api/v1/login",
		"/api/v1/register",
		"/api/v1/verify-link",
		"/api/v1/reset-password",
		"/api/v1/update-password",
		"/api/v1/social-auth/facebook",
		"/api/v1/social-auth/google",
	}
	for _, path := range open {
		t.Run(path, func(t *testing.T) {
			rec := runRequest(httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	t.Run("/api/v1/authenticate requires token", func(t *testing.T) {
		rec := runRequest(httptest.NewRequest(http.MethodPost, "/api/v1/authenticate", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

/* TestAuthenticator_TokenValidation covers rejection paths: a missing token,
an expired token with its distinct message, and a token signed with the wrong
key. */
func TestAuthenticator_TokenValidation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		rec := runRequest(httptest.NewRequest(http.MethodGet, "/api/v1/send-verification", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Failed to authenticate token", failureMessage(t, rec.Body.Bytes()))
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/send-verification", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, testSecret, time.Now().Add(-time.Hour)))
		rec := runRequest(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "You are not logged in!", failureMessage(t, rec.Body.Bytes()))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/send-verification", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", time.Now().Add(time.Hour)))
		rec := runRequest(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Failed to authenticate token", failureMessage(t, rec.Body.Bytes()))
	})
}

/* TestAuthenticator_TokenCarriers verifies the three accepted token carriers
all resolve the account ID into the request context. */
func TestAuthenticator_TokenCarriers(t *testing.T) {
	token := signTestToken(t, testSecret, time.Now().Add(time.Hour))

	t.Run("authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/send-verification", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := runRequest(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "account-1", rec.Body.String())
	})

	t.Run("query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/send-verification?token="+token, nil)
		rec := runRequest(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "account-1", rec.Body.String())
	})

	t.Run("x-access-token header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/send-verification", nil)
		req.Header.Set("x-access-token", token)
		rec := runRequest(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "account-1", rec.Body.String())
	})
}
