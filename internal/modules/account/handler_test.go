package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/modules/account"
)

// stubService overrides only the operations a test cares about; calling
// anything else panics, which is what we want from a routing test.
type stubService struct {
	account.Service
	verifyCode func(ctx context.Context, accountID, code string) (*account.Account, error)
}

func (s *stubService) VerifyCode(ctx context.Context, accountID, code string) (*account.Account, error) {
	return s.verifyCode(ctx, accountID, code)
}

func newAccountRouter(svc account.Service) chi.Router {
	r := chi.NewRouter()
	account.NewHandler(svc, slog.New(slog.DiscardHandler)).RegisterRoutes(r)
	return r
}

/* TestVerifyCodeEndpoint confirms the raw one-time code is consumable over
HTTP without a link hash: POST /verify-code takes the account from the
session context and the code from the body, and domain failures keep their
status instead of degrading into validation errors. */
func TestVerifyCodeEndpoint(t *testing.T) {
	t.Run("delegates code and session account", func(t *testing.T) {
		var gotID, gotCode string
		router := newAccountRouter(&stubService{
			verifyCode: func(_ context.Context, accountID, code string) (*account.Account, error) {
				gotID, gotCode = accountID, code
				return &account.Account{ID: accountID, AccountVerified: true}, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/verify-code", strings.NewReader(`{"verification_code":"4321"}`))
		req = req.WithContext(contextx.WithUserID(req.Context(), "account-1"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "account-1", gotID)
		assert.Equal(t, "4321", gotCode)
	})

	t.Run("incorrect code stays forbidden", func(t *testing.T) {
		router := newAccountRouter(&stubService{
			verifyCode: func(context.Context, string, string) (*account.Account, error) {
				return nil, account.ErrIncorrectVerifyCode
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/verify-code", strings.NewReader(`{"verification_code":"9999"}`))
		req = req.WithContext(contextx.WithUserID(req.Context(), "account-1"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var envelope struct {
			Meta struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			} `json:"_meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "Verification code is incorrect", envelope.Meta.Error.Message)
	})

	t.Run("missing code fails validation", func(t *testing.T) {
		router := newAccountRouter(&stubService{})

		req := httptest.NewRequest(http.MethodPost, "/verify-code", strings.NewReader(`{}`))
		req = req.WithContext(contextx.WithUserID(req.Context(), "account-1"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no session", func(t *testing.T) {
		router := newAccountRouter(&stubService{})

		req := httptest.NewRequest(http.MethodPost, "/verify-code", strings.NewReader(`{"verification_code":"4321"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

/* TestUserRoutes confirms the static /users routes resolve ahead of the
generic resource wildcard. */
func TestUserRoutes(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&account.Account{ID: "u1", Email: "user@example.com"})
	svc := newTestService(repo, &fakeMailer{}, nil)
	router := newAccountRouter(svc)

	t.Run("me", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req = req.WithContext(contextx.WithUserID(req.Context(), "u1"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "user@example.com")
	})

	t.Run("search by email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/search/user@example.com", nil)
		req = req.WithContext(contextx.WithUserID(req.Context(), "u1"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"u1"`)
	})
}
