package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/httpx"
)

// Claims defines the structure of the JWT claims.
type Claims struct {
	jwt.RegisteredClaims
}

// Routes that stay open to anonymous callers. The existence probe
// (/authenticate) is deliberately absent: it still requires a token.
var excludedRoutes = []*regexp.Regexp{
	regexp.MustCompile(`^/$`),
	regexp.MustCompile(`/login$`),
	regexp.MustCompile(`/register$`),
	regexp.MustCompile(`/verify-link$`),
	regexp.MustCompile(`/reset-password$`),
	regexp.MustCompile(`/update-password$`),
	regexp.MustCompile(`/social-auth/(facebook|google)$`),
}

// Authenticator is a middleware that validates the bearer session token and
// adds the account ID to the request context. The token may arrive in the
// Authorization header, the `token` query parameter, or the x-access-token
// header. Expired tokens get a distinct message from otherwise invalid ones,
// but both map to 401.
func Authenticator(jwtSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExcluded(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := extractToken(r)
			if tokenString == "" {
				httpx.Fail(w, r, apperr.Unauthorized("Failed to authenticate token"))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				// Ensure the signing method is what we expect.
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid session token", "error", err)
				message := "Failed to authenticate token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					message = "You are not logged in!"
				}
				httpx.Fail(w, r, apperr.Unauthorized(message))
				return
			}

			ctx := contextx.WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isExcluded reports whether the request path is on the anonymous allow-list.
func isExcluded(r *http.Request) bool {
	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}
	for _, re := range excludedRoutes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// extractToken pulls the session token from any of its accepted carriers.
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if tokenString, found := strings.CutPrefix(authHeader, "Bearer "); found {
			return tokenString
		}
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return r.Header.Get("x-access-token")
}
