package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/services"
)

const bearerPrefix = "Bearer "

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier checks a raw token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// RequireToken rejects requests without an Authorization header (403) and
// requests whose token fails verification (500). The header may carry the raw
// token or "Bearer <token>".
func RequireToken(verifier TokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(services.ErrMissingToken.Error()))
				return
			}

			if strings.HasPrefix(token, bearerPrefix) {
				token = strings.TrimLeftFunc(token[len(bearerPrefix):], unicode.IsSpace)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Warn("token verification failed")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims attached by RequireToken.
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.ID
	}
	return ""
}
