package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"mediai/backend/internal/model"
	"mediai/backend/internal/repository"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// UserLookup loads the account behind a verified token.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// Middleware rejects requests without a valid session token and stores the
// signed-in user in the request context.
type Middleware struct {
	tokens *Tokens
	users  UserLookup
}

func NewMiddleware(tokens *Tokens, users UserLookup) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireUser responds 401 when the token is missing or invalid and 403 when
// the account has been deactivated.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := TokenFromRequest(r)
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := m.tokens.Verify(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := m.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "User not found")
				return
			}
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user for token")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !user.IsActive {
			writeError(w, http.StatusForbidden, "Account is deactivated")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin must run after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest reads the session token from the token cookie, falling
// back to an "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
