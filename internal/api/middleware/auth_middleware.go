package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kawaii-shop/backend/internal/errors"
	models "github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/utils/response"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// SessionStore resolves an opaque bearer token to a user id.
type SessionStore interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// UserStore loads the account behind a resolved session.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthMiddleware struct {
	sessions SessionStore
	users    UserStore
}

func NewAuthMiddleware(sessions SessionStore, users UserStore) *AuthMiddleware {

	return &AuthMiddleware{sessions: sessions, users: users}

}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		token := tokenParts[1]

		userID, err := m.sessions.GetUserID(r.Context(), token)
		if err != nil {
			logger.Warn("Session lookup failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired session"))
			return
		}

		user, err := m.users.GetUserByID(r.Context(), userID)
		if err != nil {
			logger.Warn("Session points to unknown user", slog.String("userId", userID.String()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired session"))
			return
		}

		// Add the user to the context
		ctx := context.WithValue(r.Context(), UserContextKey, user)

		requestScopedLogger := logger.With(slog.String("userId", user.ID.String()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		requestScopedLogger.Info("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin gates a route on the admin role. It assumes Authenticate
// already ran and placed the user in the context.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		user, ok := r.Context().Value(UserContextKey).(*models.User)
		if !ok {
			logger.Warn("Admin route hit without authenticated user")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if !user.IsAdmin() {
			logger.Warn("Non-admin user attempted admin route", slog.String("userId", user.ID.String()))
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}
}
