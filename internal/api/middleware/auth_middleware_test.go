package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/kawaii-shop/backend/internal/repositories/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	nextCalled := func(captured **models.User) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := r.Context().Value(middleware.UserContextKey).(*models.User); ok {
				*captured = user
			}

			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("Success - User Lands In Context", func(t *testing.T) {
		// Arrange
		sessions := new(mocks.SessionRepository)
		users := new(mocks.UserRepository)
		m := middleware.NewAuthMiddleware(sessions, users)

		userID := uuid.New()
		token := uuid.NewString()
		user := &models.User{ID: userID, Email: "mika@example.com", Role: models.RoleCustomer}

		sessions.On("GetUserID", mock.Anything, token).Return(userID, nil).Once()
		users.On("GetUserByID", mock.Anything, userID).Return(user, nil).Once()

		var captured *models.User

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		// Act
		m.Authenticate(nextCalled(&captured)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, captured)
		assert.Equal(t, userID, captured.ID)
		sessions.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("Failure - Missing Authorization Header", func(t *testing.T) {
		// Arrange
		m := middleware.NewAuthMiddleware(new(mocks.SessionRepository), new(mocks.UserRepository))

		var captured *models.User

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rr := httptest.NewRecorder()

		// Act
		m.Authenticate(nextCalled(&captured)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, captured)
	})

	t.Run("Failure - Not A Bearer Token", func(t *testing.T) {
		// Arrange
		m := middleware.NewAuthMiddleware(new(mocks.SessionRepository), new(mocks.UserRepository))

		var captured *models.User

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()

		// Act
		m.Authenticate(nextCalled(&captured)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, captured)
	})

	t.Run("Failure - Unknown Or Expired Session", func(t *testing.T) {
		// Arrange
		sessions := new(mocks.SessionRepository)
		m := middleware.NewAuthMiddleware(sessions, new(mocks.UserRepository))
		token := uuid.NewString()

		sessions.On("GetUserID", mock.Anything, token).
			Return(uuid.Nil, repository.ErrSessionNotFound).Once()

		var captured *models.User

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		// Act
		m.Authenticate(nextCalled(&captured)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, captured)
	})

	t.Run("Failure - Session Points To Deleted User", func(t *testing.T) {
		// Arrange
		sessions := new(mocks.SessionRepository)
		users := new(mocks.UserRepository)
		m := middleware.NewAuthMiddleware(sessions, users)

		userID := uuid.New()
		token := uuid.NewString()

		sessions.On("GetUserID", mock.Anything, token).Return(userID, nil).Once()
		users.On("GetUserByID", mock.Anything, userID).Return(nil, assert.AnError).Once()

		var captured *models.User

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		// Act
		m.Authenticate(nextCalled(&captured)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, captured)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := func(called *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true

			w.WriteHeader(http.StatusOK)
		})
	}

	withUser := func(req *http.Request, user *models.User) *http.Request {
		ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)

		return req.WithContext(ctx)
	}

	t.Run("Success - Admin Passes", func(t *testing.T) {
		// Arrange
		m := middleware.NewAuthMiddleware(new(mocks.SessionRepository), new(mocks.UserRepository))

		var called bool

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
		req = withUser(req, &models.User{ID: uuid.New(), Role: models.RoleAdmin})
		rr := httptest.NewRecorder()

		// Act
		m.RequireAdmin(next(&called)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
	})

	t.Run("Failure - Customer Is Forbidden", func(t *testing.T) {
		// Arrange
		m := middleware.NewAuthMiddleware(new(mocks.SessionRepository), new(mocks.UserRepository))

		var called bool

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
		req = withUser(req, &models.User{ID: uuid.New(), Role: models.RoleCustomer})
		rr := httptest.NewRecorder()

		// Act
		m.RequireAdmin(next(&called)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.False(t, called)
	})

	t.Run("Failure - No Authenticated User", func(t *testing.T) {
		// Arrange
		m := middleware.NewAuthMiddleware(new(mocks.SessionRepository), new(mocks.UserRepository))

		var called bool

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
		rr := httptest.NewRecorder()

		// Act
		m.RequireAdmin(next(&called)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
	})
}
