package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/kawaii-shop/backend/internal/config"
	apperrors "github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repomocks "github.com/kawaii-shop/backend/internal/repositories/mocks"
	service "github.com/kawaii-shop/backend/internal/services"
	svcmocks "github.com/kawaii-shop/backend/internal/services/mocks"
	"github.com/kawaii-shop/backend/pkg/googleauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authServiceFixture struct {
	svc         service.AuthService
	userRepo    *repomocks.UserRepository
	sessionRepo *repomocks.SessionRepository
	google      *svcmocks.GoogleClient
}

func newAuthService(t *testing.T) *authServiceFixture {
	t.Helper()

	f := &authServiceFixture{
		userRepo:    new(repomocks.UserRepository),
		sessionRepo: new(repomocks.SessionRepository),
		google:      new(svcmocks.GoogleClient),
	}

	f.svc = service.NewAuthService(f.userRepo, f.sessionRepo, f.google,
		&config.SessionConfig{TTL: 168 * time.Hour})

	return f
}

func TestAuthService_Login(t *testing.T) {
	ctx := t.Context()

	req := &models.GoogleAuthRequest{Code: "auth-code", RedirectURI: "https://shop.example.com/callback"}
	profile := &googleauth.Profile{Email: "mika@example.com", Name: "Mika", Picture: "https://example.com/pic.png"}

	t.Run("Success - Existing User", func(t *testing.T) {
		// Arrange
		f := newAuthService(t)
		user := &models.User{ID: uuid.New(), Email: profile.Email, Name: profile.Name, Role: models.RoleCustomer}

		f.google.On("ExchangeCode", ctx, req.Code, req.RedirectURI).Return(profile, nil).Once()
		f.userRepo.On("GetUserByEmail", ctx, profile.Email).Return(user, nil).Once()
		f.sessionRepo.On("CreateSession", ctx, mock.MatchedBy(func(s *models.Session) bool {
			return s.UserID == user.ID && s.Token != ""
		})).Return(nil).Once()

		// Act
		resp, err := f.svc.Login(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotEmpty(t, resp.SessionToken)
		assert.WithinDuration(t, time.Now().Add(168*time.Hour), resp.ExpiresAt, time.Minute)
		f.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Success - First Login Creates The Account", func(t *testing.T) {
		// Arrange
		f := newAuthService(t)

		f.google.On("ExchangeCode", ctx, req.Code, req.RedirectURI).Return(profile, nil).Once()
		f.userRepo.On("GetUserByEmail", ctx, profile.Email).Return(nil, sql.ErrNoRows).Once()
		f.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == profile.Email && u.Role == models.RoleCustomer
		})).Return(nil).Once()
		f.sessionRepo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil).Once()

		// Act
		resp, err := f.svc.Login(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, profile.Email, resp.User.Email)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Code Exchange Rejected", func(t *testing.T) {
		// Arrange
		f := newAuthService(t)

		f.google.On("ExchangeCode", ctx, req.Code, req.RedirectURI).
			Return(nil, errors.New("invalid_grant")).Once()

		// Act
		resp, err := f.svc.Login(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
		f.userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Session Store Unavailable", func(t *testing.T) {
		// Arrange
		f := newAuthService(t)
		user := &models.User{ID: uuid.New(), Email: profile.Email}

		f.google.On("ExchangeCode", ctx, req.Code, req.RedirectURI).Return(profile, nil).Once()
		f.userRepo.On("GetUserByEmail", ctx, profile.Email).Return(user, nil).Once()
		f.sessionRepo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).
			Return(errors.New("redis down")).Once()

		// Act
		resp, err := f.svc.Login(ctx, req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Revokes All Sessions", func(t *testing.T) {
		// Arrange
		f := newAuthService(t)
		userID := uuid.New()

		f.sessionRepo.On("DeleteAllForUser", ctx, userID).Return(nil).Once()

		// Act
		err := f.svc.Logout(ctx, userID)

		// Assert
		require.NoError(t, err)
		f.sessionRepo.AssertExpectations(t)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := t.Context()

	t.Run("Failure - Unknown User", func(t *testing.T) {
		// Arrange
		f := newAuthService(t)
		userID := uuid.New()
		name := "Mika"

		f.userRepo.On("UpdateProfile", ctx, userID, mock.AnythingOfType("*models.UpdateProfileRequest")).
			Return(nil, sql.ErrNoRows).Once()

		// Act
		user, err := f.svc.UpdateProfile(ctx, userID, &models.UpdateProfileRequest{Name: &name})

		// Assert
		require.Error(t, err)
		assert.Nil(t, user)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	})
}
