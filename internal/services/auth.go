package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/kawaii-shop/backend/internal/config"
	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/kawaii-shop/backend/pkg/googleauth"
	"github.com/google/uuid"
)

type AuthService interface {
	Login(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	googleClient googleauth.Client
	sessionTTL   time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, googleClient googleauth.Client, cfg *config.SessionConfig) AuthService {
	return &authService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		googleClient: googleClient,
		sessionTTL:   cfg.TTL,
	}
}

// Login implements AuthService. The authorization code is traded for a
// Google profile, the account is created on first sight, and a fresh
// opaque session token is minted.
func (s *authService) Login(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error) {

	profile, err := s.googleClient.ExchangeCode(ctx, req.Code, req.RedirectURI)
	if err != nil {
		return nil, errors.UnauthorizedError("Google sign-in failed").WithError(err)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, profile.Email)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, errors.DatabaseError("Failed to look up user").WithError(err)
		}

		// first login creates the account
		user = &models.User{
			ID:        uuid.New(),
			Email:     profile.Email,
			Name:      profile.Name,
			Picture:   profile.Picture,
			Role:      models.RoleCustomer,
			Addresses: []map[string]any{},
		}

		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			return nil, errors.DatabaseError("Failed to create user").WithError(err)
		}
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, errors.InternalError("Failed to create session").WithError(err)
	}

	return &models.AuthResponse{
		User:         user,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// Logout implements AuthService. Revokes every live session the user
// holds, not just the one presented.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {

	if err := s.sessionRepo.DeleteAllForUser(ctx, userID); err != nil {
		return errors.InternalError("Failed to end session").WithError(err)
	}

	return nil
}

// GetProfile implements AuthService.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFoundError("User not found").WithError(err)
	}

	return user, nil
}

// UpdateProfile implements AuthService.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {

	user, err := s.userRepo.UpdateProfile(ctx, userID, req)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("User not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update profile").WithError(err)
	}

	return user, nil
}
