package handlers

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	service "github.com/kawaii-shop/backend/internal/services"
	"github.com/kawaii-shop/backend/internal/utils"
	"github.com/kawaii-shop/backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthService
	rateLimiter repository.RateLimitRepository
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthService, rateLimiter repository.RateLimitRepository) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter, validator: validator.New()}
}

// GoogleLogin godoc
//
//	@Summary		Sign in with Google
//	@Description	Exchanges a Google OAuth authorization code for a session token. Creates the account on first sign-in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.GoogleAuthRequest	true	"Google authorization code"
//	@Success		200			{object}	models.AuthResponse			"Session token and user profile"
//	@Failure		401			{object}	response.ErrorResponse		"Code exchange failed"
//	@Failure		429			{object}	response.ErrorResponse		"Too many sign-in attempts"
//	@Router			/auth/google [post]
func (h *AuthHandler) GoogleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		clientIP := clientIP(r)

		allowed, _, retryAfter, err := h.rateLimiter.CheckAuthRateLimit(r.Context(), clientIP)
		if err != nil {
			logger.Error("Rate limit check failed", slog.Any("error", err))
			response.Error(w, errors.InternalError("Could not process sign-in"))
			return
		}

		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			response.Error(w, errors.TooManyRequestsError("Too many sign-in attempts, try again later"))
			return
		}

		var req models.GoogleAuthRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid sign-in input")
			return
		}

		resp, err := h.authService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Google sign-in failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User signed in", slog.String("userId", resp.User.ID.String()))
		response.Success(w, http.StatusOK, resp)
	}
}

// Logout godoc
//
//	@Summary		Sign out
//	@Description	Revokes every active session of the authenticated user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]bool			"Revoked"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
		if !ok {
			logger.Warn("Unauthorized logout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if err := h.authService.Logout(r.Context(), user.ID); err != nil {
			logger.Error("Logout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User signed out")
		response.Success(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}

		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
