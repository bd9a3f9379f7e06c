package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	service "github.com/kawaii-shop/backend/internal/services"
	"github.com/kawaii-shop/backend/internal/utils"
	"github.com/kawaii-shop/backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	authService service.AuthService
	validator   *validator.Validate
}

func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService, validator: validator.New()}
}

// Profile godoc
//
//	@Summary		Get own profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User				"The authenticated user"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/users/me [get]
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
		if !ok {
			logger.Warn("Unauthorized profile access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		resp, err := h.authService.GetProfile(r.Context(), user.ID)
		if err != nil {
			logger.Warn("Profile lookup failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// UpdateProfile godoc
//
//	@Summary		Update own profile
//	@Description	Applies the provided name, picture, and address changes. Omitted fields stay unchanged.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			profile	body		models.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	models.User					"Updated user"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Security		BearerAuth
//	@Router			/users/me [put]
func (h *UserHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
		if !ok {
			logger.Warn("Unauthorized profile update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.UpdateProfileRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid profile update input")
			return
		}

		resp, err := h.authService.UpdateProfile(r.Context(), user.ID, &req)
		if err != nil {
			logger.Error("Profile update failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Profile updated")
		response.Success(w, http.StatusOK, resp)
	}
}
