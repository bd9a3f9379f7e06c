package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	service "github.com/kawaii-shop/backend/internal/services"
	"github.com/kawaii-shop/backend/internal/utils/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard godoc
//
//	@Summary		Store overview (Admin)
//	@Description	Order, revenue, catalog, and user counters plus recent orders and low-stock products.
//	@Tags			Analytics
//	@Produce		json
//	@Success		200	{object}	models.DashboardStats	"Dashboard numbers"
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Security		BearerAuth
//	@Router			/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		stats, err := h.analyticsService.GetDashboardStats(r.Context())
		if err != nil {
			logger.Error("Failed to load dashboard stats", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, stats)
	}
}
