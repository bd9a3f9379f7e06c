package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/cache"
	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
)

// dashboard numbers may lag a little, the queries are not cheap
const dashboardCacheTTL = time.Minute

type AnalyticsService interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type analyticsService struct {
	repo  repository.AnalyticsRepository
	cache cache.Cache
}

func NewAnalyticsService(repo repository.AnalyticsRepository, c cache.Cache) AnalyticsService {
	return &analyticsService{repo: repo, cache: c}
}

// GetDashboardStats implements AnalyticsService.
func (s *analyticsService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {

	stats := &models.DashboardStats{}

	hit, err := s.cache.Get(ctx, cache.DashboardStatsKey, stats)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Dashboard cache read failed", slog.Any("error", err))
	}

	if hit {
		return stats, nil
	}

	stats, err = s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load dashboard stats").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.DashboardStatsKey, stats, dashboardCacheTTL); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Dashboard cache write failed", slog.Any("error", err))
	}

	return stats, nil
}
