package analytics

import (
	"context"
	"fmt"
	"time"

	"charterly/pkg/cache"

	"github.com/google/uuid"
)

const (
	dashboardCacheKey = "analytics:dashboard"
	dashboardCacheTTL = 5 * time.Minute
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	GetDashboard(ctx context.Context) (*DashboardAnalytics, error)
	GetTourAnalytics(ctx context.Context, tourID uuid.UUID) (*TourAnalytics, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetDashboard(ctx context.Context) (*DashboardAnalytics, error) {
	if s.cacheService != nil {
		var cached DashboardAnalytics
		if err := s.cacheService.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverviewMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview metrics: %w", err)
	}

	topTours, err := s.repo.GetTopTours(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to get top tours: %w", err)
	}

	dailyTrend, err := s.repo.GetDailyStats(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	dashboard := &DashboardAnalytics{
		Overview:    *overview,
		TopTours:    topTours,
		DailyTrend:  dailyTrend,
		GeneratedAt: time.Now().UTC(),
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, dashboardCacheKey, dashboard, dashboardCacheTTL)
	}
	return dashboard, nil
}

func (s *service) GetTourAnalytics(ctx context.Context, tourID uuid.UUID) (*TourAnalytics, error) {
	return s.repo.GetTourAnalytics(ctx, tourID)
}
