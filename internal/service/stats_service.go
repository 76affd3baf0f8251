package service

import (
	"context"
	"fmt"
	"time"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/repository"

	"go.uber.org/zap"
)

// advancedStatsDayCap bounds the advanced per-day listing to the most recent
// distinct days.
const advancedStatsDayCap = 30

// StatsService serves the daily and all-time aggregate views.
type StatsService struct {
	stats  repository.StatsRepository
	logger *zap.Logger
}

func NewStatsService(stats repository.StatsRepository, logger *zap.Logger) *StatsService {
	return &StatsService{stats: stats, logger: logger}
}

// StatsResponse bundles the three aggregate listings. Date is set for the
// daily variant only.
type StatsResponse struct {
	CurrentStats  []domain.CurrentStat
	UserActivity  []domain.UserActivity
	DailyActivity []domain.DailyActivity
	Date          string
}

// DailyStats restricts user and daily activity to today; current-status
// counts are always the full picture.
func (s *StatsService) DailyStats(ctx context.Context) (*StatsResponse, error) {
	today := time.Now().Format("2006-01-02")
	resp, err := s.collect(ctx, today, 0)
	if err != nil {
		return nil, err
	}
	resp.Date = today
	return resp, nil
}

// AdvancedStats is unrestricted, with the per-day listing capped to the 30
// most recent days.
func (s *StatsService) AdvancedStats(ctx context.Context) (*StatsResponse, error) {
	return s.collect(ctx, "", advancedStatsDayCap)
}

func (s *StatsService) collect(ctx context.Context, day string, dayLimit int) (*StatsResponse, error) {
	current, err := s.stats.CurrentStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("current stats: %w", err)
	}
	users, err := s.stats.UserActivity(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	daily, err := s.stats.DailyActivity(ctx, day, dayLimit)
	if err != nil {
		return nil, fmt.Errorf("daily activity: %w", err)
	}

	s.logger.Debug("Stats collected",
		zap.Int("current_groups", len(current)),
		zap.Int("users", len(users)),
		zap.Int("days", len(daily)),
	)

	return &StatsResponse{
		CurrentStats:  current,
		UserActivity:  users,
		DailyActivity: daily,
	}, nil
}
