package service

import (
	"context"
	"fmt"

	"f3-data-api/internal/domain"
	"f3-data-api/internal/repository"
)

type StatsServiceInterface interface {
	RegionCount(ctx context.Context) (int64, error)
	WorkoutCount(ctx context.Context) (int64, error)
	Health(ctx context.Context) (*domain.Health, error)
}

type ConnectionChecker interface {
	VerifyConnection(ctx context.Context) bool
}

type StatsService struct {
	statsRepository repository.StatsRepository
	checker         ConnectionChecker
}

func NewStatsService(statsRepository repository.StatsRepository, checker ConnectionChecker) *StatsService {
	return &StatsService{
		statsRepository: statsRepository,
		checker:         checker,
	}
}

func (s *StatsService) RegionCount(ctx context.Context) (int64, error) {
	count, err := s.statsRepository.CountOrgsByType(ctx, domain.OrgTypeRegion)
	if err != nil {
		return 0, fmt.Errorf("failed to count regions: %w", err)
	}
	return count, nil
}

// WorkoutCount counts every row of the events table; each event is one weekly workout.
func (s *StatsService) WorkoutCount(ctx context.Context) (int64, error) {
	count, err := s.statsRepository.CountEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}
	return count, nil
}

// Health reports the API as healthy and includes a live connectivity check.
// A failed check does not make Health fail.
func (s *StatsService) Health(ctx context.Context) (*domain.Health, error) {
	if s.checker == nil {
		return nil, fmt.Errorf("no connection checker configured")
	}

	return &domain.Health{
		Message:           domain.WelcomeMessage,
		Status:            domain.StatusHealthy,
		DatabaseConnected: s.checker.VerifyConnection(ctx),
	}, nil
}
