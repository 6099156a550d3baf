package services

import (
	"context"
	"fmt"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// StatsService builds statistics from the session log.
type StatsService struct {
	storage ports.Storage
	clock   ports.Clock
}

// NewStatsService creates a new stats service.
func NewStatsService(storage ports.Storage, clock ports.Clock) *StatsService {
	return &StatsService{storage: storage, clock: clock}
}

// Summary returns the statistics of the period containing now.
func (s *StatsService) Summary(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSummary, error) {
	records, err := s.storage.Sessions().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session log: %w", err)
	}
	return domain.Summarize(records, s.clock.Now(), period), nil
}

// Records returns the whole session log, oldest first.
func (s *StatsService) Records(ctx context.Context) ([]*domain.SessionRecord, error) {
	return s.storage.Sessions().FindAll(ctx)
}
