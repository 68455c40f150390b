// Package worker runs the background settlement sweeper.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"prediction-league/internal/repository"
	"prediction-league/internal/service"
)

// Sweeper periodically settles matches that finished but were never settled,
// for example when an operator recorded a result while the service was down
// or a settlement transaction failed after commit retries. The settle call
// is idempotent, so sweeping a match the handler already settled is harmless.
type Sweeper struct {
	matchRepo  *repository.MatchRepository
	settlement *service.SettlementService
	interval   time.Duration
	scheduler  gocron.Scheduler
}

// NewSweeper creates a new Sweeper instance.
func NewSweeper(
	matchRepo *repository.MatchRepository,
	settlement *service.SettlementService,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		matchRepo:  matchRepo,
		settlement: settlement,
		interval:   interval,
	}
}

// Start schedules the sweep job and starts the scheduler.
func (s *Sweeper) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Sweep(ctx) }),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule settlement sweep: %w", err)
	}

	scheduler.Start()
	s.scheduler = scheduler

	log.Info().Dur("interval", s.interval).Msg("Settlement sweeper started")
	return nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

// Sweep settles every finished, unsettled match once.
func (s *Sweeper) Sweep(ctx context.Context) {
	matches, err := s.matchRepo.ListFinishedUnsettled(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Settlement sweep failed to list matches")
		return
	}

	for _, match := range matches {
		result, err := s.settlement.SettleMatch(ctx, match.ID)
		if err != nil {
			log.Error().Err(err).Int64("match_id", match.ID).Msg("Settlement sweep failed for match")
			continue
		}
		log.Info().
			Int64("match_id", match.ID).
			Str("status", result.Status).
			Msg("Settlement sweep processed match")
	}
}
