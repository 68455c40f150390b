// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"prediction-league/internal/model"
	"prediction-league/internal/pkg/lock"
	"prediction-league/internal/repository"
	"prediction-league/internal/scoring"
)

// SettlementService performs the one-shot settlement of finished matches:
// it resolves the match outcome, scores every bet, credits user scores and
// flips the match's points_calculation_done flag, all in one transaction.
//
// Settlement is idempotent. The guard is the flag check under a row lock:
// of two concurrent SettleMatch calls for one match, one holds the row lock
// and applies points while the other blocks on FOR UPDATE, then observes the
// committed flag and returns already_settled. This holds across processes.
// Settlement of different matches is independent and runs in parallel.
type SettlementService struct {
	pool           *pgxpool.Pool
	matchRepo      *repository.MatchRepository
	predictionRepo *repository.PredictionRepository
	betRepo        *repository.BetRepository
	userRepo       *repository.UserRepository
	matchLock      *lock.MatchLock
}

// NewSettlementService creates a new SettlementService instance.
func NewSettlementService(
	pool *pgxpool.Pool,
	matchRepo *repository.MatchRepository,
	predictionRepo *repository.PredictionRepository,
	betRepo *repository.BetRepository,
	userRepo *repository.UserRepository,
) *SettlementService {
	return &SettlementService{
		pool:           pool,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		userRepo:       userRepo,
		matchLock:      lock.NewMatchLock(),
	}
}

// SettleMatch settles one match. Statuses:
//   - not_finished: the match is not finished yet, nothing was changed
//   - already_settled: points were credited by an earlier call
//   - no_bets: nobody bet on the match; it is marked settled anyway so
//     later calls short-circuit
//   - success: points credited, one additive update per user
//
// Any persistence failure aborts the whole transaction; points are never
// partially applied. The error is returned for the trigger to retry.
func (s *SettlementService) SettleMatch(ctx context.Context, matchID int64) (*model.SettlementResult, error) {
	// In-process fast path only: avoids redundant concurrent transactions
	// for one match. Correctness rests on the database guard below.
	s.matchLock.Lock(matchID)
	defer s.matchLock.Unlock(matchID)

	// The FOR UPDATE row lock serializes settlements of one match; a waiter
	// reads the flag the winner committed.
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	match, err := s.matchRepo.GetForUpdateTx(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	if !match.IsFinished {
		return &model.SettlementResult{MatchID: matchID, Status: model.SettlementNotFinished}, nil
	}
	if match.PointsCalculationDone {
		return &model.SettlementResult{MatchID: matchID, Status: model.SettlementAlreadySettled}, nil
	}

	bets, err := s.betRepo.ListByMatchWithAnswersTx(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	if len(bets) == 0 {
		if err := s.matchRepo.MarkSettledTx(ctx, tx, matchID); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit settlement: %w", err)
		}
		log.Info().Int64("match_id", matchID).Msg("Match settled with no bets")
		return &model.SettlementResult{MatchID: matchID, Status: model.SettlementNoBets}, nil
	}

	predictions, err := s.predictionRepo.ListByMatchTx(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	winner := scoring.ResolveWinner(match)
	logMalformedAnswers(matchID, predictions, bets)

	usersUpdated := 0
	totalAwarded := 0
	for _, bet := range bets {
		score := scoring.ScoreBet(bet, winner, match, predictions)
		if score.Total == 0 {
			continue
		}
		if err := s.userRepo.AddScoreTx(ctx, tx, score.UserID, score.Total); err != nil {
			return nil, err
		}
		usersUpdated++
		totalAwarded += score.Total
	}

	if err := s.matchRepo.MarkSettledTx(ctx, tx, matchID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	log.Info().
		Int64("match_id", matchID).
		Int64("winner", winner).
		Int("bets", len(bets)).
		Int("users_updated", usersUpdated).
		Int("total_points", totalAwarded).
		Msg("Match settled")

	return &model.SettlementResult{
		MatchID:            matchID,
		Status:             model.SettlementSuccess,
		UsersUpdated:       usersUpdated,
		TotalPointsAwarded: totalAwarded,
	}, nil
}

// logMalformedAnswers warns about numerical values that cannot be parsed.
// They score zero rather than failing settlement, but an operator may want
// to fix a mistyped correct value and reopen the match.
func logMalformedAnswers(matchID int64, predictions []*model.Prediction, bets []*model.BetWithAnswers) {
	for _, p := range predictions {
		if p.PredictionType != model.PredictionNumerical {
			continue
		}
		if p.CorrectValue != nil && scoring.MalformedNumerical(*p.CorrectValue) {
			log.Warn().
				Int64("match_id", matchID).
				Int64("prediction_id", p.ID).
				Str("correct_value", *p.CorrectValue).
				Msg("Numerical prediction has unparseable correct value")
		}
		for _, bet := range bets {
			if v, ok := bet.AnswerByPrediction()[p.ID]; ok && scoring.MalformedNumerical(v) {
				log.Warn().
					Int64("match_id", matchID).
					Int64("prediction_id", p.ID).
					Int64("user_id", bet.Bet.UserID).
					Str("value", v).
					Msg("Numerical answer is unparseable, scoring zero")
			}
		}
	}
}
