package service

import (
	"context"
	"errors"
	"fmt"

	"prediction-league/internal/model"
	"prediction-league/internal/repository"
)

// Bet placement errors.
var (
	ErrMatchFinished     = errors.New("match already finished, bets are closed")
	ErrInvalidWinnerPick = errors.New("winner pick must be one of the match teams or a draw")
	ErrUnknownPrediction = errors.New("answer references a prediction not on this match")
)

// BetService handles the bet placement write path. Bets become immutable
// scoring inputs once the match finishes; until then a resubmission
// replaces the user's previous bet.
type BetService struct {
	matchRepo      *repository.MatchRepository
	predictionRepo *repository.PredictionRepository
	betRepo        *repository.BetRepository
	userRepo       *repository.UserRepository
}

// NewBetService creates a new BetService instance.
func NewBetService(
	matchRepo *repository.MatchRepository,
	predictionRepo *repository.PredictionRepository,
	betRepo *repository.BetRepository,
	userRepo *repository.UserRepository,
) *BetService {
	return &BetService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		userRepo:       userRepo,
	}
}

// PlaceBet saves a user's bet on a match: a winner pick (a team ID, or 0
// for a predicted draw) plus answers keyed by prediction ID. Answers for
// predictions the user skipped are simply absent.
func (s *BetService) PlaceBet(ctx context.Context, userID, matchID, winnerPick int64, answers map[int64]string) (*model.Bet, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsFinished {
		return nil, ErrMatchFinished
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var winnerTeamID *int64
	switch winnerPick {
	case model.DrawResult:
		// predicted draw, stored as null
	case match.TeamOneID, match.TeamTwoID:
		pick := winnerPick
		winnerTeamID = &pick
	default:
		return nil, ErrInvalidWinnerPick
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]bool, len(predictions))
	for _, p := range predictions {
		known[p.ID] = true
	}
	for predictionID, value := range answers {
		if !known[predictionID] {
			return nil, fmt.Errorf("%w: prediction %d", ErrUnknownPrediction, predictionID)
		}
		if value == "" {
			delete(answers, predictionID)
		}
	}

	bet, err := s.betRepo.Save(ctx, matchID, userID, winnerTeamID, answers)
	if err != nil {
		return nil, fmt.Errorf("failed to place bet: %w", err)
	}

	return bet, nil
}
