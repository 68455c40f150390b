package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"prediction-league/internal/model"
	"prediction-league/internal/repository"
)

// Operator path errors.
var (
	ErrIncompleteDrawScore = errors.New("both draw scores are required for a tie-break")
)

// MatchService handles match reads and the operator write path: recording
// final results, recording prediction outcomes and reopening matches.
type MatchService struct {
	matchRepo       *repository.MatchRepository
	predictionRepo  *repository.PredictionRepository
	competitionRepo *repository.CompetitionRepository
}

// NewMatchService creates a new MatchService instance.
func NewMatchService(
	matchRepo *repository.MatchRepository,
	predictionRepo *repository.PredictionRepository,
	competitionRepo *repository.CompetitionRepository,
) *MatchService {
	return &MatchService{
		matchRepo:       matchRepo,
		predictionRepo:  predictionRepo,
		competitionRepo: competitionRepo,
	}
}

// MatchWithPredictions bundles a match with its prediction criteria for
// the detail read path.
type MatchWithPredictions struct {
	Match       *model.Match        `json:"match"`
	Predictions []*model.Prediction `json:"predictions"`
}

// GetMatch retrieves a match with its predictions.
func (s *MatchService) GetMatch(ctx context.Context, matchID int64) (*MatchWithPredictions, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return &MatchWithPredictions{Match: match, Predictions: predictions}, nil
}

// ListCompetitions retrieves all competitions.
func (s *MatchService) ListCompetitions(ctx context.Context) ([]*model.Competition, error) {
	return s.competitionRepo.List(ctx)
}

// ListCompetitionMatches retrieves a competition's matches.
func (s *MatchService) ListCompetitionMatches(ctx context.Context, competitionID int64) ([]*model.Match, error) {
	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListByCompetition(ctx, competitionID)
}

// ResultInput is the operator's final result entry for a match.
// Draw scores are set only when the match needed a winner and the main
// scores ended level.
type ResultInput struct {
	TeamOneScore     int  `json:"team_one_score"`
	TeamTwoScore     int  `json:"team_two_score"`
	TeamOneDrawScore *int `json:"team_one_draw_score,omitempty"`
	TeamTwoDrawScore *int `json:"team_two_draw_score,omitempty"`
}

// RecordResult stores a match's final scores and marks it finished. The
// settlement trigger (handler or sweeper) picks the match up from there;
// this method does not settle by itself.
func (s *MatchService) RecordResult(ctx context.Context, matchID int64, input ResultInput) (*model.Match, error) {
	if (input.TeamOneDrawScore == nil) != (input.TeamTwoDrawScore == nil) {
		return nil, ErrIncompleteDrawScore
	}

	match, err := s.matchRepo.RecordResult(ctx, matchID,
		input.TeamOneScore, input.TeamTwoScore,
		input.TeamOneDrawScore, input.TeamTwoDrawScore)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("match_id", matchID).
		Int("team_one_score", input.TeamOneScore).
		Int("team_two_score", input.TeamTwoScore).
		Msg("Match result recorded")

	return match, nil
}

// RecordPredictionOutcome stores the ground truth for one prediction.
func (s *MatchService) RecordPredictionOutcome(ctx context.Context, predictionID int64, correctValue string) (*model.Prediction, error) {
	return s.predictionRepo.SetCorrectValue(ctx, predictionID, correctValue)
}

// ReopenMatch reverts a match to unfinished and clears its settled flag so
// a corrected result can be recorded. Points credited by the previous
// settlement stay on the user ledger: there is no clawback, which is a
// known limitation of the points model.
func (s *MatchService) ReopenMatch(ctx context.Context, matchID int64) (*model.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	wasSettled := match.PointsCalculationDone
	match, err = s.matchRepo.ResetSettlement(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if wasSettled {
		log.Warn().
			Int64("match_id", matchID).
			Msg("Reopened a settled match; previously credited points are not reversed")
	}

	return match, nil
}
