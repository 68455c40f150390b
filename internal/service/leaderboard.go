package service

import (
	"context"
	"errors"

	"prediction-league/internal/model"
	"prediction-league/internal/repository"
	"prediction-league/internal/scoring"
)

// Leaderboard read-path errors.
var (
	ErrMatchNotFinished = errors.New("match is not finished")
)

// LeaderboardService serves the read paths: per-match leaderboards, per-user
// bet breakdowns and the overall standings. Reads recompute scores from
// committed bets with the same scoring logic settlement used; they never
// mutate state, so settled matches always show the figures that were
// credited.
type LeaderboardService struct {
	matchRepo      *repository.MatchRepository
	predictionRepo *repository.PredictionRepository
	betRepo        *repository.BetRepository
	userRepo       *repository.UserRepository
}

// NewLeaderboardService creates a new LeaderboardService instance.
func NewLeaderboardService(
	matchRepo *repository.MatchRepository,
	predictionRepo *repository.PredictionRepository,
	betRepo *repository.BetRepository,
	userRepo *repository.UserRepository,
) *LeaderboardService {
	return &LeaderboardService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		betRepo:        betRepo,
		userRepo:       userRepo,
	}
}

// GetMatchLeaderboard returns the leaderboard of a finished match, ordered
// by total points descending with user ID as the deterministic tiebreak.
func (s *LeaderboardService) GetMatchLeaderboard(ctx context.Context, matchID int64) ([]model.LeaderboardEntry, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsFinished {
		return nil, ErrMatchNotFinished
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	bets, err := s.betRepo.ListByMatchWithAnswers(ctx, matchID)
	if err != nil {
		return nil, err
	}

	winner := scoring.ResolveWinner(match)
	return scoring.BuildLeaderboard(match, winner, predictions, bets), nil
}

// PredictionBreakdown is one prediction's line of a user's bet detail.
type PredictionBreakdown struct {
	PredictionID   int64  `json:"prediction_id"`
	Label          string `json:"label"`
	PredictionType string `json:"prediction_type"`
	RewardPoints   int    `json:"reward_points"`
	SubmittedValue string `json:"submitted_value,omitempty"`
	CorrectValue   string `json:"correct_value,omitempty"`
	PointsEarned   int    `json:"points_earned"`
}

// BetDetail is the full breakdown of one user's bet on one match.
// ChosenWinner uses the bet encoding: team ID or 0 for a predicted draw.
// Points fields are zero until the match finishes.
type BetDetail struct {
	MatchID      int64                 `json:"match_id"`
	UserID       int64                 `json:"user_id"`
	Username     string                `json:"username"`
	ChosenWinner int64                 `json:"chosen_winner"`
	WinnerPoints int                   `json:"winner_points"`
	Breakdown    []PredictionBreakdown `json:"breakdown"`
	TotalPoints  int                   `json:"total_points"`
	Settled      bool                  `json:"settled"`
}

// GetUserBetDetail returns a user's bet on a match with the per-prediction
// scoring breakdown. For unfinished matches the breakdown lists the
// submitted values with zero points.
func (s *LeaderboardService) GetUserBetDetail(ctx context.Context, userID, matchID int64) (*BetDetail, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	bet, err := s.betRepo.GetByUserAndMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	detail := &BetDetail{
		MatchID:      matchID,
		UserID:       userID,
		Username:     bet.Username,
		ChosenWinner: bet.Bet.PredictedWinner(),
		Settled:      match.PointsCalculationDone,
	}

	var score scoring.BetScore
	if match.IsFinished {
		score = scoring.ScoreBet(bet, scoring.ResolveWinner(match), match, predictions)
		detail.WinnerPoints = score.WinnerPoints
		detail.TotalPoints = score.Total
	}

	answers := bet.AnswerByPrediction()
	for _, p := range predictions {
		line := PredictionBreakdown{
			PredictionID:   p.ID,
			Label:          p.Label,
			PredictionType: p.PredictionType,
			RewardPoints:   p.ScorePoints,
			SubmittedValue: answers[p.ID],
		}
		if p.CorrectValue != nil {
			line.CorrectValue = *p.CorrectValue
		}
		if match.IsFinished {
			line.PointsEarned = score.AnswerPoints[p.ID]
		}
		detail.Breakdown = append(detail.Breakdown, line)
	}

	return detail, nil
}

// GetStandings returns the overall standings: top users by cumulative score.
func (s *LeaderboardService) GetStandings(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}
