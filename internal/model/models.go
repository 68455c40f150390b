// Package model defines the data models for the prediction league service.
package model

import "time"

// Prediction types understood by the answer comparison logic.
const (
	PredictionNumerical = "numerical"
	PredictionPlayer    = "player"
	PredictionBoolean   = "boolean"
)

// DrawResult is the winner value representing a draw. It is distinct from
// every team ID and matches how a predicted draw is stored on a bet
// (a null winner_team_id reads back as 0).
const DrawResult int64 = 0

// User represents a registered player of the prediction game.
// Score is a cumulative points ledger, only ever incremented by settlement.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Score     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// Competition groups matches, e.g. a league season or a cup.
type Competition struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// Team is one side of a match.
type Team struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Player belongs to a team and can be the answer to a player-type prediction.
type Player struct {
	ID        int64  `db:"id"`
	TeamID    int64  `db:"team_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Nickname  string `db:"nickname"`
	Role      string `db:"role"`
}

// Match is a fixture between two teams.
//
// TeamOneDrawScore/TeamTwoDrawScore are set only when the main scores ended
// level and the match needed a winner (e.g. a penalty shootout). ScorePoints
// is the reward for picking the winner correctly. PointsCalculationDone
// guards settlement: it may only be true when IsFinished is true, and
// settlement never runs twice while it is set.
type Match struct {
	ID                    int64     `db:"id"`
	CompetitionID         int64     `db:"competition_id"`
	TeamOneID             int64     `db:"team_one_id"`
	TeamTwoID             int64     `db:"team_two_id"`
	TeamOneScore          int       `db:"team_one_score"`
	TeamTwoScore          int       `db:"team_two_score"`
	IsWinnerNeeded        bool      `db:"is_winner_needed"`
	TeamOneDrawScore      *int      `db:"team_one_draw_score"`
	TeamTwoDrawScore      *int      `db:"team_two_draw_score"`
	ScorePoints           int       `db:"score_points"`
	StartTime             time.Time `db:"start_time"`
	IsFinished            bool      `db:"is_finished"`
	PointsCalculationDone bool      `db:"points_calculation_done"`
}

// Prediction is a per-match question with its own point reward.
// CorrectValue stays nil until an operator records the outcome; while nil
// the prediction contributes zero points to everyone.
type Prediction struct {
	ID             int64   `db:"id"`
	MatchID        int64   `db:"match_id"`
	Label          string  `db:"label"`
	PredictionType string  `db:"prediction_type"`
	ScorePoints    int     `db:"score_points"`
	CorrectValue   *string `db:"correct_value"`
}

// Bet is a user's full submission for one match: a winner pick plus answers.
// WinnerTeamID nil means the user predicted a draw. One bet per (user, match).
type Bet struct {
	ID           int64     `db:"id"`
	MatchID      int64     `db:"match_id"`
	UserID       int64     `db:"user_id"`
	WinnerTeamID *int64    `db:"winner_team_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// PredictedWinner returns the bet's winner pick in the same encoding
// ResolveWinner produces: a team ID, or DrawResult for a predicted draw.
func (b *Bet) PredictedWinner() int64 {
	if b.WinnerTeamID == nil {
		return DrawResult
	}
	return *b.WinnerTeamID
}

// BetWithAnswers bundles a bet with its answers and the owning user's name,
// as loaded by the settlement and leaderboard paths.
type BetWithAnswers struct {
	Bet      Bet
	Username string
	Answers  []Answer
}

// AnswerByPrediction indexes the bet's answers by prediction ID.
// Predictions the user skipped are simply absent.
func (b *BetWithAnswers) AnswerByPrediction() map[int64]string {
	m := make(map[int64]string, len(b.Answers))
	for _, a := range b.Answers {
		m[a.PredictionID] = a.Value
	}
	return m
}

// Answer is a user's submitted value for one prediction of their bet.
// The value is stored as a string and interpreted per the prediction's type.
type Answer struct {
	ID           int64  `db:"id"`
	BetID        int64  `db:"bet_id"`
	PredictionID int64  `db:"prediction_id"`
	Value        string `db:"value"`
}

// Settlement statuses returned by SettleMatch.
const (
	SettlementSuccess        = "success"
	SettlementAlreadySettled = "already_settled"
	SettlementNotFinished    = "not_finished"
	SettlementNoBets         = "no_bets"
)

// SettlementResult summarises one SettleMatch call.
type SettlementResult struct {
	MatchID            int64  `json:"match_id"`
	Status             string `json:"status"`
	UsersUpdated       int    `json:"users_updated"`
	TotalPointsAwarded int    `json:"total_points_awarded"`
}

// LeaderboardEntry is one row of a per-match leaderboard.
type LeaderboardEntry struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
}
