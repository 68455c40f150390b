package scoring

import (
	"sort"

	"prediction-league/internal/model"
)

// BetScore is the scoring breakdown for one bet on one match.
type BetScore struct {
	UserID       int64
	Username     string
	WinnerPoints int
	// AnswerPoints maps prediction ID to the points earned on that answer.
	// Every prediction of the match has an entry, zero when unanswered,
	// answered wrong, or never resolved by an operator.
	AnswerPoints map[int64]int
	Total        int
}

// ScoreBet computes the points a single bet earned: the winner-pick
// component plus one component per prediction of the match. All quantities
// are non-negative integers; there is no partial credit.
func ScoreBet(bet *model.BetWithAnswers, resolvedWinner int64, match *model.Match, predictions []*model.Prediction) BetScore {
	score := BetScore{
		UserID:       bet.Bet.UserID,
		Username:     bet.Username,
		AnswerPoints: make(map[int64]int, len(predictions)),
	}

	score.WinnerPoints = PointsForWinner(bet.Bet.PredictedWinner(), resolvedWinner, match.ScorePoints)
	score.Total = score.WinnerPoints

	answers := bet.AnswerByPrediction()
	for _, p := range predictions {
		correct := ""
		if p.CorrectValue != nil {
			correct = *p.CorrectValue
		}
		pts := PointsForAnswer(p.PredictionType, answers[p.ID], correct, p.ScorePoints)
		score.AnswerPoints[p.ID] = pts
		score.Total += pts
	}

	return score
}

// BuildLeaderboard scores every bet on a match and returns the leaderboard
// ordered by total points descending. Ties order by user ID ascending so
// the output is deterministic for identical inputs.
func BuildLeaderboard(match *model.Match, resolvedWinner int64, predictions []*model.Prediction, bets []*model.BetWithAnswers) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(bets))
	for _, bet := range bets {
		s := ScoreBet(bet, resolvedWinner, match, predictions)
		entries = append(entries, model.LeaderboardEntry{
			UserID:      s.UserID,
			Username:    s.Username,
			TotalPoints: s.Total,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	return entries
}
