package scoring

import "prediction-league/internal/model"

// ResolveWinner derives the authoritative result of a finished match:
// the winning team's ID, or model.DrawResult for a draw.
//
// Main scores decide first. When they are level and the match needed a
// winner, the draw scores (if both recorded) break the tie with the same
// greater-than rule. Level draw scores, or a missing tie-break, resolve
// to a draw.
func ResolveWinner(m *model.Match) int64 {
	if m.TeamOneScore > m.TeamTwoScore {
		return m.TeamOneID
	}
	if m.TeamTwoScore > m.TeamOneScore {
		return m.TeamTwoID
	}

	if m.IsWinnerNeeded && m.TeamOneDrawScore != nil && m.TeamTwoDrawScore != nil {
		if *m.TeamOneDrawScore > *m.TeamTwoDrawScore {
			return m.TeamOneID
		}
		if *m.TeamTwoDrawScore > *m.TeamOneDrawScore {
			return m.TeamTwoID
		}
	}

	return model.DrawResult
}
