// Package scoring implements the points attribution logic: answer
// comparison, match outcome resolution and per-bet scoring. Everything in
// this package is pure computation over already-loaded data.
package scoring

import (
	"strconv"
	"strings"

	"prediction-league/internal/model"
)

// IsCorrect reports whether a submitted answer matches the recorded correct
// value under the comparison semantics of the prediction type.
//
// An empty value on either side is never correct: unanswered predictions and
// predictions whose outcome was never recorded score zero. Comparison rules:
//   - boolean: case-insensitive string equality
//   - player: exact string equality (values are stringified player IDs)
//   - numerical: both sides parse as floats and compare equal; a parse
//     failure on either side means incorrect, never an error
//   - anything else: exact string equality
func IsCorrect(predictionType, submitted, correct string) bool {
	if submitted == "" || correct == "" {
		return false
	}

	switch predictionType {
	case model.PredictionBoolean:
		return strings.EqualFold(submitted, correct)
	case model.PredictionPlayer:
		return submitted == correct
	case model.PredictionNumerical:
		sub, err := strconv.ParseFloat(strings.TrimSpace(submitted), 64)
		if err != nil {
			return false
		}
		cor, err := strconv.ParseFloat(strings.TrimSpace(correct), 64)
		if err != nil {
			return false
		}
		return sub == cor
	default:
		return submitted == correct
	}
}

// PointsForAnswer returns the prediction's reward if the submitted answer is
// correct, 0 otherwise.
func PointsForAnswer(predictionType, submitted, correct string, reward int) int {
	if IsCorrect(predictionType, submitted, correct) {
		return reward
	}
	return 0
}

// MalformedNumerical reports whether a non-empty value fails to parse as a
// number. Malformed values are never an error during scoring (they score
// zero), but settlement logs them for operator visibility.
func MalformedNumerical(value string) bool {
	if value == "" {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err != nil
}

// PointsForWinner returns the match reward if the predicted winner matches
// the resolved winner. Both sides use the same encoding: a team ID, or
// the draw sentinel 0.
func PointsForWinner(predictedWinner, resolvedWinner int64, reward int) int {
	if predictedWinner == resolvedWinner {
		return reward
	}
	return 0
}
