package scoring

import (
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"prediction-league/internal/model"
)

// TestIsCorrect tests comparison semantics per prediction type.
func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name           string
		predictionType string
		submitted      string
		correct        string
		expected       bool
	}{
		{"boolean exact", model.PredictionBoolean, "true", "true", true},
		{"boolean case-insensitive", model.PredictionBoolean, "TRUE", "true", true},
		{"boolean mixed case", model.PredictionBoolean, "False", "fALSE", true},
		{"boolean mismatch", model.PredictionBoolean, "true", "false", false},

		{"player exact match", model.PredictionPlayer, "42", "42", true},
		{"player mismatch", model.PredictionPlayer, "42", "7", false},
		{"player no numeric coercion", model.PredictionPlayer, "42.0", "42", false},

		{"numerical equal", model.PredictionNumerical, "3", "3", true},
		{"numerical format tolerant", model.PredictionNumerical, "3", "3.0", true},
		{"numerical float vs int", model.PredictionNumerical, "2.50", "2.5", true},
		{"numerical mismatch", model.PredictionNumerical, "4", "3", false},
		{"numerical unparseable submitted", model.PredictionNumerical, "three", "3", false},
		{"numerical unparseable correct", model.PredictionNumerical, "3", "n/a", false},

		{"unknown type falls back to exact", "ranking", "abc", "abc", true},
		{"unknown type mismatch", "ranking", "abc", "abd", false},

		{"empty submitted", model.PredictionNumerical, "", "3", false},
		{"empty correct", model.PredictionNumerical, "3", "", false},
		{"both empty", model.PredictionBoolean, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsCorrect(tt.predictionType, tt.submitted, tt.correct)
			if result != tt.expected {
				t.Errorf("IsCorrect(%q, %q, %q) = %v, want %v",
					tt.predictionType, tt.submitted, tt.correct, result, tt.expected)
			}
		})
	}
}

// TestPointsForAnswer tests reward attribution for single answers.
func TestPointsForAnswer(t *testing.T) {
	tests := []struct {
		name           string
		predictionType string
		submitted      string
		correct        string
		reward         int
		expected       int
	}{
		{"correct numerical", model.PredictionNumerical, "3", "3.0", 5, 5},
		{"wrong numerical", model.PredictionNumerical, "4", "3", 5, 0},
		{"unresolved prediction", model.PredictionBoolean, "true", "", 10, 0},
		{"unanswered prediction", model.PredictionPlayer, "", "42", 10, 0},
		{"correct player", model.PredictionPlayer, "42", "42", 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PointsForAnswer(tt.predictionType, tt.submitted, tt.correct, tt.reward)
			if result != tt.expected {
				t.Errorf("PointsForAnswer(%q, %q, %q, %d) = %d, want %d",
					tt.predictionType, tt.submitted, tt.correct, tt.reward, result, tt.expected)
			}
		})
	}
}

// TestPointsForWinner tests the winner-pick component.
func TestPointsForWinner(t *testing.T) {
	tests := []struct {
		name      string
		predicted int64
		resolved  int64
		reward    int
		expected  int
	}{
		{"correct team pick", 7, 7, 10, 10},
		{"wrong team pick", 7, 8, 10, 0},
		{"correct draw pick", model.DrawResult, model.DrawResult, 10, 10},
		{"draw pick vs team win", model.DrawResult, 7, 10, 0},
		{"team pick vs draw", 7, model.DrawResult, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PointsForWinner(tt.predicted, tt.resolved, tt.reward)
			if result != tt.expected {
				t.Errorf("PointsForWinner(%d, %d, %d) = %d, want %d",
					tt.predicted, tt.resolved, tt.reward, result, tt.expected)
			}
		})
	}
}

// TestNumericalComparisonProperty checks that any two numbers rendered with
// different string formatting still compare equal, and that numerical
// comparison is symmetric.
func TestNumericalComparisonProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int64Range(-10000, 10000).Draw(t, "n")

		asInt := strconv.FormatInt(n, 10)
		asFloat := strconv.FormatFloat(float64(n), 'f', 1, 64)

		if !IsCorrect(model.PredictionNumerical, asInt, asFloat) {
			t.Fatalf("IsCorrect(numerical, %q, %q) = false, want true", asInt, asFloat)
		}
		if !IsCorrect(model.PredictionNumerical, asFloat, asInt) {
			t.Fatalf("IsCorrect(numerical, %q, %q) = false, want true", asFloat, asInt)
		}
	})
}

// TestRewardNeverNegativeProperty checks points are always 0 or the full
// reward, never partial and never negative.
func TestRewardNeverNegativeProperty(t *testing.T) {
	types := []string{model.PredictionNumerical, model.PredictionPlayer, model.PredictionBoolean, "other"}

	rapid.Check(t, func(t *rapid.T) {
		predictionType := rapid.SampledFrom(types).Draw(t, "type")
		submitted := rapid.StringMatching(`[0-9a-z]{0,6}`).Draw(t, "submitted")
		correct := rapid.StringMatching(`[0-9a-z]{0,6}`).Draw(t, "correct")
		reward := rapid.IntRange(0, 1000).Draw(t, "reward")

		pts := PointsForAnswer(predictionType, submitted, correct, reward)
		if pts != 0 && pts != reward {
			t.Fatalf("PointsForAnswer returned partial credit %d (reward %d)", pts, reward)
		}
	})
}
