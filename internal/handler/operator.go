package handler

import (
	"net/http"

	"prediction-league/internal/service"
)

// RecordResult stores a match's final scores and marks it finished.
func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	var input service.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	match, err := h.matches.RecordResult(r.Context(), matchID, input)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// ReopenMatch reverts a match to unfinished so a corrected result can be
// recorded.
func (h *Handler) ReopenMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	match, err := h.matches.ReopenMatch(r.Context(), matchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// SettleMatch triggers settlement for a match and reports the outcome.
func (h *Handler) SettleMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	result, err := h.settlement.SettleMatch(r.Context(), matchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type predictionOutcomeRequest struct {
	CorrectValue string `json:"correct_value"`
}

// RecordPredictionOutcome stores the ground truth for one prediction.
func (h *Handler) RecordPredictionOutcome(w http.ResponseWriter, r *http.Request) {
	predictionID, err := idParam(r, "predictionID")
	if err != nil {
		badRequest(w, err)
		return
	}

	var req predictionOutcomeRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	prediction, err := h.matches.RecordPredictionOutcome(r.Context(), predictionID, req.CorrectValue)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}
