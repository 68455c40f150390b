package handler

import (
	"net/http"
	"strconv"
)

// placeBetRequest is the bet submission body. Answer values are raw form
// strings keyed by stringified prediction IDs.
type placeBetRequest struct {
	UserID  int64             `json:"user_id"`
	Winner  int64             `json:"winner"`
	Answers map[string]string `json:"answers"`
}

// PlaceBet saves a user's bet on a match.
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	var req placeBetRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	answers := make(map[int64]string, len(req.Answers))
	for key, value := range req.Answers {
		predictionID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			badRequest(w, err)
			return
		}
		answers[predictionID] = value
	}

	bet, err := h.bets.PlaceBet(r.Context(), req.UserID, matchID, req.Winner, answers)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

// GetUserBetDetail returns one user's bet on a match with the per-prediction
// scoring breakdown.
func (h *Handler) GetUserBetDetail(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}
	userID, err := idParam(r, "userID")
	if err != nil {
		badRequest(w, err)
		return
	}

	detail, err := h.leaderboard.GetUserBetDetail(r.Context(), userID, matchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
