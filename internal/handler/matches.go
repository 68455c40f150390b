package handler

import "net/http"

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"})
}

// ListCompetitions returns all competitions.
func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.matches.ListCompetitions(r.Context())
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"competitions": competitions})
}

// ListCompetitionMatches returns a competition's matches.
func (h *Handler) ListCompetitionMatches(w http.ResponseWriter, r *http.Request) {
	competitionID, err := idParam(r, "competitionID")
	if err != nil {
		badRequest(w, err)
		return
	}

	matches, err := h.matches.ListCompetitionMatches(r.Context(), competitionID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"matches": matches})
}

// GetMatch returns a match with its prediction criteria.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	match, err := h.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// GetMatchLeaderboard returns the per-match leaderboard.
func (h *Handler) GetMatchLeaderboard(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	entries, err := h.leaderboard.GetMatchLeaderboard(r.Context(), matchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries})
}

// GetBetForm returns the typed input descriptors for betting on a match.
func (h *Handler) GetBetForm(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequest(w, err)
		return
	}

	form, err := h.betForm.BuildForm(r.Context(), matchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// GetStandings returns the overall standings (top users by score).
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			limit = parsed
		}
	}

	users, err := h.leaderboard.GetStandings(r.Context(), limit)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"standings": users})
}
