package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"prediction-league/internal/repository"
	"prediction-league/internal/service"
)

type jsonResponse map[string]any

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// readJSON decodes the request body into dst, rejecting unknown fields.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// idParam parses an int64 URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// errorResponse maps service and repository errors to HTTP status codes.
func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrMatchNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrBetNotFound),
		errors.Is(err, repository.ErrPredictionNotFound),
		errors.Is(err, repository.ErrCompetitionNotFound):
		writeJSON(w, http.StatusNotFound, jsonResponse{"error": err.Error()})
	case errors.Is(err, service.ErrMatchFinished),
		errors.Is(err, service.ErrMatchNotFinished),
		errors.Is(err, service.ErrInvalidWinnerPick),
		errors.Is(err, service.ErrUnknownPrediction),
		errors.Is(err, service.ErrIncompleteDrawScore):
		writeJSON(w, http.StatusUnprocessableEntity, jsonResponse{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, jsonResponse{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, jsonResponse{"error": err.Error()})
}

// parsePositiveInt parses a positive int query value.
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("value must be positive")
	}
	return n, nil
}
