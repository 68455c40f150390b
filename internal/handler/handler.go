// Package handler provides the HTTP API surface.
package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"prediction-league/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	matches     *service.MatchService
	bets        *service.BetService
	betForm     *service.BetFormService
	leaderboard *service.LeaderboardService
	settlement  *service.SettlementService
}

// New creates a new Handler instance.
func New(
	matches *service.MatchService,
	bets *service.BetService,
	betForm *service.BetFormService,
	leaderboard *service.LeaderboardService,
	settlement *service.SettlementService,
) *Handler {
	return &Handler{
		matches:     matches,
		bets:        bets,
		betForm:     betForm,
		leaderboard: leaderboard,
		settlement:  settlement,
	}
}

// Router builds the chi router with all routes mounted.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/competitions", h.ListCompetitions)
		r.Get("/competitions/{competitionID}/matches", h.ListCompetitionMatches)

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.GetMatch)
			r.Get("/leaderboard", h.GetMatchLeaderboard)
			r.Get("/bet-form", h.GetBetForm)
			r.Post("/bets", h.PlaceBet)
			r.Get("/bets/{userID}", h.GetUserBetDetail)

			// operator endpoints
			r.Post("/result", h.RecordResult)
			r.Post("/reopen", h.ReopenMatch)
			r.Post("/settle", h.SettleMatch)
		})

		r.Post("/predictions/{predictionID}/outcome", h.RecordPredictionOutcome)
		r.Get("/standings", h.GetStandings)
	})

	return r
}
