// Package main is the entry point for the prediction league service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"prediction-league/internal/config"
	"prediction-league/internal/handler"
	"prediction-league/internal/pkg/db"
	"prediction-league/internal/repository"
	"prediction-league/internal/service"
	"prediction-league/internal/worker"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool, cfg.Scoring); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	competitionRepo := repository.NewCompetitionRepository(dbPool.Pool)
	teamRepo := repository.NewTeamRepository(dbPool.Pool)
	matchRepo := repository.NewMatchRepository(dbPool.Pool)
	predictionRepo := repository.NewPredictionRepository(dbPool.Pool)
	betRepo := repository.NewBetRepository(dbPool.Pool)

	// Initialize services
	matchService := service.NewMatchService(matchRepo, predictionRepo, competitionRepo)
	betService := service.NewBetService(matchRepo, predictionRepo, betRepo, userRepo)
	betFormService := service.NewBetFormService(matchRepo, predictionRepo, teamRepo)
	leaderboardService := service.NewLeaderboardService(matchRepo, predictionRepo, betRepo, userRepo)
	settlementService := service.NewSettlementService(dbPool.Pool, matchRepo, predictionRepo, betRepo, userRepo)

	// Initialize the settlement sweeper
	sweeper := worker.NewSweeper(matchRepo, settlementService, cfg.Settlement.SweepInterval)
	if cfg.Settlement.SweepEnabled {
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start settlement sweeper")
		}
	}

	// Initialize HTTP server
	h := handler.New(matchService, betService, betFormService, leaderboardService, settlementService)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server is starting...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := sweeper.Stop(); err != nil {
		log.Error().Err(err).Msg("Sweeper shutdown error")
	}

	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations. The scoring config supplies
// the point rewards new matches and predictions default to.
func runMigrations(ctx context.Context, pool *db.Pool, scoring config.ScoringConfig) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			score BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_score ON users(score DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create competitions, teams and players tables
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS competitions (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS teams (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		);
		CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			nickname VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_players_team ON players(team_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: competitions, teams and players tables created")

	// Migration 3: Create matches table
	_, err = pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			competition_id BIGINT NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
			team_one_id BIGINT NOT NULL REFERENCES teams(id),
			team_two_id BIGINT NOT NULL REFERENCES teams(id),
			team_one_score INT NOT NULL DEFAULT 0,
			team_two_score INT NOT NULL DEFAULT 0,
			is_winner_needed BOOLEAN NOT NULL DEFAULT FALSE,
			team_one_draw_score INT,
			team_two_draw_score INT,
			score_points INT NOT NULL DEFAULT %d,
			start_time TIMESTAMPTZ NOT NULL,
			is_finished BOOLEAN NOT NULL DEFAULT FALSE,
			points_calculation_done BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS idx_matches_competition ON matches(competition_id, start_time);
		CREATE INDEX IF NOT EXISTS idx_matches_unsettled ON matches(is_finished) WHERE points_calculation_done = FALSE;
	`, scoring.DefaultMatchPoints))
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: matches table created")

	// Migration 4: Create predictions table
	_, err = pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS predictions (
			id BIGSERIAL PRIMARY KEY,
			match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			label VARCHAR(255) NOT NULL,
			prediction_type VARCHAR(50) NOT NULL,
			score_points INT NOT NULL DEFAULT %d,
			correct_value TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_predictions_match ON predictions(match_id);
	`, scoring.DefaultPredictionPoints))
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: predictions table created")

	// Migration 5: Create bets and answers tables
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bets (
			id BIGSERIAL PRIMARY KEY,
			match_id BIGINT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			winner_team_id BIGINT REFERENCES teams(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (match_id, user_id)
		);
		CREATE TABLE IF NOT EXISTS answers (
			id BIGSERIAL PRIMARY KEY,
			bet_id BIGINT NOT NULL REFERENCES bets(id) ON DELETE CASCADE,
			prediction_id BIGINT NOT NULL REFERENCES predictions(id) ON DELETE CASCADE,
			value TEXT NOT NULL,
			UNIQUE (bet_id, prediction_id)
		);
		CREATE INDEX IF NOT EXISTS idx_bets_match ON bets(match_id);
		CREATE INDEX IF NOT EXISTS idx_answers_bet ON answers(bet_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: bets and answers tables created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
