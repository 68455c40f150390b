package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prediction-league/internal/model"
)

const matchColumns = `
	id, competition_id, team_one_id, team_two_id,
	team_one_score, team_two_score, is_winner_needed,
	team_one_draw_score, team_two_draw_score,
	score_points, start_time, is_finished, points_calculation_done
`

// MatchRepository handles match data persistence.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new MatchRepository instance.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

func scanMatch(row pgx.Row) (*model.Match, error) {
	var m model.Match
	err := row.Scan(
		&m.ID,
		&m.CompetitionID,
		&m.TeamOneID,
		&m.TeamTwoID,
		&m.TeamOneScore,
		&m.TeamTwoScore,
		&m.IsWinnerNeeded,
		&m.TeamOneDrawScore,
		&m.TeamTwoDrawScore,
		&m.ScorePoints,
		&m.StartTime,
		&m.IsFinished,
		&m.PointsCalculationDone,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID retrieves a match by ID.
// Returns ErrMatchNotFound if the match does not exist.
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*model.Match, error) {
	query := `SELECT` + matchColumns + `FROM matches WHERE id = $1`

	m, err := scanMatch(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return m, nil
}

// GetForUpdateTx loads a match with a row lock inside the settlement
// transaction. The lock makes the settlement guard race-free: a concurrent
// settlement for the same match blocks here until the first commits, then
// observes points_calculation_done = true.
func (r *MatchRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Match, error) {
	query := `SELECT` + matchColumns + `FROM matches WHERE id = $1 FOR UPDATE`

	m, err := scanMatch(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match: %w", err)
	}

	return m, nil
}

// MarkSettledTx flips points_calculation_done inside the settlement
// transaction. Once committed the match's scoring output is frozen.
func (r *MatchRepository) MarkSettledTx(ctx context.Context, tx pgx.Tx, id int64) error {
	const query = `
		UPDATE matches
		SET points_calculation_done = TRUE
		WHERE id = $1 AND is_finished = TRUE
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark match settled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

// ListByCompetition retrieves all matches of a competition ordered by start time.
func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]*model.Match, error) {
	query := `SELECT` + matchColumns + `FROM matches WHERE competition_id = $1 ORDER BY start_time, id`

	rows, err := r.pool.Query(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// ListFinishedUnsettled retrieves matches that finished but were never
// settled. The sweeper feeds these to SettleMatch; a match appearing here
// twice is harmless because settlement is idempotent.
func (r *MatchRepository) ListFinishedUnsettled(ctx context.Context) ([]*model.Match, error) {
	query := `SELECT` + matchColumns + `FROM matches
		WHERE is_finished = TRUE AND points_calculation_done = FALSE
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled matches: %w", err)
	}
	defer rows.Close()

	var matches []*model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// RecordResult stores the final scores of a match and marks it finished.
// Draw scores may be nil when the match did not need a tie-break.
func (r *MatchRepository) RecordResult(ctx context.Context, id int64, teamOneScore, teamTwoScore int, teamOneDrawScore, teamTwoDrawScore *int) (*model.Match, error) {
	query := `
		UPDATE matches
		SET team_one_score = $2,
		    team_two_score = $3,
		    team_one_draw_score = $4,
		    team_two_draw_score = $5,
		    is_finished = TRUE
		WHERE id = $1
		RETURNING` + matchColumns

	m, err := scanMatch(r.pool.QueryRow(ctx, query, id, teamOneScore, teamTwoScore, teamOneDrawScore, teamTwoDrawScore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	return m, nil
}

// ResetSettlement reopens a match: clears is_finished and
// points_calculation_done so a corrected result can be recorded and settled
// again. Points already credited by the previous settlement are NOT
// reversed; the cumulative user ledger keeps them.
func (r *MatchRepository) ResetSettlement(ctx context.Context, id int64) (*model.Match, error) {
	query := `
		UPDATE matches
		SET is_finished = FALSE,
		    points_calculation_done = FALSE
		WHERE id = $1
		RETURNING` + matchColumns

	m, err := scanMatch(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to reset settlement: %w", err)
	}

	return m, nil
}
