package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prediction-league/internal/model"
)

// CompetitionRepository handles competition persistence.
type CompetitionRepository struct {
	pool *pgxpool.Pool
}

// NewCompetitionRepository creates a new CompetitionRepository instance.
func NewCompetitionRepository(pool *pgxpool.Pool) *CompetitionRepository {
	return &CompetitionRepository{pool: pool}
}

// List retrieves all competitions ordered by start date.
func (r *CompetitionRepository) List(ctx context.Context) ([]*model.Competition, error) {
	const query = `
		SELECT id, name, start_date, end_date
		FROM competitions
		ORDER BY start_date, name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	defer rows.Close()

	var competitions []*model.Competition
	for rows.Next() {
		var c model.Competition
		if err := rows.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan competition: %w", err)
		}
		competitions = append(competitions, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating competitions: %w", err)
	}

	return competitions, nil
}

// GetByID retrieves a competition by ID.
// Returns ErrCompetitionNotFound if the competition does not exist.
func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (*model.Competition, error) {
	const query = `
		SELECT id, name, start_date, end_date
		FROM competitions
		WHERE id = $1
	`

	var c model.Competition
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}

	return &c, nil
}
