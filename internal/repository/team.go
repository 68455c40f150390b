package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"prediction-league/internal/model"
)

// TeamRepository handles team and player persistence.
type TeamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository instance.
func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

// ListPlayersByTeams retrieves the players of the given teams, ordered by
// team then name. The bet form uses this to offer the two rosters as
// options for player-type predictions.
func (r *TeamRepository) ListPlayersByTeams(ctx context.Context, teamIDs ...int64) ([]*model.Player, error) {
	const query = `
		SELECT id, team_id, first_name, last_name, nickname, role
		FROM players
		WHERE team_id = ANY($1)
		ORDER BY team_id, last_name, first_name
	`

	rows, err := r.pool.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*model.Player
	for rows.Next() {
		var p model.Player
		err := rows.Scan(
			&p.ID,
			&p.TeamID,
			&p.FirstName,
			&p.LastName,
			&p.Nickname,
			&p.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// GetTeams retrieves the named teams as a map keyed by ID.
func (r *TeamRepository) GetTeams(ctx context.Context, teamIDs ...int64) (map[int64]*model.Team, error) {
	const query = `
		SELECT id, name
		FROM teams
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	defer rows.Close()

	teams := make(map[int64]*model.Team)
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams[t.ID] = &t
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}
