package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prediction-league/internal/model"
)

// BetRepository handles bet and answer persistence.
type BetRepository struct {
	pool *pgxpool.Pool
}

// NewBetRepository creates a new BetRepository instance.
func NewBetRepository(pool *pgxpool.Pool) *BetRepository {
	return &BetRepository{pool: pool}
}

// Save upserts a user's bet for a match together with its answers.
// The (match_id, user_id) uniqueness constraint makes this the single bet
// the user holds on the match; resubmitting replaces the previous answers.
func (r *BetRepository) Save(ctx context.Context, matchID, userID int64, winnerTeamID *int64, answers map[int64]string) (*model.Bet, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin bet transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const betQuery = `
		INSERT INTO bets (match_id, user_id, winner_team_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (match_id, user_id)
		DO UPDATE SET winner_team_id = EXCLUDED.winner_team_id
		RETURNING id, match_id, user_id, winner_team_id, created_at
	`

	var bet model.Bet
	err = tx.QueryRow(ctx, betQuery, matchID, userID, winnerTeamID).Scan(
		&bet.ID,
		&bet.MatchID,
		&bet.UserID,
		&bet.WinnerTeamID,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save bet: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM answers WHERE bet_id = $1`, bet.ID); err != nil {
		return nil, fmt.Errorf("failed to clear previous answers: %w", err)
	}

	const answerQuery = `
		INSERT INTO answers (bet_id, prediction_id, value)
		VALUES ($1, $2, $3)
	`
	for predictionID, value := range answers {
		if _, err := tx.Exec(ctx, answerQuery, bet.ID, predictionID, value); err != nil {
			return nil, fmt.Errorf("failed to save answer for prediction %d: %w", predictionID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bet: %w", err)
	}

	return &bet, nil
}

// GetByUserAndMatch retrieves a user's bet on a match with its answers.
// Returns ErrBetNotFound if the user never bet on the match.
func (r *BetRepository) GetByUserAndMatch(ctx context.Context, userID, matchID int64) (*model.BetWithAnswers, error) {
	const query = `
		SELECT b.id, b.match_id, b.user_id, b.winner_team_id, b.created_at, u.username
		FROM bets b
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1 AND b.match_id = $2
	`

	var bwa model.BetWithAnswers
	err := r.pool.QueryRow(ctx, query, userID, matchID).Scan(
		&bwa.Bet.ID,
		&bwa.Bet.MatchID,
		&bwa.Bet.UserID,
		&bwa.Bet.WinnerTeamID,
		&bwa.Bet.CreatedAt,
		&bwa.Username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBetNotFound
		}
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	const answerQuery = `
		SELECT id, bet_id, prediction_id, value
		FROM answers
		WHERE bet_id = $1
		ORDER BY prediction_id
	`
	rows, err := r.pool.Query(ctx, answerQuery, bwa.Bet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.BetID, &a.PredictionID, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		bwa.Answers = append(bwa.Answers, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return &bwa, nil
}

// ListByMatchWithAnswers retrieves every bet on a match with its answers,
// ordered by user ID.
func (r *BetRepository) ListByMatchWithAnswers(ctx context.Context, matchID int64) ([]*model.BetWithAnswers, error) {
	return listBetsWithAnswers(ctx, r.pool, matchID)
}

// ListByMatchWithAnswersTx is ListByMatchWithAnswers inside the settlement
// transaction.
func (r *BetRepository) ListByMatchWithAnswersTx(ctx context.Context, tx pgx.Tx, matchID int64) ([]*model.BetWithAnswers, error) {
	return listBetsWithAnswers(ctx, tx, matchID)
}

// querier is the subset of pgx query methods shared by pools and transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listBetsWithAnswers(ctx context.Context, q querier, matchID int64) ([]*model.BetWithAnswers, error) {
	const betQuery = `
		SELECT b.id, b.match_id, b.user_id, b.winner_team_id, b.created_at, u.username
		FROM bets b
		JOIN users u ON b.user_id = u.id
		WHERE b.match_id = $1
		ORDER BY b.user_id
	`

	rows, err := q.Query(ctx, betQuery, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	var bets []*model.BetWithAnswers
	byBetID := make(map[int64]*model.BetWithAnswers)
	for rows.Next() {
		var bwa model.BetWithAnswers
		err := rows.Scan(
			&bwa.Bet.ID,
			&bwa.Bet.MatchID,
			&bwa.Bet.UserID,
			&bwa.Bet.WinnerTeamID,
			&bwa.Bet.CreatedAt,
			&bwa.Username,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bwa)
		byBetID[bwa.Bet.ID] = &bwa
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}

	if len(bets) == 0 {
		return nil, nil
	}

	const answerQuery = `
		SELECT a.id, a.bet_id, a.prediction_id, a.value
		FROM answers a
		JOIN bets b ON a.bet_id = b.id
		WHERE b.match_id = $1
		ORDER BY a.bet_id, a.prediction_id
	`

	answerRows, err := q.Query(ctx, answerQuery, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var a model.Answer
		if err := answerRows.Scan(&a.ID, &a.BetID, &a.PredictionID, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if bwa, ok := byBetID[a.BetID]; ok {
			bwa.Answers = append(bwa.Answers, a)
		}
	}

	if err := answerRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return bets, nil
}
