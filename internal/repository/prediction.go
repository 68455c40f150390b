package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prediction-league/internal/model"
)

// PredictionRepository handles prediction criterion persistence.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a new PredictionRepository instance.
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

const predictionColumns = `id, match_id, label, prediction_type, score_points, correct_value`

func scanPrediction(row pgx.Row) (*model.Prediction, error) {
	var p model.Prediction
	err := row.Scan(
		&p.ID,
		&p.MatchID,
		&p.Label,
		&p.PredictionType,
		&p.ScorePoints,
		&p.CorrectValue,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByMatch retrieves all predictions of a match ordered by ID.
func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID int64) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE match_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}

// ListByMatchTx is ListByMatch inside the settlement transaction, so the
// scored correct values are the ones the transaction observes.
func (r *PredictionRepository) ListByMatchTx(ctx context.Context, tx pgx.Tx, matchID int64) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE match_id = $1 ORDER BY id`

	rows, err := tx.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}

// SetCorrectValue records the ground truth for a prediction after the match.
func (r *PredictionRepository) SetCorrectValue(ctx context.Context, id int64, value string) (*model.Prediction, error) {
	query := `
		UPDATE predictions
		SET correct_value = $2
		WHERE id = $1
		RETURNING ` + predictionColumns

	p, err := scanPrediction(r.pool.QueryRow(ctx, query, id, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to set correct value: %w", err)
	}

	return p, nil
}
