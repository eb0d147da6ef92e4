package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/campredict/internal/game/camping"
)

// ErrPredictionNotFound is returned when a prediction lookup yields no results.
var ErrPredictionNotFound = errors.New("prediction not found")

// Record is one stored evaluation.
type Record struct {
	ID         int64              `json:"id"`
	SessionID  uuid.UUID          `json:"session_id"`
	Input      camping.Input      `json:"input"`
	Prediction camping.Prediction `json:"prediction"`
	CreatedAt  time.Time          `json:"created_at"`
}

// PredictionRepository provides prediction history persistence.
type PredictionRepository struct {
	db *pgxpool.Pool
}

// NewPredictionRepository creates a PredictionRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPredictionRepository(db *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save stores one evaluation made in the given session.
//
// Precondition: sessionID must not be uuid.Nil.
// Postcondition: Returns the stored record with ID and CreatedAt set.
func (r *PredictionRepository) Save(ctx context.Context, sessionID uuid.UUID, in camping.Input, p camping.Prediction) (Record, error) {
	if sessionID == uuid.Nil {
		return Record{}, fmt.Errorf("saving prediction: session id must not be nil")
	}
	inJSON, err := json.Marshal(in)
	if err != nil {
		return Record{}, fmt.Errorf("encoding input: %w", err)
	}
	pJSON, err := json.Marshal(p)
	if err != nil {
		return Record{}, fmt.Errorf("encoding prediction: %w", err)
	}

	rec := Record{SessionID: sessionID, Input: in, Prediction: p}
	err = r.db.QueryRow(ctx, `
		INSERT INTO predictions (session_id, input, prediction, displayed_score, tier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		sessionID, inJSON, pJSON, p.Score.Displayed, p.Score.Tier.Severity,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("inserting prediction: %w", err)
	}
	return rec, nil
}

// ListBySession returns the most recent predictions of a session, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns at most limit records (may be empty) or a non-nil error.
func (r *PredictionRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("listing predictions: limit must be > 0, got %d", limit)
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, input, prediction, created_at
		FROM predictions WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predictions: %w", err)
	}
	return out, nil
}

// Get returns the prediction with the given id.
//
// Postcondition: Returns ErrPredictionNotFound if no such record exists.
func (r *PredictionRepository) Get(ctx context.Context, id int64) (Record, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, session_id, input, prediction, created_at
		FROM predictions WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrPredictionNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec    Record
		inJSON []byte
		pJSON  []byte
	)
	if err := row.Scan(&rec.ID, &rec.SessionID, &inJSON, &pJSON, &rec.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("scanning prediction: %w", err)
	}
	if err := json.Unmarshal(inJSON, &rec.Input); err != nil {
		return Record{}, fmt.Errorf("decoding input of prediction %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal(pJSON, &rec.Prediction); err != nil {
		return Record{}, fmt.Errorf("decoding prediction %d: %w", rec.ID, err)
	}
	return rec, nil
}
