// Package sessions caches the last session list fetched from the backend so
// the dashboard can still show it while the server is unreachable.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/dbx"
)

type Repository interface {
	// ReplaceAll drops the cached list and stores list in its order.
	ReplaceAll(ctx context.Context, list []models.CandidateSession, fetchedAt time.Time) error
	// List returns the cached sessions in their original order.
	List(ctx context.Context) ([]models.CandidateSession, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository keeps every session as a JSON payload with a few
// columns pulled out for ordering and lookup.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceAll should run inside a transaction; see dbx.WithTx.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []models.CandidateSession, fetchedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	for i := range list {
		s := &list[i]
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode session %s: %w", s.SessionID, err)
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO sessions (session_id, position, candidate_name, status_public, payload, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(session_id) DO UPDATE SET
				position = excluded.position,
				candidate_name = excluded.candidate_name,
				status_public = excluded.status_public,
				payload = excluded.payload,
				fetched_at = excluded.fetched_at
		`, s.SessionID, i, s.CandidateName, s.StatusPublic, payload, fetchedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to store session %s: %w", s.SessionID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.CandidateSession, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM sessions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select sessions: %w", err)
	}
	defer rows.Close()

	result := []models.CandidateSession{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		var s models.CandidateSession
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("failed to decode cached session: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
