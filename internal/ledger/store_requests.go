package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NewRequest inserts a pending transformation request.
func (s *Store) NewRequest(ctx context.Context, artifactID int64, genre string) (*Request, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO transform_requests (
            artifact_id, genre, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?)`,
		artifactID,
		genre,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetRequest(ctx, id)
}

// GetRequest fetches a transformation request by identifier.
func (s *Store) GetRequest(ctx context.Context, id int64) (*Request, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM transform_requests WHERE id = ?`, id)
	request, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return request, nil
}

// FindCompleted returns the oldest completed request for an artifact and genre
// whose output path is recorded. Callers use it as the idempotency lookup
// before invoking the processor.
func (s *Store) FindCompleted(ctx context.Context, artifactID int64, genre string) (*Request, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+requestColumns+` FROM transform_requests
         WHERE artifact_id = ? AND genre = ? AND status = ?
           AND output_path IS NOT NULL AND output_path != ''
         ORDER BY id LIMIT 1`,
		artifactID,
		genre,
		StatusCompleted,
	)
	request, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find completed request: %w", err)
	}
	return request, nil
}

// UpdateRequest persists changes to an existing request.
func (s *Store) UpdateRequest(ctx context.Context, request *Request) error {
	if request == nil {
		return errors.New("request is nil")
	}
	request.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE transform_requests
         SET artifact_id = ?, genre = ?, status = ?, outcome = ?, output_path = ?,
             error_message = ?, updated_at = ?, started_at = ?, finished_at = ?
         WHERE id = ?`,
		request.ArtifactID,
		request.Genre,
		request.Status,
		nullableString(string(request.Outcome)),
		nullableString(request.OutputPath),
		nullableString(request.ErrorMessage),
		request.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(request.StartedAt),
		nullableTime(request.FinishedAt),
		request.ID,
	); err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	return nil
}

// RequestsByArtifact returns all requests for an artifact ordered by creation time.
func (s *Store) RequestsByArtifact(ctx context.Context, artifactID int64) ([]*Request, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+requestColumns+` FROM transform_requests WHERE artifact_id = ? ORDER BY created_at`,
		artifactID,
	)
	if err != nil {
		return nil, fmt.Errorf("query by artifact: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// ListRequests returns requests filtered by status set (or all requests when
// no status is provided).
func (s *Store) ListRequests(ctx context.Context, statuses ...Status) ([]*Request, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + requestColumns + ` FROM transform_requests`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// ResetStuckProcessing returns in-flight requests to pending. Called on
// startup to recover requests abandoned by an interrupted process.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE transform_requests
         SET status = ?, started_at = NULL, updated_at = ?
         WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck requests: %w", err)
	}
	return res.RowsAffected()
}

// RemoveRequest deletes a request by identifier.
func (s *Store) RemoveRequest(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM transform_requests WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCompleted removes only completed requests from the ledger.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM transform_requests WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed requests from the ledger.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM transform_requests WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all requests from the ledger.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM transform_requests`)
	if err != nil {
		return 0, fmt.Errorf("clear ledger: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of requests grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM transform_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates ledger state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusProcessing:
			health.Processing += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		}
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM transform_requests WHERE outcome = ?`,
		OutcomeFallbackCopy,
	)
	if err := row.Scan(&health.Fallbacks); err != nil {
		return HealthSummary{}, fmt.Errorf("count fallbacks: %w", err)
	}
	return health, nil
}
