package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NewArtifact inserts a freshly stored upload.
func (s *Store) NewArtifact(ctx context.Context, artifact *Artifact) (*Artifact, error) {
	if artifact == nil {
		return nil, errors.New("artifact is nil")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO artifacts (
            stored_name, original_name, path, size_bytes, content_type,
            detected_genre, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		artifact.StoredName,
		artifact.OriginalName,
		artifact.Path,
		artifact.SizeBytes,
		nullableString(artifact.ContentType),
		nullableString(artifact.DetectedGenre),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert artifact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetArtifact(ctx, id)
}

// GetArtifact fetches an artifact by identifier.
func (s *Store) GetArtifact(ctx context.Context, id int64) (*Artifact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artifactColumns+` FROM artifacts WHERE id = ?`, id)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return artifact, nil
}

// FindArtifactByStoredName returns the artifact persisted under a storage name.
func (s *Store) FindArtifactByStoredName(ctx context.Context, storedName string) (*Artifact, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+artifactColumns+` FROM artifacts WHERE stored_name = ? LIMIT 1`,
		storedName,
	)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find artifact by stored name: %w", err)
	}
	return artifact, nil
}

// UpdateArtifact persists changes to an existing artifact.
func (s *Store) UpdateArtifact(ctx context.Context, artifact *Artifact) error {
	if artifact == nil {
		return errors.New("artifact is nil")
	}
	artifact.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE artifacts
         SET stored_name = ?, original_name = ?, path = ?, size_bytes = ?,
             content_type = ?, detected_genre = ?, updated_at = ?
         WHERE id = ?`,
		artifact.StoredName,
		artifact.OriginalName,
		artifact.Path,
		artifact.SizeBytes,
		nullableString(artifact.ContentType),
		nullableString(artifact.DetectedGenre),
		artifact.UpdatedAt.Format(time.RFC3339Nano),
		artifact.ID,
	); err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	return nil
}

// ListArtifacts returns all artifacts ordered by creation time.
func (s *Store) ListArtifacts(ctx context.Context) ([]*Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+artifactColumns+` FROM artifacts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

// RemoveArtifact deletes an artifact and, via cascade, its requests.
func (s *Store) RemoveArtifact(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete artifact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
