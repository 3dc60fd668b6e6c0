package ledger

import (
	"database/sql"
	"errors"
	"time"
)

const artifactColumns = "id, stored_name, original_name, path, size_bytes, content_type, detected_genre, created_at, updated_at"

const requestColumns = "id, artifact_id, genre, status, outcome, output_path, error_message, created_at, updated_at, started_at, finished_at"

func scanArtifact(scanner interface{ Scan(dest ...any) error }) (*Artifact, error) {
	var (
		id            int64
		storedName    string
		originalName  string
		path          string
		sizeBytes     sql.NullInt64
		contentType   sql.NullString
		detectedGenre sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&storedName,
		&originalName,
		&path,
		&sizeBytes,
		&contentType,
		&detectedGenre,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ID:            id,
		StoredName:    storedName,
		OriginalName:  originalName,
		Path:          path,
		SizeBytes:     sizeBytes.Int64,
		ContentType:   contentType.String,
		DetectedGenre: detectedGenre.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		artifact.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		artifact.UpdatedAt = updated
	}
	return artifact, nil
}

func scanRequest(scanner interface{ Scan(dest ...any) error }) (*Request, error) {
	var (
		id           int64
		artifactID   int64
		genre        string
		statusStr    string
		outcome      sql.NullString
		outputPath   sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&artifactID,
		&genre,
		&statusStr,
		&outcome,
		&outputPath,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	request := &Request{
		ID:           id,
		ArtifactID:   artifactID,
		Genre:        genre,
		Status:       Status(statusStr),
		Outcome:      Outcome(outcome.String),
		OutputPath:   outputPath.String,
		ErrorMessage: errorMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		request.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		request.UpdatedAt = updated
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			request.StartedAt = &started
		}
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			request.FinishedAt = &finished
		}
	}
	return request, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
