package api

import (
	"genreshift/internal/deps"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
)

// FromArtifact converts a ledger record to its API representation.
func FromArtifact(artifact *ledger.Artifact) Artifact {
	if artifact == nil {
		return Artifact{}
	}
	dto := Artifact{
		ID:            artifact.ID,
		StoredName:    artifact.StoredName,
		OriginalName:  artifact.OriginalName,
		SizeBytes:     artifact.SizeBytes,
		ContentType:   artifact.ContentType,
		DetectedGenre: artifact.DetectedGenre,
	}
	if !artifact.CreatedAt.IsZero() {
		dto.CreatedAt = artifact.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !artifact.UpdatedAt.IsZero() {
		dto.UpdatedAt = artifact.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromArtifacts converts a slice of ledger records into API DTOs.
func FromArtifacts(artifacts []*ledger.Artifact) []Artifact {
	if len(artifacts) == 0 {
		return nil
	}
	out := make([]Artifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		out = append(out, FromArtifact(artifact))
	}
	return out
}

// FromRequest converts a transformation request to its API representation.
func FromRequest(request *ledger.Request) Request {
	if request == nil {
		return Request{}
	}
	dto := Request{
		ID:           request.ID,
		ArtifactID:   request.ArtifactID,
		Genre:        request.Genre,
		Status:       string(request.Status),
		Outcome:      string(request.Outcome),
		OutputPath:   request.OutputPath,
		ErrorMessage: request.ErrorMessage,
	}
	if !request.CreatedAt.IsZero() {
		dto.CreatedAt = request.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !request.UpdatedAt.IsZero() {
		dto.UpdatedAt = request.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	if request.StartedAt != nil {
		dto.StartedAt = request.StartedAt.UTC().Format(dateTimeFormat)
	}
	if request.FinishedAt != nil {
		dto.FinishedAt = request.FinishedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromRequests converts a slice of transformation requests into API DTOs.
func FromRequests(requests []*ledger.Request) []Request {
	if len(requests) == 0 {
		return nil
	}
	out := make([]Request, 0, len(requests))
	for _, request := range requests {
		out = append(out, FromRequest(request))
	}
	return out
}

// FromHealth converts a ledger health summary into API stats.
func FromHealth(health ledger.HealthSummary) LedgerStats {
	return LedgerStats{
		Total:      health.Total,
		Pending:    health.Pending,
		Processing: health.Processing,
		Completed:  health.Completed,
		Failed:     health.Failed,
		Fallbacks:  health.Fallbacks,
	}
}

// FromDependencies converts dependency checks into API DTOs.
func FromDependencies(statuses []deps.Status) []DependencyStatus {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]DependencyStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, DependencyStatus{
			Name:        status.Name,
			Command:     status.Command,
			Description: status.Description,
			Optional:    status.Optional,
			Available:   status.Available,
			Detail:      status.Detail,
		})
	}
	return out
}

// FromRegistry converts the genre registry into the API genre list.
func FromRegistry(registry *genres.Registry) GenreListResponse {
	ids := registry.IDs()
	out := make([]Genre, 0, len(ids))
	for _, id := range ids {
		out = append(out, Genre{ID: id, DisplayName: genres.DisplayName(id)})
	}
	return GenreListResponse{Genres: out, Default: genres.DefaultID}
}
