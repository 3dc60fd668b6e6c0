package services

import "context"

type contextKey string

const (
	artifactIDKey contextKey = "artifact_id"
	genreKey      contextKey = "genre"
	requestIDKey  contextKey = "request_id"
)

// WithArtifactID annotates context with the artifact identifier.
func WithArtifactID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, artifactIDKey, id)
}

// ArtifactIDFromContext extracts the artifact identifier if present.
func ArtifactIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(artifactIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithGenre annotates context with the target genre.
func WithGenre(ctx context.Context, genre string) context.Context {
	if genre == "" {
		return ctx
	}
	return context.WithValue(ctx, genreKey, genre)
}

// GenreFromContext returns the target genre if present.
func GenreFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(genreKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
