package logging

import (
	"context"
	"log/slog"

	"genreshift/internal/services"
)

// contextHandler copies correlation values stamped on the context by
// internal/services onto every record, so components do not have to repeat
// artifact/request/genre attrs at each call site.
type contextHandler struct {
	inner slog.Handler
}

func withContextFields(inner slog.Handler) slog.Handler {
	return &contextHandler{inner: inner}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := services.ArtifactIDFromContext(ctx); ok {
		record.AddAttrs(slog.Int64(FieldArtifactID, id))
	}
	if id, ok := services.RequestIDFromContext(ctx); ok {
		record.AddAttrs(slog.String(FieldRequestID, id))
	}
	if genre, ok := services.GenreFromContext(ctx); ok {
		record.AddAttrs(slog.String(FieldGenre, genre))
	}
	return h.inner.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name)}
}
