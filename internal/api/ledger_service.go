package api

import (
	"context"

	"genreshift/internal/ledger"
)

// LedgerReader abstracts ledger persistence interactions needed for API queries.
type LedgerReader interface {
	ListArtifacts(ctx context.Context) ([]*ledger.Artifact, error)
	GetArtifact(ctx context.Context, id int64) (*ledger.Artifact, error)
	RequestsByArtifact(ctx context.Context, artifactID int64) ([]*ledger.Request, error)
	GetRequest(ctx context.Context, id int64) (*ledger.Request, error)
	Health(ctx context.Context) (ledger.HealthSummary, error)
}

// LedgerService exposes read-only ledger operations returning API DTOs.
type LedgerService struct {
	store LedgerReader
}

// NewLedgerService constructs a LedgerService around the provided reader.
func NewLedgerService(store LedgerReader) *LedgerService {
	if store == nil {
		return nil
	}
	return &LedgerService{store: store}
}

// ListArtifacts returns all recorded artifacts.
func (s *LedgerService) ListArtifacts(ctx context.Context) ([]Artifact, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	artifacts, err := s.store.ListArtifacts(ctx)
	if err != nil {
		return nil, err
	}
	return FromArtifacts(artifacts), nil
}

// DescribeArtifact fetches a single artifact and its transformation history.
func (s *LedgerService) DescribeArtifact(ctx context.Context, id int64) (*ArtifactResponse, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	artifact, err := s.store.GetArtifact(ctx, id)
	if err != nil || artifact == nil {
		return nil, err
	}
	requests, err := s.store.RequestsByArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ArtifactResponse{Artifact: FromArtifact(artifact), Requests: FromRequests(requests)}, nil
}

// DescribeRequest fetches a single transformation request.
func (s *LedgerService) DescribeRequest(ctx context.Context, id int64) (*Request, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	request, err := s.store.GetRequest(ctx, id)
	if err != nil || request == nil {
		return nil, err
	}
	dto := FromRequest(request)
	return &dto, nil
}

// Stats returns ledger summary counts.
func (s *LedgerService) Stats(ctx context.Context) (LedgerStats, error) {
	if s == nil || s.store == nil {
		return LedgerStats{}, nil
	}
	health, err := s.store.Health(ctx)
	if err != nil {
		return LedgerStats{}, err
	}
	return FromHealth(health), nil
}
