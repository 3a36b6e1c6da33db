package storage

import (
	"context"
	"fmt"

	"backend-sgmrt/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// With returns a Service bound to q, typically a transaction.
func (s *Service) With(q db.Querier) *Service {
	return &Service{db: q}
}

// SaveArtifact stores a run artifact, replacing an earlier one of the same kind.
func (s *Service) SaveArtifact(ctx context.Context, a Artifact) (Artifact, error) {
	switch a.Kind {
	case KindTelemetry, KindRendering, KindCheckpoints:
	default:
		return Artifact{}, fmt.Errorf("unknown artifact kind %q", a.Kind)
	}

	a.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO run_artifacts (id, run_id, kind, content_type, body)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (run_id, kind) DO UPDATE
		SET id=EXCLUDED.id, content_type=EXCLUDED.content_type, body=EXCLUDED.body, created_at=now()
		RETURNING created_at
	`, a.ID, a.RunID, a.Kind, a.ContentType, a.Body)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

func (s *Service) Artifact(ctx context.Context, runID, kind string) (Artifact, error) {
	a := Artifact{RunID: runID, Kind: kind}
	row := s.db.QueryRow(ctx, `
		SELECT id, content_type, body, created_at
		FROM run_artifacts WHERE run_id=$1 AND kind=$2
	`, runID, kind)
	if err := row.Scan(&a.ID, &a.ContentType, &a.Body, &a.CreatedAt); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
