package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"backend-sgmrt/internal/course"
	"backend-sgmrt/internal/db"
	"backend-sgmrt/internal/path"
	"backend-sgmrt/internal/storage"
	"backend-sgmrt/internal/stream"
	"backend-sgmrt/internal/telemetry"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound       = errors.New("run not found")
	ErrTooManySamples = errors.New("telemetry exceeds sample limit")
)

const EventProcessed = "run.processed"

type Service struct {
	db         db.Pool
	store      *storage.Service
	cache      *course.Cache
	hub        *stream.Hub
	projector  path.Projector
	maxSamples int
}

// NewService wires the run service. maxSamples <= 0 disables the sample cap.
func NewService(pool db.Pool, cache *course.Cache, hub *stream.Hub, maxSamples int) *Service {
	return &Service{
		db:         pool,
		store:      storage.NewService(pool),
		cache:      cache,
		hub:        hub,
		projector:  path.UTMProjector{},
		maxSamples: maxSamples,
	}
}

func (s *Service) StartRun(ctx context.Context, input Run) (Run, error) {
	input.ID = uuid.NewString()
	if input.StartedAt.IsZero() {
		input.StartedAt = time.Now()
	}
	input.Status = StatusRecording

	row := s.db.QueryRow(ctx, `
		INSERT INTO runs (id, runner_id, started_at, status)
		VALUES ($1,$2,$3,$4)
		RETURNING started_at, status
	`, input.ID, input.RunnerID, input.StartedAt, input.Status)
	if err := row.Scan(&input.StartedAt, &input.Status); err != nil {
		return Run{}, err
	}
	return input, nil
}

// ProcessTelemetry turns a completed run's JSONL telemetry into statistics
// and a renderable path, then persists both. Nothing is written unless the
// whole upload is valid.
func (s *Service) ProcessTelemetry(ctx context.Context, runID string, body io.Reader) (Result, error) {
	var startedAt time.Time
	err := s.db.QueryRow(ctx, `SELECT started_at FROM runs WHERE id=$1`, runID).Scan(&startedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, err
	}

	stats, err := telemetry.Aggregate(body, startedAt.UnixMilli())
	if err != nil {
		return Result{}, err
	}
	if s.maxSamples > 0 && len(stats.Samples) > s.maxSamples {
		return Result{}, fmt.Errorf("%w: %d > %d", ErrTooManySamples, len(stats.Samples), s.maxSamples)
	}

	sp, err := path.Build(track(stats.Samples), s.projector)
	if err != nil {
		return Result{}, err
	}

	artifacts, err := encodeArtifacts(runID, stats.Samples, sp)
	if err != nil {
		return Result{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := s.persist(ctx, tx, runID, stats, artifacts); err != nil {
		_ = tx.Rollback(ctx)
		return Result{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}

	if err := s.cache.Put(ctx, runID, sp); err != nil {
		log.Printf("course cache put %s: %v", runID, err)
	}
	if s.hub != nil {
		ev := stream.Event{Type: EventProcessed, RunID: runID, Data: eventSummary(stats)}
		if err := s.hub.Publish(ctx, ev); err != nil {
			log.Printf("publish %s for %s: %v", EventProcessed, runID, err)
		}
	}

	count := len(stats.Samples)
	stats.Samples = nil
	return Result{RunID: runID, SampleCount: count, Statistics: stats, Path: sp}, nil
}

func (s *Service) persist(ctx context.Context, tx pgx.Tx, runID string, stats telemetry.Statistics, artifacts []storage.Artifact) error {
	tag, err := tx.Exec(ctx, `
		UPDATE runs
		SET status=$2, total_distance_km=$3, highest_pace=$4, lowest_pace=$5,
		    avg_elevation_rel_start=$6, start_lat=$7, start_lng=$8, sample_count=$9,
		    processed_at=now()
		WHERE id=$1
	`, runID, StatusProcessed, stats.TotalDistanceKm, stats.HighestPace, stats.LowestPace,
		stats.AvgElevationRelativeToStart, stats.StartPoint.Lat, stats.StartPoint.Lng, len(stats.Samples))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	store := s.store.With(tx)
	for _, a := range artifacts {
		if _, err := store.SaveArtifact(ctx, a); err != nil {
			return fmt.Errorf("save %s artifact: %w", a.Kind, err)
		}
	}
	return nil
}

func (s *Service) Summary(ctx context.Context, runID string) (Run, error) {
	var r Run
	row := s.db.QueryRow(ctx, `
		SELECT id, runner_id, started_at, status,
		       COALESCE(total_distance_km,0), COALESCE(highest_pace,0), COALESCE(lowest_pace,0),
		       COALESCE(avg_elevation_rel_start,0), COALESCE(start_lat,0), COALESCE(start_lng,0),
		       COALESCE(sample_count,0)
		FROM runs WHERE id=$1
	`, runID)
	err := row.Scan(&r.ID, &r.RunnerID, &r.StartedAt, &r.Status,
		&r.TotalDistanceKm, &r.HighestPace, &r.LowestPace,
		&r.AvgElevationRelativeToStart, &r.StartLat, &r.StartLng, &r.SampleCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// Path returns the run's simplified path from the course cache, rebuilding
// the cache entry from stored artifacts on a miss.
func (s *Service) Path(ctx context.Context, runID string) (path.SimplifiedPath, error) {
	sp, err := s.cache.Get(ctx, runID)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, course.ErrMiss) {
		log.Printf("course cache get %s: %v", runID, err)
	}

	rendering, err := s.store.Artifact(ctx, runID, storage.KindRendering)
	if err != nil {
		return path.SimplifiedPath{}, notFound(err)
	}
	checkpoints, err := s.store.Artifact(ctx, runID, storage.KindCheckpoints)
	if err != nil {
		return path.SimplifiedPath{}, notFound(err)
	}

	if err := json.Unmarshal(rendering.Body, &sp.RenderingCoordinates); err != nil {
		return path.SimplifiedPath{}, fmt.Errorf("decode rendering artifact: %w", err)
	}
	if err := json.Unmarshal(checkpoints.Body, &sp.Checkpoints); err != nil {
		return path.SimplifiedPath{}, fmt.Errorf("decode checkpoints artifact: %w", err)
	}

	if err := s.cache.Put(ctx, runID, sp); err != nil {
		log.Printf("course cache put %s: %v", runID, err)
	}
	return sp, nil
}

// IsInvalidTelemetry reports whether err means the uploaded data itself
// was rejected, as opposed to an infrastructure failure.
func IsInvalidTelemetry(err error) bool {
	var (
		validationErr *telemetry.ValidationError
		malformedErr  *telemetry.MalformedRecordError
		projectionErr *path.ProjectionError
	)
	return errors.Is(err, telemetry.ErrEmptyInput) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &malformedErr) ||
		errors.As(err, &projectionErr)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func track(samples []telemetry.Sample) []path.TimedCoordinate {
	out := make([]path.TimedCoordinate, len(samples))
	for i, s := range samples {
		out[i] = path.TimedCoordinate{T: s.Timestamp, Coordinate: s.Coordinate()}
	}
	return out
}

func eventSummary(stats telemetry.Statistics) map[string]any {
	return map[string]any{
		"total_distance_km": stats.TotalDistanceKm,
		"highest_pace":      stats.HighestPace,
		"lowest_pace":       stats.LowestPace,
		"start_point":       stats.StartPoint,
	}
}

func encodeArtifacts(runID string, samples []telemetry.Sample, sp path.SimplifiedPath) ([]storage.Artifact, error) {
	var jsonl bytes.Buffer
	enc := json.NewEncoder(&jsonl)
	for _, s := range samples {
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	}

	renderingBody, err := json.Marshal(sp.RenderingCoordinates)
	if err != nil {
		return nil, err
	}
	checkpointsBody, err := json.Marshal(sp.Checkpoints)
	if err != nil {
		return nil, err
	}

	return []storage.Artifact{
		{RunID: runID, Kind: storage.KindTelemetry, ContentType: storage.ContentTypeJSONL, Body: jsonl.Bytes()},
		{RunID: runID, Kind: storage.KindRendering, ContentType: storage.ContentTypeJSON, Body: renderingBody},
		{RunID: runID, Kind: storage.KindCheckpoints, ContentType: storage.ContentTypeJSON, Body: checkpointsBody},
	}, nil
}
