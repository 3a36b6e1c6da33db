package run

import (
	"time"

	"backend-sgmrt/internal/path"
	"backend-sgmrt/internal/telemetry"
)

const (
	StatusRecording = "recording"
	StatusProcessed = "processed"
)

type Run struct {
	ID                          string    `json:"id"`
	RunnerID                    string    `json:"runner_id"`
	StartedAt                   time.Time `json:"started_at"`
	Status                      string    `json:"status"`
	TotalDistanceKm             float64   `json:"total_distance_km"`
	HighestPace                 float64   `json:"highest_pace"`
	LowestPace                  float64   `json:"lowest_pace"`
	AvgElevationRelativeToStart float64   `json:"avg_elevation_relative_to_start"`
	StartLat                    float64   `json:"start_lat"`
	StartLng                    float64   `json:"start_lng"`
	SampleCount                 int       `json:"sample_count"`
}

// Result is returned after a telemetry upload has been processed. The
// statistics omit the sample list, which is persisted as an artifact.
type Result struct {
	RunID       string               `json:"run_id"`
	SampleCount int                  `json:"sample_count"`
	Statistics  telemetry.Statistics `json:"statistics"`
	Path        path.SimplifiedPath  `json:"path"`
}
