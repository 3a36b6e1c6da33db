package telemetry

import "backend-sgmrt/internal/shared/geo"

// Sample is one telemetry record. Timestamp is absolute epoch milliseconds
// on ingestion and run-relative after RelativeTo.
type Sample struct {
	Timestamp         int64   `json:"timestamp"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	DistanceIntervalM float64 `json:"distance_interval_m" validate:"gte=0"`
	PaceMinPerKm      float64 `json:"pace_min_per_km" validate:"gte=0"`
	ElevationM        float64 `json:"elevation_m"`
	CadenceSpm        int     `json:"cadence_spm" validate:"gte=0"`
	HeartRateBpm      int     `json:"heart_rate_bpm" validate:"gte=0"`
	IsMoving          bool    `json:"is_moving"`
}

// RelativeTo returns a copy of s with its timestamp offset from startMs.
func (s Sample) RelativeTo(startMs int64) Sample {
	s.Timestamp -= startMs
	return s
}

func (s Sample) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: s.Latitude, Lng: s.Longitude}
}

type Statistics struct {
	Samples                     []Sample       `json:"samples,omitempty"`
	StartPoint                  geo.Coordinate `json:"start_point"`
	HighestPace                 float64        `json:"highest_pace"`
	LowestPace                  float64        `json:"lowest_pace"`
	AvgElevationRelativeToStart float64        `json:"avg_elevation_relative_to_start"`
	TotalDistanceKm             float64        `json:"total_distance_km"`
}
