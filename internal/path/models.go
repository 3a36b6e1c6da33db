package path

import "backend-sgmrt/internal/shared/geo"

// TimedCoordinate is a coordinate tagged with its run-relative timestamp.
type TimedCoordinate struct {
	T int64 `json:"t"`
	geo.Coordinate
}

// Checkpoint is a simplified path vertex. TurnAngle is nil on the last
// checkpoint, which has no outgoing leg.
type Checkpoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	TurnAngle *int    `json:"turn_angle,omitempty"`
}

type SimplifiedPath struct {
	RenderingCoordinates []geo.Coordinate `json:"rendering_coordinates"`
	Checkpoints          []Checkpoint     `json:"checkpoints"`
}
