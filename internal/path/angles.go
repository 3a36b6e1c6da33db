package path

import (
	"math"

	"backend-sgmrt/internal/shared/geo"
)

// Annotate attaches turn angles to checkpoints. The first checkpoint faces
// forward (0), interior ones carry the clockwise change of bearing in whole
// degrees [0, 360), and the last one has none.
func Annotate(points []geo.Coordinate) []Checkpoint {
	if len(points) < 2 {
		return []Checkpoint{}
	}

	out := make([]Checkpoint, len(points))
	for i, p := range points {
		out[i] = Checkpoint{Lat: p.Lat, Lng: p.Lng}
		switch {
		case i == 0:
			out[i].TurnAngle = ptr(0)
		case i < len(points)-1:
			in := geo.Bearing(points[i-1], p)
			next := geo.Bearing(p, points[i+1])
			out[i].TurnAngle = ptr(int(normalizeDegrees(next - in)))
		}
	}
	return out
}

func normalizeDegrees(d float64) float64 {
	return math.Mod(math.Mod(d, 360)+360, 360)
}

func ptr[T any](v T) *T {
	return &v
}
