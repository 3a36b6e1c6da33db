package path

import "backend-sgmrt/internal/shared/geo"

const (
	smoothingWindow   = 3
	MinRenderSpacingM = 3.0
)

// Resample produces a display-only polyline: raw points are averaged in
// non-overlapping windows of three (a trailing partial window is dropped),
// then thinned so every kept point is at least MinRenderSpacingM from the
// previously kept one.
func Resample(points []TimedCoordinate) []geo.Coordinate {
	smoothed := make([]TimedCoordinate, 0, len(points)/smoothingWindow)
	for i := 0; i+smoothingWindow <= len(points); i += smoothingWindow {
		var lat, lng float64
		for _, p := range points[i : i+smoothingWindow] {
			lat += p.Lat
			lng += p.Lng
		}
		smoothed = append(smoothed, TimedCoordinate{
			T:          points[i+smoothingWindow-1].T,
			Coordinate: geo.Coordinate{Lat: lat / smoothingWindow, Lng: lng / smoothingWindow},
		})
	}

	out := make([]geo.Coordinate, 0, len(smoothed))
	for _, p := range smoothed {
		if len(out) > 0 && geo.HaversineM(out[len(out)-1], p.Coordinate) < MinRenderSpacingM {
			continue
		}
		out = append(out, p.Coordinate)
	}
	return out
}
