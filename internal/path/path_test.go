package path

import (
	"math"
	"testing"

	"backend-sgmrt/internal/shared/geo"

	"github.com/paulmach/orb"
)

// flatProjector treats degrees as meters scaled by a spherical equirectangular
// approximation around the first point.
type flatProjector struct{}

func (flatProjector) Project(points []TimedCoordinate) ([]orb.Point, error) {
	const metersPerDegree = 111319.49
	out := make([]orb.Point, len(points))
	if len(points) == 0 {
		return out, nil
	}
	cosLat := math.Cos(points[0].Lat * math.Pi / 180)
	for i, p := range points {
		out[i] = orb.Point{p.Lng * metersPerDegree * cosLat, p.Lat * metersPerDegree}
	}
	return out, nil
}

func tc(t int64, lat, lng float64) TimedCoordinate {
	return TimedCoordinate{T: t, Coordinate: geo.Coordinate{Lat: lat, Lng: lng}}
}

// northThenEast traces ~100 m north up to the equator, then ~100 m east along it.
func northThenEast() []TimedCoordinate {
	return []TimedCoordinate{
		tc(0, -0.0009, 0),
		tc(1000, -0.0006, 0),
		tc(2000, -0.0003, 0),
		tc(3000, 0, 0),
		tc(4000, 0, 0.00045),
		tc(5000, 0, 0.0009),
	}
}

func coords(points []TimedCoordinate) []geo.Coordinate {
	out := make([]geo.Coordinate, len(points))
	for i, p := range points {
		out[i] = p.Coordinate
	}
	return out
}

func TestEndToEndNorthThenEast(t *testing.T) {
	points := northThenEast()

	for name, projector := range map[string]Projector{"utm": UTMProjector{}, "flat": flatProjector{}} {
		t.Run(name, func(t *testing.T) {
			simplified, err := Simplify(points, projector)
			if err != nil {
				t.Fatalf("simplify: %v", err)
			}
			if len(simplified) != 3 {
				t.Fatalf("expected 3 points, got %d: %+v", len(simplified), simplified)
			}
			if simplified[0] != points[0] || simplified[1] != points[3] || simplified[2] != points[5] {
				t.Fatalf("expected start, corner, end; got %+v", simplified)
			}

			checkpoints := Annotate(coords(simplified))
			if len(checkpoints) != 3 {
				t.Fatalf("expected 3 checkpoints, got %d", len(checkpoints))
			}
			if checkpoints[0].TurnAngle == nil || *checkpoints[0].TurnAngle != 0 {
				t.Fatalf("expected first angle 0")
			}
			if checkpoints[1].TurnAngle == nil || *checkpoints[1].TurnAngle != 90 {
				t.Fatalf("expected corner angle 90, got %v", checkpoints[1].TurnAngle)
			}
			if checkpoints[2].TurnAngle != nil {
				t.Fatalf("expected last angle absent")
			}
		})
	}

	rendering := Resample(points)
	if len(rendering) == 0 {
		t.Fatalf("expected rendering coordinates")
	}
	for i := 1; i < len(rendering); i++ {
		if d := geo.HaversineM(rendering[i-1], rendering[i]); d < MinRenderSpacingM {
			t.Fatalf("points %d and %d only %.2fm apart", i-1, i, d)
		}
	}
}

func TestSimplifySmallInputIsIdentity(t *testing.T) {
	cases := [][]TimedCoordinate{
		nil,
		{tc(0, 1, 1)},
		{tc(0, 1, 1), tc(1, 2, 2)},
	}
	for _, in := range cases {
		out, err := Simplify(in, flatProjector{})
		if err != nil {
			t.Fatalf("simplify: %v", err)
		}
		if len(out) != len(in) {
			t.Fatalf("expected %d points, got %d", len(in), len(out))
		}
		for i := range in {
			if out[i] != in[i] {
				t.Fatalf("point %d changed", i)
			}
		}
	}
}

func TestSimplifyCollapsesNearCollinear(t *testing.T) {
	// middle point sits ~1 m off the chord
	offset := 1.0 / 111319.49
	points := []TimedCoordinate{tc(0, 0, 0), tc(1, 0.0005, offset), tc(2, 0.001, 0)}

	out, err := Simplify(points, flatProjector{})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out) != 2 || out[0] != points[0] || out[1] != points[2] {
		t.Fatalf("expected endpoints only, got %+v", out)
	}
}

func TestSimplifyKeepsDeviationAboveTolerance(t *testing.T) {
	offset := 25.0 / 111319.49
	points := []TimedCoordinate{tc(0, 0, 0), tc(1, 0.0005, offset), tc(2, 0.001, 0)}

	out, err := Simplify(points, flatProjector{})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected all 3 points, got %d", len(out))
	}
}

func TestSimplifyPreservesEndpointsAndSize(t *testing.T) {
	var points []TimedCoordinate
	for i := 0; i < 500; i++ {
		// zig-zag with a slow drift
		lat := float64(i) * 0.00005
		lng := 0.0002 * math.Sin(float64(i)/7)
		points = append(points, tc(int64(i*1000), 37.5+lat, 127+lng))
	}

	out, err := Simplify(points, UTMProjector{})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out) > len(points) || len(out) < 2 {
		t.Fatalf("unexpected size %d", len(out))
	}
	if out[0] != points[0] || out[len(out)-1] != points[len(points)-1] {
		t.Fatalf("endpoints not preserved")
	}
	for i := 1; i < len(out); i++ {
		if out[i].T <= out[i-1].T {
			t.Fatalf("output not in timestamp order at %d", i)
		}
	}
}

func TestSimplifyLongStraightLine(t *testing.T) {
	points := make([]TimedCoordinate, 20000)
	for i := range points {
		points[i] = tc(int64(i), float64(i)*0.00001, 0)
	}
	out, err := Simplify(points, flatProjector{})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected straight line to collapse to 2 points, got %d", len(out))
	}
}

func TestSimplifyProjectionError(t *testing.T) {
	points := []TimedCoordinate{tc(0, 10, 10), tc(1, 95, 10), tc(2, 10, 11)}
	_, err := Simplify(points, UTMProjector{})
	perr, ok := err.(*ProjectionError)
	if !ok {
		t.Fatalf("expected projection error, got %v", err)
	}
	if perr.Index != 1 {
		t.Fatalf("expected index 1, got %d", perr.Index)
	}
}

func TestUTMZone(t *testing.T) {
	cases := map[float64]int{
		-180: 1,
		-0.5: 30,
		0:    31,
		2.9:  31,
		127:  52,
		179:  60,
		180:  60,
	}
	for lng, want := range cases {
		if got := UTMZone(lng); got != want {
			t.Fatalf("UTMZone(%v) = %d, want %d", lng, got, want)
		}
	}
}

func TestUTMProjectorDistanceMatchesGround(t *testing.T) {
	a := tc(0, 37.5665, 126.9780)
	b := tc(1, 37.5765, 126.9900)
	projected, err := UTMProjector{}.Project([]TimedCoordinate{a, b})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	planarDist := math.Hypot(projected[1][0]-projected[0][0], projected[1][1]-projected[0][1])
	ground := geo.HaversineM(a.Coordinate, b.Coordinate)
	// within 1% (scale factor + spherical vs ellipsoidal model)
	if math.Abs(planarDist-ground)/ground > 0.01 {
		t.Fatalf("planar %.2fm vs ground %.2fm", planarDist, ground)
	}
}

func TestUTMProjectorKnownPoint(t *testing.T) {
	// zone 31 central meridian at the equator: easting is the false easting
	projected, err := UTMProjector{}.Project([]TimedCoordinate{tc(0, 0, 3)})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if math.Abs(projected[0][0]-500000) > 1e-6 || math.Abs(projected[0][1]) > 1e-6 {
		t.Fatalf("unexpected projection %v", projected[0])
	}
}

func TestResample(t *testing.T) {
	t.Run("short input is empty", func(t *testing.T) {
		if got := Resample([]TimedCoordinate{tc(0, 0, 0), tc(1, 0, 0.001)}); len(got) != 0 {
			t.Fatalf("expected empty, got %v", got)
		}
	})

	t.Run("averages windows and drops partial", func(t *testing.T) {
		points := []TimedCoordinate{
			tc(0, 0, 0), tc(1, 0.0003, 0), tc(2, 0.0006, 0),
			tc(3, 0.0009, 0), tc(4, 0.0012, 0), tc(5, 0.0015, 0),
			tc(6, 0.5, 0.5),
		}
		got := Resample(points)
		if len(got) != 2 {
			t.Fatalf("expected 2 points, got %d", len(got))
		}
		if math.Abs(got[0].Lat-0.0003) > 1e-12 || math.Abs(got[1].Lat-0.0012) > 1e-12 {
			t.Fatalf("unexpected means: %+v", got)
		}
	})

	t.Run("thins against last kept point", func(t *testing.T) {
		// each window mean advances ~1.1 m; only every third clears 3 m
		var points []TimedCoordinate
		for i := 0; i < 30; i++ {
			points = append(points, tc(int64(i), float64(i/3)*0.00001, 0))
		}
		got := Resample(points)
		if len(got) == 0 || got[0].Lat != 0 {
			t.Fatalf("expected first smoothed point kept, got %+v", got)
		}
		if len(got) >= 10 {
			t.Fatalf("expected thinning, got %d points", len(got))
		}
		for i := 1; i < len(got); i++ {
			if geo.HaversineM(got[i-1], got[i]) < MinRenderSpacingM {
				t.Fatalf("kept points %d and %d closer than %vm", i-1, i, MinRenderSpacingM)
			}
		}
	})
}

func TestAnnotate(t *testing.T) {
	t.Run("fewer than two", func(t *testing.T) {
		if got := Annotate(nil); len(got) != 0 {
			t.Fatalf("expected empty")
		}
		if got := Annotate([]geo.Coordinate{{Lat: 1, Lng: 1}}); len(got) != 0 {
			t.Fatalf("expected empty")
		}
	})

	t.Run("two points", func(t *testing.T) {
		got := Annotate([]geo.Coordinate{{}, {Lat: 0.001}})
		if len(got) != 2 || got[0].TurnAngle == nil || *got[0].TurnAngle != 0 || got[1].TurnAngle != nil {
			t.Fatalf("unexpected checkpoints %+v", got)
		}
	})

	t.Run("straight line", func(t *testing.T) {
		var line []geo.Coordinate
		for i := 0; i < 6; i++ {
			line = append(line, geo.Coordinate{Lat: float64(i) * 0.001, Lng: 127})
		}
		got := Annotate(line)
		for i := 1; i < len(got)-1; i++ {
			if got[i].TurnAngle == nil || *got[i].TurnAngle != 0 {
				t.Fatalf("checkpoint %d: expected 0, got %v", i, got[i].TurnAngle)
			}
		}
	})

	t.Run("angles stay in range", func(t *testing.T) {
		// north then west: a counter-clockwise turn wraps to 270
		got := Annotate([]geo.Coordinate{{Lat: -0.001}, {}, {Lng: -0.001}})
		if got[1].TurnAngle == nil || *got[1].TurnAngle != 270 {
			t.Fatalf("expected 270, got %v", got[1].TurnAngle)
		}
	})
}

func TestNormalizeDegrees(t *testing.T) {
	cases := map[float64]float64{0: 0, 90: 90, -90: 270, 360: 0, 725: 5, -1e-15: 0}
	for in, want := range cases {
		got := normalizeDegrees(in)
		if got < 0 || got >= 360 {
			t.Fatalf("normalize(%v) = %v out of range", in, got)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("normalize(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildAndFeatureCollection(t *testing.T) {
	sp, err := Build(northThenEast(), UTMProjector{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(sp.Checkpoints) != 3 || len(sp.RenderingCoordinates) == 0 {
		t.Fatalf("unexpected path %+v", sp)
	}

	fc := sp.FeatureCollection()
	if len(fc.Features) != 1+len(sp.Checkpoints) {
		t.Fatalf("expected %d features, got %d", 1+len(sp.Checkpoints), len(fc.Features))
	}
	if _, ok := fc.Features[0].Geometry.(orb.LineString); !ok {
		t.Fatalf("expected first feature to be a LineString")
	}
	if _, ok := fc.Features[len(fc.Features)-1].Properties["turn_angle"]; ok {
		t.Fatalf("last checkpoint should not carry a turn angle")
	}
	if _, err := fc.MarshalJSON(); err != nil {
		t.Fatalf("marshal geojson: %v", err)
	}
}
