package path

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Projector maps a run's coordinates into a planar metric space. The
// returned slice is parallel to points: index i is the projection of points[i].
type Projector interface {
	Project(points []TimedCoordinate) ([]orb.Point, error)
}

type ProjectionError struct {
	Index int
	Lat   float64
	Lng   float64
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("path: cannot project point %d (%f, %f)", e.Index, e.Lat, e.Lng)
}

// WGS84 ellipsoid, UTM scale factor.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0
)

// UTMProjector projects a whole run into the UTM zone and hemisphere of its
// first point, even where later points fall into neighbouring zones.
type UTMProjector struct{}

func (UTMProjector) Project(points []TimedCoordinate) ([]orb.Point, error) {
	if len(points) == 0 {
		return nil, nil
	}
	first := points[0]
	if !projectable(first.Lat, first.Lng) {
		return nil, &ProjectionError{Index: 0, Lat: first.Lat, Lng: first.Lng}
	}
	zone := UTMZone(first.Lng)
	centralMeridian := float64((zone-1)*6-180+3) * math.Pi / 180
	southern := first.Lat < 0

	out := make([]orb.Point, len(points))
	for i, p := range points {
		if !projectable(p.Lat, p.Lng) {
			return nil, &ProjectionError{Index: i, Lat: p.Lat, Lng: p.Lng}
		}
		x, y := transverseMercator(p.Lat*math.Pi/180, p.Lng*math.Pi/180, centralMeridian)
		if southern {
			y += falseNorthing
		}
		out[i] = orb.Point{x, y}
	}
	return out, nil
}

// UTMZone returns floor(lng/6)+31, clamped to the valid 1..60 range.
func UTMZone(lng float64) int {
	zone := int(math.Floor(lng/6)) + 31
	return min(max(zone, 1), 60)
}

func projectable(lat, lng float64) bool {
	return lat >= -80 && lat <= 84 && lng >= -180 && lng <= 180
}

// transverseMercator is the USGS series expansion (Snyder, "Map Projections
// - A Working Manual", 1987, pp. 61-64).
func transverseMercator(phi, lambda, lambda0 float64) (x, y float64) {
	e2 := flattening * (2 - flattening)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := math.Tan(phi)

	n := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lambda - lambda0)

	m := semiMajorAxis * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x = scaleFactor*n*(a+(1-t+c)*a3/6+(5-18*t+t*t+72*c-58*ep2)*a5/120) + falseEasting
	y = scaleFactor * (m + n*tanPhi*(a2/2+(5-t+9*c+4*c*c)*a4/24+(61-58*t+t*t+600*c-330*ep2)*a6/720))
	return x, y
}
