package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinate in orb's (lng, lat) order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// HaversineM returns the great-circle distance between a and b in meters.
func HaversineM(a, b Coordinate) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point())
}

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineM(Coordinate{Lat: lat1, Lng: lng1}, Coordinate{Lat: lat2, Lng: lng2}) / 1000
}

// Bearing is the initial great-circle bearing from a to b in degrees,
// in the range (-180, 180]. Callers normalize as needed.
func Bearing(a, b Coordinate) float64 {
	return geo.Bearing(a.Point(), b.Point())
}
