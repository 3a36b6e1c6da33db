package path

import (
	"backend-sgmrt/internal/shared/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Build derives the renderable artifact of a run: checkpoints from the
// simplified path and, independently, the resampled rendering polyline.
func Build(points []TimedCoordinate, p Projector) (SimplifiedPath, error) {
	simplified, err := Simplify(points, p)
	if err != nil {
		return SimplifiedPath{}, err
	}

	vertices := make([]geo.Coordinate, len(simplified))
	for i, c := range simplified {
		vertices[i] = c.Coordinate
	}

	return SimplifiedPath{
		RenderingCoordinates: Resample(points),
		Checkpoints:          Annotate(vertices),
	}, nil
}

// FeatureCollection renders the path as GeoJSON: the rendering polyline as
// a LineString followed by one Point per checkpoint.
func (sp SimplifiedPath) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, len(sp.RenderingCoordinates))
	for i, c := range sp.RenderingCoordinates {
		line[i] = c.Point()
	}
	route := geojson.NewFeature(line)
	route.Properties["kind"] = "rendering"
	fc.Append(route)

	for i, cp := range sp.Checkpoints {
		f := geojson.NewFeature(orb.Point{cp.Lng, cp.Lat})
		f.Properties["kind"] = "checkpoint"
		f.Properties["index"] = i
		if cp.TurnAngle != nil {
			f.Properties["turn_angle"] = *cp.TurnAngle
		}
		fc.Append(f)
	}
	return fc
}
