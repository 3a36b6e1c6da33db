package path

import (
	"cmp"
	"slices"

	"github.com/paulmach/orb/planar"
)

// ToleranceM is the maximum distance, in meters, a dropped point may lie
// from the clamped segment joining its surviving neighbours.
const ToleranceM = 10.0

// Simplify reduces points to the vertices needed to keep the path's shape
// within ToleranceM (Douglas-Peucker). First and last points always survive.
func Simplify(points []TimedCoordinate, p Projector) ([]TimedCoordinate, error) {
	if len(points) <= 2 {
		return slices.Clone(points), nil
	}

	projected, err := p.Project(points)
	if err != nil {
		return nil, err
	}

	keep := make([]bool, len(points))
	keep[0], keep[len(points)-1] = true, true

	stack := [][2]int{{0, len(points) - 1}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		start, end := r[0], r[1]
		if end-start < 2 {
			continue
		}

		split, maxDist := -1, 0.0
		for i := start + 1; i < end; i++ {
			d := planar.DistanceFromSegment(projected[start], projected[end], projected[i])
			if d > maxDist {
				split, maxDist = i, d
			}
		}
		if maxDist <= ToleranceM {
			continue
		}
		keep[split] = true
		stack = append(stack, [2]int{start, split}, [2]int{split, end})
	}

	out := make([]TimedCoordinate, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	slices.SortStableFunc(out, func(a, b TimedCoordinate) int {
		return cmp.Compare(a.T, b.T)
	})
	return out, nil
}
