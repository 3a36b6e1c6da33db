package run

import (
	"fmt"
	"strings"
	"time"
)

var runStart = time.UnixMilli(1_700_000_000_000)

// northThenEastJSONL is ~100 m north up to the equator, then ~100 m east.
func northThenEastJSONL() string {
	coords := [][2]float64{
		{-0.0009, 0}, {-0.0006, 0}, {-0.0003, 0},
		{0, 0}, {0, 0.00045}, {0, 0.0009},
	}
	lines := make([]string, len(coords))
	for i, c := range coords {
		lines[i] = fmt.Sprintf(
			`{"timestamp":%d,"latitude":%g,"longitude":%g,"distance_interval_m":33.4,"pace_min_per_km":%g,"elevation_m":%d,"cadence_spm":172,"heart_rate_bpm":151,"is_moving":true}`,
			runStart.UnixMilli()+int64(i)*12000, c[0], c[1], 5.0+float64(i)*0.1, 20+i)
	}
	return strings.Join(lines, "\n") + "\n"
}
