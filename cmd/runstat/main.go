// Command runstat computes run statistics and the simplified path for a
// JSONL telemetry file without touching the database.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"backend-sgmrt/internal/path"
	"backend-sgmrt/internal/telemetry"

	"github.com/goccy/go-json"
)

type report struct {
	SampleCount int                  `json:"sample_count"`
	Statistics  telemetry.Statistics `json:"statistics"`
	Path        path.SimplifiedPath  `json:"path"`
}

func main() {
	input := flag.String("in", "-", "telemetry JSONL file, - for stdin")
	startMs := flag.Int64("start", 0, "run start as epoch milliseconds (default: first sample)")
	geojsonOut := flag.String("geojson", "", "write the path as GeoJSON to this file")
	flag.Parse()

	var start *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "start" {
			start = startMs
		}
	})

	if err := run(*input, start, *geojsonOut, os.Stdout); err != nil {
		log.Fatalf("runstat: %v", err)
	}
}

func run(input string, start *int64, geojsonOut string, out io.Writer) error {
	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	stats, sp, err := analyze(r, start)
	if err != nil {
		return err
	}

	if geojsonOut != "" {
		body, err := sp.FeatureCollection().MarshalJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(geojsonOut, body, 0o644); err != nil {
			return err
		}
	}

	rep := report{SampleCount: len(stats.Samples), Path: sp}
	stats.Samples = nil
	rep.Statistics = stats

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// analyze aggregates the telemetry and builds its path. A nil start rebases
// timestamps onto the first sample.
func analyze(r io.Reader, start *int64) (telemetry.Statistics, path.SimplifiedPath, error) {
	var startMs int64
	if start != nil {
		startMs = *start
	}
	stats, err := telemetry.Aggregate(r, startMs)
	if err != nil {
		return telemetry.Statistics{}, path.SimplifiedPath{}, err
	}
	if start == nil {
		stats.Samples = rebase(stats.Samples)
	}

	points := make([]path.TimedCoordinate, len(stats.Samples))
	for i, s := range stats.Samples {
		points[i] = path.TimedCoordinate{T: s.Timestamp, Coordinate: s.Coordinate()}
	}
	sp, err := path.Build(points, path.UTMProjector{})
	if err != nil {
		return telemetry.Statistics{}, path.SimplifiedPath{}, err
	}
	return stats, sp, nil
}

// rebase makes timestamps relative to the first sample.
func rebase(samples []telemetry.Sample) []telemetry.Sample {
	if len(samples) == 0 {
		return samples
	}
	first := samples[0].Timestamp
	out := make([]telemetry.Sample, len(samples))
	for i, s := range samples {
		out[i] = s.RelativeTo(first)
	}
	return out
}
