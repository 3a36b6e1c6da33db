package telemetry

import (
	"errors"
	"io"
	"math"

	"backend-sgmrt/internal/shared/geo"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// Aggregate consumes a JSONL telemetry stream and computes the run
// statistics. Timestamps are rebased onto runStartEpochMs; input order is
// trusted as chronological.
func Aggregate(r io.Reader, runStartEpochMs int64) (Statistics, error) {
	reader := NewReader(r)

	var (
		samples        []Sample
		highest        = math.Inf(-1)
		lowest         = math.Inf(1)
		elevationSum   = decimal.Zero
		distanceMeters = decimal.Zero
	)

	for {
		s, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Statistics{}, err
		}
		s = s.RelativeTo(runStartEpochMs)

		highest = math.Max(highest, s.PaceMinPerKm)
		lowest = math.Min(lowest, s.PaceMinPerKm)
		elevationSum = elevationSum.Add(decimal.NewFromFloat(s.ElevationM))
		if n := len(samples); n > 0 {
			d := geo.HaversineM(samples[n-1].Coordinate(), s.Coordinate())
			distanceMeters = distanceMeters.Add(decimal.NewFromFloat(d))
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return Statistics{}, ErrEmptyInput
	}

	meanElevation := round2(elevationSum.Div(decimal.NewFromInt(int64(len(samples)))))
	relElevation := meanElevation.Sub(decimal.NewFromFloat(samples[0].ElevationM))

	return Statistics{
		Samples:                     samples,
		StartPoint:                  samples[0].Coordinate(),
		HighestPace:                 highest,
		LowestPace:                  lowest,
		AvgElevationRelativeToStart: relElevation.InexactFloat64(),
		TotalDistanceKm:             round2(distanceMeters.Div(thousand)).InexactFloat64(),
	}, nil
}

// round2 rounds half up to two decimals: ties move away from zero, so
// -1.005 becomes -1.01.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
