package telemetry

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const maxLineBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// record mirrors Sample on the wire; pointers mark the required fields.
type record struct {
	Timestamp         *int64   `json:"timestamp"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	DistanceIntervalM float64  `json:"distance_interval_m"`
	PaceMinPerKm      float64  `json:"pace_min_per_km"`
	ElevationM        float64  `json:"elevation_m"`
	CadenceSpm        int      `json:"cadence_spm"`
	HeartRateBpm      int      `json:"heart_rate_bpm"`
	IsMoving          bool     `json:"is_moving"`
}

// Reader decodes line-delimited JSON samples one at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next validated sample, skipping blank lines. It returns
// io.EOF once the stream is exhausted.
func (r *Reader) Next() (Sample, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return r.decode(line)
	}
	if err := r.scanner.Err(); err != nil {
		return Sample{}, &MalformedRecordError{Line: r.line + 1, Err: err}
	}
	return Sample{}, io.EOF
}

func (r *Reader) decode(line []byte) (Sample, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Sample{}, &MalformedRecordError{Line: r.line, Err: err}
	}
	switch {
	case rec.Timestamp == nil:
		return Sample{}, &MalformedRecordError{Line: r.line, Err: errors.New("missing timestamp")}
	case rec.Latitude == nil || rec.Longitude == nil:
		return Sample{}, &MalformedRecordError{Line: r.line, Err: errors.New("missing latitude/longitude")}
	}

	s := Sample{
		Timestamp:         *rec.Timestamp,
		Latitude:          *rec.Latitude,
		Longitude:         *rec.Longitude,
		DistanceIntervalM: rec.DistanceIntervalM,
		PaceMinPerKm:      rec.PaceMinPerKm,
		ElevationM:        rec.ElevationM,
		CadenceSpm:        rec.CadenceSpm,
		HeartRateBpm:      rec.HeartRateBpm,
		IsMoving:          rec.IsMoving,
	}
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return Sample{}, &ValidationError{Line: r.line, Field: fe.Field(), Value: fe.Value()}
		}
		return Sample{}, fmt.Errorf("telemetry: line %d: %w", r.line, err)
	}
	return s, nil
}
