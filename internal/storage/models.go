package storage

import "time"

// Artifact kinds persisted for every processed run.
const (
	KindTelemetry   = "telemetry"
	KindRendering   = "rendering"
	KindCheckpoints = "checkpoints"
)

const (
	ContentTypeJSON  = "application/json"
	ContentTypeJSONL = "application/x-ndjson"
)

type Artifact struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Kind        string    `json:"kind"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
