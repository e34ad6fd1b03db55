package eventstore

import (
	"encoding/json"
	"time"
)

// Event types written during an extraction run.
const (
	TypeRunStarted      = "RunStarted"
	TypeFileSkipped     = "FileSkipped"
	TypeDocumentWritten = "DocumentWritten"
	TypeRunCompleted    = "RunCompleted"
	TypeRunFailed       = "RunFailed"
)

// Event is one journal entry.
type Event struct {
	ID        int64
	RunID     string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// Decode unmarshals the JSON payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// RunStarted is the payload of TypeRunStarted.
type RunStarted struct {
	Source string `json:"source"`
	Output string `json:"output"`
}

// FileSkipped is the payload of TypeFileSkipped.
type FileSkipped struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

// DocumentWritten is the payload of TypeDocumentWritten.
type DocumentWritten struct {
	File     string `json:"file"`
	Output   string `json:"output"`
	Category string `json:"category"`
}

// RunCompleted is the payload of TypeRunCompleted.
type RunCompleted struct {
	Scanned    int   `json:"scanned"`
	Generated  int   `json:"generated"`
	Skipped    int   `json:"skipped"`
	DurationMS int64 `json:"duration_ms"`
}

// RunFailed is the payload of TypeRunFailed.
type RunFailed struct {
	Error string `json:"error"`
}
