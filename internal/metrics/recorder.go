package metrics

import "time"

// RunOutcome labels the final status of a run.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomeFailed  RunOutcome = "failed"
)

// SkipReason labels why a candidate file produced no document.
type SkipReason string

const (
	SkipUnreadable  SkipReason = "unreadable"
	SkipExtraction  SkipReason = "extraction_failed"
	SkipRender      SkipReason = "render_failed"
	SkipNotEligible SkipReason = "not_documentable"
)

// Recorder defines observability hooks for extraction runs.
type Recorder interface {
	IncFilesScanned()
	IncFileSkipped(reason SkipReason)
	IncDocumentGenerated(category string)
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFilesScanned()                           {}
func (NoopRecorder) IncFileSkipped(SkipReason)                  {}
func (NoopRecorder) IncDocumentGenerated(string)                {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                   {}
