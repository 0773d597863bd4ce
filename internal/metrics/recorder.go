package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// ResolutionLabel enumerates the outcomes of resolving a page path.
type ResolutionLabel string

const (
	ResolutionPage     ResolutionLabel = "page"
	ResolutionNotFound ResolutionLabel = "not_found"
	ResolutionRedirect ResolutionLabel = "redirect"
	ResolutionInvalid  ResolutionLabel = "invalid"
	ResolutionError    ResolutionLabel = "error"
)

// Recorder defines observability hooks for compile, resolve and fetch metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveCompileDuration(d time.Duration)
	IncCompileOutcome(result ResultLabel)
	IncResolution(outcome ResolutionLabel)
	ObserveFetchDuration(source string, d time.Duration, success bool)
	IncFetchRetry(source string)
	IncFetchRetryExhausted(source string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) ObserveCompileDuration(time.Duration)             {}
func (NoopRecorder) IncCompileOutcome(ResultLabel)                    {}
func (NoopRecorder) IncResolution(ResolutionLabel)                    {}
func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncFetchRetry(string)                             {}
func (NoopRecorder) IncFetchRetryExhausted(string)                    {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
