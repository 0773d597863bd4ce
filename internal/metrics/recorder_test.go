package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; it is used to check Recorder wiring in this package.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	compileResults map[ResultLabel]int
	resolutions    map[ResolutionLabel]int
	fetches        map[string]int
}

var _ Recorder = (*testRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		compileResults: map[ResultLabel]int{},
		resolutions:    map[ResolutionLabel]int{},
		fetches:        map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) ObserveCompileDuration(time.Duration) {}

func (t *testRecorder) IncCompileOutcome(result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.compileResults[result]++
}

func (t *testRecorder) IncResolution(outcome ResolutionLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolutions[outcome]++
}

func (t *testRecorder) ObserveFetchDuration(source string, _ time.Duration, _ bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetches[source]++
}

func (t *testRecorder) IncFetchRetry(string)          {}
func (t *testRecorder) IncFetchRetryExhausted(string) {}
