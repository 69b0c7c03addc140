package progress

import (
	"context"
	"sync"
	"time"

	"github.com/drywaters/glimpse/internal/model"
)

const (
	// DefaultCreepInterval is how often an idle tracker creeps forward
	DefaultCreepInterval = 500 * time.Millisecond

	minCreep = 0.5
)

// Tracker follows a single submission. Progress only moves forward until
// Complete or Fail ends it; after that every call is a no-op.
type Tracker struct {
	mu       sync.Mutex
	est      *Estimator
	snap     model.ProgressSnapshot
	onChange func(model.ProgressSnapshot)
}

// NewTracker starts a tracker at 0. onChange, if set, is called with every
// new snapshot while the tracker's lock is held, so it must not call back
// into the tracker.
func (e *Estimator) NewTracker(onChange func(model.ProgressSnapshot)) *Tracker {
	return &Tracker{
		est:      e,
		snap:     model.ProgressSnapshot{Label: "Starting"},
		onChange: onChange,
	}
}

// Observe feeds one log line through the estimator. It reports whether
// progress advanced.
func (t *Tracker) Observe(message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Done {
		return false
	}
	est := t.est.Estimate(message, t.snap.Progress)
	if est.Progress <= t.snap.Progress {
		return false
	}
	t.snap.Progress = est.Progress
	t.snap.Label = est.Label
	t.notify()
	return true
}

// Creep nudges progress toward the ceiling so an idle bar still moves
func (t *Tracker) Creep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Done || t.snap.Progress >= Ceiling {
		return
	}
	step := (Ceiling - t.snap.Progress) * 0.1
	if step < minCreep {
		step = minCreep
	}
	t.snap.Progress += step
	if t.snap.Progress > Ceiling {
		t.snap.Progress = Ceiling
	}
	t.notify()
}

// Complete marks the submission as finished successfully
func (t *Tracker) Complete() {
	t.finish(100, "Complete", false)
}

// Fail ends the submission, keeping the progress reached so far
func (t *Tracker) Fail() {
	t.finish(0, "Failed", true)
}

func (t *Tracker) finish(p float64, label string, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Done {
		return
	}
	// never move backwards, even when failing
	p = max(p, t.snap.Progress)
	t.snap = model.ProgressSnapshot{
		Progress: p,
		Label:    label,
		Done:     true,
		Failed:   failed,
	}
	t.notify()
}

// Snapshot returns the current state
func (t *Tracker) Snapshot() model.ProgressSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

func (t *Tracker) notify() {
	if t.onChange != nil {
		t.onChange(t.snap)
	}
}

// Run feeds log lines from logs into the tracker and creeps every interval
// until ctx is cancelled, logs is closed, or the tracker finishes.
func (t *Tracker) Run(ctx context.Context, logs <-chan model.LogEvent, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCreepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-logs:
			if !ok {
				return
			}
			t.Observe(ev.Message)
		case <-ticker.C:
			t.Creep()
		}
		if t.Snapshot().Done {
			return
		}
	}
}
