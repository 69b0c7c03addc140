package progress

import (
	"context"
	"testing"
	"time"

	"github.com/drywaters/glimpse/internal/model"
)

func TestTrackerCreepApproachesCeiling(t *testing.T) {
	t.Parallel()

	tr := NewEstimator(nil).NewTracker(nil)
	prev := 0.0
	for i := 0; i < 500; i++ {
		tr.Creep()
		p := tr.Snapshot().Progress
		if p < prev {
			t.Fatalf("creep went backwards: %v -> %v", prev, p)
		}
		if p > Ceiling {
			t.Fatalf("creep exceeded ceiling: %v", p)
		}
		prev = p
	}
	if prev != Ceiling {
		t.Fatalf("creep settled at %v, want %v", prev, Ceiling)
	}
}

func TestTrackerCompleteAndFail(t *testing.T) {
	t.Parallel()

	var snaps []model.ProgressSnapshot
	tr := NewEstimator(nil).NewTracker(func(s model.ProgressSnapshot) { snaps = append(snaps, s) })

	tr.Observe("Downloading video...")
	tr.Fail()
	tr.Complete()
	tr.Observe("Finalizing")
	tr.Creep()

	got := tr.Snapshot()
	if !got.Done || !got.Failed || got.Progress != 20 || got.Label != "Failed" {
		t.Fatalf("snapshot = %+v", got)
	}
	if len(snaps) != 2 {
		t.Fatalf("onChange called %d times, want 2", len(snaps))
	}

	ok := NewEstimator(nil).NewTracker(nil)
	ok.Observe("Transcribing audio")
	ok.Complete()
	if s := ok.Snapshot(); s.Progress != 100 || s.Failed || !s.Done {
		t.Fatalf("completed snapshot = %+v", s)
	}
}

func TestTrackerRunObservesLogsAndStopsWhenDone(t *testing.T) {
	t.Parallel()

	tr := NewEstimator(nil).NewTracker(nil)
	logs := make(chan model.LogEvent, 4)
	logs <- model.LogEvent{Message: "Downloading video..."}
	logs <- model.LogEvent{Message: "Transcribing audio..."}

	done := make(chan struct{})
	go func() {
		tr.Run(context.Background(), logs, time.Hour)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for tr.Snapshot().Progress < 40 {
		select {
		case <-deadline:
			t.Fatalf("progress stuck at %v", tr.Snapshot().Progress)
		case <-time.After(5 * time.Millisecond):
		}
	}

	tr.Complete()
	logs <- model.LogEvent{Message: "anything"}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Complete")
	}
}
