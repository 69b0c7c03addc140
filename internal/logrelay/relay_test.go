package logrelay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/model"
)

func TestRelayDeliversInOrderToEverySubscriber(t *testing.T) {
	t.Parallel()

	relay := New(10, nil)
	a, cancelA := relay.Subscribe(10)
	defer cancelA()
	b, cancelB := relay.Subscribe(10)
	defer cancelB()

	for i := 0; i < 5; i++ {
		relay.Publish(fmt.Sprintf("line %d", i))
	}

	for _, ch := range []<-chan model.LogEvent{a, b} {
		for i := 0; i < 5; i++ {
			ev := <-ch
			if want := fmt.Sprintf("line %d", i); ev.Message != want {
				t.Fatalf("event %d = %q, want %q", i, ev.Message, want)
			}
		}
	}
}

func TestRelaySlowSubscriberDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	relay := New(10, nil)
	slow, cancelSlow := relay.Subscribe(1)
	defer cancelSlow()
	fast, cancelFast := relay.Subscribe(10)
	defer cancelFast()

	for i := 0; i < 5; i++ {
		relay.Publish(fmt.Sprintf("line %d", i))
	}

	if got := len(fast); got != 5 {
		t.Fatalf("fast subscriber buffered %d events, want 5", got)
	}
	if ev := <-slow; ev.Message != "line 0" {
		t.Fatalf("slow subscriber got %q, want first event", ev.Message)
	}
}

func TestRelayRecentKeepsRollingWindow(t *testing.T) {
	t.Parallel()

	relay := New(3, nil)
	for i := 0; i < 5; i++ {
		relay.Publish(fmt.Sprintf("line %d", i))
	}

	recent := relay.Recent(0)
	if len(recent) != 3 || recent[0].Message != "line 2" || recent[2].Message != "line 4" {
		t.Fatalf("Recent(0) = %v", recent)
	}

	last := relay.Recent(1)
	if len(last) != 1 || last[0].Message != "line 4" {
		t.Fatalf("Recent(1) = %v", last)
	}
}

func TestRelayCancelClosesChannel(t *testing.T) {
	t.Parallel()

	relay := New(10, nil)
	ch, cancel := relay.Subscribe(1)
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
	relay.Publish("after cancel")
}

func TestRelayClassifiesAndForwardsToBus(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	var mu sync.Mutex
	var got []model.LogEvent
	bus.Subscribe(func(ev events.Event) {
		mu.Lock()
		got = append(got, *ev.Log)
		mu.Unlock()
	}, events.LogEmitted)

	relay := New(10, bus)
	relay.Publish("Error: transcription failed")

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("bus received %d events, want 1", len(got))
	}
	if got[0].Severity != model.SeverityError {
		t.Fatalf("severity = %q, want error", got[0].Severity)
	}
}
