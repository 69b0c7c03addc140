package events

import (
	"testing"

	"github.com/drywaters/glimpse/internal/model"
)

func TestBusFiltersByType(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var summaries, all int
	bus.Subscribe(func(Event) { summaries++ }, SummaryUpdated)
	bus.Subscribe(func(Event) { all++ })

	bus.Publish(Event{Type: SummaryUpdated, Summary: &model.SummaryResult{}})
	bus.Publish(Event{Type: LogEmitted, Log: &model.LogEvent{Message: "hi"}})

	if summaries != 1 {
		t.Fatalf("summary handler called %d times, want 1", summaries)
	}
	if all != 2 {
		t.Fatalf("catch-all handler called %d times, want 2", all)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var first, second int
	unsubFirst := bus.Subscribe(func(Event) { first++ })
	bus.Subscribe(func(Event) { second++ })

	bus.Publish(Event{Type: HistoryUpdated})
	unsubFirst()
	unsubFirst()
	bus.Publish(Event{Type: HistoryUpdated})

	if first != 1 || second != 2 {
		t.Fatalf("first=%d second=%d, want 1 and 2", first, second)
	}
}

func TestBusPreservesPublishOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var got []string
	bus.Subscribe(func(ev Event) { got = append(got, ev.Log.Message) }, LogEmitted)

	for _, msg := range []string{"a", "b", "c"} {
		bus.Publish(Event{Type: LogEmitted, Log: &model.LogEvent{Message: msg}})
	}

	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("got %v", got)
	}
}
