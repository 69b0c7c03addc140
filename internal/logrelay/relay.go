package logrelay

import (
	"log/slog"
	"sync"
	"time"

	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/model"
)

// DefaultWindow is how many recent events the relay keeps
const DefaultWindow = 100

// Relay fans log events out to any number of subscribers in the order they
// were published. A subscriber that falls behind loses events for itself only.
type Relay struct {
	mu     sync.Mutex
	window int
	recent []model.LogEvent
	subs   map[uint64]chan model.LogEvent
	nextID uint64
	bus    *events.Bus
	now    func() time.Time
}

// New creates a relay keeping the last window events. When bus is non-nil
// every event is also published on it as logEmitted; bus handlers must not
// publish back into the relay.
func New(window int, bus *events.Bus) *Relay {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Relay{
		window: window,
		subs:   make(map[uint64]chan model.LogEvent),
		bus:    bus,
		now:    time.Now,
	}
}

// Publish records message as a new event stamped now
func (r *Relay) Publish(message string) model.LogEvent {
	ev := model.NewLogEvent(message, r.now())
	r.PublishEvent(ev)
	return ev
}

// PublishEvent records ev and delivers it to all subscribers
func (r *Relay) PublishEvent(ev model.LogEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = r.now()
	}
	if ev.Severity == "" {
		ev.Severity = model.ClassifySeverity(ev.Message)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.recent = append(r.recent, ev)
	if over := len(r.recent) - r.window; over > 0 {
		r.recent = append(r.recent[:0:0], r.recent[over:]...)
	}

	for id, ch := range r.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("log subscriber is behind, dropping event", "subscriber", id)
		}
	}

	if r.bus != nil {
		r.bus.Publish(events.Event{Type: events.LogEmitted, Log: &ev})
	}
}

// Subscribe returns a channel receiving every event published from now on
// and a cancel function that closes it.
func (r *Relay) Subscribe(buffer int) (<-chan model.LogEvent, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan model.LogEvent, buffer)

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subs[id] = ch
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			close(ch)
			r.mu.Unlock()
		})
	}
}

// Recent returns up to n of the newest events, oldest first. n <= 0 returns the whole window.
func (r *Relay) Recent(n int) []model.LogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if n > 0 && n < len(r.recent) {
		start = len(r.recent) - n
	}
	out := make([]model.LogEvent, len(r.recent)-start)
	copy(out, r.recent[start:])
	return out
}
