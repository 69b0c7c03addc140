package events

import (
	"sync"

	"github.com/drywaters/glimpse/internal/model"
)

// Type names one of the fixed event kinds
type Type string

const (
	SummaryUpdated  Type = "summaryUpdated"
	HistoryUpdated  Type = "historyUpdated"
	LogEmitted      Type = "logEmitted"
	ProgressUpdated Type = "progressUpdated"
)

// Event is a single notification. Owner is empty for global events such as logs.
type Event struct {
	Type     Type
	Owner    string
	Summary  *model.SummaryResult
	History  []model.HistoryItem
	Log      *model.LogEvent
	Progress *model.ProgressSnapshot
}

// Handler receives events synchronously on the publisher's goroutine
type Handler func(Event)

type subscription struct {
	id    uint64
	types map[Type]struct{}
	fn    Handler
}

// Bus is a typed, in-process broadcast. Handlers run in publish order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for the given event types (all types if none are
// given) and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler, types ...Type) func() {
	var set map[Type]struct{}
	if len(types) > 0 {
		set = make(map[Type]struct{}, len(types))
		for _, t := range types {
			set[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, types: set, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers ev to every matching subscriber
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if s.types != nil {
			if _, ok := s.types[ev.Type]; !ok {
				continue
			}
		}
		s.fn(ev)
	}
}
