package logrelay

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// LogFetcher returns the backend's current log snapshot
type LogFetcher interface {
	Logs(ctx context.Context) ([]string, error)
}

// Poller periodically fetches the backend log snapshot and publishes the
// lines it has not seen before.
type Poller struct {
	fetcher  LogFetcher
	relay    *Relay
	interval time.Duration
	last     []string
}

// NewPoller creates a poller
func NewPoller(fetcher LogFetcher, relay *Relay, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		fetcher:  fetcher,
		relay:    relay,
		interval: interval,
	}
}

// Run polls until ctx is cancelled
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll fetches one snapshot and publishes its new lines. It returns how
// many lines were published.
func (p *Poller) Poll(ctx context.Context) int {
	lines, err := p.fetcher.Logs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Debug("failed to poll backend logs", "error", err)
		}
		return 0
	}

	fresh := newLines(p.last, lines)
	for _, line := range fresh {
		p.relay.Publish(line)
	}
	p.last = lines
	return len(fresh)
}

// newLines returns the lines of cur that follow the longest overlap between
// the tail of prev and the head of cur. The backend serves a rolling window,
// so an unchanged window yields nothing and a fully rotated one yields all.
func newLines(prev, cur []string) []string {
	maxOverlap := len(prev)
	if len(cur) < maxOverlap {
		maxOverlap = len(cur)
	}

	for k := maxOverlap; k > 0; k-- {
		if slices.Equal(prev[len(prev)-k:], cur[:k]) {
			return cur[k:]
		}
	}
	return cur
}
