package logrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
)

// ErrGaveUp is returned by Stream.Run once its reconnect attempts run out
var ErrGaveUp = errors.New("log stream unavailable, giving up")

// Backoff doubles from Initial up to Max
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

// DefaultBackoff is 1s, 2s, 4s, 8s, 10s, 10s...
var DefaultBackoff = Backoff{Initial: time.Second, Max: 10 * time.Second}

// Delay returns the wait before retry number attempt (1-based)
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			return b.Max
		}
	}
	if d > b.Max {
		return b.Max
	}
	return d
}

// Stream follows the backend's websocket log feed, reconnecting with backoff
type Stream struct {
	url         string
	relay       *Relay
	dialer      *websocket.Dialer
	backoff     Backoff
	maxAttempts int
}

// StreamOption configures a Stream
type StreamOption func(*Stream)

// WithBackoff replaces the reconnect backoff
func WithBackoff(b Backoff) StreamOption {
	return func(s *Stream) { s.backoff = b }
}

// WithMaxAttempts sets how many reconnects follow a failed connection before
// the stream ends. Reconnect n waits Backoff.Delay(n).
func WithMaxAttempts(n int) StreamOption {
	return func(s *Stream) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewStream creates a stream for the websocket at url
func NewStream(url string, relay *Relay, opts ...StreamOption) *Stream {
	s := &Stream{
		url:   url,
		relay: relay,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		backoff:     DefaultBackoff,
		maxAttempts: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run connects and relays frames until ctx is cancelled or the stream gives
// up. A connection that delivered at least one frame resets the failure count.
func (s *Stream) Run(ctx context.Context) error {
	failures := 0
	for {
		frames, err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if frames > 0 {
			failures = 0
		}
		failures++

		if failures > s.maxAttempts {
			slog.Warn("log stream giving up", "url", s.url, "reconnects", s.maxAttempts, "error", err)
			s.relay.Publish(fmt.Sprintf("Warning: log stream unavailable after %d reconnect attempts", s.maxAttempts))
			return ErrGaveUp
		}

		delay := s.backoff.Delay(failures)
		slog.Debug("log stream disconnected, retrying", "url", s.url, "attempt", failures, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// session runs one connection and returns how many frames it relayed
func (s *Stream) session(ctx context.Context) (int, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to dial log stream: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	frames := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return frames, err
		}
		if msg := frameMessage(data); msg != "" {
			s.relay.Publish(msg)
		}
		frames++
	}
}

// frameMessage extracts the text of a {"message": "..."} frame. Frames that
// are not JSON are relayed verbatim.
func frameMessage(data []byte) string {
	var frame struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &frame); err == nil {
		return strings.TrimSpace(frame.Message)
	}
	return strings.TrimSpace(string(data))
}
