package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/logrelay"
	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/fasthttp/websocket"
)

const (
	// recentLogLimit is how many lines GET /api/logs returns
	recentLogLimit = 50

	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsBuffer     = 64
)

// LogsHandler exposes the log relay and progress updates to browsers
type LogsHandler struct {
	relay    *logrelay.Relay
	bus      *events.Bus
	upgrader websocket.Upgrader
}

// NewLogsHandler creates a new LogsHandler
func NewLogsHandler(relay *logrelay.Relay, bus *events.Bus) *LogsHandler {
	return &LogsHandler{
		relay: relay,
		bus:   bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Recent handles GET /api/logs
func (h *LogsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	recent := h.relay.Recent(recentLogLimit)
	lines := make([]string, 0, len(recent))
	for _, ev := range recent {
		lines = append(lines, ev.Message)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"logs": lines})
}

type logFrame struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Severity  model.Severity `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
}

type progressFrame struct {
	Type string `json:"type"`
	model.ProgressSnapshot
}

// summaryFrame and historyFrame tell the page to re-fetch its result and
// history panels
type summaryFrame struct {
	Type  string             `json:"type"`
	State model.DisplayState `json:"state"`
}

type historyFrame struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ownerFrame turns one of the requesting owner's bus events into a frame
func ownerFrame(ev events.Event) any {
	switch ev.Type {
	case events.ProgressUpdated:
		if ev.Progress != nil {
			return progressFrame{Type: "progress", ProgressSnapshot: *ev.Progress}
		}
	case events.SummaryUpdated:
		return summaryFrame{Type: "summary", State: model.StateOf(ev.Summary)}
	case events.HistoryUpdated:
		return historyFrame{Type: "history", Count: len(ev.History)}
	}
	return nil
}

// Stream handles GET /ws/logs. Every relay event is sent as a log frame.
// The requesting owner's progress, summary and history updates follow as
// progress, summary and history frames.
func (h *LogsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFrom(r.Context()).Key()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "handler", "Stream", "error", err)
		return
	}
	defer conn.Close()

	logs, unsubscribeLogs := h.relay.Subscribe(wsBuffer)
	defer unsubscribeLogs()

	owned := make(chan any, wsBuffer)
	unsubscribeOwner := h.bus.Subscribe(func(ev events.Event) {
		if ev.Owner != owner {
			return
		}
		frame := ownerFrame(ev)
		if frame == nil {
			return
		}
		select {
		case owned <- frame:
		default:
		}
	}, events.ProgressUpdated, events.SummaryUpdated, events.HistoryUpdated)
	defer unsubscribeOwner()

	// The read loop only handles control frames and notices the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		var frame any
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-logs:
			if !ok {
				return
			}
			frame = logFrame{Type: "log", Message: ev.Message, Severity: ev.Severity, Timestamp: ev.Timestamp}
		case frame = <-owned:
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			slog.Debug("websocket write failed", "handler", "Stream", "error", err)
			return
		}
	}
}
