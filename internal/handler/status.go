package handler

import (
	"context"
	"net/http"

	"github.com/drywaters/glimpse/internal/backend"
	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/ui"
)

// Prober checks that the summarization backend is reachable
type Prober interface {
	Probe(ctx context.Context) (string, error)
}

// ProgressSource reports an owner's submission progress
type ProgressSource interface {
	Progress(owner model.Owner) (model.ProgressSnapshot, bool)
}

// StatusHandler serves the connectivity probe and progress snapshots
type StatusHandler struct {
	prober   Prober
	progress ProgressSource
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(prober Prober, progress ProgressSource) *StatusHandler {
	return &StatusHandler{prober: prober, progress: progress}
}

// Connection handles GET /api/connection
func (h *StatusHandler) Connection(w http.ResponseWriter, r *http.Request) {
	msg, err := h.prober.Probe(r.Context())
	connected := err == nil
	if err != nil {
		msg = backend.ProbeMessage(err)
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		class := "ok"
		if !connected {
			class = "error"
		}
		ui.NewHTML(w).Raw(`<span class="`).Text(class).Raw(`">`).Text(msg).Raw(`</span>`)
		return
	}

	status := http.StatusOK
	if !connected {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{"connected": connected, "message": msg})
}

// Progress handles GET /api/progress
func (h *StatusHandler) Progress(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.progress.Progress(middleware.OwnerFrom(r.Context()))
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": !snap.Done, "progress": snap})
}
