package handler

import (
	"log/slog"
	"net/http"

	"github.com/drywaters/glimpse/internal/history"
	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/ui"
	"github.com/drywaters/glimpse/internal/ui/partials"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HistoryHandler serves the owner's submission history
type HistoryHandler struct {
	history *history.Store
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(history *history.Store) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, "List")
}

// Clear handles DELETE /api/history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFrom(r.Context())
	if err := h.history.For(owner).Clear(r.Context()); err != nil {
		slog.Error("failed to clear history", "handler", "Clear", "owner", owner.Key(), "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	if isHTMX(r) {
		htmxToast(w, "History cleared", "")
	}
	h.writeList(w, r, "Clear")
}

// Remove handles DELETE /api/history/{id}
func (h *HistoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, r, http.StatusBadRequest, "Invalid history ID")
		return
	}

	owner := middleware.OwnerFrom(r.Context())
	if err := h.history.For(owner).Remove(r.Context(), id); err != nil {
		slog.Error("failed to remove history item", "handler", "Remove", "owner", owner.Key(), "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to remove history item")
		return
	}
	h.writeList(w, r, "Remove")
}

func (h *HistoryHandler) writeList(w http.ResponseWriter, r *http.Request, name string) {
	items, err := h.history.For(middleware.OwnerFrom(r.Context())).List(r.Context())
	if err != nil {
		slog.Error("failed to list history", "handler", name, "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if isHTMX(r) {
		render(w, r, partials.HistoryList(ui.NewHistoryViews(items), false))
		return
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
