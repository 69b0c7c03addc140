package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/preferences"
)

// PreferencesHandler reads and saves the preferred summary language
type PreferencesHandler struct {
	prefs *preferences.Service
}

// NewPreferencesHandler creates a new PreferencesHandler
func NewPreferencesHandler(prefs *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

type preferencesPayload struct {
	Language string `json:"language"`
}

type preferencesResponse struct {
	Language  model.Language   `json:"language"`
	Languages []model.Language `json:"languages"`
}

// Get handles GET /api/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFrom(r.Context())
	lang, err := h.prefs.Language(r.Context(), owner)
	if err != nil {
		slog.Error("failed to load preferences", "handler", "Get", "owner", owner.Key(), "error", err)
	}
	writeJSON(w, http.StatusOK, preferencesResponse{Language: lang, Languages: model.Languages})
}

// Update handles PUT /api/preferences with JSON {language} or a form field
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload preferencesPayload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeDetail(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeDetail(w, r, http.StatusBadRequest, "Invalid form data")
			return
		}
		payload.Language = r.FormValue("language")
	}

	owner := middleware.OwnerFrom(r.Context())
	lang, err := h.prefs.SetLanguage(r.Context(), owner, payload.Language)
	var unknown *preferences.ErrUnknownLanguage
	switch {
	case errors.As(err, &unknown):
		writeDetail(w, r, http.StatusBadRequest, unknown.Error())
		return
	case err != nil:
		slog.Error("failed to save preferences", "handler", "Update", "owner", owner.Key(), "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	if isHTMX(r) {
		htmxToast(w, "Preferred language set to "+lang.Name, "success")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, preferencesResponse{Language: lang, Languages: model.Languages})
}
