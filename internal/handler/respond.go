package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/backend"
	"github.com/drywaters/glimpse/internal/submit"
)

// isHTMX reports whether the request came from an htmx-driven page element
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	var apiErr *backend.APIError
	var transportErr *backend.TransportError
	switch {
	case submit.IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &apiErr), errors.As(err, &transportErr):
		return http.StatusBadGateway
	case submit.IsData(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown to the user for err. Internal errors are
// not echoed back.
func userMessage(err error) string {
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Timeout() {
			return "Connection timed out. Is the backend running?"
		}
		return "Could not reach the backend. Is it running?"
	}
	if statusFor(err) == http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	return err.Error()
}

// writeError answers with {"detail": msg}, or a toast for htmx requests
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := userMessage(err)
	if isHTMX(r) {
		htmxToast(w, msg, "error")
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeDetail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if isHTMX(r) {
		htmxToast(w, msg, "error")
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"detail": msg})
}

func htmxToast(w http.ResponseWriter, msg string, toastType string) {
	showToast := map[string]string{
		"message": msg,
	}
	if toastType != "" {
		showToast["type"] = toastType
	}

	payload := map[string]map[string]string{
		"showToast": showToast,
	}
	if data, err := json.Marshal(payload); err == nil {
		w.Header().Set("HX-Trigger", string(data))
	}
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("failed to render", "path", r.URL.Path, "error", err)
	}
}
