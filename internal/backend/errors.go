package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// TransportError is returned when the backend could not be reached at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the underlying failure was a timeout
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, errTimeout)
}

var errTimeout = errors.New("timed out")

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// extractMessage pulls a human readable message out of an error body.
// Order: JSON detail (string or validation list), JSON error, raw text, fallback.
func extractMessage(body []byte, fallback string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// A bare JSON string is still text the backend meant to show
		var s string
		if json.Unmarshal(body, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		return text
	}

	if len(payload.Detail) > 0 {
		if msg := detailMessage(payload.Detail); msg != "" {
			return msg
		}
	}
	if strings.TrimSpace(payload.Error) != "" {
		return strings.TrimSpace(payload.Error)
	}
	return text
}

// detailMessage handles both {"detail": "msg"} and FastAPI style
// {"detail": [{"msg": "..."}]} bodies.
func detailMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if m := strings.TrimSpace(item.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
