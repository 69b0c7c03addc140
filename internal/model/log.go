package model

import (
	"strings"
	"time"
)

// Severity is derived from log text, never sent by the backend
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

var severityKeywords = []struct {
	severity Severity
	keywords []string
}{
	{SeverityError, []string{"error", "failed", "failure", "exception", "traceback"}},
	{SeverityWarning, []string{"warn", "fallback", "falling back", "retry", "retrying"}},
	{SeveritySuccess, []string{"complete", "success", "done", "finished"}},
}

// ClassifySeverity infers a severity from keywords in the message
func ClassifySeverity(message string) Severity {
	lower := strings.ToLower(message)
	for _, group := range severityKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.severity
			}
		}
	}
	return SeverityInfo
}

// LogEvent is one progress/status line
type LogEvent struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
}

// NewLogEvent builds an event with its derived severity
func NewLogEvent(message string, at time.Time) LogEvent {
	return LogEvent{
		Message:   message,
		Timestamp: at,
		Severity:  ClassifySeverity(message),
	}
}
