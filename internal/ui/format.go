package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/drywaters/glimpse/internal/model"
)

// FormatDate formats a time to "Jan 2, 2006" format
// Returns an empty string if the time is zero (0001-01-01)
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatClock formats a log timestamp as "15:04:05"
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04:05")
}

// FormatPercent renders a progress value as a whole percentage
func FormatPercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

// SeverityClass maps a log severity to its CSS class
func SeverityClass(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "log-error"
	case model.SeverityWarning:
		return "log-warning"
	case model.SeveritySuccess:
		return "log-success"
	default:
		return "log-info"
	}
}

// DisplayTitle returns title or a placeholder when it is blank
func DisplayTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return "Untitled video"
}
