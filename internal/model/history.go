package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxHistoryItems caps the history list; older items are evicted first
const MaxHistoryItems = 10

// HistoryItem records one submission attempt, successful or not
type HistoryItem struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	SourceURL    string    `json:"source_url"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
}

// FileSourcePrefix marks history items that came from an upload
const FileSourcePrefix = "file://"

// IsUpload reports whether the item was a file upload (which cannot be resubmitted)
func (h HistoryItem) IsUpload() bool {
	return strings.HasPrefix(h.SourceURL, FileSourcePrefix)
}

// Preferences holds per-owner settings
type Preferences struct {
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
