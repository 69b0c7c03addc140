package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalizeLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		wantName string
	}{
		{"Hindi", "Hindi"},
		{"hi", "Hindi"},
		{" TAMIL ", "Tamil"},
		{"mr", "Marathi"},
		{"", "English"},
		{"Klingon", "English"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeLanguage(tt.in); got.Name != tt.wantName {
				t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tt.in, got.Name, tt.wantName)
			}
		})
	}
}

func TestClassifySeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    Severity
	}{
		{"Error: transcription failed", SeverityError},
		{"Traceback (most recent call last)", SeverityError},
		{"Falling back to extractive summary", SeverityWarning},
		{"Processing complete", SeveritySuccess},
		{"Downloading video...", SeverityInfo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.message, func(t *testing.T) {
			t.Parallel()
			if got := ClassifySeverity(tt.message); got != tt.want {
				t.Fatalf("ClassifySeverity(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestOwnerKey(t *testing.T) {
	t.Parallel()

	device := Owner{DeviceID: "abc"}
	if device.Authenticated() {
		t.Fatalf("device owner should not be authenticated")
	}
	if device.Key() != "device:abc" {
		t.Fatalf("device key = %q", device.Key())
	}

	id := uuid.New()
	user := Owner{UserID: id, DeviceID: "abc"}
	if !user.Authenticated() {
		t.Fatalf("user owner should be authenticated")
	}
	if user.Key() != "user:"+id.String() {
		t.Fatalf("user key = %q", user.Key())
	}
}

func TestHistoryItemIsUpload(t *testing.T) {
	t.Parallel()

	if !(HistoryItem{SourceURL: "file://talk.mp3"}).IsUpload() {
		t.Fatalf("file source should be an upload")
	}
	if (HistoryItem{SourceURL: "https://www.youtube.com/watch?v=abc12345678"}).IsUpload() {
		t.Fatalf("video URL should not be an upload")
	}
}
