package submit

import (
	"path/filepath"
	"strings"

	"github.com/drywaters/glimpse/internal/backend"
	"github.com/drywaters/glimpse/internal/urlutil"
)

var mediaExtensions = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".aac": {}, ".ogg": {}, ".flac": {},
	".mp4": {}, ".mov": {}, ".mkv": {}, ".webm": {}, ".avi": {},
}

// Input is one submission: a video URL or an uploaded media file, never both
type Input struct {
	URL  string
	File *backend.File
}

// validate checks the input and returns the standardized video URL (for
// URL submissions) and video ID.
func (in Input) validate() (videoURL, videoID string, err error) {
	hasURL := strings.TrimSpace(in.URL) != ""
	hasFile := in.File != nil

	switch {
	case hasURL && hasFile:
		return "", "", &ValidationError{Message: "Provide either a video URL or a file, not both"}
	case !hasURL && !hasFile:
		return "", "", &ValidationError{Message: "Please enter a YouTube URL or choose a file"}
	case hasFile:
		return "", "", validateFile(in.File)
	}

	videoURL, err = urlutil.StandardizeYouTubeURL(in.URL)
	if err != nil {
		return "", "", &ValidationError{Message: "Please enter a valid YouTube URL"}
	}
	return videoURL, urlutil.YouTubeVideoID(videoURL), nil
}

func validateFile(f *backend.File) error {
	if strings.TrimSpace(f.Name) == "" || f.Body == nil {
		return &ValidationError{Message: "The uploaded file is empty"}
	}
	if isMediaFile(f.Name, f.ContentType) {
		return nil
	}
	return &ValidationError{Message: "Please upload an audio or video file"}
}

func isMediaFile(name, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "audio/") || strings.HasPrefix(ct, "video/") {
		return true
	}
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
