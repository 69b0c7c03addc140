package urlutil

import (
	"fmt"
	"regexp"
	"strings"
)

var youtubePattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})(?:[?&#/].*)?$`)

// ThumbnailURL returns the high-quality thumbnail for a YouTube video ID
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// WatchURL returns the standard watch URL for a YouTube video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// YouTubeVideoID extracts the 11 character video ID from a YouTube
// watch or short link. It returns "" for anything else.
func YouTubeVideoID(raw string) string {
	matches := youtubePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// IsYouTubeURL reports whether raw is a recognised YouTube video URL
func IsYouTubeURL(raw string) bool {
	return YouTubeVideoID(raw) != ""
}

// StandardizeYouTubeURL rewrites any accepted YouTube URL form to the
// canonical watch URL, dropping tracking and playlist parameters.
func StandardizeYouTubeURL(raw string) (string, error) {
	id := YouTubeVideoID(raw)
	if id == "" {
		return "", fmt.Errorf("not a YouTube video URL")
	}
	return WatchURL(id), nil
}
