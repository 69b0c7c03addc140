package urlutil

import "testing"

func TestStandardizeYouTubeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "canonical watch url",
			raw:  "https://www.youtube.com/watch?v=abc12345678",
			want: "https://www.youtube.com/watch?v=abc12345678",
		},
		{
			name: "short link with timestamp",
			raw:  "https://youtu.be/abc12345678?t=42",
			want: "https://www.youtube.com/watch?v=abc12345678",
		},
		{
			name: "no scheme or www",
			raw:  "youtube.com/watch?v=abc12345678",
			want: "https://www.youtube.com/watch?v=abc12345678",
		},
		{
			name: "v after other params",
			raw:  "https://www.youtube.com/watch?feature=share&v=a_b-c123456",
			want: "https://www.youtube.com/watch?v=a_b-c123456",
		},
		{
			name: "playlist params dropped",
			raw:  "  https://m.youtube.com/watch?v=abc12345678&list=PL1&index=2  ",
			want: "https://www.youtube.com/watch?v=abc12345678",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := StandardizeYouTubeURL(tt.raw)
			if err != nil {
				t.Fatalf("StandardizeYouTubeURL returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("StandardizeYouTubeURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStandardizeYouTubeURLRejects(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"https://vimeo.com/12345678",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/watch?v=abc123456789",
		"https://example.com/watch?v=abc12345678",
		"not a url",
	}

	for _, raw := range tests {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			if _, err := StandardizeYouTubeURL(raw); err == nil {
				t.Fatalf("StandardizeYouTubeURL(%q) expected error", raw)
			}
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	t.Parallel()

	if got := ThumbnailURL("abc12345678"); got != "https://img.youtube.com/vi/abc12345678/hqdefault.jpg" {
		t.Fatalf("ThumbnailURL = %q", got)
	}
}
