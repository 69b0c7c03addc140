package enricher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/drywaters/glimpse/internal/urlutil"
)

const defaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// ISO 8601 duration pattern (PT#H#M#S)
var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// YouTubeEnricher looks up video title and thumbnail. With an API key it
// uses the Data API v3 (which also gives the duration); without one it
// uses the public oEmbed endpoint.
type YouTubeEnricher struct {
	apiKey         string
	oembedEndpoint string
	dataEndpoint   string
	client         *http.Client
}

// NewYouTubeEnricher creates a new YouTube enricher. apiKey may be empty.
func NewYouTubeEnricher(apiKey string) *YouTubeEnricher {
	return &YouTubeEnricher{
		apiKey:         apiKey,
		oembedEndpoint: defaultOEmbedEndpoint,
		dataEndpoint:   "https://www.googleapis.com/youtube/v3/videos",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (e *YouTubeEnricher) Name() string  { return "youtube" }
func (e *YouTubeEnricher) Priority() int { return 10 }

func (e *YouTubeEnricher) CanHandle(rawURL string) bool {
	return urlutil.IsYouTubeURL(rawURL)
}

func (e *YouTubeEnricher) Enrich(ctx context.Context, rawURL string) (*Result, error) {
	videoID := urlutil.YouTubeVideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("could not extract video ID from URL")
	}
	if e.apiKey != "" {
		return e.enrichFromDataAPI(ctx, videoID)
	}
	return e.enrichFromOEmbed(ctx, videoID)
}

func (e *YouTubeEnricher) enrichFromOEmbed(ctx context.Context, videoID string) (*Result, error) {
	watchURL := urlutil.WatchURL(videoID)
	endpoint := fmt.Sprintf("%s?url=%s&format=json", e.oembedEndpoint, url.QueryEscape(watchURL))

	var resp oembedResponse
	if err := e.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Title == "" {
		return nil, fmt.Errorf("oEmbed response has no title")
	}

	thumbnail := resp.ThumbnailURL
	if thumbnail == "" {
		thumbnail = urlutil.ThumbnailURL(videoID)
	}
	return &Result{
		CanonicalURL: watchURL,
		Title:        resp.Title,
		ThumbnailURL: thumbnail,
		Author:       resp.AuthorName,
	}, nil
}

func (e *YouTubeEnricher) enrichFromDataAPI(ctx context.Context, videoID string) (*Result, error) {
	endpoint := fmt.Sprintf(
		"%s?id=%s&part=snippet,contentDetails&key=%s",
		e.dataEndpoint,
		url.QueryEscape(videoID),
		url.QueryEscape(e.apiKey),
	)

	var apiResp youtubeAPIResponse
	if err := e.getJSON(ctx, endpoint, &apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.Items) == 0 {
		return nil, fmt.Errorf("video not found")
	}

	item := apiResp.Items[0]

	var runtimeSeconds *int
	if duration := parseDuration(item.ContentDetails.Duration); duration > 0 {
		runtimeSeconds = &duration
	}

	thumbnail := item.Snippet.Thumbnails.High.URL
	if thumbnail == "" {
		thumbnail = urlutil.ThumbnailURL(videoID)
	}

	return &Result{
		CanonicalURL:   urlutil.WatchURL(videoID),
		Title:          item.Snippet.Title,
		ThumbnailURL:   thumbnail,
		Author:         item.Snippet.ChannelTitle,
		RuntimeSeconds: runtimeSeconds,
	}, nil
}

func (e *YouTubeEnricher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch YouTube metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("YouTube metadata error: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseDuration converts ISO 8601 duration to seconds
func parseDuration(duration string) int {
	matches := durationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var hours, minutes, seconds int
	if matches[1] != "" {
		hours, _ = strconv.Atoi(matches[1])
	}
	if matches[2] != "" {
		minutes, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		seconds, _ = strconv.Atoi(matches[3])
	}

	return hours*3600 + minutes*60 + seconds
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// YouTube API response structures
type youtubeAPIResponse struct {
	Items []youtubeVideoItem `json:"items"`
}

type youtubeVideoItem struct {
	Snippet        youtubeSnippet        `json:"snippet"`
	ContentDetails youtubeContentDetails `json:"contentDetails"`
}

type youtubeSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnails   struct {
		High struct {
			URL string `json:"url"`
		} `json:"high"`
	} `json:"thumbnails"`
}

type youtubeContentDetails struct {
	Duration string `json:"duration"`
}
