package enricher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const maxPageBytes = 1024 * 1024

// WebEnricher scrapes Open Graph metadata from the page itself. It is the
// fallback when the YouTube endpoints are unavailable.
type WebEnricher struct {
	client *http.Client
}

// NewWebEnricher creates a new web enricher
func NewWebEnricher() *WebEnricher {
	return &WebEnricher{
		client: newSafeHTTPClient(15 * time.Second),
	}
}

func (e *WebEnricher) Name() string            { return "web" }
func (e *WebEnricher) Priority() int           { return 100 } // Lowest priority, fallback
func (e *WebEnricher) CanHandle(_ string) bool { return true }

func (e *WebEnricher) Enrich(ctx context.Context, rawURL string) (*Result, error) {
	parsedURL, err := validateFetchURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Glimpse/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &Result{
		CanonicalURL: resp.Request.URL.String(), // Follow redirects
	}
	extractMetadata(doc, result)

	if result.Title == "" {
		return nil, fmt.Errorf("page has no title")
	}
	return result, nil
}

// extractMetadata walks the HTML tree and extracts title, thumbnail and duration
func extractMetadata(n *html.Node, result *Result) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if n.FirstChild != nil && result.Title == "" {
				result.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			var name, property, itemprop, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "property":
					property = attr.Val
				case "itemprop":
					itemprop = attr.Val
				case "content":
					content = strings.TrimSpace(attr.Val)
				}
			}
			if content == "" {
				break
			}

			// Open Graph tags take priority
			switch property {
			case "og:title":
				result.Title = content
			case "og:image":
				result.ThumbnailURL = content
			}

			switch {
			case name == "author" && result.Author == "":
				result.Author = content
			case itemprop == "duration" && result.RuntimeSeconds == nil:
				if seconds := parseDuration(content); seconds > 0 {
					result.RuntimeSeconds = &seconds
				}
			}
		case "link":
			var rel, href string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if rel == "canonical" && href != "" {
				result.CanonicalURL = href
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractMetadata(c, result)
	}
}
