package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/drywaters/glimpse/internal/model"
)

const (
	// ProbeTimeout bounds the manual connectivity check
	ProbeTimeout = 5 * time.Second

	// maxErrorBody limits how much of an error response is read
	maxErrorBody = 64 * 1024

	defaultURLError  = "Failed to process video"
	defaultFileError = "Failed to process file"
)

// File is an uploaded audio or video file to forward to the backend
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Client talks to the summarization backend
type Client struct {
	baseURL string
	wsURL   string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogStreamURL overrides the websocket URL derived from the base URL
func WithLogStreamURL(wsURL string) Option {
	return func(c *Client) { c.wsURL = wsURL }
}

// NewClient creates a new backend client. Submissions have no client-side
// timeout; they can take minutes for long videos.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string { return c.baseURL }

// SummarizeURL submits a video URL for processing
func (c *Client) SummarizeURL(ctx context.Context, videoURL, language string) (*model.SummaryResult, error) {
	payload, err := json.Marshal(map[string]string{
		"url":      videoURL,
		"language": language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/summarize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.doSummarize(req, defaultURLError)
}

// SummarizeFile streams a file upload to the backend as multipart form data
func (c *Client) SummarizeFile(ctx context.Context, file File, language string) (*model.SummaryResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, file, language)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/summarize", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.doSummarize(req, defaultFileError)
}

func writeMultipart(mw *multipart.Writer, file File, language string) error {
	if err := mw.WriteField("language", language); err != nil {
		return err
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file.Body)
	return err
}

func (c *Client) doSummarize(req *http.Request, defaultMsg string) (*model.SummaryResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "summarize", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(body, defaultMsg),
		}
	}

	var result model.SummaryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response from backend: %v", err),
		}
	}
	return &result, nil
}

// Logs fetches the backend's recent log lines
func (c *Client) Logs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/logs", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch logs", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(body, fmt.Sprintf("log fetch failed with status %d", resp.StatusCode)),
		}
	}

	var payload struct {
		Logs []string `json:"logs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode logs: %w", err)
	}
	return payload.Logs, nil
}

// Probe checks that the backend root answers within ProbeTimeout and
// returns its greeting message.
func (c *Client) Probe(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", errTimeout, err)
		}
		return "", &TransportError{Op: "probe", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Backend returned error status: %d", resp.StatusCode),
		}
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Message == "" {
		return "Backend is connected", nil
	}
	return payload.Message, nil
}

// LogStreamURL returns the websocket URL of the backend log stream
func (c *Client) LogStreamURL() string {
	if c.wsURL != "" {
		return c.wsURL
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/logs"
	return u.String()
}

// ProbeMessage turns a probe failure into the text shown to the user
func ProbeMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		if te.Timeout() {
			return "Connection timed out. Is the backend running?"
		}
		return "Error: " + te.Err.Error()
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Failed to reach the backend server"
}
