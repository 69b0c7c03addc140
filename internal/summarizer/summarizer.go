package summarizer

import (
	"context"
	"time"
)

// Input is the text a fallback summary is built from. Only the transcript
// is used, so a fallback summary never contains anything the transcript
// did not say.
type Input struct {
	Transcript string
	Language   string
}

// Result contains the generated summary and metadata
type Result struct {
	Text        string
	Provider    string
	Model       string
	Version     string
	GeneratedAt time.Time
}

// Summarizer defines the interface for producing a stand-in summary when
// the backend returned a transcript but no summary.
type Summarizer interface {
	// Summarize generates a short summary of input.Transcript
	Summarize(ctx context.Context, input Input) (*Result, error)

	// Provider returns the provider identifier (e.g., "gemini", "openai")
	Provider() string

	// Model returns the specific model being used
	Model() string

	// Version returns the implementation version for tracking changes
	Version() string
}
