package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain tries each summarizer in order and returns the first success.
// The extractive summarizer is always the last link, so a non-empty
// transcript always produces a summary.
type Chain struct {
	links []Summarizer
}

// NewChain builds a chain from the given summarizers (nil entries are
// skipped) followed by the extractive fallback.
func NewChain(summarizers ...Summarizer) *Chain {
	c := &Chain{}
	for _, s := range summarizers {
		if s != nil {
			c.links = append(c.links, s)
		}
	}
	c.links = append(c.links, NewExtractiveSummarizer(DefaultSentences))
	return c
}

func (c *Chain) Provider() string { return "chain" }
func (c *Chain) Model() string    { return c.links[0].Model() }
func (c *Chain) Version() string  { return c.links[0].Version() }

// Summarize runs the chain
func (c *Chain) Summarize(ctx context.Context, input Input) (*Result, error) {
	var errs []error
	for _, s := range c.links {
		res, err := s.Summarize(ctx, input)
		if err == nil {
			return res, nil
		}
		slog.Warn("fallback summarizer failed", "provider", s.Provider(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Provider(), err))
	}
	return nil, errors.Join(errs...)
}
