package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Result contains the metadata shown for a history item
type Result struct {
	CanonicalURL   string
	Title          string
	ThumbnailURL   string
	Author         string
	RuntimeSeconds *int
}

// Enricher extracts metadata from URLs
type Enricher interface {
	// CanHandle returns true if this enricher can process the URL
	CanHandle(url string) bool

	// Enrich extracts metadata from the URL
	Enrich(ctx context.Context, url string) (*Result, error)

	// Name returns the enricher identifier
	Name() string

	// Priority returns the enricher priority (lower = higher priority)
	Priority() int
}

// Registry manages enrichers and routes URLs to appropriate handlers
type Registry struct {
	enrichers []Enricher
	fallback  Enricher
}

// NewRegistry creates a new enricher registry with a fallback enricher
func NewRegistry(fallback Enricher) *Registry {
	return &Registry{
		enrichers: make([]Enricher, 0),
		fallback:  fallback,
	}
}

// Register adds an enricher to the registry
func (r *Registry) Register(e Enricher) {
	r.enrichers = append(r.enrichers, e)
	sort.Slice(r.enrichers, func(i, j int) bool {
		return r.enrichers[i].Priority() < r.enrichers[j].Priority()
	})
}

// Enrich processes a URL using the first enricher that succeeds, then the fallback
func (r *Registry) Enrich(ctx context.Context, url string) (*Result, error) {
	for _, e := range r.enrichers {
		if !e.CanHandle(url) {
			continue
		}
		result, err := e.Enrich(ctx, url)
		if err == nil {
			return result, nil
		}
		slog.Debug("enricher failed, trying next", "enricher", e.Name(), "url", url, "error", err)
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("no enricher could handle %s", url)
	}
	return r.fallback.Enrich(ctx, url)
}
