package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	extractiveProvider = "extractive"
	extractiveVersion  = "1.0.0"

	// DefaultSentences is how many sentences the extractive summary keeps
	DefaultSentences = 3

	minWordsPerSentence = 6
	maxFallbackRunes    = 300
)

// ExtractiveSummarizer picks the first meaningful sentences of the
// transcript. It needs no network and only fails on an empty transcript.
type ExtractiveSummarizer struct {
	sentences int
}

// NewExtractiveSummarizer creates an extractive summarizer keeping n sentences
func NewExtractiveSummarizer(n int) *ExtractiveSummarizer {
	if n <= 0 {
		n = DefaultSentences
	}
	return &ExtractiveSummarizer{sentences: n}
}

func (e *ExtractiveSummarizer) Provider() string { return extractiveProvider }
func (e *ExtractiveSummarizer) Model() string    { return fmt.Sprintf("first-%d-sentences", e.sentences) }
func (e *ExtractiveSummarizer) Version() string  { return extractiveVersion }

func (e *ExtractiveSummarizer) Summarize(_ context.Context, input Input) (*Result, error) {
	text := Extract(input.Transcript, e.sentences)
	if text == "" {
		return nil, fmt.Errorf("transcript is empty")
	}
	return &Result{
		Text:        text,
		Provider:    e.Provider(),
		Model:       e.Model(),
		Version:     e.Version(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Extract returns the first n sentences with more than five words. When no
// sentence is that long it takes the first n sentences as they are, and a
// transcript without sentence breaks is cut to about 300 characters.
func Extract(transcript string, n int) string {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return ""
	}

	sentences := SplitSentences(transcript)
	if len(sentences) <= 1 {
		return truncate(transcript, maxFallbackRunes)
	}

	var picked []string
	for _, s := range sentences {
		if len(strings.Fields(s)) >= minWordsPerSentence {
			picked = append(picked, s)
			if len(picked) == n {
				break
			}
		}
	}
	if len(picked) == 0 {
		picked = sentences[:min(n, len(sentences))]
	}
	return strings.Join(picked, " ")
}

// SplitSentences splits text after '.', '!', '?' or the Devanagari danda
// when followed by whitespace.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if !isTerminator(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next < len(text) {
			nr, _ := utf8.DecodeRuneInString(text[next:])
			if !unicode.IsSpace(nr) {
				continue
			}
		}
		if s := strings.TrimSpace(text[start:next]); s != "" {
			sentences = append(sentences, s)
		}
		start = next
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '।':
		return true
	}
	return false
}

func truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > maxRunes/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}
