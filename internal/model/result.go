package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// SentimentLabel is the coarse polarity reported by the backend
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// NormalizeSentimentLabel maps the label spellings seen from the backend
// (POSITIVE, LABEL_2, ...) onto the three known labels. Unknown labels are neutral.
func NormalizeSentimentLabel(raw string) SentimentLabel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "pos", "label_2":
		return SentimentPositive
	case "negative", "neg", "label_0":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Sentiment holds the sentiment label and its confidence in [0,1]
type Sentiment struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// Percent returns the score as a whole percentage, clamped to 0..100
func (s Sentiment) Percent() int {
	score := s.Score
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return int(math.Round(score * 100))
}

// Badge renders the sentiment as shown in the UI, e.g. "positive · 80%"
func (s Sentiment) Badge() string {
	return fmt.Sprintf("%s · %d%%", NormalizeSentimentLabel(string(s.Label)), s.Percent())
}

// Segment is a timed slice of the transcript, in seconds
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SummaryResult is the backend's answer for one processed submission
type SummaryResult struct {
	OriginalText       string     `json:"original_text,omitempty"`
	SummaryEnglish     string     `json:"summary_en,omitempty"`
	SummaryTranslated  string     `json:"summary_translated,omitempty"`
	Language           string     `json:"language"`
	Sentiment          *Sentiment `json:"sentiment,omitempty"`
	Title              string     `json:"title,omitempty"`
	ThumbnailURL       string     `json:"thumbnail_url,omitempty"`
	TranscriptSegments []Segment  `json:"transcript_segments,omitempty"`

	// Set locally, not by the backend
	VideoID         string `json:"video_id,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
	Author          string `json:"author,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"` // runtime from video metadata, 0 if unknown
}

// UnmarshalJSON accepts both the snake_case backend fields and the
// camelCase spelling used by older revisions. snake_case wins when both are set.
func (r *SummaryResult) UnmarshalJSON(data []byte) error {
	type canonical SummaryResult
	var aux struct {
		canonical
		OriginalTextAlt       string    `json:"originalText"`
		SummaryEnglishAlt     string    `json:"summaryEnglish"`
		SummaryTranslatedAlt  string    `json:"summaryTranslated"`
		ThumbnailURLAlt       string    `json:"thumbnailUrl"`
		TranscriptSegmentsAlt []Segment `json:"transcriptSegments"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = SummaryResult(aux.canonical)
	if r.OriginalText == "" {
		r.OriginalText = aux.OriginalTextAlt
	}
	if r.SummaryEnglish == "" {
		r.SummaryEnglish = aux.SummaryEnglishAlt
	}
	if r.SummaryTranslated == "" {
		r.SummaryTranslated = aux.SummaryTranslatedAlt
	}
	if r.ThumbnailURL == "" {
		r.ThumbnailURL = aux.ThumbnailURLAlt
	}
	if len(r.TranscriptSegments) == 0 {
		r.TranscriptSegments = aux.TranscriptSegmentsAlt
	}
	if r.Sentiment != nil {
		r.Sentiment.Label = NormalizeSentimentLabel(string(r.Sentiment.Label))
	}
	return nil
}

// Displayable reports whether the result carries a summary to show
func (r *SummaryResult) Displayable() bool {
	return r != nil && strings.TrimSpace(r.SummaryTranslated) != ""
}

// HasTranscript reports whether the result carries transcript text
func (r *SummaryResult) HasTranscript() bool {
	return r != nil && strings.TrimSpace(r.OriginalText) != ""
}

// Clone returns a deep copy
func (r *SummaryResult) Clone() *SummaryResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.Sentiment != nil {
		s := *r.Sentiment
		c.Sentiment = &s
	}
	if r.TranscriptSegments != nil {
		c.TranscriptSegments = make([]Segment, len(r.TranscriptSegments))
		copy(c.TranscriptSegments, r.TranscriptSegments)
	}
	return &c
}

// DisplayState distinguishes "nothing yet" from "arrived without a summary"
type DisplayState string

const (
	DisplayEmpty          DisplayState = "empty"
	DisplayReady          DisplayState = "ready"
	DisplayMissingSummary DisplayState = "missing_summary"
)

// StateOf returns the display state for a (possibly nil) result
func StateOf(r *SummaryResult) DisplayState {
	switch {
	case r == nil:
		return DisplayEmpty
	case r.Displayable():
		return DisplayReady
	default:
		return DisplayMissingSummary
	}
}

// ProgressSnapshot is the visible state of the progress bar
type ProgressSnapshot struct {
	Progress float64 `json:"progress"`
	Label    string  `json:"label"`
	Done     bool    `json:"done"`
	Failed   bool    `json:"failed"`
}
