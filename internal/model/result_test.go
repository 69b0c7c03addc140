package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSentimentBadge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sentiment Sentiment
		want      string
	}{
		{"positive", Sentiment{Label: "positive", Score: 0.8}, "positive · 80%"},
		{"label_0 maps to negative", Sentiment{Label: "LABEL_0", Score: 0.456}, "negative · 46%"},
		{"unknown label is neutral", Sentiment{Label: "meh", Score: 0.5}, "neutral · 50%"},
		{"score above one is clamped", Sentiment{Label: "positive", Score: 1.7}, "positive · 100%"},
		{"negative score is clamped", Sentiment{Label: "negative", Score: -0.2}, "negative · 0%"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.sentiment.Badge(); got != tt.want {
				t.Fatalf("Badge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryResultUnmarshalAcceptsBothSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"snake case", `{"summary_translated":"a"}`, "a"},
		{"camel case", `{"summaryTranslated":"b"}`, "b"},
		{"snake case wins", `{"summary_translated":"a","summaryTranslated":"b"}`, "a"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var r SummaryResult
			if err := json.Unmarshal([]byte(tt.payload), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if r.SummaryTranslated != tt.want {
				t.Fatalf("SummaryTranslated = %q, want %q", r.SummaryTranslated, tt.want)
			}
		})
	}
}

func TestSummaryResultUnmarshalNormalizesSentiment(t *testing.T) {
	t.Parallel()

	var r SummaryResult
	payload := `{"summary_translated":"x","sentiment":{"label":"POSITIVE","score":0.8},"thumbnailUrl":"http://t"}`
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Sentiment == nil || r.Sentiment.Label != SentimentPositive {
		t.Fatalf("sentiment = %+v, want positive", r.Sentiment)
	}
	if r.ThumbnailURL != "http://t" {
		t.Fatalf("ThumbnailURL = %q", r.ThumbnailURL)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := &SummaryResult{
		SummaryTranslated:  "hello",
		Sentiment:          &Sentiment{Label: SentimentPositive, Score: 0.9},
		TranscriptSegments: []Segment{{Text: "a", Start: 0, End: 1}},
	}
	clone := orig.Clone()
	if !reflect.DeepEqual(orig, clone) {
		t.Fatalf("clone differs: %+v vs %+v", orig, clone)
	}

	clone.Sentiment.Score = 0.1
	clone.TranscriptSegments[0].Text = "changed"
	if orig.Sentiment.Score != 0.9 || orig.TranscriptSegments[0].Text != "a" {
		t.Fatalf("mutating clone changed original: %+v", orig)
	}
}

func TestStateOf(t *testing.T) {
	t.Parallel()

	if got := StateOf(nil); got != DisplayEmpty {
		t.Fatalf("StateOf(nil) = %q", got)
	}
	if got := StateOf(&SummaryResult{SummaryTranslated: "  "}); got != DisplayMissingSummary {
		t.Fatalf("StateOf(blank) = %q", got)
	}
	if got := StateOf(&SummaryResult{SummaryTranslated: "ok"}); got != DisplayReady {
		t.Fatalf("StateOf(ok) = %q", got)
	}
}
