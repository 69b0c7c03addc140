package transcript

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/summarizer"
)

// WordsPerMinute is the speaking rate assumed when timing is unknown
const WordsPerMinute = 150

// Segments returns the backend's timed segments, or synthesized ones when
// the backend sent none. Synthesized timing is an estimate.
func Segments(r *model.SummaryResult) []model.Segment {
	if r == nil {
		return nil
	}
	if len(r.TranscriptSegments) > 0 {
		return r.TranscriptSegments
	}
	return SynthesizeOver(r.OriginalText, float64(r.DurationSeconds))
}

// Synthesize splits text into sentences and spreads an assumed duration
// (words / WordsPerMinute, at least one second) over them in proportion to
// their length.
func Synthesize(text string) []model.Segment {
	return SynthesizeOver(text, 0)
}

// SynthesizeOver is Synthesize with a known duration in seconds. A
// duration <= 0 falls back to the speaking-rate estimate.
func SynthesizeOver(text string, duration float64) []model.Segment {
	sentences := summarizer.SplitSentences(strings.TrimSpace(text))
	if len(sentences) == 0 {
		return nil
	}

	if duration <= 0 || math.IsNaN(duration) {
		words := len(strings.Fields(text))
		duration = math.Max(float64(words)/WordsPerMinute*60, 1)
	}

	totalChars := 0
	for _, s := range sentences {
		totalChars += utf8.RuneCountInString(s)
	}

	segments := make([]model.Segment, 0, len(sentences))
	start := 0.0
	for i, s := range sentences {
		end := start + duration*float64(utf8.RuneCountInString(s))/float64(totalChars)
		if i == len(sentences)-1 {
			end = duration
		}
		segments = append(segments, model.Segment{
			Text:  s,
			Start: round2(start),
			End:   round2(end),
		})
		start = end
	}
	return segments
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatTimestamp renders seconds as mm:ss
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// DefaultUtteranceLength keeps chunks short enough for browser speech engines
const DefaultUtteranceLength = 200

// Utterance is one chunk of text for speech synthesis
type Utterance struct {
	Text  string `json:"text"`
	Voice string `json:"lang"`
}

// Utterances splits text into chunks of at most maxLen characters,
// breaking between sentences where possible, all tagged with the voice of
// language.
func Utterances(text, language string, maxLen int) []Utterance {
	if maxLen <= 0 {
		maxLen = DefaultUtteranceLength
	}
	voice := model.NormalizeLanguage(language).Voice

	var out []Utterance
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, Utterance{Text: s, Voice: voice})
		}
		current.Reset()
	}

	for _, sentence := range summarizer.SplitSentences(text) {
		for _, piece := range splitLong(sentence, maxLen) {
			if current.Len() > 0 && utf8.RuneCountInString(current.String())+1+utf8.RuneCountInString(piece) > maxLen {
				flush()
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(piece)
		}
	}
	flush()
	return out
}

// splitLong breaks a sentence longer than maxLen at word boundaries
func splitLong(sentence string, maxLen int) []string {
	if utf8.RuneCountInString(sentence) <= maxLen {
		return []string{sentence}
	}

	var pieces []string
	var b strings.Builder
	for _, word := range strings.Fields(sentence) {
		if b.Len() > 0 && utf8.RuneCountInString(b.String())+1+utf8.RuneCountInString(word) > maxLen {
			pieces = append(pieces, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}
