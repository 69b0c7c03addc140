package partials

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/transcript"
	"github.com/drywaters/glimpse/internal/ui"
)

// ResultPanel renders the tabbed view of the current result
func ResultPanel(v ui.ResultView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<section id="result" class="result" data-state="`).Text(string(v.State)).Raw(`">`)

		switch v.State {
		case model.DisplayEmpty:
			h.Raw(`<p class="muted">Submit a YouTube link or upload a file to see its summary here.</p>`)
			h.Raw(`</section>`)
			return h.Err()
		case model.DisplayMissingSummary:
			h.Raw(`<p class="warning">The video was processed but no summary was returned.</p>`)
		}

		r := v.Result
		h.Raw(`<header class="result-header">`)
		if r.ThumbnailURL != "" {
			h.Raw(`<img class="thumb" alt="" src="`).Text(r.ThumbnailURL).Raw(`">`)
		}
		h.Raw(`<div><h2>`).Text(ui.DisplayTitle(r.Title)).Raw(`</h2>`)
		h.Raw(`<span class="lang">`).Text(v.Language.Name).Raw(`</span>`)
		if r.Author != "" {
			h.Raw(` <span class="meta">`).Text(r.Author).Raw(`</span>`)
		}
		if r.DurationSeconds > 0 {
			h.Raw(` <span class="meta">`).Text(transcript.FormatTimestamp(float64(r.DurationSeconds))).Raw(`</span>`)
		}
		if v.Badge != "" {
			h.Raw(` <span class="badge sentiment-`).Text(string(r.Sentiment.Label)).Raw(`">`).Text(v.Badge).Raw(`</span>`)
		}
		h.Raw(`</div></header>`)

		h.Raw(`<nav class="tabs" role="tablist">`)
		for i, tab := range []string{"Summary", "Transcript", "Sentiment", "Original"} {
			h.Raw(`<button type="button" role="tab" data-tab="`).Text(tab).Raw(`"`)
			if i == 0 {
				h.Raw(` aria-selected="true"`)
			}
			h.Raw(`>`).Text(tab).Raw(`</button>`)
		}
		h.Raw(`</nav>`)

		// Summary
		h.Raw(`<div class="tab-panel" data-panel="Summary">`)
		if r.Displayable() {
			h.Raw(`<p class="summary">`).Text(r.SummaryTranslated).Raw(`</p>`)
			h.Raw(`<div class="actions">`)
			h.Raw(`<button type="button" class="speak" data-utterances="`).JSON(v.Utterances).Raw(`">Listen</button>`)
			h.Raw(`<button type="button" class="stop-speech">Stop</button>`)
			h.Raw(`<a class="button" href="/api/result/download">Download</a>`)
			h.Raw(`</div>`)
		} else {
			h.Raw(`<p class="muted">No summary available.</p>`)
		}
		if r.SummaryEnglish != "" && r.SummaryEnglish != r.SummaryTranslated {
			h.Raw(`<details><summary>English summary</summary><p>`).Text(r.SummaryEnglish).Raw(`</p></details>`)
		}
		h.Raw(`</div>`)

		// Transcript
		h.Raw(`<div class="tab-panel" data-panel="Transcript" hidden>`)
		if len(v.Segments) == 0 {
			h.Raw(`<p class="muted">No transcript available.</p>`)
		} else {
			h.Raw(`<ol class="segments">`)
			for _, seg := range v.Segments {
				h.Raw(`<li><time>`).Text(transcript.FormatTimestamp(seg.Start)).Raw(`</time> `).Text(seg.Text).Raw(`</li>`)
			}
			h.Raw(`</ol>`)
		}
		h.Raw(`</div>`)

		// Sentiment
		h.Raw(`<div class="tab-panel" data-panel="Sentiment" hidden>`)
		if r.Sentiment == nil {
			h.Raw(`<p class="muted">No sentiment analysis available.</p>`)
		} else {
			h.Raw(`<p class="sentiment sentiment-`).Text(string(r.Sentiment.Label)).Raw(`">`).Text(v.Badge).Raw(`</p>`)
			h.Raw(`<meter min="0" max="100" value="`).Text(strconv.Itoa(r.Sentiment.Percent())).Raw(`"></meter>`)
		}
		h.Raw(`</div>`)

		// Original
		h.Raw(`<div class="tab-panel" data-panel="Original" hidden>`)
		if r.HasTranscript() {
			h.Raw(`<p class="original">`).Text(r.OriginalText).Raw(`</p>`)
		} else {
			h.Raw(`<p class="muted">No original text available.</p>`)
		}
		h.Raw(`</div>`)

		h.Raw(`</section>`)
		return h.Err()
	})
}
