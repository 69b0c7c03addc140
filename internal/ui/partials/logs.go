package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/ui"
)

// LogConsole renders the processing log window. New lines are appended
// in the browser from the /ws/logs stream.
func LogConsole(logs []model.LogEvent) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<section class="console"><h3>Processing logs</h3><ol id="logs" class="log-lines">`)
		for _, ev := range logs {
			h.Component(ctx, LogLine(ev))
		}
		h.Raw(`</ol></section>`)
		return h.Err()
	})
}

// LogLine renders one log event
func LogLine(ev model.LogEvent) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<li class="`).Text(ui.SeverityClass(ev.Severity)).Raw(`"><time>`).Text(ui.FormatClock(ev.Timestamp)).Raw(`</time> `)
		h.Text(ev.Message).Raw(`</li>`)
		return h.Err()
	})
}

// ProgressBar renders a submission's progress; nil renders a hidden bar
func ProgressBar(snap *model.ProgressSnapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		var p float64
		label := ""
		h.Raw(`<div id="progress" class="progress"`)
		if snap == nil || snap.Done {
			h.Raw(` hidden`)
		}
		if snap != nil {
			p, label = snap.Progress, snap.Label
		}
		h.Raw(`><div class="bar" style="width: `).Text(ui.FormatPercent(p)).Raw(`"></div>`)
		h.Raw(`<span class="label">`).Text(label).Raw(`</span> <span class="pct">`).Text(ui.FormatPercent(p)).Raw(`</span></div>`)
		return h.Err()
	})
}

// LanguageSelect renders the summary language picker
func LanguageSelect(name string, languages []model.Language, selected model.Language) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<select name="`).Text(name).Raw(`" aria-label="Summary language">`)
		for _, lang := range languages {
			h.Raw(`<option value="`).Text(lang.Name).Raw(`"`)
			if lang.Code == selected.Code {
				h.Raw(` selected`)
			}
			h.Raw(`>`).Text(lang.Name).Raw(`</option>`)
		}
		h.Raw(`</select>`)
		return h.Err()
	})
}
