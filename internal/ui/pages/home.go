package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/ui"
	"github.com/drywaters/glimpse/internal/ui/partials"
)

// Home is the main page: submission form, result tabs, history and logs
func Home(data ui.HomeData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<div class="layout"><div class="main-col">`)

		h.Raw(`<form class="submit" hx-post="/api/summarize" hx-encoding="multipart/form-data" hx-target="#result" hx-swap="outerHTML">`)
		h.Raw(`<input type="url" name="url" placeholder="https://www.youtube.com/watch?v=..." autocomplete="off">`)
		h.Raw(`<span class="or">or</span>`)
		h.Raw(`<input type="file" name="file" accept="audio/*,video/*">`)
		h.Component(ctx, partials.LanguageSelect("language", data.Languages, data.Preferred))
		h.Raw(`<button type="submit">Summarize</button></form>`)

		h.Component(ctx, partials.ProgressBar(data.Progress))
		h.Component(ctx, partials.ResultPanel(data.Result))
		h.Raw(`</div><aside class="side-col">`)
		h.Component(ctx, partials.HistoryList(data.History, false))
		h.Component(ctx, partials.LogConsole(data.Logs))
		h.Raw(`<section class="connection"><button type="button" hx-get="/api/connection" hx-target="#connection">Test connection</button>`)
		h.Raw(`<span id="connection" class="muted"></span></section>`)
		h.Raw(`</aside></div>`)
		return h.Err()
	})
	return Layout("Summarize", data.Email, data.AuthEnabled, content)
}
