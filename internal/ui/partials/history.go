package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/ui"
)

// HistoryList renders the owner's recent submissions, newest first. With
// swapOOB set htmx swaps it in alongside another response.
func HistoryList(items []ui.HistoryView, swapOOB bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<section id="history" class="history"`)
		if swapOOB {
			h.Raw(` hx-swap-oob="true"`)
		}
		h.Raw(`><header><h3>Recent</h3>`)
		if len(items) > 0 {
			h.Raw(`<button type="button" hx-delete="/api/history" hx-target="#history" hx-swap="outerHTML" hx-confirm="Clear all history?">Clear</button>`)
		}
		h.Raw(`</header>`)

		if len(items) == 0 {
			h.Raw(`<p class="muted">No videos yet.</p></section>`)
			return h.Err()
		}

		h.Raw(`<ul>`)
		for _, it := range items {
			id := it.ID.String()
			h.Raw(`<li class="history-item" id="history-`).Text(id).Raw(`">`)
			if it.ThumbnailURL != "" {
				h.Raw(`<img class="thumb-sm" alt="" loading="lazy" src="`).Text(it.ThumbnailURL).Raw(`">`)
			}
			h.Raw(`<div class="meta"><span class="title">`).Text(ui.DisplayTitle(it.Title)).Raw(`</span>`)
			h.Raw(`<span class="muted">`).Text(it.Language).Raw(` · `).Text(ui.FormatDate(it.CreatedAt)).Raw(`</span></div>`)
			if it.Reprocessable {
				h.Raw(`<button type="button" hx-post="/api/history/`).Text(id).Raw(`/reprocess" hx-target="#result" hx-swap="outerHTML">Reprocess</button>`)
			}
			h.Raw(`<button type="button" hx-delete="/api/history/`).Text(id).Raw(`" hx-target="#history" hx-swap="outerHTML" aria-label="Remove">×</button>`)
			h.Raw(`</li>`)
		}
		h.Raw(`</ul></section>`)
		return h.Err()
	})
}
