package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/ui"
	"github.com/drywaters/glimpse/internal/ui/partials"
)

// Profile shows the signed-in user's account, language preference and
// archived processing logs
func Profile(data ui.ProfileData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<div class="profile"><h1>`).Text(data.User.Email).Raw(`</h1>`)
		h.Raw(`<p class="muted">Member since `).Text(ui.FormatDate(data.User.CreatedAt)).Raw(`</p>`)

		h.Raw(`<form hx-put="/api/preferences" hx-swap="none" class="prefs"><label>Preferred language `)
		h.Component(ctx, partials.LanguageSelect("language", data.Languages, data.Preferred))
		h.Raw(`</label><button type="submit">Save</button></form>`)

		h.Raw(`<h2>Recent processing logs</h2>`)
		if len(data.Logs) == 0 {
			h.Raw(`<p class="muted">Nothing processed yet.</p>`)
		} else {
			h.Raw(`<ol class="log-lines">`)
			for _, ev := range data.Logs {
				h.Component(ctx, partials.LogLine(ev))
			}
			h.Raw(`</ol>`)
		}
		h.Raw(`</div>`)
		return h.Err()
	})
	return Layout("Profile", data.User.Email, true, content)
}
