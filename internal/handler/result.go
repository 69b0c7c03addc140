package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/result"
	"github.com/drywaters/glimpse/internal/ui"
	"github.com/drywaters/glimpse/internal/ui/partials"
)

// ResultHandler serves the owner's current result
type ResultHandler struct {
	results *result.Store
}

// NewResultHandler creates a new ResultHandler
func NewResultHandler(results *result.Store) *ResultHandler {
	return &ResultHandler{results: results}
}

type resultResponse struct {
	State  model.DisplayState   `json:"state"`
	Result *model.SummaryResult `json:"result"`
	Badge  string               `json:"sentiment_badge,omitempty"`
}

// Get handles GET /api/result
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFrom(r.Context())
	res, err := h.results.Last(r.Context(), owner)
	if err != nil {
		slog.Error("failed to load result", "handler", "Get", "owner", owner.Key(), "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to load result")
		return
	}

	view := ui.NewResultView(res)
	if isHTMX(r) {
		render(w, r, partials.ResultPanel(view))
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{State: view.State, Result: res, Badge: view.Badge})
}

// Download handles GET /api/result/download
func (h *ResultHandler) Download(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFrom(r.Context())
	res, err := h.results.Last(r.Context(), owner)
	if err != nil {
		slog.Error("failed to load result", "handler", "Download", "owner", owner.Key(), "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to load result")
		return
	}
	if !res.Displayable() {
		writeDetail(w, r, http.StatusNotFound, "There is no summary to download yet")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(DownloadFilename(res)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.SummaryTranslated))
}

// DownloadFilename names the summary download "<title>_summary_<language>.txt"
// with spaces in the title replaced by underscores.
func DownloadFilename(res *model.SummaryResult) string {
	title := strings.TrimSpace(res.Title)
	if title == "" {
		title = "video"
	}
	title = strings.Join(strings.Fields(title), "_")
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return -1
		}
		return r
	}, title)

	lang := model.NormalizeLanguage(res.Language).Name
	return fmt.Sprintf("%s_summary_%s.txt", title, lang)
}

// contentDisposition builds an RFC 6266 attachment header: an ASCII
// filename for old clients and the exact UTF-8 name in filename*.
func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)

	var enc strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAttrChar(c) {
			enc.WriteByte(c)
			continue
		}
		fmt.Fprintf(&enc, "%%%02X", c)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, enc.String())
}

// isAttrChar reports whether c may appear unencoded in an RFC 8187 ext-value
func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
