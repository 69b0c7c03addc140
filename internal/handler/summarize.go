package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drywaters/glimpse/internal/backend"
	"github.com/drywaters/glimpse/internal/history"
	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/submit"
	"github.com/drywaters/glimpse/internal/ui"
	"github.com/drywaters/glimpse/internal/ui/partials"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxUploadMemory is how much of a multipart upload is held in memory
// before the rest spills to temporary files
const maxUploadMemory = 32 << 20

// Submitter runs submissions
type Submitter interface {
	Submit(ctx context.Context, owner model.Owner, in submit.Input, language string) (*model.SummaryResult, error)
	Reprocess(ctx context.Context, owner model.Owner, id uuid.UUID) (*model.SummaryResult, error)
}

// SummarizeHandler accepts submissions from the page and the JSON API
type SummarizeHandler struct {
	submitter Submitter
	history   *history.Store
}

// NewSummarizeHandler creates a new SummarizeHandler
func NewSummarizeHandler(submitter Submitter, history *history.Store) *SummarizeHandler {
	return &SummarizeHandler{
		submitter: submitter,
		history:   history,
	}
}

type summarizeRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

// Summarize handles POST /api/summarize as JSON {url, language} or a
// multipart form with file and language
func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middleware.OwnerFrom(ctx)

	var in submit.Input
	var language string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		in.URL, language = req.URL, req.Language
	} else {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeDetail(w, r, http.StatusBadRequest, "Invalid form data")
			return
		}
		in.URL = strings.TrimSpace(r.FormValue("url"))
		language = r.FormValue("language")

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			in.File = &backend.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		case !errors.Is(err, http.ErrMissingFile):
			writeDetail(w, r, http.StatusBadRequest, "Could not read the uploaded file")
			return
		}
	}

	res, err := h.submitter.Submit(ctx, owner, in, language)
	h.respond(w, r, owner, res, err)
}

// Reprocess handles POST /api/history/{id}/reprocess
func (h *SummarizeHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, r, http.StatusBadRequest, "Invalid history ID")
		return
	}

	owner := middleware.OwnerFrom(r.Context())
	res, err := h.submitter.Reprocess(r.Context(), owner, id)
	h.respond(w, r, owner, res, err)
}

func (h *SummarizeHandler) respond(w http.ResponseWriter, r *http.Request, owner model.Owner, res *model.SummaryResult, err error) {
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			slog.Error("failed to process submission", "handler", "Summarize", "owner", owner.Key(), "error", err)
		}
		writeError(w, r, err)
		return
	}

	if !isHTMX(r) {
		writeJSON(w, http.StatusOK, res)
		return
	}

	htmxToast(w, "Summary ready", "success")
	render(w, r, partials.ResultPanel(ui.NewResultView(res)))

	items, err := h.history.For(owner).List(r.Context())
	if err != nil {
		slog.Error("failed to list history", "handler", "Summarize", "error", err)
		return
	}
	render(w, r, partials.HistoryList(ui.NewHistoryViews(items), true))
}
