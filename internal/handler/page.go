package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/drywaters/glimpse/internal/history"
	"github.com/drywaters/glimpse/internal/logrelay"
	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/preferences"
	"github.com/drywaters/glimpse/internal/result"
	"github.com/drywaters/glimpse/internal/ui"
	"github.com/drywaters/glimpse/internal/ui/pages"
	"github.com/google/uuid"
)

// recentPageLogs is how many relay lines the page renders up front
const recentPageLogs = 50

// ProcessingLogs lists a signed-in user's archived processing logs
type ProcessingLogs interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.LogEvent, error)
}

// PageHandler renders the full pages
type PageHandler struct {
	history  *history.Store
	results  *result.Store
	relay    *logrelay.Relay
	prefs    *preferences.Service
	progress ProgressSource
	users    UserStore
	logs     ProcessingLogs
}

// PageDeps are the collaborators of a PageHandler. users and logs are nil
// when no hosted database is configured.
type PageDeps struct {
	History  *history.Store
	Results  *result.Store
	Relay    *logrelay.Relay
	Prefs    *preferences.Service
	Progress ProgressSource
	Users    UserStore
	Logs     ProcessingLogs
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(deps PageDeps) *PageHandler {
	return &PageHandler{
		history:  deps.History,
		results:  deps.Results,
		relay:    deps.Relay,
		prefs:    deps.Prefs,
		progress: deps.Progress,
		users:    deps.Users,
		logs:     deps.Logs,
	}
}

// Home renders the main page. Failures to load a section are logged and
// the section renders empty.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middleware.OwnerFrom(ctx)

	data := ui.HomeData{
		AuthEnabled: h.users != nil,
		Languages:   model.Languages,
		Logs:        h.relay.Recent(recentPageLogs),
	}

	if user := h.currentUser(ctx, owner); user != nil {
		data.Email = user.Email
	}

	preferred, err := h.prefs.Language(ctx, owner)
	if err != nil {
		slog.Error("failed to load preferences", "handler", "Home", "error", err)
	}
	data.Preferred = preferred

	res, err := h.results.Last(ctx, owner)
	if err != nil {
		slog.Error("failed to load result", "handler", "Home", "error", err)
	}
	data.Result = ui.NewResultView(res)

	items, err := h.history.For(owner).List(ctx)
	if err != nil {
		slog.Error("failed to list history", "handler", "Home", "error", err)
	}
	data.History = ui.NewHistoryViews(items)

	if snap, ok := h.progress.Progress(owner); ok && !snap.Done {
		data.Progress = &snap
	}

	render(w, r, pages.Home(data))
}

// Profile renders the signed-in user's account page
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := middleware.OwnerFrom(ctx)

	user := h.currentUser(ctx, owner)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := ui.ProfileData{User: user, Languages: model.Languages}

	preferred, err := h.prefs.Language(ctx, owner)
	if err != nil {
		slog.Error("failed to load preferences", "handler", "Profile", "error", err)
	}
	data.Preferred = preferred

	if h.logs != nil {
		logs, err := h.logs.ListRecent(ctx, owner.UserID, recentPageLogs)
		if err != nil {
			slog.Error("failed to list processing logs", "handler", "Profile", "error", err)
		}
		data.Logs = logs
	}

	render(w, r, pages.Profile(data))
}

func (h *PageHandler) currentUser(ctx context.Context, owner model.Owner) *model.User {
	if !owner.Authenticated() || h.users == nil {
		return nil
	}
	user, err := h.users.GetByID(ctx, owner.UserID)
	if err != nil {
		slog.Error("failed to load user", "user_id", owner.UserID, "error", err)
		return nil
	}
	return user
}
