package server

import (
	"net/http"

	"github.com/drywaters/glimpse/internal/config"
	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/handler"
	"github.com/drywaters/glimpse/internal/history"
	"github.com/drywaters/glimpse/internal/logrelay"
	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/preferences"
	"github.com/drywaters/glimpse/internal/result"
	"github.com/drywaters/glimpse/internal/session"
	"github.com/drywaters/glimpse/internal/submit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the application services the routes are built on. Users,
// Logs and Sessions are nil when no hosted database is configured.
type Deps struct {
	Submitter *submit.Submitter
	Prober    handler.Prober
	History   *history.Store
	Results   *result.Store
	Relay     *logrelay.Relay
	Bus       *events.Bus
	Prefs     *preferences.Service
	Users     handler.UserStore
	Logs      handler.ProcessingLogs
	Sessions  *session.Store
}

// Server represents the HTTP server
type Server struct {
	cfg  *config.Config
	deps Deps
}

// New creates a new Server
func New(cfg *config.Config, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps}
}

func (s *Server) authEnabled() bool {
	return s.deps.Users != nil && s.deps.Sessions != nil
}

// Router returns the configured chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	// Static files
	fileServer := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Everything below knows who is asking
	r.Group(func(r chi.Router) {
		var sessions *session.Store
		if s.authEnabled() {
			sessions = s.deps.Sessions
		}
		r.Use(middleware.Identify(sessions, s.cfg.SecureCookies))

		pageHandler := handler.NewPageHandler(handler.PageDeps{
			History:  s.deps.History,
			Results:  s.deps.Results,
			Relay:    s.deps.Relay,
			Prefs:    s.deps.Prefs,
			Progress: s.deps.Submitter,
			Users:    s.deps.Users,
			Logs:     s.deps.Logs,
		})
		r.Get("/", pageHandler.Home)

		summarizeHandler := handler.NewSummarizeHandler(s.deps.Submitter, s.deps.History)
		r.Post("/api/summarize", summarizeHandler.Summarize)
		r.Post("/api/history/{id}/reprocess", summarizeHandler.Reprocess)

		resultHandler := handler.NewResultHandler(s.deps.Results)
		r.Get("/api/result", resultHandler.Get)
		r.Get("/api/result/download", resultHandler.Download)

		historyHandler := handler.NewHistoryHandler(s.deps.History)
		r.Get("/api/history", historyHandler.List)
		r.Delete("/api/history", historyHandler.Clear)
		r.Delete("/api/history/{id}", historyHandler.Remove)

		logsHandler := handler.NewLogsHandler(s.deps.Relay, s.deps.Bus)
		r.Get("/api/logs", logsHandler.Recent)
		r.Get("/ws/logs", logsHandler.Stream)

		statusHandler := handler.NewStatusHandler(s.deps.Prober, s.deps.Submitter)
		r.Get("/api/connection", statusHandler.Connection)
		r.Get("/api/progress", statusHandler.Progress)

		prefsHandler := handler.NewPreferencesHandler(s.deps.Prefs)
		r.Get("/api/preferences", prefsHandler.Get)
		r.Put("/api/preferences", prefsHandler.Update)

		if !s.authEnabled() {
			return
		}

		// Auth handlers
		authHandler := handler.NewAuthHandler(s.deps.Users, s.deps.Sessions, s.cfg.SecureCookies)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
		r.Get("/signup", authHandler.SignupPage)
		r.Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/profile", pageHandler.Profile)
		})
	})

	return r
}
