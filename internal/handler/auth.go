package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drywaters/glimpse/internal/middleware"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/repository"
	"github.com/drywaters/glimpse/internal/session"
	"github.com/drywaters/glimpse/internal/ui/pages"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserStore is the hosted users table
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// AuthHandler handles sign up, sign in and sign out
type AuthHandler struct {
	users         UserStore
	sessions      *session.Store
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users UserStore, sessions *session.Store, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		users:         users,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// If already authenticated via valid session, redirect to home
	if middleware.OwnerFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, pages.LoginPage(r.URL.Query().Get("error")))
}

// SignupPage renders the registration page
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.OwnerFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, pages.SignupPage(r.URL.Query().Get("error")))
}

// Login handles the login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=invalid_request", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		http.Redirect(w, r, "/login?error=missing_fields", http.StatusSeeOther)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		slog.Error("failed to look up user", "handler", "Login", "error", err)
		http.Redirect(w, r, "/login?error=server_error", http.StatusSeeOther)
		return
	}
	if user == nil {
		http.Redirect(w, r, "/login?error=invalid_credentials", http.StatusSeeOther)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		http.Redirect(w, r, "/login?error=invalid_credentials", http.StatusSeeOther)
		return
	}

	h.startSession(w, r, user.ID)
}

// Signup handles the registration form submission
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/signup?error=invalid_request", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	switch {
	case email == "" || password == "":
		http.Redirect(w, r, "/signup?error=missing_fields", http.StatusSeeOther)
		return
	case len(password) < minPasswordLength:
		http.Redirect(w, r, "/signup?error=weak_password", http.StatusSeeOther)
		return
	case password != r.FormValue("confirm"):
		http.Redirect(w, r, "/signup?error=password_mismatch", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "handler", "Signup", "error", err)
		http.Redirect(w, r, "/signup?error=server_error", http.StatusSeeOther)
		return
	}

	user, err := h.users.Create(r.Context(), email, string(hash))
	if errors.Is(err, repository.ErrEmailTaken) {
		http.Redirect(w, r, "/signup?error=email_taken", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("failed to create user", "handler", "Signup", "error", err)
		http.Redirect(w, r, "/signup?error=server_error", http.StatusSeeOther)
		return
	}

	slog.Info("user signed up", "user_id", user.ID)
	h.startSession(w, r, user.ID)
}

// Logout clears the session cookie and invalidates the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Invalidate the session server-side
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	token, err := h.sessions.Create(userID)
	if err != nil {
		http.Redirect(w, r, "/login?error=server_error", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		// No MaxAge = session cookie (expires when browser closes)
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
