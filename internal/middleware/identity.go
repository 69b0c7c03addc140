package middleware

import (
	"context"
	"net/http"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/session"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the session token of a signed-in user
	SessionCookie = "glimpse_session"
	// DeviceCookie identifies an anonymous browser
	DeviceCookie = "glimpse_device"

	deviceCookieMaxAge = 400 * 24 * 60 * 60
)

type ownerKey struct{}

// Identify attaches the request's owner to the context: the signed-in
// user when the session cookie is valid, otherwise the device. A device ID
// is issued on the first visit. sessions may be nil when auth is disabled.
func Identify(sessions *session.Store, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var owner model.Owner

			if c, err := r.Cookie(DeviceCookie); err == nil && isDeviceID(c.Value) {
				owner.DeviceID = c.Value
			} else {
				owner.DeviceID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     DeviceCookie,
					Value:    owner.DeviceID,
					Path:     "/",
					MaxAge:   deviceCookieMaxAge,
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if sessions != nil {
				if c, err := r.Cookie(SessionCookie); err == nil {
					if userID, ok := sessions.Lookup(c.Value); ok {
						owner.UserID = userID
						// Refresh session TTL on activity
						sessions.Refresh(c.Value)
					} else {
						ClearSessionCookie(w, secureCookies)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// WithOwner returns a copy of ctx carrying owner
func WithOwner(ctx context.Context, owner model.Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom returns the owner attached by Identify
func OwnerFrom(ctx context.Context) model.Owner {
	owner, _ := ctx.Value(ownerKey{}).(model.Owner)
	return owner
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter, secureCookies bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func isDeviceID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
