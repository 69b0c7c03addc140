package middleware

import (
	"net/http"
)

// RequireUser redirects anonymous visitors to the login page. It must run
// after Identify.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !OwnerFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
