package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/drywaters/glimpse/internal/ui"
)

var authErrors = map[string]string{
	"invalid_request":     "Something was wrong with the form. Please try again.",
	"missing_fields":      "Email and password are required.",
	"invalid_credentials": "Incorrect email or password.",
	"email_taken":         "An account with that email already exists.",
	"weak_password":       "Passwords must be at least 8 characters.",
	"password_mismatch":   "Passwords do not match.",
	"server_error":        "Something went wrong. Please try again later.",
}

// LoginPage renders the sign-in form
func LoginPage(errorType string) templ.Component {
	return authPage("Sign in", "/login", errorType, false)
}

// SignupPage renders the registration form
func SignupPage(errorType string) templ.Component {
	return authPage("Create account", "/signup", errorType, true)
}

func authPage(title, action, errorType string, signup bool) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := ui.NewHTML(w)
		h.Raw(`<div class="auth-card"><h1>`).Text(title).Raw(`</h1>`)
		if msg, ok := authErrors[errorType]; ok {
			h.Raw(`<p class="error">`).Text(msg).Raw(`</p>`)
		}
		h.Raw(`<form method="post" action="`).Text(action).Raw(`">`)
		h.Raw(`<label>Email <input type="email" name="email" required autocomplete="email"></label>`)
		h.Raw(`<label>Password <input type="password" name="password" required minlength="8"></label>`)
		if signup {
			h.Raw(`<label>Confirm password <input type="password" name="confirm" required minlength="8"></label>`)
		}
		h.Raw(`<button type="submit">`).Text(title).Raw(`</button></form>`)
		if signup {
			h.Raw(`<p>Already have an account? <a href="/login">Sign in</a></p>`)
		} else {
			h.Raw(`<p>New here? <a href="/signup">Create an account</a></p>`)
		}
		h.Raw(`</div>`)
		return h.Err()
	})
	return Layout(title, "", false, content)
}
