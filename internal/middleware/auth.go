package middleware

import (
	"net/http"
	"net/url"
)

// RequireAuth gates routes behind a signed-in session. Anonymous
// requests are sent to the login page with a return path; HTMX
// requests get an HX-Redirect so the browser navigates instead of
// swapping a fragment.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Token(r.Context()) == "" {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			if IsHTMX(r.Context()) {
				w.Header().Set("HX-Redirect", target)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
