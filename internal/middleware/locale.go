package middleware

import "net/http"

// VaryLocale adds Accept-Language to Vary so caches keep the en and hi
// renderings of a page apart.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
