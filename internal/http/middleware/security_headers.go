package middleware

import "net/http"

// SecurityHeaders creates middleware that applies security headers suited to
// a JSON API.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// X-Content-Type-Options - prevents MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// X-Frame-Options - prevents clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer-Policy - controls referrer information
			w.Header().Set("Referrer-Policy", "no-referrer")

			// Content Security Policy - nothing on this API renders in a browser
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

			next.ServeHTTP(w, r)
		})
	}
}
