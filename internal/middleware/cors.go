package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// CORS adds Access-Control headers for allowed origins and short-circuits
// OPTIONS requests. Listed origins are echoed back with credentials so
// browsers send the session cookie. "*" allows any origin without
// credentials.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := slices.Contains(allowedOrigins, "*")
	normalized := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		normalized = append(normalized, strings.ToLower(strings.TrimRight(origin, "/")))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()
		switch {
		case origin != "" && slices.Contains(normalized, strings.ToLower(origin)):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			allowMethods(h)
		case origin != "" && allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
			allowMethods(h)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func allowMethods(h http.Header) {
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
	h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
}
