package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// HealthPath is served with its own permissive CORS policy.
const HealthPath = "/health"

// AllowOrigin reports whether origin may call the API under the configured
// policy: "*" allows any origin, anything else must match exactly.
// Requests without an Origin header never reach this check.
func AllowOrigin(configured, origin string) bool {
	return configured == "*" || origin == configured
}

// CORS applies the API policy for allowedOrigin to every path except
// HealthPath, which accepts GET from any origin. Preflight requests are
// answered here, before routing.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	api := cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return AllowOrigin(allowedOrigin, origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
	})
	health := cors.Handler(cors.Options{
		AllowOriginFunc: func(*http.Request, string) bool { return true },
		AllowedMethods:  []string{http.MethodGet},
	})

	return func(next http.Handler) http.Handler {
		apiNext := api(next)
		healthNext := health(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == HealthPath {
				healthNext.ServeHTTP(w, r)
				return
			}
			apiNext.ServeHTTP(w, r)
		})
	}
}
