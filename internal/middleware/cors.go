package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// AllowCors wraps handler with the CORS policy of the given origins.
func AllowCors(allowedOrigins []string, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)
}
