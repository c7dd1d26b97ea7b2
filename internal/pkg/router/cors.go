package router

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

var corsAllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// CORS opens the API to any origin.
//
// The allow headers are stamped on every response, including requests that
// carry no Origin. Browser preflights are answered with 204 by rs/cors; any
// other OPTIONS request gets 204 here, whatever the path.
func CORS(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       corsAllowedHeaders,
		AllowCredentials:     false,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	wrapped := c.Handler(next)
	allowHeaders := strings.Join(corsAllowedHeaders, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		wrapped.ServeHTTP(w, r)
	})
}
