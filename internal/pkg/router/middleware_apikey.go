package router

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/codelens/internal/pkg/config"
)

// HeaderAPIKey carries the client key, gateway style.
const HeaderAPIKey = "apikey"

var apiKeyExempt = map[string]struct{}{
	"/health": {},
}

func presentedKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get(HeaderAPIKey)); k != "" {
		return k
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	return ""
}

// middlewareAPIKey rejects requests without a configured key. An empty
// app.server.api_keys list disables the gate. OPTIONS is never gated.
func middlewareAPIKey(cfg config.Config) Middleware {
	var keys [][]byte
	if cfg != nil {
		keys = lo.Map(cfg.GetArray("app.server.api_keys"), func(k string, _ int) []byte { return []byte(k) })
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := apiKeyExempt[matchedRoutePath(r)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			got := []byte(presentedKey(r))
			match := lo.SomeBy(keys, func(k []byte) bool {
				return subtle.ConstantTimeCompare(k, got) == 1
			})
			if !match {
				writeJSON(w, errorResponse{Error: "Invalid API key"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
