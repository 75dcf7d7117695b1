package middleware

import (
	"net/http"

	"github.com/greetly/api/internal/policy"
)

// CORS evaluates the origin policy for every request, injects the
// resulting headers, and terminates preflights.
//
// OPTIONS requests end here with 204 and no body, whatever the allow/deny
// outcome: the preflight response always completes the browser's
// handshake, and the browser applies the actual decision by inspecting
// the returned headers. Forwarding a preflight to application logic would
// break the handshake. All other requests continue downstream unchanged.
func CORS(cfg policy.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := policy.Evaluate(r.Header.Get("Origin"), cfg)
			decision.Apply(w.Header())

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
