package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/heartmarshall/finhistory-backend/pkg/ctxutil"
)

// Header names of the two gates.
const (
	AdminTokenHeader     = "X-Admin-Token"
	InternalSecretHeader = "X-Internal-Secret"
)

// AdminAuth rejects requests without a valid admin token header and marks
// accepted requests with the admin actor.
func AdminAuth(gate *AdminGate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Check(r.Header.Get(AdminTokenHeader)) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "admin token required")
				return
			}
			recordActor(w, ctxutil.ActorAdmin)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithActor(r.Context(), ctxutil.ActorAdmin)))
		})
	}
}

// InternalAuth rejects requests whose shared secret header does not match.
// An empty secret rejects everything.
func InternalAuth(secret string) Middleware {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(InternalSecretHeader))
			if len(want) == 0 || subtle.ConstantTimeCompare(want, got) != 1 {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "internal secret required")
				return
			}
			recordActor(w, ctxutil.ActorInternal)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithActor(r.Context(), ctxutil.ActorInternal)))
		})
	}
}
