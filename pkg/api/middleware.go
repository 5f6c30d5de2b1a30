package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskhive/realtime/pkg/auth"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// identityFrom returns the verified identity stored by authenticate.
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// authenticate verifies the Authorization bearer token and stores the
// resulting identity in the request context.
func authenticate(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				status, message := statusForError(err)
				respondError(w, status, message)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
