package middleware

import (
	"net/http"
	"slices"
)

// RequireRole admits requests whose token carries role. It must run after JWTAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(RolesFromContext(r.Context()), role) {
				writeEnvelope(w, http.StatusForbidden, role+" access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
