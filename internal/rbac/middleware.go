package rbac

import (
	"context"
	"encoding/json"
	"net/http"
)

// RoleLookup resolves the authoritative role for a login handle. The check
// deliberately re-fetches by username instead of trusting the role already
// resolved by the auth middleware, so a demotion takes effect on the next
// request rather than at token expiry.
type RoleLookup interface {
	RoleByUsername(ctx context.Context, username string) (Role, error)
}

// Require gates a route to the given allowed role set.
func Require(lookup RoleLookup, allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "not authorized")
				return
			}
			role, err := lookup.RoleByUsername(r.Context(), id.Username)
			if err != nil {
				deny(w, http.StatusUnauthorized, "user not found")
				return
			}
			if !roleIn(role, allowed) {
				deny(w, http.StatusForbidden, "you do not have access to this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
