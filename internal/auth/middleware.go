package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/edukita/schoolhub/internal/rbac"
)

// IdentitySource resolves a verified token subject to a current account.
type IdentitySource interface {
	IdentityByID(ctx context.Context, id string) (rbac.Identity, error)
}

// Middleware verifies the bearer credential and attaches the resolved
// identity to the request context. All protected routes sit behind it.
func Middleware(svc *Service, users IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				unauthorized(w, "not authorized")
				return
			}
			if !strings.HasPrefix(h, "Bearer ") {
				unauthorized(w, "invalid authorization header")
				return
			}
			claims, err := svc.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				unauthorized(w, "invalid credential")
				return
			}
			id, err := users.IdentityByID(r.Context(), claims.Sub)
			if err != nil {
				unauthorized(w, "user not found")
				return
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithIdentity(r.Context(), id)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
