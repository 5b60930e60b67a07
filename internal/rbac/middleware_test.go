package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/rbac"
)

type fakeLookup map[string]rbac.Role

func (f fakeLookup) RoleByUsername(ctx context.Context, username string) (rbac.Role, error) {
	r, ok := f[username]
	if !ok {
		return 0, errors.New("no such user")
	}
	return r, nil
}

func callGated(t *testing.T, lookup rbac.RoleLookup, id *rbac.Identity, allowed ...rbac.Role) *httptest.ResponseRecorder {
	t.Helper()
	h := rbac.Require(lookup, allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(rbac.WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAllowsMatchingRole(t *testing.T) {
	lookup := fakeLookup{"ani": rbac.RoleAdmin}
	rec := callGated(t, lookup, &rbac.Identity{ID: "1", Username: "ani", Role: rbac.RoleAdmin}, rbac.AdminOnly...)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireForbidsOtherRoles(t *testing.T) {
	lookup := fakeLookup{"budi": rbac.RoleStudent}
	rec := callGated(t, lookup, &rbac.Identity{ID: "2", Username: "budi", Role: rbac.RoleStudent}, rbac.AdminTeacher...)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "you do not have access to this resource")
}

func TestRequireWithoutIdentity(t *testing.T) {
	rec := callGated(t, fakeLookup{}, nil, rbac.AdminOnly...)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// the gate consults the directory, not the role cached in the context
func TestRequireUsesCurrentRole(t *testing.T) {
	lookup := fakeLookup{"citra": rbac.RoleStudent} // demoted since token issue
	rec := callGated(t, lookup, &rbac.Identity{ID: "3", Username: "citra", Role: rbac.RoleAdmin}, rbac.AdminOnly...)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireUnknownUser(t *testing.T) {
	rec := callGated(t, fakeLookup{}, &rbac.Identity{ID: "4", Username: "ghost", Role: rbac.RoleAdmin}, rbac.AdminOnly...)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"student", "teacher", "admin"} {
		r, ok := rbac.ParseRole(s)
		require.True(t, ok)
		require.Equal(t, s, r.String())
	}
	_, ok := rbac.ParseRole("superuser")
	require.False(t, ok)
}
