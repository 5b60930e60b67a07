package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/auth"
	"github.com/edukita/schoolhub/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)
	token, err := svc.Issue("user-1", "teacher")
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Sub)
	require.Equal(t, "teacher", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewService("secret-a", time.Hour).Issue("user-1", "admin")
	require.NoError(t, err)

	_, err = auth.NewService("secret-b", time.Hour).Parse(token)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := auth.NewService("test-secret", time.Nanosecond)
	token, err := svc.Issue("user-1", "student")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Parse(token)
	require.Error(t, err)
}

type fakeIdentitySource map[string]rbac.Identity

func (f fakeIdentitySource) IdentityByID(ctx context.Context, id string) (rbac.Identity, error) {
	v, ok := f[id]
	if !ok {
		return rbac.Identity{}, errors.New("no such user")
	}
	return v, nil
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)
	users := fakeIdentitySource{"user-1": {ID: "user-1", Username: "ani", Role: rbac.RoleStudent}}

	var got rbac.Identity
	h := auth.Middleware(svc, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = rbac.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := svc.Issue("user-1", "student")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ani", got.Username)
	require.Equal(t, rbac.RoleStudent, got.Role)
}

func TestMiddlewareRejects(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)
	users := fakeIdentitySource{}
	h := auth.Middleware(svc, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := map[string]string{
		"no header":   "",
		"not bearer":  "Basic abc",
		"bad token":   "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestMiddlewareRejectsDeletedUser(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)
	h := auth.Middleware(svc, fakeIdentitySource{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	token, err := svc.Issue("gone-user", "student")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
