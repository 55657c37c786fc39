package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/bookmarket/internal/auth"
	"github.com/shelfline/bookmarket/internal/user"
)

func sessionFixture(t *testing.T) (auth.Service, string, auth.Identity) {
	t.Helper()

	tokens := newFakeTokenStore()
	svc := auth.NewService(new(MockUserRepository), tokens, time.Hour)

	id := auth.Identity{UserID: uuid.Must(uuid.NewV4()), Name: "Alice", Role: user.RoleBuyer}
	require.NoError(t, tokens.Save(context.Background(), "valid-token", id, time.Hour))

	return svc, "valid-token", id
}

func TestMiddleware_InjectsIdentity(t *testing.T) {
	svc, token, want := sessionFixture(t)

	var got auth.Identity
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.Middleware(svc)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestMiddleware_RejectsMissingAndBadTokens(t *testing.T) {
	svc, _, _ := sessionFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	handler := auth.Middleware(svc)(next)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "unknown token", header: "Bearer deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc, token, _ := sessionFixture(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	asBuyer := auth.Middleware(svc)(auth.RequireRole(user.RoleBuyer)(next))
	asSeller := auth.Middleware(svc)(auth.RequireRole(user.RoleSeller)(next))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	asSeller.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, called)

	rec = httptest.NewRecorder()
	asBuyer.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
}
