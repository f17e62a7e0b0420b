package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func callAuth(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, domain.Actor, bool) {
	t.Helper()

	var (
		actor   domain.Actor
		actorOK bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, actorOK = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	Auth(next).ServeHTTP(rec, req)
	return rec, actor, actorOK
}

func TestAuth_ValidHeaders(t *testing.T) {
	rec, actor, ok := callAuth(t, map[string]string{
		HeaderUserID:   "42",
		HeaderUserRole: "provider",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, int64(42), actor.UserID)
	assert.Equal(t, domain.RoleProvider, actor.Role)
}

func TestAuth_DefaultRoleIsBuyer(t *testing.T) {
	rec, actor, ok := callAuth(t, map[string]string{
		HeaderUserID: "42",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, domain.RoleBuyer, actor.Role)
}

func TestAuth_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing user id", map[string]string{}},
		{"non-numeric user id", map[string]string{HeaderUserID: "abc"}},
		{"non-positive user id", map[string]string{HeaderUserID: "0"}},
		{"unknown role", map[string]string{HeaderUserID: "42", HeaderUserRole: "manager"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, ok := callAuth(t, tt.headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, ok)
		})
	}
}

func TestGetActor_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetActor(req.Context())
	assert.False(t, ok)
}
