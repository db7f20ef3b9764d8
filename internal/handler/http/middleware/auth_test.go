package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(jwtService jwt.Service, permission user.Permission) http.Handler {
	ja := jwtService.JWTAuth()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := middleware.IdentityFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User-ID", identity.UserID)
		w.WriteHeader(http.StatusOK)
	})
	return jwtauth.Verifier(ja)(middleware.AuthRequired(ja)(middleware.RequirePermission(permission)(final)))
}

func call(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", "1h")
	h := protected(jwtService, user.PermissionAttendanceCreate)

	employee, _, err := jwtService.GenerateAccessToken(user.Identity{UserID: "u-1", Role: user.RoleEmployee})
	require.NoError(t, err)

	_, wrongType, err := jwtService.JWTAuth().Encode(map[string]interface{}{
		"user_id": "u-1",
		"type":    "refresh",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, noUser, err := jwtService.JWTAuth().Encode(map[string]interface{}{
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "no token", token: "", status: http.StatusUnauthorized},
		{name: "garbage", token: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "non-access token", token: wrongType, status: http.StatusUnauthorized},
		{name: "missing user id", token: noUser, status: http.StatusUnauthorized},
		{name: "valid", token: employee, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(h, tt.token)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := call(h, employee)
	assert.Equal(t, "u-1", rec.Header().Get("X-User-ID"))
}

func TestRequirePermission(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", "1h")
	h := protected(jwtService, user.PermissionLeaveApprove)

	employee, _, err := jwtService.GenerateAccessToken(user.Identity{UserID: "u-1", Role: user.RoleEmployee})
	require.NoError(t, err)
	admin, _, err := jwtService.GenerateAccessToken(user.Identity{UserID: "a-1", Role: user.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, call(h, employee).Code)
	assert.Equal(t, http.StatusOK, call(h, admin).Code)
}

func TestIdentityFromContext_Missing(t *testing.T) {
	_, err := middleware.IdentityFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrIdentityMissing)

	ctx := middleware.WithIdentity(context.Background(), user.Identity{UserID: "u-9"})
	identity, err := middleware.IdentityFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-9", identity.UserID)
}
