package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/handler/http/response"
)

// RequirePermission lets the request through only when the identity's role
// grants permission. It must run after AuthRequired.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(identity.Role, permission) {
				slog.Debug("permission denied",
					"user_id", identity.UserID,
					"role", identity.Role,
					"permission", permission,
				)
				response.HandleError(w, fmt.Errorf("%w: %s", user.ErrInsufficientPermissions, permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
