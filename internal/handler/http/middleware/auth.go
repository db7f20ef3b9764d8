package middleware

import (
	"context"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

// AuthRequired accepts only access tokens carrying a user id and puts the
// resulting identity on the request context. It runs after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			identity, ok := identityFromClaims(claims)
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func identityFromClaims(claims map[string]interface{}) (user.Identity, bool) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Identity{}, false
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return user.Identity{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   user.ParseRole(role),
	}, true
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity user.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity set by AuthRequired.
func IdentityFromContext(ctx context.Context) (user.Identity, error) {
	identity, ok := ctx.Value(identityKey{}).(user.Identity)
	if !ok || identity.UserID == "" {
		return user.Identity{}, user.ErrIdentityMissing
	}
	return identity, nil
}
