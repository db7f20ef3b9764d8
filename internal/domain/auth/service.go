package auth

import (
	"context"
)

// AuthService bridges the external identity provider to local access tokens.
// Credentials never reach this service.
type AuthService interface {
	LoginWithGoogle(ctx context.Context, req GoogleLoginRequest) (AccessTokenResponse, error)
}
