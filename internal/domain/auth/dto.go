package auth

import "github.com/dayflow-hr/dayflow-backend-go/internal/pkg/validator"

// GoogleLoginRequest is the verified identity returned by Google's userinfo endpoint.
type GoogleLoginRequest struct {
	GoogleID      string `json:"id" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Name          string `json:"name" validate:"max=255"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (r *GoogleLoginRequest) Validate() error {
	return validator.Struct(r)
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
	ProfileOutcome       string `json:"profile_outcome,omitempty"`
}
