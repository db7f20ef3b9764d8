package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	profile.ProfileService
	jwt.Service
	adminEmails map[string]bool
	logger      *slog.Logger
}

// NewAuthService builds the login flow. Profiles first created for an email
// in adminEmails get the admin role.
func NewAuthService(profileService profile.ProfileService, jwtService jwt.Service, adminEmails []string, logger *slog.Logger) auth.AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = true
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		ProfileService: profileService,
		Service:        jwtService,
		adminEmails:    admins,
		logger:         logger,
	}
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, req auth.GoogleLoginRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if !req.VerifiedEmail {
		return auth.AccessTokenResponse{}, auth.ErrEmailNotVerified
	}

	identity := user.Identity{
		UserID: req.GoogleID,
		Email:  strings.ToLower(req.Email),
		Name:   strings.TrimSpace(req.Name),
		Role:   user.RoleEmployee,
	}
	if a.adminEmails[identity.Email] {
		identity.Role = user.RoleAdmin
	}

	result := a.ProfileService.Ensure(ctx, identity)
	if result.Outcome == profile.OutcomeFailed {
		return auth.AccessTokenResponse{}, result.Err
	}
	identity.Name = result.Profile.Name
	identity.Role = result.Profile.Role

	token, expiresAt, err := a.Service.GenerateAccessToken(identity)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	a.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", identity.UserID),
		slog.String("role", string(identity.Role)),
		slog.String("profile_outcome", string(result.Outcome)),
	)
	return auth.AccessTokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		ProfileOutcome:       string(result.Outcome),
	}, nil
}
