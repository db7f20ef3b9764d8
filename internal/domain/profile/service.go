package profile

import (
	"context"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
)

type ProfileService interface {
	// Ensure fetches the identity's profile with bounded retries and falls
	// back to creating a synthesized one when none exists.
	Ensure(ctx context.Context, identity user.Identity) EnsureResult

	// GetMine returns the caller's profile, creating it on first access.
	GetMine(ctx context.Context, identity user.Identity) (ProfileResponse, error)

	// UpdateMine edits the caller's contact and placement fields.
	UpdateMine(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error)

	// List returns every profile (admin directory).
	List(ctx context.Context) ([]ProfileResponse, error)
}
