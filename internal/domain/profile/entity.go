package profile

import (
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
)

// Profile is the HR record of a user. ID equals the identity provider's user id.
type Profile struct {
	ID           string
	Name         string
	Email        string
	Role         user.Role
	EmployeeCode *string
	Department   *string
	Position     *string
	Phone        *string
	Address      *string
	JoinDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Outcome tags how Ensure resolved a profile.
type Outcome string

const (
	OutcomeFound           Outcome = "found"
	OutcomeCreatedFallback Outcome = "created_fallback"
	OutcomeFailed          Outcome = "failed"
)

// EnsureResult is the tagged result of a profile fetch.
// Profile is nil only when Outcome is OutcomeFailed, in which case Err is set.
type EnsureResult struct {
	Profile  *Profile
	Outcome  Outcome
	Attempts int
	Err      error
}

// Synthesize builds the fallback profile for an identity that has no stored row.
func Synthesize(identity user.Identity, now time.Time) Profile {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(identity.Email, "@", 2)[0]
	}
	if name == "" {
		name = "User"
	}

	joinDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Profile{
		ID:       identity.UserID,
		Name:     name,
		Email:    identity.Email,
		Role:     identity.Role,
		JoinDate: &joinDate,
	}
}
