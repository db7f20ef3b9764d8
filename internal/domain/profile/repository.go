package profile

import "context"

type ProfileRepository interface {
	// GetByID returns nil, nil when no profile exists.
	GetByID(ctx context.Context, id string) (*Profile, error)

	// CreateIfAbsent inserts p unless a profile with the same ID exists.
	CreateIfAbsent(ctx context.Context, p Profile) (result Profile, created bool, err error)

	// Update writes the editable fields and returns ErrProfileNotFound when no row matched.
	Update(ctx context.Context, p Profile) (Profile, error)

	// List returns all profiles ordered by name.
	List(ctx context.Context) ([]Profile, error)
}
