package user

import "errors"

var (
	ErrIdentityMissing         = errors.New("authenticated identity missing")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
