package repositories

import "errors"

// Domain-specific repository errors
var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateIdentity is returned when a create collides with an
	// existing external id. Callers recover by re-reading the existing
	// record.
	ErrDuplicateIdentity = errors.New("duplicate external identity")
)
