package repositories

import (
	"context"

	"github.com/wrenhall/mailsift/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create a new user together with their initial emails.
	// Returns ErrDuplicateIdentity if the external id already exists.
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user and their emails by internal id
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByExternalID retrieves a user and their emails by the provider's
	// subject id
	GetByExternalID(ctx context.Context, externalID string) (*entities.User, error)

	// UpdateEmailTags persists the tag of every email on the user.
	// Last write wins; concurrent classifications are not serialized.
	UpdateEmailTags(ctx context.Context, user *entities.User) error
}
