package entities

import "time"

// DefaultDisplayName is used when the OAuth provider omits a name.
const DefaultDisplayName = "Unknown User"

// User represents an authenticated user and their email collection.
// ExternalID is the OAuth provider's stable subject id; ID is the internal
// identifier assigned at creation and never changes afterwards. Issued
// credentials embed only ID.
type User struct {
	ID          string    `json:"id" db:"id"`
	ExternalID  string    `json:"external_id" db:"external_id"`
	DisplayName string    `json:"display_name" db:"name"` // db column is 'name'
	Emails      []Email   `json:"emails"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
