package entities

// Email tags assigned by the classifier. TagUncategorized is the initial
// value for every seeded email; the other tags are produced exclusively by
// the classify operation.
const (
	TagUncategorized = "Uncategorized"
	TagMarketing     = "Marketing"
	TagImportant     = "Important"
	TagOther         = "Other"
)

// Email is one unit of content belonging to exactly one user. Emails are
// created only when the owning user record is created; after that only Tag
// mutates.
type Email struct {
	ID      string `json:"id" db:"id"`
	Subject string `json:"subject" db:"subject"`
	Body    string `json:"body" db:"body"`
	Tag     string `json:"tag" db:"tag"`
}

// SeedEmails returns the default email set installed for a new user,
// all tagged TagUncategorized.
func SeedEmails() []Email {
	return []Email{
		{Subject: "Welcome Email", Body: "Hello, this is a test.", Tag: TagUncategorized},
		{Subject: "Sale Alert", Body: "Big sale on products!", Tag: TagUncategorized},
		{Subject: "Urgent Update", Body: "Action required urgently.", Tag: TagUncategorized},
	}
}
