package models

import "time"

// Contact status constants
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
	ContactStatusClosed     = "closed"
)

// Contact represents an inquirer. Contacts are created by public form
// submissions and may exist independent of any quote request. They are
// never deleted automatically.
type Contact struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	GDPRConsent bool      `json:"gdpr_consent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullName returns the inquirer's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// IsValidContactStatus checks if the contact status is recognized
func IsValidContactStatus(status string) bool {
	switch status {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	default:
		return false
	}
}
