package models

// Notification event constants
const (
	NotificationQuoteSubmitted     = "quote_submitted"
	NotificationQuoteStatusChanged = "quote_status_changed"
	NotificationQuoteAssigned      = "quote_assigned"
	NotificationContactSubmitted   = "contact_submitted"
)

// NotificationJob is queued after a mutating operation so the worker can
// notify staff out of band. QuoteID is zero for contact-only events.
type NotificationJob struct {
	Event      string `json:"event"`
	QuoteID    int64  `json:"quote_id,omitempty"`
	ContactID  int64  `json:"contact_id,omitempty"`
	Status     string `json:"status,omitempty"`
	RetryCount int    `json:"retry_count"`
}
