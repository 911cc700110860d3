package models

import "time"

// Quote request status constants
const (
	QuoteStatusPending    = "pending"
	QuoteStatusInProgress = "in_progress"
	QuoteStatusQuoted     = "quoted"
	QuoteStatusApproved   = "approved"
	QuoteStatusRejected   = "rejected"
	QuoteStatusCancelled  = "cancelled"
)

// Application area constants
const (
	ApplicationIndustrial   = "industrial"
	ApplicationCommercial   = "commercial"
	ApplicationMunicipal    = "municipal"
	ApplicationAgricultural = "agricultural"
	ApplicationOther        = "other"
)

// QuoteRequest is a staff-tracked sales inquiry tied to one Contact.
// QuoteNumber is assigned exactly once at creation and never changes.
// QuoteAmount is meaningful only while the status is quoted or approved;
// consumers treat it as unset otherwise.
type QuoteRequest struct {
	ID               int64     `json:"id"`
	QuoteNumber      string    `json:"quote_number"`
	ContactID        int64     `json:"contact_id"`
	Status           string    `json:"status"`
	Industry         string    `json:"industry"`
	ApplicationArea  string    `json:"application_area"`
	RequiredCapacity string    `json:"required_capacity"`
	Budget           *float64  `json:"budget,omitempty"`
	Timeline         string    `json:"timeline"`
	QuoteAmount      *float64  `json:"quote_amount,omitempty"`
	AssignedToUserID *int64    `json:"assigned_to_user_id,omitempty"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// QuoteWithContact joins a quote request with its inquirer for list and
// export views.
type QuoteWithContact struct {
	QuoteRequest
	Contact Contact `json:"contact"`
}

// QuoteStats holds counts of quote requests grouped by status
type QuoteStats struct {
	Total      int64 `json:"total_quotes"`
	Pending    int64 `json:"pending_quotes"`
	InProgress int64 `json:"in_progress_quotes"`
	Quoted     int64 `json:"quoted_quotes"`
	Approved   int64 `json:"approved_quotes"`
	Rejected   int64 `json:"rejected_quotes"`
	Cancelled  int64 `json:"cancelled_quotes"`
}

// IsValidQuoteStatus checks if the status value is recognized
func IsValidQuoteStatus(status string) bool {
	switch status {
	case QuoteStatusPending, QuoteStatusInProgress, QuoteStatusQuoted,
		QuoteStatusApproved, QuoteStatusRejected, QuoteStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminalQuoteStatus reports whether no further transition is permitted
// from the given status.
func IsTerminalQuoteStatus(status string) bool {
	switch status {
	case QuoteStatusApproved, QuoteStatusRejected, QuoteStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValidApplicationArea checks if the application area is recognized
func IsValidApplicationArea(area string) bool {
	switch area {
	case ApplicationIndustrial, ApplicationCommercial, ApplicationMunicipal,
		ApplicationAgricultural, ApplicationOther:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the quote may move to the target status.
// A transition is accepted iff the current status is non-terminal and the
// target is a recognized status; terminal records reject every target,
// including their own status.
func (q *QuoteRequest) CanTransitionTo(target string) bool {
	if IsTerminalQuoteStatus(q.Status) {
		return false
	}
	return IsValidQuoteStatus(target)
}

// HasQuoteAmount reports whether QuoteAmount carries meaning for the
// current status.
func (q *QuoteRequest) HasQuoteAmount() bool {
	if q.QuoteAmount == nil {
		return false
	}
	return q.Status == QuoteStatusQuoted || q.Status == QuoteStatusApproved
}
