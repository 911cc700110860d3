package service

import (
	"regexp"
	"strings"

	"github.com/parsfiltration/site-backend/internal/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SubmitContactRequest is the public contact form payload
type SubmitContactRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Company     *string `json:"company,omitempty"`
	Subject     string  `json:"subject"`
	Message     string  `json:"message"`
	GDPRConsent bool    `json:"gdpr_consent"`
}

// Validate performs validation on the contact submission
func (r *SubmitContactRequest) Validate() error {
	if !r.GDPRConsent {
		return models.ErrInvalidInput("gdpr_consent must be accepted")
	}
	if err := validateName(r.FirstName, "first_name"); err != nil {
		return err
	}
	if err := validateName(r.LastName, "last_name"); err != nil {
		return err
	}
	if !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		return models.ErrInvalidInput("invalid email address")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return models.ErrInvalidInput("subject is required")
	}
	message := strings.TrimSpace(r.Message)
	if message == "" {
		return models.ErrInvalidInput("message is required")
	}
	if len(message) > 5000 {
		return models.ErrInvalidInput("message must not exceed 5000 characters")
	}
	return nil
}

// ToContact builds the contact record from the trimmed payload
func (r *SubmitContactRequest) ToContact() *models.Contact {
	contact := &models.Contact{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Subject:     strings.TrimSpace(r.Subject),
		Message:     strings.TrimSpace(r.Message),
		GDPRConsent: r.GDPRConsent,
		Status:      models.ContactStatusNew,
	}
	if r.Phone != nil && strings.TrimSpace(*r.Phone) != "" {
		phone := strings.TrimSpace(*r.Phone)
		contact.Phone = &phone
	}
	if r.Company != nil && strings.TrimSpace(*r.Company) != "" {
		company := strings.TrimSpace(*r.Company)
		contact.Company = &company
	}
	return contact
}

// SubmitQuoteRequest is the public quote form payload: the inquirer's
// contact details plus the inquiry itself.
type SubmitQuoteRequest struct {
	SubmitContactRequest

	Industry         string   `json:"industry"`
	ApplicationArea  string   `json:"application_area"`
	RequiredCapacity string   `json:"required_capacity"`
	Budget           *float64 `json:"budget,omitempty"`
	Timeline         string   `json:"timeline"`
}

// Validate performs validation on the quote submission
func (r *SubmitQuoteRequest) Validate() error {
	if err := r.SubmitContactRequest.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Industry) == "" {
		return models.ErrInvalidInput("industry is required")
	}
	if r.ApplicationArea != "" && !models.IsValidApplicationArea(r.ApplicationArea) {
		return models.ErrInvalidInput("invalid application_area")
	}
	if r.Budget != nil && *r.Budget < 0 {
		return models.ErrInvalidInput("budget must not be negative")
	}
	return nil
}

// ToQuote builds the quote record from the trimmed payload
func (r *SubmitQuoteRequest) ToQuote() *models.QuoteRequest {
	area := r.ApplicationArea
	if area == "" {
		area = models.ApplicationOther
	}
	return &models.QuoteRequest{
		Status:           models.QuoteStatusPending,
		Industry:         strings.TrimSpace(r.Industry),
		ApplicationArea:  area,
		RequiredCapacity: strings.TrimSpace(r.RequiredCapacity),
		Budget:           r.Budget,
		Timeline:         strings.TrimSpace(r.Timeline),
	}
}

// UpdateQuoteRequest is a partial update of staff-editable quote fields.
// Nil fields are left unchanged; status, quote number and contact linkage
// are never touched.
type UpdateQuoteRequest struct {
	Industry         *string  `json:"industry,omitempty"`
	ApplicationArea  *string  `json:"application_area,omitempty"`
	RequiredCapacity *string  `json:"required_capacity,omitempty"`
	Budget           *float64 `json:"budget,omitempty"`
	Timeline         *string  `json:"timeline,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// Validate performs validation on the partial update
func (r *UpdateQuoteRequest) Validate() error {
	if r.Industry != nil && strings.TrimSpace(*r.Industry) == "" {
		return models.ErrInvalidInput("industry must not be empty")
	}
	if r.ApplicationArea != nil && !models.IsValidApplicationArea(*r.ApplicationArea) {
		return models.ErrInvalidInput("invalid application_area")
	}
	if r.Budget != nil && *r.Budget < 0 {
		return models.ErrInvalidInput("budget must not be negative")
	}
	return nil
}

// UpdateStatusRequest carries a status transition target
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest sets or clears the assigned staff user
type AssignRequest struct {
	UserID *int64 `json:"user_id"`
}

// QuoteAmountRequest records the quoted amount
type QuoteAmountRequest struct {
	Amount float64 `json:"amount"`
}

// Validate performs validation on the amount
func (r *QuoteAmountRequest) Validate() error {
	if r.Amount <= 0 {
		return models.ErrInvalidInput("amount must be positive")
	}
	return nil
}

// LoginRequest is the staff login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate performs validation on the login request
func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return models.ErrInvalidInput("username is required")
	}
	if r.Password == "" {
		return models.ErrInvalidInput("password is required")
	}
	return nil
}

// LoginResult carries the issued session token
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// QuoteListResult represents paginated quote list results
type QuoteListResult struct {
	Data       []*models.QuoteWithContact `json:"data"`
	Pagination models.Pagination          `json:"pagination"`
}

// ContactListResult represents paginated contact list results
type ContactListResult struct {
	Data       []*models.Contact `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// ProductListResult represents paginated product list results
type ProductListResult struct {
	Data       []*models.Product `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

func validateName(value, field string) error {
	name := strings.TrimSpace(value)
	if len(name) < 1 || len(name) > 100 {
		return models.ErrInvalidInput(field + " must be between 1 and 100 characters")
	}
	return nil
}
