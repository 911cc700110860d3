package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parsfiltration/site-backend/internal/models"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	GetByEmail(ctx context.Context, email string) (*models.Contact, error)
	List(ctx context.Context, query models.ListQuery) ([]*models.Contact, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// contactRepository implements ContactRepository using PostgreSQL
type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone, company, subject, message, gdpr_consent, status, created_at`

func scanContact(row interface{ Scan(...interface{}) error }, c *models.Contact) error {
	return row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Subject,
		&c.Message,
		&c.GDPRConsent,
		&c.Status,
		&c.CreatedAt,
	)
}

// Create inserts a new contact
func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone, company, subject, message, gdpr_consent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Company,
		contact.Subject,
		contact.Message,
		contact.GDPRConsent,
		contact.Status,
	).Scan(&contact.ID, &contact.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by ID
func (r *contactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact := &models.Contact{}
	err := scanContact(r.db.QueryRowContext(ctx, query, id), contact)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("contact with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// GetByEmail retrieves the oldest contact matching the email, case-insensitively
func (r *contactRepository) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE LOWER(email) = LOWER($1) ORDER BY id LIMIT 1`

	contact := &models.Contact{}
	err := scanContact(r.db.QueryRowContext(ctx, query, email), contact)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("contact with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// contactSortColumns whitelists sortable columns for the list query
var contactSortColumns = map[string]string{
	"created_at": "created_at",
	"status":     "status",
	"email":      "email",
	"last_name":  "last_name",
}

// List retrieves contacts with filtering, search and pagination
func (r *contactRepository) List(ctx context.Context, query models.ListQuery) ([]*models.Contact, int64, error) {
	query.Normalize()

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if query.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, query.Status)
		argPos++
	}

	if query.Search != "" {
		where += fmt.Sprintf(
			" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR (first_name || ' ' || last_name) ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)",
			argPos, argPos, argPos, argPos, argPos,
		)
		args = append(args, "%"+query.Search+"%")
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	column, ok := contactSortColumns[query.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if query.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	sqlQuery := `SELECT ` + contactColumns + ` FROM contacts` + where +
		fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d", column, direction, direction, argPos, argPos+1)
	args = append(args, query.Limit, query.Offset())

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*models.Contact{}
	for rows.Next() {
		contact := &models.Contact{}
		if err := scanContact(rows, contact); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, totalCount, nil
}

// UpdateStatus updates only the status of a contact
func (r *contactRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE contacts SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("contact with ID %d not found", id))
	}

	return nil
}
