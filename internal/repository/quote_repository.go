package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/parsfiltration/site-backend/internal/models"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// quoteNumberAttempts bounds regeneration on quote number collisions
const quoteNumberAttempts = 5

// QuoteRepository defines the interface for quote request data access
type QuoteRepository interface {
	// CreateFromSubmission atomically creates (or reuses by email) the
	// contact and inserts a pending quote request linked to it.
	CreateFromSubmission(ctx context.Context, contact *models.Contact, quote *models.QuoteRequest) error
	GetByID(ctx context.Context, id int64) (*models.QuoteRequest, error)
	GetWithContact(ctx context.Context, id int64) (*models.QuoteWithContact, error)
	List(ctx context.Context, query models.ListQuery) ([]*models.QuoteWithContact, int64, error)
	// ForEachMatching streams every record matching the query, ignoring
	// page and limit, in the query's sort order.
	ForEachMatching(ctx context.Context, query models.ListQuery, fn func(*models.QuoteWithContact) error) error
	UpdateFields(ctx context.Context, quote *models.QuoteRequest) error
	// UpdateStatusFrom is a compare-and-swap: the row is updated only if its
	// current status still equals from. It reports whether a row changed.
	UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error)
	Assign(ctx context.Context, id int64, userID *int64) error
	SetQuoteAmount(ctx context.Context, id int64, amount float64) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.QuoteStats, error)
}

// quoteRepository implements QuoteRepository using PostgreSQL
type quoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// generateQuoteNumber produces a candidate quote number. Uniqueness is
// enforced by the database; collisions trigger regeneration.
func generateQuoteNumber(now time.Time) string {
	return fmt.Sprintf("QT-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// CreateFromSubmission creates the contact (reusing an existing row with the
// same email, case-insensitively) and the quote request in one transaction.
func (r *quoteRepository) CreateFromSubmission(ctx context.Context, contact *models.Contact, quote *models.QuoteRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Reuse an existing contact with the same email if one exists
	err = tx.QueryRowContext(ctx,
		`SELECT id, status, created_at FROM contacts WHERE LOWER(email) = LOWER($1) ORDER BY id LIMIT 1`,
		contact.Email,
	).Scan(&contact.ID, &contact.Status, &contact.CreatedAt)

	switch {
	case err == sql.ErrNoRows:
		err = tx.QueryRowContext(ctx, `
			INSERT INTO contacts (first_name, last_name, email, phone, company, subject, message, gdpr_consent, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at`,
			contact.FirstName,
			contact.LastName,
			contact.Email,
			contact.Phone,
			contact.Company,
			contact.Subject,
			contact.Message,
			contact.GDPRConsent,
			models.ContactStatusNew,
		).Scan(&contact.ID, &contact.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}
		contact.Status = models.ContactStatusNew
	case err != nil:
		return fmt.Errorf("failed to look up contact: %w", err)
	}

	quote.ContactID = contact.ID
	quote.Status = models.QuoteStatusPending

	// Quote number collisions are regenerated, never surfaced
	for attempt := 0; attempt < quoteNumberAttempts; attempt++ {
		quote.QuoteNumber = generateQuoteNumber(time.Now())

		err = tx.QueryRowContext(ctx, `
			INSERT INTO quote_requests (quote_number, contact_id, status, industry, application_area, required_capacity, budget, timeline, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			quote.QuoteNumber,
			quote.ContactID,
			quote.Status,
			quote.Industry,
			quote.ApplicationArea,
			quote.RequiredCapacity,
			quote.Budget,
			quote.Timeline,
			quote.Notes,
		).Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt)

		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create quote request: %w", err)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to generate unique quote number: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}

	return nil
}

const quoteColumns = `q.id, q.quote_number, q.contact_id, q.status, q.industry, q.application_area,
	q.required_capacity, q.budget, q.timeline, q.quote_amount, q.assigned_to_user_id, q.notes,
	q.created_at, q.updated_at`

func scanQuote(row interface{ Scan(...interface{}) error }, q *models.QuoteRequest) error {
	return row.Scan(
		&q.ID,
		&q.QuoteNumber,
		&q.ContactID,
		&q.Status,
		&q.Industry,
		&q.ApplicationArea,
		&q.RequiredCapacity,
		&q.Budget,
		&q.Timeline,
		&q.QuoteAmount,
		&q.AssignedToUserID,
		&q.Notes,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
}

// GetByID retrieves a quote request by ID
func (r *quoteRepository) GetByID(ctx context.Context, id int64) (*models.QuoteRequest, error) {
	query := `SELECT ` + quoteColumns + ` FROM quote_requests q WHERE q.id = $1`

	quote := &models.QuoteRequest{}
	err := scanQuote(r.db.QueryRowContext(ctx, query, id), quote)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("quote request with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote request: %w", err)
	}

	return quote, nil
}

const quoteContactColumns = quoteColumns + `,
	c.id, c.first_name, c.last_name, c.email, c.phone, c.company, c.subject, c.message,
	c.gdpr_consent, c.status, c.created_at`

func scanQuoteWithContact(row interface{ Scan(...interface{}) error }, q *models.QuoteWithContact) error {
	return row.Scan(
		&q.ID,
		&q.QuoteNumber,
		&q.ContactID,
		&q.Status,
		&q.Industry,
		&q.ApplicationArea,
		&q.RequiredCapacity,
		&q.Budget,
		&q.Timeline,
		&q.QuoteAmount,
		&q.AssignedToUserID,
		&q.Notes,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.Contact.ID,
		&q.Contact.FirstName,
		&q.Contact.LastName,
		&q.Contact.Email,
		&q.Contact.Phone,
		&q.Contact.Company,
		&q.Contact.Subject,
		&q.Contact.Message,
		&q.Contact.GDPRConsent,
		&q.Contact.Status,
		&q.Contact.CreatedAt,
	)
}

// GetWithContact retrieves a quote request joined with its inquirer
func (r *quoteRepository) GetWithContact(ctx context.Context, id int64) (*models.QuoteWithContact, error) {
	query := `
		SELECT ` + quoteContactColumns + `
		FROM quote_requests q
		JOIN contacts c ON c.id = q.contact_id
		WHERE q.id = $1`

	quote := &models.QuoteWithContact{}
	err := scanQuoteWithContact(r.db.QueryRowContext(ctx, query, id), quote)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("quote request with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote request: %w", err)
	}

	return quote, nil
}

// quoteSortColumns whitelists sortable columns for the list query
var quoteSortColumns = map[string]string{
	"created_at":   "q.created_at",
	"updated_at":   "q.updated_at",
	"status":       "q.status",
	"quote_number": "q.quote_number",
	"quote_amount": "q.quote_amount",
}

// buildQuoteFilter renders the shared WHERE clause for list and export.
// Search matches inquirer name, email, company and the quote number,
// case-insensitively.
func buildQuoteFilter(query models.ListQuery) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if query.Status != "" {
		where += fmt.Sprintf(" AND q.status = $%d", argPos)
		args = append(args, query.Status)
		argPos++
	}

	if query.Search != "" {
		where += fmt.Sprintf(
			" AND (c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR (c.first_name || ' ' || c.last_name) ILIKE $%d OR c.email ILIKE $%d OR c.company ILIKE $%d OR q.quote_number ILIKE $%d)",
			argPos, argPos, argPos, argPos, argPos, argPos,
		)
		args = append(args, "%"+query.Search+"%")
		argPos++
	}

	return where, args
}

func quoteOrderClause(query models.ListQuery) string {
	column, ok := quoteSortColumns[query.SortBy]
	if !ok {
		column = "q.created_at"
	}
	direction := "DESC"
	if query.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	// Secondary sort on id keeps pagination stable
	return fmt.Sprintf(" ORDER BY %s %s, q.id %s", column, direction, direction)
}

// List retrieves quote requests with filtering, search and pagination.
// A page beyond the last returns an empty slice with the true total count.
func (r *quoteRepository) List(ctx context.Context, query models.ListQuery) ([]*models.QuoteWithContact, int64, error) {
	query.Normalize()

	where, args := buildQuoteFilter(query)
	base := ` FROM quote_requests q JOIN contacts c ON c.id = q.contact_id` + where

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+base, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count quote requests: %w", err)
	}

	argPos := len(args) + 1
	sqlQuery := `SELECT ` + quoteContactColumns + base + quoteOrderClause(query) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, query.Limit, query.Offset())

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quote requests: %w", err)
	}
	defer rows.Close()

	quotes := []*models.QuoteWithContact{}
	for rows.Next() {
		quote := &models.QuoteWithContact{}
		if err := scanQuoteWithContact(rows, quote); err != nil {
			return nil, 0, fmt.Errorf("failed to scan quote request: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating quote requests: %w", err)
	}

	return quotes, totalCount, nil
}

// ForEachMatching streams all matching rows to fn, bypassing pagination
func (r *quoteRepository) ForEachMatching(ctx context.Context, query models.ListQuery, fn func(*models.QuoteWithContact) error) error {
	query.Normalize()

	where, args := buildQuoteFilter(query)
	sqlQuery := `SELECT ` + quoteContactColumns +
		` FROM quote_requests q JOIN contacts c ON c.id = q.contact_id` +
		where + quoteOrderClause(query)

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to query quote requests for export: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		quote := &models.QuoteWithContact{}
		if err := scanQuoteWithContact(rows, quote); err != nil {
			return fmt.Errorf("failed to scan quote request: %w", err)
		}
		if err := fn(quote); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating quote requests: %w", err)
	}

	return nil
}

// UpdateFields performs a partial update of staff-editable fields. Status,
// quote number and contact linkage are never touched here.
func (r *quoteRepository) UpdateFields(ctx context.Context, quote *models.QuoteRequest) error {
	query := `
		UPDATE quote_requests
		SET industry = $1, application_area = $2, required_capacity = $3,
		    budget = $4, timeline = $5, notes = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		quote.Industry,
		quote.ApplicationArea,
		quote.RequiredCapacity,
		quote.Budget,
		quote.Timeline,
		quote.Notes,
		quote.ID,
	).Scan(&quote.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("quote request with ID %d not found", quote.ID))
	}
	if err != nil {
		return fmt.Errorf("failed to update quote request: %w", err)
	}

	return nil
}

// UpdateStatusFrom updates the status only when the current value still
// matches from, making the read-modify-write atomic from the caller's
// perspective.
func (r *quoteRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	query := `
		UPDATE quote_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update quote request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// Assign sets or clears the assigned staff user without touching status
func (r *quoteRepository) Assign(ctx context.Context, id int64, userID *int64) error {
	query := `
		UPDATE quote_requests
		SET assigned_to_user_id = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to assign quote request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("quote request with ID %d not found", id))
	}

	return nil
}

// SetQuoteAmount records the quoted amount
func (r *quoteRepository) SetQuoteAmount(ctx context.Context, id int64, amount float64) error {
	query := `
		UPDATE quote_requests
		SET quote_amount = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to set quote amount: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("quote request with ID %d not found", id))
	}

	return nil
}

// Delete hard-deletes a quote request. The linked contact is left in place.
func (r *quoteRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM quote_requests WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("quote request with ID %d not found", id))
	}

	return nil
}

// Stats counts quote requests grouped by status, reflecting the persisted
// state at call time.
func (r *quoteRepository) Stats(ctx context.Context) (*models.QuoteStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'quoted') AS quoted,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM quote_requests`

	stats := &models.QuoteStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.InProgress,
		&stats.Quoted,
		&stats.Approved,
		&stats.Rejected,
		&stats.Cancelled,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to compute quote stats: %w", err)
	}

	return stats, nil
}
