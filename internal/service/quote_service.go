package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/queue"
	"github.com/parsfiltration/site-backend/internal/repository"
)

// QuoteService owns the quote request lifecycle: it validates transitions,
// persists through the repository and hands notification jobs to the queue.
type QuoteService interface {
	SubmitPublic(ctx context.Context, req *SubmitQuoteRequest) (*models.QuoteWithContact, error)
	GetByID(ctx context.Context, id int64) (*models.QuoteWithContact, error)
	List(ctx context.Context, query models.ListQuery) (*QuoteListResult, error)
	UpdateStatus(ctx context.Context, id int64, newStatus string) (*models.QuoteRequest, error)
	Assign(ctx context.Context, id int64, userID *int64) (*models.QuoteRequest, error)
	RecordQuoteAmount(ctx context.Context, id int64, amount float64) (*models.QuoteRequest, error)
	Update(ctx context.Context, id int64, req *UpdateQuoteRequest) (*models.QuoteRequest, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.QuoteStats, error)
}

type quoteService struct {
	quoteRepo repository.QuoteRepository
	userRepo  repository.UserRepository
	queue     queue.Client
	logger    *slog.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	userRepo repository.UserRepository,
	queueClient queue.Client,
	logger *slog.Logger,
) QuoteService {
	return &quoteService{
		quoteRepo: quoteRepo,
		userRepo:  userRepo,
		queue:     queueClient,
		logger:    logger,
	}
}

// SubmitPublic accepts a public quote form submission: it creates or reuses
// the contact by email and opens a pending quote request, atomically.
func (s *quoteService) SubmitPublic(ctx context.Context, req *SubmitQuoteRequest) (*models.QuoteWithContact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contact := req.ToContact()
	quote := req.ToQuote()

	if err := s.quoteRepo.CreateFromSubmission(ctx, contact, quote); err != nil {
		s.logger.Error("failed to create quote submission",
			slog.String("email", contact.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create quote submission: %w", err)
	}

	s.logger.Info("quote request submitted",
		slog.Int64("quote_id", quote.ID),
		slog.String("quote_number", quote.QuoteNumber),
		slog.Int64("contact_id", contact.ID),
	)

	s.notify(ctx, &models.NotificationJob{
		Event:     models.NotificationQuoteSubmitted,
		QuoteID:   quote.ID,
		ContactID: contact.ID,
		Status:    quote.Status,
	})

	return &models.QuoteWithContact{QuoteRequest: *quote, Contact: *contact}, nil
}

// GetByID retrieves a quote request with its inquirer
func (s *quoteService) GetByID(ctx context.Context, id int64) (*models.QuoteWithContact, error) {
	return s.quoteRepo.GetWithContact(ctx, id)
}

// List retrieves quote requests with search, filtering and pagination
func (s *quoteService) List(ctx context.Context, query models.ListQuery) (*QuoteListResult, error) {
	quotes, totalCount, err := s.quoteRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}

	query.Normalize()

	return &QuoteListResult{
		Data:       quotes,
		Pagination: models.NewPagination(query.Page, query.Limit, totalCount),
	}, nil
}

// UpdateStatus moves a quote request to a new status. The transition is
// accepted iff the current status is non-terminal and the target is a
// recognized status. The write is a compare-and-swap against the status
// read here, so a concurrent change is rejected rather than applied twice.
func (s *quoteService) UpdateStatus(ctx context.Context, id int64, newStatus string) (*models.QuoteRequest, error) {
	if !models.IsValidQuoteStatus(newStatus) {
		return nil, models.ErrInvalidTransitionWithMsg(fmt.Sprintf("unrecognized status %q", newStatus))
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !quote.CanTransitionTo(newStatus) {
		return nil, models.ErrInvalidTransitionWithMsg(
			fmt.Sprintf("cannot transition from terminal status %q", quote.Status),
		)
	}

	updated, err := s.quoteRepo.UpdateStatusFrom(ctx, id, quote.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !updated {
		// The record changed underneath us; re-read to report precisely
		if _, rereadErr := s.quoteRepo.GetByID(ctx, id); rereadErr != nil {
			return nil, rereadErr
		}
		return nil, models.ErrInvalidTransitionWithMsg("quote request status changed concurrently")
	}

	s.logger.Info("quote status updated",
		slog.Int64("quote_id", id),
		slog.String("from", quote.Status),
		slog.String("to", newStatus),
	)

	s.notify(ctx, &models.NotificationJob{
		Event:   models.NotificationQuoteStatusChanged,
		QuoteID: id,
		Status:  newStatus,
	})

	return s.quoteRepo.GetByID(ctx, id)
}

// Assign sets or clears the assigned staff user. Assignment is permitted in
// any non-terminal state and does not change the status.
func (s *quoteService) Assign(ctx context.Context, id int64, userID *int64) (*models.QuoteRequest, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalQuoteStatus(quote.Status) {
		return nil, models.ErrInvalidTransitionWithMsg(
			fmt.Sprintf("cannot assign quote request in terminal status %q", quote.Status),
		)
	}

	if userID != nil {
		if _, err := s.userRepo.GetByID(ctx, *userID); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Assign(ctx, id, userID); err != nil {
		return nil, err
	}

	s.logger.Info("quote assigned",
		slog.Int64("quote_id", id),
	)

	s.notify(ctx, &models.NotificationJob{
		Event:   models.NotificationQuoteAssigned,
		QuoteID: id,
		Status:  quote.Status,
	})

	return s.quoteRepo.GetByID(ctx, id)
}

// RecordQuoteAmount sets the quoted amount. The amount is meaningful only
// once the request reaches quoted, but that pairing is the caller's
// responsibility; the engine does not hard-enforce it.
func (s *quoteService) RecordQuoteAmount(ctx context.Context, id int64, amount float64) (*models.QuoteRequest, error) {
	req := QuoteAmountRequest{Amount: amount}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalQuoteStatus(quote.Status) {
		return nil, models.ErrInvalidTransitionWithMsg(
			fmt.Sprintf("cannot record amount on terminal status %q", quote.Status),
		)
	}

	if err := s.quoteRepo.SetQuoteAmount(ctx, id, amount); err != nil {
		return nil, err
	}

	s.logger.Info("quote amount recorded",
		slog.Int64("quote_id", id),
		slog.Float64("amount", amount),
	)

	return s.quoteRepo.GetByID(ctx, id)
}

// Update performs a partial update of staff-editable fields. Unset fields
// keep their current values; concurrent edits are last-write-wins.
func (s *quoteService) Update(ctx context.Context, id int64, req *UpdateQuoteRequest) (*models.QuoteRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Industry != nil {
		quote.Industry = *req.Industry
	}
	if req.ApplicationArea != nil {
		quote.ApplicationArea = *req.ApplicationArea
	}
	if req.RequiredCapacity != nil {
		quote.RequiredCapacity = *req.RequiredCapacity
	}
	if req.Budget != nil {
		quote.Budget = req.Budget
	}
	if req.Timeline != nil {
		quote.Timeline = *req.Timeline
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}

	if err := s.quoteRepo.UpdateFields(ctx, quote); err != nil {
		return nil, err
	}

	s.logger.Info("quote updated", slog.Int64("quote_id", id))

	return quote, nil
}

// Delete hard-deletes a quote request
func (s *quoteService) Delete(ctx context.Context, id int64) error {
	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("quote deleted", slog.Int64("quote_id", id))

	return nil
}

// Stats recomputes status counts from the persisted state on every call
func (s *quoteService) Stats(ctx context.Context) (*models.QuoteStats, error) {
	return s.quoteRepo.Stats(ctx)
}

// notify enqueues a notification job best-effort. Dispatch failures are
// logged, never surfaced to the caller.
func (s *quoteService) notify(ctx context.Context, job *models.NotificationJob) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Publish(ctx, job); err != nil {
		s.logger.Error("failed to publish notification job",
			slog.String("event", job.Event),
			slog.Int64("quote_id", job.QuoteID),
			slog.String("error", err.Error()),
		)
	}
}
