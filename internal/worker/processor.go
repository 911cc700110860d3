package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/queue"
	"github.com/parsfiltration/site-backend/internal/repository"
)

// NotificationProcessor turns queued notification jobs into rendered staff
// notifications.
type NotificationProcessor struct {
	quoteRepo   repository.QuoteRepository
	contactRepo repository.ContactRepository
	sender      NotificationSender
	queueClient queue.Client
	maxRetries  int
	logger      *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(
	quoteRepo repository.QuoteRepository,
	contactRepo repository.ContactRepository,
	sender NotificationSender,
	queueClient queue.Client,
	maxRetries int,
	logger *slog.Logger,
) *NotificationProcessor {
	return &NotificationProcessor{
		quoteRepo:   quoteRepo,
		contactRepo: contactRepo,
		sender:      sender,
		queueClient: queueClient,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

// Process handles a single notification job
func (p *NotificationProcessor) Process(ctx context.Context, job *models.NotificationJob) error {
	notification, err := p.render(ctx, job)
	if err != nil {
		p.logger.Error("failed to render notification",
			slog.String("event", job.Event),
			slog.Int64("quote_id", job.QuoteID),
			slog.String("error", err.Error()),
		)
		return err
	}

	if err := p.sender.Send(ctx, notification); err != nil {
		p.logger.Warn("notification send failed",
			slog.String("event", job.Event),
			slog.Int("retry_count", job.RetryCount),
			slog.String("error", err.Error()),
		)
		return p.handleFailure(ctx, job, err)
	}

	p.logger.Info("notification delivered",
		slog.String("event", job.Event),
		slog.Int64("quote_id", job.QuoteID),
	)

	return nil
}

// render builds the notification text for the job's event
func (p *NotificationProcessor) render(ctx context.Context, job *models.NotificationJob) (*Notification, error) {
	switch job.Event {
	case models.NotificationContactSubmitted:
		contact, err := p.contactRepo.GetByID(ctx, job.ContactID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contact: %w", err)
		}
		return &Notification{
			Subject: fmt.Sprintf("New contact inquiry from %s", contact.FullName()),
			Body:    fmt.Sprintf("%s <%s>: %s", contact.FullName(), contact.Email, contact.Subject),
		}, nil

	case models.NotificationQuoteSubmitted, models.NotificationQuoteStatusChanged, models.NotificationQuoteAssigned:
		quote, err := p.quoteRepo.GetWithContact(ctx, job.QuoteID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch quote request: %w", err)
		}
		return &Notification{
			Subject: fmt.Sprintf("Quote %s: %s", quote.QuoteNumber, job.Event),
			Body: fmt.Sprintf("%s <%s> | industry %s | status %s",
				quote.Contact.FullName(), quote.Contact.Email, quote.Industry, quote.Status),
		}, nil

	default:
		return nil, fmt.Errorf("unknown notification event %q", job.Event)
	}
}

// handleFailure requeues the job with an incremented retry count until the
// retry budget is exhausted.
func (p *NotificationProcessor) handleFailure(ctx context.Context, job *models.NotificationJob, sendErr error) error {
	if job.RetryCount+1 >= p.maxRetries {
		p.logger.Error("notification permanently failed",
			slog.String("event", job.Event),
			slog.Int64("quote_id", job.QuoteID),
			slog.Int("retry_count", job.RetryCount+1),
			slog.Int("max_retries", p.maxRetries),
		)
		return nil // job processed, albeit dropped
	}

	retry := *job
	retry.RetryCount++

	if err := p.queueClient.Publish(ctx, &retry); err != nil {
		p.logger.Error("failed to requeue notification",
			slog.String("event", job.Event),
			slog.String("error", err.Error()),
		)
		return err
	}

	return fmt.Errorf("send failed, retry %d/%d: %w", retry.RetryCount, p.maxRetries, sendErr)
}
