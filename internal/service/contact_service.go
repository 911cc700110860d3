package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/queue"
	"github.com/parsfiltration/site-backend/internal/repository"
)

// ContactService handles contact inquiries
type ContactService interface {
	SubmitPublic(ctx context.Context, req *SubmitContactRequest) (*models.Contact, error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	List(ctx context.Context, query models.ListQuery) (*ContactListResult, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Contact, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	queue       queue.Client
	logger      *slog.Logger
}

// NewContactService creates a new contact service
func NewContactService(
	contactRepo repository.ContactRepository,
	queueClient queue.Client,
	logger *slog.Logger,
) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		queue:       queueClient,
		logger:      logger,
	}
}

// SubmitPublic accepts a public contact form submission. Consent is
// mandatory; without it no record is created.
func (s *contactService) SubmitPublic(ctx context.Context, req *SubmitContactRequest) (*models.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contact := req.ToContact()

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		s.logger.Error("failed to create contact",
			slog.String("email", contact.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info("contact submitted",
		slog.Int64("contact_id", contact.ID),
		slog.String("email", contact.Email),
	)

	if s.queue != nil {
		job := &models.NotificationJob{
			Event:     models.NotificationContactSubmitted,
			ContactID: contact.ID,
		}
		if err := s.queue.Publish(ctx, job); err != nil {
			s.logger.Error("failed to publish notification job",
				slog.Int64("contact_id", contact.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return contact, nil
}

// GetByID retrieves a contact by ID
func (s *contactService) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	return s.contactRepo.GetByID(ctx, id)
}

// List retrieves contacts with search, filtering and pagination
func (s *contactService) List(ctx context.Context, query models.ListQuery) (*ContactListResult, error) {
	contacts, totalCount, err := s.contactRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	query.Normalize()

	return &ContactListResult{
		Data:       contacts,
		Pagination: models.NewPagination(query.Page, query.Limit, totalCount),
	}, nil
}

// UpdateStatus moves a contact through the staff workflow
func (s *contactService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Contact, error) {
	if !models.IsValidContactStatus(status) {
		return nil, models.ErrInvalidInput(fmt.Sprintf("unrecognized contact status %q", status))
	}

	if err := s.contactRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("contact status updated",
		slog.Int64("contact_id", id),
		slog.String("status", status),
	)

	return s.contactRepo.GetByID(ctx, id)
}
