package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/parsfiltration/site-backend/internal/models"
)

// mockContactRepo is an in-memory ContactRepository for testing
type mockContactRepo struct {
	contacts []*models.Contact
	nextID   int64
}

func (m *mockContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	m.nextID++
	contact.ID = m.nextID
	contact.Status = models.ContactStatusNew
	contact.CreatedAt = time.Now()
	stored := *contact
	m.contacts = append(m.contacts, &stored)
	return nil
}

func (m *mockContactRepo) find(id int64) *models.Contact {
	for _, c := range m.contacts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *mockContactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	if c := m.find(id); c != nil {
		contact := *c
		return &contact, nil
	}
	return nil, models.ErrNotFoundWithMsg("contact not found")
}

func (m *mockContactRepo) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	for _, c := range m.contacts {
		if strings.EqualFold(c.Email, email) {
			contact := *c
			return &contact, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("contact not found")
}

func (m *mockContactRepo) List(ctx context.Context, query models.ListQuery) ([]*models.Contact, int64, error) {
	query.Normalize()
	filtered := []*models.Contact{}
	search := strings.ToLower(query.Search)
	for _, c := range m.contacts {
		if query.Status != "" && c.Status != query.Status {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(c.FullName() + "\n" + c.Email)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		filtered = append(filtered, c)
	}

	totalCount := int64(len(filtered))
	start := query.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + query.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], totalCount, nil
}

func (m *mockContactRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	c := m.find(id)
	if c == nil {
		return models.ErrNotFoundWithMsg("contact not found")
	}
	c.Status = status
	return nil
}

func newContactService(repo *mockContactRepo) *contactService {
	return &contactService{
		contactRepo: repo,
		logger:      discardLogger(),
	}
}

func submitTestContact(t *testing.T, svc *contactService, email string) *models.Contact {
	t.Helper()

	contact, err := svc.SubmitPublic(context.Background(), &SubmitContactRequest{
		FirstName:   "A",
		LastName:    "B",
		Email:       email,
		Subject:     "Product question",
		Message:     "Do you ship cartridge filters to Tabriz?",
		GDPRConsent: true,
	})
	if err != nil {
		t.Fatalf("SubmitPublic() error = %v", err)
	}
	return contact
}

func TestContactService_SubmitPublic(t *testing.T) {
	repo := &mockContactRepo{}
	svc := newContactService(repo)

	contact := submitTestContact(t, svc, "A@Example.COM")

	if contact.Status != models.ContactStatusNew {
		t.Errorf("Status = %q, want %q", contact.Status, models.ContactStatusNew)
	}
	if contact.Email != "a@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", contact.Email)
	}
	if !contact.GDPRConsent {
		t.Error("GDPRConsent must be persisted")
	}
}

func TestContactService_SubmitPublic_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitContactRequest)
	}{
		{
			name:   "missing consent",
			mutate: func(r *SubmitContactRequest) { r.GDPRConsent = false },
		},
		{
			name:   "malformed email",
			mutate: func(r *SubmitContactRequest) { r.Email = "not-an-email" },
		},
		{
			name:   "empty first name",
			mutate: func(r *SubmitContactRequest) { r.FirstName = "  " },
		},
		{
			name:   "empty message",
			mutate: func(r *SubmitContactRequest) { r.Message = "" },
		},
		{
			name:   "message too long",
			mutate: func(r *SubmitContactRequest) { r.Message = strings.Repeat("x", 5001) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockContactRepo{}
			svc := newContactService(repo)

			req := &SubmitContactRequest{
				FirstName:   "A",
				LastName:    "B",
				Email:       "a@b.com",
				Subject:     "Hello",
				Message:     "A valid message.",
				GDPRConsent: true,
			}
			tt.mutate(req)

			_, err := svc.SubmitPublic(context.Background(), req)

			var appErr *models.AppError
			if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
				t.Fatalf("SubmitPublic() error = %v, want VALIDATION_ERROR", err)
			}
			if len(repo.contacts) != 0 {
				t.Error("no contact may be created on validation failure")
			}
		})
	}
}

func TestContactService_UpdateStatus(t *testing.T) {
	repo := &mockContactRepo{}
	svc := newContactService(repo)
	contact := submitTestContact(t, svc, "a@b.com")

	updated, err := svc.UpdateStatus(context.Background(), contact.ID, models.ContactStatusResolved)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != models.ContactStatusResolved {
		t.Errorf("Status = %q, want resolved", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), contact.ID, "archived"); err == nil {
		t.Error("UpdateStatus(unrecognized) must be rejected")
	}

	if _, err := svc.UpdateStatus(context.Background(), 42, models.ContactStatusClosed); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateStatus(unknown id) error = %v, want ErrNotFound", err)
	}
}

func TestContactService_List(t *testing.T) {
	repo := &mockContactRepo{}
	svc := newContactService(repo)

	for i := 0; i < 25; i++ {
		submitTestContact(t, svc, fmt.Sprintf("user%d@example.com", i))
	}

	result, err := svc.List(context.Background(), models.ListQuery{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Data) != 10 {
		t.Errorf("List() returned %d contacts, want 10", len(result.Data))
	}
	if result.Pagination.TotalItems != 25 || result.Pagination.TotalPages != 3 {
		t.Errorf("Pagination = %+v, want 25 items over 3 pages", result.Pagination)
	}

	result, err = svc.List(context.Background(), models.ListQuery{Search: "user7@", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].Email != "user7@example.com" {
		t.Errorf("List(search) = %d contacts, want the single match", len(result.Data))
	}
}
