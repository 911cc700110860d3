package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/parsfiltration/site-backend/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockQuoteRepo is an in-memory QuoteRepository for testing
type mockQuoteRepo struct {
	quotes        []*models.QuoteWithContact
	nextID        int64
	nextContactID int64
}

func (m *mockQuoteRepo) CreateFromSubmission(ctx context.Context, contact *models.Contact, quote *models.QuoteRequest) error {
	// Reuse an existing contact with the same email
	for _, q := range m.quotes {
		if strings.EqualFold(q.Contact.Email, contact.Email) {
			*contact = q.Contact
			break
		}
	}
	if contact.ID == 0 {
		m.nextContactID++
		contact.ID = m.nextContactID
		contact.CreatedAt = time.Now()
	}

	m.nextID++
	quote.ID = m.nextID
	quote.QuoteNumber = fmt.Sprintf("QT-TEST-%04d", m.nextID)
	quote.ContactID = contact.ID
	quote.Status = models.QuoteStatusPending
	quote.CreatedAt = time.Now()
	quote.UpdatedAt = quote.CreatedAt

	m.quotes = append(m.quotes, &models.QuoteWithContact{QuoteRequest: *quote, Contact: *contact})
	return nil
}

func (m *mockQuoteRepo) find(id int64) *models.QuoteWithContact {
	for _, q := range m.quotes {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func (m *mockQuoteRepo) GetByID(ctx context.Context, id int64) (*models.QuoteRequest, error) {
	if q := m.find(id); q != nil {
		quote := q.QuoteRequest
		return &quote, nil
	}
	return nil, models.ErrNotFoundWithMsg("quote request not found")
}

func (m *mockQuoteRepo) GetWithContact(ctx context.Context, id int64) (*models.QuoteWithContact, error) {
	if q := m.find(id); q != nil {
		quote := *q
		return &quote, nil
	}
	return nil, models.ErrNotFoundWithMsg("quote request not found")
}

func (m *mockQuoteRepo) matching(query models.ListQuery) []*models.QuoteWithContact {
	filtered := []*models.QuoteWithContact{}
	search := strings.ToLower(query.Search)
	for _, q := range m.quotes {
		if query.Status != "" && q.Status != query.Status {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(strings.Join([]string{
				q.Contact.FirstName, q.Contact.LastName, q.Contact.FullName(),
				q.Contact.Email, q.QuoteNumber,
			}, "\n"))
			if q.Contact.Company != nil {
				haystack += "\n" + strings.ToLower(*q.Contact.Company)
			}
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		filtered = append(filtered, q)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if query.SortOrder == models.SortAsc {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered
}

func (m *mockQuoteRepo) List(ctx context.Context, query models.ListQuery) ([]*models.QuoteWithContact, int64, error) {
	query.Normalize()
	filtered := m.matching(query)
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

func (m *mockQuoteRepo) ForEachMatching(ctx context.Context, query models.ListQuery, fn func(*models.QuoteWithContact) error) error {
	query.Normalize()
	for _, q := range m.matching(query) {
		if err := fn(q); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockQuoteRepo) UpdateFields(ctx context.Context, quote *models.QuoteRequest) error {
	q := m.find(quote.ID)
	if q == nil {
		return models.ErrNotFoundWithMsg("quote request not found")
	}
	q.Industry = quote.Industry
	q.ApplicationArea = quote.ApplicationArea
	q.RequiredCapacity = quote.RequiredCapacity
	q.Budget = quote.Budget
	q.Timeline = quote.Timeline
	q.Notes = quote.Notes
	q.UpdatedAt = time.Now()
	return nil
}

func (m *mockQuoteRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	q := m.find(id)
	if q == nil || q.Status != from {
		return false, nil
	}
	q.Status = to
	q.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockQuoteRepo) Assign(ctx context.Context, id int64, userID *int64) error {
	q := m.find(id)
	if q == nil {
		return models.ErrNotFoundWithMsg("quote request not found")
	}
	q.AssignedToUserID = userID
	q.UpdatedAt = time.Now()
	return nil
}

func (m *mockQuoteRepo) SetQuoteAmount(ctx context.Context, id int64, amount float64) error {
	q := m.find(id)
	if q == nil {
		return models.ErrNotFoundWithMsg("quote request not found")
	}
	q.QuoteAmount = &amount
	q.UpdatedAt = time.Now()
	return nil
}

func (m *mockQuoteRepo) Delete(ctx context.Context, id int64) error {
	for i, q := range m.quotes {
		if q.ID == id {
			m.quotes = append(m.quotes[:i], m.quotes[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("quote request not found")
}

func (m *mockQuoteRepo) Stats(ctx context.Context) (*models.QuoteStats, error) {
	stats := &models.QuoteStats{}
	for _, q := range m.quotes {
		stats.Total++
		switch q.Status {
		case models.QuoteStatusPending:
			stats.Pending++
		case models.QuoteStatusInProgress:
			stats.InProgress++
		case models.QuoteStatusQuoted:
			stats.Quoted++
		case models.QuoteStatusApproved:
			stats.Approved++
		case models.QuoteStatusRejected:
			stats.Rejected++
		case models.QuoteStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

// mockUserRepo is an in-memory UserRepository for testing
type mockUserRepo struct {
	users map[int64]*models.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = map[int64]*models.User{}
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, models.ErrNotFoundWithMsg("user not found")
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("user not found")
}

func newQuoteService(repo *mockQuoteRepo, users *mockUserRepo) *quoteService {
	if users == nil {
		users = &mockUserRepo{}
	}
	return &quoteService{
		quoteRepo: repo,
		userRepo:  users,
		logger:    discardLogger(),
	}
}

func submitTestQuote(t *testing.T, svc *quoteService, email string) *models.QuoteWithContact {
	t.Helper()

	quote, err := svc.SubmitPublic(context.Background(), &SubmitQuoteRequest{
		SubmitContactRequest: SubmitContactRequest{
			FirstName:   "A",
			LastName:    "B",
			Email:       email,
			Subject:     "Quote inquiry",
			Message:     "Please quote a filtration unit.",
			GDPRConsent: true,
		},
		Industry:         "water treatment",
		ApplicationArea:  models.ApplicationIndustrial,
		RequiredCapacity: "500 m3/day",
		Timeline:         "Q4",
	})
	if err != nil {
		t.Fatalf("SubmitPublic() error = %v", err)
	}
	return quote
}

func TestQuoteService_SubmitPublic(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)

	quote := submitTestQuote(t, svc, "a@b.com")

	if quote.Status != models.QuoteStatusPending {
		t.Errorf("Status = %q, want %q", quote.Status, models.QuoteStatusPending)
	}
	if quote.QuoteNumber == "" {
		t.Error("QuoteNumber must be assigned at creation")
	}
	if quote.Contact.ID == 0 {
		t.Error("contact must be created")
	}

	// Round trip: get returns the stored record
	got, err := svc.GetByID(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.QuoteNumber != quote.QuoteNumber || got.Industry != "water treatment" || got.ContactID != quote.Contact.ID {
		t.Errorf("GetByID() = %+v, want the submitted record", got.QuoteRequest)
	}
}

func TestQuoteService_SubmitPublic_GDPRRequired(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)

	_, err := svc.SubmitPublic(context.Background(), &SubmitQuoteRequest{
		SubmitContactRequest: SubmitContactRequest{
			FirstName:   "A",
			LastName:    "B",
			Email:       "a@b.com",
			Subject:     "Quote inquiry",
			Message:     "Please quote.",
			GDPRConsent: false,
		},
		Industry: "water treatment",
	})

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("SubmitPublic() error = %v, want VALIDATION_ERROR", err)
	}
	if len(repo.quotes) != 0 {
		t.Error("no record may be created when consent is refused")
	}
}

func TestQuoteService_SubmitPublic_ReusesContactByEmail(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)

	first := submitTestQuote(t, svc, "a@b.com")
	second := submitTestQuote(t, svc, "A@B.COM")

	if first.Contact.ID != second.Contact.ID {
		t.Errorf("second submission created contact %d, want reuse of %d", second.Contact.ID, first.Contact.ID)
	}
}

func TestQuoteService_UpdateStatus_Transitions(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)
	quote := submitTestQuote(t, svc, "a@b.com")

	// pending -> approved is a direct legal transition
	updated, err := svc.UpdateStatus(context.Background(), quote.ID, models.QuoteStatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus(approved) error = %v", err)
	}
	if updated.Status != models.QuoteStatusApproved {
		t.Errorf("Status = %q, want approved", updated.Status)
	}

	// approved is terminal: moving back to pending must fail
	_, err = svc.UpdateStatus(context.Background(), quote.ID, models.QuoteStatusPending)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("UpdateStatus(pending) error = %v, want ErrInvalidTransition", err)
	}

	// and the record is unchanged
	got, _ := svc.GetByID(context.Background(), quote.ID)
	if got.Status != models.QuoteStatusApproved {
		t.Errorf("Status after rejected transition = %q, want approved", got.Status)
	}
}

func TestQuoteService_UpdateStatus_TerminalMatrix(t *testing.T) {
	for _, terminal := range []string{models.QuoteStatusApproved, models.QuoteStatusRejected, models.QuoteStatusCancelled} {
		for _, target := range []string{
			models.QuoteStatusPending, models.QuoteStatusInProgress, models.QuoteStatusQuoted,
			models.QuoteStatusApproved, models.QuoteStatusRejected, models.QuoteStatusCancelled,
		} {
			repo := &mockQuoteRepo{}
			svc := newQuoteService(repo, nil)
			quote := submitTestQuote(t, svc, "a@b.com")

			if _, err := svc.UpdateStatus(context.Background(), quote.ID, terminal); err != nil {
				t.Fatalf("setup transition to %s failed: %v", terminal, err)
			}

			_, err := svc.UpdateStatus(context.Background(), quote.ID, target)
			if !errors.Is(err, models.ErrInvalidTransition) {
				t.Errorf("UpdateStatus(%s -> %s) error = %v, want ErrInvalidTransition", terminal, target, err)
			}
		}
	}
}

func TestQuoteService_UpdateStatus_Unknown(t *testing.T) {
	svc := newQuoteService(&mockQuoteRepo{}, nil)

	_, err := svc.UpdateStatus(context.Background(), 42, models.QuoteStatusApproved)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateStatus(unknown id) error = %v, want ErrNotFound", err)
	}

	repo := &mockQuoteRepo{}
	svc = newQuoteService(repo, nil)
	quote := submitTestQuote(t, svc, "a@b.com")

	_, err = svc.UpdateStatus(context.Background(), quote.ID, "shipped")
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("UpdateStatus(unrecognized) error = %v, want ErrInvalidTransition", err)
	}
}

func TestQuoteService_Assign(t *testing.T) {
	repo := &mockQuoteRepo{}
	users := &mockUserRepo{users: map[int64]*models.User{
		7: {ID: 7, Username: "sales", IsActive: true},
	}}
	svc := newQuoteService(repo, users)
	quote := submitTestQuote(t, svc, "a@b.com")

	userID := int64(7)
	updated, err := svc.Assign(context.Background(), quote.ID, &userID)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if updated.AssignedToUserID == nil || *updated.AssignedToUserID != 7 {
		t.Errorf("AssignedToUserID = %v, want 7", updated.AssignedToUserID)
	}
	if updated.Status != models.QuoteStatusPending {
		t.Errorf("assignment must not change status, got %q", updated.Status)
	}

	// Unknown user is rejected
	missing := int64(99)
	if _, err := svc.Assign(context.Background(), quote.ID, &missing); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Assign(unknown user) error = %v, want ErrNotFound", err)
	}

	// Terminal records reject assignment
	if _, err := svc.UpdateStatus(context.Background(), quote.ID, models.QuoteStatusCancelled); err != nil {
		t.Fatalf("setup cancel failed: %v", err)
	}
	if _, err := svc.Assign(context.Background(), quote.ID, &userID); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("Assign(terminal) error = %v, want ErrInvalidTransition", err)
	}
}

func TestQuoteService_RecordQuoteAmount(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)
	quote := submitTestQuote(t, svc, "a@b.com")

	if _, err := svc.RecordQuoteAmount(context.Background(), quote.ID, 0); err == nil {
		t.Error("RecordQuoteAmount(0) must be rejected")
	}

	if _, err := svc.UpdateStatus(context.Background(), quote.ID, models.QuoteStatusQuoted); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}

	updated, err := svc.RecordQuoteAmount(context.Background(), quote.ID, 12500)
	if err != nil {
		t.Fatalf("RecordQuoteAmount() error = %v", err)
	}
	if !updated.HasQuoteAmount() || *updated.QuoteAmount != 12500 {
		t.Errorf("QuoteAmount = %v, want 12500", updated.QuoteAmount)
	}
}

func TestQuoteService_Update_PartialFields(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)
	quote := submitTestQuote(t, svc, "a@b.com")

	notes := "called back, awaiting site measurements"
	updated, err := svc.Update(context.Background(), quote.ID, &UpdateQuoteRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Notes != notes {
		t.Errorf("Notes = %q, want %q", updated.Notes, notes)
	}
	// Untouched fields keep their values; protected fields are untouched
	if updated.Industry != "water treatment" {
		t.Errorf("Industry changed to %q", updated.Industry)
	}
	if updated.QuoteNumber != quote.QuoteNumber {
		t.Errorf("QuoteNumber changed to %q", updated.QuoteNumber)
	}
	if updated.Status != models.QuoteStatusPending {
		t.Errorf("Status changed to %q", updated.Status)
	}
}

func TestQuoteService_StatsFreshness(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)

	first := submitTestQuote(t, svc, "a@b.com")
	submitTestQuote(t, svc, "c@d.com")

	if _, err := svc.UpdateStatus(context.Background(), first.ID, models.QuoteStatusApproved); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	// Stats must equal a fresh scan of all quotes
	fresh, _ := repo.Stats(context.Background())
	if *stats != *fresh {
		t.Errorf("Stats() = %+v, want fresh scan %+v", stats, fresh)
	}
	if stats.Total != 2 || stats.Approved != 1 || stats.Pending != 1 {
		t.Errorf("Stats() = %+v, want total 2, approved 1, pending 1", stats)
	}

	if err := svc.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	stats, _ = svc.Stats(context.Background())
	if stats.Total != 1 || stats.Approved != 0 {
		t.Errorf("Stats() after delete = %+v, want total 1, approved 0", stats)
	}
}

func TestQuoteService_List_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		totalQuotes int
		page        int
		limit       int
		wantCount   int
		wantItems   int64
		wantPages   int
	}{
		{
			name:        "first page with default limit",
			totalQuotes: 50,
			page:        1,
			limit:       20,
			wantCount:   20,
			wantItems:   50,
			wantPages:   3,
		},
		{
			name:        "last page is partial",
			totalQuotes: 50,
			page:        3,
			limit:       20,
			wantCount:   10,
			wantItems:   50,
			wantPages:   3,
		},
		{
			name:        "page beyond last returns empty with true totals",
			totalQuotes: 50,
			page:        10,
			limit:       20,
			wantCount:   0,
			wantItems:   50,
			wantPages:   3,
		},
		{
			name:        "no records reports a single empty page",
			totalQuotes: 0,
			page:        1,
			limit:       20,
			wantCount:   0,
			wantItems:   0,
			wantPages:   1,
		},
		{
			name:        "zero page defaults to first",
			totalQuotes: 30,
			page:        0,
			limit:       10,
			wantCount:   10,
			wantItems:   30,
			wantPages:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockQuoteRepo{}
			svc := newQuoteService(repo, nil)
			for i := 0; i < tt.totalQuotes; i++ {
				submitTestQuote(t, svc, fmt.Sprintf("user%d@example.com", i))
			}

			result, err := svc.List(context.Background(), models.ListQuery{Page: tt.page, Limit: tt.limit})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}

			if len(result.Data) != tt.wantCount {
				t.Errorf("List() returned %d quotes, want %d", len(result.Data), tt.wantCount)
			}
			if result.Pagination.TotalItems != tt.wantItems {
				t.Errorf("TotalItems = %d, want %d", result.Pagination.TotalItems, tt.wantItems)
			}
			if result.Pagination.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", result.Pagination.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestQuoteService_List_SearchByEmail(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)

	match := submitTestQuote(t, svc, "a@b.com")
	submitTestQuote(t, svc, "other@example.com")

	result, err := svc.List(context.Background(), models.ListQuery{Search: "A@B.COM", Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(result.Data) != 1 {
		t.Fatalf("List(search) returned %d quotes, want 1", len(result.Data))
	}
	if result.Data[0].ID != match.ID {
		t.Errorf("List(search) returned quote %d, want %d", result.Data[0].ID, match.ID)
	}
}

func TestQuoteService_List_DefaultOrderNewestFirst(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := newQuoteService(repo, nil)

	// Seed with explicit timestamps to make ordering deterministic
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		q := submitTestQuote(t, svc, fmt.Sprintf("user%d@example.com", i))
		repo.find(q.ID).CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}

	result, err := svc.List(context.Background(), models.ListQuery{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	for i := 1; i < len(result.Data); i++ {
		if result.Data[i].CreatedAt.After(result.Data[i-1].CreatedAt) {
			t.Fatalf("List() not sorted by createdAt descending: %v before %v",
				result.Data[i-1].CreatedAt, result.Data[i].CreatedAt)
		}
	}
}
