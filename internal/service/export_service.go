package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/repository"
)

// exportHeader is the fixed, documented column order of the quotes export
var exportHeader = []string{
	"quote_number",
	"contact_name",
	"email",
	"company",
	"status",
	"quote_amount",
	"industry",
	"assigned_to",
	"created_at",
}

// ExportService serializes a filtered quote list to CSV
type ExportService interface {
	// ExportQuotes streams every quote matching the query (page and limit
	// are ignored) to w as CSV rows.
	ExportQuotes(ctx context.Context, query models.ListQuery, w io.Writer) error
	// Filename returns the download filename for an export generated now
	Filename(now time.Time) string
}

type exportService struct {
	quoteRepo repository.QuoteRepository
	logger    *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(quoteRepo repository.QuoteRepository, logger *slog.Logger) ExportService {
	return &exportService{
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// ExportQuotes applies the same filter, search and sort semantics as the
// list operation but bypasses pagination. Rows are streamed rather than
// materialized.
func (s *exportService) ExportQuotes(ctx context.Context, query models.ListQuery, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	count := 0
	err := s.quoteRepo.ForEachMatching(ctx, query, func(quote *models.QuoteWithContact) error {
		if err := writer.Write(exportRow(quote)); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}

	s.logger.Info("quotes exported",
		slog.Int("rows", count),
		slog.String("status", query.Status),
	)

	return nil
}

// Filename returns the conventional download name, e.g. quotes-2026-08-29.csv
func (s *exportService) Filename(now time.Time) string {
	return fmt.Sprintf("quotes-%s.csv", now.Format("2006-01-02"))
}

// exportRow renders one quote in the fixed column order. The amount cell is
// empty unless the status gives it meaning; a never-set assignee is empty.
func exportRow(quote *models.QuoteWithContact) []string {
	company := ""
	if quote.Contact.Company != nil {
		company = *quote.Contact.Company
	}

	amount := ""
	if quote.HasQuoteAmount() {
		amount = strconv.FormatFloat(*quote.QuoteAmount, 'f', 2, 64)
	}

	assignedTo := ""
	if quote.AssignedToUserID != nil {
		assignedTo = strconv.FormatInt(*quote.AssignedToUserID, 10)
	}

	return []string{
		quote.QuoteNumber,
		quote.Contact.FullName(),
		quote.Contact.Email,
		company,
		quote.Status,
		amount,
		quote.Industry,
		assignedTo,
		quote.CreatedAt.UTC().Format(time.RFC3339),
	}
}
