package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/parsfiltration/site-backend/internal/models"
)

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse exported CSV: %v", err)
	}
	return records
}

func TestExportService_ColumnOrder(t *testing.T) {
	repo := &mockQuoteRepo{}
	quoteSvc := newQuoteService(repo, nil)
	svc := NewExportService(repo, discardLogger())

	quote := submitTestQuote(t, quoteSvc, "a@b.com")
	if _, err := quoteSvc.UpdateStatus(context.Background(), quote.ID, models.QuoteStatusQuoted); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}
	if _, err := quoteSvc.RecordQuoteAmount(context.Background(), quote.ID, 12500.5); err != nil {
		t.Fatalf("setup amount failed: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportQuotes(context.Background(), models.ListQuery{}, &buf); err != nil {
		t.Fatalf("ExportQuotes() error = %v", err)
	}

	records := readCSV(t, &buf)
	wantHeader := []string{
		"quote_number", "contact_name", "email", "company",
		"status", "quote_amount", "industry", "assigned_to", "created_at",
	}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	if len(records) != 2 {
		t.Fatalf("export produced %d rows, want 2", len(records))
	}

	row := records[1]
	stored := repo.find(quote.ID)
	if row[0] != stored.QuoteNumber {
		t.Errorf("quote_number = %q, want %q", row[0], stored.QuoteNumber)
	}
	if row[1] != "A B" || row[2] != "a@b.com" {
		t.Errorf("contact columns = %q, %q, want \"A B\", \"a@b.com\"", row[1], row[2])
	}
	if row[4] != models.QuoteStatusQuoted {
		t.Errorf("status = %q, want quoted", row[4])
	}
	if row[5] != "12500.50" {
		t.Errorf("quote_amount = %q, want \"12500.50\"", row[5])
	}
	if _, err := time.Parse(time.RFC3339, row[8]); err != nil {
		t.Errorf("created_at %q is not RFC3339: %v", row[8], err)
	}
}

func TestExportService_AmountEmptyBeforeQuoted(t *testing.T) {
	repo := &mockQuoteRepo{}
	quoteSvc := newQuoteService(repo, nil)
	svc := NewExportService(repo, discardLogger())

	submitTestQuote(t, quoteSvc, "a@b.com")

	var buf bytes.Buffer
	if err := svc.ExportQuotes(context.Background(), models.ListQuery{}, &buf); err != nil {
		t.Fatalf("ExportQuotes() error = %v", err)
	}

	records := readCSV(t, &buf)
	if records[1][5] != "" {
		t.Errorf("quote_amount = %q, want empty for a pending quote", records[1][5])
	}
	if records[1][7] != "" {
		t.Errorf("assigned_to = %q, want empty when never assigned", records[1][7])
	}
}

func TestExportService_StatusFilterIgnoresPagination(t *testing.T) {
	repo := &mockQuoteRepo{}
	quoteSvc := newQuoteService(repo, nil)
	svc := NewExportService(repo, discardLogger())

	for i := 0; i < 30; i++ {
		submitTestQuote(t, quoteSvc, fmt.Sprintf("user%d@example.com", i))
	}
	approved := submitTestQuote(t, quoteSvc, "vip@example.com")
	if _, err := quoteSvc.UpdateStatus(context.Background(), approved.ID, models.QuoteStatusApproved); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}

	// Page and limit in the query must not truncate the export
	var buf bytes.Buffer
	if err := svc.ExportQuotes(context.Background(), models.ListQuery{Page: 1, Limit: 5}, &buf); err != nil {
		t.Fatalf("ExportQuotes() error = %v", err)
	}
	if got := len(readCSV(t, &buf)); got != 32 {
		t.Errorf("unfiltered export has %d records, want 32 (header + 31 rows)", got)
	}

	buf.Reset()
	if err := svc.ExportQuotes(context.Background(), models.ListQuery{Status: models.QuoteStatusPending}, &buf); err != nil {
		t.Fatalf("ExportQuotes() error = %v", err)
	}
	records := readCSV(t, &buf)
	if len(records) != 31 {
		t.Fatalf("filtered export has %d records, want 31 (header + 30 pending)", len(records))
	}
	for _, row := range records[1:] {
		if row[4] != models.QuoteStatusPending {
			t.Errorf("filtered export contains status %q", row[4])
		}
	}
}

func TestExportService_EmptyResultStillHasHeader(t *testing.T) {
	svc := NewExportService(&mockQuoteRepo{}, discardLogger())

	var buf bytes.Buffer
	if err := svc.ExportQuotes(context.Background(), models.ListQuery{}, &buf); err != nil {
		t.Fatalf("ExportQuotes() error = %v", err)
	}

	records := readCSV(t, &buf)
	if len(records) != 1 {
		t.Errorf("empty export has %d records, want header only", len(records))
	}
}

func TestExportService_Filename(t *testing.T) {
	svc := NewExportService(&mockQuoteRepo{}, discardLogger())

	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	if got := svc.Filename(now); got != "quotes-2026-08-29.csv" {
		t.Errorf("Filename() = %q, want quotes-2026-08-29.csv", got)
	}
}
