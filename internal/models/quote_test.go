package models

import "testing"

var allQuoteStatuses = []string{
	QuoteStatusPending,
	QuoteStatusInProgress,
	QuoteStatusQuoted,
	QuoteStatusApproved,
	QuoteStatusRejected,
	QuoteStatusCancelled,
}

func TestQuoteRequest_CanTransitionTo(t *testing.T) {
	// Every (from, to) pair: accepted iff from is non-terminal and to is a
	// recognized status.
	for _, from := range allQuoteStatuses {
		for _, to := range allQuoteStatuses {
			q := &QuoteRequest{Status: from}
			got := q.CanTransitionTo(to)
			want := !IsTerminalQuoteStatus(from)
			if got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestQuoteRequest_CanTransitionTo_TerminalRejectsSelf(t *testing.T) {
	for _, status := range []string{QuoteStatusApproved, QuoteStatusRejected, QuoteStatusCancelled} {
		q := &QuoteRequest{Status: status}
		if q.CanTransitionTo(status) {
			t.Errorf("terminal status %s must reject transition to itself", status)
		}
	}
}

func TestQuoteRequest_CanTransitionTo_UnrecognizedTarget(t *testing.T) {
	q := &QuoteRequest{Status: QuoteStatusPending}
	if q.CanTransitionTo("shipped") {
		t.Error("unrecognized target status must be rejected")
	}
}

func TestQuoteRequest_HasQuoteAmount(t *testing.T) {
	amount := 12500.0

	tests := []struct {
		name   string
		status string
		amount *float64
		want   bool
	}{
		{"quoted with amount", QuoteStatusQuoted, &amount, true},
		{"approved with amount", QuoteStatusApproved, &amount, true},
		{"pending with amount is not meaningful", QuoteStatusPending, &amount, false},
		{"rejected with amount is not meaningful", QuoteStatusRejected, &amount, false},
		{"quoted without amount", QuoteStatusQuoted, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &QuoteRequest{Status: tt.status, QuoteAmount: tt.amount}
			if got := q.HasQuoteAmount(); got != tt.want {
				t.Errorf("HasQuoteAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidQuoteStatus(t *testing.T) {
	for _, status := range allQuoteStatuses {
		if !IsValidQuoteStatus(status) {
			t.Errorf("IsValidQuoteStatus(%s) = false, want true", status)
		}
	}
	for _, status := range []string{"", "PENDING", "done", "new"} {
		if IsValidQuoteStatus(status) {
			t.Errorf("IsValidQuoteStatus(%s) = true, want false", status)
		}
	}
}
