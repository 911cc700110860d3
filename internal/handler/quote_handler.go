package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/service"
)

// QuoteHandler handles quote request HTTP endpoints
type QuoteHandler struct {
	quoteService  service.QuoteService
	exportService service.ExportService
	logger        *slog.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService service.QuoteService, exportService service.ExportService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService:  quoteService,
		exportService: exportService,
		logger:        logger,
	}
}

// Submit handles POST /api/quote-requests (public)
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitQuoteRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	quote, err := h.quoteService.SubmitPublic(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, quote)
}

// List handles GET /api/admin/quote-requests
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.quoteService.List(r.Context(), parseListQuery(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, result.Data, result.Pagination)
}

// Stats handles GET /api/admin/quote-requests/stats
func (h *QuoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quoteService.Stats(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, stats)
}

// Export handles GET /api/admin/quote-requests/export. It applies the same
// filter and search semantics as List but ignores pagination and streams
// CSV rows.
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.exportService.Filename(time.Now())+`"`)

	if err := h.exportService.ExportQuotes(r.Context(), query, w); err != nil {
		// Headers may already be sent; log instead of re-responding
		h.logger.Error("export failed", slog.String("error", err.Error()))
	}
}

// Get handles GET /api/admin/quote-requests/{id}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote request ID")
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, quote)
}

// Update handles PATCH /api/admin/quote-requests/{id}
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote request ID")
		return
	}

	var req service.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, quote)
}

// UpdateStatus handles PATCH /api/admin/quote-requests/{id}/status
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote request ID")
		return
	}

	var req service.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	quote, err := h.quoteService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, quote)
}

// Assign handles PATCH /api/admin/quote-requests/{id}/assign
func (h *QuoteHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote request ID")
		return
	}

	var req service.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	quote, err := h.quoteService.Assign(r.Context(), id, req.UserID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, quote)
}

// RecordAmount handles PATCH /api/admin/quote-requests/{id}/amount
func (h *QuoteHandler) RecordAmount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote request ID")
		return
	}

	var req service.QuoteAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	quote, err := h.quoteService.RecordQuoteAmount(r.Context(), id, req.Amount)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, quote)
}

// Delete handles DELETE /api/admin/quote-requests/{id}
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote request ID")
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, nil)
}

// parseIDParam extracts the numeric {id} route parameter
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseListQuery reads the shared list query shape from URL parameters
func parseListQuery(r *http.Request) models.ListQuery {
	params := r.URL.Query()

	page, _ := strconv.Atoi(params.Get("page"))
	limit, _ := strconv.Atoi(params.Get("limit"))

	return models.ListQuery{
		Search:    params.Get("search"),
		Status:    params.Get("status"),
		SortBy:    params.Get("sort_by"),
		SortOrder: params.Get("sort_order"),
		Page:      page,
		Limit:     limit,
	}
}
