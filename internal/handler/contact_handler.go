package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/parsfiltration/site-backend/internal/service"
)

// ContactHandler handles contact HTTP endpoints
type ContactHandler struct {
	contactService service.ContactService
	logger         *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// Submit handles POST /api/contacts (public)
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitContactRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	contact, err := h.contactService.SubmitPublic(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, contact)
}

// List handles GET /api/admin/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.contactService.List(r.Context(), parseListQuery(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, result.Data, result.Pagination)
}

// Get handles GET /api/admin/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid contact ID")
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, contact)
}

// UpdateStatus handles PATCH /api/admin/contacts/{id}/status
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid contact ID")
		return
	}

	var req service.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	contact, err := h.contactService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, contact)
}
