package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/service"
)

// ProductHandler handles product HTTP endpoints
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product models.Product

	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}

	created, err := h.productService.Create(r.Context(), &product)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, created)
}

// List handles GET /api/admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.productService.List(r.Context(), parseListQuery(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, result.Data, result.Pagination)
}

// Get handles GET /api/admin/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, product)
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product ID")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON format")
		return
	}
	product.ID = id

	updated, err := h.productService.Update(r.Context(), &product)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, updated)
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product ID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, nil)
}
