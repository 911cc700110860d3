package handler

import (
	"encoding/json"
	"net/http"

	"github.com/parsfiltration/site-backend/internal/models"
)

// Response is the uniform reply envelope used by every endpoint
type Response struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Error      *ErrorDetail       `json:"error,omitempty"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// If encoding fails, we can't do much at this point
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes a standard error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondSuccess writes a successful response with 200 OK
func respondSuccess(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// respondCreated writes a successful response with 201 Created
func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// respondList writes a successful list response with its pagination envelope
func respondList(w http.ResponseWriter, data interface{}, pagination models.Pagination) {
	respondJSON(w, http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: &pagination,
	})
}
