package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"taakra-backend/internal/repository"
	"taakra-backend/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SuccessResponse is the uniform success envelope
type SuccessResponse struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondData sends a success response
func respondData(w http.ResponseWriter, statusCode int, data interface{}) {
	respondJSON(w, statusCode, SuccessResponse{Success: true, Data: data})
}

// respondList sends a success response carrying a collection and its size
func respondList(w http.ResponseWriter, count int, data interface{}) {
	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Count: &count, Data: data})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is logged and surfaced as a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrCompetitionNotFound),
		errors.Is(err, repository.ErrRegistrationNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrAlreadyApproved),
		errors.Is(err, repository.ErrCategoryExists),
		errors.Is(err, repository.ErrCategoryInUse),
		errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadySupport),
		errors.Is(err, services.ErrInvalidDayNumber),
		errors.Is(err, services.ErrInvalidDateRange):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		respondError(w, err.Error(), http.StatusUnauthorized)
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// validateID rejects malformed entity ids before they reach the
// datastore, where they would fail uuid encoding with an opaque error
func validateID(w http.ResponseWriter, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, "Invalid id format", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeBody parses a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
