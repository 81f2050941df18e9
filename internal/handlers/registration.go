package handlers

import (
	"net/http"

	"taakra-backend/internal/middleware"
	"taakra-backend/internal/models"
	"taakra-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RegistrationHandler handles registration HTTP requests
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

type createRegistrationRequest struct {
	Competition string `json:"competition"`
}

// Create handles POST /api/registrations
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Competition == "" {
		respondError(w, "Competition is required", http.StatusBadRequest)
		return
	}
	if !validateID(w, req.Competition) {
		return
	}

	claims := middleware.GetClaims(r.Context())

	registration, err := h.registrationService.Register(r.Context(), claims.UserID, req.Competition)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("registration_id", registration.ID).
		Str("user_id", claims.UserID).
		Str("competition_id", req.Competition).
		Msg("Registration created")
	respondData(w, http.StatusCreated, registration)
}

// My handles GET /api/registrations/my
func (h *RegistrationHandler) My(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	registrations, err := h.registrationService.MyRegistrations(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(registrations), registrations)
}

// List handles GET /api/registrations
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.RegistrationStatus(q.Get("status"))
	if status != "" && status != models.StatusPending && status != models.StatusApproved {
		respondError(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	registrations, err := h.registrationService.AllRegistrations(r.Context(), q.Get("competition"), status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(registrations), registrations)
}

// Approve handles PUT /api/registrations/{id}/approve
func (h *RegistrationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validateID(w, id) {
		return
	}

	registration, err := h.registrationService.Approve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("registration_id", registration.ID).Msg("Registration approved")
	respondData(w, http.StatusOK, registration)
}

// Delete handles DELETE /api/registrations/{id}
func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validateID(w, id) {
		return
	}

	claims := middleware.GetClaims(r.Context())

	err := h.registrationService.Unregister(r.Context(), id, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("registration_id", id).Str("user_id", claims.UserID).Msg("Registration deleted")
	respondData(w, http.StatusOK, struct{}{})
}
