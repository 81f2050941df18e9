package handlers

import (
	"net/http"

	"taakra-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

// Users handles GET /api/admin/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.Users(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(users), users)
}

type addSupportRequest struct {
	Email string `json:"email"`
}

// AddSupport handles POST /api/admin/support
func (h *AdminHandler) AddSupport(w http.ResponseWriter, r *http.Request) {
	var req addSupportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, "Email is required", http.StatusBadRequest)
		return
	}

	user, err := h.adminService.PromoteSupport(r.Context(), req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("Support member added")
	respondData(w, http.StatusOK, user)
}
