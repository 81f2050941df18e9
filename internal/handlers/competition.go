package handlers

import (
	"net/http"
	"time"

	"taakra-backend/internal/models"
	"taakra-backend/internal/repository"
	"taakra-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CompetitionHandler handles competition HTTP requests
type CompetitionHandler struct {
	competitionService *services.CompetitionService
}

// NewCompetitionHandler creates a new competition handler
func NewCompetitionHandler(competitionService *services.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService}
}

type competitionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	Venue       string    `json:"venue"`
	Building    string    `json:"building"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	DayNumber   int       `json:"day_number"`
}

func (req *competitionRequest) validate(w http.ResponseWriter) bool {
	if req.Title == "" || req.CategoryID == "" || req.Venue == "" {
		respondError(w, "Title, category and venue are required", http.StatusBadRequest)
		return false
	}
	if !validateID(w, req.CategoryID) {
		return false
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		respondError(w, "Start and end dates are required", http.StatusBadRequest)
		return false
	}
	return true
}

func (req *competitionRequest) toModel() *models.Competition {
	return &models.Competition{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Venue:       req.Venue,
		Building:    req.Building,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		DayNumber:   req.DayNumber,
	}
}

func parseCompetitionFilter(r *http.Request) repository.CompetitionFilter {
	q := r.URL.Query()
	filter := repository.CompetitionFilter{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
		Sort:       q.Get("sort"),
	}
	if v := q.Get("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := q.Get("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndDate = &t
		}
	}
	return filter
}

// List handles GET /api/competitions
func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.competitionService.List(r.Context(), parseCompetitionFilter(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(competitions), competitions)
}

// Calendar handles GET /api/competitions/calendar
func (h *CompetitionHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.competitionService.Calendar(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondList(w, len(competitions), competitions)
}

// Get handles GET /api/competitions/{id}
func (h *CompetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validateID(w, id) {
		return
	}

	competition, err := h.competitionService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, competition)
}

// Create handles POST /api/competitions
func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req competitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	competition, err := h.competitionService.Create(r.Context(), req.toModel())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("competition_id", competition.ID).Str("title", competition.Title).Msg("Competition created")
	respondData(w, http.StatusCreated, competition)
}

// Update handles PUT /api/competitions/{id}
func (h *CompetitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validateID(w, id) {
		return
	}

	var req competitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	c := req.toModel()
	c.ID = id

	competition, err := h.competitionService.Update(r.Context(), c)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, competition)
}

// Delete handles DELETE /api/competitions/{id}
func (h *CompetitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validateID(w, id) {
		return
	}

	if err := h.competitionService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}
