package services

import (
	"context"
	"errors"

	"taakra-backend/internal/models"
	"taakra-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidDayNumber = errors.New("day number must be between 1 and 5")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)

// CompetitionService handles competition business logic
type CompetitionService struct {
	competitions *repository.CompetitionRepository
}

// NewCompetitionService creates a new competition service
func NewCompetitionService(competitions *repository.CompetitionRepository) *CompetitionService {
	return &CompetitionService{competitions: competitions}
}

// List retrieves competitions matching the filter
func (s *CompetitionService) List(ctx context.Context, filter repository.CompetitionFilter) ([]models.Competition, error) {
	return s.competitions.List(ctx, filter)
}

// Calendar retrieves all competitions in start-date order
func (s *CompetitionService) Calendar(ctx context.Context) ([]models.Competition, error) {
	return s.competitions.List(ctx, repository.CompetitionFilter{})
}

// Get retrieves a competition by ID
func (s *CompetitionService) Get(ctx context.Context, id string) (*models.Competition, error) {
	return s.competitions.GetByID(ctx, id)
}

func validateCompetition(c *models.Competition) error {
	if c.DayNumber < 1 || c.DayNumber > 5 {
		return ErrInvalidDayNumber
	}
	if c.EndDate.Before(c.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Create creates a new competition
func (s *CompetitionService) Create(ctx context.Context, c *models.Competition) (*models.Competition, error) {
	c.ID = uuid.New().String()
	if err := validateCompetition(c); err != nil {
		return nil, err
	}
	if err := s.competitions.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update updates a competition
func (s *CompetitionService) Update(ctx context.Context, c *models.Competition) (*models.Competition, error) {
	if err := validateCompetition(c); err != nil {
		return nil, err
	}
	if err := s.competitions.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete deletes a competition
func (s *CompetitionService) Delete(ctx context.Context, id string) error {
	return s.competitions.Delete(ctx, id)
}
