package services

import (
	"context"

	"taakra-backend/internal/models"
	"taakra-backend/internal/repository"
)

const statsTopCompetitions = 10

// AdminService handles administrative operations
type AdminService struct {
	users         *repository.UserRepository
	competitions  *repository.CompetitionRepository
	registrations *repository.RegistrationRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	users *repository.UserRepository,
	competitions *repository.CompetitionRepository,
	registrations *repository.RegistrationRepository,
) *AdminService {
	return &AdminService{
		users:         users,
		competitions:  competitions,
		registrations: registrations,
	}
}

// Stats aggregates platform-wide totals. Per-competition counts are
// recomputed from ledger cardinality, not the denormalized counter.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCompetitions, err := s.competitions.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalRegistrations, err := s.registrations.Count(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.registrations.TopCompetitions(ctx, statsTopCompetitions)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:                 totalUsers,
		TotalCompetitions:          totalCompetitions,
		TotalRegistrations:         totalRegistrations,
		RegistrationsByCompetition: top,
	}, nil
}

// Users lists all users, newest first
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// PromoteSupport grants the support role to the user with the given email
func (s *AdminService) PromoteSupport(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleSupport {
		return nil, ErrAlreadySupport
	}
	return s.users.UpdateRole(ctx, user.ID, models.RoleSupport)
}
