package services

import (
	"context"

	"taakra-backend/internal/models"
)

// registrationStore is the ledger storage contract. The production
// implementation keeps the registration write and the denormalized
// counter update in one transaction.
type registrationStore interface {
	Create(ctx context.Context, userID, competitionID string) (*models.Registration, error)
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (*models.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]models.Registration, error)
	List(ctx context.Context, competitionID string, status models.RegistrationStatus) ([]models.Registration, error)
}

// RegistrationService enforces the registration ledger invariants:
// one registration per (user, competition), a counter that tracks ledger
// cardinality, and pending-to-approved status transitions only.
type RegistrationService struct {
	regs registrationStore
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(regs registrationStore) *RegistrationService {
	return &RegistrationService{regs: regs}
}

// Register creates a pending registration for the user
func (s *RegistrationService) Register(ctx context.Context, userID, competitionID string) (*models.Registration, error) {
	return s.regs.Create(ctx, userID, competitionID)
}

// Unregister removes a registration. Only the owner or an admin may do
// so; the competition counter is reversed as part of the deletion.
func (s *RegistrationService) Unregister(ctx context.Context, registrationID, actorID string, actorRole models.Role) error {
	reg, err := s.regs.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.UserID != actorID && actorRole != models.RoleAdmin {
		return ErrForbidden
	}
	return s.regs.Delete(ctx, registrationID)
}

// Approve transitions a registration to approved. Re-approving an
// already approved registration is a conflict, not a no-op.
func (s *RegistrationService) Approve(ctx context.Context, registrationID string) (*models.Registration, error) {
	return s.regs.Approve(ctx, registrationID)
}

// MyRegistrations lists the caller's registrations, populated
func (s *RegistrationService) MyRegistrations(ctx context.Context, userID string) ([]models.Registration, error) {
	return s.regs.ListByUser(ctx, userID)
}

// AllRegistrations lists registrations filtered by competition and status
func (s *RegistrationService) AllRegistrations(ctx context.Context, competitionID string, status models.RegistrationStatus) ([]models.Registration, error) {
	return s.regs.List(ctx, competitionID, status)
}
