package services

import (
	"context"
	"testing"

	"taakra-backend/internal/models"
	"taakra-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

type fakeRegistrationStore struct {
	byID     map[string]*models.Registration
	created  int
	deleted  []string
	conflict bool
	nextID   string
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{byID: make(map[string]*models.Registration), nextID: "reg-1"}
}

func (s *fakeRegistrationStore) Create(_ context.Context, userID, competitionID string) (*models.Registration, error) {
	if s.conflict {
		return nil, repository.ErrAlreadyRegistered
	}
	s.created++
	reg := &models.Registration{
		ID:            s.nextID,
		UserID:        userID,
		CompetitionID: competitionID,
		Status:        models.StatusPending,
	}
	s.byID[reg.ID] = reg
	return reg, nil
}

func (s *fakeRegistrationStore) GetByID(_ context.Context, id string) (*models.Registration, error) {
	reg, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *fakeRegistrationStore) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return repository.ErrRegistrationNotFound
	}
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeRegistrationStore) Approve(_ context.Context, id string) (*models.Registration, error) {
	reg, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrRegistrationNotFound
	}
	if reg.Status == models.StatusApproved {
		return nil, repository.ErrAlreadyApproved
	}
	reg.Status = models.StatusApproved
	return reg, nil
}

func (s *fakeRegistrationStore) ListByUser(_ context.Context, userID string) ([]models.Registration, error) {
	var out []models.Registration
	for _, reg := range s.byID {
		if reg.UserID == userID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (s *fakeRegistrationStore) List(_ context.Context, competitionID string, status models.RegistrationStatus) ([]models.Registration, error) {
	var out []models.Registration
	for _, reg := range s.byID {
		if competitionID != "" && reg.CompetitionID != competitionID {
			continue
		}
		if status != "" && reg.Status != status {
			continue
		}
		out = append(out, *reg)
	}
	return out, nil
}

func TestRegistrationRegister(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	reg, err := svc.Register(context.Background(), "alice", "comp-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, reg.Status)
	require.Equal(t, 1, store.created)
}

func TestRegistrationRegisterConflict(t *testing.T) {
	store := newFakeRegistrationStore()
	store.conflict = true
	svc := NewRegistrationService(store)

	_, err := svc.Register(context.Background(), "alice", "comp-1")
	require.ErrorIs(t, err, repository.ErrAlreadyRegistered)
}

func TestRegistrationUnregisterOwner(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	reg, err := svc.Register(context.Background(), "alice", "comp-1")
	require.NoError(t, err)

	err = svc.Unregister(context.Background(), reg.ID, "alice", models.RoleUser)
	require.NoError(t, err)
	require.Equal(t, []string{reg.ID}, store.deleted)
}

func TestRegistrationUnregisterForbidden(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	reg, err := svc.Register(context.Background(), "alice", "comp-1")
	require.NoError(t, err)

	err = svc.Unregister(context.Background(), reg.ID, "mallory", models.RoleUser)
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, store.deleted)
}

func TestRegistrationUnregisterAdminOverride(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	reg, err := svc.Register(context.Background(), "alice", "comp-1")
	require.NoError(t, err)

	err = svc.Unregister(context.Background(), reg.ID, "root", models.RoleAdmin)
	require.NoError(t, err)
}

func TestRegistrationUnregisterMissing(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	err := svc.Unregister(context.Background(), "absent", "alice", models.RoleUser)
	require.ErrorIs(t, err, repository.ErrRegistrationNotFound)
}

func TestRegistrationApprove(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	reg, err := svc.Register(context.Background(), "alice", "comp-1")
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), reg.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, approved.Status)

	// Re-approving is a conflict, not a no-op.
	_, err = svc.Approve(context.Background(), reg.ID)
	require.ErrorIs(t, err, repository.ErrAlreadyApproved)
}

func TestRegistrationListFilters(t *testing.T) {
	store := newFakeRegistrationStore()
	svc := NewRegistrationService(store)

	store.nextID = "reg-1"
	_, err := svc.Register(context.Background(), "alice", "comp-1")
	require.NoError(t, err)
	store.nextID = "reg-2"
	_, err = svc.Register(context.Background(), "bob", "comp-2")
	require.NoError(t, err)

	mine, err := svc.MyRegistrations(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "comp-1", mine[0].CompetitionID)

	all, err := svc.AllRegistrations(context.Background(), "", models.StatusPending)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.AllRegistrations(context.Background(), "comp-2", "")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
}
