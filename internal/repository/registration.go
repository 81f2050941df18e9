package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taakra-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationRepository handles database operations for the registration
// ledger. Every write that touches the denormalized registrations_count
// on competitions happens in the same transaction as the ledger write,
// and the counter update itself is a single atomic statement.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a pending registration and increments the competition
// counter. Duplicate (user, competition) pairs are rejected by the unique
// constraint, unknown competitions by the foreign key.
func (r *RegistrationRepository) Create(ctx context.Context, userID, competitionID string) (*models.Registration, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reg := &models.Registration{
		ID:            uuid.New().String(),
		UserID:        userID,
		CompetitionID: competitionID,
		Status:        models.StatusPending,
	}

	query := `
		INSERT INTO registrations (id, user_id, competition_id)
		VALUES ($1, $2, $3)
		RETURNING status, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, reg.ID, userID, competitionID).
		Scan(&reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return nil, ErrAlreadyRegistered
			case pgerrcode.ForeignKeyViolation:
				switch pgErr.ConstraintName {
				case "registrations_competition_id_fkey":
					return nil, ErrCompetitionNotFound
				case "registrations_user_id_fkey":
					return nil, ErrUserNotFound
				}
			}
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE competitions SET registrations_count = registrations_count + 1, updated_at = now() WHERE id = $1`,
		competitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to increment registrations count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return reg, nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	query := `
		SELECT id, user_id, competition_id, status, created_at, updated_at
		FROM registrations WHERE id = $1
	`
	var reg models.Registration
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reg.ID, &reg.UserID, &reg.CompetitionID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

// Delete removes a registration and decrements the competition counter,
// floored at zero so a double decrement can never drive it negative.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var competitionID string
	err = tx.QueryRow(ctx, `DELETE FROM registrations WHERE id = $1 RETURNING competition_id`, id).
		Scan(&competitionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE competitions SET registrations_count = greatest(registrations_count - 1, 0), updated_at = now() WHERE id = $1`,
		competitionID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement registrations count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Approve transitions a registration from pending to approved. Approving
// an already approved registration is an error, not a no-op.
func (r *RegistrationRepository) Approve(ctx context.Context, id string) (*models.Registration, error) {
	query := `
		UPDATE registrations SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING id, user_id, competition_id, status, created_at, updated_at
	`
	var reg models.Registration
	err := r.db.QueryRow(ctx, query, models.StatusApproved, id, models.StatusPending).Scan(
		&reg.ID, &reg.UserID, &reg.CompetitionID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err == nil {
		return &reg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to approve registration: %w", err)
	}

	// No pending row matched: distinguish missing from already approved.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM registrations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check registration existence: %w", err)
	}
	if exists {
		return nil, ErrAlreadyApproved
	}
	return nil, ErrRegistrationNotFound
}

const registrationListColumns = `r.id, r.user_id, r.competition_id, r.status, r.created_at, r.updated_at,
	u.id, u.name, u.email, u.role,
	c.id, c.title, c.description, c.category_id, cat.name,
	c.venue, c.building, c.start_date, c.end_date, c.day_number,
	c.registrations_count, c.created_at, c.updated_at`

func scanRegistrationRow(rows pgx.Rows) (*models.Registration, error) {
	var (
		reg  models.Registration
		user models.UserSummary
		comp models.Competition
	)
	err := rows.Scan(
		&reg.ID, &reg.UserID, &reg.CompetitionID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
		&user.ID, &user.Name, &user.Email, &user.Role,
		&comp.ID, &comp.Title, &comp.Description, &comp.CategoryID, &comp.CategoryName,
		&comp.Venue, &comp.Building, &comp.StartDate, &comp.EndDate, &comp.DayNumber,
		&comp.RegistrationsCount, &comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}
	comp.IsUpcoming = comp.StartDate.After(time.Now())
	reg.User = &user
	reg.Competition = &comp
	return &reg, nil
}

// ListByUser retrieves a user's registrations with populated competition
// and category summaries, newest first
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	query := `
		SELECT ` + registrationListColumns + `
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN competitions c ON c.id = r.competition_id
		JOIN categories cat ON cat.id = c.category_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`
	return r.queryList(ctx, query, userID)
}

// List retrieves registrations filtered by competition and/or status,
// newest first
func (r *RegistrationRepository) List(ctx context.Context, competitionID string, status models.RegistrationStatus) ([]models.Registration, error) {
	query := `
		SELECT ` + registrationListColumns + `
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN competitions c ON c.id = r.competition_id
		JOIN categories cat ON cat.id = c.category_id
		WHERE ($1 = '' OR r.competition_id::text = $1)
		  AND ($2 = '' OR r.status = $2)
		ORDER BY r.created_at DESC
	`
	return r.queryList(ctx, query, competitionID, string(status))
}

func (r *RegistrationRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]models.Registration, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		reg, err := scanRegistrationRow(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", rows.Err())
	}
	return regs, nil
}

// Count returns the number of registrations
func (r *RegistrationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM registrations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return n, nil
}

// TopCompetitions recomputes per-competition registration counts from
// ledger cardinality, ignoring the denormalized counter
func (r *RegistrationRepository) TopCompetitions(ctx context.Context, limit int) ([]models.CompetitionCount, error) {
	query := `
		SELECT c.id, c.title, count(r.id)
		FROM registrations r
		JOIN competitions c ON c.id = r.competition_id
		GROUP BY c.id, c.title
		ORDER BY count(r.id) DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate registrations: %w", err)
	}
	defer rows.Close()

	var counts []models.CompetitionCount
	for rows.Next() {
		var c models.CompetitionCount
		if err := rows.Scan(&c.CompetitionID, &c.Title, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan competition count: %w", err)
		}
		counts = append(counts, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to aggregate registrations: %w", rows.Err())
	}
	return counts, nil
}
