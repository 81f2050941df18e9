package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taakra-backend/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompetitionFilter narrows down the competition listing
type CompetitionFilter struct {
	CategoryID string
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	Sort       string
}

// CompetitionRepository handles database operations for competitions
type CompetitionRepository struct {
	db *pgxpool.Pool
}

// NewCompetitionRepository creates a new competition repository
func NewCompetitionRepository(db *pgxpool.Pool) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

const competitionColumns = `c.id, c.title, c.description, c.category_id, cat.name,
	c.venue, c.building, c.start_date, c.end_date, c.day_number,
	c.registrations_count, c.created_at, c.updated_at`

func scanCompetition(row pgx.Row) (*models.Competition, error) {
	var c models.Competition
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.CategoryID, &c.CategoryName,
		&c.Venue, &c.Building, &c.StartDate, &c.EndDate, &c.DayNumber,
		&c.RegistrationsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to scan competition: %w", err)
	}
	c.IsUpcoming = c.StartDate.After(time.Now())
	return &c, nil
}

// Create creates a new competition
func (r *CompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	query := `
		INSERT INTO competitions (id, title, description, category_id, venue, building, start_date, end_date, day_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING registrations_count, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Title, c.Description, c.CategoryID, c.Venue, c.Building, c.StartDate, c.EndDate, c.DayNumber,
	).Scan(&c.RegistrationsCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create competition: %w", err)
	}
	c.IsUpcoming = c.StartDate.After(time.Now())
	return nil
}

// GetByID retrieves a competition with its category name
func (r *CompetitionRepository) GetByID(ctx context.Context, id string) (*models.Competition, error) {
	query := `
		SELECT ` + competitionColumns + `
		FROM competitions c
		JOIN categories cat ON cat.id = c.category_id
		WHERE c.id = $1
	`
	return scanCompetition(r.db.QueryRow(ctx, query, id))
}

// List retrieves competitions matching the filter
func (r *CompetitionRepository) List(ctx context.Context, filter CompetitionFilter) ([]models.Competition, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.CategoryID != "" {
		where = append(where, "c.category_id::text = "+arg(filter.CategoryID))
	}
	if filter.Search != "" {
		where = append(where, "c.title ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.StartDate != nil {
		where = append(where, "c.start_date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "c.start_date <= "+arg(*filter.EndDate))
	}

	query := `
		SELECT ` + competitionColumns + `
		FROM competitions c
		JOIN categories cat ON cat.id = c.category_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch filter.Sort {
	case "most-registrations":
		query += " ORDER BY c.registrations_count DESC"
	case "trending":
		query += " ORDER BY c.updated_at DESC"
	case "new":
		query += " ORDER BY c.created_at DESC"
	default:
		query += " ORDER BY c.start_date ASC"
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	defer rows.Close()

	var competitions []models.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		competitions = append(competitions, *c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", rows.Err())
	}
	return competitions, nil
}

// Update updates a competition
func (r *CompetitionRepository) Update(ctx context.Context, c *models.Competition) error {
	query := `
		UPDATE competitions
		SET title = $1, description = $2, category_id = $3, venue = $4, building = $5,
		    start_date = $6, end_date = $7, day_number = $8, updated_at = now()
		WHERE id = $9
		RETURNING registrations_count, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.Title, c.Description, c.CategoryID, c.Venue, c.Building,
		c.StartDate, c.EndDate, c.DayNumber, c.ID,
	).Scan(&c.RegistrationsCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCompetitionNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update competition: %w", err)
	}
	c.IsUpcoming = c.StartDate.After(time.Now())
	return nil
}

// Delete deletes a competition and its registrations
func (r *CompetitionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM registrations WHERE competition_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete registrations: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete competition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompetitionNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of competitions
func (r *CompetitionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM competitions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count competitions: %w", err)
	}
	return n, nil
}
