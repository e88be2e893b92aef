package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"travenion/internal/domain"
)

// DayRepo defines the persistence operations for PlanDays.
type DayRepo interface {
	// Create inserts a new day and returns the persisted record.
	Create(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error)

	// GetByID retrieves a single day by its UUID primary key.
	// Returns domain.ErrNotFound if no day with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.PlanDay, error)

	// ListByPlanID returns all days of a plan ordered by day_index ascending.
	ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanDay, error)

	// Update overwrites the mutable fields of a day.
	// Returns domain.ErrNotFound if no day with that ID exists.
	Update(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error)

	// Delete removes a day by ID; its attractions go with it via cascade.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

const dayColumns = `id, plan_id, day_index, city, date, transportation, notes, created_at, updated_at`

func (r *pgDayRepo) Create(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error) {
	const q = `
		INSERT INTO plan_days (plan_id, day_index, city, date, transportation, notes)
		VALUES (@plan_id, @day_index, @city, @date, @transportation, @notes)
		RETURNING ` + dayColumns

	args := pgx.NamedArgs{
		"plan_id":        day.PlanID,
		"day_index":      day.DayIndex,
		"city":           day.City,
		"date":           day.Date, // nil becomes NULL
		"transportation": day.Transportation,
		"notes":          day.Notes,
	}

	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("repo.DayRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.PlanDay, error) {
	const q = `SELECT ` + dayColumns + ` FROM plan_days WHERE id = @id`

	result, err := scanDay(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("repo.DayRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanDay, error) {
	const q = `
		SELECT ` + dayColumns + `
		FROM plan_days
		WHERE plan_id = @plan_id
		ORDER BY day_index ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByPlanID: %w", err)
	}
	defer rows.Close()

	var days []domain.PlanDay
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListByPlanID: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByPlanID: rows: %w", err)
	}
	return days, nil
}

func (r *pgDayRepo) Update(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error) {
	const q = `
		UPDATE plan_days
		SET day_index      = @day_index,
		    city           = @city,
		    date           = @date,
		    transportation = @transportation,
		    notes          = @notes,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + dayColumns

	args := pgx.NamedArgs{
		"id":             day.ID,
		"day_index":      day.DayIndex,
		"city":           day.City,
		"date":           day.Date,
		"transportation": day.Transportation,
		"notes":          day.Notes,
	}

	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("repo.DayRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM plan_days WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanDay maps a single database row into a domain.PlanDay.
// It handles the UUID and nullable date conversions.
func scanDay(s scanner) (domain.PlanDay, error) {
	var (
		d      domain.PlanDay
		id     pgtype.UUID
		planID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &planID, &d.DayIndex, &d.City, &date, &d.Transportation, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PlanDay{}, domain.ErrNotFound
		}
		return domain.PlanDay{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.PlanID = uuid.UUID(planID.Bytes)
	if date.Valid {
		t := date.Time
		d.Date = &t
	}
	return d, nil
}
