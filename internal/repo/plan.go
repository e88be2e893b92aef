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

// PlanRepo defines the persistence operations for TravelPlans.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type PlanRepo interface {
	// Create inserts a new plan and returns the persisted record.
	Create(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error)

	// GetByID retrieves a single plan by its UUID primary key.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TravelPlan, error)

	// GetByShareToken retrieves a published plan by its public token.
	// Returns domain.ErrNotFound if no plan carries that token.
	GetByShareToken(ctx context.Context, token uuid.UUID) (domain.TravelPlan, error)

	// ListByOwner returns one page of the owner's plans ordered by created_at
	// descending, plus the total count.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TravelPlan, int64, error)

	// ListSharedWith returns all plans shared with the given user, ordered by
	// the share date descending.
	ListSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.TravelPlan, error)

	// Update overwrites title, description, and default map.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	Update(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error)

	// SetShareToken sets or clears (nil) the public share token.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	SetShareToken(ctx context.Context, id uuid.UUID, token *uuid.UUID) (domain.TravelPlan, error)

	// Delete removes a plan by ID; days, attractions, files, and shares go
	// with it via ON DELETE CASCADE. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

const planColumns = `id, owner_id, title, description, default_map, share_token, created_at, updated_at`

func (r *pgPlanRepo) Create(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	const q = `
		INSERT INTO travel_plans (owner_id, title, description, default_map)
		VALUES (@owner_id, @title, @description, @default_map)
		RETURNING ` + planColumns

	args := pgx.NamedArgs{
		"owner_id":    plan.OwnerID,
		"title":       plan.Title,
		"description": plan.Description,
		"default_map": plan.DefaultMap,
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TravelPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM travel_plans WHERE id = @id`

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) GetByShareToken(ctx context.Context, token uuid.UUID) (domain.TravelPlan, error) {
	const q = `SELECT ` + planColumns + ` FROM travel_plans WHERE share_token = @token`

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("repo.PlanRepo.GetByShareToken: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TravelPlan, int64, error) {
	const countQ = `SELECT count(*) FROM travel_plans WHERE owner_id = @owner_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"owner_id": ownerID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListByOwner: count: %w", err)
	}

	const q = `
		SELECT ` + planColumns + `
		FROM travel_plans
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"owner_id": ownerID,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	plans, err := collectPlans(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PlanRepo.ListByOwner: %w", err)
	}
	return plans, total, nil
}

func (r *pgPlanRepo) ListSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.TravelPlan, error) {
	const q = `
		SELECT p.id, p.owner_id, p.title, p.description, p.default_map, p.share_token, p.created_at, p.updated_at
		FROM travel_plans p
		JOIN plan_shares s ON s.plan_id = p.id
		WHERE s.shared_with_user_id = @user_id
		ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListSharedWith: %w", err)
	}
	defer rows.Close()

	plans, err := collectPlans(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.ListSharedWith: %w", err)
	}
	return plans, nil
}

func (r *pgPlanRepo) Update(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	const q = `
		UPDATE travel_plans
		SET title       = @title,
		    description = @description,
		    default_map = @default_map,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + planColumns

	args := pgx.NamedArgs{
		"id":          plan.ID,
		"title":       plan.Title,
		"description": plan.Description,
		"default_map": plan.DefaultMap,
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("repo.PlanRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) SetShareToken(ctx context.Context, id uuid.UUID, token *uuid.UUID) (domain.TravelPlan, error) {
	const q = `
		UPDATE travel_plans
		SET share_token = @token,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + planColumns

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "token": token}))
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("repo.PlanRepo.SetShareToken: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM travel_plans WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectPlans drains rows into a slice using scanPlan.
func collectPlans(rows pgx.Rows) ([]domain.TravelPlan, error) {
	var plans []domain.TravelPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return plans, nil
}

// scanPlan maps a single database row into a domain.TravelPlan.
// It handles the UUID and nullable share_token conversions.
func scanPlan(s scanner) (domain.TravelPlan, error) {
	var (
		p     domain.TravelPlan
		id    pgtype.UUID
		owner pgtype.UUID
		token pgtype.UUID
	)

	err := s.Scan(&id, &owner, &p.Title, &p.Description, &p.DefaultMap, &token, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelPlan{}, domain.ErrNotFound
		}
		return domain.TravelPlan{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.OwnerID = uuid.UUID(owner.Bytes)
	if token.Valid {
		t := uuid.UUID(token.Bytes)
		p.ShareToken = &t
	}
	return p, nil
}
