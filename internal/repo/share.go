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

// ShareRepo defines the persistence operations for PlanShares.
type ShareRepo interface {
	// Create inserts a new share and returns the persisted record.
	// Returns domain.ErrConflict if the plan is already shared with that user.
	Create(ctx context.Context, share domain.PlanShare) (domain.PlanShare, error)

	// GetByPlanAndUser retrieves the share granting userID access to planID.
	// Returns domain.ErrNotFound if no such share exists.
	GetByPlanAndUser(ctx context.Context, planID, userID uuid.UUID) (domain.PlanShare, error)

	// ListByPlanID returns all shares of a plan with the SharedWith and
	// SharedBy users populated, ordered by share date ascending.
	ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanShare, error)

	// Delete removes the share granting userID access to planID.
	// Returns domain.ErrNotFound if no such share exists.
	Delete(ctx context.Context, planID, userID uuid.UUID) error
}

// pgShareRepo is the Postgres implementation of ShareRepo.
type pgShareRepo struct {
	db db
}

// NewShareRepo constructs a ShareRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewShareRepo(db db) ShareRepo {
	return &pgShareRepo{db: db}
}

func (r *pgShareRepo) Create(ctx context.Context, share domain.PlanShare) (domain.PlanShare, error) {
	const q = `
		INSERT INTO plan_shares (plan_id, shared_with_user_id, shared_by_user_id, permission)
		VALUES (@plan_id, @shared_with, @shared_by, @permission)
		RETURNING id, plan_id, shared_with_user_id, shared_by_user_id, permission, created_at`

	args := pgx.NamedArgs{
		"plan_id":     share.PlanID,
		"shared_with": share.SharedWithUserID,
		"shared_by":   share.SharedByUserID,
		"permission":  share.Permission,
	}

	result, err := scanShare(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.PlanShare{}, fmt.Errorf("repo.ShareRepo.Create: %w", domain.ErrConflict)
		}
		return domain.PlanShare{}, fmt.Errorf("repo.ShareRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgShareRepo) GetByPlanAndUser(ctx context.Context, planID, userID uuid.UUID) (domain.PlanShare, error) {
	const q = `
		SELECT id, plan_id, shared_with_user_id, shared_by_user_id, permission, created_at
		FROM plan_shares
		WHERE plan_id = @plan_id AND shared_with_user_id = @user_id`

	result, err := scanShare(r.db.QueryRow(ctx, q, pgx.NamedArgs{"plan_id": planID, "user_id": userID}))
	if err != nil {
		return domain.PlanShare{}, fmt.Errorf("repo.ShareRepo.GetByPlanAndUser: %w", err)
	}
	return result, nil
}

func (r *pgShareRepo) ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanShare, error) {
	const q = `
		SELECT s.id, s.plan_id, s.shared_with_user_id, s.shared_by_user_id, s.permission, s.created_at,
		       w.username, w.email, w.nickname,
		       b.username
		FROM plan_shares s
		JOIN users w ON w.id = s.shared_with_user_id
		JOIN users b ON b.id = s.shared_by_user_id
		WHERE s.plan_id = @plan_id
		ORDER BY s.created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("repo.ShareRepo.ListByPlanID: %w", err)
	}
	defer rows.Close()

	var shares []domain.PlanShare
	for rows.Next() {
		var (
			s    domain.PlanShare
			id   pgtype.UUID
			plan pgtype.UUID
			with pgtype.UUID
			by   pgtype.UUID
		)
		err := rows.Scan(&id, &plan, &with, &by, &s.Permission, &s.CreatedAt,
			&s.SharedWith.Username, &s.SharedWith.Email, &s.SharedWith.Nickname,
			&s.SharedBy.Username)
		if err != nil {
			return nil, fmt.Errorf("repo.ShareRepo.ListByPlanID: scan: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		s.PlanID = uuid.UUID(plan.Bytes)
		s.SharedWithUserID = uuid.UUID(with.Bytes)
		s.SharedByUserID = uuid.UUID(by.Bytes)
		s.SharedWith.ID = s.SharedWithUserID
		s.SharedBy.ID = s.SharedByUserID
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ShareRepo.ListByPlanID: rows: %w", err)
	}
	return shares, nil
}

func (r *pgShareRepo) Delete(ctx context.Context, planID, userID uuid.UUID) error {
	const q = `DELETE FROM plan_shares WHERE plan_id = @plan_id AND shared_with_user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"plan_id": planID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.ShareRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ShareRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanShare maps a single plan_shares row (without user joins) into a domain.PlanShare.
func scanShare(s scanner) (domain.PlanShare, error) {
	var (
		sh   domain.PlanShare
		id   pgtype.UUID
		plan pgtype.UUID
		with pgtype.UUID
		by   pgtype.UUID
	)

	err := s.Scan(&id, &plan, &with, &by, &sh.Permission, &sh.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PlanShare{}, domain.ErrNotFound
		}
		return domain.PlanShare{}, err
	}

	sh.ID = uuid.UUID(id.Bytes)
	sh.PlanID = uuid.UUID(plan.Bytes)
	sh.SharedWithUserID = uuid.UUID(with.Bytes)
	sh.SharedByUserID = uuid.UUID(by.Bytes)
	return sh, nil
}
