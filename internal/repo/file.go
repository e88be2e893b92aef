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

// FileRepo defines the persistence operations for PlanFile metadata rows.
// All single-read and write operations are scoped by planID to enforce ownership.
type FileRepo interface {
	// Create inserts a new file row and returns the persisted record.
	Create(ctx context.Context, f domain.PlanFile) (domain.PlanFile, error)

	// GetByID retrieves a single file by its UUID, scoped to the given planID.
	// Returns domain.ErrNotFound if no file with that ID exists under that plan.
	GetByID(ctx context.Context, planID, fileID uuid.UUID) (domain.PlanFile, error)

	// ListByPlanID returns all files of a plan ordered by created_at descending.
	ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanFile, error)

	// UpdateDescription overwrites the description, scoped to the given planID.
	// Returns domain.ErrNotFound if no file with that ID exists under that plan.
	UpdateDescription(ctx context.Context, planID, fileID uuid.UUID, description string) (domain.PlanFile, error)

	// Delete removes a file row by ID, scoped to the given planID.
	// Returns domain.ErrNotFound if no file with that ID exists under that plan.
	Delete(ctx context.Context, planID, fileID uuid.UUID) error
}

// pgFileRepo is the Postgres implementation of FileRepo.
type pgFileRepo struct {
	db db
}

// NewFileRepo constructs a FileRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewFileRepo(db db) FileRepo {
	return &pgFileRepo{db: db}
}

const fileColumns = `id, plan_id, filename, object_key, size, content_type, description, uploaded_at, created_at, updated_at`

func (r *pgFileRepo) Create(ctx context.Context, f domain.PlanFile) (domain.PlanFile, error) {
	const q = `
		INSERT INTO plan_files (plan_id, filename, object_key, size, content_type, description)
		VALUES (@plan_id, @filename, @object_key, @size, @content_type, @description)
		RETURNING ` + fileColumns

	args := pgx.NamedArgs{
		"plan_id":      f.PlanID,
		"filename":     f.Filename,
		"object_key":   f.ObjectKey,
		"size":         f.Size,
		"content_type": f.ContentType,
		"description":  f.Description,
	}

	result, err := scanFile(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PlanFile{}, fmt.Errorf("repo.FileRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgFileRepo) GetByID(ctx context.Context, planID, fileID uuid.UUID) (domain.PlanFile, error) {
	const q = `SELECT ` + fileColumns + ` FROM plan_files WHERE id = @id AND plan_id = @plan_id`

	result, err := scanFile(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": fileID, "plan_id": planID}))
	if err != nil {
		return domain.PlanFile{}, fmt.Errorf("repo.FileRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgFileRepo) ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanFile, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM plan_files
		WHERE plan_id = @plan_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"plan_id": planID})
	if err != nil {
		return nil, fmt.Errorf("repo.FileRepo.ListByPlanID: %w", err)
	}
	defer rows.Close()

	var files []domain.PlanFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FileRepo.ListByPlanID: scan: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FileRepo.ListByPlanID: rows: %w", err)
	}
	return files, nil
}

func (r *pgFileRepo) UpdateDescription(ctx context.Context, planID, fileID uuid.UUID, description string) (domain.PlanFile, error) {
	const q = `
		UPDATE plan_files
		SET description = @description,
		    updated_at  = now()
		WHERE id = @id AND plan_id = @plan_id
		RETURNING ` + fileColumns

	args := pgx.NamedArgs{
		"id":          fileID,
		"plan_id":     planID,
		"description": description,
	}

	result, err := scanFile(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PlanFile{}, fmt.Errorf("repo.FileRepo.UpdateDescription: %w", err)
	}
	return result, nil
}

func (r *pgFileRepo) Delete(ctx context.Context, planID, fileID uuid.UUID) error {
	const q = `DELETE FROM plan_files WHERE id = @id AND plan_id = @plan_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": fileID, "plan_id": planID})
	if err != nil {
		return fmt.Errorf("repo.FileRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FileRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanFile maps a single database row into a domain.PlanFile.
func scanFile(s scanner) (domain.PlanFile, error) {
	var (
		f      domain.PlanFile
		id     pgtype.UUID
		planID pgtype.UUID
	)

	err := s.Scan(&id, &planID, &f.Filename, &f.ObjectKey, &f.Size,
		&f.ContentType, &f.Description, &f.UploadedAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PlanFile{}, domain.ErrNotFound
		}
		return domain.PlanFile{}, err
	}

	f.ID = uuid.UUID(id.Bytes)
	f.PlanID = uuid.UUID(planID.Bytes)
	return f, nil
}
