package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/repo"
	"travenion/internal/storage"
)

// FileService implements plan file uploads and downloads. The bytes go to the
// object store; only metadata is kept in Postgres. An upload writes the object
// first and the row second, so a failed row insert cleans the object up; a
// delete removes the object first and tolerates a missing one.
type FileService struct {
	plans planAuthorizer
	files repo.FileRepo
	store storage.ObjectStore
}

// NewFileService constructs a FileService backed by the provided authorizer,
// repo, and object store.
func NewFileService(plans planAuthorizer, files repo.FileRepo, store storage.ObjectStore) *FileService {
	return &FileService{plans: plans, files: files, store: store}
}

// Upload stores the file contents and creates the metadata row.
// Requires write access to the plan.
func (s *FileService) Upload(ctx context.Context, planID, userID uuid.UUID, filename, contentType string, size int64, r io.Reader) (domain.PlanFile, error) {
	if _, err := s.plans.Authorize(ctx, planID, userID, true); err != nil {
		return domain.PlanFile{}, err
	}
	if strings.TrimSpace(filename) == "" {
		return domain.PlanFile{}, fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}

	// Object keys are plan-scoped and unique per upload; the original
	// filename survives only in the metadata row.
	key := fmt.Sprintf("plans/%s/%s%s", planID, uuid.New(), path.Ext(filename))

	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return domain.PlanFile{}, fmt.Errorf("service.FileService.Upload: %w", err)
	}

	file, err := s.files.Create(ctx, domain.PlanFile{
		PlanID:      planID,
		Filename:    filename,
		ObjectKey:   key,
		Size:        size,
		ContentType: contentType,
	})
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return domain.PlanFile{}, fmt.Errorf("service.FileService.Upload: %w", err)
	}
	return file, nil
}

// ListByPlanID returns a plan's files, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *FileService) ListByPlanID(ctx context.Context, planID, userID uuid.UUID) ([]domain.PlanFile, error) {
	if _, err := s.plans.Authorize(ctx, planID, userID, false); err != nil {
		return nil, err
	}

	files, err := s.files.ListByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("service.FileService.ListByPlanID: %w", err)
	}
	if files == nil {
		return []domain.PlanFile{}, nil
	}
	return files, nil
}

// Download returns the file metadata and an open reader over its contents.
// The caller must close the reader.
func (s *FileService) Download(ctx context.Context, planID, fileID, userID uuid.UUID) (domain.PlanFile, io.ReadCloser, error) {
	if _, err := s.plans.Authorize(ctx, planID, userID, false); err != nil {
		return domain.PlanFile{}, nil, err
	}

	file, err := s.files.GetByID(ctx, planID, fileID)
	if err != nil {
		return domain.PlanFile{}, nil, fmt.Errorf("service.FileService.Download: %w", err)
	}

	r, err := s.store.Get(ctx, file.ObjectKey)
	if err != nil {
		return domain.PlanFile{}, nil, fmt.Errorf("service.FileService.Download: %w", err)
	}
	return file, r, nil
}

// UpdateDescription changes a file's description. Requires write access.
func (s *FileService) UpdateDescription(ctx context.Context, planID, fileID, userID uuid.UUID, description string) (domain.PlanFile, error) {
	if _, err := s.plans.Authorize(ctx, planID, userID, true); err != nil {
		return domain.PlanFile{}, err
	}

	file, err := s.files.UpdateDescription(ctx, planID, fileID, description)
	if err != nil {
		return domain.PlanFile{}, fmt.Errorf("service.FileService.UpdateDescription: %w", err)
	}
	return file, nil
}

// Delete removes the stored object and the metadata row. Requires write access.
func (s *FileService) Delete(ctx context.Context, planID, fileID, userID uuid.UUID) error {
	if _, err := s.plans.Authorize(ctx, planID, userID, true); err != nil {
		return err
	}

	file, err := s.files.GetByID(ctx, planID, fileID)
	if err != nil {
		return fmt.Errorf("service.FileService.Delete: %w", err)
	}

	if err := s.store.Delete(ctx, file.ObjectKey); err != nil {
		return fmt.Errorf("service.FileService.Delete: %w", err)
	}
	if err := s.files.Delete(ctx, planID, fileID); err != nil {
		return fmt.Errorf("service.FileService.Delete: %w", err)
	}
	return nil
}
