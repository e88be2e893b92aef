package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travenion/internal/domain"
	"travenion/internal/service"
	"travenion/internal/storage"
)

// ---- Upload ----------------------------------------------------------------

func TestFileService_Upload_OK(t *testing.T) {
	planID := uuid.New()
	store := storage.NewMemStore()
	var row domain.PlanFile
	files := &mockFileRepo{
		create: func(_ context.Context, f domain.PlanFile) (domain.PlanFile, error) {
			row = f
			row.ID = uuid.New()
			return row, nil
		},
	}
	svc := service.NewFileService(allowAll(), files, store)

	got, err := svc.Upload(context.Background(), planID, uuid.New(),
		"tickets.pdf", "application/pdf", 5, strings.NewReader("%PDF-"))

	require.NoError(t, err)
	assert.Equal(t, "tickets.pdf", got.Filename)
	assert.True(t, strings.HasPrefix(row.ObjectKey, "plans/"+planID.String()+"/"))
	assert.True(t, strings.HasSuffix(row.ObjectKey, ".pdf"))
	assert.Equal(t, 1, store.Len())
}

func TestFileService_Upload_RowFailureCleansObject(t *testing.T) {
	store := storage.NewMemStore()
	files := &mockFileRepo{
		create: func(_ context.Context, _ domain.PlanFile) (domain.PlanFile, error) {
			return domain.PlanFile{}, domain.ErrNotFound
		},
	}
	svc := service.NewFileService(allowAll(), files, store)

	_, err := svc.Upload(context.Background(), uuid.New(), uuid.New(),
		"tickets.pdf", "application/pdf", 5, strings.NewReader("%PDF-"))

	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestFileService_Upload_FilenameRequired(t *testing.T) {
	svc := service.NewFileService(allowAll(), &mockFileRepo{}, storage.NewMemStore())

	_, err := svc.Upload(context.Background(), uuid.New(), uuid.New(),
		"   ", "application/pdf", 5, strings.NewReader("%PDF-"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFileService_Upload_ReadOnlyShareCannotUpload(t *testing.T) {
	svc := service.NewFileService(readOnly(), &mockFileRepo{}, storage.NewMemStore())

	_, err := svc.Upload(context.Background(), uuid.New(), uuid.New(),
		"tickets.pdf", "application/pdf", 5, strings.NewReader("%PDF-"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Download --------------------------------------------------------------

func TestFileService_Download_OK(t *testing.T) {
	planID, fileID := uuid.New(), uuid.New()
	store := storage.NewMemStore()
	require.NoError(t, store.Put(context.Background(), "plans/x/doc.txt", strings.NewReader("itinerary"), 9, "text/plain"))

	files := &mockFileRepo{
		getByID: func(_ context.Context, pid, fid uuid.UUID) (domain.PlanFile, error) {
			assert.Equal(t, planID, pid)
			assert.Equal(t, fileID, fid)
			return domain.PlanFile{ID: fid, PlanID: pid, Filename: "doc.txt", ObjectKey: "plans/x/doc.txt"}, nil
		},
	}
	svc := service.NewFileService(allowAll(), files, store)

	meta, r, err := svc.Download(context.Background(), planID, fileID, uuid.New())

	require.NoError(t, err)
	defer r.Close()
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "itinerary", string(body))
	assert.Equal(t, "doc.txt", meta.Filename)
}

func TestFileService_Download_UnknownFile(t *testing.T) {
	files := &mockFileRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.PlanFile, error) {
			return domain.PlanFile{}, domain.ErrNotFound
		},
	}
	svc := service.NewFileService(allowAll(), files, storage.NewMemStore())

	_, _, err := svc.Download(context.Background(), uuid.New(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete ----------------------------------------------------------------

func TestFileService_Delete_RemovesObjectAndRow(t *testing.T) {
	planID, fileID := uuid.New(), uuid.New()
	store := storage.NewMemStore()
	require.NoError(t, store.Put(context.Background(), "plans/x/doc.txt", strings.NewReader("x"), 1, "text/plain"))

	var rowDeleted bool
	files := &mockFileRepo{
		getByID: func(_ context.Context, pid, fid uuid.UUID) (domain.PlanFile, error) {
			return domain.PlanFile{ID: fid, PlanID: pid, ObjectKey: "plans/x/doc.txt"}, nil
		},
		delete: func(_ context.Context, _, _ uuid.UUID) error {
			rowDeleted = true
			return nil
		},
	}
	svc := service.NewFileService(allowAll(), files, store)

	err := svc.Delete(context.Background(), planID, fileID, uuid.New())

	require.NoError(t, err)
	assert.True(t, rowDeleted)
	assert.Equal(t, 0, store.Len())
}

// ---- UpdateDescription -----------------------------------------------------

func TestFileService_UpdateDescription_OK(t *testing.T) {
	planID, fileID := uuid.New(), uuid.New()
	files := &mockFileRepo{
		updateDescription: func(_ context.Context, pid, fid uuid.UUID, description string) (domain.PlanFile, error) {
			return domain.PlanFile{ID: fid, PlanID: pid, Description: description}, nil
		},
	}
	svc := service.NewFileService(allowAll(), files, storage.NewMemStore())

	got, err := svc.UpdateDescription(context.Background(), planID, fileID, uuid.New(), "hotel booking")

	require.NoError(t, err)
	assert.Equal(t, "hotel booking", got.Description)
}
