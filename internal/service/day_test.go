package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travenion/internal/domain"
	"travenion/internal/service"
)

// ---- mocks -----------------------------------------------------------------

// mockPlanAuthorizer stands in for the PlanService access check in tests of
// the child-resource services.
type mockPlanAuthorizer struct {
	authorize func(ctx context.Context, planID, userID uuid.UUID, write bool) (domain.TravelPlan, error)
}

func (m *mockPlanAuthorizer) Authorize(ctx context.Context, planID, userID uuid.UUID, write bool) (domain.TravelPlan, error) {
	if m.authorize != nil {
		return m.authorize(ctx, planID, userID, write)
	}
	return domain.TravelPlan{ID: planID}, nil
}

// allowAll authorizes every caller for every plan.
func allowAll() *mockPlanAuthorizer {
	return &mockPlanAuthorizer{}
}

// denyAll answers not-found for every plan, as for a caller with no access.
func denyAll() *mockPlanAuthorizer {
	return &mockPlanAuthorizer{
		authorize: func(_ context.Context, _, _ uuid.UUID, _ bool) (domain.TravelPlan, error) {
			return domain.TravelPlan{}, domain.ErrNotFound
		},
	}
}

// readOnly authorizes reads but answers not-found for writes.
func readOnly() *mockPlanAuthorizer {
	return &mockPlanAuthorizer{
		authorize: func(_ context.Context, planID, _ uuid.UUID, write bool) (domain.TravelPlan, error) {
			if write {
				return domain.TravelPlan{}, domain.ErrNotFound
			}
			return domain.TravelPlan{ID: planID}, nil
		},
	}
}

// mockDayRepo is a hand-written test double for repo.DayRepo.
type mockDayRepo struct {
	create       func(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.PlanDay, error)
	listByPlanID func(ctx context.Context, planID uuid.UUID) ([]domain.PlanDay, error)
	update       func(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockDayRepo) Create(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error) {
	return m.create(ctx, day)
}
func (m *mockDayRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.PlanDay, error) {
	return m.getByID(ctx, id)
}
func (m *mockDayRepo) ListByPlanID(ctx context.Context, planID uuid.UUID) ([]domain.PlanDay, error) {
	return m.listByPlanID(ctx, planID)
}
func (m *mockDayRepo) Update(ctx context.Context, day domain.PlanDay) (domain.PlanDay, error) {
	return m.update(ctx, day)
}
func (m *mockDayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// ---- helpers ---------------------------------------------------------------

func validDay(planID uuid.UUID) domain.PlanDay {
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	return domain.PlanDay{
		PlanID:         planID,
		DayIndex:       1,
		City:           "Lisbon",
		Date:           &date,
		Transportation: "train",
	}
}

// ---- ListByPlanID ----------------------------------------------------------

func TestDayService_ListByPlanID_OK(t *testing.T) {
	planID := uuid.New()
	svc := service.NewDayService(allowAll(), &mockDayRepo{
		listByPlanID: func(_ context.Context, id uuid.UUID) ([]domain.PlanDay, error) {
			assert.Equal(t, planID, id)
			return []domain.PlanDay{{ID: uuid.New(), PlanID: id, DayIndex: 1, City: "Lisbon"}}, nil
		},
	})

	got, err := svc.ListByPlanID(context.Background(), planID, uuid.New())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lisbon", got[0].City)
}

func TestDayService_ListByPlanID_NoAccess(t *testing.T) {
	svc := service.NewDayService(denyAll(), &mockDayRepo{})

	_, err := svc.ListByPlanID(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDayService_ListByPlanID_EmptyIsNotNil(t *testing.T) {
	svc := service.NewDayService(allowAll(), &mockDayRepo{
		listByPlanID: func(_ context.Context, _ uuid.UUID) ([]domain.PlanDay, error) {
			return nil, nil
		},
	})

	got, err := svc.ListByPlanID(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
}

// ---- Create ----------------------------------------------------------------

func TestDayService_Create_OK(t *testing.T) {
	planID := uuid.New()
	svc := service.NewDayService(allowAll(), &mockDayRepo{
		create: func(_ context.Context, d domain.PlanDay) (domain.PlanDay, error) {
			d.ID = uuid.New()
			return d, nil
		},
	})

	got, err := svc.Create(context.Background(), validDay(planID), uuid.New())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestDayService_Create_ReadOnlyShareCannotWrite(t *testing.T) {
	svc := service.NewDayService(readOnly(), &mockDayRepo{})

	_, err := svc.Create(context.Background(), validDay(uuid.New()), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDayService_Create_InvalidDayIndex(t *testing.T) {
	day := validDay(uuid.New())
	day.DayIndex = 0
	svc := service.NewDayService(allowAll(), &mockDayRepo{})

	_, err := svc.Create(context.Background(), day, uuid.New())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDayService_Create_CityRequired(t *testing.T) {
	day := validDay(uuid.New())
	day.City = "  "
	svc := service.NewDayService(allowAll(), &mockDayRepo{})

	_, err := svc.Create(context.Background(), day, uuid.New())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Update ----------------------------------------------------------------

func TestDayService_Update_OK(t *testing.T) {
	planID, dayID := uuid.New(), uuid.New()
	day := validDay(planID)
	day.ID = dayID
	day.City = "Porto"

	svc := service.NewDayService(allowAll(), &mockDayRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.PlanDay, error) {
			return domain.PlanDay{ID: id, PlanID: planID, DayIndex: 1, City: "Lisbon"}, nil
		},
		update: func(_ context.Context, d domain.PlanDay) (domain.PlanDay, error) {
			return d, nil
		},
	})

	got, err := svc.Update(context.Background(), day, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "Porto", got.City)
}

func TestDayService_Update_WrongPlan(t *testing.T) {
	day := validDay(uuid.New())
	day.ID = uuid.New()

	svc := service.NewDayService(allowAll(), &mockDayRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.PlanDay, error) {
			// The day exists but belongs to some other plan.
			return domain.PlanDay{ID: id, PlanID: uuid.New()}, nil
		},
	})

	_, err := svc.Update(context.Background(), day, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete ----------------------------------------------------------------

func TestDayService_Delete_OK(t *testing.T) {
	planID, dayID := uuid.New(), uuid.New()
	deleted := false
	svc := service.NewDayService(allowAll(), &mockDayRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.PlanDay, error) {
			return domain.PlanDay{ID: id, PlanID: planID}, nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, dayID, id)
			deleted = true
			return nil
		},
	})

	err := svc.Delete(context.Background(), planID, dayID, uuid.New())

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDayService_Delete_WrongPlan(t *testing.T) {
	svc := service.NewDayService(allowAll(), &mockDayRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.PlanDay, error) {
			return domain.PlanDay{ID: id, PlanID: uuid.New()}, nil
		},
	})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
