package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travenion/internal/domain"
	"travenion/internal/repo"
)

// newAttractionFixtures creates a user, plan, and day in one transaction and
// returns an AttractionRepo plus the day everything hangs off.
func newAttractionFixtures(t *testing.T) (repo.AttractionRepo, domain.PlanDay) {
	t.Helper()
	tx := beginTestTx(t)
	users, plans, days := repo.NewUserRepo(tx), repo.NewPlanRepo(tx), repo.NewDayRepo(tx)

	plan := mustCreatePlan(t, users, plans)
	day := mustCreateDay(t, days, plan.ID, 1)
	return repo.NewAttractionRepo(tx), day
}

// mustCreateAttraction inserts one attraction at the given visit order.
func mustCreateAttraction(t *testing.T, r repo.AttractionRepo, dayID uuid.UUID, name string, order int) domain.Attraction {
	t.Helper()
	a, err := r.Create(context.Background(), domain.Attraction{
		DayID:      dayID,
		Name:       name,
		VisitOrder: order,
	})
	require.NoError(t, err, "create attraction %q", name)
	return a
}

func TestAttractionRepo_Create(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	lat, lng := 38.7139, -9.1334
	duration := 90
	input := domain.Attraction{
		DayID:             day.ID,
		Name:              "Castle of São Jorge",
		Address:           "R. de Santa Cruz do Castelo, Lisboa",
		Description:       "Moorish castle above Alfama",
		Latitude:          &lat,
		Longitude:         &lng,
		EstimatedDuration: &duration,
		VisitOrder:        1,
	}

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, day.ID, got.DayID)
	assert.Equal(t, input.Name, got.Name)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, lat, *got.Latitude, 1e-9)
	require.NotNil(t, got.EstimatedDuration)
	assert.Equal(t, 90, *got.EstimatedDuration)
	assert.Equal(t, 1, got.VisitOrder)
}

func TestAttractionRepo_Create_NilOptionals(t *testing.T) {
	r, day := newAttractionFixtures(t)

	got, err := r.Create(context.Background(), domain.Attraction{
		DayID: day.ID, Name: "Harbor walk", VisitOrder: 1,
	})

	require.NoError(t, err)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)
	assert.Nil(t, got.EstimatedDuration)
}

func TestAttractionRepo_GetByID_NotFound(t *testing.T) {
	r, _ := newAttractionFixtures(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttractionRepo_ListByDayID_OrdersByVisitOrder(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	// Insert out of order; the list must come back by visit_order.
	mustCreateAttraction(t, r, day.ID, "Harbor", 2)
	mustCreateAttraction(t, r, day.ID, "Castle", 1)
	mustCreateAttraction(t, r, day.ID, "Museum", 3)

	got, err := r.ListByDayID(ctx, day.ID)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Castle", got[0].Name)
	assert.Equal(t, "Harbor", got[1].Name)
	assert.Equal(t, "Museum", got[2].Name)
	for i, a := range got {
		assert.Equal(t, i+1, a.VisitOrder, "visit orders form a dense 1..N sequence")
	}
}

func TestAttractionRepo_Update_DoesNotTouchVisitOrder(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	created := mustCreateAttraction(t, r, day.ID, "Castle", 2)
	created.Name = "Castelo de São Jorge"
	created.Notes = "buy tickets online"
	created.VisitOrder = 99 // must be ignored

	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Castelo de São Jorge", got.Name)
	assert.Equal(t, "buy tickets online", got.Notes)
	assert.Equal(t, 2, got.VisitOrder, "content update leaves visit order alone")
}

func TestAttractionRepo_UpdateOrders(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	first := mustCreateAttraction(t, r, day.ID, "Castle", 1)
	second := mustCreateAttraction(t, r, day.ID, "Harbor", 2)

	first.VisitOrder, second.VisitOrder = 2, 1
	err := r.UpdateOrders(ctx, []domain.Attraction{first, second})

	require.NoError(t, err)
	got, err := r.ListByDayID(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Harbor", got[0].Name)
	assert.Equal(t, "Castle", got[1].Name)
}

func TestAttractionRepo_UpdateOrders_MissingRowConflicts(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	existing := mustCreateAttraction(t, r, day.ID, "Castle", 1)
	vanished := domain.Attraction{ID: uuid.New(), DayID: day.ID, Name: "Ghost", VisitOrder: 2}

	err := r.UpdateOrders(ctx, []domain.Attraction{existing, vanished})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAttractionRepo_UpdateOrders_EmptyIsNoop(t *testing.T) {
	r, _ := newAttractionFixtures(t)

	require.NoError(t, r.UpdateOrders(context.Background(), nil))
}

func TestAttractionRepo_Delete(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	created := mustCreateAttraction(t, r, day.ID, "Castle", 1)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err := r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttractionRepo_Delete_NotFound(t *testing.T) {
	r, _ := newAttractionFixtures(t)

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttractionRepo_DeleteByDayID(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	mustCreateAttraction(t, r, day.ID, "Castle", 1)
	mustCreateAttraction(t, r, day.ID, "Harbor", 2)

	require.NoError(t, r.DeleteByDayID(ctx, day.ID))

	got, err := r.ListByDayID(ctx, day.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAttractionRepo_InTx_CommitsOnNil(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	err := r.InTx(ctx, func(txRepo repo.AttractionRepo) error {
		_, err := txRepo.Create(ctx, domain.Attraction{
			DayID: day.ID, Name: "Castle", VisitOrder: 1,
		})
		return err
	})

	require.NoError(t, err)
	got, err := r.ListByDayID(ctx, day.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1, "committed work is visible outside InTx")
}

func TestAttractionRepo_InTx_RollsBackOnError(t *testing.T) {
	r, day := newAttractionFixtures(t)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := r.InTx(ctx, func(txRepo repo.AttractionRepo) error {
		if _, err := txRepo.Create(ctx, domain.Attraction{
			DayID: day.ID, Name: "Castle", VisitOrder: 1,
		}); err != nil {
			return err
		}
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel, "fn's error comes back unwrapped")
	got, err := r.ListByDayID(ctx, day.ID)
	require.NoError(t, err)
	assert.Empty(t, got, "rolled-back insert must not be visible")
}
