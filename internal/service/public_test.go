package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travenion/internal/domain"
	"travenion/internal/service"
)

func TestPublicService_View_FullItinerary(t *testing.T) {
	tok := uuid.New()
	planID, dayID := uuid.New(), uuid.New()

	plans := &mockPlanRepo{
		getByShareToken: func(_ context.Context, got uuid.UUID) (domain.TravelPlan, error) {
			require.Equal(t, tok, got)
			return domain.TravelPlan{ID: planID, Title: "Summer trip", ShareToken: &tok}, nil
		},
	}
	days := &mockDayRepo{
		listByPlanID: func(_ context.Context, _ uuid.UUID) ([]domain.PlanDay, error) {
			return []domain.PlanDay{{ID: dayID, PlanID: planID, DayIndex: 1, City: "Lisbon"}}, nil
		},
	}
	attractions := &mockAttractionRepo{
		listByDayID: func(_ context.Context, _ uuid.UUID) ([]domain.Attraction, error) {
			return scheduled(dayID, "Castle", "Museum"), nil
		},
	}
	svc := service.NewPublicService(plans, days, attractions)

	got, err := svc.View(context.Background(), tok)

	require.NoError(t, err)
	assert.Equal(t, "Summer trip", got.Title)
	require.Len(t, got.Days, 1)
	require.Len(t, got.Days[0].Attractions, 2)
	assert.Equal(t, "Castle", got.Days[0].Attractions[0].Name)
}

func TestPublicService_View_UnknownToken(t *testing.T) {
	plans := &mockPlanRepo{
		getByShareToken: func(_ context.Context, _ uuid.UUID) (domain.TravelPlan, error) {
			return domain.TravelPlan{}, domain.ErrNotFound
		},
	}
	svc := service.NewPublicService(plans, &mockDayRepo{}, &mockAttractionRepo{})

	_, err := svc.View(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
