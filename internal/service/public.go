package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/repo"
)

// PublicService serves the unauthenticated read-only plan view. A visitor
// holding a plan's share token gets the whole itinerary in one response, so
// the view needs no per-day follow-up requests (and no account).
type PublicService struct {
	plans       repo.PlanRepo
	days        repo.DayRepo
	attractions repo.AttractionRepo
}

// NewPublicService constructs a PublicService backed by the provided repos.
func NewPublicService(plans repo.PlanRepo, days repo.DayRepo, attractions repo.AttractionRepo) *PublicService {
	return &PublicService{plans: plans, days: days, attractions: attractions}
}

// View returns the full itinerary of the plan published under token.
// Returns domain.ErrNotFound for tokens no plan carries, including revoked ones.
func (s *PublicService) View(ctx context.Context, token uuid.UUID) (domain.PlanDetail, error) {
	plan, err := s.plans.GetByShareToken(ctx, token)
	if err != nil {
		return domain.PlanDetail{}, fmt.Errorf("service.PublicService.View: %w", err)
	}

	days, err := s.days.ListByPlanID(ctx, plan.ID)
	if err != nil {
		return domain.PlanDetail{}, fmt.Errorf("service.PublicService.View: %w", err)
	}

	detail := domain.PlanDetail{TravelPlan: plan, Days: make([]domain.DayDetail, 0, len(days))}
	for _, day := range days {
		attrs, err := s.attractions.ListByDayID(ctx, day.ID)
		if err != nil {
			return domain.PlanDetail{}, fmt.Errorf("service.PublicService.View: %w", err)
		}
		if attrs == nil {
			attrs = []domain.Attraction{}
		}
		detail.Days = append(detail.Days, domain.DayDetail{PlanDay: day, Attractions: attrs})
	}
	return detail, nil
}
