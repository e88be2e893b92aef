package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/repo"
)

// planAuthorizer is the slice of PlanService the child-resource services need:
// resolving a plan and checking the caller's read or write access to it.
type planAuthorizer interface {
	Authorize(ctx context.Context, planID, userID uuid.UUID, write bool) (domain.TravelPlan, error)
}

// DayService implements business logic for PlanDay operations.
type DayService struct {
	plans planAuthorizer
	days  repo.DayRepo
}

// NewDayService constructs a DayService backed by the provided authorizer and repo.
func NewDayService(plans planAuthorizer, days repo.DayRepo) *DayService {
	return &DayService{plans: plans, days: days}
}

// ListByPlanID returns all days of a plan visible to userID, ordered by day index.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DayService) ListByPlanID(ctx context.Context, planID, userID uuid.UUID) ([]domain.PlanDay, error) {
	if _, err := s.plans.Authorize(ctx, planID, userID, false); err != nil {
		return nil, err
	}

	days, err := s.days.ListByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("service.DayService.ListByPlanID: %w", err)
	}
	if days == nil {
		return []domain.PlanDay{}, nil
	}
	return days, nil
}

// Create validates the day, verifies write access to the parent plan, then persists.
func (s *DayService) Create(ctx context.Context, day domain.PlanDay, userID uuid.UUID) (domain.PlanDay, error) {
	if _, err := s.plans.Authorize(ctx, day.PlanID, userID, true); err != nil {
		return domain.PlanDay{}, err
	}
	if err := validateDay(day); err != nil {
		return domain.PlanDay{}, err
	}

	created, err := s.days.Create(ctx, day)
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("service.DayService.Create: %w", err)
	}
	return created, nil
}

// Update validates and persists changes to an existing day.
// The day must belong to the plan named in the request.
func (s *DayService) Update(ctx context.Context, day domain.PlanDay, userID uuid.UUID) (domain.PlanDay, error) {
	if _, err := s.plans.Authorize(ctx, day.PlanID, userID, true); err != nil {
		return domain.PlanDay{}, err
	}

	existing, err := s.days.GetByID(ctx, day.ID)
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("service.DayService.Update: %w", err)
	}
	if existing.PlanID != day.PlanID {
		return domain.PlanDay{}, fmt.Errorf("service.DayService.Update: %w", domain.ErrNotFound)
	}
	if err := validateDay(day); err != nil {
		return domain.PlanDay{}, err
	}

	updated, err := s.days.Update(ctx, day)
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("service.DayService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a day and its attractions (via cascade).
func (s *DayService) Delete(ctx context.Context, planID, dayID, userID uuid.UUID) error {
	if _, err := s.plans.Authorize(ctx, planID, userID, true); err != nil {
		return err
	}

	day, err := s.days.GetByID(ctx, dayID)
	if err != nil {
		return fmt.Errorf("service.DayService.Delete: %w", err)
	}
	if day.PlanID != planID {
		return fmt.Errorf("service.DayService.Delete: %w", domain.ErrNotFound)
	}

	if err := s.days.Delete(ctx, dayID); err != nil {
		return fmt.Errorf("service.DayService.Delete: %w", err)
	}
	return nil
}

// validateDay enforces business rules common to both Create and Update.
//   - DayIndex must be positive.
//   - City must be non-empty (whitespace-only is rejected).
func validateDay(day domain.PlanDay) error {
	if day.DayIndex < 1 {
		return fmt.Errorf("%w: day index must be positive", domain.ErrValidation)
	}
	if strings.TrimSpace(day.City) == "" {
		return fmt.Errorf("%w: city is required", domain.ErrValidation)
	}
	return nil
}
