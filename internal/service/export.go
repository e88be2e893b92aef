package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/repo"
)

// ExportService assembles a flat itinerary export of one plan.
type ExportService struct {
	plans       planAuthorizer
	days        repo.DayRepo
	attractions repo.AttractionRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(plans planAuthorizer, days repo.DayRepo, attractions repo.AttractionRepo) *ExportService {
	return &ExportService{plans: plans, days: days, attractions: attractions}
}

// Export returns one ExportRow per attraction across all days of the plan,
// days in itinerary order and attractions in visit order. Days with no
// attractions contribute one row with empty attraction fields.
func (s *ExportService) Export(ctx context.Context, planID, userID uuid.UUID) ([]domain.ExportRow, error) {
	if _, err := s.plans.Authorize(ctx, planID, userID, false); err != nil {
		return nil, err
	}

	days, err := s.days.ListByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(days))
	for _, day := range days {
		base := domain.ExportRow{
			DayIndex: day.DayIndex,
			City:     day.City,
		}
		if day.Date != nil {
			base.Date = day.Date.Format("2006-01-02")
		}

		attrs, err := s.attractions.ListByDayID(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		if len(attrs) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range attrs {
			row := base
			row.VisitOrder = a.VisitOrder
			row.AttractionName = a.Name
			row.Address = a.Address
			row.Latitude = a.Latitude
			row.Longitude = a.Longitude
			row.EstimatedDuration = a.EstimatedDuration
			row.Notes = a.Notes
			rows = append(rows, row)
		}
	}
	return rows, nil
}
