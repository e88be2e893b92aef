package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/geocode"
	"travenion/internal/repo"
	"travenion/internal/sequence"
)

// AttractionService implements business logic for Attraction operations.
//
// Every mutation of a day's attraction set runs inside a single transaction
// holding a row lock on that day's attractions, so the read-compute-write of
// the sequence package is atomic per day. Operations on different days run
// independently.
type AttractionService struct {
	plans       planAuthorizer
	days        repo.DayRepo
	attractions repo.AttractionRepo
	geo         geocode.Geocoder // nil disables geocoding
}

// NewAttractionService constructs an AttractionService. Pass a nil geocoder
// to leave coordinates to the client.
func NewAttractionService(plans planAuthorizer, days repo.DayRepo, attractions repo.AttractionRepo, geo geocode.Geocoder) *AttractionService {
	return &AttractionService{plans: plans, days: days, attractions: attractions, geo: geo}
}

// ListByDayID returns a day's attractions in visit order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AttractionService) ListByDayID(ctx context.Context, dayID, userID uuid.UUID) ([]domain.Attraction, error) {
	if _, err := s.authorizeDay(ctx, dayID, userID, false); err != nil {
		return nil, err
	}

	attrs, err := s.attractions.ListByDayID(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.AttractionService.ListByDayID: %w", err)
	}
	if attrs == nil {
		return []domain.Attraction{}, nil
	}
	return attrs, nil
}

// Append adds an attraction at the end of the day's visit sequence.
// When the attraction has an address but no coordinates, the address is
// geocoded best effort; a failed lookup leaves the coordinates null.
func (s *AttractionService) Append(ctx context.Context, a domain.Attraction, userID uuid.UUID) (domain.Attraction, error) {
	if _, err := s.authorizeDay(ctx, a.DayID, userID, true); err != nil {
		return domain.Attraction{}, err
	}
	if err := validateAttraction(a); err != nil {
		return domain.Attraction{}, err
	}

	s.fillCoordinates(ctx, &a)

	var created domain.Attraction
	err := s.attractions.InTx(ctx, func(r repo.AttractionRepo) error {
		existing, err := r.ListByDayIDForUpdate(ctx, a.DayID)
		if err != nil {
			return err
		}
		var txErr error
		created, txErr = r.Create(ctx, sequence.Append(existing, a))
		return txErr
	})
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("service.AttractionService.Append: %w", err)
	}
	return created, nil
}

// Update overwrites the content fields of an attraction; its visit order is
// untouched. When the address changed and the request carries no explicit
// coordinates, the new address is re-geocoded best effort.
func (s *AttractionService) Update(ctx context.Context, a domain.Attraction, userID uuid.UUID) (domain.Attraction, error) {
	existing, err := s.attractions.GetByID(ctx, a.ID)
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("service.AttractionService.Update: %w", err)
	}
	if _, err := s.authorizeDay(ctx, existing.DayID, userID, true); err != nil {
		return domain.Attraction{}, err
	}
	if err := validateAttraction(a); err != nil {
		return domain.Attraction{}, err
	}

	if a.Address != existing.Address && a.Latitude == nil && a.Longitude == nil {
		s.fillCoordinates(ctx, &a)
	}

	updated, err := s.attractions.Update(ctx, a)
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("service.AttractionService.Update: %w", err)
	}
	return updated, nil
}

// Remove deletes the attraction from the given day and compacts the visit
// orders above it, so the remaining set is dense again.
// Returns domain.ErrNotFound when the attraction does not exist or belongs to
// a different day; nothing is modified in that case.
func (s *AttractionService) Remove(ctx context.Context, dayID, attractionID, userID uuid.UUID) error {
	if _, err := s.authorizeDay(ctx, dayID, userID, true); err != nil {
		return err
	}

	err := s.attractions.InTx(ctx, func(r repo.AttractionRepo) error {
		existing, err := r.ListByDayIDForUpdate(ctx, dayID)
		if err != nil {
			return err
		}
		remaining, err := sequence.Remove(existing, attractionID)
		if err != nil {
			return err
		}
		if err := r.Delete(ctx, attractionID); err != nil {
			return err
		}
		return r.UpdateOrders(ctx, remaining)
	})
	if err != nil {
		return fmt.Errorf("service.AttractionService.Remove: %w", err)
	}
	return nil
}

// Reorder moves the attraction to newOrder within its day, shifting the
// attractions in between. Returns the day's full set in the new visit order.
// Returns domain.ErrNotFound when the attraction is not on the given day and
// domain.ErrValidation when newOrder is outside [1, N].
func (s *AttractionService) Reorder(ctx context.Context, dayID, attractionID uuid.UUID, newOrder int, userID uuid.UUID) ([]domain.Attraction, error) {
	if _, err := s.authorizeDay(ctx, dayID, userID, true); err != nil {
		return nil, err
	}

	var result []domain.Attraction
	err := s.attractions.InTx(ctx, func(r repo.AttractionRepo) error {
		existing, err := r.ListByDayIDForUpdate(ctx, dayID)
		if err != nil {
			return err
		}
		result, err = sequence.Reorder(existing, attractionID, newOrder)
		if err != nil {
			return err
		}
		return r.UpdateOrders(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("service.AttractionService.Reorder: %w", err)
	}
	return result, nil
}

// RemoveByID resolves the attraction's day and removes it from that day.
func (s *AttractionService) RemoveByID(ctx context.Context, attractionID, userID uuid.UUID) error {
	a, err := s.attractions.GetByID(ctx, attractionID)
	if err != nil {
		return fmt.Errorf("service.AttractionService.RemoveByID: %w", err)
	}
	return s.Remove(ctx, a.DayID, attractionID, userID)
}

// ReorderByID resolves the attraction's day and moves it to newOrder there.
func (s *AttractionService) ReorderByID(ctx context.Context, attractionID uuid.UUID, newOrder int, userID uuid.UUID) ([]domain.Attraction, error) {
	a, err := s.attractions.GetByID(ctx, attractionID)
	if err != nil {
		return nil, fmt.Errorf("service.AttractionService.ReorderByID: %w", err)
	}
	return s.Reorder(ctx, a.DayID, attractionID, newOrder, userID)
}

// BulkReplace swaps a day's entire attraction set for the given list, in list
// order. Existing rows are deleted and recreated, so attraction IDs are not
// preserved across a bulk save.
func (s *AttractionService) BulkReplace(ctx context.Context, dayID uuid.UUID, entries []domain.Attraction, userID uuid.UUID) ([]domain.Attraction, error) {
	if _, err := s.authorizeDay(ctx, dayID, userID, true); err != nil {
		return nil, err
	}

	replacement, err := sequence.BulkReplace(entries)
	if err != nil {
		return nil, err
	}

	created := make([]domain.Attraction, 0, len(replacement))
	err = s.attractions.InTx(ctx, func(r repo.AttractionRepo) error {
		if err := r.DeleteByDayID(ctx, dayID); err != nil {
			return err
		}
		for _, a := range replacement {
			a.DayID = dayID
			row, err := r.Create(ctx, a)
			if err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.AttractionService.BulkReplace: %w", err)
	}
	return created, nil
}

// authorizeDay resolves the day's plan and checks the caller's access to it.
func (s *AttractionService) authorizeDay(ctx context.Context, dayID, userID uuid.UUID, write bool) (domain.PlanDay, error) {
	day, err := s.days.GetByID(ctx, dayID)
	if err != nil {
		return domain.PlanDay{}, fmt.Errorf("service.AttractionService: day: %w", err)
	}
	if _, err := s.plans.Authorize(ctx, day.PlanID, userID, write); err != nil {
		return domain.PlanDay{}, err
	}
	return day, nil
}

// fillCoordinates geocodes the attraction's address when coordinates are
// missing. Lookup failures are logged and ignored.
func (s *AttractionService) fillCoordinates(ctx context.Context, a *domain.Attraction) {
	if s.geo == nil || strings.TrimSpace(a.Address) == "" || a.Latitude != nil || a.Longitude != nil {
		return
	}
	coords, err := s.geo.Geocode(ctx, a.Address)
	if err != nil {
		slog.WarnContext(ctx, "geocoding failed", "address", a.Address, "error", err)
		return
	}
	a.Latitude = &coords.Latitude
	a.Longitude = &coords.Longitude
}

// validateAttraction enforces business rules common to Append and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - EstimatedDuration, if set, must be positive.
func validateAttraction(a domain.Attraction) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if a.EstimatedDuration != nil && *a.EstimatedDuration <= 0 {
		return fmt.Errorf("%w: estimated duration must be positive", domain.ErrValidation)
	}
	return nil
}
