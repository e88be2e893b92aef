package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlanDay is one entry in a plan's itinerary, ordered by DayIndex.
// Date is nil when the user has not fixed the itinerary to calendar dates yet.
type PlanDay struct {
	ID             uuid.UUID
	PlanID         uuid.UUID
	DayIndex       int
	City           string
	Date           *time.Time
	Transportation string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
