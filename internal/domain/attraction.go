package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attraction is a point of interest scheduled within one itinerary day.
//
// VisitOrder is the 1-based position within the owning day. For any day, the
// visit orders of its attractions always form a dense sequence 1..N, no gaps,
// no duplicates. The sequence package is the only place that computes new
// orders; everything else treats VisitOrder as read-only.
type Attraction struct {
	ID          uuid.UUID
	DayID       uuid.UUID
	Name        string
	Address     string
	Description string
	Notes       string
	Latitude    *float64
	Longitude   *float64
	// EstimatedDuration is the expected visit length in minutes; nil when unknown.
	EstimatedDuration *int
	VisitOrder        int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
