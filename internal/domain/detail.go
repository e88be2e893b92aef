package domain

// DayDetail is a day together with its attractions in visit order.
type DayDetail struct {
	PlanDay
	Attractions []Attraction
}

// PlanDetail is the full itinerary of one plan, used by the public read-only
// view where the caller cannot issue follow-up requests per day.
type PlanDetail struct {
	TravelPlan
	Days []DayDetail
}
