package domain

// ExportRow is a single row in a plan's itinerary export.
// It is a flat, denormalized view: one row per attraction, with day fields
// repeated for every attraction on that day. Days with no attractions yield
// one row with zero values for all attraction fields.
type ExportRow struct {
	// Day fields, repeated for every attraction on the day.
	DayIndex int
	City     string
	Date     string // "2006-01-02" formatted date, empty when unset

	// Attraction fields, zero values when the day has no attractions.
	VisitOrder        int
	AttractionName    string
	Address           string
	Latitude          *float64
	Longitude         *float64
	EstimatedDuration *int
	Notes             string
}
