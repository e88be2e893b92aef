package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"travenion/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"day_index", "city", "date",
	"visit_order", "attraction", "address",
	"latitude", "longitude", "estimated_duration", "notes",
}

type exportRowResponse struct {
	DayIndex          int      `json:"dayIndex"`
	City              string   `json:"city"`
	Date              string   `json:"date,omitempty"`
	VisitOrder        int      `json:"visitOrder,omitempty"`
	Attraction        string   `json:"attraction,omitempty"`
	Address           string   `json:"address,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	EstimatedDuration *int     `json:"estimatedDuration,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// exportPlan handles GET /api/plans/{planID}/export.
func (s *Server) exportPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	rows, err := s.export.Export(r.Context(), planID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}

	out := make([]exportRowResponse, len(rows))
	for i, row := range rows {
		out[i] = exportRowResponse{
			DayIndex:          row.DayIndex,
			City:              row.City,
			Date:              row.Date,
			VisitOrder:        row.VisitOrder,
			Attraction:        row.AttractionName,
			Address:           row.Address,
			Latitude:          row.Latitude,
			Longitude:         row.Longitude,
			EstimatedDuration: row.EstimatedDuration,
			Notes:             row.Notes,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()
}

// rowToCSVRecord encodes one export row; nil pointers and zero attraction
// fields become empty strings.
func rowToCSVRecord(row domain.ExportRow) []string {
	visitOrder := ""
	if row.VisitOrder > 0 {
		visitOrder = strconv.Itoa(row.VisitOrder)
	}
	return []string{
		strconv.Itoa(row.DayIndex),
		row.City,
		row.Date,
		visitOrder,
		row.AttractionName,
		row.Address,
		formatOptionalFloat(row.Latitude),
		formatOptionalFloat(row.Longitude),
		formatOptionalInt(row.EstimatedDuration),
		row.Notes,
	}
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
