package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"travenion/internal/domain"
)

type dayRequest struct {
	DayIndex       int    `json:"dayIndex"`
	City           string `json:"city"`
	Date           string `json:"date"` // "2006-01-02", empty for undated plans
	Transportation string `json:"transportation"`
	Notes          string `json:"notes"`
}

type dayResponse struct {
	ID             uuid.UUID `json:"id"`
	PlanID         uuid.UUID `json:"planId"`
	DayIndex       int       `json:"dayIndex"`
	City           string    `json:"city"`
	Date           string    `json:"date,omitempty"`
	Transportation string    `json:"transportation,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func dayToResponse(d domain.PlanDay) dayResponse {
	out := dayResponse{
		ID:             d.ID,
		PlanID:         d.PlanID,
		DayIndex:       d.DayIndex,
		City:           d.City,
		Transportation: d.Transportation,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Date != nil {
		out.Date = d.Date.Format("2006-01-02")
	}
	return out
}

func requestToDay(planID uuid.UUID, req dayRequest) (domain.PlanDay, error) {
	day := domain.PlanDay{
		PlanID:         planID,
		DayIndex:       req.DayIndex,
		City:           req.City,
		Transportation: req.Transportation,
		Notes:          req.Notes,
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return domain.PlanDay{}, err
		}
		day.Date = &d
	}
	return day, nil
}

// listDays handles GET /api/plans/{planID}/days.
func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	days, err := s.days.ListByPlanID(r.Context(), planID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]dayResponse, len(days))
	for i, d := range days {
		out[i] = dayToResponse(d)
	}
	respondJSON(w, http.StatusOK, out)
}

// createDay handles POST /api/plans/{planID}/days.
func (s *Server) createDay(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	var req dayRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	day, err := requestToDay(planID, req)
	if err != nil {
		respondBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	created, err := s.days.Create(r.Context(), day, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dayToResponse(created))
}

// updateDay handles PUT /api/plans/{planID}/days/{dayID}.
func (s *Server) updateDay(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	dayID, err := pathUUID(r, "dayID")
	if err != nil {
		respondBadRequest(w, "invalid day id")
		return
	}
	var req dayRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	day, err := requestToDay(planID, req)
	if err != nil {
		respondBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}
	day.ID = dayID

	updated, err := s.days.Update(r.Context(), day, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dayToResponse(updated))
}

// deleteDay handles DELETE /api/plans/{planID}/days/{dayID}.
func (s *Server) deleteDay(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	dayID, err := pathUUID(r, "dayID")
	if err != nil {
		respondBadRequest(w, "invalid day id")
		return
	}

	if err := s.days.Delete(r.Context(), planID, dayID, callerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
