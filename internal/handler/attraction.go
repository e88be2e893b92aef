package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"travenion/internal/domain"
)

type attractionRequest struct {
	Name              string   `json:"name"`
	Address           string   `json:"address"`
	Description       string   `json:"description"`
	Notes             string   `json:"notes"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	EstimatedDuration *int     `json:"estimatedDuration"`
}

type attractionResponse struct {
	ID                uuid.UUID `json:"id"`
	DayID             uuid.UUID `json:"dayId"`
	Name              string    `json:"name"`
	Address           string    `json:"address,omitempty"`
	Description       string    `json:"description,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	EstimatedDuration *int      `json:"estimatedDuration,omitempty"`
	VisitOrder        int       `json:"visitOrder"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type reorderRequest struct {
	NewOrder int `json:"newOrder"`
}

type bulkReplaceRequest struct {
	Attractions []attractionRequest `json:"attractions"`
}

func attractionToResponse(a domain.Attraction) attractionResponse {
	return attractionResponse{
		ID:                a.ID,
		DayID:             a.DayID,
		Name:              a.Name,
		Address:           a.Address,
		Description:       a.Description,
		Notes:             a.Notes,
		Latitude:          a.Latitude,
		Longitude:         a.Longitude,
		EstimatedDuration: a.EstimatedDuration,
		VisitOrder:        a.VisitOrder,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func requestToAttraction(req attractionRequest) domain.Attraction {
	return domain.Attraction{
		Name:              req.Name,
		Address:           req.Address,
		Description:       req.Description,
		Notes:             req.Notes,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		EstimatedDuration: req.EstimatedDuration,
	}
}

func attractionsToResponse(attrs []domain.Attraction) []attractionResponse {
	out := make([]attractionResponse, len(attrs))
	for i, a := range attrs {
		out[i] = attractionToResponse(a)
	}
	return out
}

// listAttractions handles GET /api/days/{dayID}/attractions.
func (s *Server) listAttractions(w http.ResponseWriter, r *http.Request) {
	dayID, err := pathUUID(r, "dayID")
	if err != nil {
		respondBadRequest(w, "invalid day id")
		return
	}

	attrs, err := s.attractions.ListByDayID(r.Context(), dayID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attractionsToResponse(attrs))
}

// appendAttraction handles POST /api/days/{dayID}/attractions.
// The new attraction always lands at the end of the day's visit sequence.
func (s *Server) appendAttraction(w http.ResponseWriter, r *http.Request) {
	dayID, err := pathUUID(r, "dayID")
	if err != nil {
		respondBadRequest(w, "invalid day id")
		return
	}
	var req attractionRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	a := requestToAttraction(req)
	a.DayID = dayID
	created, err := s.attractions.Append(r.Context(), a, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, attractionToResponse(created))
}

// updateAttraction handles PUT /api/attractions/{attractionID}.
func (s *Server) updateAttraction(w http.ResponseWriter, r *http.Request) {
	attractionID, err := pathUUID(r, "attractionID")
	if err != nil {
		respondBadRequest(w, "invalid attraction id")
		return
	}
	var req attractionRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	a := requestToAttraction(req)
	a.ID = attractionID
	updated, err := s.attractions.Update(r.Context(), a, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attractionToResponse(updated))
}

// reorderAttraction handles PUT /api/attractions/{attractionID}/order.
// Responds with the day's full attraction set in the new visit order.
func (s *Server) reorderAttraction(w http.ResponseWriter, r *http.Request) {
	attractionID, err := pathUUID(r, "attractionID")
	if err != nil {
		respondBadRequest(w, "invalid attraction id")
		return
	}
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	attrs, err := s.attractions.ReorderByID(r.Context(), attractionID, req.NewOrder, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attractionsToResponse(attrs))
}

// removeAttraction handles DELETE /api/attractions/{attractionID}.
func (s *Server) removeAttraction(w http.ResponseWriter, r *http.Request) {
	attractionID, err := pathUUID(r, "attractionID")
	if err != nil {
		respondBadRequest(w, "invalid attraction id")
		return
	}

	if err := s.attractions.RemoveByID(r.Context(), attractionID, callerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bulkReplaceAttractions handles PUT /api/days/{dayID}/attractions.
// The day's set is replaced wholesale in list order; attraction IDs are not
// preserved across a bulk save.
func (s *Server) bulkReplaceAttractions(w http.ResponseWriter, r *http.Request) {
	dayID, err := pathUUID(r, "dayID")
	if err != nil {
		respondBadRequest(w, "invalid day id")
		return
	}
	var req bulkReplaceRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	entries := make([]domain.Attraction, len(req.Attractions))
	for i, a := range req.Attractions {
		entries[i] = requestToAttraction(a)
	}
	attrs, err := s.attractions.BulkReplace(r.Context(), dayID, entries, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attractionsToResponse(attrs))
}
