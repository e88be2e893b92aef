package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"travenion/internal/domain"
)

type planRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DefaultMap  string `json:"defaultMap"`
}

type planResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DefaultMap  string     `json:"defaultMap"`
	ShareToken  *uuid.UUID `json:"shareToken,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type planListResponse struct {
	Data       []planResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type shareRequest struct {
	Username   string `json:"username"`
	Permission string `json:"permission"`
}

type shareResponse struct {
	ID         uuid.UUID `json:"id"`
	PlanID     uuid.UUID `json:"planId"`
	Username   string    `json:"username"`
	Nickname   string    `json:"nickname,omitempty"`
	Permission string    `json:"permission"`
	SharedBy   string    `json:"sharedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func planToResponse(p domain.TravelPlan) planResponse {
	return planResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		DefaultMap:  string(p.DefaultMap),
		ShareToken:  p.ShareToken,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func shareToResponse(s domain.PlanShare) shareResponse {
	return shareResponse{
		ID:         s.ID,
		PlanID:     s.PlanID,
		Username:   s.SharedWith.Username,
		Nickname:   s.SharedWith.Nickname,
		Permission: string(s.Permission),
		SharedBy:   s.SharedBy.Username,
		CreatedAt:  s.CreatedAt,
	}
}

// intQuery parses an optional integer query parameter, nil when absent or bad.
func intQuery(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// listPlans handles GET /api/plans.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(intQuery(r, "page"), intQuery(r, "limit"))
	plans, total, err := s.plans.List(r.Context(), callerID(r), params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	data := make([]planResponse, len(plans))
	for i, p := range plans {
		data[i] = planToResponse(p)
	}
	respondJSON(w, http.StatusOK, planListResponse{
		Data: data,
		Pagination: paginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// createPlan handles POST /api/plans.
func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	created, err := s.plans.Create(r.Context(), domain.TravelPlan{
		OwnerID:     callerID(r),
		Title:       req.Title,
		Description: req.Description,
		DefaultMap:  domain.MapProvider(req.DefaultMap),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, planToResponse(created))
}

// getPlan handles GET /api/plans/{planID}.
func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	plan, err := s.plans.Get(r.Context(), planID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, planToResponse(plan))
}

// updatePlan handles PUT /api/plans/{planID}.
func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.plans.Update(r.Context(), domain.TravelPlan{
		ID:          planID,
		Title:       req.Title,
		Description: req.Description,
		DefaultMap:  domain.MapProvider(req.DefaultMap),
	}, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, planToResponse(updated))
}

// deletePlan handles DELETE /api/plans/{planID}.
func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	if err := s.plans.Delete(r.Context(), planID, callerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listSharedWithMe handles GET /api/plans/shared-with-me.
func (s *Server) listSharedWithMe(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.ListSharedWithMe(r.Context(), callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]planResponse, len(plans))
	for i, p := range plans {
		out[i] = planToResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// publishPlan handles POST /api/plans/{planID}/publish.
func (s *Server) publishPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	plan, err := s.plans.Publish(r.Context(), planID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, planToResponse(plan))
}

// unpublishPlan handles DELETE /api/plans/{planID}/publish.
func (s *Server) unpublishPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	if err := s.plans.Unpublish(r.Context(), planID, callerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listShares handles GET /api/plans/{planID}/shares.
func (s *Server) listShares(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	shares, err := s.plans.ListShares(r.Context(), planID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]shareResponse, len(shares))
	for i, sh := range shares {
		out[i] = shareToResponse(sh)
	}
	respondJSON(w, http.StatusOK, out)
}

// sharePlan handles POST /api/plans/{planID}/shares.
func (s *Server) sharePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	var req shareRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	share, err := s.plans.Share(r.Context(), planID, callerID(r), req.Username, domain.SharePermission(req.Permission))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, shareToResponse(share))
}

// unsharePlan handles DELETE /api/plans/{planID}/shares/{username}.
func (s *Server) unsharePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	if err := s.plans.Unshare(r.Context(), planID, callerID(r), chi.URLParam(r, "username")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
