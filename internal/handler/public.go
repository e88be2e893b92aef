package handler

import "net/http"

// publicPlanResponse is the read-only itinerary returned for a share token.
// Owner identity and the token itself are not echoed back.
type publicPlanResponse struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	DefaultMap  string              `json:"defaultMap"`
	Days        []publicDayResponse `json:"days"`
}

type publicDayResponse struct {
	dayResponse
	Attractions []attractionResponse `json:"attractions"`
}

// getPublicPlan handles GET /api/public/plans/{token}, the only
// unauthenticated data route. Unknown and revoked tokens both answer 404.
func (s *Server) getPublicPlan(w http.ResponseWriter, r *http.Request) {
	tok, err := pathUUID(r, "token")
	if err != nil {
		respondBadRequest(w, "invalid share token")
		return
	}

	detail, err := s.public.View(r.Context(), tok)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := publicPlanResponse{
		Title:       detail.Title,
		Description: detail.Description,
		DefaultMap:  string(detail.DefaultMap),
		Days:        make([]publicDayResponse, 0, len(detail.Days)),
	}
	for _, day := range detail.Days {
		attrs := make([]attractionResponse, len(day.Attractions))
		for i, a := range day.Attractions {
			attrs[i] = attractionToResponse(a)
		}
		out.Days = append(out.Days, publicDayResponse{
			dayResponse: dayToResponse(day.PlanDay),
			Attractions: attrs,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
