package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/middleware"
)

// errorDetail is the machine-readable part of every error response.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the wire format of every non-2xx JSON response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

// respondError maps a service error to its HTTP status and error body.
// Unknown errors are logged and rendered as an opaque 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{errorDetail{
			Code: "not_found", Message: unwrapMessage(err, domain.ErrNotFound),
		}})
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{
			Code: "validation_error", Message: unwrapMessage(err, domain.ErrValidation),
		}})
	case errors.Is(err, domain.ErrConflict):
		respondJSON(w, http.StatusConflict, errorResponse{errorDetail{
			Code: "conflict", Message: unwrapMessage(err, domain.ErrConflict),
		}})
	case errors.Is(err, domain.ErrUnauthorized):
		respondJSON(w, http.StatusUnauthorized, errorResponse{errorDetail{
			Code: "unauthorized", Message: "invalid credentials",
		}})
	default:
		slog.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// respondBadRequest rejects a request before it reaches the service layer,
// e.g. a malformed body or an unparseable path parameter.
func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{
		Code: "validation_error", Message: message,
	}})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel error.
// e.g. "validation error: name is required" becomes "name is required"; errors
// with no detail after the sentinel fall back to the sentinel text itself.
func unwrapMessage(err error, sentinel error) string {
	msg := err.Error()
	key := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, key); i >= 0 {
		return msg[i+len(key):]
	}
	return sentinel.Error()
}

// callerID returns the authenticated user placed in context by the auth
// middleware. Routes under the middleware always carry one; the zero UUID
// only shows up if a route is misregistered outside the auth group.
func callerID(r *http.Request) uuid.UUID {
	id, _ := middleware.UserID(r.Context())
	return id
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// decodeBody decodes the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
