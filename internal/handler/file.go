package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"travenion/internal/domain"
)

type fileResponse struct {
	ID          uuid.UUID `json:"id"`
	PlanID      uuid.UUID `json:"planId"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType,omitempty"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type fileDescriptionRequest struct {
	Description string `json:"description"`
}

func fileToResponse(f domain.PlanFile) fileResponse {
	return fileResponse{
		ID:          f.ID,
		PlanID:      f.PlanID,
		Filename:    f.Filename,
		Size:        f.Size,
		ContentType: f.ContentType,
		Description: f.Description,
		UploadedAt:  f.UploadedAt,
	}
}

// uploadFile handles POST /api/plans/{planID}/files.
// Expects a multipart form with the bytes under the "file" field. The route
// is wrapped in the body-size middleware, so an oversized upload fails the
// multipart parse and answers 413.
func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if _, ok := err.(*http.MaxBytesError); ok {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		respondBadRequest(w, `multipart form with a "file" field is required`)
		return
	}
	defer file.Close()

	created, err := s.files.Upload(r.Context(), planID, callerID(r),
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if description := r.FormValue("description"); description != "" {
		created, err = s.files.UpdateDescription(r.Context(), planID, created.ID, callerID(r), description)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusCreated, fileToResponse(created))
}

// listFiles handles GET /api/plans/{planID}/files.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}

	files, err := s.files.ListByPlanID(r.Context(), planID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]fileResponse, len(files))
	for i, f := range files {
		out[i] = fileToResponse(f)
	}
	respondJSON(w, http.StatusOK, out)
}

// downloadFile handles GET /api/plans/{planID}/files/{fileID}.
// Streams the object with the original filename in Content-Disposition,
// RFC 5987 encoded so non-ASCII names survive.
func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	fileID, err := pathUUID(r, "fileID")
	if err != nil {
		respondBadRequest(w, "invalid file id")
		return
	}

	meta, body, err := s.files.Download(r.Context(), planID, fileID, callerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer body.Close()

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
			asciiFallback(meta.Filename), url.PathEscape(meta.Filename)))

	if _, err := io.Copy(w, body); err != nil {
		// Headers are gone; nothing left to do but log.
		slog.WarnContext(r.Context(), "streaming file", "file_id", fileID, "error", err)
	}
}

// asciiFallback strips a filename down to printable ASCII for the plain
// filename= parameter; old clients that ignore filename* still get a usable name.
func asciiFallback(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// updateFileDescription handles PUT /api/plans/{planID}/files/{fileID}.
func (s *Server) updateFileDescription(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	fileID, err := pathUUID(r, "fileID")
	if err != nil {
		respondBadRequest(w, "invalid file id")
		return
	}
	var req fileDescriptionRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.files.UpdateDescription(r.Context(), planID, fileID, callerID(r), req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, fileToResponse(updated))
}

// deleteFile handles DELETE /api/plans/{planID}/files/{fileID}.
func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "planID")
	if err != nil {
		respondBadRequest(w, "invalid plan id")
		return
	}
	fileID, err := pathUUID(r, "fileID")
	if err != nil {
		respondBadRequest(w, "invalid file id")
		return
	}

	if err := s.files.Delete(r.Context(), planID, fileID, callerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
