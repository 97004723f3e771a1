package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
)

const defaultListLimit = 20

// DocumentRequest is the body of the ingest endpoints.
type DocumentRequest struct {
	FileName string `json:"file_name,omitempty"`
	Content  string `json:"content"`
}

// ListResponse wraps a list of records.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// CreateResume handles POST /v1/resumes.
func (s *Server) CreateResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	res, err := s.records.IngestResume(r.Context(), doc.Content, id.UserID, doc.FileName)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListResumes handles GET /v1/resumes.
func (s *Server) ListResumes(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.bindLimit(w, r)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	items, err := s.records.ListResumes(r.Context(), id.UserID, limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[resume.Resume]{Items: items, Count: len(items)})
}

// GetResume handles GET /v1/resumes/{id}.
func (s *Server) GetResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.records.GetResume(r.Context(), chirouter.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeleteResume handles DELETE /v1/resumes/{id}.
func (s *Server) DeleteResume(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := s.records.DeleteResume(r.Context(), chirouter.URLParam(r, "id"), id.UserID); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateJob handles POST /v1/jobs.
func (s *Server) CreateJob(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	j, err := s.records.IngestJob(r.Context(), doc.Content, id.UserID, doc.FileName)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

// ListJobs handles GET /v1/jobs.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.bindLimit(w, r)
	if !ok {
		return
	}
	id, _ := IdentityFrom(r.Context())

	items, err := s.records.ListJobs(r.Context(), id.UserID, limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[job.Job]{Items: items, Count: len(items)})
}

// GetJob handles GET /v1/jobs/{id}.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.records.GetJob(r.Context(), chirouter.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// DeleteJob handles DELETE /v1/jobs/{id}.
func (s *Server) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := s.records.DeleteJob(r.Context(), chirouter.URLParam(r, "id"), id.UserID); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeDocument(w http.ResponseWriter, r *http.Request) (DocumentRequest, bool) {
	var doc DocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAttachmentBytes)).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return DocumentRequest{}, false
	}
	if strings.TrimSpace(doc.Content) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "content is required")
		return DocumentRequest{}, false
	}
	return doc, true
}

// bindLimit reads the optional ?limit= parameter.
func (s *Server) bindLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter limit")
		return 0, false
	}
	if limit == nil {
		return defaultListLimit, true
	}
	if *limit < 1 || *limit > s.maxLimit {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("limit must be between 1 and %d", s.maxLimit))
		return 0, false
	}
	return *limit, true
}
