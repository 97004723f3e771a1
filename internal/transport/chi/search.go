package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kailas-cloud/talentmatch/internal/domain/match"
	searchuc "github.com/kailas-cloud/talentmatch/internal/usecase/search"
)

// SearchRequest is the body of the search endpoints.
type SearchRequest struct {
	Query       string            `json:"query,omitempty"`
	ReferenceID string            `json:"reference_id,omitempty"`
	Filters     map[string]string `json:"filters,omitempty"`
	Limit       int               `json:"limit,omitempty"`
}

// SearchResponse is the ranked result.
type SearchResponse struct {
	Kind      match.Kind    `json:"kind"`
	Query     string        `json:"query"`
	Threshold float64       `json:"threshold"`
	Items     []match.Match `json:"items"`
	Count     int           `json:"count"`
}

// SearchCandidates handles POST /v1/search/candidates.
func (s *Server) SearchCandidates(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, match.Candidates)
}

// SearchJobs handles POST /v1/search/jobs.
func (s *Server) SearchJobs(w http.ResponseWriter, r *http.Request) {
	s.runSearch(w, r, match.Jobs)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, kind match.Kind) {
	var body SearchRequest
	// an empty body is a valid "show me everything" search
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if body.Limit < 0 || body.Limit > s.maxLimit {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit is out of range")
		return
	}

	res, err := s.search.Search(r.Context(), searchuc.Request{
		Kind:        kind,
		Query:       body.Query,
		ReferenceID: body.ReferenceID,
		Filters:     body.Filters,
		Limit:       body.Limit,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	items := res.Matches
	if items == nil {
		items = []match.Match{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Kind:      res.Kind,
		Query:     res.Query,
		Threshold: res.Threshold,
		Items:     items,
		Count:     len(items),
	})
}
