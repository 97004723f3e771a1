package chi

import (
	"net/http"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	healthuc "github.com/kailas-cloud/talentmatch/internal/usecase/health"
)

// Server serves the talentmatch HTTP API.
type Server struct {
	runner   Runner
	records  Records
	search   Searcher
	convs    Conversations
	health   HealthChecker
	logger   *zap.Logger
	maxLimit int
	// streamDelay paces SSE word chunks; zero sends them back to back.
	streamDelay time.Duration
}

// NewServer creates an HTTP API server.
func NewServer(
	runner Runner,
	records Records,
	search Searcher,
	convs Conversations,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		runner:      runner,
		records:     records,
		search:      search,
		convs:       convs,
		health:      health,
		logger:      logger,
		maxLimit:    100,
		streamDelay: defaultStreamDelay,
	}
}

// Handler builds the router with the full middleware stack.
func (s *Server) Handler(apiKeys []string) http.Handler {
	r := chirouter.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chirouter.Router) {
		r.Use(IdentityMiddleware)

		r.Post("/chat", s.Chat)
		r.Post("/chat/stream", s.ChatStream)
		r.Post("/chat/{role}", s.RoleChat)

		r.Get("/sessions", s.ListSessions)
		r.Get("/sessions/{id}/turns", s.ListTurns)

		r.Get("/resumes/{id}", s.GetResume)
		r.Get("/jobs/{id}", s.GetJob)

		r.Group(func(r chirouter.Router) {
			r.Use(RequireRole(role.Candidate))
			r.Post("/resumes", s.CreateResume)
			r.Get("/resumes", s.ListResumes)
			r.Delete("/resumes/{id}", s.DeleteResume)
			r.Post("/search/jobs", s.SearchJobs)
		})

		r.Group(func(r chirouter.Router) {
			r.Use(RequireRole(role.Recruiter))
			r.Post("/jobs", s.CreateJob)
			r.Get("/jobs", s.ListJobs)
			r.Delete("/jobs/{id}", s.DeleteJob)
			r.Post("/search/candidates", s.SearchCandidates)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	return r
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
