// Package httpapi exposes the marketplace over JSON HTTP. The routing is a
// plain method+path switch; the handlers validate payloads against JSON
// schemas and delegate to the service layer.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/common/metrics"
	"paygo-hire/internal/common/validation"
	"paygo-hire/internal/search"
	"paygo-hire/internal/service"
	"paygo-hire/internal/store"
)

const maxBodyBytes = 1 << 20

// JobSearcher is the read side of the search index. Nil when search is
// disabled.
type JobSearcher interface {
	Search(ctx context.Context, query, location string, size int) ([]search.Hit, error)
}

// Deps wires the server. HealthCheck may be nil; Searcher may be nil.
type Deps struct {
	Market       *service.Marketplace
	Applications store.ApplicationRepo
	Jobs         store.JobRepo
	Candidates   store.CandidateRepo
	Ledger       store.LedgerRepo
	Searcher     JobSearcher
	Logger       logger.Logger
	HealthCheck  func(ctx context.Context) error
}

type Server struct {
	market     *service.Marketplace
	apps       store.ApplicationRepo
	jobs       store.JobRepo
	candidates store.CandidateRepo
	ledger     store.LedgerRepo
	searcher   JobSearcher
	validator  *validation.Validator
	logger     logger.Logger
	health     func(ctx context.Context) error
	metricsH   http.Handler
}

func NewServer(deps Deps) (*Server, error) {
	validator, err := validation.New(requestSchemas())
	if err != nil {
		return nil, err
	}
	return &Server{
		market:     deps.Market,
		apps:       deps.Applications,
		jobs:       deps.Jobs,
		candidates: deps.Candidates,
		ledger:     deps.Ledger,
		searcher:   deps.Searcher,
		validator:  validator,
		logger:     deps.Logger.WithFields(map[string]interface{}{"component": "httpapi"}),
		health:     deps.HealthCheck,
		metricsH:   promhttp.Handler(),
	}, nil
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	route := s.route(rec, req)

	metrics.HTTPRequestDuration.
		WithLabelValues(route, req.Method, strconv.Itoa(rec.status)).
		Observe(time.Since(start).Seconds())
}

// route dispatches and returns a low-cardinality route label.
func (s *Server) route(w http.ResponseWriter, req *http.Request) string {
	path := req.URL.Path
	method := req.Method

	switch {
	case method == http.MethodGet && path == "/healthz":
		s.handleHealth(w, req)
		return "/healthz"
	case method == http.MethodGet && path == "/metrics":
		s.metricsH.ServeHTTP(w, req)
		return "/metrics"

	case path == "/api/jobs":
		switch method {
		case http.MethodGet:
			s.handleListJobs(w, req)
		case http.MethodPost:
			s.handleCreateJob(w, req)
		default:
			s.methodNotAllowed(w)
		}
		return "/api/jobs"
	case method == http.MethodPost && path == "/api/jobs/generate-description":
		s.handleGenerateDescription(w, req)
		return "/api/jobs/generate-description"
	case strings.HasPrefix(path, "/api/jobs/"):
		s.routeJob(w, req, strings.TrimPrefix(path, "/api/jobs/"))
		return "/api/jobs/{id}"

	case path == "/api/applications":
		switch method {
		case http.MethodGet:
			s.handleListApplications(w, req)
		case http.MethodPost:
			s.handleApply(w, req)
		default:
			s.methodNotAllowed(w)
		}
		return "/api/applications"
	case strings.HasPrefix(path, "/api/applications/"):
		s.routeApplication(w, req, strings.TrimPrefix(path, "/api/applications/"))
		return "/api/applications/{id}"

	case path == "/api/candidates" && method == http.MethodGet:
		s.handleListCandidates(w, req)
		return "/api/candidates"
	case strings.HasPrefix(path, "/api/candidates/"):
		s.routeCandidate(w, req, strings.TrimPrefix(path, "/api/candidates/"))
		return "/api/candidates/{id}"

	case path == "/api/billing/ledger" && method == http.MethodGet:
		s.handleLedger(w, req)
		return "/api/billing/ledger"
	case path == "/api/billing/dashboard" && method == http.MethodGet:
		s.handleDashboard(w, req)
		return "/api/billing/dashboard"
	case path == "/api/billing/order" && method == http.MethodPost:
		s.handleOrderService(w, req)
		return "/api/billing/order"

	case path == "/api/search/jobs" && method == http.MethodGet:
		s.handleSearchJobs(w, req)
		return "/api/search/jobs"
	}

	http.NotFound(w, req)
	return "not_found"
}

func (s *Server) routeJob(w http.ResponseWriter, req *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, req)
		return
	}

	switch {
	case len(parts) == 1 && req.Method == http.MethodGet:
		s.handleGetJob(w, req, id)
	case len(parts) == 1 && req.Method == http.MethodPut:
		s.handleUpdateJob(w, req, id)
	case len(parts) == 2 && parts[1] == "pipeline" && req.Method == http.MethodGet:
		s.handleJobPipeline(w, req, id)
	default:
		http.NotFound(w, req)
	}
}

func (s *Server) routeApplication(w http.ResponseWriter, req *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, req)
		return
	}

	if len(parts) == 1 {
		if req.Method == http.MethodGet {
			s.handleGetApplication(w, req, id)
		} else {
			s.methodNotAllowed(w)
		}
		return
	}

	if req.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	action := strings.Join(parts[1:], "/")
	switch action {
	case "advance":
		s.handleAdvance(w, req, id)
	case "withdraw":
		s.handleWithdraw(w, req, id)
	case "notes":
		s.handleAddNote(w, req, id)
	case "schedule":
		s.handleScheduleInterview(w, req, id)
	case "schedule/confirm":
		s.handleConfirmSlot(w, req, id)
	case "assessment":
		s.handleAssignAssessment(w, req, id)
	case "assessment/submit":
		s.handleSubmitAssessment(w, req, id)
	case "resume-view":
		s.handleResumeView(w, req, id)
	default:
		http.NotFound(w, req)
	}
}

func (s *Server) routeCandidate(w http.ResponseWriter, req *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, req)
		return
	}

	switch {
	case len(parts) == 1 && req.Method == http.MethodGet:
		s.handleGetCandidate(w, req, id)
	case len(parts) == 2 && parts[1] == "screen" && req.Method == http.MethodPost:
		s.handleScreenCandidate(w, req, id)
	default:
		http.NotFound(w, req)
	}
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Error: errorDetail{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
