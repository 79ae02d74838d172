// Package api exposes the layout run over HTTP.
//
// The API is stateless: every request carries a full document plus options,
// and the response carries the arranged document back. Plan caching still
// applies across requests through the runner's shared cache backend, which
// is where the Redis or Mongo backends earn their keep in multi-instance
// deployments.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/varigrid/varigrid/pkg/document"
	"github.com/varigrid/varigrid/pkg/errors"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/observability"
	"github.com/varigrid/varigrid/pkg/pipeline"
)

// requestTimeout bounds a single API request.
const requestTimeout = 30 * time.Second

// Server handles layout requests over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates an API server around a shared runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(hooksMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Post("/arrange", s.handleArrange)
	})

	return r
}

// hooksMiddleware reports request lifecycle events to the observability
// registry.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// =============================================================================
// Request / Response Shapes
// =============================================================================

// runRequest is the shared request body for plan and arrange.
type runRequest struct {
	Document document.DocJSON `json:"document"`
	Options  pipeline.Options `json:"options"`
}

// planResponse carries computed plans without document mutation.
type planResponse struct {
	Plans   map[string]map[string]layout.Point `json:"plans"`
	Skipped []pipeline.SetIssue                `json:"skipped,omitempty"`
}

// arrangeResponse carries the arranged document plus run metadata.
type arrangeResponse struct {
	Document document.DocJSON `json:"document"`
	Result   *pipeline.Result `json:"result"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePlan computes plans for every set in the posted document without
// arranging anything.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, doc, ok := s.decodeRun(w, r)
	if !ok {
		return
	}

	resp := planResponse{Plans: make(map[string]map[string]layout.Point)}
	for _, set := range doc.Sets {
		info, childCount := pipeline.Scan(set)
		if err := pipeline.CheckSet(info, childCount); err != nil {
			resp.Skipped = append(resp.Skipped, pipeline.SetIssue{
				Set: set.NodeName, Code: errors.GetCode(err), Message: err.Error(),
			})
			continue
		}
		plan, err := s.runner.Plan(r.Context(), info, req.Options)
		if err != nil {
			if errors.IsPerSet(err) {
				resp.Skipped = append(resp.Skipped, pipeline.SetIssue{
					Set: set.NodeName, Code: errors.GetCode(err), Message: err.Error(),
				})
				continue
			}
			s.writeError(w, err)
			return
		}
		resp.Plans[set.NodeName] = plan
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleArrange executes the full run and returns the mutated document.
func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	req, doc, ok := s.decodeRun(w, r)
	if !ok {
		return
	}
	if req.Options.Scope == "" {
		req.Options.Scope = pipeline.ScopeAll
	}

	result, err := s.runner.Execute(r.Context(), doc, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, arrangeResponse{
		Document: doc.Export(),
		Result:   result,
	})
}

// decodeRun parses and imports the shared request body.
func (s *Server) decodeRun(w http.ResponseWriter, r *http.Request) (runRequest, *document.Document, bool) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode request"))
		return req, nil, false
	}
	doc, err := document.Import(req.Document)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "import document"))
		return req, nil, false
	}
	return req, doc, true
}

// =============================================================================
// Response Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	s.writeJSON(w, statusFor(code), errorResponse{Code: code, Message: err.Error()})
}

// statusFor maps run error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidDocument:
		return http.StatusBadRequest
	case errors.ErrCodeRotation, errors.ErrCodeNothingProcessed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
