package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gqlframes/internal/domain"
	logpkg "github.com/kailas-cloud/gqlframes/internal/logger"
	dsuc "github.com/kailas-cloud/gqlframes/internal/usecase/datasource"
	healthuc "github.com/kailas-cloud/gqlframes/internal/usecase/health"
)

const maxRequestBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the datasource API.
type Server struct {
	datasources   *dsuc.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(datasources *dsuc.Registry, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		datasources: datasources,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		graphQLErrorHandler,
		sentinelHandler(domain.ErrDatasourceNotFound, http.StatusNotFound, CodeDatasourceNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrPathNotFound, http.StatusUnprocessableEntity, CodePathNotFound),
		sentinelHandler(domain.ErrEmptyResponse, http.StatusUnprocessableEntity, CodePathNotFound),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusUnprocessableEntity, CodeInvalidDocument),
		sentinelHandler(domain.ErrTooDeep, http.StatusUnprocessableEntity, CodeInvalidDocument),
		sentinelHandler(domain.ErrTransport, http.StatusBadGateway, CodeUpstreamError),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/datasources", s.ListDatasources)
	r.Route("/datasources/{name}", func(r gochi.Router) {
		r.Post("/query", s.Query)
		r.Post("/annotations", s.Annotations)
		r.Get("/test", s.TestDatasource)
	})
}

// Query handles POST /datasources/{name}/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.datasource(w, r)
	if !ok {
		return
	}

	var req QueryRequest
	if !s.decode(w, r, &req) {
		return
	}

	frames, err := ds.Query(r.Context(), req.ToRequest())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Frames: FramesToDTO(frames)})
}

// Annotations handles POST /datasources/{name}/annotations.
func (s *Server) Annotations(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.datasource(w, r)
	if !ok {
		return
	}

	var req AnnotationRequest
	if !s.decode(w, r, &req) {
		return
	}

	events, err := ds.AnnotationQuery(r.Context(), req.ToRequest())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AnnotationResponse{Annotations: EventsToDTO(events)})
}

// TestDatasource handles GET /datasources/{name}/test.
func (s *Server) TestDatasource(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.datasource(w, r)
	if !ok {
		return
	}

	st := ds.TestDatasource(r.Context())
	writeJSON(w, http.StatusOK, StatusResponse{Status: string(st.State), Message: st.Message})
}

// ListDatasources handles GET /datasources.
func (s *Server) ListDatasources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, DatasourcesResponse{Datasources: s.datasources.Names()})
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

// datasource binds the {name} path parameter and resolves it.
func (s *Server) datasource(w http.ResponseWriter, r *http.Request) (*dsuc.Service, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", gochi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter name: "+err.Error())
		return nil, false
	}

	ds, err := s.datasources.Get(name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return ds, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a message for the client without exposing internals.
// Upstream-facing errors are already meant for the dashboard user.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDatasourceNotFound,
		domain.ErrInvalidQuery,
		domain.ErrPathNotFound,
		domain.ErrEmptyResponse,
		domain.ErrInvalidDocument,
		domain.ErrTooDeep,
		domain.ErrTransport,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// graphQLErrorHandler reports upstream GraphQL errors with the raw error
// object as details.
func graphQLErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var gqlErr *domain.GraphQLError
	if !errors.As(err, &gqlErr) {
		return false
	}
	resp := ErrorResponse{Code: CodeGraphQLError, Message: gqlErr.Message}
	if json.Valid(gqlErr.Payload) {
		resp.Details = gqlErr.Payload
	}
	writeJSON(w, http.StatusBadGateway, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
