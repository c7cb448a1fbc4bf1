// Package chi exposes the search API over HTTP. Routing and serialization
// live here; all search semantics live in the usecase layer.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tanhanwei/steamseek/internal/domain"
	"github.com/tanhanwei/steamseek/internal/domain/search/filter"
	"github.com/tanhanwei/steamseek/internal/domain/search/mode"
	"github.com/tanhanwei/steamseek/internal/domain/search/request"
	deepuc "github.com/tanhanwei/steamseek/internal/usecase/deepsearch"
	searchuc "github.com/tanhanwei/steamseek/internal/usecase/search"
)

// SessionHeader carries the client's job key for deep-search polling.
const SessionHeader = "X-Search-Session"

// Pinger checks backend connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server handles the HTTP search API.
type Server struct {
	search     *searchuc.Service
	deep       *deepuc.Service
	pinger     Pinger
	logger     *zap.Logger
	llmTimeout time.Duration
}

// NewServer creates an HTTP API server. llmTimeout bounds each synchronous
// search call.
func NewServer(
	search *searchuc.Service,
	deep *deepuc.Service,
	pinger Pinger,
	logger *zap.Logger,
	llmTimeout time.Duration,
) *Server {
	return &Server{
		search:     search,
		deep:       deep,
		pinger:     pinger,
		logger:     logger,
		llmTimeout: llmTimeout,
	}
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.ExecuteSearch)
	r.Get("/deep_search/status", s.DeepSearchStatus)
	r.Get("/deep_search/results", s.DeepSearchResults)
	r.Post("/deep_search/refresh", s.DeepSearchRefresh)
	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())
}

// searchRequestBody is the wire shape of a search submission.
type searchRequestBody struct {
	Query       string `json:"query"`
	Genre       string `json:"genre"`
	Year        string `json:"year"`
	Platform    string `json:"platform"`
	Price       string `json:"price"`
	SortBy      string `json:"sort_by"`
	Mode        string `json:"mode"`
	ResultLimit string `json:"result_limit"`
}

// searchResponse is the wire shape of search results.
type searchResponse struct {
	Results []domain.GameResult `json:"results"`
	Note    string              `json:"note,omitempty"`
	Message string              `json:"message,omitempty"`
}

// ExecuteSearch handles POST /search. Plain and AI-enhanced searches run
// synchronously; deep searches are accepted into a background job and return
// immediately with an empty result set.
func (s *Server) ExecuteSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	facets, err := filter.New(body.Genre, body.Year, body.Platform, body.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	// A malformed limit falls back to the default rather than failing.
	limit := 0
	if body.ResultLimit != "" {
		if n, err := strconv.Atoi(body.ResultLimit); err == nil {
			limit = n
		}
	}

	req, err := request.New(body.Query, facets, request.SortKey(body.SortBy), mode.Mode(body.Mode), limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if req.Mode() == mode.Deep {
		results, message, err := s.deep.Start(s.sessionKey(r), req.Query(), req.Facets())
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, searchResponse{Results: results, Message: message})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.llmTimeout)
	defer cancel()

	results, note, err := s.search.Search(ctx, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results, Note: note})
}

// DeepSearchStatus handles GET /deep_search/status. The payload carries a
// result count, never the results themselves.
func (s *Server) DeepSearchStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.deep.Status(s.sessionKey(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// deepResultsResponse is the wire shape of consumed deep-search results.
type deepResultsResponse struct {
	Results   []domain.GameResult `json:"results"`
	Narrative string              `json:"grand_summary"`
}

// DeepSearchResults handles GET /deep_search/results, consuming the
// completed result set. A second fetch without a new job is rejected.
func (s *Server) DeepSearchResults(w http.ResponseWriter, r *http.Request) {
	results, narrative, err := s.deep.Results(s.sessionKey(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deepResultsResponse{Results: results, Narrative: narrative})
}

// DeepSearchRefresh handles POST /deep_search/refresh, discarding the job so
// the same query may run again.
func (s *Server) DeepSearchRefresh(w http.ResponseWriter, r *http.Request) {
	s.deep.Refresh(s.sessionKey(r))
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unhealthy", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionKey identifies the client's job slot. Browsers send a stable
// X-Search-Session value; absent that, the remote address is used so
// curl-style clients still work.
func (s *Server) sessionKey(r *http.Request) string {
	if key := r.Header.Get(SessionHeader); key != "" {
		return key
	}
	return r.RemoteAddr
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrJobRunning):
		writeError(w, http.StatusConflict, "job_running", err.Error())
	case errors.Is(err, domain.ErrResultsServed):
		writeError(w, http.StatusConflict, "results_served", err.Error())
	case errors.Is(err, domain.ErrResultsNotReady):
		writeError(w, http.StatusConflict, "results_not_ready", err.Error())
	case errors.Is(err, domain.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "job_not_found", err.Error())
	case errors.Is(err, domain.ErrJobFailed):
		writeError(w, http.StatusBadGateway, "job_failed", err.Error())
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		writeError(w, http.StatusBadGateway, "retrieval_unavailable", err.Error())
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
