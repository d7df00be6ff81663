package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/novacorp/hr-assistant/internal/core/domain"
	"github.com/novacorp/hr-assistant/internal/core/ports"
	"github.com/novacorp/hr-assistant/internal/observability/metrics"
)

const (
	defaultMaxInFlight        = 32
	backpressureAcquireWindow = 2 * time.Second
	maxQueryChars             = 4000
)

type Router struct {
	service ports.AnswerService
	metrics *metrics.WorkflowMetrics

	rateLimitRPS   int
	rateLimitBurst int
	maxInFlight    int
}

type Option func(*Router)

func WithRateLimit(rps, burst int) Option {
	return func(rt *Router) {
		rt.rateLimitRPS = rps
		rt.rateLimitBurst = burst
	}
}

func WithMaxInFlight(n int) Option {
	return func(rt *Router) {
		rt.maxInFlight = n
	}
}

func WithMetrics(m *metrics.WorkflowMetrics) Option {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func NewRouter(service ports.AnswerService, opts ...Option) *Router {
	rt := &Router{
		service:     service,
		maxInFlight: defaultMaxInFlight,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/answers", rt.answerQuery)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, backpressureAcquireWindow)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type answerRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

func (rt *Router) answerQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len(req.Query) > maxQueryChars {
		writeError(w, http.StatusBadRequest, "query is too long")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	start := time.Now()
	response, err := rt.service.Run(r.Context(), req.Query, req.UserID)
	if err != nil {
		rt.metrics.ObserveRunError()
		status := mapErrorToHTTPStatus(err)
		slog.Error("answer_query_failed",
			"request_id", requestIDFromContext(r.Context()),
			"user_id", req.UserID,
			"status", status,
			"error", err,
		)
		writeError(w, status, publicErrorMessage(err, status))
		return
	}

	rt.metrics.ObserveRun(string(response.Status), time.Since(start))
	writeJSON(w, http.StatusOK, response)
}

// publicErrorMessage keeps provider payloads and internal wiring out of
// client-facing responses.
func publicErrorMessage(err error, status int) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid input"
	case domain.IsKind(err, domain.ErrUnauthorized):
		return "user is not authorized for this resource"
	case status == http.StatusServiceUnavailable:
		return "a dependency is temporarily unavailable, try again later"
	case status == http.StatusBadGateway:
		return "the language model returned an unusable response"
	default:
		return "internal error"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
