package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// AuthService is the subset of service.AuthService the handlers call.
type AuthService interface {
	Register(ctx context.Context, creds domain.Credentials) bool
	Login(ctx context.Context, creds domain.Credentials) (domain.Token, bool)
	Authenticate(ctx context.Context, token domain.Token) (string, bool)
}

// ReadyFunc reports whether the backing stores can serve requests.
type ReadyFunc func(ctx context.Context) error

// Options configures a Handler.
type Options struct {
	Logger  *slog.Logger
	Metrics *metric.Registry
	// Ready defaults to always ready.
	Ready ReadyFunc
	// Version and Backend are reported by /health.
	Version string
	Backend string
}

// Handler serves the tokauth HTTP API.
type Handler struct {
	auth    AuthService
	logger  *slog.Logger
	metrics *metric.Registry
	ready   ReadyFunc
	version string
	backend string
	mux     *http.ServeMux
}

// New creates a Handler over auth.
func New(auth AuthService, opts Options) *Handler {
	h := &Handler{
		auth:    auth,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		ready:   opts.Ready,
		version: opts.Version,
		backend: opts.Backend,
		mux:     http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.ready == nil {
		h.ready = func(context.Context) error { return nil }
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	routes := []struct {
		method, path string
		fn           http.HandlerFunc
	}{
		{http.MethodGet, "/health", h.handleHealth},
		{http.MethodGet, "/ready", h.handleReady},
		{http.MethodPost, "/v1/register", h.handleRegister},
		{http.MethodPost, "/v1/login", h.handleLogin},
		{http.MethodPost, "/v1/authenticate", h.handleAuthenticate},
		{http.MethodGet, "/v1/whoami", h.handleWhoAmI},
	}
	for _, rt := range routes {
		h.mux.HandleFunc(rt.method+" "+rt.path, rt.fn)
		// Same path without a method catches the other methods.
		allow := rt.method
		h.mux.HandleFunc(rt.path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Allow", allow)
			h.writeDomainError(w, r, domain.ErrMethodNotAllowed)
		})
	}
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}
	h.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		h.writeDomainError(w, r, domain.ErrNotFound.WithDetails(r.URL.Path))
	})
}

// writeJSON writes a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err, "request_id", requestID)
	}
}

// writeDomainError writes an error envelope with the status derived from
// the error code.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err *domain.DomainError) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", err.Code)
	w.WriteHeader(errorCodeToHTTPStatus(err.Code))
	if encErr := json.NewEncoder(w).Encode(NewErrorResponse(requestID, err.Code, err.Message, err.Details)); encErr != nil {
		h.logger.Error("failed to encode error response", "error", encErr, "request_id", requestID)
	}
}

// decode reads a JSON body into v. Unknown fields are ignored.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	details := "invalid JSON body"
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		details = "empty body"
	case errors.As(err, &maxErr):
		details = "body too large"
	}
	h.writeDomainError(w, r, domain.ErrBadRequest.WithDetails(details))
	return false
}

func (h *Handler) recordAuth(op string, ok bool) {
	if h.metrics != nil {
		h.metrics.RecordAuth(op, ok)
	}
}

// errorCodeToHTTPStatus maps TA-<AREA>-<NNNN> to an HTTP status: argument
// errors are 400, otherwise the first three digits of NNNN.
func errorCodeToHTTPStatus(code string) int {
	if strings.HasPrefix(code, "TA-ARG-") {
		return http.StatusBadRequest
	}
	i := strings.LastIndexByte(code, '-')
	if i < 0 || len(code)-i-1 != 4 {
		return http.StatusInternalServerError
	}
	status, err := strconv.Atoi(code[i+1 : i+4])
	if err != nil || status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}
