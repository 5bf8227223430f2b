package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/domain/project"
)

// RPCHandler handles MCP method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Portfolio serves the read-only REST views.
type Portfolio interface {
	Dashboard(ctx context.Context, f health.Filter) (*project.Dashboard, error)
	Get(ctx context.Context, id string) (*health.Project, error)
	Options(ctx context.Context) (health.FilterOptions, error)
}

// CodedError is implemented by errors that carry a stable error code.
type CodedError interface {
	error
	CodeValue() string
	MessageValue() string
	DetailsValue() any
	RecoveryHintValue() string
}

// Options configures the HTTP router.
type Options struct {
	Handler   RPCHandler
	Portfolio Portfolio
	// MCP, when set, is mounted at /mcp (streamable HTTP transport).
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler   RPCHandler
	portfolio Portfolio
	logger    *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))

	srv := &Server{handler: opts.Handler, portfolio: opts.Portfolio, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Post("/rpc", srv.handleRPC)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", srv.handleDashboard)
		r.Get("/options", srv.handleOptions)
		r.Get("/projects/{id}", srv.handleProject)
	})
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := ErrInvalidReq
		if errors.Is(err, errParse) {
			code = ErrParseCode
		}
		WriteError(w, nil, code, err.Error(), nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		var coded CodedError
		if errors.As(err, &coded) {
			WriteError(w, req.ID, rpcCode(coded.CodeValue()), coded.MessageValue(), errorBody(coded))
			return
		}
		s.logger.Error("rpc failed", "method", req.Method, "error", err)
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

func rpcCode(code string) int {
	switch code {
	case "UNKNOWN_METHOD":
		return ErrMethodNotFound
	case "INVALID_INPUT", "INVALID_WEEK", "INVALID_SCORE", "MISSING_DIMENSION", "NOTE_TOO_LONG":
		return ErrInvalidParams
	default:
		return ErrApplication
	}
}

type apiError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func errorBody(coded CodedError) apiError {
	return apiError{
		Code:         coded.CodeValue(),
		Message:      coded.MessageValue(),
		Details:      coded.DetailsValue(),
		RecoveryHint: coded.RecoveryHintValue(),
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := health.Filter{
		Year:     q.Get("year"),
		Delivery: q.Get("delivery"),
		Leader:   q.Get("leader"),
		TechLead: q.Get("tech_lead"),
	}
	if view := q.Get("view"); view != "" {
		status, err := health.ParseStatus(view)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, apiError{Code: "INVALID_INPUT", Message: err.Error()})
			return
		}
		f.View = status
	}

	dash, err := s.portfolio.Dashboard(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.portfolio.Options(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.portfolio.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, project.ErrProjectNotFound) {
		writeAPIError(w, http.StatusNotFound, apiError{Code: "PROJECT_NOT_FOUND", Message: "project not found"})
		return
	}
	s.logger.Error("request failed", "error", err)
	writeAPIError(w, http.StatusInternalServerError, apiError{Code: "INTERNAL", Message: "internal error"})
}

func writeAPIError(w http.ResponseWriter, status int, body apiError) {
	writeJSON(w, status, map[string]apiError{"error": body})
}
