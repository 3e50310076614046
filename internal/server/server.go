// Package server provides the HTTP handlers and routing for the site dispatcher.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"microsites/internal/config"
	"microsites/internal/logging"
	"microsites/internal/tool"
)

var errMalformedResult = errors.New("tool must return a mapping")

const errEncodeResponse = "failed to encode response"

// Resolver looks up tools by site identifier.
type Resolver interface {
	Resolve(site string) (tool.Tool, error)
	Names() []string
}

// Server contains the configured router and the tools it dispatches to.
type Server struct {
	cfg    config.ServerConfig
	router *chi.Mux
	tools  Resolver
	logger *slog.Logger
}

// New constructs a Server with middleware and routes configured.
func New(cfg config.ServerConfig, tools Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		tools:  tools,
		logger: logger,
	}

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLogger(logger),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/sites", s.handleSites)
	s.router.Post("/run/{site}", s.handleRun)

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// Handle resolves site and runs its tool with params.
// Tool errors, panics and nil results come back as *tool.ExecutionError.
func (s *Server) Handle(ctx context.Context, site string, params tool.Params) (result tool.Result, err error) {
	t, err := s.tools.Resolve(site)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = tool.Params{}
	}
	logging.Trace(s.logger, "dispatch", "site", site, "params", len(params))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool panicked", "site", site, "panic", r)
			result, err = nil, &tool.ExecutionError{Site: site, Err: fmt.Errorf("%v", r)}
		}
	}()

	res, runErr := t.Run(ctx, params)
	if runErr != nil {
		return nil, &tool.ExecutionError{Site: site, Err: runErr}
	}
	if res == nil {
		return nil, &tool.ExecutionError{Site: site, Err: errMalformedResult}
	}
	return res, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSites(w http.ResponseWriter, _ *http.Request) {
	names := s.tools.Names()
	sites := make([]SiteInfo, 0, len(names))
	for _, name := range names {
		t, err := s.tools.Resolve(name)
		if err != nil {
			continue
		}
		sites = append(sites, SiteInfo{Name: name, Description: t.Description()})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	site := chi.URLParam(r, "site")

	var req RunRequest
	if r.Body != nil {
		body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes())
		if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			s.writeDetail(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	res, err := s.Handle(r.Context(), site, req.Params)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("run failed", "site", site, "status", status, "error", err, "duration", time.Since(start))
		s.writeDetail(w, status, err.Error())
		return
	}

	s.logger.Info("run", "site", site, "status", http.StatusOK, "duration", time.Since(start))
	s.writeJSON(w, http.StatusOK, ToolResponse{OK: true, Result: res})
}

func (s *Server) maxBodyBytes() int64 {
	if s.cfg.MaxBodyBytes > 0 {
		return s.cfg.MaxBodyBytes
	}
	return 1 << 20
}

func statusFor(err error) int {
	var (
		notFound *tool.NotFoundError
		badTool  *tool.ConfigurationError
		failed   *tool.ExecutionError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badTool):
		return http.StatusInternalServerError
	case errors.As(err, &failed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeJSON marshals v before touching w so an encode failure can still become a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Detail: errEncodeResponse})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

func (s *Server) writeDetail(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Detail: msg})
}
