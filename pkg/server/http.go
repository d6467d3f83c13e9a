package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/hlog"
	"github.com/tb0hdan/numlab/pkg/history"
	"github.com/tb0hdan/numlab/pkg/methods"
	"github.com/tb0hdan/numlab/pkg/numerics"
	"github.com/tb0hdan/numlab/pkg/types"
)

const (
	ServiceName    = "Numerical Methods Lab"
	handlerTimeout = 30 * time.Second
)

// Envelope messages. Storage and decoding details are logged, never
// returned to the client.
const (
	msgNotFound         = "not found"
	msgValidationFailed = "validation failed"
	msgCanNotSave       = "can not save"
	msgCanNotLoad       = "can not load history"
	msgInvalidBody      = "invalid request body"
)

// Handler builds the HTTP surface: the history REST routes, the method
// solver, health and info, and the MCP streamable endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Maybe(middleware.StripSlashes, func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/debug/")
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, msgNotFound)
	})

	// The MCP stream is long-lived; the per-request timeout applies only to the
	// JSON routes.
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return &s.Server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
	r.Handle("/mcp", mcpHandler)

	if s.profiler {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(handlerTimeout))

		r.Get("/", s.handleInfo)
		r.Get("/health", s.handleHealth)

		r.Route("/bi", func(r chi.Router) {
			r.Get("/history", s.handleHistory)
			r.Post("/save", s.handleSave)
		})

		r.Route("/api/methods", func(r chi.Router) {
			r.Get("/", s.handleMethods)
			r.Post("/{slug}", s.handleSolve)
		})
	})

	return r
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service": ServiceName,
		"version": s.version,
		"endpoints": map[string]string{
			"history": "/bi/history",
			"save":    "/bi/save",
			"methods": "/api/methods",
			"health":  "/health",
			"mcp":     "/mcp",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.List(r.Context())
	if err != nil {
		respondError(w, http.StatusBadRequest, msgCanNotLoad)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": records})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req history.SaveRequest
	if err := decodeBody(w, r, &req); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("bad save body")
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	rec, err := s.history.Save(r.Context(), req)
	if err != nil {
		respondSaveError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "data saved", "id": rec.ID})
}

func respondSaveError(w http.ResponseWriter, err error) {
	var verr history.ValidationErrors
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": msgValidationFailed, "fields": verr})
		return
	}
	respondError(w, http.StatusBadRequest, msgCanNotSave)
}

func (s *Server) handleMethods(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "data": methods.Catalog()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	m, ok := methods.Lookup(chi.URLParam(r, "slug"))
	if !ok || !methods.Solvable(m.Slug) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}

	var params methods.Params
	if err := decodeBody(w, r, &params); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("bad solve body")
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := methods.Solve(m.Slug, params)
	if err != nil && !errors.Is(err, numerics.ErrMaxIterations) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	body := map[string]any{"status": "ok", "method": m.Slug, "result": result}
	if err != nil {
		body["status"] = "not converged"
		body["warning"] = err.Error()
	}

	if r.URL.Query().Get("save") == "true" {
		if req, ok := history.RequestFromParams(m.Slug, params); ok {
			rec, saveErr := s.history.Save(r.Context(), req)
			if saveErr != nil {
				respondSaveError(w, saveErr)
				return
			}
			body["id"] = rec.ID
		}
	}
	respondJSON(w, http.StatusOK, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, types.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
