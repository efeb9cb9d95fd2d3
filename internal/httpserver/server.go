// internal/httpserver/server.go
//
// HTTP server wiring for the wordbuff backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Card quiz endpoints (optional auth): /card/*.
//   - Grid word-search endpoints (optional auth): /grid/*.
//   - Daily challenge lookup: GET /daily.
//   - Content library: /content/* (imports require auth).
//   - Auth endpoints: /auth/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests, who are identified by an anonymous cookie.
//   - Every engine call goes through session.Session, which serialises access and
//     feeds the engine the wall-clock time elapsed since the previous call.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbuff/internal/buff"
	"github.com/robalobadob/wordbuff/internal/config"
	"github.com/robalobadob/wordbuff/internal/content"
	"github.com/robalobadob/wordbuff/internal/session"
	"github.com/robalobadob/wordbuff/internal/store"
)

// Deps are the server's collaborators.
type Deps struct {
	Store store.Store
	DB    *sql.DB
	Env   config.Env
	Rules config.Rules
	Pack  *content.Pack
	Clock session.Clock // nil uses the real clock
}

// Server bundles router, session store, content and DB handle.
type Server struct {
	r       *chi.Mux
	store   store.Store
	db      *sql.DB
	env     config.Env
	rules   config.Rules
	weights map[buff.Rarity]int
	pack    *content.Pack
	lib     *content.Library
	clock   session.Clock
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) (*Server, error) {
	if err := d.Rules.Validate(); err != nil {
		return nil, err
	}
	weights, err := d.Rules.Weights()
	if err != nil {
		return nil, err
	}
	clock := d.Clock
	if clock == nil {
		clock = session.RealClock{}
	}
	s := &Server{
		r:       chi.NewRouter(),
		store:   d.Store,
		db:      d.DB,
		env:     d.Env,
		rules:   d.Rules,
		weights: weights,
		pack:    d.Pack,
		lib:     content.NewLibrary(d.DB),
		clock:   clock,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordbuff","endpoints":["/health","/card/*","/grid/*","/daily","/content/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		banks, puzzles := s.pack.Stats()
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"sessions": s.store.Len(),
			"banks":    banks,
			"puzzles":  puzzles,
		})
	})

	// Games: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountCard(r)
		s.mountGrid(r)
		s.mountDaily(r)
		s.mountContent(r)
	})

	// Auth
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	}()
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the single CLIENT_ORIGIN.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.env.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeBody reads an optional JSON body. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ownedSession loads a session and checks that the caller owns it. Sessions
// belonging to someone else are reported as missing.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request, kind session.Kind) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.Kind != kind || !sess.OwnedBy(s.ownerID(w, r)) {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	return sess, true
}
