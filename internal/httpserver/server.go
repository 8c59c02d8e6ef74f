// internal/httpserver/server.go
//
// Read-only status server for a running solve.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts, JSON).
//   - Public endpoints: "/", "/health".
//   - Status endpoints: /progress, /words, /best.
//   - Continuous profiling at /debug/fgprof.
//
// Notes:
//   - With a JWT secret configured, status and debug endpoints require an HS256
//     bearer token (see SignToken). Without one they are open.
//   - Handlers only read solver snapshots; nothing here can change a run.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/felixge/fgprof"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/slovosled/internal/solver"
)

// Status is what the server reports on. *solver.Solver implements it.
type Status interface {
	Snapshot() solver.Progress
	Words() (found, pool []string)
	Best() *solver.Result
}

// Server bundles the router and the observed run.
type Server struct {
	r      *chi.Mux
	status Status
	secret []byte
	http   *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
// An empty secret leaves the status routes unauthenticated.
func New(status Status, secret string) *Server {
	s := &Server{r: chi.NewRouter(), status: status, secret: []byte(secret)}
	s.http = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	// --- diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"slovosled","endpoints":["/health","/progress","/words","/best","/debug/fgprof"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
	})

	// --- status (token required when a secret is set) ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.With(chimw.Timeout(10*time.Second), jsonContentType).Get("/progress", s.handleProgress)
		r.With(chimw.Timeout(10*time.Second), jsonContentType).Get("/words", s.handleWords)
		r.With(chimw.Timeout(10*time.Second), jsonContentType).Get("/best", s.handleBest)
		// fgprof samples for ?seconds=N (default 30); no handler timeout here.
		r.Handle("/debug/fgprof", fgprof.Handler())
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]string{"error": "not_found", "path": r.URL.Path})
		http.Error(w, string(body), http.StatusNotFound)
	})

	return s
}

// Start serves HTTP on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("status server listening")
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server; a later Start returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
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

// ------------------------------ STATUS -------------------------------------

type progressRes struct {
	solver.Progress
	CurrentHuman string `json:"currentHuman"`
	TotalHuman   string `json:"totalHuman"`
	GamesHuman   string `json:"gamesHuman"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p := s.status.Snapshot()
	_ = json.NewEncoder(w).Encode(progressRes{
		Progress:     p,
		CurrentHuman: humanize.Comma(p.Current),
		TotalHuman:   humanize.Comma(p.Total),
		GamesHuman:   humanize.Comma(p.Games),
	})
}

type wordsRes struct {
	Found []string `json:"found"`
	Pool  []string `json:"pool"`
}

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	found, pool := s.status.Words()
	if found == nil {
		found = []string{}
	}
	if pool == nil {
		pool = []string{}
	}
	_ = json.NewEncoder(w).Encode(wordsRes{Found: found, Pool: pool})
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	best := s.status.Best()
	if best == nil {
		http.Error(w, `{"error":"no_result_yet"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(best)
}
