package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct{ mux *chi.Mux }

// New builds the router with the standard middleware chain. Routes are
// registered without trailing slashes; StripSlashes makes "/api/apps/" and
// "/api/apps" the same route.
func New(timeout time.Duration, l zerolog.Logger) *Server {
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(chimw.StripSlashes)
	if timeout > 0 {
		m.Use(Timeout(timeout))
	}
	m.Use(Metrics)
	m.Use(Logger(l))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
