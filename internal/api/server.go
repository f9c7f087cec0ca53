// Package api serves tree layout, conversion, and storage over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/layout                 tree in, layout (or rendering) out
//	POST   /v1/convert?to=ftree|json  tree in, tree in the other format out
//	POST   /v1/render                 layout JSON in, rendering out
//	GET    /v1/trees                  stored trees
//	GET    /v1/trees/{name}           one stored tree (?format=ftree|json)
//	PUT    /v1/trees/{name}           store a tree
//	DELETE /v1/trees/{name}
//	GET    /v1/trees/{name}/layout    layout of a stored tree
//
// Request trees are JSON unless the body is sent as text/plain (or
// ?from=ftree), in which case it is read as .ftree text. Layout and render
// routes take ?format=json|dot|svg|png and ?labels=true.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/store"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string
	// Layout is applied to every layout request.
	Layout layout.Config
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Server is the HTTP front end. Each request decodes its own tree, so
// handlers share nothing but the runner and the store.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  *store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store disables the /v1/trees routes.
func New(cfg Config, runner *pipeline.Runner, st *store.Store, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Layout == (layout.Config{}) {
		cfg.Layout = layout.DefaultConfig()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	s := &Server{cfg: cfg, runner: runner, store: st, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/convert", s.handleConvert)
		r.Post("/render", s.handleRender)

		if s.store != nil {
			r.Get("/trees", s.handleListTrees)
			r.Route("/trees/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetTree)
				r.Put("/", s.handlePutTree)
				r.Delete("/", s.handleDeleteTree)
				r.Get("/layout", s.handleTreeLayout)
			})
		}
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
