// Package server is the HTTP entry point: two platform plugin paths routed
// straight to injected handlers, everything else delegated to the page
// rendering engine. No custom protocol lives here.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/centraunit/headless/session"
)

// Default plugin paths as the platform expects them.
const (
	DefaultEventsPath         = "/_wix/events"
	DefaultServicePluginsPath = "/_wix/service-plugins"
)

// PageRenderer is the opaque page rendering engine every non-plugin request
// is handed to.
type PageRenderer interface {
	RenderPage(w http.ResponseWriter, r *http.Request)
}

// Config configures the entry point.
type Config struct {
	Addr               string
	EventsPath         string
	ServicePluginsPath string
	ShutdownTimeout    time.Duration
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.EventsPath == "" {
		c.EventsPath = DefaultEventsPath
	}
	if c.ServicePluginsPath == "" {
		c.ServicePluginsPath = DefaultServicePluginsPath
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Deps are the collaborators the entry point routes to.
type Deps struct {
	Events         http.Handler
	ServicePlugins http.Handler
	Pages          PageRenderer
	Sessions       *session.Codec
	Metrics        *Metrics
}

// Server hosts the router.
type Server struct {
	cfg     Config
	log     zerolog.Logger
	handler http.Handler
	http    *http.Server
}

// New assembles the router. Sessions and Metrics are optional; Pages is
// required, plugin handlers default to 204 responders.
func New(cfg Config, log zerolog.Logger, deps Deps) (*Server, error) {
	cfg.applyDefaults()
	if deps.Pages == nil {
		return nil, &MissingDependencyError{Dependency: "page renderer"}
	}
	if deps.Events == nil {
		deps.Events = noContentHandler()
	}
	if deps.ServicePlugins == nil {
		deps.ServicePlugins = noContentHandler()
	}

	r := chi.NewRouter()
	r.Use(requestLogger(log))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	if deps.Sessions != nil {
		r.Use(session.Middleware(deps.Sessions))
	}

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	r.Post(cfg.EventsPath, deps.Events.ServeHTTP)
	r.Post(cfg.ServicePluginsPath, deps.ServicePlugins.ServeHTTP)
	// Only the POST plugin calls bypass the renderer; everything else,
	// including other methods on the plugin paths, is a page request.
	r.NotFound(deps.Pages.RenderPage)
	r.MethodNotAllowed(deps.Pages.RenderPage)

	s := &Server{
		cfg:     cfg,
		log:     log,
		handler: r,
		http: &http.Server{
			Addr:    cfg.Addr,
			Handler: r,
		},
	}
	return s, nil
}

// Handler exposes the assembled router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info().Msg("http server shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}

// MissingDependencyError reports a Server assembled without a required
// collaborator.
type MissingDependencyError struct {
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return "server missing required dependency: " + e.Dependency
}

func noContentHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
