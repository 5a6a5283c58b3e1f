package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	headless "github.com/centraunit/headless"
	"github.com/centraunit/headless/config"
	"github.com/centraunit/headless/server"
	"github.com/centraunit/headless/session"
	"github.com/centraunit/headless/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Service definitions for the server's composition root.
var (
	storeDef    = headless.NewDefinition[store.Store, config.Redis]("store")
	sessionsDef = headless.NewDefinition[*session.Codec, config.Session]("sessions")
	pagesDef    = headless.NewDefinition[server.PageRenderer, struct{}]("pages")
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return serve(cmd.Context(), configPath)
	},
}

func init() {
	serveCmd.Flags().String("config", "", "path to headless.yaml")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	m := headless.NewServicesMap().
		Add(headless.Provide(headless.Implement(storeDef, newStore), cfg.Redis)).
		Add(headless.Provide(headless.Implement(sessionsDef, newSessions), cfg.Session)).
		Add(headless.Provide(headless.Implement(pagesDef, newPages), struct{}{}))

	root, err := headless.NewRoot(ctx, m, headless.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		if err := root.Close(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("root teardown failed")
		}
	}()

	srv, err := server.New(server.Config{
		Addr:               cfg.Server.Addr,
		EventsPath:         cfg.Server.EventsPath,
		ServicePluginsPath: cfg.Server.ServicePluginsPath,
		ShutdownTimeout:    cfg.Server.ShutdownTimeout.Std(),
	}, log, server.Deps{
		Pages:    headless.MustResolve(root, pagesDef),
		Sessions: headless.MustResolve(root, sessionsDef),
		Metrics:  server.NewMetrics(),
	})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(runCtx)
}

func newLogger(cfg config.Log) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger(), nil
}

func newStore(rc *headless.ResolveContext[config.Redis]) (store.Store, error) {
	log := rc.Logger()
	if rc.Config().Addr == "" {
		log.Info().Msg("using in-process store")
		return store.NewMemory(), nil
	}
	log.Info().Str("addr", rc.Config().Addr).Msg("using redis store")
	return &closableRedis{
		Redis: store.NewRedis(rc.Config().Addr, rc.Config().Password, rc.Config().DB),
	}, nil
}

// closableRedis adapts the redis store's Close to the root teardown hook.
type closableRedis struct {
	*store.Redis
}

func (c *closableRedis) Shutdown(ctx context.Context) error {
	return c.Close()
}

func newSessions(rc *headless.ResolveContext[config.Session]) (*session.Codec, error) {
	return session.NewCodec(rc.Config().ClientID,
		session.WithCookieName(rc.Config().CookieName)), nil
}

// warmupWindow is how often the rendering warm-up runs per instance.
const warmupWindow = 7 * 24 * time.Hour

func newPages(rc *headless.ResolveContext[struct{}]) (server.PageRenderer, error) {
	st, err := headless.Lookup(rc.Deps(), storeDef)
	if err != nil {
		return nil, err
	}
	return &shellRenderer{store: st, log: rc.Logger()}, nil
}

// shellRenderer serves the application shell and tracks the weekly warm-up
// flag. The real page-rendering engine sits behind this boundary.
type shellRenderer struct {
	store store.Store
	log   zerolog.Logger
}

func (p *shellRenderer) RenderPage(w http.ResponseWriter, r *http.Request) {
	first, err := p.store.MarkOnce(r.Context(), "render-warmup", warmupWindow)
	if err != nil {
		p.log.Warn().Err(err).Msg("warm-up flag check failed")
	}
	if first {
		p.log.Info().Msg("first render this window, warming up")
	}

	sess, _ := session.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><html><body data-visitor=%q></body></html>", sess.VisitorID)
}
