package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jonwraymond/studysearch/index"
	"github.com/jonwraymond/studysearch/metrics"
	"github.com/jonwraymond/studysearch/registry"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the index to MCP clients over stdio, HTTP or SSE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Usage:   "stdio, http or sse (overrides config)",
			},
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address for http and sse (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rebuild the index when the content directory changes",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("transport") {
		cfg.Server.Transport = c.String("transport")
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.IsSet("watch") {
		cfg.Server.Watch = c.Bool("watch")
	}
	e, err := newEnv(c, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.NewRecorder().WithRuntimeCollectors()
	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{Name: cfg.Server.Name, Version: version},
		Catalog:    e.catalog,
		Limit:      cfg.Search.Limit,
		Observer:   rec,
		Logger:     e.logger,
	})
	reg.SetIndex(e.newIndex(e.catalog, rec))
	if err := reg.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = reg.Stop() }()

	if cfg.Server.Watch {
		if e.fsys == nil {
			return errors.New("serve: --watch needs a content directory")
		}
		rl := &reloader{env: e, reg: reg, rec: rec}
		w, err := newContentWatcher(cfg.Content.Dir, cfg.Content.Pattern, cfg.Search.Debounce,
			func() { rl.reload(ctx) }, e.logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.Content.Dir, err)
		}
		defer func() { _ = w.Close() }()
		go w.Run(ctx)
		e.logger.Info("watching content", "dir", cfg.Content.Dir)
	}

	switch cfg.Server.Transport {
	case "stdio":
		return registry.ServeStdio(ctx, reg)
	default:
		return listen(ctx, cfg.Server.Addr, newServeMux(reg, rec), e)
	}
}

// reloader rebuilds the served index when content changes. Reloads run one
// at a time, so a slow rebuild of older content cannot replace a newer one.
type reloader struct {
	mu  sync.Mutex
	env *env
	reg *registry.Registry
	rec *metrics.Recorder
}

// reload rebuilds the index from the current content and swaps it in
// unless the content is unchanged.
func (l *reloader) reload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, reg := l.env, l.reg
	cat, err := e.loadCatalog()
	if err != nil {
		e.logger.Warn("content reload failed", "error", err)
		return
	}
	next := e.newIndex(cat, l.rec)
	if err := next.Build(ctx); err != nil {
		return
	}

	if cur := reg.Index(); cur != nil && cur.Ready() &&
		cur.Fingerprint() == next.Fingerprint() && slices.Equal(cur.Groups(), next.Groups()) {
		e.logger.Debug("content unchanged", "fingerprint", next.Fingerprint())
		return
	}
	reg.SetIndex(next)
	e.logger.Info("content reloaded", "groups", len(next.Groups()), "entries", next.Len(), "fingerprint", next.Fingerprint())
}

func newServeMux(reg *registry.Registry, rec *metrics.Recorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/mcp", registry.ServeHTTP(reg))
	mux.Handle("/sse", registry.ServeSSE(reg))
	mux.Handle("GET /metrics", rec.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := reg.HealthCheck(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeStats(w, reg)
	})
	return mux
}

func writeStats(w http.ResponseWriter, reg *registry.Registry) {
	stats := reg.Stats()
	w.Header().Set("Content-Type", "application/json")
	if stats.Index.State != index.StateReady {
		w.WriteHeader(http.StatusAccepted)
	}
	_ = json.NewEncoder(w).Encode(stats)
}

func listen(ctx context.Context, addr string, handler http.Handler, e *env) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("listening", "addr", addr, "transport", e.cfg.Server.Transport)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	e.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
