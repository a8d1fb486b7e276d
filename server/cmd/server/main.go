package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/obsidianstack/graphcast/internal/logging"
	"github.com/obsidianstack/graphcast/server/internal/api"
	"github.com/obsidianstack/graphcast/server/internal/broadcast"
	"github.com/obsidianstack/graphcast/server/internal/config"
	"github.com/obsidianstack/graphcast/server/internal/metrics"
	"github.com/obsidianstack/graphcast/server/internal/source"
	"github.com/obsidianstack/graphcast/server/internal/store"
	"github.com/obsidianstack/graphcast/server/internal/web"
	"github.com/obsidianstack/graphcast/server/internal/ws"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file; empty uses built-in defaults")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger, logCloser := logging.New(os.Stdout, cfg.Server.Log)
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Info("graphcast-server starting",
		"config", *configPath,
		"http_port", cfg.Server.HTTPPort,
		"ws_path", cfg.Server.WSPath,
		"data_path", cfg.Server.Data.Path,
		"interval", cfg.Server.Data.Interval,
		"watch", cfg.Server.Data.Watch,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("graphcast-server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("graphcast-server shut down")
}

func run(ctx context.Context, cfg *config.Config) error {
	s := cfg.Server

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if s.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Held snapshot: written by refresh, read by broadcast and the API.
	st := store.New()
	refresher := source.New(s.Data.Path, st, m)

	hub := ws.New(ws.Options{
		Buffer:        s.Broadcast.Buffer,
		SendOnConnect: s.Broadcast.SendOnConnect,
		Latest:        st.Encode,
		Metrics:       m,
	})
	bc := broadcast.New(refresher, st, hub, s.Data.Interval, m)

	httpSrv := &http.Server{
		Addr: fmt.Sprintf(":%d", s.HTTPPort),
		Handler: web.New(web.Options{
			WSPath:      s.WSPath,
			Hub:         hub,
			API:         api.New(st, refresher, hub),
			MetricsPath: s.Metrics.Path,
			Metrics:     metricsHandler,
			UIDir:       s.UIDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bc.Run(gctx)
		return nil
	})

	if s.Data.Watch {
		// A failed watch only loses the early nudge; polling continues.
		g.Go(func() error {
			err := source.Watch(gctx, s.Data.Path, func() {
				refresher.Refresh() //nolint:errcheck // logged by the refresher
			})
			if err != nil {
				slog.Error("source watcher stopped", "path", s.Data.Path, "err", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		slog.Info("WebSocket server listening", "addr", fmt.Sprintf("ws://localhost:%d%s", s.HTTPPort, s.WSPath))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
