package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stockgraph/core/cmd/api/middleware"
	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/handlers"
	"github.com/stockgraph/core/internal/loader"
	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/session"
	"github.com/stockgraph/core/internal/telemetry"
	"github.com/stockgraph/core/internal/watcher"
)

const (
	serviceName     = "stockgraph-api"
	shutdownTimeout = 10 * time.Second
)

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEnabled, cfg.OTelURL)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	preset, err := cfg.ResolvePreset()
	if err != nil {
		return err
	}

	ld := loader.New(
		loader.WithLogger(logger),
		loader.WithDefaultLinkValue(preset.DefaultLinkValue),
	)
	g, err := loadGraph(ctx, ld, cfg)
	if err != nil {
		return err
	}

	store := session.NewStore(session.WithStrictFocus(cfg.StrictFocus))
	srv := handlers.NewServer(g, preset,
		handlers.WithLogger(logger),
		handlers.WithStrictFocus(cfg.StrictFocus),
		handlers.WithSessionStore(store),
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(srv, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", cfg.Addr),
			zap.String("preset", preset.Name),
			zap.String("data", cfg.DataPath),
			zap.Int("nodes", len(g.Nodes)),
			zap.Int("links", len(g.Links)),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server stopping")
		return httpServer.Shutdown(shutdownCtx)
	})

	group.Go(func() error {
		expireSessions(gctx, store, cfg.SessionTTL, logger)
		return nil
	})

	if cfg.Watch {
		if loader.IsRemote(cfg.DataPath) {
			logger.Warn("watch ignored for remote data", zap.String("data", cfg.DataPath))
		} else {
			w, err := watcher.New(cfg.DataPath,
				watcher.WithLogger(logger),
				watcher.WithOnChange(func() { reload(gctx, ld, cfg, srv, logger) }),
				watcher.WithOnError(func(err error) {
					logger.Warn("data watch error", zap.Error(err))
				}),
			)
			if err != nil {
				return err
			}
			group.Go(func() error { return w.Run(gctx) })
		}
	}

	return group.Wait()
}

// newHandler wraps the server routes in the logging and CORS middleware.
func newHandler(srv *handlers.Server, cfg config.Config, logger *zap.Logger) http.Handler {
	var h http.Handler = srv.Routes()
	h = middleware.Cors(cfg.CORSOrigin)(h)
	h = middleware.Logging(logger)(h)
	return h
}

func loadGraph(ctx context.Context, ld *loader.Loader, cfg config.Config) (*models.Graph, error) {
	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}
	return ld.Load(ctx, cfg.DataPath)
}

// reload swaps in a freshly loaded graph. A failed load keeps the served graph.
func reload(ctx context.Context, ld *loader.Loader, cfg config.Config, srv *handlers.Server, logger *zap.Logger) {
	g, err := loadGraph(ctx, ld, cfg)
	if err != nil {
		logger.Error("reload failed, keeping current graph", zap.String("data", cfg.DataPath), zap.Error(err))
		return
	}
	srv.SetGraph(g)
	logger.Info("graph reloaded", zap.Int("nodes", len(g.Nodes)), zap.Int("links", len(g.Links)))
}

// expireSessions drops sessions older than ttl until ctx is done. A
// non-positive ttl keeps sessions forever.
func expireSessions(ctx context.Context, store *session.Store, ttl time.Duration, logger *zap.Logger) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(max(ttl/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Expire(now.Add(-ttl)); n > 0 {
				logger.Debug("sessions expired", zap.Int("count", n))
			}
		}
	}
}
