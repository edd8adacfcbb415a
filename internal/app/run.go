package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/devconsole/internal/bridge"
	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/queue"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// session is one connected bridge. Every method runs on the owner goroutine.
type session struct {
	owner   context.Context
	inbox   *queue.Queue[map[string]string]
	adapter *bridge.Adapter
}

// tick dispatches inbound messages received since the last tick, then lets
// the adapter forward logs and save.
func (s *session) tick() {
	s.inbox.DrainOnce()
	s.adapter.Tick(s.owner)
}

func (s *session) close() {
	s.adapter.Destroy()
}

// start connects the host and initializes the bridge.
func (a *App) start(ctx context.Context) (*session, error) {
	s := &session{}
	s.inbox = queue.New(func(msg map[string]string) {
		s.adapter.Dispatch(s.owner, msg)
	})

	host, err := a.dial(ctx, a.model.Host, s.inbox)
	if err != nil {
		return nil, fmt.Errorf("failed to connect native host: %w", err)
	}

	s.adapter = bridge.New(bridge.Options{
		Registry: a.registry,
		Host:     host,
		Store:    a.store,
		Tap:      a.tap,
		Metrics:  a.metrics,
		Logger:   a.logger,
		OnOpen:   func() { a.logger.Info("Native console opened.") },
		OnClose:  func() { a.logger.Info("Native console closed.") },
	})
	s.owner = s.adapter.Init(ctx)
	return s, nil
}

// Run connects the bridge and ticks it until ctx is cancelled. The health
// check server, when enabled, runs alongside the tick loop.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	s, err := a.start(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.HealthcheckPort > 0 {
		a.serveHealthcheck(gctx, g, a.cfg.HealthcheckPort)
	}
	g.Go(func() error {
		return a.tickLoop(gctx, s)
	})

	err = g.Wait()
	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

func (a *App) tickLoop(ctx context.Context, s *session) error {
	interval := a.model.Console.TickInterval
	a.logger.Info("Console running.", "tick_interval", interval, "save_path", a.store.Path())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick()
		}
	}
}

// serveHealthcheck runs the health and metrics server in g and shuts it down
// when ctx is done.
func (a *App) serveHealthcheck(ctx context.Context, g *errgroup.Group, port int) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health check server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
