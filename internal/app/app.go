// Package app assembles the service's entry points from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres"
	bookrepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/book"
	outboxrepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/outbox"
	referencerepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/reference"
	"github.com/heartmarshall/novelnest-inventory/internal/auth"
	"github.com/heartmarshall/novelnest-inventory/internal/service/book"
	"github.com/heartmarshall/novelnest-inventory/internal/service/reference"
	"github.com/heartmarshall/novelnest-inventory/internal/transport/middleware"
	"github.com/heartmarshall/novelnest-inventory/internal/transport/rest"
)

// Run starts the HTTP API and, when enabled, the in-process outbox forwarder.
// It blocks until SIGINT/SIGTERM or ctx cancellation, then drains in-flight
// requests within server.shutdown_timeout.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	inf, err := bootstrap(ctx, "server")
	if err != nil {
		return err
	}
	defer inf.close()

	cfg := inf.cfg
	dispatcher := inf.outboxService()

	refs := reference.NewService(inf.log, referencerepo.New(inf.pool), cfg.Reference, cfg.Books.MaxNameLength, postgres.InTx, postgres.IsTransient)
	books := book.NewService(inf.log, bookrepo.New(inf.pool), refs, outboxrepo.New(inf.pool), dispatcher, inf.tx, cfg.Books, postgres.IsTransient)

	var rateLimit middleware.Middleware
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		defer limiter.Stop()
		rateLimit = limiter.Limit()
	}

	handler := rest.NewRouter(rest.RouterDeps{
		Books: rest.NewBookHandler(books, inf.log, cfg.Books.HideForbidden, cfg.Server.MaxBodyBytes),
		Health: rest.NewHealthHandler(BuildVersion(),
			rest.HealthCheck{Name: "database", Ping: inf.pool, Critical: true},
			rest.HealthCheck{Name: "broker", Ping: inf.sender},
		),
		Logger:    inf.log,
		CORS:      middleware.CORS(cfg.CORS),
		Auth:      middleware.Auth(auth.NewJWTManager(cfg.Auth), inf.log),
		RateLimit: rateLimit,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(inf.log.Handler(), slog.LevelError),
	}

	var wg sync.WaitGroup
	if cfg.Outbox.ForwarderEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = dispatcher.Run(ctx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		inf.log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	inf.log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	inf.log.Info("stopped")
	return nil
}
