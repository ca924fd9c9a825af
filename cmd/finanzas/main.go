package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/cli"
	"finanzas/internal/config"
	apphttp "finanzas/internal/http"
	applog "finanzas/internal/log"
	"finanzas/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger.Info("Starting finanzas", "backend", cfg.DataBackend, "port", cfg.Port)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.OpenRepository(ctx, logger, cfg)
	defer repo.Close()

	// Events are optional: without a broker the API keeps serving.
	var publisher services.EventPublisher
	if amqpClient := cli.ConnectAMQP(logger, cfg); amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	contracts := services.NewContractService(repo.Contracts, nil, publisher)
	ledger := services.NewLedgerService(repo.Categories, repo.Transactions, repo.Weeks, cfg.CacheTTL)

	caches := cache.NewManager()
	for _, c := range ledger.Caches() {
		caches.Register(c)
	}
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger.WithComponent(applog.ComponentHTTP),
	}, apphttp.Dependencies{
		Contracts: contracts,
		Ledger:    ledger,
		Clients:   repo.Clients,
		Avales:    repo.Avales,
		Store:     repo,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
