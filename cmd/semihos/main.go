package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"semihos/internal/cache"
	"semihos/internal/cli"
	apphttp "semihos/internal/http"
	"semihos/internal/log"
	"semihos/internal/lookup"
)

const cacheSweepInterval = 5 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	st, closeBackend, err := cli.OpenStore(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	searcher := lookup.NewSearcher(lookup.NewClient(cfg.LookupBaseURL, cfg.LookupTimeout), lookup.Options{
		Debounce: cfg.LookupDebounce,
		Timeout:  cfg.LookupTimeout,
		CacheTTL: cfg.LookupCacheTTL,
		Logger:   logger,
	})
	caches := cache.NewManager(logger)
	caches.Register(searcher.Cache())
	caches.StartCleanup(cacheSweepInterval)

	srv := apphttp.NewServer(":"+cfg.Port, st, searcher, logger)
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
		if err := closeBackend(); err != nil {
			logger.Error("Backend close error", log.FieldError, err)
		}
	})

	logger.Info("Starting semihos server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"timezone", cfg.Timezone,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
