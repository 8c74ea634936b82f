// Command analyzer-function serves the serverless-style HTTP wrapper: it
// accepts workbook uploads, invokes the analyzer binary as a subprocess,
// and relays the subprocess stdout and exit code as the HTTP response.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/config"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/function"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/infrastructure"
)

func main() {
	if err := run(); err != nil {
		slog.Error("analyzer-function terminated", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureUploadDir(); err != nil {
		return err
	}

	invoker := function.NewAnalyzerInvoker(cfg.Analysis.AnalyzerBin, logger)
	handler := function.NewHandler(cfg, invoker, logger)

	router := chi.NewRouter()
	router.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("analyzer function listening",
			slog.String("addr", server.Addr),
			slog.String("analyzer_bin", cfg.Analysis.AnalyzerBin))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down analyzer function")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	infrastructure.CloseLogFile()
	return nil
}
