package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/ticketgest/internal/api"
	"github.com/dgallion1/ticketgest/internal/config"
	"github.com/dgallion1/ticketgest/internal/loader"
	"github.com/dgallion1/ticketgest/internal/metrics"
	"github.com/dgallion1/ticketgest/internal/pathstore"
	"github.com/dgallion1/ticketgest/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	extractor := pipeline.NewExtractor(loader.Options{
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	}, m, log)

	// The store is optional; without it jobs finish after extraction.
	var (
		ps      *pathstore.Client
		store   pipeline.TicketStore
		tickets api.TicketBrowser
	)
	if cfg.StoreEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		store, tickets = ps, ps
	} else {
		log.Warn("PATHSTORE_URL not set, extracted tickets will not be stored")
	}

	orch := pipeline.NewOrchestrator(cfg, extractor, store, m, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, extractor, tickets, m, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		if ps != nil {
			ps.Close()
		}
	}()

	log.Info("starting ticketgest",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"store", cfg.StoreEnabled(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
