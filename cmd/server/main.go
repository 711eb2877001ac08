package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/splitml/internal/api"
	"github.com/dgallion1/splitml/internal/config"
	"github.com/dgallion1/splitml/internal/grouper"
	"github.com/dgallion1/splitml/internal/normalize"
	"github.com/dgallion1/splitml/internal/parser"
	"github.com/dgallion1/splitml/internal/pipeline"
	"github.com/dgallion1/splitml/internal/splitter"
	"github.com/dgallion1/splitml/internal/stats"
	"github.com/dgallion1/splitml/internal/tokenizer"
)

func main() {
	bootLog := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		bootLog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tok, err := tokenizer.New(cfg.Tokenizer, cfg.TokenizerEncoding)
	if err != nil {
		log.Error("failed to initialize tokenizer", "tokenizer", cfg.Tokenizer, "error", err)
		os.Exit(1)
	}

	split, err := splitter.New(normalize.NewMarkdown(), tok,
		splitter.WithMaxNodes(cfg.MaxNodes),
		splitter.WithResolver(parser.Resolver{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}),
		splitter.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to initialize splitter", "error", err)
		os.Exit(1)
	}
	group, err := grouper.New(tok,
		grouper.WithParallel(cfg.ParallelGrouping),
		grouper.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to initialize grouper", "error", err)
		os.Exit(1)
	}

	latency := stats.NewLatency(cfg.StatsWindow)
	p, err := pipeline.New(split, group, cfg.DefaultThresholds, latency, log)
	if err != nil {
		log.Error("failed to initialize pipeline", "error", err)
		os.Exit(1)
	}

	// Initialize job workers.
	orch := pipeline.NewOrchestrator(cfg, p, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, latency, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting splitml",
		"port", cfg.Port,
		"tokenizer", cfg.Tokenizer,
		"thresholds", cfg.DefaultThresholds,
		"auth", cfg.APIKey != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
