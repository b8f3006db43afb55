package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"text-editor-server/internal/config"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/lock"
	"text-editor-server/internal/mcpsrv"
	"text-editor-server/internal/service"
	"text-editor-server/internal/transport"
)

func main() {
	// Stdout belongs to the stdio/mcp transports; everything else goes to
	// stderr.
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	svc, err := service.New(filesystem.NewOSAdapter(), lock.NewFlockManager(), cfg, logger)
	if err != nil {
		logger.Fatalf("failed to create editor service: %v", err)
	}

	logger.Printf("text-editor starting: transport=%s base_dir=%s", cfg.Transport, cfg.BaseDirectory)

	switch cfg.Transport {
	case "mcp":
		srv := mcpsrv.NewEditorMCPServer(svc)
		if err := srv.Serve(); err != nil {
			logger.Fatalf("mcp server error: %v", err)
		}
	case "stdio":
		h := transport.NewStdioHandler(svc, logger)
		if err := h.Start(os.Stdin, os.Stdout); err != nil {
			logger.Fatalf("stdio handler error: %v", err)
		}
	case "http":
		runHTTP(svc, cfg, logger)
	}
}

func runHTTP(svc service.EditorService, cfg *config.Config, logger *log.Logger) {
	h := transport.NewHTTPHandler(svc, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.StartServer(cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server error: %v", err)
		}
	case sig := <-sigCh:
		logger.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Server.Shutdown(ctx); err != nil {
			logger.Printf("graceful shutdown failed: %v", err)
		}
	}
}
