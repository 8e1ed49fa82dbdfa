package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"visionatrix-exapp/internal/application/version"
	"visionatrix-exapp/internal/exapp/config"
	"visionatrix-exapp/internal/exapp/server"
	"visionatrix-exapp/pkg/log"
)

func main() {
	// Parse command line flags
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	envFile := flag.String("env-file", config.DefaultEnvFile, "Path to an optional .env file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Visionatrix ExApp version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if *showHelp {
		fmt.Println("Visionatrix ExApp")
		fmt.Println("Usage: exapp [options]")
		fmt.Println("Options:")
		fmt.Println("  --version   Show version information")
		fmt.Println("  --help      Show help information")
		fmt.Println("  --env-file  Path to an optional .env file (default: .env)")
		fmt.Println("Configuration is read from the AppAPI environment (APP_ID, APP_SECRET, NEXTCLOUD_URL, ...).")
		os.Exit(0)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.InitLog(cfg.LogLevel, cfg.LogFormat)

	srv, err := server.NewServer(cfg, server.Options{})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
		return
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
