package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/server"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides PORT)")
	tree := flag.String("tree", "", "Content tree YAML file (overrides CONTENT_TREE_FILE)")
	dev := flag.Bool("dev", false, "Development mode: colored debug logs")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *tree != "" {
		cfg.Content.TreeFile = *tree
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
		cfg.RateLimit.Enabled = false
	}

	log.Println("🐕 KennelOS - desktop service")

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-errChan:
		log.Printf("Server error: %v", err)
	}

	if err := srv.Close(); err != nil {
		log.Printf("Shutdown error: %v", err)
		os.Exit(1)
	}
}
