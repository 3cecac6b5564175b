// Package server assembles the KennelOS HTTP server.
//
// This package wires every component:
//   - HTTP routing with Gin framework
//   - Middleware stack (recovery, request logging, metrics, CORS, rate limiting)
//   - Desktop session manager and its idle reaper
//   - Record store, photo gallery and weather providers
//   - gzip response compression, bypassed for websocket upgrades
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Initialize logger and metrics
//  3. Load the content tree (embedded or CONTENT_TREE_FILE)
//  4. Seed records and index the gallery
//  5. Setup HTTP routes and middleware
//  6. Start HTTP server and session reaper
//  7. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
