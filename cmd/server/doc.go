// Package main is the entry point for the KennelOS desktop service.
//
// The service hosts one window desktop per browser tab. Each tab's address
// fragment is kept in sync with its focused window so that deep links,
// back/forward navigation and shared URLs reopen the same content.
//
// The server provides:
//   - REST API for the content tree and desktop sessions
//   - WebSocket streaming of session snapshots
//   - Dog, contact, gallery and weather content endpoints
//   - Prometheus metrics at /metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level, no rate limit)
//	./server -dev -tree ./kennel.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
