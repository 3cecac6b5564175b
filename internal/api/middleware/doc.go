// Package middleware provides the HTTP middleware of the kennel server.
//
//   - CORS: cross-origin access for the desktop front end
//   - RateLimit: per-IP token buckets, evicted after IdleTTL
//   - GlobalRateLimit: one token bucket for all callers
//   - Logger: zap request logging
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
