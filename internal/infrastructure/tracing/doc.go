/*
Package tracing provides lightweight request tracing for the desktop API.

# Overview

Every HTTP request runs inside a span. A trace started by the browser (or by
a proxy in front of the server) is continued when the request carries an
X-Trace-ID header, and the span id is returned in X-Span-ID so a tab can
correlate its own logs with server logs.

# Features

  - Trace context propagation via HTTP headers
  - Spans tagged with the desktop session and window they act on
  - ULID trace and span ids
  - Buffered span collection with structured logging

# Usage

	tracer := tracing.New("kennelos", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

Outgoing calls forward the trace:

	req.SetHeaders(tracing.Headers(ctx))
*/
package tracing
