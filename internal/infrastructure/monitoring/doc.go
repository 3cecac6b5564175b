// Package monitoring exposes Prometheus metrics for the kennel server.
//
// Metrics implements the recorder interfaces of the desktop, fragment and
// session packages, so one instance counts windows, fragment traffic and
// sessions alongside HTTP and websocket activity. Every instance registers on
// its own registry, served by Handler.
package monitoring
