// Package cli backs the kennelctl command: a resty client for a running
// server and table printers for trees, nodes and session snapshots.
package cli
