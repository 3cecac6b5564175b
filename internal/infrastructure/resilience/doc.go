// Package resilience provides a circuit breaker for upstream calls.
//
// The breaker opens once Trip reports too many failures, rejects calls with
// ErrCircuitOpen for the cooldown, then lets Probes calls through half-open.
// Successful probes close it again; a failed probe reopens it.
//
// Example Usage:
//
//	breaker := resilience.New("weather", resilience.Settings{Cooldown: 30 * time.Second})
//	report, err := resilience.Execute(breaker, func() (*Report, error) {
//		return client.fetch(ctx, query)
//	})
package resilience
