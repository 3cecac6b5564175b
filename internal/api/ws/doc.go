// Package ws streams a desktop session to its browser tab.
//
// Every state change of the session is pushed as a snapshot frame. The tab
// applies the snapshot, sets its address fragment, and reports the resulting
// hashchange tagged with the snapshot's generation, so the session can tell
// its own echoes from user navigation.
//
// Message Types (Client → Server):
//   - open, menu, close, focus, minimize, maximize, move, chat, activate
//   - hashchange: {fragment, generation}
//   - ping: keep-alive, also marks the session active
//
// Message Types (Server → Client):
//   - snapshot: windows, active id, fragment and generation
//   - pong: reply to ping
//   - error: a frame could not be applied
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions).WithMetrics(metrics)
//	router.GET("/sessions/:id/stream", handler.HandleConnection)
package ws
