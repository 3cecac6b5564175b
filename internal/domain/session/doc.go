// Package session owns the live desktops, one per browser tab.
//
// A Session wires a window store, its lifecycle controller, and a fragment
// synchronizer over the tab's address fragment. Commands from HTTP and
// websocket callers are serialized by the session so they apply one at a
// time, in arrival order, and every command is followed by a Snapshot to
// subscribers.
//
// Example Usage:
//
//	manager := session.NewManager(content.Default(), session.Config{InitialPath: "ourDogs"})
//	s, err := manager.Create(session.Options{Fragment: "ourDogs#championRex"})
//	snap, err := s.Open("contactInfo", false, true)
package session
