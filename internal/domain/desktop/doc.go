// Package desktop holds the open windows of one desktop and the rules that
// change them.
//
// A Store keeps windows in open order, which is also taskbar order, plus the
// id of the active window. Only the Controller mutates it. The active window
// is never minimized: minimizing or closing it refocuses the most recently
// opened visible window, or leaves nothing active.
//
// Every focus change the Controller makes is pushed to a FragmentSink so the
// tab's address fragment follows the active window. New windows are placed by
// a Placement; the default Cascade wraps inside the viewport when one is set.
//
// Example Usage:
//
//	store := desktop.NewStore()
//	ctrl := desktop.NewController(store, content.Default()).
//		WithPlacement(desktop.DefaultCascade(), desktop.Viewport{Width: 1280, Height: 800})
//	ctrl.Open("ourDogs.children.championRex", false, true)
package desktop
