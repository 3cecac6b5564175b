/*
Package fragment keeps a desktop's focus and its tab's address fragment in
step.

Focus changes made by the window controller are written to the fragment in
external form (ourDogs#championRex). Changes the tab reports (address bar
edits, back/forward, shared links) are replayed into the controller as
Open(path, false, false).

# Echo suppression

A programmatic write makes the browser fire the same hashchange the
synchronizer listens for. Two guards keep that echo from reopening windows:

  - Each write bumps a generation. Snapshots carry it, and a change tagged
    with a generation we wrote is always an echo.
  - Each write arms a one-shot window (50ms by default, re-armed by every
    write). Untagged changes arriving while it is armed are ignored.

Timers come from an injected Clock so tests can drive them by hand.
*/
package fragment
