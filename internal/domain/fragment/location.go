package fragment

import (
	"strings"
	"sync"
)

// Location is the address fragment of one browser tab
type Location interface {
	Fragment() string
	SetFragment(fragment string)
}

// MemoryLocation holds the fragment of a tab server-side. The tab itself
// learns about writes through session snapshots.
type MemoryLocation struct {
	mu       sync.Mutex
	fragment string
}

// NewMemoryLocation creates a location with an initial fragment. A leading
// '#' is stripped.
func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{fragment: strings.TrimPrefix(initial, "#")}
}

// Fragment returns the current fragment without the leading '#'
func (l *MemoryLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

// SetFragment replaces the fragment
func (l *MemoryLocation) SetFragment(fragment string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fragment = strings.TrimPrefix(fragment, "#")
}
