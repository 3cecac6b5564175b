// Package id provides centralized ID generation for the backend.
//
// Window identifiers are prefixed ULIDs drawn from a monotonic entropy
// source, so two windows created within the same millisecond still sort in
// creation order and never collide.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// WindowID identifies an open desktop window
type WindowID string

// SessionID identifies a desktop session (one browser tab)
type SessionID string

const (
	WindowPrefix  = "win"
	SessionPrefix = "sess"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand with monotonic
// increments inside a single millisecond
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(rand.Reader)
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: ulid.Monotonic(entropy, 0),
		now:     time.Now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewWindowID generates a new window ID
func (g *Generator) NewWindowID() string {
	return g.GenerateWithPrefix(WindowPrefix)
}

// NewWindowID generates a window ID from the default generator
func NewWindowID() WindowID {
	return WindowID(Default().NewWindowID())
}

// NewSessionID generates a session ID. Sessions use UUIDs because they are
// handed to browsers and must not leak creation order.
func NewSessionID() SessionID {
	return SessionID(SessionPrefix + "_" + uuid.NewString())
}

func (id WindowID) String() string  { return string(id) }
func (id SessionID) String() string { return string(id) }

// Counter hands out "<prefix>-1", "<prefix>-2", ... and is safe for
// concurrent use. Tests use it for predictable window ids.
type Counter struct {
	prefix string
	n      atomic.Uint64
}

// NewCounter creates a counter-based generator
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// NewWindowID returns the next counter value
func (c *Counter) NewWindowID() string {
	return c.prefix + "-" + strconv.FormatUint(c.n.Add(1), 10)
}

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the timestamp from a ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
