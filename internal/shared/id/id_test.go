package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateMonotonicWithinMillisecond(t *testing.T) {
	gen := NewGenerator()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	prev := gen.GenerateString()
	for i := 0; i < 100; i++ {
		next := gen.GenerateString()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}
}

func TestNewWindowID(t *testing.T) {
	id := NewWindowID().String()

	if !strings.HasPrefix(id, WindowPrefix+"_") {
		t.Errorf("ID should start with '%s_', got: %s", WindowPrefix, id)
	}

	parts := strings.SplitN(id, "_", 2)
	if !IsValid(parts[1]) {
		t.Errorf("ULID part should be valid: %s", parts[1])
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()

	if !strings.HasPrefix(a.String(), SessionPrefix+"_") {
		t.Errorf("unexpected session id %s", a)
	}
	if a == b {
		t.Error("session ids should be unique")
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter("w")

	if got := c.NewWindowID(); got != "w-1" {
		t.Errorf("expected w-1, got %s", got)
	}
	if got := c.NewWindowID(); got != "w-2" {
		t.Errorf("expected w-2, got %s", got)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers = 8
	const perWorker = 200

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.NewWindowID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique ids, got %d", workers*perWorker, len(seen))
	}
}

func TestTimestamp(t *testing.T) {
	gen := NewGenerator()
	before := time.Now().Add(-time.Second)

	ts, err := Timestamp(gen.GenerateString())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) {
		t.Errorf("timestamp %v is earlier than %v", ts, before)
	}

	if _, err := Timestamp("not-a-ulid"); err == nil {
		t.Error("expected error for invalid ulid")
	}
}
