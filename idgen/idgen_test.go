package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7Unique(t *testing.T) {
	gen := UUIDv7()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestPrefixed(t *testing.T) {
	id := RunID()
	if !strings.HasPrefix(id, "run_") {
		t.Fatalf("expected run_ prefix, got %q", id)
	}
	if len(id) <= len("run_") {
		t.Fatalf("expected non-empty suffix, got %q", id)
	}
}
