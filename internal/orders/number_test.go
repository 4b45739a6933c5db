package orders

import (
	"regexp"
	"testing"
	"time"
)

func TestNumberGeneratorFormat(t *testing.T) {
	g := &RandomNumberGenerator{now: func() time.Time {
		return time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	}}

	pattern := regexp.MustCompile(`^ORD-20260831-[0-9A-F]{8}$`)
	n := g.Next()
	if !pattern.MatchString(n) {
		t.Errorf("number %q does not match expected format", n)
	}
}

func TestNumberGeneratorUniqueness(t *testing.T) {
	g := NewNumberGenerator()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		n := g.Next()
		if _, dup := seen[n]; dup {
			t.Fatalf("duplicate number after %d draws: %s", i, n)
		}
		seen[n] = struct{}{}
	}
}
