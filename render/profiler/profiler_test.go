package profiler

import "testing"

func TestTickReturnsFalseBeforeInterval(t *testing.T) {
	p := New()
	if p.Tick() {
		t.Fatal("Tick() on a fresh profiler before the update interval elapsed: want false")
	}
}
