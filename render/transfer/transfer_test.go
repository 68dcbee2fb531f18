package transfer

import "testing"

func TestDeferDrainAppliesOnlyTargetImage(t *testing.T) {
	e := New(nil)

	// Buffer is nil so WriteDirect's per-write loop skips the actual GPU
	// call; this test only exercises the per-image bookkeeping.
	e.Defer(0, Write{Buffer: nil, Offset: 0, Data: []byte("a")})
	e.Defer(1, Write{Buffer: nil, Offset: 0, Data: []byte("b")})

	if len(e.deferred[0]) != 1 || len(e.deferred[1]) != 1 {
		t.Fatalf("deferred map = %+v, want one write per image", e.deferred)
	}

	e.Drain(0)
	if _, ok := e.deferred[0]; ok {
		t.Fatal("Drain(0) did not clear image 0's queue")
	}
	if len(e.deferred[1]) != 1 {
		t.Fatal("Drain(0) must not affect image 1's queue")
	}
}
