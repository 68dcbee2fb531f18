package main

import "testing"

func TestInfoReturnsZero(t *testing.T) {
	res, err := info(nil)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if res != 0 {
		t.Fatalf("info exit code = %d, want 0", res)
	}
}
