package rlimit

import "testing"

func TestNoFileReturnsPositive(t *testing.T) {
	if n := NoFile(); n <= 0 {
		t.Fatalf("got %d, want a positive descriptor limit", n)
	}
}
