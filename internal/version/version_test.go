package version

import (
	"strings"
	"testing"
)

func TestStringContainsNameAndVersion(t *testing.T) {
	s := String()
	if !strings.Contains(s, Name) || !strings.Contains(s, Version) {
		t.Fatalf("got %q, want it to contain %q and %q", s, Name, Version)
	}
}

func TestPaintedStringPlainWhenNotColorized(t *testing.T) {
	if got := PaintedString(false); got != String() {
		t.Fatalf("got %q, want plain String() %q", got, String())
	}
}

func TestPaintedStringAddsEscapesWhenColorized(t *testing.T) {
	got := PaintedString(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("got %q, want it to contain an escape sequence", got)
	}
	if !strings.Contains(got, Name) {
		t.Fatalf("got %q, want it to still contain %q", got, Name)
	}
}
