package format

import (
	"bytes"
	"testing"

	"github.com/scanforge/ggrep/internal/color"
	"github.com/scanforge/ggrep/internal/diag"
	"github.com/scanforge/ggrep/internal/matcher"
)

func newTestFormatter(opts Options) (*Formatter, *bytes.Buffer) {
	var out bytes.Buffer
	sink := diag.New(&out, &bytes.Buffer{}, false)
	return New(sink, opts, color.Capabilities{}), &out
}

func TestEmitPlainLineNoHead(t *testing.T) {
	f, out := newTestFormatter(Options{})
	f.Emit(Line{Filename: "t", LineNo: 1, Body: []byte("abc"), Selected: true})
	if out.String() != "abc\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestEmitWithFilenameAndLineNumber(t *testing.T) {
	f, out := newTestFormatter(Options{Head: HeadOptions{Filename: true, LineNumber: true}})
	f.Emit(Line{Filename: "f1", LineNo: 1, Body: []byte("hello"), Selected: true})
	want := "f1:1:hello\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestContextLineUsesDashSeparator(t *testing.T) {
	f, out := newTestFormatter(Options{Head: HeadOptions{Filename: true}})
	f.Emit(Line{Filename: "f1", LineNo: 1, Body: []byte("ctx"), Selected: false})
	if out.String() != "f1-ctx\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestGroupSeparatorBetweenNonAdjacentBlocks(t *testing.T) {
	f, out := newTestFormatter(Options{ContextRequested: true, GroupSeparator: "--"})
	f.Emit(Line{Filename: "f", LineNo: 1, Body: []byte("a"), Selected: true})
	f.Emit(Line{Filename: "f", LineNo: 10, Body: []byte("b"), Selected: true})
	want := "a\n--\nb\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestNoGroupSeparatorWhenAdjacent(t *testing.T) {
	f, out := newTestFormatter(Options{ContextRequested: true, GroupSeparator: "--"})
	f.Emit(Line{Filename: "f", LineNo: 1, Body: []byte("a"), Selected: true})
	f.Emit(Line{Filename: "f", LineNo: 2, Body: []byte("b"), Selected: true})
	want := "a\nb\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestOnlyMatchingEmitsOneLinePerMatch(t *testing.T) {
	p, err := matcher.NewFixedCompiler().Compile([]string{"a"}, matcher.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	f, out := newTestFormatter(Options{OnlyMatching: true})
	f.Emit(Line{Filename: "f", LineNo: 1, Body: []byte("banana"), Selected: true, Pattern: p})
	want := "a\na\na\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestEmitBinaryMatch(t *testing.T) {
	f, out := newTestFormatter(Options{})
	f.EmitBinaryMatch("b")
	if out.String() != "Binary file b matches\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestContextTrackerDrainAndRetain(t *testing.T) {
	c := NewContextTracker(1, 2)
	if !c.Requested() {
		t.Fatalf("expected Requested with before=1 after=2")
	}
	c.OnMatch()
	if !c.DrainOne() || !c.DrainOne() {
		t.Fatalf("expected two drains to succeed")
	}
	if c.DrainOne() {
		t.Fatalf("expected countdown exhausted after 2 drains")
	}
	if got := c.RetainCount(5); got != 1 {
		t.Errorf("got retain=%d, want 1 (capped by before=1)", got)
	}
	if got := c.RetainCount(0); got != 0 {
		t.Errorf("got retain=%d, want 0", got)
	}
}
