package scanner

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/scanforge/ggrep/internal/binary"
	"github.com/scanforge/ggrep/internal/color"
	"github.com/scanforge/ggrep/internal/diag"
	"github.com/scanforge/ggrep/internal/format"
	"github.com/scanforge/ggrep/internal/matcher"
)

func run(t *testing.T, input string, pattern string, invert bool, head format.HeadOptions, before, after, maxCount int) (out string, matched bool) {
	t.Helper()
	p, err := matcher.NewRegexCompiler().Compile([]string{pattern}, matcher.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var buf bytes.Buffer
	sink := diag.New(&buf, &bytes.Buffer{}, false)
	f := format.New(sink, format.Options{
		Head:             head,
		Invert:           invert,
		ContextRequested: before > 0 || after > 0,
		GroupSeparator:   "--",
	}, color.Capabilities{})
	ctx := format.NewContextTracker(before, after)

	s := New("t", strings.NewReader(input), int64(len(input)), nil, p, f, ctx, Config{
		Invert:       invert,
		MaxCount:     maxCount,
		BinaryPolicy: binary.PolicyBinary,
		EOL:          '\n',
	})
	defer s.Release()
	m, err := s.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return buf.String(), m
}

func TestScenario1PlainMatch(t *testing.T) {
	out, matched := run(t, "abc\nabd\nabc\n", "abc", false, format.HeadOptions{}, 0, 0, -1)
	if out != "abc\nabc\n" || !matched {
		t.Fatalf("got %q matched=%v", out, matched)
	}
}

func TestScenario2InvertWithLineNumbers(t *testing.T) {
	out, matched := run(t, "abc\nabd\nabc\n", "abc", true, format.HeadOptions{LineNumber: true}, 0, 0, -1)
	if out != "2:abd\n" || !matched {
		t.Fatalf("got %q matched=%v", out, matched)
	}
}

func TestScenario4ContextAdjacencyMerges(t *testing.T) {
	out, matched := run(t, "aaa\nbbb\nccc\nbbb\nddd\n", "bbb", false, format.HeadOptions{}, 1, 1, -1)
	want := "aaa\nbbb\nccc\nbbb\nddd\n"
	if out != want || !matched {
		t.Fatalf("got %q, want %q (matched=%v)", out, want, matched)
	}
}

func TestScenario6MaxCountZeroScansNothing(t *testing.T) {
	out, matched := run(t, "foo\n", "foo", false, format.HeadOptions{}, 0, 0, 0)
	if out != "" || matched {
		t.Fatalf("got %q matched=%v, want no output and no match", out, matched)
	}
}

func TestMaxCountStopsSelectionButDrainsTrailingContext(t *testing.T) {
	out, _ := run(t, "m\nx\ny\nm\nz\n", "m", false, format.HeadOptions{}, 0, 1, 1)
	want := "m\nx\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestResidueLawSplitFillsProduceSameMatches(t *testing.T) {
	content := "line one\nline two with NEEDLE\nline three\nNEEDLE again\nlast\n"
	whole, _ := run(t, content, "NEEDLE", false, format.HeadOptions{LineNumber: true}, 0, 0, -1)

	// Simulate a two-chunk feed via an io.Reader that returns a short
	// first read, forcing Buffer.Fill to be called multiple times
	// across an arbitrary split point.
	p, err := matcher.NewRegexCompiler().Compile([]string{"NEEDLE"}, matcher.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var buf bytes.Buffer
	sink := diag.New(&buf, &bytes.Buffer{}, false)
	f := format.New(sink, format.Options{Head: format.HeadOptions{LineNumber: true}}, color.Capabilities{})
	ctx := format.NewContextTracker(0, 0)
	s := New("t", &chunkedReader{data: []byte(content), chunk: 7}, int64(len(content)), nil, p, f, ctx, Config{EOL: '\n', BinaryPolicy: binary.PolicyBinary, MaxCount: -1})
	defer s.Release()
	if _, err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.String() != whole {
		t.Fatalf("split-read output %q != single-shot output %q", buf.String(), whole)
	}
}

type chunkedReader struct {
	data  []byte
	pos   int
	chunk int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}
