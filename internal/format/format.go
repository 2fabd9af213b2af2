// Package format implements the OutputFormatter described in spec.md
// §4.6: line-head composition (filename/line-number/byte-offset),
// colorization per GREP_COLORS capability, the selected/rejected field
// separator, group separators between non-adjacent blocks, and the
// only-matching substring walk.
//
// Every call funnels through an internal/diag.Sink so that concurrent
// workers never interleave a partially-written line, matching spec.md
// §5's "a single line is atomic" ordering guarantee.
package format

import (
	"bufio"
	"strconv"

	"github.com/scanforge/ggrep/internal/color"
	"github.com/scanforge/ggrep/internal/diag"
	"github.com/scanforge/ggrep/internal/matcher"
)

// HeadOptions toggles which fields precede the line body.
type HeadOptions struct {
	Filename   bool
	LineNumber bool
	ByteOffset bool
	NullName   bool // -Z: NUL instead of ':'/'-' after the filename
	InitialTab bool // -T
}

// Options configures a Formatter for one run.
type Options struct {
	Head             HeadOptions
	OnlyMatching     bool
	Invert           bool
	LineBuffered     bool
	ContextRequested bool   // any of -A/-B/-C given; gates group separators
	GroupSeparator   string // "" disables (--no-group-separator)
	Colorize         bool   // resolved --color decision (see internal/color)
	// Suppressed disables all per-line output, for -c/-l/-L/-q where the
	// caller only wants a match/no-match or line-count result and the
	// Scanner still needs to run unmodified to produce it.
	Suppressed bool
}

// Line is one line handed to the formatter: either a selected (matching,
// or non-matching-under-invert) line or a context line.
type Line struct {
	Filename   string
	LineNo     int
	ByteOffset int64
	Body       []byte // line content, without its trailing eol byte
	Selected   bool   // selected ("matching") vs. rejected (context)
	// Pattern is consulted to find every disjoint match within Body for
	// colorization and --only-matching. Left nil for context lines and
	// for invert-mode selected lines (there is no "the match" to
	// highlight: the line is selected for NOT matching).
	Pattern matcher.Pattern
}

// Formatter renders lines through a shared diag.Sink.
type Formatter struct {
	sink *diag.Sink
	opts Options
	caps color.Capabilities

	producedAny  bool
	lastFilename string
	lastLineNo   int
}

// New returns a Formatter writing through sink.
func New(sink *diag.Sink, opts Options, caps color.Capabilities) *Formatter {
	return &Formatter{sink: sink, opts: opts, caps: caps}
}

// Emit renders one line, taking the output lock for the duration. A
// no-op under Suppressed (-c/-l/-L/-q), so callers can always feed the
// Scanner's natural Emit calls regardless of output mode.
func (f *Formatter) Emit(l Line) {
	if f.opts.Suppressed {
		return
	}
	f.sink.Locked(func(w *bufio.Writer) {
		f.emitLocked(w, l)
	})
}

func (f *Formatter) emitLocked(w *bufio.Writer, l Line) {
	adjacent := l.Filename == f.lastFilename && f.producedAny && l.LineNo == f.lastLineNo+1
	if f.opts.ContextRequested && f.producedAny && !adjacent && f.opts.GroupSeparator != "" {
		f.writeGroupSeparatorLocked(w)
	}

	if f.opts.OnlyMatching && l.Selected && !f.opts.Invert && l.Pattern != nil {
		f.emitOnlyMatchingLocked(w, l)
	} else {
		f.writeHeadLocked(w, l)
		f.writeBodyLocked(w, l)
		w.WriteByte('\n')
	}

	f.producedAny = true
	f.lastFilename = l.Filename
	f.lastLineNo = l.LineNo

	if f.opts.LineBuffered {
		f.sink.FlushLocked(w)
	}
}

// EmitBinaryMatch writes the "Binary file X matches" summary line for a
// file classified binary with at least one match, per spec.md §4.3's
// end-of-file handling.
func (f *Formatter) EmitBinaryMatch(filename string) {
	if f.opts.Suppressed {
		return
	}
	f.sink.Locked(func(w *bufio.Writer) {
		w.WriteString("Binary file ")
		w.WriteString(filename)
		w.WriteString(" matches\n")
		f.producedAny = true
		if f.opts.LineBuffered {
			f.sink.FlushLocked(w)
		}
	})
}

func (f *Formatter) writeGroupSeparatorLocked(w *bufio.Writer) {
	sep := f.caps.Sep
	if f.opts.Colorize && !sep.IsZero() {
		w.WriteString(sep.Wrap(f.opts.GroupSeparator))
	} else {
		w.WriteString(f.opts.GroupSeparator)
	}
	w.WriteByte('\n')
}

// separatorByte returns the selected (':') or rejected ('-') field
// separator for a line.
func separatorByte(selected bool) byte {
	if selected {
		return ':'
	}
	return '-'
}

func (f *Formatter) writeHeadLocked(w *bufio.Writer, l Line) {
	sepByte := separatorByte(l.Selected)
	wroteField := false

	writeSep := func(end bool) {
		s := string(sepByte)
		if end && f.opts.Head.NullName {
			s = "\x00"
		}
		if f.opts.Colorize && !f.caps.Sep.IsZero() {
			w.WriteString(f.caps.Sep.Wrap(s))
		} else {
			w.WriteString(s)
		}
	}

	if f.opts.Head.Filename {
		if f.opts.Colorize && !f.caps.Filename.IsZero() {
			w.WriteString(f.caps.Filename.Wrap(l.Filename))
		} else {
			w.WriteString(l.Filename)
		}
		writeSep(true)
		wroteField = true
	}
	if f.opts.Head.LineNumber {
		num := strconv.Itoa(l.LineNo)
		if f.opts.Colorize && !f.caps.Line.IsZero() {
			w.WriteString(f.caps.Line.Wrap(num))
		} else {
			w.WriteString(num)
		}
		writeSep(false)
		wroteField = true
	}
	if f.opts.Head.ByteOffset {
		num := rjust(strconv.FormatInt(l.ByteOffset, 10), 6)
		if f.opts.Colorize && !f.caps.Byte.IsZero() {
			w.WriteString(f.caps.Byte.Wrap(num))
		} else {
			w.WriteString(num)
		}
		writeSep(false)
		wroteField = true
	}
	if wroteField && f.opts.Head.InitialTab {
		w.WriteString("\t\b")
	}
}

func rjust(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := make([]byte, width-len(s))
	for i := range pad {
		pad[i] = ' '
	}
	return string(pad) + s
}

// writeBodyLocked writes the line body, highlighting every disjoint
// match when colorization is on and this is a selected, non-invert line.
func (f *Formatter) writeBodyLocked(w *bufio.Writer, l Line) {
	lineCap := f.caps.LineCap(l.Selected, f.opts.Invert)

	if !f.opts.Colorize || l.Pattern == nil || f.opts.Invert || !l.Selected {
		writeMaybeWrapped(w, lineCap, l.Body)
		return
	}

	matchCap := f.caps.MatchCap(l.Selected)
	cursor := -1
	pos := 0
	for pos <= len(l.Body) {
		m, ok := l.Pattern.Execute(l.Body, cursor)
		if !ok || m.Offset >= len(l.Body) {
			break
		}
		writeMaybeWrapped(w, lineCap, l.Body[pos:m.Offset])
		end := m.Offset + m.Length
		if end > len(l.Body) {
			end = len(l.Body)
		}
		writeMaybeWrapped(w, matchCap, l.Body[m.Offset:end])
		pos = end
		cursor = end
		if m.Length == 0 {
			// step the search past an empty match; the byte at m.Offset
			// stays unwritten and goes out with the next segment.
			cursor = m.Offset + 1
		}
	}
	if pos < len(l.Body) {
		writeMaybeWrapped(w, lineCap, l.Body[pos:])
	}
}

func writeMaybeWrapped(w *bufio.Writer, c color.Cap, b []byte) {
	if len(b) == 0 {
		return
	}
	if c.IsZero() {
		w.Write(b)
		return
	}
	w.WriteString(c.Start())
	w.Write(b)
	w.WriteString(c.End())
}

// emitOnlyMatchingLocked implements --only-matching: iterate every
// disjoint match within the line, emitting each on its own head-prefixed
// line. A zero-width match advances the cursor by one byte and is not
// itself emitted, per spec.md §4.4's documented imprecision.
func (f *Formatter) emitOnlyMatchingLocked(w *bufio.Writer, l Line) {
	cursor := -1
	matchCap := f.caps.MatchCap(true)
	for {
		m, ok := l.Pattern.Execute(l.Body, cursor)
		if !ok || m.Offset >= len(l.Body) {
			return
		}
		if m.Length == 0 {
			cursor = m.Offset + 1
			continue
		}
		f.writeHeadLocked(w, l)
		writeMaybeWrapped(w, matchCap, l.Body[m.Offset:m.Offset+m.Length])
		w.WriteByte('\n')
		cursor = m.Offset + m.Length
	}
}
