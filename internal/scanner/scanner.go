// Package scanner drives one input to completion: spec.md §4.3's Scanner
// (fill → classify → match → format → retain loop), §4.4's MatchLoop
// (per-line match/select decision), and §4.5's PendingDrain (trailing
// context countdown applied to the lines immediately following a
// match), tying together internal/buffer, internal/binary,
// internal/matcher and internal/format.
//
// Leading ("before") context is kept as a small ring of copied line
// records rather than as raw byte ranges inside the sliding Buffer: the
// Buffer only ever retains the true residue (the partial trailing line)
// between fill cycles, per spec.md §4.1's Retain. Copying a handful of
// short context lines is cheap and decouples context bookkeeping from
// buffer retention arithmetic — the one deliberate structural
// simplification in this package, noted in DESIGN.md.
package scanner

import (
	"bytes"
	"io"

	"github.com/scanforge/ggrep/internal/binary"
	"github.com/scanforge/ggrep/internal/buffer"
	"github.com/scanforge/ggrep/internal/format"
	"github.com/scanforge/ggrep/internal/holes"
	"github.com/scanforge/ggrep/internal/matcher"
)

// Config holds the per-scan options that aren't specific to one file.
type Config struct {
	Invert       bool
	MaxCount     int // <0 means unlimited; 0 scans nothing
	BinaryPolicy binary.Policy
	EOL          byte
	// OnFirstMatch, if set, is called the first time any line is
	// selected, before that line is even formatted — it implements
	// --exit-on-match (-q): the CLI wires this to terminate the process
	// immediately, per spec.md §4.4 step 5.
	OnFirstMatch func()
}

type lineRecord struct {
	lineNo int
	offset int64
	body   []byte
}

// Scanner drives a single WorkItem. It is not safe for concurrent use.
type Scanner struct {
	name     string
	r        io.Reader
	statSize int64
	hs       *holes.Seeker

	buf       *buffer.Buffer
	pattern   matcher.Pattern
	detector  *binary.Detector
	formatter *format.Formatter
	ctx       *format.ContextTracker

	cfg Config

	lineNo     int
	byteOffset int64
	linesLeft  int // -1 unlimited

	matched         bool
	firstMatch      bool
	selectedCount   int
	maxCountReached bool

	doneOnMatch bool
	outQuiet    bool

	beforeRing []lineRecord
}

// New returns a Scanner for one file. hs may be nil when hole-skipping
// isn't available or useful (e.g. stdin).
func New(name string, r io.Reader, statSize int64, hs *holes.Seeker, pattern matcher.Pattern, formatter *format.Formatter, ctx *format.ContextTracker, cfg Config) *Scanner {
	linesLeft := -1
	if cfg.MaxCount >= 0 {
		linesLeft = cfg.MaxCount
	}
	return &Scanner{
		name:      name,
		r:         r,
		statSize:  statSize,
		hs:        hs,
		buf:       buffer.New(statSize, cfg.EOL),
		pattern:   pattern,
		detector:  binary.NewDetector(cfg.BinaryPolicy),
		formatter: formatter,
		ctx:       ctx,
		cfg:       cfg,
		linesLeft: linesLeft,
	}
}

// Release returns the Scanner's Buffer storage to its pool. Call once,
// after Run returns.
func (s *Scanner) Release() {
	s.buf.Release()
}

// Run scans the file to completion, returning whether any line was
// selected and the first fatal I/O error encountered (if any read past
// the first failed).
func (s *Scanner) Run() (matched bool, err error) {
	if s.linesLeft == 0 {
		return false, nil
	}

	var hsIface buffer.HoleSkipper
	var hpIface binary.HoleProber
	if s.hs != nil {
		hsIface = s.hs
		hpIface = s.hs
	}

	classified := false
	for {
		_, ferr := s.buf.Fill(s.r, hsIface)

		if !classified {
			classified = true
			if s.detector.Classify(s.buf.Window(), s.statSize, hpIface) {
				if s.detector.Abandon() {
					return false, nil
				}
				s.doneOnMatch, s.outQuiet = s.detector.Outcome()
			}
		}
		if s.detector.ZapNuls() {
			s.buf.ZapNuls()
		}

		window := s.buf.Window()
		scanEnd := bytes.LastIndexByte(window, s.cfg.EOL) + 1

		if scanEnd > 0 {
			stop := s.scanLines(window[:scanEnd])
			s.buf.Retain(len(window) - scanEnd)
			if stop {
				break
			}
		}

		if ferr == io.EOF {
			if residue := s.buf.Window(); len(residue) > 0 {
				final := append(append([]byte(nil), residue...), s.cfg.EOL)
				s.scanLines(final)
			}
			break
		}
		if ferr != nil {
			return s.matched, ferr
		}
	}

	if s.detector.IsBinary() && s.detector.AnyMatch() {
		s.formatter.EmitBinaryMatch(s.name)
	}
	return s.matched, nil
}

// scanLines is MatchLoop + PendingDrain fused into one per-line pass
// over a boundary-aligned region (spec.md §4.4/§4.5): every complete
// line in region is classified as selected or context, formatted (or
// suppressed, under binary out_quiet), and folded into the trailing- and
// leading-context bookkeeping. It returns true when the scan should stop
// (max-count reached, or binary done_on_match fired).
func (s *Scanner) scanLines(region []byte) bool {
	base := s.byteOffset
	pos := 0
	for {
		idx := bytes.IndexByte(region[pos:], s.cfg.EOL)
		if idx < 0 {
			break
		}
		line := region[pos : pos+idx]
		lineOffset := base + int64(pos)
		pos += idx + 1

		if s.processLine(line, lineOffset) {
			s.byteOffset = base + int64(pos)
			return true
		}
	}
	s.byteOffset = base + int64(len(region))
	return false
}

func (s *Scanner) processLine(line []byte, offset int64) (stop bool) {
	s.lineNo++
	lineNo := s.lineNo

	if s.detector.IsBinary() && s.detector.Abandon() {
		return true
	}

	// Once max-count has been reached, no further line can be selected,
	// but trailing context already owed from the last counted match
	// still needs to drain (spec.md §4.3 step 7: lines_left==0 only
	// finishes once pending context is also exhausted).
	if s.maxCountReached {
		if s.ctx.DrainOne() && !s.outQuiet {
			s.formatter.Emit(format.Line{
				Filename:   s.name,
				LineNo:     lineNo,
				ByteOffset: offset,
				Body:       line,
				Selected:   false,
			})
		}
		return s.ctx.Pending() == 0
	}

	_, isMatch := s.pattern.Execute(line, -1)
	selected := isMatch != s.cfg.Invert

	if selected {
		s.ctx.OnMatch()
		s.flushBeforeRing()

		if s.detector.CheckEncoding(line) {
			s.detector.ForceBinary()
			s.doneOnMatch, s.outQuiet = s.detector.Outcome()
		}

		if !s.firstMatch {
			s.firstMatch = true
			if s.cfg.OnFirstMatch != nil {
				s.cfg.OnFirstMatch()
			}
		}
		s.matched = true
		s.selectedCount++
		s.detector.NoteMatch()

		if !s.outQuiet {
			var patt matcher.Pattern
			if !s.cfg.Invert {
				patt = s.pattern
			}
			s.formatter.Emit(format.Line{
				Filename:   s.name,
				LineNo:     lineNo,
				ByteOffset: offset,
				Body:       line,
				Selected:   true,
				Pattern:    patt,
			})
		}

		if s.linesLeft > 0 {
			s.linesLeft--
			if s.linesLeft == 0 {
				s.maxCountReached = true
				return s.ctx.Pending() == 0
			}
		}
		if s.doneOnMatch {
			return true
		}
		return false
	}

	if s.ctx.DrainOne() {
		if !s.outQuiet {
			s.formatter.Emit(format.Line{
				Filename:   s.name,
				LineNo:     lineNo,
				ByteOffset: offset,
				Body:       line,
				Selected:   false,
			})
		}
	} else if s.ctx.Before() > 0 {
		s.pushBefore(lineNo, offset, line)
	}
	return false
}

func (s *Scanner) pushBefore(lineNo int, offset int64, line []byte) {
	rec := lineRecord{lineNo: lineNo, offset: offset, body: append([]byte(nil), line...)}
	s.beforeRing = append(s.beforeRing, rec)
	if over := len(s.beforeRing) - s.ctx.Before(); over > 0 {
		s.beforeRing = s.beforeRing[over:]
	}
}

func (s *Scanner) flushBeforeRing() {
	for _, rec := range s.beforeRing {
		if !s.outQuiet {
			s.formatter.Emit(format.Line{
				Filename:   s.name,
				LineNo:     rec.lineNo,
				ByteOffset: rec.offset,
				Body:       rec.body,
				Selected:   false,
			})
		}
	}
	s.beforeRing = s.beforeRing[:0]
}

// Matched reports whether any line was selected, for summary/-c/-l/-L
// reporting by the caller once Run returns.
func (s *Scanner) Matched() bool { return s.matched }

// LineCount reports how many lines were selected, for -c.
func (s *Scanner) LineCount() int {
	return s.selectedCount
}
