// Package binary implements the BinaryDetector described in spec.md
// §4.2: a per-file NUL/hole probe run once on the first filled window,
// an encoding-error probe run per matched line, and the policy table
// that the two probes drive (spec.md's "binary (default)" / "text" /
// "without-match" handling of --binary-files).
package binary

import (
	"bytes"
	"unicode/utf8"
)

// Policy selects how a detected binary file is handled, set by
// --binary-files (and its -a/-I shorthands).
type Policy int

const (
	// PolicyBinary is the default: a match still happens, but output is
	// suppressed in favor of a single "Binary file X matches" line.
	PolicyBinary Policy = iota
	// PolicyText disables detection entirely; binary content is
	// searched and printed like any other.
	PolicyText
	// PolicyWithoutMatch abandons a file the moment it looks binary,
	// reporting zero matches for it.
	PolicyWithoutMatch
)

// HoleProber is consulted when the first window shows no NUL but the
// file is larger than what's been read, to catch sparse files whose
// first hole falls past the initial read. Satisfied by
// internal/holes.Seeker.
type HoleProber interface {
	HasHoleAhead(end int64) (bool, bool)
}

// Detector tracks one file's binary classification across its scan.
type Detector struct {
	policy Policy

	classified bool
	binary     bool
	anyMatch   bool

	encodingErrorSeen bool
}

// NewDetector returns a Detector applying the given policy.
func NewDetector(policy Policy) *Detector {
	return &Detector{policy: policy}
}

// IsBinary reports the file's classification once Classify has run; it
// is false (and stays false) when policy is PolicyText.
func (d *Detector) IsBinary() bool { return d.binary }

// EncodingErrorSeen reports whether CheckEncoding ever flagged a line,
// mirroring ScanContext.encoding_error_seen.
func (d *Detector) EncodingErrorSeen() bool { return d.encodingErrorSeen }

// NoteMatch records that at least one match happened while the file is
// (or may turn out to be) binary, so the "Binary file X matches" summary
// line knows whether to print.
func (d *Detector) NoteMatch() { d.anyMatch = true }

// AnyMatch reports whether NoteMatch was ever called.
func (d *Detector) AnyMatch() bool { return d.anyMatch }

// Classify runs the NUL probe on the first filled window of a file and
// sticks the result for the rest of the scan; subsequent calls are
// no-ops that just return the cached verdict. window is the live buffer
// window immediately after the first Fill; statSize is the file's stat
// size (0 if unknown, e.g. a pipe); hp is consulted only when the first
// window contains no NUL but more of the file remains unread, to catch a
// hole that falls past the initial read (spec.md §4.2).
func (d *Detector) Classify(window []byte, statSize int64, hp HoleProber) bool {
	if d.classified {
		return d.binary
	}
	d.classified = true

	if d.policy == PolicyText {
		return false
	}

	if bytes.IndexByte(window, 0) >= 0 {
		d.binary = true
		return true
	}

	if hp != nil && statSize > int64(len(window)) {
		if hasHole, ok := hp.HasHoleAhead(statSize); ok && hasHole {
			d.binary = true
		}
	}
	return d.binary
}

// ForceBinary marks the file binary outside the NUL probe, used when the
// encoding-error probe flags a matched line (spec.md §4.2's "same as NUL
// detect" outcome for an encoding error).
func (d *Detector) ForceBinary() {
	d.binary = true
}

// Outcome reports the two ScanContext flags a binary classification
// drives: doneOnMatch (stop scanning once any match has happened) and
// outQuiet (suppress all but the summary line).
func (d *Detector) Outcome() (doneOnMatch, outQuiet bool) {
	switch d.policy {
	case PolicyText:
		return false, false
	case PolicyWithoutMatch:
		return true, true
	default: // PolicyBinary
		return true, true
	}
}

// Abandon reports whether, under the configured policy, a file flagged
// binary should be abandoned outright (zero matches reported) rather
// than scanned with suppressed output.
func (d *Detector) Abandon() bool {
	return d.binary && d.policy == PolicyWithoutMatch
}

// maxEncodingProbe bounds how much of an over-long line the encoding
// probe inspects; grep-style tools cap this rather than decode
// arbitrarily long binary-looking lines rune by rune.
const maxEncodingProbe = 64 * 1024

// CheckEncoding runs the encoding-error probe on a matched line, per
// spec.md §4.2: decode rune by rune and flag the line if any byte
// sequence is invalid. It is a no-op (always returns false) under
// PolicyText, matching the "ignore" row of the policy table, and the
// probe is skipped entirely once a file has already been classified
// binary by the NUL probe (there's no need to find a second reason).
func (d *Detector) CheckEncoding(line []byte) bool {
	if d.policy == PolicyText || d.binary {
		return false
	}
	if len(line) > maxEncodingProbe {
		line = line[:maxEncodingProbe]
	}
	if utf8.Valid(line) {
		return false
	}
	d.encodingErrorSeen = true
	return true
}

// ZapNuls reports whether subsequent windows should have their NUL bytes
// rewritten to the eol byte before matching, per spec.md's "once flagged
// as binary, replace every NUL ... (zap_nuls)".
func (d *Detector) ZapNuls() bool {
	return d.binary
}
