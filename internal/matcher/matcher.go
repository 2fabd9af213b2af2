// Package matcher implements the pluggable MatcherContract between the
// scanner and any compiled pattern: compile bytes into an opaque Pattern,
// then execute it against successive windows of a buffer. This is the one
// seam spec.md declares external/pluggable; ggrep ships a regexp/fixed-
// string realization of it grounded on the teacher's internal/regex
// literal-fast-path optimization and on the sourcegraph searcher's
// lowerRegexpASCII / literal-prefix pruning technique.
package matcher

// Match is the result of a successful Execute: the offset of the match
// (or, per the contract, of its containing line's first byte) relative to
// the buffer passed in, and the match's byte length. Zero-length matches
// are valid.
type Match struct {
	Offset int
	Length int
}

// Pattern is an opaque compiled pattern. It is not required to be safe for
// concurrent use; callers that need one Pattern per goroutine use Clone.
type Pattern interface {
	// Execute finds the first match at or after cursor within buf. When
	// cursor is -1, the search starts at buf's first byte and the
	// contract permits returning the offset of the *line* containing the
	// first match rather than the match itself (used by the line-level
	// MatchLoop); when cursor >= 0, Execute must return a match starting
	// at or after cursor within the same line (used by per-match
	// highlighting and -o iteration).
	Execute(buf []byte, cursor int) (Match, bool)

	// Clone returns a Pattern safe to use concurrently with the
	// receiver, as required by the per-worker pattern-clone design note
	// in spec.md §9.
	Clone() Pattern

	// IsLiteral reports whether this Pattern resolved to a fixed-string
	// fast path (no regex metacharacters), for diagnostics only.
	IsLiteral() bool
}

// Options configures how a set of pattern sources is compiled.
type Options struct {
	// IgnoreCase requests case-insensitive matching.
	IgnoreCase bool
	// WordMatch requires the match to fall on word boundaries (-w).
	WordMatch bool
	// LineMatch requires the match to span the entire line (-x).
	LineMatch bool
	// Invert is NOT applied inside Pattern.Execute; it is handled by the
	// MatchLoop, per spec.md §4.4's treatment of invert as a loop-level
	// policy rather than a matcher concern.
}

// Compiler turns one or more pattern sources (the accumulation of -e/-f
// arguments) into a single Pattern that matches if any alternative
// matches.
type Compiler interface {
	Compile(patterns []string, opts Options) (Pattern, error)
}
