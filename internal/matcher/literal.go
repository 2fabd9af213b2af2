package matcher

import (
	"bytes"
	"regexp"
)

// fixedCompiler implements -F: every pattern source is matched as a
// literal string rather than a regular expression. It is grounded on the
// teacher's internal/regex literal fast path (isLiteralPattern +
// bytes.Contains instead of invoking the regexp engine at all).
//
// -w/-x still need boundary/whole-line semantics that a bare bytes.Index
// can't express cheaply, so those cases are quoted with regexp.QuoteMeta
// and handed to the regex engine, matching the approach the sourcegraph
// searcher's compile() takes for IsWordMatch.
type fixedCompiler struct{}

// NewFixedCompiler returns the Compiler used for -F.
func NewFixedCompiler() Compiler { return fixedCompiler{} }

func (fixedCompiler) Compile(patterns []string, opts Options) (Pattern, error) {
	if opts.WordMatch || opts.LineMatch {
		quoted := make([]string, len(patterns))
		for i, p := range patterns {
			quoted[i] = regexp.QuoteMeta(p)
		}
		return regexCompiler{}.Compile(quoted, opts)
	}

	needles := make([][]byte, len(patterns))
	for i, p := range patterns {
		if opts.IgnoreCase {
			p = lowerASCII(p)
		}
		needles[i] = []byte(p)
	}
	return &literalPattern{needles: needles, ignoreCase: opts.IgnoreCase}, nil
}

type literalPattern struct {
	needles    [][]byte
	ignoreCase bool
}

func (p *literalPattern) Execute(buf []byte, cursor int) (Match, bool) {
	start := 0
	if cursor > 0 {
		start = cursor
	}
	if start > len(buf) {
		return Match{}, false
	}
	hay := buf[start:]
	if p.ignoreCase {
		hay = []byte(lowerASCIIBytes(hay))
	}

	best := -1
	bestLen := 0
	for _, n := range p.needles {
		if len(n) == 0 {
			continue
		}
		idx := bytes.Index(hay, n)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best {
			best = idx
			bestLen = len(n)
		}
	}
	if best == -1 {
		return Match{}, false
	}
	return Match{Offset: start + best, Length: bestLen}, true
}

func (p *literalPattern) Clone() Pattern {
	// literalPattern holds no mutable scratch state, so the receiver
	// itself is already safe to share; Clone still returns a fresh
	// value to honor the contract uniformly across Pattern kinds.
	needles := make([][]byte, len(p.needles))
	copy(needles, p.needles)
	return &literalPattern{needles: needles, ignoreCase: p.ignoreCase}
}

func (p *literalPattern) IsLiteral() bool { return true }

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func lowerASCIIBytes(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
