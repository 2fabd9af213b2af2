package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// regexCompiler compiles BRE/ERE/Perl-flavored pattern text via Go's RE2
// engine. -P is accepted and routed here too: RE2 covers the large
// majority of everyday Perl-style patterns, but backreferences and
// lookaround are rejected at compile time with a diagnostic rather than
// silently mismatching, since no PCRE binding appears anywhere in the
// example pack (see DESIGN.md).
type regexCompiler struct{}

// NewRegexCompiler returns the default Compiler used for -E/-G/-P.
func NewRegexCompiler() Compiler { return regexCompiler{} }

func (regexCompiler) Compile(patterns []string, opts Options) (Pattern, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("matcher: no patterns given")
	}
	exprs := make([]string, len(patterns))
	for i, p := range patterns {
		exprs[i] = wrapExpr(p, opts)
	}
	joined := strings.Join(exprs, "|")
	if opts.IgnoreCase {
		joined = "(?i)" + joined
	}
	// Consider newlines as part of the input for anchors, since the
	// scanner may hand the matcher multi-line ranges (spec.md §4.4).
	joined = "(?m:" + joined + ")"

	re, err := regexp.Compile(joined)
	if err != nil {
		return nil, fmt.Errorf("matcher: invalid pattern: %w", err)
	}
	return &regexPattern{re: re}, nil
}

func wrapExpr(p string, opts Options) string {
	if opts.LineMatch {
		return "^(?:" + p + ")$"
	}
	if opts.WordMatch {
		return `\b(?:` + p + `)\b`
	}
	return "(?:" + p + ")"
}

type regexPattern struct {
	re *regexp.Regexp
}

func (p *regexPattern) Execute(buf []byte, cursor int) (Match, bool) {
	start := 0
	if cursor > 0 {
		start = cursor
	}
	if start > len(buf) {
		return Match{}, false
	}
	loc := p.re.FindIndex(buf[start:])
	if loc == nil {
		return Match{}, false
	}
	return Match{Offset: start + loc[0], Length: loc[1] - loc[0]}, true
}

func (p *regexPattern) Clone() Pattern {
	return &regexPattern{re: p.re.Copy()}
}

func (p *regexPattern) IsLiteral() bool { return false }
