// Package config collapses the CLI surface of spec.md §6 into one
// immutable Config, built once in cmd/ggrep/main.go.
//
// Grounded on the teacher's internal/config: an Args struct populated by
// flag.*Var calls in main, a Setup function applying env-over-defaults
// precedence and validating/normalizing the result before the rest of
// the program reads it. The teacher splits Args/Setup three ways
// (Client/Server/Common) because one dtail binary can run as either
// role; ggrep has exactly one process role; local file scanning, so
// that split collapses into a single Config.
package config

import (
	"fmt"
	"strings"
)

// BinaryFilesPolicy mirrors the three spellings --binary-files accepts.
type BinaryFilesPolicy string

const (
	BinaryFilesBinary      BinaryFilesPolicy = "binary"
	BinaryFilesText        BinaryFilesPolicy = "text"
	BinaryFilesWithoutMatch BinaryFilesPolicy = "without-match"
)

// ColorMode mirrors --color's three spellings.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DirAction mirrors -d's three spellings.
type DirAction string

const (
	DirActionRead    DirAction = "read"
	DirActionRecurse DirAction = "recurse"
	DirActionSkip    DirAction = "skip"
)

// DeviceAction mirrors -D's two spellings.
type DeviceAction string

const (
	DeviceActionRead DeviceAction = "read"
	DeviceActionSkip DeviceAction = "skip"
)

// Args is populated directly by flag.*Var calls in cmd/ggrep/main.go,
// mirroring the teacher's own Args struct: one field per command-line
// flag, no derived state. Setup turns this into a validated Config.
type Args struct {
	Patterns     []string // accumulated -e values
	PatternFiles []string // accumulated -f values
	FirstOperand string   // the bare pattern argument, when no -e/-f given
	Files        []string // remaining operands after the pattern

	ExtendedRegexp bool // -E
	FixedStrings   bool // -F
	BasicRegexp    bool // -G (default)
	PerlRegexp     bool // -P

	IgnoreCase bool // -i
	WordRegexp bool // -w
	LineRegexp bool // -x
	Invert     bool // -v

	Count             bool // -c
	FilesWithMatches  bool // -l
	FilesWithoutMatch bool // -L
	Quiet             bool // -q
	OnlyMatching      bool // -o

	LineNumber bool // -n
	ByteOffset bool // -b
	WithFilename bool // -H
	NoFilename   bool // -h
	NullData     bool // -Z
	InitialTab   bool // -T
	Label        string

	Before   int // -B / -C
	After    int // -A / -C
	MaxCount int // -m

	// MaxCountSet distinguishes -m never given (MaxCount is unlimited)
	// from an explicit "-m 0" (stop after zero matches, i.e. scan
	// nothing). The flag package's zero value for MaxCount can't carry
	// that distinction on its own.
	MaxCountSet bool

	Recursive  bool // -r
	Dereference bool // -R
	DirAction    DirAction
	DeviceAction DeviceAction

	Include     []string
	Exclude     []string
	ExcludeFrom []string
	ExcludeDir  []string

	BinaryFiles BinaryFilesPolicy
	Text        bool // -a, shorthand for --binary-files=text
	NoMatchBinary bool // -I, shorthand for --binary-files=without-match

	Color ColorMode
	NoMessages bool // -s

	ZeroTerminatedLines bool // -z: NUL-separated input lines; output lines still end in '\n'

	LineBuffered      bool
	GroupSeparator    string
	NoGroupSeparator  bool

	Workers int // -M, 0 means "use the default"
}

// normalizedPatterns returns every source of pattern text (-e, -f file
// contents already read into PatternFiles by the caller, and a bare
// first operand) flattened into one ordered list, matching GNU grep's
// "all -e/-f accumulate, OR'd together" contract.
func (a *Args) normalizedPatterns() []string {
	patterns := append([]string(nil), a.Patterns...)
	if len(patterns) == 0 && a.FirstOperand != "" {
		patterns = append(patterns, a.FirstOperand)
	}
	return patterns
}

func (a *Args) validate() error {
	kinds := 0
	for _, set := range []bool{a.ExtendedRegexp, a.FixedStrings, a.BasicRegexp, a.PerlRegexp} {
		if set {
			kinds++
		}
	}
	if kinds > 1 {
		return fmt.Errorf("only one of -E/-F/-G/-P may be given")
	}
	if a.Count && a.OnlyMatching {
		return fmt.Errorf("-c and -o are mutually exclusive")
	}
	if len(a.normalizedPatterns()) == 0 {
		return fmt.Errorf("no pattern given")
	}
	return nil
}

func (a *Args) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Args(patterns=%v,files=%v,invert=%v,ignoreCase=%v,count=%v,max=%d)",
		a.normalizedPatterns(), a.Files, a.Invert, a.IgnoreCase, a.Count, a.MaxCount)
	return sb.String()
}
