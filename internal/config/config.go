package config

import (
	"fmt"

	"github.com/scanforge/ggrep/internal/binary"
	"github.com/scanforge/ggrep/internal/constants"
	"github.com/scanforge/ggrep/internal/walk"
)

const (
	// DefaultWorkers is used when -M is not given, or is given a value
	// of zero or less.
	DefaultWorkers = constants.DefaultWorkers
	// DefaultGroupSeparator is printed between non-adjacent context
	// blocks unless --no-group-separator or a custom separator is given.
	DefaultGroupSeparator = "--"
)

// MatcherKind selects which matcher.Compiler realization Config.Patterns
// should be compiled with.
type MatcherKind int

const (
	MatcherBasicRegexp MatcherKind = iota
	MatcherExtendedRegexp
	MatcherFixedStrings
	MatcherPerlRegexp // routed to the same RE2 engine as ExtendedRegexp
)

// Config is the single, immutable, fully-resolved configuration for one
// ggrep invocation: the result of applying GREP_OPTIONS and spec.md §6's
// defaults on top of the parsed Args (GREP_COLOR and GREP_COLORS are not
// part of it; cmd/ggrep resolves the color table itself). Built once by
// Setup and handed by pointer to internal/walk and internal/dispatch,
// mirroring the teacher's "build once in main, pass by pointer"
// Client/Server/Common convention collapsed to one role.
type Config struct {
	Patterns    []string
	PatternFile []string // pattern text already read from -f files
	Matcher     MatcherKind

	IgnoreCase bool
	WordRegexp bool
	LineRegexp bool
	Invert     bool

	Count             bool
	FilesWithMatches  bool
	FilesWithoutMatch bool
	Quiet             bool
	OnlyMatching      bool

	LineNumber   bool
	ByteOffset   bool
	WithFilename bool
	NoFilename   bool
	NullData     bool
	InitialTab   bool
	Label        string

	Before   int
	After    int
	MaxCount int // <0 means unlimited, matching scanner.Config's convention

	Recursive    bool
	Dereference  bool
	DirPolicy    walk.DirPolicy
	DevicePolicy walk.DevicePolicy
	Filter       walk.Filter

	BinaryPolicy binary.Policy

	Color      ColorMode
	NoMessages bool

	EOL byte // '\n' normally, 0x00 under -z

	LineBuffered     bool
	GroupSeparator   string
	ContextRequested bool

	Workers int

	Files []string
}

// Setup parses GREP_OPTIONS-prepended arguments (the caller is
// responsible for having merged them into args before flag parsing, the
// way the teacher's cmd/dgrep does with config.Setup(source, ...)),
// validates a, and returns the resolved Config. It returns an error
// rather than panicking on a malformed Args, unlike the teacher's
// config.Setup: cmd/ggrep decides whether a bad flag combination is
// fatal, matching spec.md §7 kind 1 (bad command-line) being a normal
// exit-status-2 condition rather than a process panic.
func Setup(a *Args) (*Config, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Patterns:          a.normalizedPatterns(),
		PatternFile:       a.PatternFiles,
		Matcher:           matcherKind(a),
		IgnoreCase:        a.IgnoreCase,
		WordRegexp:        a.WordRegexp,
		LineRegexp:        a.LineRegexp,
		Invert:            a.Invert,
		Count:             a.Count,
		FilesWithMatches:  a.FilesWithMatches,
		FilesWithoutMatch: a.FilesWithoutMatch,
		Quiet:             a.Quiet,
		OnlyMatching:      a.OnlyMatching,
		LineNumber:        a.LineNumber,
		ByteOffset:        a.ByteOffset,
		WithFilename:      a.WithFilename,
		NoFilename:        a.NoFilename,
		NullData:          a.NullData,
		InitialTab:        a.InitialTab,
		Label:             a.Label,
		Before:            resolveContext(a.Before, a.After, true),
		After:             resolveContext(a.Before, a.After, false),
		MaxCount:          resolveMaxCount(a.MaxCount, a.MaxCountSet),
		Recursive:         a.Recursive,
		Dereference:       a.Dereference,
		DirPolicy:         dirPolicy(a),
		DevicePolicy:      devicePolicy(a),
		Filter: walk.Filter{
			Include:     a.Include,
			Exclude:     a.Exclude,
			ExcludeDirs: a.ExcludeDir,
		},
		BinaryPolicy:     binaryPolicy(a),
		Color:            resolveColorMode(a.Color),
		NoMessages:       a.NoMessages,
		EOL:              resolveEOL(a.ZeroTerminatedLines),
		LineBuffered:     a.LineBuffered,
		GroupSeparator:   resolveGroupSeparator(a),
		ContextRequested: a.Before > 0 || a.After > 0,
		Workers:          resolveWorkers(a.Workers),
		Files:            a.Files,
	}
	return cfg, nil
}

func matcherKind(a *Args) MatcherKind {
	switch {
	case a.FixedStrings:
		return MatcherFixedStrings
	case a.PerlRegexp:
		return MatcherPerlRegexp
	case a.ExtendedRegexp:
		return MatcherExtendedRegexp
	default:
		return MatcherBasicRegexp
	}
}

func resolveContext(before, after int, wantBefore bool) int {
	if wantBefore {
		return before
	}
	return after
}

// resolveMaxCount maps -m onto scanner.Config's convention (negative
// means unlimited). An explicit "-m 0" must reach the scanner as a
// literal 0, not unlimited: spec.md §6 requires it to short-circuit the
// scan to exit status 1, not match the whole file.
func resolveMaxCount(m int, set bool) int {
	if !set || m < 0 {
		return -1
	}
	return m
}

func dirPolicy(a *Args) walk.DirPolicy {
	switch a.DirAction {
	case DirActionSkip:
		return walk.DirSkip
	case DirActionRecurse:
		return walk.DirRecurse
	case DirActionRead:
		return walk.DirRead
	default:
		if a.Recursive || a.Dereference {
			return walk.DirRecurse
		}
		return walk.DirRead
	}
}

func devicePolicy(a *Args) walk.DevicePolicy {
	if a.DeviceAction == DeviceActionSkip {
		return walk.DeviceSkip
	}
	return walk.DeviceRead
}

func binaryPolicy(a *Args) binary.Policy {
	switch {
	case a.Text:
		return binary.PolicyText
	case a.NoMatchBinary:
		return binary.PolicyWithoutMatch
	case a.BinaryFiles == BinaryFilesText:
		return binary.PolicyText
	case a.BinaryFiles == BinaryFilesWithoutMatch:
		return binary.PolicyWithoutMatch
	default:
		return binary.PolicyBinary
	}
}

func resolveColorMode(m ColorMode) ColorMode {
	switch m {
	case ColorAlways, ColorNever:
		return m
	default:
		return ColorAuto
	}
}

func resolveEOL(zeroTerminated bool) byte {
	if zeroTerminated {
		return 0x00
	}
	return '\n'
}

func resolveGroupSeparator(a *Args) string {
	if a.NoGroupSeparator {
		return ""
	}
	if a.GroupSeparator != "" {
		return a.GroupSeparator
	}
	return DefaultGroupSeparator
}

func resolveWorkers(n int) int {
	if n <= 0 {
		return DefaultWorkers
	}
	return n
}

// String renders a compact diagnostic summary, matching the teacher's
// Args.String() debug helper.
func (c *Config) String() string {
	return fmt.Sprintf("Config(patterns=%v,invert=%v,ignoreCase=%v,before=%d,after=%d,maxCount=%d,workers=%d)",
		c.Patterns, c.Invert, c.IgnoreCase, c.Before, c.After, c.MaxCount, c.Workers)
}
