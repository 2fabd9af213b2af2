// Command ggrep is a line-oriented pattern search tool generalized from
// GNU grep's text-processing pipeline (spec.md): a sliding-window
// Scanner with binary-file detection, configurable context lines, an
// OutputFormatter with GREP_COLORS support, and a bounded worker pool
// fanning out across every file a directory walk discovers.
//
// Grounded on the teacher's cmd/dgrep/main.go: flags populate a single
// Args struct, Setup resolves it into an immutable Config, -version
// short-circuits before any work starts, CPU/memory profiling wraps the
// run, and the final exit status is computed once everything has
// drained and passed to os.Exit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/scanforge/ggrep/internal/color"
	"github.com/scanforge/ggrep/internal/config"
	"github.com/scanforge/ggrep/internal/diag"
	"github.com/scanforge/ggrep/internal/dispatch"
	"github.com/scanforge/ggrep/internal/format"
	"github.com/scanforge/ggrep/internal/matcher"
	"github.com/scanforge/ggrep/internal/profiling"
	"github.com/scanforge/ggrep/internal/queue"
	"github.com/scanforge/ggrep/internal/scanner"
	"github.com/scanforge/ggrep/internal/version"
	"github.com/scanforge/ggrep/internal/walk"
)

const progName = "ggrep"

func main() {
	args, displayVersion, prof := parseFlags()

	if displayVersion {
		version.PrintAndExit(shouldColorize(args.Color))
	}

	profiler := profiling.NewProfiler(prof.ToConfig(progName))

	cfg, err := config.Setup(args)
	if err != nil {
		diag.FatalExit(progName, err)
	}

	pattern, err := compilePattern(cfg)
	if err != nil {
		diag.FatalExit(progName, err)
	}

	status := run(cfg, pattern)
	profiler.Stop()
	os.Exit(status)
}

// parseFlags populates config.Args from the command line, honoring the
// legacy GREP_OPTIONS environment variable by prepending its expansion
// ahead of the real argv, matching GNU grep's own precedence (explicit
// arguments still override anything GREP_OPTIONS sets, since flag
// parsing keeps the last occurrence of a flag).
func parseFlags() (*config.Args, bool, *profiling.Flags) {
	var a config.Args
	var displayVersion bool
	var prof profiling.Flags
	var include, exclude, excludeDir, patternFiles, patterns multiFlag
	var binaryFiles, colorMode, dirAction, deviceAction string

	flag.Var(&patterns, "e", "pattern to match (may be given more than once)")
	flag.Var(&patternFiles, "f", "read patterns from file (may be given more than once)")
	flag.BoolVar(&a.ExtendedRegexp, "E", false, "interpret pattern as an extended regular expression")
	flag.BoolVar(&a.FixedStrings, "F", false, "interpret pattern as fixed strings")
	flag.BoolVar(&a.BasicRegexp, "G", false, "interpret pattern as a basic regular expression (default)")
	flag.BoolVar(&a.PerlRegexp, "P", false, "interpret pattern as a Perl-compatible regular expression")

	flag.BoolVar(&a.IgnoreCase, "i", false, "ignore case distinctions")
	flag.BoolVar(&a.WordRegexp, "w", false, "match only whole words")
	flag.BoolVar(&a.LineRegexp, "x", false, "match only whole lines")
	flag.BoolVar(&a.Invert, "v", false, "select non-matching lines")

	flag.BoolVar(&a.Count, "c", false, "print only a count of matching lines per file")
	flag.BoolVar(&a.FilesWithMatches, "l", false, "print only names of files containing a match")
	flag.BoolVar(&a.FilesWithoutMatch, "L", false, "print only names of files containing no match")
	flag.BoolVar(&a.Quiet, "q", false, "suppress all output, exit status only")
	flag.BoolVar(&a.OnlyMatching, "o", false, "print only the matched parts of a line")

	flag.BoolVar(&a.LineNumber, "n", false, "prefix each line with its line number")
	flag.BoolVar(&a.ByteOffset, "b", false, "print the byte offset of each matched line")
	flag.BoolVar(&a.WithFilename, "H", false, "always print filename headers")
	flag.BoolVar(&a.NoFilename, "h", false, "never print filename headers")
	flag.BoolVar(&a.NullData, "Z", false, "print a NUL byte instead of ':' or '-' after the file name in line headers")
	flag.BoolVar(&a.InitialTab, "T", false, "align matches with an initial tab")
	flag.StringVar(&a.Label, "label", "", "label for standard input in headers")

	flag.IntVar(&a.Before, "B", 0, "print NUM lines of leading context")
	flag.IntVar(&a.After, "A", 0, "print NUM lines of trailing context")
	flag.Var(&symmetricContext{&a.Before, &a.After}, "C", "print NUM lines of leading and trailing context")
	flag.IntVar(&a.MaxCount, "m", 0, "stop reading a file after NUM matching lines")

	flag.BoolVar(&a.Recursive, "r", false, "recurse into directories")
	flag.BoolVar(&a.Dereference, "R", false, "recurse into directories, following symlinks")
	flag.StringVar(&dirAction, "d", "", "directory action: read, recurse, skip")
	flag.StringVar(&deviceAction, "D", "", "device file action: read, skip")

	flag.Var(&include, "include", "only search files matching GLOB")
	flag.Var(&exclude, "exclude", "skip files matching GLOB")
	flag.Var(&excludeDir, "exclude-dir", "skip directories matching GLOB")

	flag.StringVar(&binaryFiles, "binary-files", "", "binary file handling: binary, text, without-match")
	flag.BoolVar(&a.Text, "a", false, "process binary files as text (shorthand for --binary-files=text)")
	flag.BoolVar(&a.NoMatchBinary, "I", false, "skip binary files (shorthand for --binary-files=without-match)")

	flag.StringVar(&colorMode, "color", "", "color output: auto, always, never")
	flag.BoolVar(&a.NoMessages, "s", false, "suppress error messages about nonexistent or unreadable files")

	flag.BoolVar(&a.ZeroTerminatedLines, "z", false, "input lines are NUL-terminated (output lines still end in a newline)")

	flag.BoolVar(&a.LineBuffered, "line-buffered", false, "flush output after every line")
	flag.StringVar(&a.GroupSeparator, "group-separator", "", "separator between non-adjacent context blocks")
	flag.BoolVar(&a.NoGroupSeparator, "no-group-separator", false, "suppress the context-block separator")

	flag.IntVar(&a.Workers, "M", 0, "number of files to scan concurrently (default 1)")
	flag.BoolVar(&displayVersion, "V", false, "print version information and exit")
	flag.BoolVar(&displayVersion, "version", false, "print version information and exit")

	profiling.AddFlags(&prof)

	// GREP_OPTIONS is deprecated but still honored: its expansion is
	// prepended ahead of the real argv so explicit flags, parsed after
	// it, take precedence on any flag.FlagSet's last-occurrence-wins
	// rule.
	os.Args = append([]string{os.Args[0]}, append(config.GrepOptionsArgs(), os.Args[1:]...)...)
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "m" {
			a.MaxCountSet = true
		}
	})

	a.Patterns = []string(patterns)
	a.PatternFiles = []string(patternFiles)
	a.Include = []string(include)
	a.Exclude = []string(exclude)
	a.ExcludeDir = []string(excludeDir)
	a.BinaryFiles = config.BinaryFilesPolicy(binaryFiles)
	a.Color = config.ColorMode(colorMode)
	a.DirAction = config.DirAction(dirAction)
	a.DeviceAction = config.DeviceAction(deviceAction)

	rest := flag.Args()
	if len(a.Patterns) == 0 && len(a.PatternFiles) == 0 && len(rest) > 0 {
		a.FirstOperand = rest[0]
		rest = rest[1:]
	}
	a.Files = rest

	for _, path := range a.PatternFiles {
		pats, err := readPatternFile(path)
		if err != nil {
			diag.FatalExit(progName, err)
		}
		a.Patterns = append(a.Patterns, pats...)
	}

	return &a, displayVersion, &prof
}

// compilePattern selects the matcher.Compiler for cfg.Matcher and
// compiles every accumulated pattern into one alternation, per spec.md
// §4.2's "-e/-f values OR together" contract.
func compilePattern(cfg *config.Config) (matcher.Pattern, error) {
	kind := matcher.KindBasic
	switch cfg.Matcher {
	case config.MatcherExtendedRegexp:
		kind = matcher.KindExtended
	case config.MatcherFixedStrings:
		kind = matcher.KindFixed
	case config.MatcherPerlRegexp:
		kind = matcher.KindPerl
	}
	compiler := matcher.CompilerFor(kind)
	return compiler.Compile(cfg.Patterns, matcher.Options{
		IgnoreCase: cfg.IgnoreCase,
		WordMatch:  cfg.WordRegexp,
		LineMatch:  cfg.LineRegexp,
	})
}

// run wires the walk -> queue -> dispatch -> format pipeline end to end
// and returns the process exit status.
func run(cfg *config.Config, pattern matcher.Pattern) int {
	sink := diag.New(os.Stdout, os.Stderr, cfg.NoMessages)

	caps := resolveCapabilities()
	colorize := shouldColorize(cfg.Color)

	suppressed := cfg.Count || cfg.FilesWithMatches || cfg.FilesWithoutMatch || cfg.Quiet

	formatter := format.New(sink, format.Options{
		Head: format.HeadOptions{
			Filename:   showFilenames(cfg),
			LineNumber: cfg.LineNumber,
			ByteOffset: cfg.ByteOffset,
			NullName:   cfg.NullData,
			InitialTab: cfg.InitialTab,
		},
		OnlyMatching:     cfg.OnlyMatching,
		Invert:           cfg.Invert,
		LineBuffered:     cfg.LineBuffered,
		ContextRequested: cfg.ContextRequested,
		GroupSeparator:   cfg.GroupSeparator,
		Colorize:         colorize,
		Suppressed:       suppressed,
	}, caps)

	q := queue.New(queueCapacity(cfg))

	var outInfo os.FileInfo
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode().IsRegular() {
		outInfo = fi
	}

	w := walk.New(q, walk.Options{
		Recursive:    cfg.Recursive,
		RecurseLinks: cfg.Dereference,
		DirPolicy:    cfg.DirPolicy,
		DevicePolicy: cfg.DevicePolicy,
		Filter:       cfg.Filter,
		OutputInfo:   outInfo,
		Label:        cfg.Label,
	}, func(path string, err error) {
		sink.Diagnostic(progName, fmt.Sprintf("%s: %s", path, err))
	})

	go w.Run(cfg.Files)

	pool := dispatch.New(q, sink, dispatch.Options{
		Workers: cfg.Workers,
		Pattern: pattern,
		ScannerCfg: scanner.Config{
			Invert:       cfg.Invert,
			MaxCount:     cfg.MaxCount,
			BinaryPolicy: cfg.BinaryPolicy,
			EOL:          cfg.EOL,
			OnFirstMatch: onFirstMatch(cfg),
		},
		ContextBefore: cfg.Before,
		ContextAfter:  cfg.After,
		Formatter:     formatter,
	})

	summaries, anyMatch := pool.Run()
	reportSummaries(sink, cfg, summaries)
	sink.ReportWriteErrorOnce(progName)
	return dispatch.WorstStatus(sink, anyMatch)
}

// onFirstMatch implements -q's "exit immediately on the first match"
// contract: under -q the process has nothing left to compute once one
// line has been selected anywhere, so it exits on the spot rather than
// waiting for the rest of the pipeline to drain. Every other mode
// returns nil; their first match is just one more Summary entry.
func onFirstMatch(cfg *config.Config) func() {
	if !cfg.Quiet {
		return nil
	}
	return func() {
		os.Exit(0)
	}
}

// reportSummaries prints the -c/-l/-L aggregate results that dispatch.Pool
// deliberately leaves to the caller, since those modes render once per
// file after scanning rather than once per line during it.
func reportSummaries(sink *diag.Sink, cfg *config.Config, summaries []dispatch.Summary) {
	if cfg.Quiet || (!cfg.Count && !cfg.FilesWithMatches && !cfg.FilesWithoutMatch) {
		return
	}
	sink.Locked(func(w *bufio.Writer) {
		for _, s := range summaries {
			switch {
			case cfg.FilesWithMatches:
				if s.Matched {
					fmt.Fprintf(w, "%s\n", s.Path)
				}
			case cfg.FilesWithoutMatch:
				if !s.Matched {
					fmt.Fprintf(w, "%s\n", s.Path)
				}
			case cfg.Count:
				fmt.Fprintf(w, "%s:%d\n", s.Path, s.Count)
			}
		}
	})
}

func showFilenames(cfg *config.Config) bool {
	if cfg.WithFilename {
		return true
	}
	if cfg.NoFilename {
		return false
	}
	if cfg.DirPolicy == walk.DirRecurse {
		return true
	}
	return len(cfg.Files) > 1
}

func resolveCapabilities() color.Capabilities {
	caps := color.ParseGrepColors(os.Getenv("GREP_COLORS"))
	return caps.ApplyLegacyGrepColor(os.Getenv("GREP_COLOR"))
}

func shouldColorize(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func queueCapacity(cfg *config.Config) int {
	base := queue.DefaultCapacity()
	if cfg.Workers > base {
		return cfg.Workers * 2
	}
	return base
}
