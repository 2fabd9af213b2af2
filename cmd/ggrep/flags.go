package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
)

// multiFlag accumulates every occurrence of a repeatable flag (-e, -f,
// --include, --exclude, --exclude-dir) in the order given, matching GNU
// grep's own "each occurrence adds, none replace" convention for these.
type multiFlag []string

func (m *multiFlag) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// symmetricContext implements -C NUM by writing the same value into both
// the before and after context depths. Flags apply in command-line order
// (flag.FlagSet's last-occurrence-wins rule), so an -A or -B given after
// -C overrides its half, while one given before -C is overwritten by it.
type symmetricContext struct {
	before *int
	after  *int
}

func (s *symmetricContext) String() string { return "" }

func (s *symmetricContext) Set(v string) error {
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fmt.Errorf("invalid -C value %q: %w", v, err)
	}
	*s.before = n
	*s.after = n
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [OPTION]... PATTERN [FILE]...\n", progName)
		flag.PrintDefaults()
	}
}

// readPatternFile reads one pattern per line from path; every line,
// including an empty one, becomes an alternative pattern.
func readPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file %s: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		patterns = append(patterns, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading pattern file %s: %w", path, err)
	}
	return patterns, nil
}
