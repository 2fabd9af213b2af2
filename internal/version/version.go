// Package version carries ggrep's version string and --version display,
// grounded on the teacher's internal/version package: named constants, a
// plain String(), a colorized PaintedString(), and a PrintAndExit used
// from the CLI's -version flag. ggrep has no client/server protocol
// compatibility concern, so the protocol-version field is dropped and
// colorization takes an explicit flag instead of reading global config.
package version

import (
	"fmt"
	"os"

	"github.com/scanforge/ggrep/internal/color"
)

const (
	// Name of the program.
	Name string = "ggrep"
	// Version of the program.
	Version string = "1.0.0"
	// Additional is a short tagline shown alongside the version.
	Additional string = "GNU grep, generalized."
)

// String returns a plain, uncolored version line.
func String() string {
	return fmt.Sprintf("%s %s %s", Name, Version, Additional)
}

// PaintedString returns a color-formatted version line when colorize is
// true, matching the teacher's PaintedString but driven by an explicit
// flag (the --color resolution already done in cmd/ggrep) rather than a
// package-level config lookup.
func PaintedString(colorize bool) string {
	if !colorize {
		return String()
	}
	name := color.New("33", "01").Wrap(fmt.Sprintf(" %s ", Name))
	ver := color.New("34", "01").Wrap(fmt.Sprintf(" %s ", Version))
	additional := color.New("37", "04").Wrap(fmt.Sprintf(" %s ", Additional))
	return name + ver + additional
}

// Print writes the version line to stdout.
func Print(colorize bool) {
	fmt.Println(PaintedString(colorize))
}

// PrintAndExit prints the version line and exits 0, for -V/--version.
func PrintAndExit(colorize bool) {
	Print(colorize)
	os.Exit(0)
}
