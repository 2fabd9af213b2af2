package constants

// Buffer sizing constants used by the sliding-window scanner.
const (
	// SentinelWidth is the number of bytes reserved immediately before the
	// window for the leading end-of-line sentinel (beg[-1] == eol byte).
	SentinelWidth = 1

	// WordWidth is the width, in bytes, of the widest word-at-a-time scan
	// this implementation performs (a uint64). The trailing sentinel run
	// past lim is zeroed out to this width.
	WordWidth = 8

	// InitialWindowSize is the initial capacity of a freshly allocated
	// Buffer window, before any growth.
	InitialWindowSize = 32 * 1024

	// MinGrowIncrement bounds how small a single growth step may be, so
	// that tiny files don't cause excessive reallocation churn.
	MinGrowIncrement = 8 * 1024

	// MaxSingleRead bounds a single Fill's read request so that one
	// pathological growth step can't demand a multi-gigabyte read.
	MaxSingleRead = 64 * 1024 * 1024
)
