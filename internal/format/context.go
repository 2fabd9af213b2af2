package format

// ContextTracker implements spec.md §4.5 (PendingDrain) and the leading-
// context half of §4.3 step 8: how many trailing-context lines remain to
// be emitted after the last match, and how many leading lines to retain
// before the next match so they can be printed as "before" context.
//
// Grounded on spec.md's own ScanContext fields (pending_after,
// out_before/out_after counts come from the CLI's -A/-B/-C values).
type ContextTracker struct {
	before int // -B / -C lines to retain ahead of a match
	after  int // -A / -C lines to emit following a match

	pending int // remaining trailing-context lines owed right now
}

// NewContextTracker returns a tracker for the given -B and -A depths (a
// -C value is the caller's job to apply to both).
func NewContextTracker(before, after int) *ContextTracker {
	return &ContextTracker{before: before, after: after}
}

// Requested reports whether any context was configured at all, gating
// group-separator behavior per spec.md §4.6.
func (c *ContextTracker) Requested() bool {
	return c.before > 0 || c.after > 0
}

// OnMatch resets the trailing-context countdown to the configured -A/-C
// depth, called once a selected line has been emitted.
func (c *ContextTracker) OnMatch() {
	c.pending = c.after
}

// DrainOne reports whether another trailing-context line should be
// emitted right now, and decrements the countdown if so. Call once per
// candidate non-matching line following a match.
func (c *ContextTracker) DrainOne() bool {
	if c.pending <= 0 {
		return false
	}
	c.pending--
	return true
}

// Pending reports the remaining trailing-context countdown, carried over
// into the next fill cycle when a scan boundary is hit mid-drain.
func (c *ContextTracker) Pending() int {
	return c.pending
}

// SetPending restores a countdown carried over from a previous fill
// cycle (spec.md §4.3 step 9's retained state across Buffer.Retain).
func (c *ContextTracker) SetPending(n int) {
	c.pending = n
}

// RetainCount reports how many trailing lines of a just-scanned region
// should be kept as leading context for the next match, capped at the
// configured -B/-C depth.
func (c *ContextTracker) RetainCount(availableLines int) int {
	if availableLines > c.before {
		return c.before
	}
	return availableLines
}

// Before and After expose the configured depths, e.g. for pre-sizing a
// leading-context ring buffer in the Scanner.
func (c *ContextTracker) Before() int { return c.before }
func (c *ContextTracker) After() int  { return c.after }
