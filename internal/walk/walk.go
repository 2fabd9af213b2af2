// Package walk implements the WorkQueue producer side of spec.md §5: it
// turns the command-line file/directory arguments into a stream of
// queue.WorkItem values, honoring recursion, directory/device policy and
// path filters, then enqueues each opened file for the dispatch pool.
//
// Grounded on the teacher's internal/server/handlers/readcommand.go,
// which resolves a glob argument to a path list and fans a goroutine out
// per path (readGlob/readFiles/readFileIfPermissions). dtail never walks
// a directory tree itself — every argument is already a concrete file or
// a shell glob — so the recursive-descent half of this package has no
// direct teacher analogue; it is built from spec.md's own traversal
// contract, using the same "resolve path, open, hand off" shape the
// teacher uses for its glob-expanded path list.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/scanforge/ggrep/internal/constants"
	"github.com/scanforge/ggrep/internal/holes"
	"github.com/scanforge/ggrep/internal/queue"
)

// DirPolicy controls how a directory argument is handled (-d).
type DirPolicy int

const (
	DirRead DirPolicy = iota
	DirRecurse
	DirSkip
)

// DevicePolicy controls how a non-regular, non-directory file (FIFO,
// socket, device node) argument is handled (-D).
type DevicePolicy int

const (
	DeviceRead DevicePolicy = iota
	DeviceSkip
)

// Filter decides whether a path should be walked into (directories) or
// read (files), per --include/--exclude/--exclude-dir.
type Filter struct {
	Include     []string
	Exclude     []string
	ExcludeDirs []string
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// allowFile reports whether a regular file's base name passes the
// include/exclude filters. An empty Include list admits everything not
// excluded.
func (f Filter) allowFile(name string) bool {
	if len(f.Include) > 0 && !matchAny(f.Include, name) {
		return false
	}
	return !matchAny(f.Exclude, name)
}

// allowDir reports whether a directory's base name passes --exclude-dir.
func (f Filter) allowDir(name string) bool {
	return !matchAny(f.ExcludeDirs, name)
}

// Options configures one walk over the command-line arguments.
type Options struct {
	Recursive    bool // -r: follow symlinked directories named explicitly, recurse
	RecurseLinks bool // -R: also follow symlinks discovered while recursing
	DirPolicy    DirPolicy
	DevicePolicy DevicePolicy
	Filter       Filter

	// OutputInfo identifies the file the matching output is being written
	// to (spec.md §5's "never read the file currently being written to
	// as output" guard), or nil if output isn't a regular file (e.g. a
	// pipe or terminal). Compared against a candidate via os.SameFile,
	// which resolves to a device+inode check on unix.
	OutputInfo os.FileInfo

	// Label, if non-empty, replaces the default "-" as the display path
	// attached to stdin's WorkItem (--label).
	Label string

	// SpillDir is the directory spilled path batches are written to
	// (os.TempDir() if empty).
	SpillDir string
}

// Walker enqueues WorkItems for every path argument, applying Options,
// then closes q once every argument has been fully processed.
type Walker struct {
	q        *queue.Queue
	opts     Options
	visited  map[string]bool // resolved symlink targets, cycle guard
	onError  func(path string, err error)
	onEnqueu func(path string) // hook for readahead / diagnostics, test seam

	spill   *queue.SpillFile
	pending []string // paths not yet flushed to spill
}

// New returns a Walker that enqueues onto q. onError is called (and may
// be nil) for every path that cannot be opened or stat'd; it never stops
// the walk.
func New(q *queue.Queue, opts Options, onError func(path string, err error)) *Walker {
	return &Walker{
		q:       q,
		opts:    opts,
		visited: make(map[string]bool),
		onError: onError,
	}
}

// Run walks every argument in order and enqueues a WorkItem per regular
// file selected, then closes the queue. args mirrors grep's own
// convention: a bare "-" means stdin.
func (w *Walker) Run(args []string) {
	defer w.q.Close()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		w.walkArg(arg, true)
	}
	w.drainSpill()
}

// walkArg processes one top-level command-line argument. topLevel is
// true only for the literal arguments passed to Run, never for entries
// discovered while recursing — directories named directly on the command
// line are descended into even without -r/-R per historical grep
// behavior only when DirPolicy is DirRecurse; DirRead/DirSkip apply to
// explicit directory arguments the same as to discovered ones.
func (w *Walker) walkArg(path string, topLevel bool) {
	if path == "-" {
		w.enqueueStdin()
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		w.fail(path, err)
		return
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, rerr := filepath.EvalSymlinks(path)
		if rerr != nil {
			w.fail(path, rerr)
			return
		}
		if !topLevel && !w.opts.RecurseLinks {
			return
		}
		if w.visited[target] {
			return
		}
		w.visited[target] = true
		info, err = os.Stat(path)
		if err != nil {
			w.fail(path, err)
			return
		}
	}

	switch {
	case info.IsDir():
		w.walkDir(path)
	case info.Mode().IsRegular():
		w.openAndEnqueue(path, info)
	default:
		if w.opts.DevicePolicy == DeviceSkip {
			return
		}
		w.openAndEnqueue(path, info)
	}
}

func (w *Walker) walkDir(dir string) {
	switch w.opts.DirPolicy {
	case DirSkip:
		return
	case DirRead:
		w.fail(dir, fs.ErrInvalid)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.fail(dir, err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		child := filepath.Join(dir, name)
		if entry.IsDir() {
			if !w.opts.Filter.allowDir(name) {
				continue
			}
			w.walkArg(child, false)
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			w.walkArg(child, false)
			continue
		}
		if !w.opts.Filter.allowFile(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			w.fail(child, err)
			continue
		}
		if info.Mode().IsRegular() {
			w.openAndEnqueue(child, info)
		} else if w.opts.DevicePolicy != DeviceSkip {
			w.openAndEnqueue(child, info)
		}
	}
}

// openAndEnqueue opens a discovered regular file and hands it to the
// queue. When the queue is currently full (queue.Queue.Full), it defers
// the open entirely and spills the bare path instead of blocking on
// Enqueue with an open descriptor already in hand — see spillPath.
func (w *Walker) openAndEnqueue(path string, info os.FileInfo) {
	if w.isOutputFile(info) {
		return
	}
	if w.q.Full() {
		w.spillPath(path)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		w.fail(path, err)
		return
	}
	holes.NewSeeker(f).Readahead(info.Size())
	if w.onEnqueu != nil {
		w.onEnqueu(path)
	}
	w.q.Enqueue(queue.WorkItem{File: f, Path: path, Info: info})
}

// spillPath batches path into w.pending, flushing a full batch to the
// on-disk SpillFile (created lazily, on first use) once it reaches
// constants.SpillBatchSize entries. Reclaimed by drainSpill once the
// walk's direct traversal is done.
func (w *Walker) spillPath(path string) {
	w.pending = append(w.pending, path)
	if len(w.pending) < constants.SpillBatchSize {
		return
	}
	w.flushPending()
}

func (w *Walker) flushPending() {
	if len(w.pending) == 0 {
		return
	}
	if w.spill == nil {
		sf, err := queue.NewSpillFile(w.opts.SpillDir)
		if err != nil {
			// Can't spill: fall back to enqueueing directly, which
			// blocks until the queue has room rather than losing paths.
			w.enqueuePending()
			return
		}
		w.spill = sf
	}
	if err := w.spill.WriteBatch(w.pending); err != nil {
		w.fail("<spill>", err)
		w.enqueuePending()
		return
	}
	w.pending = w.pending[:0]
}

// enqueuePending opens and blockingly enqueues every path in w.pending,
// used as the fallback when spilling itself fails.
func (w *Walker) enqueuePending() {
	for _, path := range w.pending {
		w.openDirectAndEnqueue(path)
	}
	w.pending = w.pending[:0]
}

// openDirectAndEnqueue opens path and enqueues it unconditionally,
// blocking on Enqueue if the queue is full. Used for replay from the
// spill file, where the path has already been deferred once.
func (w *Walker) openDirectAndEnqueue(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		w.fail(path, err)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		w.fail(path, err)
		return
	}
	holes.NewSeeker(f).Readahead(info.Size())
	if w.onEnqueu != nil {
		w.onEnqueu(path)
	}
	w.q.Enqueue(queue.WorkItem{File: f, Path: path, Info: info})
}

// drainSpill flushes any partial batch, then replays every spilled
// batch back through a real open + blocking Enqueue, in the order the
// paths were originally discovered, before the queue is closed.
func (w *Walker) drainSpill() {
	w.flushPending()
	if w.spill == nil {
		return
	}
	batches, err := w.spill.ReadAllBatches()
	if err != nil {
		w.fail("<spill>", err)
	}
	for _, batch := range batches {
		for _, path := range batch {
			w.openDirectAndEnqueue(path)
		}
	}
	if err := w.spill.Close(); err != nil {
		w.fail("<spill>", err)
	}
	w.spill = nil
}

func (w *Walker) enqueueStdin() {
	info, err := os.Stdin.Stat()
	if err != nil {
		w.fail("-", err)
		return
	}
	path := w.opts.Label
	if path == "" {
		path = "-"
	}
	w.q.Enqueue(queue.WorkItem{File: os.Stdin, Path: path, Info: info})
}

func (w *Walker) isOutputFile(info os.FileInfo) bool {
	return w.opts.OutputInfo != nil && os.SameFile(w.opts.OutputInfo, info)
}

func (w *Walker) fail(path string, err error) {
	if w.onError != nil {
		w.onError(path, err)
	}
}
