// Package holes implements sparse-file hole detection so the scanner can
// skip NUL-filled regions of a file without reading or matching against
// them, per spec.md §9's domain-stack note on golang.org/x/sys/unix.
//
// Detection is platform-specific (SEEK_HOLE/SEEK_DATA is a Linux/BSD
// extension to lseek(2), not available on every target Go supports), so
// this package is split the way other_examples' uffd_linux.go splits
// platform-only syscall code: a linux implementation behind a //go:build
// tag, and a no-op fallback everywhere else. Disabling hole-skipping
// (the fallback) must never change output, only I/O volume.
package holes

import "os"

// Seeker detects and skips holes in an *os.File, implementing
// buffer.HoleSkipper. NewSeeker returns one bound to f; on platforms or
// filesystems without hole support it still satisfies the interface but
// SkipHole always reports ok=false.
type Seeker struct {
	f        *os.File
	disabled bool
}

// NewSeeker returns a hole Seeker for f. f must be seekable.
func NewSeeker(f *os.File) *Seeker {
	return &Seeker{f: f}
}

// SkipHole advances past a run of NUL bytes starting at f's current
// position by locating the next data region with SEEK_DATA and seeking
// there directly, returning how many bytes were skipped. It reports
// ok=false (and permanently disables itself for this Seeker) the first
// time the underlying platform or filesystem doesn't support the
// SEEK_HOLE/SEEK_DATA extension, so callers stop paying the syscall cost
// on every subsequent all-zero read.
func (s *Seeker) SkipHole() (int64, bool) {
	if s.disabled || s.f == nil {
		return 0, false
	}
	skipped, ok := s.skipHole()
	if !ok {
		s.disabled = true
	}
	return skipped, ok
}

// HasHoleAhead reports whether a hole exists between the file's current
// position and end (exclusive), using SEEK_HOLE, without disturbing the
// file's position. ok is false when unsupported, in which case the
// caller should not treat the missing answer as "no hole".
func (s *Seeker) HasHoleAhead(end int64) (bool, bool) {
	if s.disabled || s.f == nil {
		return false, false
	}
	has, ok := s.hasHoleAhead(end)
	if !ok {
		s.disabled = true
	}
	return has, ok
}

// Readahead advises the OS that the next n bytes from the file's current
// position will be read soon, letting it prefetch ahead of the scanner's
// sequential Fill calls. Best-effort; errors are ignored by the caller.
func (s *Seeker) Readahead(n int64) {
	if s.disabled || s.f == nil {
		return
	}
	s.readahead(n)
}
