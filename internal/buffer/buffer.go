// Package buffer implements the page-aligned sliding window described in
// spec.md §4.1: a Buffer owns a growable byte region, exposes a live
// window that the scanner fills and drains, and preserves a leading
// end-of-line sentinel plus a trailing word-wide zero sentinel so inner
// scan loops never need an explicit bounds check at the tail.
//
// Go slices already carry their own length, so this implementation keeps
// the sentinel *bytes* (spec.md §9's "sentinel-based scanning" note) but
// drops the C-level pointer arithmetic: the window always starts at a
// fixed offset (constants.SentinelWidth) into the backing slice, and a
// Retain copies any bytes that must survive into the next cycle down to
// that offset rather than sliding a `beg` pointer forward within one
// fixed allocation.
package buffer

import (
	"io"

	"github.com/scanforge/ggrep/internal/bufpool"
	"github.com/scanforge/ggrep/internal/constants"
)

// HoleSkipper is implemented by readers that can report and skip sparse
// all-zero regions (SEEK_DATA/SEEK_HOLE). It is satisfied by
// internal/holes.Seeker; Buffer.Fill degrades silently when r does not
// implement it, per spec.md §9 ("disabling it must not change output").
type HoleSkipper interface {
	// SkipHole advances past a run of NUL bytes starting at the current
	// file position, returning how many bytes were skipped. ok is false
	// when hole-skipping is unsupported or fails, in which case the
	// caller must disable further attempts for this file.
	SkipHole() (skipped int64, ok bool)
}

// Buffer is the per-worker sliding window. It is not safe for concurrent
// use; each worker owns one.
type Buffer struct {
	store *[]byte // pooled backing storage; store[0] is the eol sentinel
	lim   int     // end of valid window bytes, exclusive, within *store

	eol byte // the sentinel/line-terminator byte (usually '\n', or NUL under -z)

	knownSize int64 // total input size hint for growth capping; 0 = unknown
	read      int64 // bytes read so far via Fill (for growth capping)
}

// New allocates a Buffer. sizeHint, when > 0 (e.g. from os.FileInfo.Size),
// caps how large a single growth step may request.
func New(sizeHint int64, eol byte) *Buffer {
	initial := constants.InitialWindowSize + constants.SentinelWidth + constants.WordWidth
	store := bufpool.Get(initial)
	b := &Buffer{
		store:     store,
		lim:       constants.SentinelWidth,
		eol:       eol,
		knownSize: sizeHint,
	}
	(*b.store)[0] = eol
	b.zeroTrailingSentinel()
	return b
}

// Release returns the backing storage to its pool. Call once, when the
// Buffer is no longer needed.
func (b *Buffer) Release() {
	if b.store != nil {
		bufpool.Put(b.store)
		b.store = nil
	}
}

// Window returns the live [beg, lim) window: the bytes available to the
// scanner since the last Fill/Retain.
func (b *Buffer) Window() []byte {
	return (*b.store)[constants.SentinelWidth:b.lim]
}

// EOLSentinel returns the byte at beg[-1], which is always equal to the
// configured end-of-line byte (invariant 1 in spec.md §3).
func (b *Buffer) EOLSentinel() byte {
	return (*b.store)[0]
}

// capacity is the usable window capacity before the trailing sentinel.
func (b *Buffer) capacity() int {
	return len(*b.store) - constants.WordWidth
}

func (b *Buffer) freeTail() int {
	return b.capacity() - b.lim
}

// grow doubles the backing store (capped by the known file size, when
// known) so that at least minFree additional bytes are available past
// lim.
func (b *Buffer) grow(minFree int) {
	cur := len(*b.store)
	next := cur
	for next-constants.WordWidth-b.lim < minFree {
		next *= 2
	}
	if b.knownSize > 0 {
		cap64 := b.knownSize - b.read + int64(b.lim) + int64(constants.WordWidth) + int64(constants.MinGrowIncrement)
		if cap64 > 0 && int64(next) > cap64 {
			next = int(cap64)
		}
		if next < cur+minFree {
			next = cur + minFree + constants.WordWidth
		}
	}
	fresh := bufpool.Get(next)
	copy(*fresh, (*b.store)[:b.lim])
	bufpool.Put(b.store)
	b.store = fresh
	(*b.store)[0] = b.eol
	b.zeroTrailingSentinel()
}

func (b *Buffer) zeroTrailingSentinel() {
	store := *b.store
	for i := len(store) - constants.WordWidth; i < len(store); i++ {
		store[i] = 0
	}
}

// Fill reads more data from r, appending it to the live window. It grows
// the backing store first if the free tail is smaller than one page. It
// returns the number of bytes newly appended and io.EOF once r is
// exhausted (possibly together with n > 0 for a final short read).
//
// hs, if non-nil, is consulted when a read returns only NUL bytes: per
// spec.md §4.1 step 3, an all-NUL read on a sparse file is skipped via
// hole-detection rather than being counted/matched as content.
func (b *Buffer) Fill(r io.Reader, hs HoleSkipper) (n int, err error) {
	const page = 4096
	if b.freeTail() < page {
		b.grow(page)
	}

	for {
		readLen := b.freeTail()
		if readLen > constants.MaxSingleRead {
			readLen = constants.MaxSingleRead
		}
		m, rerr := r.Read((*b.store)[b.lim : b.lim+readLen])
		if m > 0 {
			if hs != nil && allZero((*b.store)[b.lim:b.lim+m]) {
				if skipped, ok := hs.SkipHole(); ok && skipped > 0 {
					// Hole skipped: don't count these bytes as
					// content, retry the read at the new position.
					b.read += skipped
					continue
				}
			}
			b.lim += m
			b.read += int64(m)
			b.zeroTrailingSentinel()
		}
		return m, rerr
	}
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// Retain slides the last `save` bytes of the current window down to the
// front of the store (immediately after the sentinel byte), readying the
// Buffer for the next Fill cycle. It is used to carry the residue (the
// partial line after the last eol) plus any retained leading context into
// the next read.
func (b *Buffer) Retain(save int) {
	w := b.Window()
	if save < 0 {
		save = 0
	}
	if save > len(w) {
		save = len(w)
	}
	start := len(w) - save
	copy((*b.store)[constants.SentinelWidth:], w[start:])
	b.lim = constants.SentinelWidth + save
	(*b.store)[0] = b.eol
	b.zeroTrailingSentinel()
}

// ZapNuls replaces every NUL byte in the live window with the configured
// eol byte, preserving apparent line structure once a file has been
// classified binary (spec.md §4.2).
func (b *Buffer) ZapNuls() {
	w := b.Window()
	for i, c := range w {
		if c == 0 {
			w[i] = b.eol
		}
	}
}
