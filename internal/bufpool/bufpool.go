// Package bufpool provides pooled backing storage for the sliding-window
// Buffer, grounded on the teacher's internal/io/pool size-tiered byte-slice
// pools (scanner/medium/small) used to cut allocation churn on the hot
// per-file read path.
package bufpool

import "sync"

const (
	smallSize  = 4 * 1024
	mediumSize = 64 * 1024
	largeSize  = 1024 * 1024
)

var (
	small  = sync.Pool{New: func() any { b := make([]byte, smallSize); return &b }}
	medium = sync.Pool{New: func() any { b := make([]byte, mediumSize); return &b }}
	large  = sync.Pool{New: func() any { b := make([]byte, largeSize); return &b }}
)

func tierFor(size int) *sync.Pool {
	switch {
	case size <= smallSize:
		return &small
	case size <= mediumSize:
		return &medium
	default:
		return &large
	}
}

// Get returns a *[]byte whose length is at least size, drawn from the
// smallest pool tier that satisfies it. Oversized requests that exceed
// every tier allocate directly and are never pooled.
func Get(size int) *[]byte {
	if size > largeSize {
		b := make([]byte, size)
		return &b
	}
	p := tierFor(size)
	bp := p.Get().(*[]byte)
	if len(*bp) < size {
		*bp = make([]byte, size)
	}
	return bp
}

// Put returns a buffer obtained from Get back to its tier pool. Buffers
// larger than the largest tier are dropped rather than pooled.
func Put(bp *[]byte) {
	if bp == nil {
		return
	}
	switch {
	case len(*bp) <= smallSize:
		small.Put(bp)
	case len(*bp) <= mediumSize:
		medium.Put(bp)
	case len(*bp) <= largeSize:
		large.Put(bp)
	}
}
