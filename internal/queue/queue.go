// Package queue implements the WorkQueue contract from spec.md §4.7: a
// bounded FIFO of WorkItems with one producer and N consumers, backed by
// a single mutex and two condition variables rather than a buffered
// channel.
//
// dtail itself has no analogue to ground this on — its own concurrency
// idiom is channels plus sync.WaitGroup throughout (internal/mapr),
// never an explicit mutex+cond bounded queue — so this package is built
// directly from spec.md §4.7's own contract text: enqueue blocks while
// full, dequeue blocks while empty-and-not-closed and returns a
// not-ok result once empty-and-closed, close broadcasts.
package queue

import (
	"os"
	"sync"

	"github.com/scanforge/ggrep/internal/constants"
	"github.com/scanforge/ggrep/internal/rlimit"
)

// DefaultCapacity returns the queue capacity cmd/ggrep uses when the
// operator hasn't overridden it: half the process's RLIMIT_NOFILE, never
// below constants.MinQueueCapacity, leaving the other half of the
// descriptor budget for stdio, the producer's open-ahead, and each
// worker's duplicated descriptors (spec.md §5).
func DefaultCapacity() int {
	n := rlimit.NoFile() / 2
	if n < constants.MinQueueCapacity {
		return constants.MinQueueCapacity
	}
	return n
}

// WorkItem is a single file queued for a worker to scan (spec.md §3).
type WorkItem struct {
	File *os.File
	Path string
	Info os.FileInfo
}

// Queue is a bounded FIFO of WorkItems, safe for one producer and many
// consumers.
type Queue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	items    []WorkItem
	capacity int
	closed   bool
}

// New returns a Queue with the given capacity. Per spec.md §5, callers
// should size capacity at roughly RLIMIT_NOFILE/2 to leave descriptor
// headroom for the producer's open-ahead plus stdio and per-worker
// duplicates.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	q := &Queue{capacity: capacity}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue blocks while the queue is full, then appends item and wakes
// one waiting consumer. It never fails; callers must call Close once
// there is no more work to submit.
func (q *Queue) Enqueue(item WorkItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	q.items = append(q.items, item)
	q.notEmpty.Signal()
}

// Dequeue blocks while the queue is empty and not closed. It returns
// ok=false only once the queue is both empty and closed, signaling
// end-of-input to the worker.
func (q *Queue) Dequeue() (item WorkItem, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return WorkItem{}, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return item, true
}

// Close marks the queue finished: no more items will be enqueued, and
// every blocked or future Dequeue drains the remainder before reporting
// ok=false.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len reports the current queue depth, for diagnostics/tests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Full reports whether an Enqueue right now would block. internal/walk
// uses this to decide whether to open a discovered file at all or defer
// it to a SpillFile instead: it is a racy heuristic by nature (the
// answer can be stale the instant it's returned), which is fine because
// the caller's fallback is itself safe either way — spilling a file that
// turns out to have room, or Enqueue blocking on one that doesn't.
func (q *Queue) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) >= q.capacity
}
