package queue

import (
	"sync"
	"testing"
	"time"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := New(4)
	q.Enqueue(WorkItem{Path: "a"})
	q.Enqueue(WorkItem{Path: "b"})

	item, ok := q.Dequeue()
	if !ok || item.Path != "a" {
		t.Fatalf("got %+v ok=%v, want a first", item, ok)
	}
	item, ok = q.Dequeue()
	if !ok || item.Path != "b" {
		t.Fatalf("got %+v ok=%v, want b second", item, ok)
	}
}

func TestDequeueBlocksUntilCloseReturnsEnd(t *testing.T) {
	q := New(1)
	done := make(chan struct{})
	go func() {
		_, ok := q.Dequeue()
		if ok {
			t.Error("expected ok=false once closed with no items")
		}
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not unblock after Close")
	}
}

func TestEnqueueBlocksWhileFull(t *testing.T) {
	q := New(1)
	q.Enqueue(WorkItem{Path: "first"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Enqueue(WorkItem{Path: "second"})
	}()

	time.Sleep(10 * time.Millisecond)
	if q.Len() != 1 {
		t.Fatalf("expected second Enqueue to still be blocked, len=%d", q.Len())
	}

	if _, ok := q.Dequeue(); !ok {
		t.Fatal("expected to dequeue first item")
	}
	wg.Wait()
	if q.Len() != 1 {
		t.Fatalf("expected second item to have been enqueued, len=%d", q.Len())
	}
}

func TestDequeueDrainsRemainderAfterClose(t *testing.T) {
	q := New(4)
	q.Enqueue(WorkItem{Path: "a"})
	q.Close()

	item, ok := q.Dequeue()
	if !ok || item.Path != "a" {
		t.Fatalf("expected the queued item to drain before END, got %+v ok=%v", item, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected END after draining")
	}
}

func TestDefaultCapacityIsAtLeastTheMinimum(t *testing.T) {
	if got := DefaultCapacity(); got < 4 {
		t.Fatalf("got %d, want at least the MinQueueCapacity floor", got)
	}
}

func TestFullReflectsCurrentDepth(t *testing.T) {
	q := New(1)
	if q.Full() {
		t.Fatal("empty queue should not be full")
	}
	q.Enqueue(WorkItem{Path: "a"})
	if !q.Full() {
		t.Fatal("queue at capacity should be full")
	}
	if _, ok := q.Dequeue(); !ok {
		t.Fatal("expected to dequeue the item")
	}
	if q.Full() {
		t.Fatal("queue should no longer be full after dequeue")
	}
}
