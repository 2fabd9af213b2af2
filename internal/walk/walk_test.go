package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/scanforge/ggrep/internal/queue"
)

func drain(t *testing.T, q *queue.Queue) []string {
	t.Helper()
	var paths []string
	for {
		item, ok := q.Dequeue()
		if !ok {
			break
		}
		if item.File != nil && item.File != os.Stdin {
			item.File.Close()
		}
		paths = append(paths, item.Path)
	}
	sort.Strings(paths)
	return paths
}

func TestWalkRecursesIntoSubdirectories(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.txt"), "a")
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(sub, "b.txt"), "b")

	q := queue.New(8)
	w := New(q, Options{DirPolicy: DirRecurse}, func(path string, err error) {
		t.Fatalf("unexpected error for %s: %v", path, err)
	})
	go w.Run([]string{root})

	got := drain(t, q)
	want := []string{filepath.Join(root, "a.txt"), filepath.Join(sub, "b.txt")}
	sort.Strings(want)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWalkDirPolicySkipSuppressesDirectoryArgument(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.txt"), "a")

	q := queue.New(8)
	var errs []string
	w := New(q, Options{DirPolicy: DirSkip}, func(path string, err error) {
		errs = append(errs, path)
	})
	go w.Run([]string{root})

	got := drain(t, q)
	if len(got) != 0 {
		t.Fatalf("expected no files enqueued, got %v", got)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no error callbacks, got %v", errs)
	}
}

func TestWalkDirPolicyReadReportsError(t *testing.T) {
	root := t.TempDir()

	q := queue.New(8)
	var errs []string
	w := New(q, Options{DirPolicy: DirRead}, func(path string, err error) {
		errs = append(errs, path)
	})
	go w.Run([]string{root})
	drain(t, q)

	if len(errs) != 1 || errs[0] != root {
		t.Fatalf("expected one error for %s, got %v", root, errs)
	}
}

func TestWalkExcludeDirSkipsMatchingSubdirectory(t *testing.T) {
	root := t.TempDir()
	skip := filepath.Join(root, "vendor")
	if err := os.Mkdir(skip, 0o755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(skip, "dep.go"), "x")
	mustWrite(t, filepath.Join(root, "main.go"), "x")

	q := queue.New(8)
	w := New(q, Options{
		DirPolicy: DirRecurse,
		Filter:    Filter{ExcludeDirs: []string{"vendor"}},
	}, nil)
	go w.Run([]string{root})

	got := drain(t, q)
	if len(got) != 1 || got[0] != filepath.Join(root, "main.go") {
		t.Fatalf("got %v, want only main.go", got)
	}
}

func TestWalkIncludeFilterRestrictsFileNames(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.go"), "x")
	mustWrite(t, filepath.Join(root, "b.txt"), "x")

	q := queue.New(8)
	w := New(q, Options{
		DirPolicy: DirRecurse,
		Filter:    Filter{Include: []string{"*.go"}},
	}, nil)
	go w.Run([]string{root})

	got := drain(t, q)
	if len(got) != 1 || got[0] != filepath.Join(root, "a.go") {
		t.Fatalf("got %v, want only a.go", got)
	}
}

func TestWalkSkipsFileThatIsTheOutputTarget(t *testing.T) {
	root := t.TempDir()
	outPath := filepath.Join(root, "out.txt")
	mustWrite(t, outPath, "x")
	mustWrite(t, filepath.Join(root, "in.txt"), "x")

	outInfo, err := os.Stat(outPath)
	if err != nil {
		t.Fatal(err)
	}

	q := queue.New(8)
	w := New(q, Options{DirPolicy: DirRecurse, OutputInfo: outInfo}, nil)
	go w.Run([]string{root})

	got := drain(t, q)
	if len(got) != 1 || got[0] != filepath.Join(root, "in.txt") {
		t.Fatalf("got %v, want only in.txt (out.txt excluded)", got)
	}
}

func TestWalkSpillsWhenQueueFullAndReplaysOnDrain(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	mustWrite(t, path, "a")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	q := queue.New(1)
	q.Enqueue(queue.WorkItem{Path: "filler"}) // saturate capacity 1

	w := New(q, Options{}, func(p string, err error) {
		t.Fatalf("unexpected error for %s: %v", p, err)
	})

	w.openAndEnqueue(path, info)
	if q.Len() != 1 {
		t.Fatalf("queue should be untouched while full, got len %d", q.Len())
	}
	if len(w.pending) != 1 || w.pending[0] != path {
		t.Fatalf("expected %s to be spilled to pending, got %v", path, w.pending)
	}

	filler, ok := q.Dequeue()
	if !ok || filler.Path != "filler" {
		t.Fatalf("expected to dequeue filler item, got %+v, ok=%v", filler, ok)
	}

	w.drainSpill()
	if w.spill != nil {
		t.Fatal("expected spill file to be closed after drain")
	}

	got, ok := q.Dequeue()
	if !ok {
		t.Fatal("expected replayed item after drain")
	}
	if got.Path != path {
		t.Fatalf("got path %s, want %s", got.Path, path)
	}
	got.File.Close()
}

func TestWalkEnqueueStdinUsesLabelAsPath(t *testing.T) {
	q := queue.New(8)
	w := New(q, Options{Label: "mylabel"}, nil)
	w.enqueueStdin()

	item, ok := q.Dequeue()
	if !ok {
		t.Fatal("expected stdin to be enqueued")
	}
	if item.Path != "mylabel" {
		t.Fatalf("got path %q, want %q", item.Path, "mylabel")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
