// Spill support: when a directory walk discovers files far faster than
// workers can drain the Queue, holding every pending WorkItem in memory
// (and as an open file descriptor, per spec.md §5's descriptor-budget
// note) doesn't scale. SpillFile lets the producer batch up pending
// paths — unopened, just the display path — compressed to a temp file,
// and reclaim them later instead of blocking Enqueue indefinitely or
// exhausting RLIMIT_NOFILE. internal/walk's Walker is the caller: see
// its spillPath/drainSpill pair.
//
// Grounded on the teacher's go.mod dependency on github.com/DataDog/zstd
// (used there for compressing forwarded log batches); here it compresses
// serialized path batches instead of log lines.
package queue

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"

	"github.com/DataDog/zstd"
)

// SpillFile is a temp file holding zero or more zstd-compressed batches
// of pending paths, written and read back in FIFO batch order.
type SpillFile struct {
	f *os.File
}

// NewSpillFile creates a temp file in dir (os.TempDir() if empty) to
// hold spilled path batches.
func NewSpillFile(dir string) (*SpillFile, error) {
	f, err := os.CreateTemp(dir, "ggrep-spill-*")
	if err != nil {
		return nil, err
	}
	return &SpillFile{f: f}, nil
}

// WriteBatch appends one zstd-compressed, gob-encoded batch of paths,
// prefixed with its own compressed length. The length prefix lets
// ReadAllBatches isolate exactly the bytes belonging to one frame before
// handing them to zstd.NewReader: zstd's streaming reader is free to
// read ahead of the frame it's decoding, and handing it a reader shared
// across frames (rather than one bounded to a single frame's bytes)
// would let that read-ahead consume bytes belonging to the next frame.
func (s *SpillFile) WriteBatch(paths []string) error {
	if _, err := s.f.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	var compressed bytes.Buffer
	zw := zstd.NewWriter(&compressed)
	if err := gob.NewEncoder(zw).Encode(paths); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(compressed.Len()))
	if _, err := s.f.Write(size[:]); err != nil {
		return err
	}
	_, err := s.f.Write(compressed.Bytes())
	return err
}

// ReadAllBatches rewinds the spill file and decodes every batch written
// to it, in order, each frame decompressed from its own bounded byte
// slice per WriteBatch's framing.
func (s *SpillFile) ReadAllBatches() ([][]string, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	r := bufio.NewReader(s.f)
	var batches [][]string
	for {
		var size [8]byte
		if _, err := io.ReadFull(r, size[:]); err != nil {
			if err == io.EOF {
				break
			}
			return batches, err
		}
		frame := make([]byte, binary.BigEndian.Uint64(size[:]))
		if _, err := io.ReadFull(r, frame); err != nil {
			return batches, err
		}

		zr := zstd.NewReader(bytes.NewReader(frame))
		var paths []string
		err := gob.NewDecoder(zr).Decode(&paths)
		zr.Close()
		if err != nil {
			return batches, err
		}
		batches = append(batches, paths)
	}
	return batches, nil
}

// Close removes the underlying temp file.
func (s *SpillFile) Close() error {
	name := s.f.Name()
	err := s.f.Close()
	if rerr := os.Remove(name); err == nil {
		err = rerr
	}
	return err
}
