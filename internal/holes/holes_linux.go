//go:build linux

package holes

import "golang.org/x/sys/unix"

func (s *Seeker) skipHole() (int64, bool) {
	cur, err := s.f.Seek(0, unix.SEEK_CUR)
	if err != nil {
		return 0, false
	}
	dataOff, err := s.f.Seek(cur, unix.SEEK_DATA)
	if err != nil {
		// Either the filesystem doesn't implement SEEK_DATA, or ENXIO
		// (no more data past cur: a trailing hole to EOF). Either way
		// there's nothing more this Seeker can do for this file.
		return 0, false
	}
	if dataOff <= cur {
		return 0, true
	}
	return dataOff - cur, true
}

func (s *Seeker) hasHoleAhead(end int64) (bool, bool) {
	cur, err := s.f.Seek(0, unix.SEEK_CUR)
	if err != nil {
		return false, false
	}
	holeOff, err := s.f.Seek(cur, unix.SEEK_HOLE)
	if err != nil {
		return false, false
	}
	if _, err := s.f.Seek(cur, unix.SEEK_SET); err != nil {
		return false, false
	}
	return holeOff < end, true
}

func (s *Seeker) readahead(n int64) {
	off, err := s.f.Seek(0, unix.SEEK_CUR)
	if err != nil {
		return
	}
	_ = unix.Fadvise(int(s.f.Fd()), off, n, unix.FADV_SEQUENTIAL)
}
