//go:build !linux

package holes

// skipHole is a no-op on platforms without SEEK_HOLE/SEEK_DATA; ok=false
// tells Buffer.Fill to stop consulting this Seeker for the file.
func (s *Seeker) skipHole() (int64, bool) {
	return 0, false
}

func (s *Seeker) readahead(int64) {}

func (s *Seeker) hasHoleAhead(int64) (bool, bool) {
	return false, false
}
