// Package rlimit reads the process's open-file-descriptor limit so
// cmd/ggrep can size the WorkQueue the way spec.md §5 recommends
// (roughly RLIMIT_NOFILE/2, leaving headroom for stdio, the producer's
// open-ahead, and each worker's duplicated descriptors).
//
// Grounded on internal/holes's GOOS-split pattern: a portable entry
// point here, a real golang.org/x/sys/unix.Getrlimit call on unix, and
// a conservative fixed fallback where RLIMIT_NOFILE doesn't exist.
package rlimit

// NoFile returns the process's current RLIMIT_NOFILE soft limit, or a
// conservative fallback if it cannot be determined.
func NoFile() int {
	n, ok := noFile()
	if !ok || n <= 0 {
		return fallback
	}
	return n
}

// fallback matches the descriptor budget a typical unconfigured shell
// grants (see RLIMIT_NOFILE(2)'s historical 1024 default).
const fallback = 1024
