//go:build !windows

package rlimit

import "golang.org/x/sys/unix"

func noFile() (int, bool) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, false
	}
	if rl.Cur > uint64(^uint(0)>>1) {
		return int(^uint(0) >> 1), true
	}
	return int(rl.Cur), true
}
