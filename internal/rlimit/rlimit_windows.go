//go:build windows

package rlimit

func noFile() (int, bool) {
	return 0, false
}
