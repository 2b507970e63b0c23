//go:build !windows
// +build !windows

package fdlimit

import "syscall"

const (
	minOpenFilesLimit = 1024
)

// Raise raises the soft limit of open files to hold at least want
// descriptors, bounded by the hard limit. It never lowers the limit.
func Raise(want int) error {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return err
	}

	target := uint64(minOpenFilesLimit)
	if want > 0 && uint64(want) > target {
		target = uint64(want)
	}
	if target > uint64(rLimit.Max) {
		target = uint64(rLimit.Max)
	}

	if uint64(rLimit.Cur) >= target {
		return nil
	}

	rLimit.Cur = target
	return syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
}
