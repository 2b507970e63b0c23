//go:build windows
// +build windows

package fdlimit

// Raise is a no-op on windows.
func Raise(int) error { return nil }
