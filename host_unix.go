//go:build unix

package main

import "golang.org/x/sys/unix"

// hostMachine returns the host CPU name as reported by uname(2), e.g.
// "x86_64" or "aarch64".
func hostMachine() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Machine[:]), nil
}
