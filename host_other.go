//go:build !unix

package main

import "runtime"

// hostMachine returns the host CPU name in uname(2) spelling.
func hostMachine() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64", nil
	case "arm64":
		return "aarch64", nil
	}
	return runtime.GOARCH, nil
}
