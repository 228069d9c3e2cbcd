package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// canRunX86_64 reports whether programs produced by Generate can be linked
// and executed on this host: an x86-64 CPU and an ELF toolchain that expects
// the entry symbol to be spelled "main".
func canRunX86_64() error {
	machine, err := hostMachine()
	if err != nil {
		return fmt.Errorf("cannot determine host CPU: %w", err)
	}
	if machine != "x86_64" && machine != "amd64" {
		return fmt.Errorf("host CPU is %s, generated code needs x86_64", machine)
	}
	switch runtime.GOOS {
	case "linux", "freebsd", "netbsd", "openbsd", "dragonfly":
		return nil
	}
	return fmt.Errorf("host OS %s is not supported for running generated code", runtime.GOOS)
}

// buildExecutable assembles and links asm into an executable inside dir and
// returns its path.
func buildExecutable(cfg Config, dir string, asm string) (string, error) {
	asmFile := filepath.Join(dir, "main.s")
	if err := os.WriteFile(asmFile, []byte(asm), 0644); err != nil {
		return "", fmt.Errorf("writing assembly: %w", err)
	}

	exe := filepath.Join(dir, "prog")
	args := append([]string{"-o", exe, asmFile}, cfg.LDFlags...)
	cfg.logf("%s %v", cfg.CC, args)
	cmd := exec.Command(cfg.CC, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s failed: %v\nOutput: %s", cfg.CC, err, output)
	}
	return exe, nil
}

// buildAndRun assembles, links and executes asm, returning the program's
// exit status. The program inherits stdin, stdout and stderr.
func buildAndRun(cfg Config, asm string) (int, error) {
	if err := canRunX86_64(); err != nil {
		return 0, err
	}

	dir, err := os.MkdirTemp("", "minicc-")
	if err != nil {
		return 0, err
	}
	if cfg.KeepTemps {
		cfg.logf("keeping build directory %s", dir)
	} else {
		defer os.RemoveAll(dir)
	}

	exe, err := buildExecutable(cfg, dir, asm)
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(exe)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("running %s: %w", exe, err)
	}
	return 0, nil
}
