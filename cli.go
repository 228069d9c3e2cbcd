package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `minicc - a small C subset compiler targeting x86-64 assembly

Usage:
    minicc <command> [arguments]

Commands:
    build <file>    Compile a source file (or - for stdin) to assembly
    asm <code>      Compile inline source to assembly
    run <file>      Compile, link and execute a source file
    eval <code>     Compile, link and execute inline source
    check <file>    Parse a source file and report errors
    help            Show this help message

Examples:
    minicc asm '{a=3; return a+2*5-1;}'
    minicc build -o prog.s prog.c
    minicc eval '{x=1; y=2; while(x<=5){y=y*x; x=x+1;} return y;}'
    minicc check prog.c

Environment:
    MINICC_CC          assembler/linker driver (default $CC, then cc)
    MINICC_LDFLAGS     extra flags passed to the driver
    MINICC_VERBOSE     print pipeline progress to stderr
    MINICC_KEEP_TEMPS  keep temporary build directories

Use "minicc <command> -h" for more information about a command.
`)
}

// newFlagSet creates the flag set shared by all commands.
func newFlagSet(name, usage, summary string, cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minicc %s\n", usage)
		fmt.Fprintf(os.Stderr, "%s\n\n", summary)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses args and returns the single positional argument.
func parseArgs(fs *flag.FlagSet, args []string, what string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

// readSource reads a source file, or stdin when filename is "-".
func readSource(filename string) (string, error) {
	var data []byte
	var err error
	if filename == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// mustCompile compiles src or reports the diagnostic and exits.
func mustCompile(cfg Config, name, src string) string {
	asm, err := compileProgram(cfg, src)
	if err != nil {
		fmt.Fprint(os.Stderr, FormatDiagnostic(name, src, err))
		os.Exit(1)
	}
	return asm
}

func buildCommand(cfg Config, args []string) {
	fs := newFlagSet("build", "build [-o output] [-v] <file>", "Compile a source file to x86-64 assembly", &cfg)
	output := fs.String("o", "", "Output file path (default: stdout)")
	filename := parseArgs(fs, args, "file")

	cfg.logf("compiling %s", filename)
	src, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	asm := mustCompile(cfg, filename, src)

	if *output == "" || *output == "-" {
		fmt.Print(asm)
		return
	}
	if err := os.WriteFile(*output, []byte(asm), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing assembly file %s: %v\n", *output, err)
		os.Exit(1)
	}
	cfg.logf("wrote %s", *output)
}

func asmCommand(cfg Config, args []string) {
	fs := newFlagSet("asm", "asm [-v] <code>", "Compile inline source to x86-64 assembly", &cfg)
	code := parseArgs(fs, args, "code")

	fmt.Print(mustCompile(cfg, "<arg>", code))
}

func runCommand(cfg Config, args []string) {
	fs := newFlagSet("run", "run [-v] <file>", "Compile, link and execute a source file", &cfg)
	filename := parseArgs(fs, args, "file")

	src, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	execute(cfg, mustCompile(cfg, filename, src))
}

func evalCommand(cfg Config, args []string) {
	fs := newFlagSet("eval", "eval [-v] <code>", "Compile, link and execute inline source", &cfg)
	code := parseArgs(fs, args, "code")

	execute(cfg, mustCompile(cfg, "<arg>", code))
}

// execute runs asm and exits with the program's status.
func execute(cfg Config, asm string) {
	status, err := buildAndRun(cfg, asm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
	cfg.logf("exit status %d", status)
	os.Exit(status)
}

func checkCommand(cfg Config, args []string) {
	fs := newFlagSet("check", "check [-v] <file>", "Parse a source file and report errors", &cfg)
	filename := parseArgs(fs, args, "file")

	src, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}

	fn, err := Frontend(src)
	if err != nil {
		fmt.Fprint(os.Stderr, FormatDiagnostic(filename, src, err))
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if cfg.Verbose {
		fmt.Printf("AST: %s\n", ToSExpr(fn, fn.Body))
		fmt.Printf("Frame: %s\n", FrameSExpr(fn))
	}
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	cfg := LoadConfig()
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(cfg, args)
	case "asm":
		asmCommand(cfg, args)
	case "run":
		runCommand(cfg, args)
	case "eval":
		evalCommand(cfg, args)
	case "check":
		checkCommand(cfg, args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
