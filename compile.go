package main

import "fmt"

// Frontend tokenizes and parses src and lays out the frame of the result.
func Frontend(src string) (*Function, error) {
	return frontend(Config{}, src)
}

// Compile translates src into assembly text. The returned error wraps a
// *LexError or *ParseError; no partial output is produced on failure.
func Compile(src string) (string, error) {
	return compileProgram(Config{}, src)
}

func frontend(cfg Config, src string) (*Function, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("lexing: %w", err)
	}
	cfg.logf("lexed %d tokens", len(tokens))

	fn, err := Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	fn.LayoutFrame()
	cfg.logf("AST: %s", ToSExpr(fn, fn.Body))
	cfg.logf("frame: %s", FrameSExpr(fn))
	return fn, nil
}

func compileProgram(cfg Config, src string) (string, error) {
	fn, err := frontend(cfg, src)
	if err != nil {
		return "", err
	}
	asm := Generate(fn)
	cfg.logf("generated %d bytes of assembly", len(asm))
	return asm, nil
}
