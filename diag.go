package main

import (
	"errors"
	"fmt"
	"strings"
)

// errorPos returns the source offset an error points at, if it has one.
func errorPos(err error) (pos int, msg string, ok bool) {
	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, lexErr.Msg, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Tok.Pos, parseErr.Msg, true
	}
	return 0, "", false
}

// sourceLocation converts a byte offset into a 1-based line and column, and
// returns the text of that line without its newline.
func sourceLocation(src string, pos int) (line, col int, text string) {
	if pos > len(src) {
		pos = len(src)
	}
	start := strings.LastIndexByte(src[:pos], '\n') + 1
	end := strings.IndexByte(src[pos:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += pos
	}
	line = strings.Count(src[:start], "\n") + 1
	return line, pos - start + 1, src[start:end]
}

// FormatDiagnostic renders err against src:
//
//	prog.c:2: a = 1 + ;
//	                  ^ expected an expression
//
// Errors that carry no position are rendered as "name: message".
func FormatDiagnostic(name, src string, err error) string {
	pos, msg, ok := errorPos(err)
	if !ok {
		return fmt.Sprintf("%s: %v\n", name, err)
	}
	line, col, text := sourceLocation(src, pos)
	prefix := fmt.Sprintf("%s:%d: ", name, line)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(text)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(prefix)+col-1))
	b.WriteString("^ ")
	b.WriteString(msg)
	b.WriteByte('\n')
	return b.String()
}

// shortDiagnostic renders err as "LINE:COL: message".
func shortDiagnostic(src string, err error) string {
	pos, msg, ok := errorPos(err)
	if !ok {
		return err.Error()
	}
	line, col, _ := sourceLocation(src, pos)
	return fmt.Sprintf("%d:%d: %s", line, col, msg)
}
