package main

import (
	"errors"
	"fmt"
	"strconv"
)

// TokenKind is the category of a token.
type TokenKind string

const (
	NUM     TokenKind = "NUM"     // 12345
	PUNCT   TokenKind = "PUNCT"   // + == { ;
	IDENT   TokenKind = "IDENT"   // a, _tmp, x1
	KEYWORD TokenKind = "KEYWORD" // return, if, else, for, while
	EOF     TokenKind = "EOF"
)

// keywords is the fixed set of reserved identifier spellings.
var keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
	"while":  true,
}

// Token is a single lexical unit. Pos and Len describe its byte span in the
// source; Text is that span. Value is only meaningful for NUM tokens.
type Token struct {
	Kind  TokenKind
	Pos   int
	Len   int
	Text  string
	Value int64
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// LexError reports a character the lexer does not recognize.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Msg)
}

// Lexer scans a source buffer left to right without backtracking.
type Lexer struct {
	input []byte
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

// Tokenize splits src into tokens. The result always ends with an EOF token
// whose span is the empty range at the end of the input.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer([]byte(src))
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	convertKeywords(tokens)
	return tokens, nil
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: EOF, Pos: l.pos}, nil
	}

	c := l.input[l.pos]
	start := l.pos

	if isDigit(c) {
		lit := l.readNumber()
		val, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return Token{}, &LexError{Pos: start, Msg: "number too large"}
			}
			return Token{}, &LexError{Pos: start, Msg: "invalid number"}
		}
		return l.token(NUM, start, val), nil
	}

	if isLetter(c) {
		l.readIdentifier()
		return l.token(IDENT, start, 0), nil
	}

	if n := l.punctLen(); n > 0 {
		l.pos += n
		return l.token(PUNCT, start, 0), nil
	}

	return Token{}, &LexError{Pos: start, Msg: "invalid token"}
}

func (l *Lexer) token(kind TokenKind, start int, val int64) Token {
	return Token{
		Kind:  kind,
		Pos:   start,
		Len:   l.pos - start,
		Text:  string(l.input[start:l.pos]),
		Value: val,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readIdentifier() {
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.pos++
	}
}

// punctLen returns the length of the punctuator at the current position, or
// 0 if there is none. Two-character operators win over their prefixes.
func (l *Lexer) punctLen() int {
	if l.pos+1 < len(l.input) {
		switch string(l.input[l.pos : l.pos+2]) {
		case "==", "!=", "<=", ">=":
			return 2
		}
	}
	if isPunct(l.input[l.pos]) {
		return 1
	}
	return 0
}

// convertKeywords reclassifies identifiers spelled like keywords. It runs
// after scanning so that keyword prefixes never cut an identifier short.
func convertKeywords(tokens []Token) {
	for i := range tokens {
		if tokens[i].Kind == IDENT && keywords[tokens[i].Text] {
			tokens[i].Kind = KEYWORD
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

// isPunct matches printable ASCII that is neither alphanumeric nor space.
func isPunct(c byte) bool {
	return c > ' ' && c < 0x7f && !isDigit(c) && !isLetter(c)
}
