package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := Tokenize(src)
	be.Err(t, err, nil)
	return tokens
}

func TestIntLiteral(t *testing.T) {
	tokens := tokenize(t, "12345")
	be.Equal(t, len(tokens), 2)
	be.Equal(t, tokens[0].Kind, NUM)
	be.Equal(t, tokens[0].Text, "12345")
	be.Equal(t, tokens[0].Value, int64(12345))
	be.Equal(t, tokens[0].Pos, 0)
	be.Equal(t, tokens[0].Len, 5)
}

func TestMaxIntLiteral(t *testing.T) {
	tokens := tokenize(t, "9223372036854775807")
	be.Equal(t, tokens[0].Value, int64(9223372036854775807))
}

func TestIdentifier(t *testing.T) {
	for _, name := range []string{"foobar", "x", "_tmp", "a1b2", "__"} {
		tokens := tokenize(t, name)
		be.Equal(t, tokens[0].Kind, IDENT)
		be.Equal(t, tokens[0].Text, name)
	}
}

func TestIdentifierStopsAtPunct(t *testing.T) {
	tokens := tokenize(t, "abc+1")
	be.Equal(t, tokens[0].Text, "abc")
	be.Equal(t, tokens[0].Pos, 0)
	be.Equal(t, tokens[0].Len, 3)
	be.Equal(t, tokens[1].Pos, 3)
	be.Equal(t, tokens[1].Text, "+")
	be.Equal(t, tokens[2].Text, "1")
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"return", KEYWORD},
		{"if", KEYWORD},
		{"else", KEYWORD},
		{"for", KEYWORD},
		{"while", KEYWORD},
		{"returns", IDENT},
		{"iff", IDENT},
		{"format", IDENT},
		{"_while", IDENT},
		{"Return", IDENT},
	}

	for _, tt := range tests {
		tokens := tokenize(t, tt.input)
		be.Equal(t, tokens[0].Kind, tt.kind)
		be.Equal(t, tokens[0].Text, tt.input)
	}
}

func TestPunctuators(t *testing.T) {
	tests := []struct {
		input string
		texts []string
	}{
		{"==", []string{"=="}},
		{"!=", []string{"!="}},
		{"<=", []string{"<="}},
		{">=", []string{">="}},
		{"<", []string{"<"}},
		{"= =", []string{"=", "="}},
		{"===", []string{"==", "="}},
		{"<==", []string{"<=", "="}},
		{"!", []string{"!"}},
		{"(){};", []string{"(", ")", "{", "}", ";"}},
		{"a>=-1", []string{"a", ">=", "-", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			be.Equal(t, len(tokens), len(tt.texts)+1)
			for i, text := range tt.texts {
				be.Equal(t, tokens[i].Text, text)
			}
		})
	}
}

func TestEOFToken(t *testing.T) {
	tokens := tokenize(t, "  a  ")
	eof := tokens[len(tokens)-1]
	be.Equal(t, eof.Kind, EOF)
	be.Equal(t, eof.Pos, 5)
	be.Equal(t, eof.Len, 0)
	be.Equal(t, eof.String(), "EOF")
}

func TestEmptyInput(t *testing.T) {
	tokens := tokenize(t, " \t\n\r ")
	be.Equal(t, len(tokens), 1)
	be.Equal(t, tokens[0].Kind, EOF)
}

func TestTokenString(t *testing.T) {
	tokens := tokenize(t, "return x1 == 4")
	be.Equal(t, tokens[0].String(), `KEYWORD "return"`)
	be.Equal(t, tokens[1].String(), `IDENT "x1"`)
	be.Equal(t, tokens[2].String(), `PUNCT "=="`)
	be.Equal(t, tokens[3].String(), `NUM "4"`)
}

// ========================
// ERRORS
// ========================

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		msg   string
	}{
		{"{return 99999999999999999999;}", 8, "number too large"},
		{"9223372036854775808", 0, "number too large"},
		{"a = é;", 4, "invalid token"},
		{"a\x00", 1, "invalid token"},
		{"1 \x7f", 2, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			be.True(t, tokens == nil)

			var lexErr *LexError
			be.True(t, errors.As(err, &lexErr))
			be.Equal(t, lexErr.Pos, tt.pos)
			be.Equal(t, lexErr.Msg, tt.msg)
		})
	}
}

// ========================
// PROPERTIES
// ========================

// Concatenating every token's span reproduces the source with its
// whitespace removed.
func TestTokenSpansReconstructSource(t *testing.T) {
	t.Parallel()
	sources := []string{
		"{a=3; return a+2*5-1;}",
		"{x=1; y=2; while(x<=5){y=y*x; x=x+1;} return y;}",
		"{a=0; for(i=0; i<5; i=i+1){a=a+i;} return a;}",
		"{ if (a >= b) return - -a; else { ;; } }",
		"\t{\n  return\t1 != 2 ;\r\n}\n",
		"a==b!=c<=d>=e<f>g",
		"@#$%^&*~`'\"\\|?.,:",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			tokens := tokenize(t, src)

			var rebuilt strings.Builder
			for _, tok := range tokens {
				be.Equal(t, tok.Text, src[tok.Pos:tok.Pos+tok.Len])
				rebuilt.WriteString(tok.Text)
			}

			stripped := strings.Map(func(r rune) rune {
				if strings.ContainsRune(" \t\n\r\v\f", r) {
					return -1
				}
				return r
			}, src)
			be.Equal(t, rebuilt.String(), stripped)
		})
	}
}

func TestTokenPositionsIncrease(t *testing.T) {
	t.Parallel()
	tokens := tokenize(t, "{ a = 10 ; b = a >= 3 ; }")
	for i := 1; i < len(tokens); i++ {
		prev := tokens[i-1]
		be.True(t, tokens[i].Pos >= prev.Pos+prev.Len)
	}
}

func TestNextTokenStreams(t *testing.T) {
	l := NewLexer([]byte("a 1"))

	tok, err := l.NextToken()
	be.Err(t, err, nil)
	be.Equal(t, tok.Kind, IDENT)

	tok, err = l.NextToken()
	be.Err(t, err, nil)
	be.Equal(t, tok.Kind, NUM)

	// EOF repeats once the input is exhausted.
	for range 2 {
		tok, err = l.NextToken()
		be.Err(t, err, nil)
		be.Equal(t, tok.Kind, EOF)
		be.Equal(t, tok.Pos, 3)
	}
}
