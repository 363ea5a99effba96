package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahgmlee/lox/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanPunctuatorsAndComparators(t *testing.T) {
	toks := New([]byte(`(){},.-+;*/ == != <= >= < > = !`)).Scan()
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Slash,
		token.EqualEqual, token.BangEqual, token.LessEqual, token.GreaterEqual,
		token.Less, token.Greater, token.Equal, token.Bang,
		token.EOF,
	}, kinds(toks))
}

func TestScanSkipsLineComments(t *testing.T) {
	toks := New([]byte("1 // a comment\n2")).Scan()
	require.Len(t, toks, 3)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanStringLiteral(t *testing.T) {
	lx := New([]byte(`"hello there"`))
	toks := lx.Scan()
	require.False(t, lx.Errors.HasErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello there", toks[0].Literal)
}

func TestScanUnterminatedStringIsLexError(t *testing.T) {
	lx := New([]byte(`"oops`))
	lx.Scan()
	assert.True(t, lx.Errors.HasErrors())
}

func TestScanNumberLiteral(t *testing.T) {
	toks := New([]byte(`123 45.67`)).Scan()
	require.Len(t, toks, 3)
	assert.Equal(t, 123.0, toks[0].Literal)
	assert.Equal(t, 45.67, toks[1].Literal)
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := New([]byte(`and class myVar`)).Scan()
	require.Len(t, toks, 4)
	assert.Equal(t, token.And, toks[0].Kind)
	assert.Equal(t, token.Class, toks[1].Kind)
	assert.Equal(t, token.Identifier, toks[2].Kind)
	assert.Equal(t, "myVar", toks[2].Lexeme)
}

func TestScanUnexpectedCharacterIsLexErrorButContinues(t *testing.T) {
	lx := New([]byte("1 @ 2"))
	toks := lx.Scan()
	assert.True(t, lx.Errors.HasErrors())
	// lexing continues past the bad character
	assert.Equal(t, []token.Kind{token.Number, token.Number, token.EOF}, kinds(toks))
}

func TestScanTracksLineNumbers(t *testing.T) {
	toks := New([]byte("1\n2\n\n3")).Scan()
	require.Len(t, toks, 4)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 4, toks[2].Line)
}
