package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahgmlee/lox/internal/ast"
	"github.com/noahgmlee/lox/internal/lexer"
)

func parse(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	toks := lexer.New([]byte(src)).Scan()
	p := New(toks)
	prog := p.Parse()
	return prog, p
}

func TestParsePrecedence(t *testing.T) {
	prog, p := parse(t, "1 + 2 * 3;")
	require.False(t, p.Errors.HasErrors())
	require.Len(t, prog.Stmts, 1)

	exprStmt := prog.Stmts[0].(*ast.Expression)
	bin := exprStmt.Expr.(*ast.Binary)
	assert.Equal(t, "+", bin.Op.Lexeme)
	assert.Equal(t, "(* 2 3)", bin.Right.String())
}

func TestParseForDesugarsToWhile(t *testing.T) {
	prog, p := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, p.Errors.HasErrors())
	require.Len(t, prog.Stmts, 1)

	block := prog.Stmts[0].(*ast.Block)
	require.Len(t, block.Stmts, 2)
	_, isVar := block.Stmts[0].(*ast.Var)
	assert.True(t, isVar)

	while, isWhile := block.Stmts[1].(*ast.While)
	require.True(t, isWhile)

	body := while.Body.(*ast.Block)
	require.Len(t, body.Stmts, 2)
	_, isPrint := body.Stmts[0].(*ast.Print)
	assert.True(t, isPrint)
	_, isIncr := body.Stmts[1].(*ast.Expression)
	assert.True(t, isIncr)
}

func TestParseClassWithSuperclass(t *testing.T) {
	prog, p := parse(t, "class Foo < Bar { init() { this.x = 1; } }")
	require.False(t, p.Errors.HasErrors())
	require.Len(t, prog.Stmts, 1)

	class := prog.Stmts[0].(*ast.Class)
	require.NotNil(t, class.Superclass)
	assert.Equal(t, "Bar", class.Superclass.Name.Lexeme)
	require.Len(t, class.Methods, 1)
	assert.Equal(t, "init", class.Methods[0].Name.Lexeme)
}

func TestParseInvalidAssignmentTargetDoesNotSynchronize(t *testing.T) {
	prog, p := parse(t, "1 + 2 = 3; print 1;")
	assert.True(t, p.Errors.HasErrors())
	// parsing continued past the bad assignment and still saw the print
	require.Len(t, prog.Stmts, 2)
	_, isPrint := prog.Stmts[1].(*ast.Print)
	assert.True(t, isPrint)
}

func TestParseSynchronizesAfterError(t *testing.T) {
	prog, p := parse(t, "var ;\nprint 1;\nprint 2;")
	assert.True(t, p.Errors.HasErrors())
	// the broken declaration is skipped but both prints still parse
	var prints int
	for _, s := range prog.Stmts {
		if _, ok := s.(*ast.Print); ok {
			prints++
		}
	}
	assert.Equal(t, 2, prints)
}

func TestParseTooManyParametersIsNonFatal(t *testing.T) {
	src := "fun f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "a" + string(rune('A'+i%26))
	}
	src += ") {}"

	prog, p := parse(t, src)
	assert.True(t, p.Errors.HasErrors())
	// the limit error does not unwind: the function declaration still parses
	require.Len(t, prog.Stmts, 1)
}
