package interpreter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahgmlee/lox/internal/lexer"
	"github.com/noahgmlee/lox/internal/parser"
	"github.com/noahgmlee/lox/internal/resolver"
)

// runProgram lexes, parses, resolves, and evaluates src in one shot,
// returning everything printed to stdout and the run error (if any).
func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()

	toks := lexer.New([]byte(src)).Scan()
	p := parser.New(toks)
	prog := p.Parse()
	require.False(t, p.Errors.HasErrors(), "unexpected parse errors")

	r := resolver.New()
	locals := r.Resolve(prog)
	require.False(t, r.Errors.HasErrors(), "unexpected resolve errors")

	var stdout, stderr bytes.Buffer
	interp := New(locals, &stdout, &stderr)
	err := interp.Run(prog)
	return stdout.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := runProgram(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := runProgram(t, `var a = "hi"; var b = " there"; print a + b;`)
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", out)
}

func TestForLoopAccumulates(t *testing.T) {
	out, err := runProgram(t, `
		var x = 0;
		for (var i = 0; i < 3; i = i + 1) x = x + i;
		print x;
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestClosureCounter(t *testing.T) {
	out, err := runProgram(t, `
		fun makeCounter() {
			var n = 0;
			fun c() { n = n + 1; return n; }
			return c;
		}
		var c = makeCounter();
		print c();
		print c();
		print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestLexicalCaptureIsByDefinitionSite(t *testing.T) {
	out, err := runProgram(t, `
		var a = "global";
		{
			fun show() { print a; }
			show();
			var a = "local";
			show();
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "global\nglobal\n", out)
}

func TestClassInitAndMethodWithThis(t *testing.T) {
	out, err := runProgram(t, `
		class Greeter {
			init(n) { this.name = n; }
			hi() { print "hi " + this.name; }
		}
		Greeter("Bob").hi();
	`)
	require.NoError(t, err)
	assert.Equal(t, "hi Bob\n", out)
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := runProgram(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "woof";
			}
		}
		Dog().speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "...\nwoof\n", out)
}

func TestBoundMethodRetainsThis(t *testing.T) {
	out, err := runProgram(t, `
		class Counter {
			init() { this.n = 0; }
			bump() { this.n = this.n + 1; return this.n; }
		}
		var c = Counter();
		var m = c.bump;
		print m();
		print m();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestAndOrShortCircuitAndReturnOperandValue(t *testing.T) {
	out, err := runProgram(t, `
		print nil or "fallback";
		print "truthy" and "second";
		print false and "unreached";
	`)
	require.NoError(t, err)
	assert.Equal(t, "fallback\nsecond\nfalse\n", out)
}

func TestRuntimeErrorAddingNumberAndString(t *testing.T) {
	_, err := runProgram(t, `1 + "a";`)
	require.Error(t, err)
}

func TestNumberDisplayDropsTrailingZero(t *testing.T) {
	out, err := runProgram(t, `print 6.0 / 2;`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}
