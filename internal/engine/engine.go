// Package engine wires the four pipeline stages (lexer, parser,
// resolver, interpreter) together, the way both the script runner and
// the REPL need them. It owns the exit-code mapping:
// 0 clean, 64 CLI misuse (handled by the caller, not here), 65 static
// errors, 70 runtime errors.
package engine

import (
	"io"

	"github.com/noahgmlee/lox/internal/interpreter"
	"github.com/noahgmlee/lox/internal/lexer"
	"github.com/noahgmlee/lox/internal/parser"
	"github.com/noahgmlee/lox/internal/resolver"
)

const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
)

// Session holds a long-lived Interpreter so a REPL can run one line at
// a time while keeping previously defined globals around.
type Session struct {
	interp *interpreter.Interpreter
	stderr io.Writer
}

// NewSession returns a Session writing program output to stdout and
// diagnostics to stderr.
func NewSession(stdout, stderr io.Writer) *Session {
	return &Session{
		interp: interpreter.New(nil, stdout, stderr),
		stderr: stderr,
	}
}

// RunFile lexes, parses, resolves, and executes an entire script in one
// pass, returning the process exit code.
func RunFile(source []byte, stdout, stderr io.Writer) int {
	interp := interpreter.New(nil, stdout, stderr)
	return run(source, interp, stderr)
}

// RunLine executes a single line of REPL input against the session's
// persistent interpreter, returning the exit code that single line
// would produce. Diagnostics are already written to stderr by then;
// the REPL discards the code and never exits because of it.
func (s *Session) RunLine(source []byte) int {
	return run(source, s.interp, s.stderr)
}

func run(source []byte, interp *interpreter.Interpreter, stderr io.Writer) int {
	lx := lexer.New(source)
	tokens := lx.Scan()
	if lx.Errors.HasErrors() {
		lx.Errors.Print(stderr)
		return ExitStatic
	}

	p := parser.New(tokens)
	prog := p.Parse()
	if p.Errors.HasErrors() {
		p.Errors.Print(stderr)
		return ExitStatic
	}

	res := resolver.New()
	locals := res.Resolve(prog)
	if res.Errors.HasErrors() {
		res.Errors.Print(stderr)
		return ExitStatic
	}

	interp.SetLocals(locals)
	if err := interp.Run(prog); err != nil {
		return ExitRuntime
	}
	return ExitOK
}
