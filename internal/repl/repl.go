// Package repl implements Lox's interactive prompt: read a line, lex,
// parse, resolve and execute it against a persistent interpreter
// Session, print any diagnostics, and loop. Starting with no arguments
// drops into this prompt ('>> '), one statement or expression per
// line, blank lines ignored, EOF terminates.
//
// Line editing is built on readline (grounded: akashmaji946-go-mix's
// repl/repl.go, which pairs chzyer/readline with fatih/color for the
// same kind of REPL), giving history and arrow-key editing instead of
// a bare bufio.Scanner loop.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/noahgmlee/lox/internal/engine"
)

const prompt = ">> "

// Run drives the REPL loop until EOF (Ctrl-D) or an interrupt,
// returning the process exit code (always 0 for a clean EOF; a runtime
// or static error on a given line is reported but returns control to
// the prompt rather than ending the session).
func Run(stdout, stderr io.Writer) int {
	coloredPrompt := color.New(color.FgCyan).Sprint(prompt)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: coloredPrompt,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to start line editor")
		return engine.ExitRuntime
	}
	defer rl.Close()

	session := engine.NewSession(stdout, stderr)

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return engine.ExitOK
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		// Errors are already reported to stderr by the engine; the REPL
		// just loops back to the prompt regardless of this line's result.
		session.RunLine([]byte(line))
	}
}
