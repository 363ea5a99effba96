// Package diagnostics formats and accumulates the user-facing errors
// produced while lexing, parsing, resolving, and running a Lox program.
//
// Lox's wire format for a diagnostic ("[line L] Error <where>: <msg>")
// is a contract with the user, not a developer log line, so it is
// written directly to an io.Writer rather than routed through logrus.
// logrus is reserved for this project's own internal/operational
// logging; its one use is the REPL failing to start its line editor —
// see internal/repl.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/noahgmlee/lox/internal/token"
)

// Bag accumulates diagnostics across a single compile (lex, parse, or
// resolve pass) instead of stopping at the first one, so a user sees as
// many errors as possible per run.
type Bag struct {
	errs *multierror.Error
}

// Error is a single formatted Lox diagnostic.
type Error struct {
	Line    int
	Where   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// AtLine records a diagnostic with no token context (e.g. a lex error).
func (b *Bag) AtLine(line int, message string) {
	b.errs = multierror.Append(b.errs, &Error{Line: line, Message: message})
}

// AtToken records a diagnostic located at tok, formatting "at end" for
// EOF and "at '<lexeme>'" otherwise, per the CLI diagnostic contract.
func (b *Bag) AtToken(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = " at end"
	}
	b.errs = multierror.Append(b.errs, &Error{Line: tok.Line, Where: where, Message: message})
}

// HasErrors reports whether any diagnostic has been recorded.
func (b *Bag) HasErrors() bool {
	return b.errs != nil && b.errs.Len() > 0
}

// Print writes every accumulated diagnostic, one per line, to w.
func (b *Bag) Print(w io.Writer) {
	if b.errs == nil {
		return
	}
	for _, err := range b.errs.Errors {
		fmt.Fprintln(w, err.Error())
	}
}

// RuntimeError reports the single fatal error that aborted the
// statement currently executing (runtime errors are not batched, unlike
// lex/parse/resolve diagnostics). It uses the same
// "[line L] Error <where>: <message>" wire format as static diagnostics.
func RuntimeError(w io.Writer, line int, message string) {
	fmt.Fprintln(w, (&Error{Line: line, Message: message}).Error())
}
