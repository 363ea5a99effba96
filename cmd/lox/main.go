// Command lox is the Lox interpreter's entry point: no arguments starts
// the REPL, one argument runs a script file, anything else is a usage
// error.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahgmlee/lox/internal/engine"
	"github.com/noahgmlee/lox/internal/repl"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:           "lox [script]",
		Short:         "Lox: a tree-walking interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
	}

	exitCode := engine.ExitOK
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			exitCode = repl.Run(os.Stdout, os.Stderr)
			return nil
		}
		exitCode = runFile(args[0])
		return nil
	}

	if err := root.Execute(); err != nil {
		// Usage errors print to stdout, not stderr.
		fmt.Fprintln(os.Stdout, "Usage: lox [script]")
		return engine.ExitUsage
	}
	return exitCode
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return engine.ExitUsage
	}
	return engine.RunFile(source, os.Stdout, os.Stderr)
}
