// Package cmd implements the jexl command-line front-end: a small tree
// of cobra subcommands (eval, parse, lex, repl) built on top of
// pkg/jexl, the same way the teacher wires its own CLI on top of its
// lexer/parser/interp packages.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jexl",
	Short: "JEXL expression and scripting language engine",
	Long: `jexl is a Go implementation of the JEXL expression language:
Java-flavored property-path expressions and scripts with antish
variable resolution, safe navigation, lambdas, and string
interpolation.

This CLI exercises the pkg/jexl facade directly: eval and parse
inline expressions or script files, lex source into tokens, or drop
into an interactive REPL.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
