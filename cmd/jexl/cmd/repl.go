package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/pkg/jexl"
)

var replSafe bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive JEXL read-eval-print loop",
	Long: `Start an interactive session: each line you enter is parsed as a
JEXL expression and evaluated against a context shared across the whole
session, so a variable assigned on one line is visible on the next.

There is no teacher command this mirrors one-to-one (DWScript has no
REPL of its own); it is built in the same cobra-subcommand shape as
eval/parse/lex, reading from stdin with bufio.Scanner the way the
teacher's own file-or-stdin input resolution does.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replSafe, "safe", false, "enable safe navigation by default")
}

func runRepl(cmd *cobra.Command, args []string) error {
	builder := jexl.NewBuilder()
	if replSafe {
		builder.WithSafe(true)
	}
	engine, err := builder.Create()
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	ctx := jexlcontext.NewMapContext(nil)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("jexl repl -- enter an expression, Ctrl-D to exit")
	for {
		fmt.Print("jexl> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		expr, err := engine.CreateExpression(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		v, err := expr.Evaluate(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "eval error: %v\n", err)
			continue
		}
		fmt.Println(v.String())
	}
	return scanner.Err()
}
