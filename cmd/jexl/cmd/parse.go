package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlparser"
)

var (
	parseExpr    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse JEXL source and display the AST",
	Long: `Parse JEXL source and display its Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line. Use --dump-ast to show the full
tree structure instead of the re-rendered source form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "expression", "e", "", "parse an inline expression instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(parseExpr, args)
	if err != nil {
		return err
	}

	p := jexlparser.New(input, jexlparser.NewFeatures(), false)
	program := p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpASTNode(program, 0)
	} else {
		fmt.Println(program.String())
	}
	return nil
}

func dumpASTNode(node any, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}

	switch n := node.(type) {
	case *jexlast.Program:
		fmt.Printf("%sProgram (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpASTNode(s, indent+1)
		}
	case *jexlast.ExprStmt:
		fmt.Printf("%sExprStmt\n", pad)
		dumpASTNode(n.Expr, indent+1)
	case *jexlast.BlockStmt:
		fmt.Printf("%sBlockStmt (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpASTNode(s, indent+1)
		}
	case *jexlast.VarDeclStmt:
		fmt.Printf("%sVarDeclStmt %s\n", pad, n.Name)
		if n.Init != nil {
			dumpASTNode(n.Init, indent+1)
		}
	case *jexlast.IfStmt:
		fmt.Printf("%sIfStmt\n", pad)
		fmt.Printf("%s  Cond:\n", pad)
		dumpASTNode(n.Cond, indent+2)
		fmt.Printf("%s  Then:\n", pad)
		dumpASTNode(n.Then, indent+2)
		if n.Else != nil {
			fmt.Printf("%s  Else:\n", pad)
			dumpASTNode(n.Else, indent+2)
		}
	case *jexlast.WhileStmt:
		fmt.Printf("%sWhileStmt\n", pad)
		dumpASTNode(n.Cond, indent+1)
		dumpASTNode(n.Body, indent+1)
	case *jexlast.ForStmt:
		fmt.Printf("%sForStmt %s\n", pad, n.VarName)
		dumpASTNode(n.Iterable, indent+1)
		dumpASTNode(n.Body, indent+1)
	case *jexlast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *jexlast.BreakStmt:
		fmt.Printf("%sBreakStmt\n", pad)
	case *jexlast.ContinueStmt:
		fmt.Printf("%sContinueStmt\n", pad)
	case *jexlast.BinaryExpr:
		fmt.Printf("%sBinaryExpr (%s)\n", pad, n.Op)
		fmt.Printf("%s  Left:\n", pad)
		dumpASTNode(n.Left, indent+2)
		fmt.Printf("%s  Right:\n", pad)
		dumpASTNode(n.Right, indent+2)
	case *jexlast.UnaryExpr:
		fmt.Printf("%sUnaryExpr (%s)\n", pad, n.Op)
		dumpASTNode(n.Operand, indent+1)
	case *jexlast.TernaryExpr:
		fmt.Printf("%sTernaryExpr\n", pad)
		dumpASTNode(n.Cond, indent+1)
		dumpASTNode(n.Then, indent+1)
		dumpASTNode(n.Else, indent+1)
	case *jexlast.DotExpr:
		fmt.Printf("%sDotExpr .%s\n", pad, n.Member)
		dumpASTNode(n.Receiver, indent+1)
	case *jexlast.IndexExpr:
		fmt.Printf("%sIndexExpr\n", pad)
		dumpASTNode(n.Receiver, indent+1)
		dumpASTNode(n.Index, indent+1)
	case *jexlast.CallExpr:
		fmt.Printf("%sCallExpr (%d args)\n", pad, len(n.Args))
		dumpASTNode(n.Callee, indent+1)
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case *jexlast.NamespaceExpr:
		fmt.Printf("%sNamespaceExpr %s:%s\n", pad, n.Namespace, n.Member)
	case *jexlast.NewExpr:
		fmt.Printf("%sNewExpr %s (%d args)\n", pad, n.ClassName, len(n.Args))
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case *jexlast.LambdaExpr:
		fmt.Printf("%sLambdaExpr (%d params)\n", pad, len(n.Params))
		for _, s := range n.Body {
			dumpASTNode(s, indent+1)
		}
	case *jexlast.Ident:
		fmt.Printf("%sIdent: %s\n", pad, n.Name)
	case *jexlast.AntishIdent:
		fmt.Printf("%sAntishIdent: %s\n", pad, n.String())
	case *jexlast.IntLiteral:
		fmt.Printf("%sIntLiteral: %d\n", pad, n.Value)
	case *jexlast.FloatLiteral:
		fmt.Printf("%sFloatLiteral: %g\n", pad, n.Value)
	case *jexlast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", pad, n.Value)
	case *jexlast.BoolLiteral:
		fmt.Printf("%sBoolLiteral: %v\n", pad, n.Value)
	case *jexlast.NullLiteral:
		fmt.Printf("%sNullLiteral\n", pad)
	default:
		fmt.Printf("%s%T: %s\n", pad, node, fmt.Sprint(node))
	}
}
