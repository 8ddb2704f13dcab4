package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jexl-go/jexl/internal/jexllexer"
)

var (
	evalExpr   string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a JEXL expression or script",
	Long: `Tokenize (lex) JEXL source and print the resulting tokens.

Examples:
  # Tokenize a script file
  jexl lex script.jexl

  # Tokenize an inline expression
  jexl lex -e "1 + 2 * 3"

  # Show token types and positions
  jexl lex --show-type --show-pos script.jexl

  # Show only illegal tokens
  jexl lex --only-errors script.jexl`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := resolveInput(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := jexllexer.New(input)

	tokenCount := 0
	errorCount := 0
	for {
		tok := l.NextToken()

		if onlyErrors && tok.Type != jexllexer.ILLEGAL {
			if tok.Type == jexllexer.EOF {
				break
			}
			continue
		}

		tokenCount++
		if tok.Type == jexllexer.ILLEGAL {
			errorCount++
		}

		printToken(tok)

		if tok.Type == jexllexer.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if onlyErrors && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok jexllexer.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-14s]", tokenTypeName(tok.Type))
	}

	switch {
	case tok.Type == jexllexer.EOF:
		output += " EOF"
	case tok.Type == jexllexer.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tokenTypeName(tok.Type))
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if showPos {
		output += fmt.Sprintf(" @%s", tok.Pos.String())
	}

	fmt.Println(output)
}

// resolveInput implements the flag/file/stdin precedence shared by eval,
// parse and lex: an inline -e string (--eval, or --expression for parse)
// wins, then a positional file
// argument, then stdin.
func resolveInput(inline string, args []string) (input, label string, err error) {
	switch {
	case inline != "":
		return inline, "<eval>", nil
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	default:
		content, err := readStdin()
		if err != nil {
			return "", "", err
		}
		return content, "<stdin>", nil
	}
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}

// tokenTypeName renders a jexllexer.Type as a readable name for --show-type;
// jexllexer.Type has no Stringer of its own since the lexer only needs the
// numeric Type for comparisons.
func tokenTypeName(t jexllexer.Type) string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var tokenTypeNames = map[jexllexer.Type]string{
	jexllexer.ILLEGAL:           "ILLEGAL",
	jexllexer.EOF:               "EOF",
	jexllexer.IDENT:             "IDENT",
	jexllexer.INT:               "INT",
	jexllexer.FLOAT:             "FLOAT",
	jexllexer.STRING:            "STRING",
	jexllexer.TEMPLATE_STR:      "TEMPLATE_STR",
	jexllexer.TRUE:              "TRUE",
	jexllexer.FALSE:             "FALSE",
	jexllexer.NULL:              "NULL",
	jexllexer.VAR:               "VAR",
	jexllexer.IF:                "IF",
	jexllexer.ELSE:              "ELSE",
	jexllexer.FOR:               "FOR",
	jexllexer.WHILE:             "WHILE",
	jexllexer.DO:                "DO",
	jexllexer.RETURN:            "RETURN",
	jexllexer.BREAK:             "BREAK",
	jexllexer.CONTINUE:          "CONTINUE",
	jexllexer.FUNCTION:          "FUNCTION",
	jexllexer.PRAGMA:            "PRAGMA",
	jexllexer.NEW:               "NEW",
	jexllexer.LPAREN:            "LPAREN",
	jexllexer.RPAREN:            "RPAREN",
	jexllexer.LBRACE:            "LBRACE",
	jexllexer.RBRACE:            "RBRACE",
	jexllexer.LBRACKET:          "LBRACKET",
	jexllexer.RBRACKET:          "RBRACKET",
	jexllexer.COMMA:             "COMMA",
	jexllexer.SEMI:              "SEMI",
	jexllexer.COLON:             "COLON",
	jexllexer.DOT:               "DOT",
	jexllexer.QUESTION:          "QUESTION",
	jexllexer.QUESTION_DOT:      "QUESTION_DOT",
	jexllexer.QUESTION_QUESTION: "QUESTION_QUESTION",
	jexllexer.ARROW:             "ARROW",
	jexllexer.AT:                "AT",
	jexllexer.ASSIGN:            "ASSIGN",
	jexllexer.PLUS:              "PLUS",
	jexllexer.MINUS:             "MINUS",
	jexllexer.STAR:              "STAR",
	jexllexer.SLASH:             "SLASH",
	jexllexer.PERCENT:           "PERCENT",
	jexllexer.BANG:              "BANG",
	jexllexer.TILDE:             "TILDE",
	jexllexer.AMP:               "AMP",
	jexllexer.PIPE:              "PIPE",
	jexllexer.CARET:             "CARET",
	jexllexer.SHL:               "SHL",
	jexllexer.SHR:               "SHR",
	jexllexer.USHR:              "USHR",
	jexllexer.AND:               "AND",
	jexllexer.OR:                "OR",
	jexllexer.EQ:                "EQ",
	jexllexer.NEQ:               "NEQ",
	jexllexer.LT:                "LT",
	jexllexer.LE:                "LE",
	jexllexer.GT:                "GT",
	jexllexer.GE:                "GE",
	jexllexer.RANGE:             "RANGE",
	jexllexer.MATCH:             "MATCH",
	jexllexer.NOT_MATCH:         "NOT_MATCH",
	jexllexer.STARTS:            "STARTS",
	jexllexer.ENDS:              "ENDS",
	jexllexer.NAMESPACE_SEP:     "NAMESPACE_SEP",
}
