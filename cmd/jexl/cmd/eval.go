package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
	"github.com/jexl-go/jexl/pkg/jexl"
)

var (
	evalScript  bool
	evalJSONCtx string
	evalConfig  string
	evalFlags   string
	evalJSON    bool
)

// evalConfigFile is the shape of the --config YAML document: the
// host-integration facade equivalent of the teacher's project config
// file, generalized from flag strings instead of compiler switches.
type evalConfigFile struct {
	Flags       string `yaml:"flags"`
	Restricted  bool   `yaml:"restricted"`
	Safe        bool   `yaml:"safe"`
	Silent      bool   `yaml:"silent"`
	MaxDepth    int    `yaml:"maxDepth"`
	Charset     string `yaml:"charset"`
}

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate a JEXL expression or script",
	Long: `Evaluate a JEXL expression (default) or script (--script) and print
its result.

Examples:
  jexl eval -e "1 + 2 * 3"
  jexl eval -e "x.y.z" --json-context '{"x":{"y":{"z":42}}}'
  jexl eval --script script.jexl --config jexl.yaml
  jexl eval -e "a.b" --json-context @context.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from a file")
	evalCmd.Flags().BoolVar(&evalScript, "script", false, "parse input as a script (statements) instead of a single expression")
	evalCmd.Flags().StringVar(&evalJSONCtx, "json-context", "", "JSON document (inline, or @file) to evaluate against")
	evalCmd.Flags().StringVar(&evalConfig, "config", "", "YAML file of engine flags/options (jexl eval --config jexl.yaml)")
	evalCmd.Flags().StringVar(&evalFlags, "flags", "", "Options flag string, e.g. \"+safe -strict\"")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "print the result as pretty-printed JSON")
}

func runEval(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(evalExpr, args)
	if err != nil {
		return err
	}

	builder := jexl.NewBuilder()

	if evalConfig != "" {
		if err := applyConfigFile(builder, evalConfig); err != nil {
			return err
		}
	}
	if evalFlags != "" {
		errs, b := builder.WithFlags(evalFlags)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "warning: %s\n", e)
		}
		builder = b
	}

	engine, err := builder.Create()
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	ctx, err := evalContext(evalJSONCtx)
	if err != nil {
		return err
	}

	var result value.Value
	if evalScript {
		script, err := engine.CreateScript(input)
		if err != nil {
			return err
		}
		v, err := script.Execute(ctx)
		if err != nil {
			return err
		}
		result = v
	} else {
		expr, err := engine.CreateExpression(input)
		if err != nil {
			return err
		}
		v, err := expr.Evaluate(ctx)
		if err != nil {
			return err
		}
		result = v
	}

	if evalJSON {
		return printResultAsJSON(result)
	}
	fmt.Println(result.String())
	return nil
}

// applyConfigFile loads a YAML config document and folds its settings
// into builder, the CLI-facing equivalent of pkg/jexl.Builder's
// programmatic construction (SPEC_FULL.md §2 goccy/go-yaml wiring).
func applyConfigFile(builder *jexl.Builder, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg evalConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Flags != "" {
		if errs, _ := builder.WithFlags(cfg.Flags); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "warning: config flags: %s\n", e)
			}
		}
	}
	if cfg.Restricted {
		builder.WithRestrictedPermissions()
	}
	if cfg.Safe {
		builder.WithSafe(true)
	}
	if cfg.Silent {
		builder.WithSilent(true)
	}
	if cfg.MaxDepth > 0 {
		builder.WithMaxDepth(cfg.MaxDepth)
	}
	if cfg.Charset != "" {
		builder.WithCharset(cfg.Charset)
	}
	return nil
}

// evalContext builds the evaluation Context: a JSONContext if
// --json-context was given (inline or @file), otherwise an empty
// MapContext.
func evalContext(jsonCtx string) (jexlcontext.Context, error) {
	if jsonCtx == "" {
		return jexlcontext.NewMapContext(nil), nil
	}
	doc := jsonCtx
	if strings.HasPrefix(jsonCtx, "@") {
		data, err := os.ReadFile(jsonCtx[1:])
		if err != nil {
			return nil, fmt.Errorf("reading json-context file: %w", err)
		}
		doc = string(data)
	}
	return jexlcontext.NewJSONContext(doc, nil), nil
}

// printResultAsJSON converts a Value into a plain Go structure and
// pretty-prints it as JSON via tidwall/pretty, the CLI's --json output
// mode (SPEC_FULL.md §2 domain stack).
func printResultAsJSON(v value.Value) error {
	raw, err := json.Marshal(valueToGo(v))
	if err != nil {
		return err
	}
	fmt.Println(string(pretty.Pretty(raw)))
	return nil
}

// valueToGo converts a Value to the nearest plain Go representation for
// encoding/json, mirroring jexlcontext's jexlValueToGo conversion (the
// inverse of its gjsonToValue).
func valueToGo(v value.Value) any {
	switch t := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		return t.Value
	case value.Int:
		return t.Value
	case value.Float:
		return t.Value
	case value.Str:
		return t.Value
	case value.BigInt:
		return t.Value.String()
	case value.Decimal:
		return t.Value.String()
	case *value.List:
		out := make([]any, len(t.Items))
		for i, e := range t.Items {
			out[i] = valueToGo(e)
		}
		return out
	case *value.Map:
		out := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			mv, _ := t.Get(k)
			out[k.String()] = valueToGo(mv)
		}
		return out
	case *value.SetVal:
		out := make([]any, len(t.Items()))
		for i, e := range t.Items() {
			out[i] = valueToGo(e)
		}
		return out
	default:
		return v.String()
	}
}
