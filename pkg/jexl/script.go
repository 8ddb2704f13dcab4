package jexl

import (
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
)

// Script is a compiled, re-executable JEXL script with zero or more
// named parameters (spec.md §6 Script).
type Script struct {
	engine *Engine
	prog   *jexlast.Program
	source string
}

// Execute runs the script body against ctx, binding args positionally
// into the parameter slots named at CreateScript time (spec.md §6
// Script.execute(ctx[, args...])).
func (s *Script) Execute(ctx jexlcontext.Context, args ...value.Value) (value.Value, error) {
	if pub, ok := ctx.(jexlcontext.ThreadLocalContext); ok {
		pub.Publish()
		defer pub.Unpublish()
	}
	ip := s.engine.interpreter(ctx)
	return ip.RunWithArgs(s.prog, args)
}

// Callable returns a value.Callable bound to ctx, so a script can be
// handed to another evaluation as a first-class function value (spec.md
// §6 Script.callable(ctx[, args...])).
func (s *Script) Callable(ctx jexlcontext.Context) value.Callable {
	return value.Callable{
		CKind: value.CallableHostMethod,
		Name:  "script",
		Arity: len(s.prog.Params),
		Invoke: func(args []value.Value) (value.Value, error) {
			return s.Execute(ctx, args...)
		},
	}
}

// GetParameters returns the script's declared parameter names, in order
// (spec.md §6 Script.getParameters()).
func (s *Script) GetParameters() []string {
	return append([]string(nil), s.prog.Params...)
}

// GetLocalVariables returns every name declared directly in the script's
// top-level scope, parameters included, in declaration order
// (SPEC_FULL.md §3 Script.getLocalVariables()).
func (s *Script) GetLocalVariables() []string {
	return append([]string(nil), s.prog.Locals...)
}

// GetVariables returns every free (context-resolved) variable reference
// in the script (spec.md §6 Script.getVariables()).
func (s *Script) GetVariables() []string {
	return s.engine.GetVariables(s.prog)
}

// GetSourceText returns the original source text passed to CreateScript.
func (s *Script) GetSourceText() string { return s.source }

// GetParsedText renders the parsed AST back to source form (spec.md §6
// Script.getParsedText(), §8 Testable Property 1 "parse idempotence").
func (s *Script) GetParsedText() string { return s.prog.String() }
