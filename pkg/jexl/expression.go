package jexl

import (
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
)

// Expression is a compiled JEXL expression with no parameters of its own
// (spec.md §6 Expression).
type Expression struct {
	engine *Engine
	prog   *jexlast.Program
	source string
}

// Evaluate runs the expression against ctx, returning the value of its
// single result (spec.md §6 Expression.evaluate(ctx)).
func (x *Expression) Evaluate(ctx jexlcontext.Context) (value.Value, error) {
	if pub, ok := ctx.(jexlcontext.ThreadLocalContext); ok {
		pub.Publish()
		defer pub.Unpublish()
	}
	ip := x.engine.interpreter(ctx)
	return ip.Run(x.prog)
}

// Callable returns a value.Callable bound to ctx, taking no arguments
// (spec.md §6 Expression.callable(ctx)).
func (x *Expression) Callable(ctx jexlcontext.Context) value.Callable {
	return value.Callable{
		CKind: value.CallableHostMethod,
		Name:  "expression",
		Arity: 0,
		Invoke: func([]value.Value) (value.Value, error) {
			return x.Evaluate(ctx)
		},
	}
}

// GetSourceText returns the original source text passed to CreateExpression.
func (x *Expression) GetSourceText() string { return x.source }

// GetParsedText renders the parsed AST back to source form (Testable
// Property 1 "parse idempotence").
func (x *Expression) GetParsedText() string { return x.prog.String() }

// GetVariables returns every free variable reference in the expression.
func (x *Expression) GetVariables() []string {
	return x.engine.GetVariables(x.prog)
}
