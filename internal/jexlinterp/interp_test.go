package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlinterp"
	"github.com/jexl-go/jexl/internal/jexlparser"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

// newCtx builds a MapContext with fn pre-applied to its Options (or the
// default Options if fn is nil), the fixture used by every test below.
func newCtx(t *testing.T, fn func(*jexlcontext.Options)) *jexlcontext.MapContext {
	t.Helper()
	opts := jexlcontext.NewDefaultOptions()
	if fn != nil {
		fn(opts)
	}
	return jexlcontext.NewMapContext(opts)
}

// run parses src with every Feature enabled and evaluates it against ctx,
// failing the test immediately on a parse error.
func run(t *testing.T, src string, ctx *jexlcontext.MapContext) (value.Value, error) {
	t.Helper()
	p := jexlparser.New(src, jexlparser.NewFeatures(), ctx.EngineOptions().ConstCapture)
	prog := p.Parse()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())
	ip := jexlinterp.New(ctx, uberspect.New(nil, nil, 64), nil, 0, nil)
	return ip.Run(prog)
}

// runVal is run plus a require.NoError, for the common "this must succeed"
// assertion shape.
func runVal(t *testing.T, src string, ctx *jexlcontext.MapContext) value.Value {
	t.Helper()
	if ctx == nil {
		ctx = newCtx(t, nil)
	}
	v, err := run(t, src, ctx)
	require.NoError(t, err)
	return v
}
