package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexlinterp"
	"github.com/jexl-go/jexl/internal/jexlparser"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

func TestCancel_CancellableRaisesCancel(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Cancellable = true })
	ctx.Cancel()
	p := jexlparser.New("1 + 1;", jexlparser.NewFeatures(), false)
	prog := p.Parse()
	require.Empty(t, p.Errors())
	ip := jexlinterp.New(ctx, uberspect.New(nil, nil, 64), nil, 0, nil)
	_, err := ip.Run(prog)
	require.Error(t, err)
	var jerr *jexlerrors.Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, jexlerrors.KindCancel, jerr.Kind)
}

func TestCancel_NonCancellableReturnsNullInstead(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Cancellable = false })
	ctx.Cancel()
	p := jexlparser.New("1 + 1;", jexlparser.NewFeatures(), false)
	prog := p.Parse()
	require.Empty(t, p.Errors())
	ip := jexlinterp.New(ctx, uberspect.New(nil, nil, 64), nil, 0, nil)
	v, err := ip.Run(prog)
	require.NoError(t, err)
	require.Equal(t, value.Var, v)
}

func TestStackOverflow_RecursiveLambdaRaises(t *testing.T) {
	ctx := newCtx(t, nil)
	p := jexlparser.New(
		"var rec = (n) -> n <= 0 ? 0 : rec(n - 1) + 1; rec(100000);",
		jexlparser.NewFeatures(), false)
	prog := p.Parse()
	require.Empty(t, p.Errors())
	ip := jexlinterp.New(ctx, uberspect.New(nil, nil, 64), nil, 10, nil)
	_, err := ip.Run(prog)
	require.Error(t, err)
	var jerr *jexlerrors.Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, jexlerrors.KindStackOverflow, jerr.Kind)
}
