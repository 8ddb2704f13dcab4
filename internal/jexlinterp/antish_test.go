package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
)

func TestAntish_LongestPrefixWins(t *testing.T) {
	ctx := newCtx(t, nil)
	require.NoError(t, ctx.Set("a.b", value.Str{Value: "dotted"}))
	require.NoError(t, ctx.Set("a", value.Str{Value: "short"}))
	v, err := run(t, "a.b;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Str{Value: "dotted"}, v)
}

func TestAntish_FallsBackToShorterPrefix(t *testing.T) {
	ctx := newCtx(t, nil)
	m := value.NewMap()
	m.Set(value.Str{Value: "c"}, value.Int{Value: 42})
	require.NoError(t, ctx.Set("a", m))
	v, err := run(t, "a.c;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 42}, v)
}

func TestAntish_DisabledOptionSkipsPrefixProbing(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Antish = false })
	require.NoError(t, ctx.Set("a.b", value.Str{Value: "dotted"}))
	m := value.NewMap()
	m.Set(value.Str{Value: "b"}, value.Int{Value: 7})
	require.NoError(t, ctx.Set("a", m))
	// With antish off, "a.b" never probes the dotted context key "a.b"; "a"
	// resolves as a plain free name and ".b" is a property read off it.
	v, err := run(t, "a.b;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}

func TestAntish_Assignment(t *testing.T) {
	ctx := newCtx(t, nil)
	_, err := run(t, "a.b.c = 1;", ctx)
	require.NoError(t, err)
	v, ok := ctx.Get("a.b.c")
	require.True(t, ok)
	require.Equal(t, value.Int{Value: 1}, v)
}

func TestSafeNav_NullReceiverShortCircuits(t *testing.T) {
	ctx := newCtx(t, nil)
	require.NoError(t, ctx.Set("x", value.Var))
	v, err := run(t, "x?.y.z;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v)
}

func TestSafeNav_SafeOffRaisesOnNullReceiver(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Safe = false })
	require.NoError(t, ctx.Set("x", value.Var))
	_, err := run(t, "x.y;", ctx)
	require.Error(t, err)
}

func TestSafeNav_SafeOnShortCircuitsPlainDotChain(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Safe = true })
	require.NoError(t, ctx.Set("x", value.Var))
	v, err := run(t, "x.y.z;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v)
}

func TestSafeNav_MapMissingKeyReturnsNullUnderNonStrict(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.Strict = false })
	m := value.NewMap()
	require.NoError(t, ctx.Set("m", m))
	v, err := run(t, "m.missing;", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v)
}
