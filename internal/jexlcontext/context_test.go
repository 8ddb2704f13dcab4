package jexlcontext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/value"
)

func TestOptions_DefaultMask(t *testing.T) {
	o := NewDefaultOptions()
	require.True(t, o.Cancellable)
	require.True(t, o.Strict)
	require.True(t, o.Antish)
	require.True(t, o.Safe)
	require.False(t, o.Silent)
	require.False(t, o.Lexical)
}

func TestOptions_ApplyFlags(t *testing.T) {
	o := NewDefaultOptions()
	errs := o.ApplyFlags("-strict +lexical +lexicalShade")
	require.Empty(t, errs)
	require.False(t, o.Strict)
	require.True(t, o.Lexical)
	require.True(t, o.LexicalShade)
}

func TestOptions_ApplyFlags_Unknown(t *testing.T) {
	o := NewDefaultOptions()
	errs := o.ApplyFlags("+bogus")
	require.Len(t, errs, 1)
}

func TestOptions_Clone(t *testing.T) {
	o := NewDefaultOptions()
	o.Namespaces["math"] = struct{}{}
	cp := o.Clone()
	cp.Namespaces["str"] = struct{}{}
	require.Len(t, o.Namespaces, 1)
	require.Len(t, cp.Namespaces, 2)
}

func TestMapContext_GetSetHas(t *testing.T) {
	ctx := NewMapContext(nil)
	require.False(t, ctx.Has("x"))
	require.NoError(t, ctx.Set("x", value.Int{Value: 42}))
	require.True(t, ctx.Has("x"))
	v, ok := ctx.Get("x")
	require.True(t, ok)
	require.Equal(t, value.Int{Value: 42}, v)
}

func TestMapContext_SetHost(t *testing.T) {
	ctx := NewMapContext(nil)
	require.NoError(t, ctx.SetHost("name", "Ada"))
	v, ok := ctx.Get("name")
	require.True(t, ok)
	require.Equal(t, value.Str{Value: "Ada"}, v)
}

func TestMapContext_Namespace(t *testing.T) {
	ctx := NewMapContext(nil)
	ctx.SetNamespace("math", struct{ Pi float64 }{Pi: 3.14})
	ns, ok := ctx.ResolveNamespace("math")
	require.True(t, ok)
	require.NotNil(t, ns)
	_, ok = ctx.ResolveNamespace("nope")
	require.False(t, ok)
}

func TestMapContext_Cancellation(t *testing.T) {
	ctx := NewMapContext(nil)
	require.False(t, ctx.Cancelled())
	ctx.Cancel()
	require.True(t, ctx.Cancelled())
}

func TestJSONContext_GetSet(t *testing.T) {
	ctx := NewJSONContext(`{"user":{"name":"Grace","age":36}}`, nil)
	v, ok := ctx.Get("user.name")
	require.True(t, ok)
	require.Equal(t, value.Str{Value: "Grace"}, v)

	age, ok := ctx.Get("user.age")
	require.True(t, ok)
	require.Equal(t, value.Int{Value: 36}, age)

	require.False(t, ctx.Has("user.missing"))

	require.NoError(t, ctx.Set("user.age", value.Int{Value: 37}))
	updated, _ := ctx.Get("user.age")
	require.Equal(t, value.Int{Value: 37}, updated)
}
