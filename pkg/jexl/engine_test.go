package jexl_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/permissions"
	"github.com/jexl-go/jexl/internal/value"
	"github.com/jexl-go/jexl/pkg/jexl"
)

func newEngine(t *testing.T) *jexl.Engine {
	t.Helper()
	e, err := jexl.NewBuilder().Create()
	require.NoError(t, err)
	return e
}

// TestEngine_S1ArithmeticPrecedence covers spec.md S1.
func TestEngine_S1ArithmeticPrecedence(t *testing.T) {
	e := newEngine(t)
	expr, err := e.CreateExpression("1 + 2 * 3;")
	require.NoError(t, err)
	v, err := expr.Evaluate(jexlcontext.NewMapContext(nil))
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}

// TestEngine_S2AntishResolution covers spec.md S2.
func TestEngine_S2AntishResolution(t *testing.T) {
	e := newEngine(t)
	ctx := jexlcontext.NewMapContext(nil)
	require.NoError(t, ctx.Set("x.y.z", value.Int{Value: 42}))
	expr, err := e.CreateExpression("x.y.z;")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 42}, v)
}

// TestEngine_S3SafeNavigation covers spec.md S3.
func TestEngine_S3SafeNavigation(t *testing.T) {
	e, err := jexl.NewBuilder().WithSafe(true).Create()
	require.NoError(t, err)
	ctx := jexlcontext.NewMapContext(nil)
	require.NoError(t, ctx.Set("a", value.Var))
	expr, err := e.CreateExpression("a?.b?.c;")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v)
}

// TestEngine_S4ScriptParameterAssignment covers spec.md S4, via
// CreateScript's parameter binding (createScript(source, params...)).
func TestEngine_S4ScriptParameterAssignment(t *testing.T) {
	e := newEngine(t)
	script, err := e.CreateScript("var x = p; x = x + 2; x;", "p")
	require.NoError(t, err)
	require.Equal(t, []string{"p"}, script.GetParameters())
	v, err := script.Execute(jexlcontext.NewMapContext(nil), value.Int{Value: 1})
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 3}, v)
}

// TestEngine_S5LambdaInvocation covers spec.md S5.
func TestEngine_S5LambdaInvocation(t *testing.T) {
	e := newEngine(t)
	expr, err := e.CreateExpression("(i) -> { var s = 0; for (var k : 1..i) s = s + k; s }(5);")
	require.NoError(t, err)
	v, err := expr.Evaluate(jexlcontext.NewMapContext(nil))
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 15}, v)
}

// TestEngine_S6StringInterpolation covers spec.md S6.
func TestEngine_S6StringInterpolation(t *testing.T) {
	e := newEngine(t)
	ctx := jexlcontext.NewMapContext(nil)
	require.NoError(t, ctx.Set("who", value.Str{Value: "world"}))
	expr, err := e.CreateExpression("`hello ${who}`;")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Str{Value: "hello world"}, v)
}

type hostMathFacade struct{}

func (hostMathFacade) Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// TestEngine_S7NamespaceMethodDispatch covers spec.md S7.
func TestEngine_S7NamespaceMethodDispatch(t *testing.T) {
	e := newEngine(t)
	ctx := jexlcontext.NewMapContext(nil)
	ctx.SetNamespace("math", hostMathFacade{})
	require.NoError(t, ctx.Set("a", value.Int{Value: 3}))
	require.NoError(t, ctx.Set("b", value.Int{Value: 7}))
	expr, err := e.CreateExpression("math:max(a, b);")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}

// TestEngine_S8EmptyPseudoFunction covers spec.md S8.
func TestEngine_S8EmptyPseudoFunction(t *testing.T) {
	e := newEngine(t)
	ctx := jexlcontext.NewMapContext(nil)
	require.NoError(t, ctx.Set("xs", &value.List{}))
	expr, err := e.CreateExpression("empty(xs) ? 'y' : 'n';")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Str{Value: "y"}, v)
}

// TestEngine_CacheDeterminism covers spec.md Testable Property 2: repeated
// createExpression calls over identical source return functionally
// equivalent ASTs, and disabling the cache (size<=0) does not change
// evaluation results.
func TestEngine_CacheDeterminism(t *testing.T) {
	cached, err := jexl.NewBuilder().WithCacheSize(16).Create()
	require.NoError(t, err)
	uncached, err := jexl.NewBuilder().WithCacheSize(-1).Create()
	require.NoError(t, err)

	for _, e := range []*jexl.Engine{cached, uncached} {
		for i := 0; i < 3; i++ {
			expr, err := e.CreateExpression("1 + 2 * 3;")
			require.NoError(t, err)
			v, err := expr.Evaluate(jexlcontext.NewMapContext(nil))
			require.NoError(t, err)
			require.Equal(t, value.Int{Value: 7}, v)
		}
	}
}

// osExitStandIn stands in for a dangerous Runtime-shaped host type. Since
// permissions.Restricted() denies by package path (os.*, os/exec.*,
// syscall.*, unsafe.*, reflect.*, runtime.*, net.*) and this type lives in
// this test package rather than one of those paths, Testable Property 10
// is exercised here against the Sandbox layer instead, which denies by
// exact (class, member) pair regardless of package.
type osExitStandIn struct{ killed bool }

func (o *osExitStandIn) Kill()     { o.killed = true }
func (o *osExitStandIn) GetEnv() string { return "secret" }

func osExitStandInClass() string {
	return reflect.TypeOf(osExitStandIn{}).PkgPath() + "." + reflect.TypeOf(osExitStandIn{}).Name()
}

// TestEngine_SandboxDeniesMethodCall covers spec.md Testable Property 10
// ("reflective access ... denied for all paths") via the Sandbox, the
// class-scoped counterpart to the package-scoped Permissions policy.
func TestEngine_SandboxDeniesMethodCall(t *testing.T) {
	class := osExitStandInClass()
	sb := permissions.NewSandbox()
	sb.Deny(permissions.MemberMethodCall, class, "kill")

	e, err := jexl.NewBuilder().WithSandbox(sb).WithStrict(false).Create()
	require.NoError(t, err)
	ctx := jexlcontext.NewMapContext(nil)
	require.NoError(t, ctx.SetHost("rt", &osExitStandIn{}))
	expr, err := e.CreateExpression("rt.kill();")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v, "denied method call should read as null, not be permitted to run")
}

// TestEngine_SandboxDeniesPropertyRead covers the property-read arm of
// Testable Property 10.
func TestEngine_SandboxDeniesPropertyRead(t *testing.T) {
	class := osExitStandInClass()
	sb := permissions.NewSandbox()
	sb.Deny(permissions.MemberPropertyRead, class, "env")

	e, err := jexl.NewBuilder().WithSandbox(sb).WithStrict(false).Create()
	require.NoError(t, err)
	ctx := jexlcontext.NewMapContext(nil)
	require.NoError(t, ctx.SetHost("rt", &osExitStandIn{}))
	expr, err := e.CreateExpression("rt.env;")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v, "denied property read should read as null, not expose the value")
}

// TestEngine_SandboxDeniesConstructor covers the constructor arm of
// Testable Property 10.
func TestEngine_SandboxDeniesConstructor(t *testing.T) {
	sb := permissions.NewSandbox()
	sb.Deny(permissions.MemberMethodCall, "standin.OsExit", "new")

	e, err := jexl.NewBuilder().WithSandbox(sb).WithStrict(false).Create()
	require.NoError(t, err)
	e.SetClassLoader(func(className string) (func(args []value.Value) (any, error), bool) {
		if className != "standin.OsExit" {
			return nil, false
		}
		return func(args []value.Value) (any, error) { return &osExitStandIn{}, nil }, true
	})
	ctx := jexlcontext.NewMapContext(nil)
	expr, err := e.CreateExpression("new standin.OsExit();")
	require.NoError(t, err)
	v, err := expr.Evaluate(ctx)
	require.NoError(t, err)
	require.Equal(t, value.Var, v, "denied constructor should read as null, not construct the object")
}

func TestEngine_GetVariables(t *testing.T) {
	e := newEngine(t)
	script, err := e.CreateScript("var local = 1; local + free;")
	require.NoError(t, err)
	require.Equal(t, []string{"free"}, script.GetVariables())
	require.Equal(t, []string{"local"}, script.GetLocalVariables())
}

func TestEngine_SetCharsetRejectsUnknownName(t *testing.T) {
	_, err := jexl.NewBuilder().WithCharset("not-a-real-charset").Create()
	require.Error(t, err)
}
