package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
)

// hostMath is a tiny host object exercising Uberspect method dispatch,
// mirroring how a real embedder would expose a Go type as a namespace.
type hostMath struct{}

func (hostMath) Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func TestCalls_NamespaceMethodDispatch(t *testing.T) {
	ctx := newCtx(t, nil)
	ctx.SetNamespace("math", hostMath{})
	require.NoError(t, ctx.Set("a", value.Int{Value: 3}))
	require.NoError(t, ctx.Set("b", value.Int{Value: 7}))
	v, err := run(t, "math:max(a, b);", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}

func TestCalls_HostPropertyAndMethodViaMap(t *testing.T) {
	ctx := newCtx(t, nil)
	require.NoError(t, ctx.SetHost("host", hostMath{}))
	v, err := run(t, "host.max(1, 2);", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 2}, v)
}

func TestCalls_UnknownNamespaceRaises(t *testing.T) {
	ctx := newCtx(t, nil)
	_, err := run(t, "nope:go();", ctx)
	require.Error(t, err)
}

func TestCalls_LambdaImmediatelyInvoked(t *testing.T) {
	v := runVal(t, "(i) -> { var s = 0; for (var k : 1..i) s = s + k; s }(5);", nil)
	require.Equal(t, value.Int{Value: 15}, v)
}

func TestCalls_FunctionValueStoredInMap(t *testing.T) {
	v := runVal(t, "var m = {\"f\": (x) -> x + 1}; m.f(4);", nil)
	require.Equal(t, value.Int{Value: 5}, v)
}

func TestCalls_ContextCallable(t *testing.T) {
	ctx := newCtx(t, nil)
	require.NoError(t, ctx.Set("inc", value.Callable{
		CKind: value.CallableLambda,
		Name:  "inc",
		Arity: 1,
		Invoke: func(args []value.Value) (value.Value, error) {
			n, err := value.ToInt(args[0])
			if err != nil {
				return nil, err
			}
			return value.Int{Value: n + 1}, nil
		},
	}))
	v, err := run(t, "inc(41);", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 42}, v)
}

func TestClosures_SharedCellSeesOuterMutation(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.ConstCapture = false })
	v, err := run(t, "var y = 10; var f = (x) -> x + y; y = 20; f(1);", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 21}, v)
}

func TestClosures_ConstCaptureSnapshotsAtCaptureTime(t *testing.T) {
	ctx := newCtx(t, func(o *jexlcontext.Options) { o.ConstCapture = true })
	v, err := run(t, "var y = 10; var f = (x) -> x + y; y = 20; f(1);", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 11}, v)
}

// recordingBool returns a Callable that returns b when invoked, incrementing
// *calls each time — used to observe whether the right operand of a logical
// operator was ever evaluated.
func recordingBool(b bool, calls *int) value.Callable {
	return value.Callable{
		CKind: value.CallableLambda,
		Name:  "probe",
		Arity: 0,
		Invoke: func(args []value.Value) (value.Value, error) {
			*calls++
			return value.Bool{Value: b}, nil
		},
	}
}

func TestLogical_AndShortCircuitsOnFalsyLeft(t *testing.T) {
	ctx := newCtx(t, nil)
	var rightCalls int
	require.NoError(t, ctx.Set("right", recordingBool(true, &rightCalls)))
	v, err := run(t, "false && right();", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Bool{Value: false}, v)
	require.Zero(t, rightCalls, "right operand of && must not be evaluated when left is falsy")
}

func TestLogical_OrShortCircuitsOnTruthyLeft(t *testing.T) {
	ctx := newCtx(t, nil)
	var rightCalls int
	require.NoError(t, ctx.Set("right", recordingBool(false, &rightCalls)))
	v, err := run(t, "true || right();", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Bool{Value: true}, v)
	require.Zero(t, rightCalls, "right operand of || must not be evaluated when left is truthy")
}

func TestLogical_CoalesceSkipsRightWhenLeftNonNull(t *testing.T) {
	ctx := newCtx(t, nil)
	var rightCalls int
	require.NoError(t, ctx.Set("right", recordingBool(true, &rightCalls)))
	v, err := run(t, "1 ?? right();", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 1}, v)
	require.Zero(t, rightCalls, "?? must not evaluate its right operand when the left is non-null")
}

func TestLogical_ElvisSkipsElseWhenCondTruthy(t *testing.T) {
	ctx := newCtx(t, nil)
	var elseCalls int
	require.NoError(t, ctx.Set("fallback", recordingBool(true, &elseCalls)))
	v, err := run(t, "1 ?: fallback();", ctx)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 1}, v)
	require.Zero(t, elseCalls, "?: must not evaluate its else branch when the condition is truthy")
}
