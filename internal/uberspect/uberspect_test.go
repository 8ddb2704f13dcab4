package uberspect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/permissions"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

type widget struct {
	Label string
	n     int64
}

func (w *widget) GetLabel() string  { return w.Label }
func (w *widget) SetLabel(s string) { w.Label = s }
func (w *widget) Sum(a, b int64) int64 { return a + b }
func (w *widget) Add(other int64) int64 { return w.n + other }

func newUber(t *testing.T) *uberspect.Uberspect {
	t.Helper()
	return uberspect.New(nil, nil, 0)
}

func TestGetPropertyGet_ResolvesGetterMethod(t *testing.T) {
	u := newUber(t)
	w := &widget{Label: "hello"}
	getter, err := u.GetPropertyGet(w, "label")
	require.NoError(t, err)
	v, err := getter(w)
	require.NoError(t, err)
	require.Equal(t, value.Str{Value: "hello"}, v)
}

func TestGetPropertyGet_UnknownKeyIsTryFailed(t *testing.T) {
	u := newUber(t)
	w := &widget{}
	_, err := u.GetPropertyGet(w, "nope")
	require.ErrorIs(t, err, uberspect.TryFailed)
}

func TestGetPropertyGet_CachesResolution(t *testing.T) {
	u := newUber(t)
	w := &widget{Label: "a"}
	_, err := u.GetPropertyGet(w, "label")
	require.NoError(t, err)

	w.Label = "b"
	getter, err := u.GetPropertyGet(w, "label")
	require.NoError(t, err)
	v, err := getter(w)
	require.NoError(t, err)
	require.Equal(t, value.Str{Value: "b"}, v, "cached getter still re-reads the live receiver")
}

func TestGetPropertySet_ResolvesSetterMethod(t *testing.T) {
	u := newUber(t)
	w := &widget{}
	setter, err := u.GetPropertySet(w, "label")
	require.NoError(t, err)
	require.NoError(t, setter(w, value.Str{Value: "new"}))
	require.Equal(t, "new", w.Label)
}

func TestGetMethod_ResolvesAndInvokes(t *testing.T) {
	u := newUber(t)
	w := &widget{}
	inv, err := u.GetMethod(w, "sum", []value.Value{value.Int{Value: 3}, value.Int{Value: 4}})
	require.NoError(t, err)
	v, err := inv([]value.Value{value.Int{Value: 3}, value.Int{Value: 4}})
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}

func TestGetMethod_WrongArityIsTryFailed(t *testing.T) {
	u := newUber(t)
	w := &widget{}
	_, err := u.GetMethod(w, "sum", []value.Value{value.Int{Value: 1}})
	require.ErrorIs(t, err, uberspect.TryFailed)
}

func TestGetOperator_ResolvesOverload(t *testing.T) {
	u := newUber(t)
	w := &widget{n: 10}
	inv, err := u.GetOperator("+", w, value.Int{Value: 5})
	require.NoError(t, err)
	v, err := inv([]value.Value{nil, value.Int{Value: 5}})
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 15}, v)
}

func TestGetOperator_UnknownOpcodeIsTryFailed(t *testing.T) {
	u := newUber(t)
	w := &widget{}
	_, err := u.GetOperator("<<", w, value.Int{Value: 1})
	require.ErrorIs(t, err, uberspect.TryFailed)
}

func TestGetConstructor_WrapsResultAsHostObject(t *testing.T) {
	u := newUber(t)
	factory := func(args []value.Value) (any, error) { return &widget{Label: "built"}, nil }
	inv, err := u.GetConstructor("app.widget", factory, nil)
	require.NoError(t, err)
	v, err := inv(nil)
	require.NoError(t, err)
	ho, ok := v.(value.HostObject)
	require.True(t, ok)
	require.Equal(t, "built", ho.Ref.(*widget).Label)
}

func TestGetConstructor_NilFactoryIsTryFailed(t *testing.T) {
	u := newUber(t)
	_, err := u.GetConstructor("app.widget", nil, nil)
	require.ErrorIs(t, err, uberspect.TryFailed)
}

func TestGetConstructor_DeniedClassIsTryFailed(t *testing.T) {
	sb := permissions.NewSandbox()
	sb.Deny(permissions.MemberMethodCall, "app.widget", "new")
	u := uberspect.New(nil, sb, 0)
	factory := func(args []value.Value) (any, error) { return &widget{Label: "built"}, nil }
	_, err := u.GetConstructor("app.widget", factory, nil)
	require.ErrorIs(t, err, uberspect.TryFailed)
}

func TestPermissionsDenyPropertyRead(t *testing.T) {
	w := &widget{Label: "secret"}
	class := "github.com/jexl-go/jexl/internal/uberspect_test.widget"
	sb := permissions.NewSandbox()
	sb.Deny(permissions.MemberPropertyRead, class, "label")
	u := uberspect.New(nil, sb, 0)

	_, err := u.GetPropertyGet(w, "label")
	require.ErrorIs(t, err, uberspect.TryFailed)
}

func TestInvalidateClass_ForcesReResolution(t *testing.T) {
	u := newUber(t)
	w := &widget{Label: "a"}
	_, err := u.GetPropertyGet(w, "label")
	require.NoError(t, err)

	u.InvalidateClass("github.com/jexl-go/jexl/internal/uberspect_test.widget")

	getter, err := u.GetPropertyGet(w, "label")
	require.NoError(t, err)
	v, err := getter(w)
	require.NoError(t, err)
	require.Equal(t, value.Str{Value: "a"}, v)
}
