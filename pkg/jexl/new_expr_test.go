package jexl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/value"
	"github.com/jexl-go/jexl/pkg/jexl"
)

type counter struct{ n int64 }

func (c *counter) Value() int64 { return c.n }

func TestEngine_SetClassLoaderWiresNewExpression(t *testing.T) {
	e := newEngine(t)
	e.SetClassLoader(func(className string) (func([]value.Value) (any, error), bool) {
		if className != "app.Counter" {
			return nil, false
		}
		return func(args []value.Value) (any, error) {
			n, err := value.ToInt(args[0])
			if err != nil {
				return nil, err
			}
			return &counter{n: n}, nil
		}, true
	})
	expr, err := e.CreateExpression("new app.Counter(41).value() + 1;")
	require.NoError(t, err)
	v, err := expr.Evaluate(jexlcontext.NewMapContext(nil))
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 42}, v)
}

func TestEngine_WithClassLoaderViaBuilder(t *testing.T) {
	e, err := jexl.NewBuilder().
		WithClassLoader(func(className string) (func([]value.Value) (any, error), bool) {
			return func([]value.Value) (any, error) { return &counter{n: 7}, nil }, true
		}).
		Create()
	require.NoError(t, err)
	expr, err := e.CreateExpression("new any.Class().value();")
	require.NoError(t, err)
	v, err := expr.Evaluate(jexlcontext.NewMapContext(nil))
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}
