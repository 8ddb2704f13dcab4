package jexlinterp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlinterp"
	"github.com/jexl-go/jexl/internal/jexlparser"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

type point struct{ X, Y int64 }

func (p point) Sum() int64 { return p.X + p.Y }

// runNew parses src with FeatureNewInstance enabled and evaluates it with an
// Interpreter whose ClassLoader is wired to loader.
func runNew(t *testing.T, src string, loader func(string) (func([]value.Value) (any, error), bool)) (value.Value, error) {
	t.Helper()
	ctx := newCtx(t, nil)
	p := jexlparser.New(src, jexlparser.NewFeatures(), ctx.EngineOptions().ConstCapture)
	prog := p.Parse()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())
	ip := jexlinterp.New(ctx, uberspect.New(nil, nil, 64), nil, 0, nil)
	ip.ClassLoader = loader
	return ip.Run(prog)
}

func TestNewExpr_ConstructsHostObjectViaClassLoader(t *testing.T) {
	loader := func(className string) (func([]value.Value) (any, error), bool) {
		if className != "geo.Point" {
			return nil, false
		}
		return func(args []value.Value) (any, error) {
			x, err := value.ToInt(args[0])
			if err != nil {
				return nil, err
			}
			y, err := value.ToInt(args[1])
			if err != nil {
				return nil, err
			}
			return point{X: x, Y: y}, nil
		}, true
	}
	v, err := runNew(t, "new geo.Point(3, 4).sum();", loader)
	require.NoError(t, err)
	require.Equal(t, value.Int{Value: 7}, v)
}

func TestNewExpr_UnknownClassIsAnError(t *testing.T) {
	loader := func(string) (func([]value.Value) (any, error), bool) { return nil, false }
	_, err := runNew(t, "new geo.Missing();", loader)
	require.Error(t, err)
}

func TestNewExpr_NoClassLoaderConfiguredIsAnError(t *testing.T) {
	_, err := runNew(t, "new geo.Point(1, 2);", nil)
	require.Error(t, err)
}

func TestNewExpr_FactoryErrorPropagates(t *testing.T) {
	loader := func(string) (func([]value.Value) (any, error), bool) {
		return func([]value.Value) (any, error) {
			return nil, fmt.Errorf("boom")
		}, true
	}
	_, err := runNew(t, "new geo.Point(1, 2);", loader)
	require.Error(t, err)
}
