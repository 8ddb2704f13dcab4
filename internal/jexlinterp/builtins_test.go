package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/value"
)

func TestBuiltins_EmptyOnVariousKinds(t *testing.T) {
	require.Equal(t, value.Bool{Value: true}, runVal(t, "empty([]);", nil))
	require.Equal(t, value.Bool{Value: false}, runVal(t, "empty([1]);", nil))
	require.Equal(t, value.Bool{Value: true}, runVal(t, `empty("");`, nil))
	require.Equal(t, value.Bool{Value: true}, runVal(t, "empty(null);", nil))
	require.Equal(t, value.Bool{Value: false}, runVal(t, "empty(1);", nil))
}

func TestBuiltins_SizeOnCollections(t *testing.T) {
	require.Equal(t, value.Int{Value: 3}, runVal(t, "size([1, 2, 3]);", nil))
	require.Equal(t, value.Int{Value: 5}, runVal(t, `size("hello");`, nil))
	require.Equal(t, value.Int{Value: 5}, runVal(t, "size(1..5);", nil))
}

func TestBuiltins_SizeWrongArityRaises(t *testing.T) {
	ctx := newCtx(t, nil)
	_, err := run(t, "size(1, 2);", ctx)
	require.Error(t, err)
}

func TestBuiltins_TernaryOnEmptyCheck(t *testing.T) {
	v := runVal(t, "empty([]) ? 'y' : 'n';", nil)
	require.Equal(t, value.Str{Value: "y"}, v)
}
