package frame

import (
	"testing"

	"github.com/jexl-go/jexl/internal/value"
	"github.com/stretchr/testify/require"
)

func TestFrame_DeclareGetSet(t *testing.T) {
	f := New(2)
	f.Declare(0, "x", false)
	require.False(t, f.IsAssigned(0))
	require.NoError(t, f.Set(0, value.Int{Value: 1}))
	require.True(t, f.IsAssigned(0))
	require.Equal(t, value.Int{Value: 1}, f.Get(0))
}

func TestFrame_ConstViolation(t *testing.T) {
	f := New(1)
	f.Declare(0, "x", true)
	require.NoError(t, f.Set(0, value.Int{Value: 1}))
	err := f.Set(0, value.Int{Value: 2})
	require.ErrorIs(t, err, ErrConstViolation)
}

func TestFrame_CaptureSharedCell(t *testing.T) {
	outer := New(1)
	outer.Declare(0, "x", false)
	require.NoError(t, outer.Set(0, value.Int{Value: 10}))

	cells := outer.Capture([]int{0}, false)
	closure := NewClosure(cells, []int{0})

	inner := New(1)
	closure.BindInto(inner)

	// Mutating through the closure-bound slot is visible via the outer
	// frame's own Get, because both now read the same shared cell.
	require.NoError(t, inner.Set(0, value.Int{Value: 99}))
	require.Equal(t, value.Int{Value: 99}, outer.Get(0))
}

func TestFrame_CaptureConstSnapshot(t *testing.T) {
	outer := New(1)
	outer.Declare(0, "x", false)
	require.NoError(t, outer.Set(0, value.Int{Value: 10}))

	cells := outer.Capture([]int{0}, true)
	closure := NewClosure(cells, []int{0})

	inner := New(1)
	closure.BindInto(inner)

	err := inner.Set(0, value.Int{Value: 99})
	require.ErrorIs(t, err, ErrConstViolation)
	require.Equal(t, value.Int{Value: 10}, outer.Get(0))
}
