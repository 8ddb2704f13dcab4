package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/value"
)

func TestControl_IfElse(t *testing.T) {
	require.Equal(t, value.Int{Value: 1}, runVal(t, "if (true) 1; else 2;", nil))
	require.Equal(t, value.Int{Value: 2}, runVal(t, "if (false) 1; else 2;", nil))
}

func TestControl_WhileAccumulates(t *testing.T) {
	v := runVal(t, "var i = 0; var s = 0; while (i < 5) { s = s + i; i = i + 1; } s;", nil)
	require.Equal(t, value.Int{Value: 10}, v)
}

func TestControl_DoWhileRunsAtLeastOnce(t *testing.T) {
	v := runVal(t, "var i = 0; do { i = i + 1; } while (false); i;", nil)
	require.Equal(t, value.Int{Value: 1}, v)
}

func TestControl_ForOverRange(t *testing.T) {
	v := runVal(t, "var s = 0; for (var k : 1..5) s = s + k; s;", nil)
	require.Equal(t, value.Int{Value: 15}, v)
}

func TestControl_BreakExitsLoop(t *testing.T) {
	v := runVal(t, "var s = 0; for (var k : 1..10) { if (k == 4) break; s = s + k; } s;", nil)
	require.Equal(t, value.Int{Value: 6}, v) // 1+2+3
}

func TestControl_ContinueSkipsIteration(t *testing.T) {
	v := runVal(t, "var s = 0; for (var k : 1..5) { if (k == 3) continue; s = s + k; } s;", nil)
	require.Equal(t, value.Int{Value: 12}, v) // 1+2+4+5
}

func TestControl_ReturnUnwindsToTopLevel(t *testing.T) {
	v := runVal(t, "var i = 0; while (true) { i = i + 1; if (i == 3) return i; } 99;", nil)
	require.Equal(t, value.Int{Value: 3}, v)
}
