package jexlinterp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlinterp"
	"github.com/jexl-go/jexl/internal/jexlparser"
)

func parseProg(t *testing.T, src string) *jexlparser.Parser {
	t.Helper()
	return jexlparser.New(src, jexlparser.NewFeatures(), true)
}

func TestGetVariables_FreeNamesOnly(t *testing.T) {
	p := parseProg(t, "var x = 1; x + y.z;")
	prog := p.Parse()
	require.Empty(t, p.Errors())
	names := jexlinterp.GetVariables(prog)
	require.Equal(t, []string{"y.z"}, names)
}

func TestGetVariables_DedupesAndKeepsFirstOccurrenceOrder(t *testing.T) {
	p := parseProg(t, "a + b + a;")
	prog := p.Parse()
	require.Empty(t, p.Errors())
	names := jexlinterp.GetVariables(prog)
	require.Equal(t, []string{"a", "b"}, names)
}

func TestGetVariables_WalksLambdaBodies(t *testing.T) {
	p := parseProg(t, "(x) -> x + outer;")
	prog := p.Parse()
	require.Empty(t, p.Errors())
	names := jexlinterp.GetVariables(prog)
	require.Contains(t, names, "outer")
}
