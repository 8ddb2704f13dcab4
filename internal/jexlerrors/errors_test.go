package jexlerrors_test

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/jexl-go/jexl/internal/jexlerrors"
)

// TestMain drives go-snaps' cleanup of obsolete snapshots the same way the
// teacher's own fixture suite does (internal/interp/fixture_test.go).
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	_ = v
}

func TestError_FormattingSnapshots(t *testing.T) {
	cases := []struct {
		name string
		err  *jexlerrors.Error
	}{
		{
			name: "variable_undefined",
			err: jexlerrors.New(jexlerrors.KindVariableUndefined,
				jexlerrors.Locus{Name: "script", Pos: jexlerrors.Position{Line: 3, Column: 7}},
				"variable 'foo' is undefined"),
		},
		{
			name: "method_with_snippet",
			err: jexlerrors.New(jexlerrors.KindMethod,
				jexlerrors.Locus{Pos: jexlerrors.Position{Line: 1, Column: 1}},
				"no such method").WithSnippet("sum(Int, Int)"),
		},
		{
			name: "with_cause",
			err: jexlerrors.New(jexlerrors.KindOperator,
				jexlerrors.Locus{Pos: jexlerrors.Position{Line: 5, Column: 12}},
				"operator '+' failed").WithCause(fmt.Errorf("overflow")),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, tc.err.Error())
		})
	}
}

func TestRenderSourceSlice_Snapshots(t *testing.T) {
	short := "x = 1 + 2;"
	long := "result = someVeryLongFunctionNameIndeed(firstArgument, secondArgument, thirdArgument);"

	snaps.MatchSnapshot(t, "short_line", jexlerrors.RenderSourceSlice(short, 3))
	snaps.MatchSnapshot(t, "long_line_centered", jexlerrors.RenderSourceSlice(long, 40))
}

func TestKind_String(t *testing.T) {
	kinds := []jexlerrors.Kind{
		jexlerrors.KindTokenization, jexlerrors.KindParsing, jexlerrors.KindAmbiguous,
		jexlerrors.KindVariableUndefined, jexlerrors.KindMethod, jexlerrors.KindStackOverflow,
	}
	for _, k := range kinds {
		snaps.MatchSnapshot(t, fmt.Sprintf("kind_%d", k), k.String())
	}
}
