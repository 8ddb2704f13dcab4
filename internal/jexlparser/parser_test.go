package jexlparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/jexlast"
)

func parseOK(t *testing.T, src string) *jexlast.Program {
	t.Helper()
	p := New(src, NewFeatures(), true)
	prog := p.Parse()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())
	return prog
}

func TestParser_Arithmetic(t *testing.T) {
	prog := parseOK(t, "1 + 2 * 3;")
	require.Len(t, prog.Statements, 1)
	exprStmt, ok := prog.Statements[0].(*jexlast.ExprStmt)
	require.True(t, ok)
	bin, ok := exprStmt.Expr.(*jexlast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, jexlast.OpAdd, bin.Op)
	right, ok := bin.Right.(*jexlast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, jexlast.OpMul, right.Op)
}

func TestParser_VarDeclAndSlotResolution(t *testing.T) {
	prog := parseOK(t, "var x = 1; x + 1;")
	require.Len(t, prog.Statements, 2)
	decl := prog.Statements[0].(*jexlast.VarDeclStmt)
	require.Equal(t, 0, decl.Slot)
	use := prog.Statements[1].(*jexlast.ExprStmt).Expr.(*jexlast.BinaryExpr)
	ident := use.Left.(*jexlast.Ident)
	require.Equal(t, 0, ident.SlotIndex)
}

func TestParser_AntishIdent(t *testing.T) {
	prog := parseOK(t, "a.b.c;")
	stmt := prog.Statements[0].(*jexlast.ExprStmt)
	antish, ok := stmt.Expr.(*jexlast.AntishIdent)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, antish.Parts)
}

func TestParser_SafeNavAndMethodCall(t *testing.T) {
	prog := parseOK(t, "a?.b.c(1, 2);")
	stmt := prog.Statements[0].(*jexlast.ExprStmt)
	call, ok := stmt.Expr.(*jexlast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	dot, ok := call.Callee.(*jexlast.DotExpr)
	require.True(t, ok)
	require.Equal(t, "c", dot.Member)
	inner := dot.Receiver.(*jexlast.DotExpr)
	require.True(t, inner.Safe)
}

func TestParser_ForRangeLoop(t *testing.T) {
	prog := parseOK(t, "var s = 0; for (var k : 1..5) s = s + k;")
	forStmt := prog.Statements[1].(*jexlast.ForStmt)
	require.Equal(t, "k", forStmt.VarName)
	rangeExpr := forStmt.Iterable.(*jexlast.BinaryExpr)
	require.Equal(t, jexlast.OpRange, rangeExpr.Op)
	assign := forStmt.Body.(*jexlast.AssignStmt)
	require.NotNil(t, assign.Target.Ident)
}

func TestParser_Lambda(t *testing.T) {
	prog := parseOK(t, "(x) -> x + 1;")
	stmt := prog.Statements[0].(*jexlast.ExprStmt)
	lam, ok := stmt.Expr.(*jexlast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 1)
	require.Equal(t, "x", lam.Params[0].Name)
	require.Len(t, lam.Body, 1)
}

func TestParser_LambdaCaptureOuterLocal(t *testing.T) {
	prog := parseOK(t, "var y = 10; (x) -> x + y;")
	stmt := prog.Statements[1].(*jexlast.ExprStmt)
	lam := stmt.Expr.(*jexlast.LambdaExpr)
	require.Len(t, lam.Captures, 1)
	require.Equal(t, 0, lam.Captures[0]) // outer slot 0 is `y`
}

func TestParser_TernaryAndElvis(t *testing.T) {
	prog := parseOK(t, "true ? 1 : 2;")
	tern := prog.Statements[0].(*jexlast.ExprStmt).Expr.(*jexlast.TernaryExpr)
	require.NotNil(t, tern.Then)

	prog2 := parseOK(t, "null ?: 2;")
	tern2 := prog2.Statements[0].(*jexlast.ExprStmt).Expr.(*jexlast.TernaryExpr)
	require.Nil(t, tern2.Then)
}

func TestParser_MapVsSetLiteral(t *testing.T) {
	prog := parseOK(t, `{1, 2, 3};`)
	_, ok := prog.Statements[0].(*jexlast.ExprStmt).Expr.(*jexlast.SetExpr)
	require.True(t, ok)

	prog2 := parseOK(t, `{"a": 1, "b": 2};`)
	_, ok = prog2.Statements[0].(*jexlast.ExprStmt).Expr.(*jexlast.MapExpr)
	require.True(t, ok)
}

func TestParser_TemplateInterpolation(t *testing.T) {
	prog := parseOK(t, "var name = 1; `${name}`;")
	stmt := prog.Statements[1].(*jexlast.ExprStmt)
	tmpl := stmt.Expr.(*jexlast.TemplateString)
	require.True(t, tmpl.IsBareInterpolation())
	ident := tmpl.Exprs[0].(*jexlast.Ident)
	require.Equal(t, 0, ident.SlotIndex)
}

func TestParser_DisabledLoopsFeatureRaises(t *testing.T) {
	feats := NewFeatures().Without(FeatureLoops)
	p := New("while (true) 1;", feats, true)
	p.Parse()
	require.NotEmpty(t, p.Errors())
}

func TestParser_BreakOutsideLoopIsFeatureError(t *testing.T) {
	p := New("break;", NewFeatures(), true)
	p.Parse()
	require.NotEmpty(t, p.Errors())
}
