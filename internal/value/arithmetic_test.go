package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithmetic_Add(t *testing.T) {
	a := &Arithmetic{Math: DefaultMathContext}

	tests := []struct {
		name string
		l, r Value
		want Value
	}{
		{"int+int", Int{1}, Int{2}, Int{3}},
		{"string concat with int", Str{"a"}, Int{1}, Str{"a1"}},
		{"int+float promotes", Int{1}, Float{0.5}, Float{1.5}},
		{"int overflow promotes to bigint", Int{9223372036854775807}, Int{1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Add(tt.l, tt.r)
			require.NoError(t, err)
			if tt.want != nil {
				eq, err := got.Equals(tt.want)
				require.NoError(t, err)
				require.True(t, eq, "got %v want %v", got, tt.want)
			} else {
				require.Equal(t, KindBigInt, got.Kind())
			}
		})
	}
}

func TestArithmetic_Div(t *testing.T) {
	a := &Arithmetic{Math: DefaultMathContext}

	exact, err := a.Div(Int{6}, Int{3})
	require.NoError(t, err)
	require.Equal(t, KindInt, exact.Kind())

	inexact, err := a.Div(Int{1}, Int{3})
	require.NoError(t, err)
	require.Equal(t, KindDecimal, inexact.Kind())

	_, err = a.Div(Int{1}, Int{0})
	require.Error(t, err)
}

func TestArithmetic_StrictArithmeticNullOperand(t *testing.T) {
	strict := &Arithmetic{StrictArithmetic: true, Math: DefaultMathContext}
	_, err := strict.Add(Var, Int{1})
	require.Error(t, err)
	var nullErr *NullOperandError
	require.ErrorAs(t, err, &nullErr)

	lenient := &Arithmetic{StrictArithmetic: false, Math: DefaultMathContext}
	got, err := lenient.Add(Var, Int{1})
	require.NoError(t, err)
	eq, _ := got.Equals(Int{1})
	require.True(t, eq)
}

func TestArithmetic_LogicalOperators(t *testing.T) {
	truthyLast := &Arithmetic{}
	got := truthyLast.And(Int{5}, Str{"tail"})
	require.Equal(t, KindString, got.Kind())

	boolLogical := &Arithmetic{BooleanLogical: true}
	got = boolLogical.And(Int{5}, Str{""})
	require.Equal(t, Bool{Value: false}, got)
}

func TestArithmetic_Coalesce(t *testing.T) {
	a := &Arithmetic{}
	require.Equal(t, Int{7}, a.Coalesce(Var, Int{7}))
	require.Equal(t, Int{3}, a.Coalesce(Int{3}, Int{7}))
}

func TestRange_Iterator(t *testing.T) {
	r := Range{Lo: 1, Hi: 5}
	it := r.Iterator()
	sum := int64(0)
	for {
		v, ok := it()
		if !ok {
			break
		}
		sum += v
	}
	require.Equal(t, int64(15), sum)

	// restartable: a fresh iterator starts over.
	it2 := r.Iterator()
	first, ok := it2()
	require.True(t, ok)
	require.Equal(t, int64(1), first)
}
