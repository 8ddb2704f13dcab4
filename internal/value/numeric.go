package value

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Int wraps a 64-bit integer, the default integer representation until an
// operation overflows into BigInt (spec.md §4.1 "+").
type Int struct{ Value int64 }

func (i Int) Kind() Kind     { return KindInt }
func (i Int) Truthy() bool   { return i.Value != 0 }
func (i Int) String() string { return fmt.Sprintf("%d", i.Value) }

func (i Int) Equals(o Value) (bool, error) {
	switch ov := o.(type) {
	case Int:
		return i.Value == ov.Value, nil
	case Float:
		return float64(i.Value) == ov.Value, nil
	case BigInt:
		return big.NewInt(i.Value).Cmp(ov.Value) == 0, nil
	case Decimal:
		return decimal.NewFromInt(i.Value).Equal(ov.Value), nil
	}
	return false, nil
}

func (i Int) CompareTo(o Value) (int, error) {
	switch ov := o.(type) {
	case Int:
		return cmpInt64(i.Value, ov.Value), nil
	case Float:
		return cmpFloat64(float64(i.Value), ov.Value), nil
	case BigInt:
		return big.NewInt(i.Value).Cmp(ov.Value), nil
	case Decimal:
		return decimal.NewFromInt(i.Value).Cmp(ov.Value), nil
	}
	return 0, fmt.Errorf("cannot order integer with %s", o.Kind())
}

// Float wraps a double-precision float.
type Float struct{ Value float64 }

func (f Float) Kind() Kind     { return KindFloat }
func (f Float) Truthy() bool   { return f.Value != 0 }
func (f Float) String() string { return fmt.Sprintf("%g", f.Value) }

func (f Float) Equals(o Value) (bool, error) {
	switch ov := o.(type) {
	case Float:
		return f.Value == ov.Value, nil
	case Int:
		return f.Value == float64(ov.Value), nil
	case BigInt:
		bf, _ := new(big.Float).SetInt(ov.Value).Float64()
		return f.Value == bf, nil
	case Decimal:
		df, _ := ov.Value.Float64()
		return f.Value == df, nil
	}
	return false, nil
}

func (f Float) CompareTo(o Value) (int, error) {
	switch ov := o.(type) {
	case Float:
		return cmpFloat64(f.Value, ov.Value), nil
	case Int:
		return cmpFloat64(f.Value, float64(ov.Value)), nil
	case BigInt:
		bf, _ := new(big.Float).SetInt(ov.Value).Float64()
		return cmpFloat64(f.Value, bf), nil
	case Decimal:
		df, _ := ov.Value.Float64()
		return cmpFloat64(f.Value, df), nil
	}
	return 0, fmt.Errorf("cannot order float with %s", o.Kind())
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// asBigFloat widens any numeric arm to a *big.Float for BigInt comparisons.
func asBigFloat(v Value) (*big.Float, error) {
	switch t := v.(type) {
	case Int:
		return new(big.Float).SetInt64(t.Value), nil
	case BigInt:
		return new(big.Float).SetInt(t.Value), nil
	case Float:
		return big.NewFloat(t.Value), nil
	case Decimal:
		f, _ := t.Value.Float64()
		return big.NewFloat(f), nil
	}
	return nil, fmt.Errorf("cannot widen %s to a number", v.Kind())
}

// asDecimal widens any numeric arm to a decimal.Decimal.
func asDecimal(v Value) (decimal.Decimal, error) {
	switch t := v.(type) {
	case Int:
		return decimal.NewFromInt(t.Value), nil
	case Float:
		return decimal.NewFromFloat(t.Value), nil
	case BigInt:
		return decimal.NewFromBigInt(t.Value, 0), nil
	case Decimal:
		return t.Value, nil
	}
	return decimal.Zero, fmt.Errorf("cannot widen %s to a decimal", v.Kind())
}

// isNumeric reports whether v is one of the four numeric tower arms.
func isNumeric(v Value) bool {
	switch v.(type) {
	case Int, BigInt, Float, Decimal:
		return true
	default:
		return false
	}
}

// addInt64Checked adds two int64s, reporting overflow rather than wrapping,
// so the arithmetic layer can promote to BigInt (spec.md §4.1).
func addInt64Checked(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func mulInt64Checked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func subInt64Checked(a, b int64) (int64, bool) {
	return addInt64Checked(a, -b)
}

// nanToZero guards float results that JEXL treats as errors rather than NaN
// propagation would otherwise hide.
func nanToZero(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}
