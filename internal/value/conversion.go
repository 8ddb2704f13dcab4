package value

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// ToInt converts v to an int64, grounded on the teacher's ToInteger
// (internal/interp/runtime/conversion.go): integers pass through, floats
// truncate, strings parse, booleans map to 0/1.
func ToInt(v Value) (int64, error) {
	switch t := v.(type) {
	case Int:
		return t.Value, nil
	case Float:
		return int64(t.Value), nil
	case BigInt:
		if !t.Value.IsInt64() {
			return 0, fmt.Errorf("bigint %s overflows int64", t.Value.String())
		}
		return t.Value.Int64(), nil
	case Decimal:
		return t.Value.IntPart(), nil
	case Str:
		i, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", t.Value)
		}
		return i, nil
	case Bool:
		if t.Value {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %s to integer", v.Kind())
}

// ToFloat64 converts v to a float64.
func ToFloat64(v Value) (float64, error) {
	switch t := v.(type) {
	case Float:
		return t.Value, nil
	case Int:
		return float64(t.Value), nil
	case BigInt:
		f, _ := new(big.Float).SetInt(t.Value).Float64()
		return f, nil
	case Decimal:
		f, _ := t.Value.Float64()
		return f, nil
	case Str:
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as float", t.Value)
		}
		return f, nil
	case Bool:
		if t.Value {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %s to float", v.Kind())
}

// ToBool implements JEXL's truthiness coercion explicitly (used where an
// error is preferable to silent coercion, e.g. `if` conditions under strict
// mode); for operator short-circuiting, Value.Truthy() is used directly.
func ToBool(v Value) bool { return v.Truthy() }

// ToDecimal converts v to a decimal.Decimal under no particular MathContext
// (exact widening; rounding only happens at division).
func ToDecimal(v Value) (decimal.Decimal, error) { return asDecimal(v) }

// ToJexlString renders v the way string concatenation and interpolation do:
// Value.String() for every arm.
func ToJexlString(v Value) string { return v.String() }
