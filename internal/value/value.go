// Package value implements the JEXL run-time value representation and the
// arithmetic/coercion tower that gives every operator its semantics
// (spec.md §4.1). It is grounded on the teacher's runtime.Value interface
// and per-arm concrete structs (internal/interp/runtime/primitives.go),
// with the numeric tower widened to cover arbitrary-precision integers and
// decimals, which DWScript's tower does not need.
package value

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Kind tags the concrete arm of a Value for fast switches without a type
// assertion chain, mirroring runtime.Value.Type() in the teacher but as an
// enum instead of a string.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindDecimal
	KindString
	KindList
	KindMap
	KindSet
	KindRange
	KindHostObject
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindRange:
		return "range"
	case KindHostObject:
		return "object"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Value is the closed tagged union over every run-time value JEXL can
// produce. It is implemented by exactly the arm types in this file; host
// code never adds new arms (HostObject is the sole open extension point,
// and it is opaque — only internal/uberspect inspects its Ref).
type Value interface {
	Kind() Kind
	String() string
	// Equals implements `==`/`!=` per spec.md §4.1.
	Equals(other Value) (bool, error)
	// CompareTo implements `< <= > >=`; returns -1/0/1.
	CompareTo(other Value) (int, error)
	// Truthy implements JEXL's boolean coercion for `&&`/`||`/`!`/`?:`.
	Truthy() bool
}

// Null is the singleton null value.
type Null struct{}

func (Null) Kind() Kind                           { return KindNull }
func (Null) String() string                       { return "null" }
func (Null) Truthy() bool                         { return false }
func (Null) Equals(o Value) (bool, error)         { return o.Kind() == KindNull, nil }
func (Null) CompareTo(o Value) (int, error) {
	if o.Kind() == KindNull {
		return 0, nil
	}
	return 0, fmt.Errorf("cannot compare null with %s", o.Kind())
}

// Var is the single canonical Null instance, analogous to the teacher's
// preference for value receivers on stateless primitives.
var Var = Null{}

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (b Bool) Kind() Kind     { return KindBool }
func (b Bool) Truthy() bool   { return b.Value }
func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (b Bool) Equals(o Value) (bool, error) {
	if ob, ok := o.(Bool); ok {
		return b.Value == ob.Value, nil
	}
	return false, fmt.Errorf("cannot compare boolean with %s", o.Kind())
}

func (b Bool) CompareTo(o Value) (int, error) {
	ob, ok := o.(Bool)
	if !ok {
		return 0, fmt.Errorf("cannot order boolean with %s", o.Kind())
	}
	if b.Value == ob.Value {
		return 0, nil
	}
	if !b.Value && ob.Value {
		return -1, nil
	}
	return 1, nil
}

// Str wraps a string.
type Str struct{ Value string }

func (s Str) Kind() Kind     { return KindString }
func (s Str) Truthy() bool   { return s.Value != "" }
func (s Str) String() string { return s.Value }

func (s Str) Equals(o Value) (bool, error) {
	if os, ok := o.(Str); ok {
		return s.Value == os.Value, nil
	}
	return false, nil
}

func (s Str) CompareTo(o Value) (int, error) {
	os, ok := o.(Str)
	if !ok {
		return 0, fmt.Errorf("cannot order string with %s", o.Kind())
	}
	switch {
	case s.Value < os.Value:
		return -1, nil
	case s.Value > os.Value:
		return 1, nil
	default:
		return 0, nil
	}
}

// BigInt wraps an arbitrary-precision integer, the overflow-promotion
// target for Int+Int additions that exceed int64 range.
type BigInt struct{ Value *big.Int }

func (b BigInt) Kind() Kind     { return KindBigInt }
func (b BigInt) Truthy() bool   { return b.Value.Sign() != 0 }
func (b BigInt) String() string { return b.Value.String() }

func (b BigInt) Equals(o Value) (bool, error) {
	bf, err := asBigFloat(o)
	if err != nil {
		return false, err
	}
	return new(big.Float).SetInt(b.Value).Cmp(bf) == 0, nil
}

func (b BigInt) CompareTo(o Value) (int, error) {
	bf, err := asBigFloat(o)
	if err != nil {
		return 0, err
	}
	return new(big.Float).SetInt(b.Value).Cmp(bf), nil
}

// Decimal wraps an arbitrary-precision decimal under the engine's current
// MathContext (precision + rounding mode), supplied by the caller at
// construction time via the arithmetic package, not stored per-value.
type Decimal struct{ Value decimal.Decimal }

func (d Decimal) Kind() Kind     { return KindDecimal }
func (d Decimal) Truthy() bool   { return !d.Value.IsZero() }
func (d Decimal) String() string { return d.Value.String() }

func (d Decimal) Equals(o Value) (bool, error) {
	od, err := asDecimal(o)
	if err != nil {
		return false, err
	}
	return d.Value.Equal(od), nil
}

func (d Decimal) CompareTo(o Value) (int, error) {
	od, err := asDecimal(o)
	if err != nil {
		return 0, err
	}
	return d.Value.Cmp(od), nil
}
