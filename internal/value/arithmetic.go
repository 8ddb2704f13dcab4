package value

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
)

// MathContext bundles the precision and rounding controls that govern
// inexact decimal division, mirroring spec.md §3's "MathContext =
// precision + rounding" and the `mathScale` option.
type MathContext struct {
	Precision int32                    // significant digits; 0 means decimal.DivisionPrecision default
	Scale     int32                    // mathScale option: decimal places retained after `/`
	Round     decimal.Rounding         // rounding mode; zero value is round-half-away-from-zero equivalent
}

// DefaultMathContext matches shopspring/decimal's own default division
// precision when the engine options do not override it.
var DefaultMathContext = MathContext{Precision: 16, Scale: 16}

// Arithmetic implements spec.md §4.1: one total function per operator over
// Value x Value, parameterized by the two options that change its behavior
// (StrictArithmetic, BooleanLogical) and by the active MathContext.
type Arithmetic struct {
	StrictArithmetic bool
	BooleanLogical   bool
	Math             MathContext

	// Collator, when non-nil, makes `< <= > >=` between two Str values
	// locale-aware (built from the `Locale` Option via
	// golang.org/x/text/collate/language, grounded on the teacher's
	// CompareText/CompareStr locale builtins). nil falls back to Str's own
	// byte-wise CompareTo.
	Collator *collate.Collator
}

// NullOperandError is raised by any numeric operator given a null operand
// while StrictArithmetic is on.
type NullOperandError struct{ Op string }

func (e *NullOperandError) Error() string {
	return fmt.Sprintf("null operand to operator %s", e.Op)
}

// coerceNull replaces a null operand with the operator domain's zero value
// when StrictArithmetic is off, or returns a NullOperandError otherwise.
func (a *Arithmetic) coerceNull(v Value, op string, zero Value) (Value, error) {
	if v.Kind() != KindNull {
		return v, nil
	}
	if a.StrictArithmetic {
		return nil, &NullOperandError{Op: op}
	}
	return zero, nil
}

// Add implements `+`: string concatenation if either operand is a string,
// else numeric promotion with integer-overflow-to-BigInt (spec.md §4.1).
func (a *Arithmetic) Add(l, r Value) (Value, error) {
	if l.Kind() == KindString || r.Kind() == KindString {
		return Str{Value: l.String() + r.String()}, nil
	}
	l, err := a.coerceNull(l, "+", Int{})
	if err != nil {
		return nil, err
	}
	r, err = a.coerceNull(r, "+", Int{})
	if err != nil {
		return nil, err
	}
	if !isNumeric(l) || !isNumeric(r) {
		return nil, fmt.Errorf("operator + is not defined for %s and %s", l.Kind(), r.Kind())
	}
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			if sum, ok := addInt64Checked(li.Value, ri.Value); ok {
				return Int{Value: sum}, nil
			}
			return BigInt{Value: new(big.Int).Add(big.NewInt(li.Value), big.NewInt(ri.Value))}, nil
		}
	}
	return a.promoteBinary(l, r, func(x, y decimal.Decimal) decimal.Decimal { return x.Add(y) },
		func(x, y float64) float64 { return x + y },
		func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

// Sub implements `-`.
func (a *Arithmetic) Sub(l, r Value) (Value, error) {
	l, err := a.coerceNull(l, "-", Int{})
	if err != nil {
		return nil, err
	}
	r, err = a.coerceNull(r, "-", Int{})
	if err != nil {
		return nil, err
	}
	if !isNumeric(l) || !isNumeric(r) {
		return nil, fmt.Errorf("operator - is not defined for %s and %s", l.Kind(), r.Kind())
	}
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			if diff, ok := subInt64Checked(li.Value, ri.Value); ok {
				return Int{Value: diff}, nil
			}
			return BigInt{Value: new(big.Int).Sub(big.NewInt(li.Value), big.NewInt(ri.Value))}, nil
		}
	}
	return a.promoteBinary(l, r, func(x, y decimal.Decimal) decimal.Decimal { return x.Sub(y) },
		func(x, y float64) float64 { return x - y },
		func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) })
}

// Mul implements `*`.
func (a *Arithmetic) Mul(l, r Value) (Value, error) {
	l, err := a.coerceNull(l, "*", Int{})
	if err != nil {
		return nil, err
	}
	r, err = a.coerceNull(r, "*", Int{})
	if err != nil {
		return nil, err
	}
	if !isNumeric(l) || !isNumeric(r) {
		return nil, fmt.Errorf("operator * is not defined for %s and %s", l.Kind(), r.Kind())
	}
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			if prod, ok := mulInt64Checked(li.Value, ri.Value); ok {
				return Int{Value: prod}, nil
			}
			return BigInt{Value: new(big.Int).Mul(big.NewInt(li.Value), big.NewInt(ri.Value))}, nil
		}
	}
	return a.promoteBinary(l, r, func(x, y decimal.Decimal) decimal.Decimal { return x.Mul(y) },
		func(x, y float64) float64 { return x * y },
		func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

// Div implements `/`: integer division that divides exactly stays integer;
// otherwise the result is a Decimal computed under the active MathContext
// (spec.md §4.1).
func (a *Arithmetic) Div(l, r Value) (Value, error) {
	l, err := a.coerceNull(l, "/", Int{})
	if err != nil {
		return nil, err
	}
	r, err = a.coerceNull(r, "/", Int{Value: 1})
	if err != nil {
		return nil, err
	}
	if !isNumeric(l) || !isNumeric(r) {
		return nil, fmt.Errorf("operator / is not defined for %s and %s", l.Kind(), r.Kind())
	}
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			if ri.Value == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			if li.Value%ri.Value == 0 {
				return Int{Value: li.Value / ri.Value}, nil
			}
			ld := decimal.NewFromInt(li.Value)
			rd := decimal.NewFromInt(ri.Value)
			return Decimal{Value: ld.DivRound(rd, a.Math.Scale)}, nil
		}
	}
	ld, err := asDecimal(l)
	if err != nil {
		return nil, err
	}
	rd, err := asDecimal(r)
	if err != nil {
		return nil, err
	}
	if rd.IsZero() {
		return nil, fmt.Errorf("division by zero")
	}
	return Decimal{Value: ld.DivRound(rd, a.Math.Scale)}, nil
}

// Mod implements `%`.
func (a *Arithmetic) Mod(l, r Value) (Value, error) {
	l, err := a.coerceNull(l, "%", Int{})
	if err != nil {
		return nil, err
	}
	r, err = a.coerceNull(r, "%", Int{Value: 1})
	if err != nil {
		return nil, err
	}
	if !isNumeric(l) || !isNumeric(r) {
		return nil, fmt.Errorf("operator %% is not defined for %s and %s", l.Kind(), r.Kind())
	}
	if li, ok := l.(Int); ok {
		if ri, ok := r.(Int); ok {
			if ri.Value == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return Int{Value: li.Value % ri.Value}, nil
		}
	}
	ld, err := asDecimal(l)
	if err != nil {
		return nil, err
	}
	rd, err := asDecimal(r)
	if err != nil {
		return nil, err
	}
	if rd.IsZero() {
		return nil, fmt.Errorf("division by zero")
	}
	return Decimal{Value: ld.Mod(rd)}, nil
}

// promoteBinary widens both operands to the "highest" arm present
// (BigInt < Float < Decimal, following whichever of the two appears) and
// applies the matching combinator.
func (a *Arithmetic) promoteBinary(
	l, r Value,
	decOp func(x, y decimal.Decimal) decimal.Decimal,
	fltOp func(x, y float64) float64,
	bigOp func(x, y *big.Int) *big.Int,
) (Value, error) {
	if l.Kind() == KindDecimal || r.Kind() == KindDecimal {
		ld, err := asDecimal(l)
		if err != nil {
			return nil, err
		}
		rd, err := asDecimal(r)
		if err != nil {
			return nil, err
		}
		return Decimal{Value: decOp(ld, rd)}, nil
	}
	if l.Kind() == KindFloat || r.Kind() == KindFloat {
		lf, err := toFloat64(l)
		if err != nil {
			return nil, err
		}
		rf, err := toFloat64(r)
		if err != nil {
			return nil, err
		}
		return Float{Value: nanToZero(fltOp(lf, rf))}, nil
	}
	lb, err := toBigInt(l)
	if err != nil {
		return nil, err
	}
	rb, err := toBigInt(r)
	if err != nil {
		return nil, err
	}
	res := bigOp(lb, rb)
	if res.IsInt64() {
		return Int{Value: res.Int64()}, nil
	}
	return BigInt{Value: res}, nil
}

func toFloat64(v Value) (float64, error) {
	switch t := v.(type) {
	case Int:
		return float64(t.Value), nil
	case Float:
		return t.Value, nil
	case BigInt:
		f, _ := new(big.Float).SetInt(t.Value).Float64()
		return f, nil
	case Decimal:
		f, _ := t.Value.Float64()
		return f, nil
	}
	return 0, fmt.Errorf("cannot widen %s to float", v.Kind())
}

func toBigInt(v Value) (*big.Int, error) {
	switch t := v.(type) {
	case Int:
		return big.NewInt(t.Value), nil
	case BigInt:
		return t.Value, nil
	}
	return nil, fmt.Errorf("cannot widen %s to bigint", v.Kind())
}

// Eq implements `==`; Neq is its negation.
func (a *Arithmetic) Eq(l, r Value) (Value, error) {
	eq, err := l.Equals(r)
	if err != nil {
		return nil, err
	}
	return Bool{Value: eq}, nil
}

func (a *Arithmetic) Neq(l, r Value) (Value, error) {
	eq, err := l.Equals(r)
	if err != nil {
		return nil, err
	}
	return Bool{Value: !eq}, nil
}

// Lt, Le, Gt, Ge implement the ordering operators via CompareTo.
func (a *Arithmetic) Lt(l, r Value) (Value, error) { return a.compareOp(l, r, func(c int) bool { return c < 0 }) }
func (a *Arithmetic) Le(l, r Value) (Value, error) { return a.compareOp(l, r, func(c int) bool { return c <= 0 }) }
func (a *Arithmetic) Gt(l, r Value) (Value, error) { return a.compareOp(l, r, func(c int) bool { return c > 0 }) }
func (a *Arithmetic) Ge(l, r Value) (Value, error) { return a.compareOp(l, r, func(c int) bool { return c >= 0 }) }

func (a *Arithmetic) compareOp(l, r Value, pred func(int) bool) (Value, error) {
	if a.Collator != nil {
		if ls, ok := l.(Str); ok {
			if rs, ok := r.(Str); ok {
				return Bool{Value: pred(a.Collator.CompareString(ls.Value, rs.Value))}, nil
			}
		}
	}
	c, err := l.CompareTo(r)
	if err != nil {
		return nil, err
	}
	return Bool{Value: pred(c)}, nil
}

// And/Or implement `&&`/`||`: short-circuit is the caller's (interpreter's)
// responsibility since only it knows whether the right operand has been
// evaluated yet; these combine two already-evaluated operands.
func (a *Arithmetic) And(l, r Value) Value {
	if a.BooleanLogical {
		return Bool{Value: l.Truthy() && r.Truthy()}
	}
	if !l.Truthy() {
		return l
	}
	return r
}

func (a *Arithmetic) Or(l, r Value) Value {
	if a.BooleanLogical {
		return Bool{Value: l.Truthy() || r.Truthy()}
	}
	if l.Truthy() {
		return l
	}
	return r
}

// Not implements unary `!`.
func (a *Arithmetic) Not(v Value) Value { return Bool{Value: !v.Truthy()} }

// Coalesce implements `??`.
func (a *Arithmetic) Coalesce(l, r Value) Value {
	if l.Kind() == KindNull {
		return r
	}
	return l
}

// StartsWith/EndsWith implement `=^`/`=$`.
func (a *Arithmetic) StartsWith(l, r Value) (Value, error) {
	ls, lok := l.(Str)
	rs, rok := r.(Str)
	if !lok || !rok {
		return nil, fmt.Errorf("=^ requires two strings, got %s and %s", l.Kind(), r.Kind())
	}
	return Bool{Value: len(ls.Value) >= len(rs.Value) && ls.Value[:len(rs.Value)] == rs.Value}, nil
}

func (a *Arithmetic) EndsWith(l, r Value) (Value, error) {
	ls, lok := l.(Str)
	rs, rok := r.(Str)
	if !lok || !rok {
		return nil, fmt.Errorf("=$ requires two strings, got %s and %s", l.Kind(), r.Kind())
	}
	return Bool{Value: len(ls.Value) >= len(rs.Value) && ls.Value[len(ls.Value)-len(rs.Value):] == rs.Value}, nil
}

// Matches implements `=~` ("in"): membership of l in the collection/range/
// string/set r. `!~` is the caller negating this result.
func (a *Arithmetic) Matches(l, r Value) (Value, error) {
	switch rv := r.(type) {
	case *List:
		for _, it := range rv.Items {
			if eq, err := it.Equals(l); err == nil && eq {
				return Bool{Value: true}, nil
			}
		}
		return Bool{Value: false}, nil
	case *SetVal:
		return Bool{Value: rv.Contains(l)}, nil
	case Range:
		li, ok := l.(Int)
		if !ok {
			return Bool{Value: false}, nil
		}
		return Bool{Value: rv.Contains(li.Value)}, nil
	case Str:
		ls, ok := l.(Str)
		if !ok {
			return nil, fmt.Errorf("=~ against a string requires a string left operand")
		}
		return Bool{Value: stringsContains(rv.Value, ls.Value)}, nil
	default:
		return nil, fmt.Errorf("=~ is not defined for right operand of kind %s", r.Kind())
	}
}

func stringsContains(haystack, needle string) bool {
	return len(needle) == 0 || indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	if m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

// MakeRange implements `a..b`.
func (a *Arithmetic) MakeRange(l, r Value) (Value, error) {
	li, lok := l.(Int)
	ri, rok := r.(Int)
	if !lok || !rok {
		return nil, fmt.Errorf(".. requires two integers, got %s and %s", l.Kind(), r.Kind())
	}
	return Range{Lo: li.Value, Hi: ri.Value}, nil
}
