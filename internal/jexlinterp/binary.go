package jexlinterp

import (
	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/value"
)

// evalBinary evaluates a BinaryExpr. `&&`/`||`/`??` each short-circuit their
// right operand once the left alone determines the result; for every other
// operator, a HostObject left operand is offered to the Uberspect for an
// overload on its class before falling back to the built-in Arithmetic
// table (spec.md §4.2 "Operator overloading").
func (ip *Interpreter) evalBinary(e *jexlast.BinaryExpr, fr *frame.Frame) (value.Value, error) {
	if e.Op == jexlast.OpAnd || e.Op == jexlast.OpOr {
		return ip.evalShortCircuit(e, fr)
	}
	if e.Op == jexlast.OpCoalesce {
		return ip.evalCoalesce(e, fr)
	}

	l, err := ip.eval(e.Left, fr)
	if err != nil {
		return nil, err
	}
	r, err := ip.eval(e.Right, fr)
	if err != nil {
		return nil, err
	}

	if hl, ok := l.(value.HostObject); ok {
		if inv, oerr := ip.Uber.GetOperator(string(e.Op), hl.Ref, r); oerr == nil {
			return inv([]value.Value{l, r})
		}
	}

	switch e.Op {
	case jexlast.OpAdd:
		v, err := ip.Arith.Add(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpSub:
		v, err := ip.Arith.Sub(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpMul:
		v, err := ip.Arith.Mul(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpDiv:
		v, err := ip.Arith.Div(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpMod:
		v, err := ip.Arith.Mod(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpEq:
		return ip.Arith.Eq(l, r)
	case jexlast.OpNeq:
		return ip.Arith.Neq(l, r)
	case jexlast.OpLt:
		v, err := ip.Arith.Lt(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpLe:
		v, err := ip.Arith.Le(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpGt:
		v, err := ip.Arith.Gt(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpGe:
		v, err := ip.Arith.Ge(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpBitAnd:
		v, err := ip.Arith.BitAnd(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpBitOr:
		v, err := ip.Arith.BitOr(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpBitXor:
		v, err := ip.Arith.BitXor(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpShl:
		v, err := ip.Arith.Shl(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpShr:
		v, err := ip.Arith.Shr(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpUShr:
		v, err := ip.Arith.Ashr(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpMatch:
		v, err := ip.Arith.Matches(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpNotMatch:
		v, err := ip.Arith.Matches(l, r)
		if err != nil {
			return nil, ip.wrapArithErr(err, e.Position)
		}
		return value.Bool{Value: !v.(value.Bool).Value}, nil
	case jexlast.OpStarts:
		v, err := ip.Arith.StartsWith(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpEnds:
		v, err := ip.Arith.EndsWith(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	case jexlast.OpRange:
		v, err := ip.Arith.MakeRange(l, r)
		return v, ip.wrapArithErr(err, e.Position)
	default:
		return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "unhandled binary operator %q", e.Op)
	}
}

// evalCoalesce implements `??`, stopping before the right operand is
// evaluated at all once the left is determined to be non-null (spec.md's
// short-circuit property is symmetric across `&&`, `||`, and `??`).
func (ip *Interpreter) evalCoalesce(e *jexlast.BinaryExpr, fr *frame.Frame) (value.Value, error) {
	l, err := ip.eval(e.Left, fr)
	if err != nil {
		return nil, err
	}
	if _, isNull := l.(value.Null); !isNull {
		return l, nil
	}
	return ip.eval(e.Right, fr)
}

// evalShortCircuit implements `&&`/`||`, stopping before the right operand
// is evaluated at all once the result is determined by the left alone.
func (ip *Interpreter) evalShortCircuit(e *jexlast.BinaryExpr, fr *frame.Frame) (value.Value, error) {
	l, err := ip.eval(e.Left, fr)
	if err != nil {
		return nil, err
	}
	wantTrue := e.Op == jexlast.OpOr
	if l.Truthy() == wantTrue {
		if ip.Opts.BooleanLogical {
			return value.Bool{Value: wantTrue}, nil
		}
		return l, nil
	}
	r, err := ip.eval(e.Right, fr)
	if err != nil {
		return nil, err
	}
	if ip.Opts.BooleanLogical {
		return value.Bool{Value: r.Truthy()}, nil
	}
	return r, nil
}
