package jexlinterp

import (
	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/value"
)

// eval evaluates an expression node to a Value. Grounded on the teacher's
// evaluator.Evaluator.Eval (a single big type switch over DWScript's
// expression nodes), generalized to JEXL's dynamically-typed node set.
func (ip *Interpreter) eval(expr jexlast.Expression, fr *frame.Frame) (value.Value, error) {
	switch e := expr.(type) {
	case *jexlast.IntLiteral:
		return value.Int{Value: e.Value}, nil
	case *jexlast.FloatLiteral:
		return value.Float{Value: e.Value}, nil
	case *jexlast.StringLiteral:
		return value.Str{Value: e.Value}, nil
	case *jexlast.BoolLiteral:
		return value.Bool{Value: e.Value}, nil
	case *jexlast.NullLiteral:
		return value.Var, nil

	case *jexlast.TemplateString:
		return ip.evalTemplate(e, fr)

	case *jexlast.Ident:
		return ip.evalIdent(e, fr)

	case *jexlast.AntishIdent:
		return ip.evalAntish(e, fr)

	case *jexlast.BinaryExpr:
		return ip.evalBinary(e, fr)

	case *jexlast.UnaryExpr:
		return ip.evalUnary(e, fr)

	case *jexlast.TernaryExpr:
		return ip.evalTernary(e, fr)

	case *jexlast.DotExpr:
		recv, err := ip.eval(e.Receiver, fr)
		if err != nil {
			return nil, err
		}
		return ip.getProperty(recv, e.Member, e.Safe, e.Position)

	case *jexlast.IndexExpr:
		return ip.evalIndex(e, fr)

	case *jexlast.CallExpr:
		return ip.evalCall(e, fr)

	case *jexlast.NamespaceExpr:
		obj, err := ip.resolveNamespace(e.Namespace, e.Position)
		if err != nil {
			return nil, err
		}
		return value.HostObject{Ref: obj, Class: e.Namespace}, nil

	case *jexlast.ListExpr:
		items := make([]value.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := ip.eval(el, fr)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &value.List{Items: items}, nil

	case *jexlast.MapExpr:
		m := value.NewMap()
		for _, entry := range e.Entries {
			k, err := ip.eval(entry.Key, fr)
			if err != nil {
				return nil, err
			}
			v, err := ip.eval(entry.Val, fr)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil

	case *jexlast.SetExpr:
		s := value.NewSet()
		for _, el := range e.Elements {
			v, err := ip.eval(el, fr)
			if err != nil {
				return nil, err
			}
			s.Add(v)
		}
		return s, nil

	case *jexlast.LambdaExpr:
		return ip.evalLambda(e, fr), nil

	case *jexlast.NewExpr:
		return ip.evalNewExpr(e, fr)

	default:
		return nil, ip.errAt(expr.Pos(), jexlerrors.KindParsing, "unhandled expression node %T", expr)
	}
}

// evalTemplate implements string interpolation: a bare `${expr}` template
// (IsBareInterpolation) yields the expression's Value untouched (so
// `` `${x}` `` can produce a non-string when x isn't one); any other shape
// concatenates each segment with each expression's String() form
// (spec.md §4.5 Interpolation, strictInterpolation).
func (ip *Interpreter) evalTemplate(e *jexlast.TemplateString, fr *frame.Frame) (value.Value, error) {
	if e.IsBareInterpolation() {
		return ip.eval(e.Exprs[0], fr)
	}
	var sb []byte
	sb = append(sb, e.Segments[0]...)
	for i, expr := range e.Exprs {
		v, err := ip.eval(expr, fr)
		if err != nil {
			return nil, err
		}
		if v.Kind() == value.KindNull && ip.Opts.StrictInterpolation {
			return nil, ip.errAt(expr.Pos(), jexlerrors.KindVariableNullValue, "null value in string interpolation")
		}
		sb = append(sb, v.String()...)
		sb = append(sb, e.Segments[i+1]...)
	}
	return value.Str{Value: string(sb)}, nil
}

// evalIdent reads a slot-bound local or, for a free name (SlotIndex<0),
// resolves against the Context.
func (ip *Interpreter) evalIdent(id *jexlast.Ident, fr *frame.Frame) (value.Value, error) {
	if id.SlotIndex >= 0 {
		return valueOrNull(fr.Get(id.SlotIndex)), nil
	}
	return ip.resolveFreeName(id.Name, id.Position)
}

// resolveFreeName looks a name up against the Context, honoring `strict`
// for an unknown name (spec.md §4.4 "strict: unknown variable reads raise
// Variable(UNDEFINED) instead of returning null").
func (ip *Interpreter) resolveFreeName(name string, pos jexllexer.Position) (value.Value, error) {
	if v, ok := ip.Ctx.Get(name); ok {
		return valueOrNull(v), nil
	}
	if ip.Opts.Strict {
		return nil, ip.errAt(pos, jexlerrors.KindVariableUndefined, "variable %q is not defined", name)
	}
	return value.Var, nil
}

func valueOrNull(v value.Value) value.Value {
	if v == nil {
		return value.Var
	}
	return v
}

func (ip *Interpreter) evalUnary(e *jexlast.UnaryExpr, fr *frame.Frame) (value.Value, error) {
	v, err := ip.eval(e.Operand, fr)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case jexlast.OpNot:
		return ip.Arith.Not(v), nil
	case jexlast.OpNeg:
		r, err := ip.Arith.Neg(v)
		return r, ip.wrapArithErr(err, e.Position)
	case jexlast.OpBitNot:
		r, err := ip.Arith.BitNot(v)
		return r, ip.wrapArithErr(err, e.Position)
	default:
		return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "unhandled unary operator %q", e.Op)
	}
}

// evalTernary implements both `cond ? then : else` and, when Then is nil,
// the Elvis shorthand `cond ?: else`.
func (ip *Interpreter) evalTernary(e *jexlast.TernaryExpr, fr *frame.Frame) (value.Value, error) {
	cond, err := ip.eval(e.Cond, fr)
	if err != nil {
		return nil, err
	}
	if e.Then == nil {
		if cond.Truthy() {
			return cond, nil
		}
		return ip.eval(e.Else, fr)
	}
	if cond.Truthy() {
		return ip.eval(e.Then, fr)
	}
	return ip.eval(e.Else, fr)
}

func (ip *Interpreter) evalIndex(e *jexlast.IndexExpr, fr *frame.Frame) (value.Value, error) {
	recv, err := ip.eval(e.Receiver, fr)
	if err != nil {
		return nil, err
	}
	if recv.Kind() == value.KindNull && (e.Safe || ip.Opts.Safe) {
		ip.Logger.Debug("jexl: safe navigation short-circuit on null receiver", "line", e.Position.Line, "column", e.Position.Column)
		return value.Var, nil
	}
	idx, err := ip.eval(e.Index, fr)
	if err != nil {
		return nil, err
	}
	switch t := recv.(type) {
	case *value.List:
		i, err := value.ToInt(idx)
		if err != nil {
			return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "list index must be an integer: %v", err)
		}
		if i < 0 || int(i) >= len(t.Items) {
			if ip.Opts.Strict {
				return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "index %d out of bounds (length %d)", i, len(t.Items))
			}
			return value.Var, nil
		}
		return t.Items[i], nil
	case *value.Map:
		v, ok := t.Get(idx)
		if !ok {
			return value.Var, nil
		}
		return v, nil
	case value.Str:
		i, err := value.ToInt(idx)
		if err != nil {
			return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "string index must be an integer: %v", err)
		}
		runes := []rune(t.Value)
		if i < 0 || int(i) >= len(runes) {
			if ip.Opts.Strict {
				return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "index %d out of bounds (length %d)", i, len(runes))
			}
			return value.Var, nil
		}
		return value.Str{Value: string(runes[i])}, nil
	case value.HostObject:
		i, err := value.ToInt(idx)
		if err != nil {
			return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "index must be an integer: %v", err)
		}
		v, err := ip.Uber.GetIndexed(t.Ref, int(i))
		if err != nil {
			if ip.Opts.Strict {
				return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "%v", err)
			}
			return value.Var, nil
		}
		return v, nil
	default:
		return nil, ip.errAt(e.Position, jexlerrors.KindOperator, "cannot index a %s", recv.Kind())
	}
}

func (ip *Interpreter) evalLambda(e *jexlast.LambdaExpr, fr *frame.Frame) value.Value {
	cells := fr.Capture(e.Captures, e.ConstCapture)
	closure := frame.NewClosure(cells, e.CaptureSlots)
	lam := e
	return value.Callable{
		CKind: value.CallableLambda,
		Name:  "lambda",
		Arity: len(lam.Params),
		Invoke: func(args []value.Value) (value.Value, error) {
			return ip.invokeLambda(lam, closure, args)
		},
	}
}

// wrapArithErr tags an Arithmetic error with the right jexlerrors.Kind:
// NullOperandError under StrictArithmetic becomes KindNullOperand,
// everything else is a generic KindOperator failure.
func (ip *Interpreter) wrapArithErr(err error, pos jexllexer.Position) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*value.NullOperandError); ok {
		return ip.errAt(pos, jexlerrors.KindNullOperand, "%v", err)
	}
	return ip.errAt(pos, jexlerrors.KindOperator, "%v", err)
}
