package jexlinterp

import (
	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/value"
)

// assign writes v into target, honoring lexicalShade for free context
// names (spec.md §4.5 "Assignment. Honors lexical, constCapture,
// sideEffects, sideEffectsGlobals" — the last three are enforced at parse
// time per spec.md §4.3's "the interpreter assumes features were enforced
// at parse time", leaving lexicalShade as the one Option the interpreter
// itself must still apply on every free-name write).
func (ip *Interpreter) assign(target jexlast.AssignTarget, v value.Value, fr *frame.Frame, pos jexllexer.Position) error {
	switch {
	case target.Ident != nil:
		return ip.assignIdent(target.Ident, v, fr, pos)
	case target.Antish != nil:
		return ip.assignContextName(target.Antish.String(), v, pos)
	case target.Dot != nil:
		return ip.assignDot(target.Dot, v, fr)
	default:
		return ip.assignIndex(target.Index, v, fr)
	}
}

func (ip *Interpreter) assignIdent(id *jexlast.Ident, v value.Value, fr *frame.Frame, pos jexllexer.Position) error {
	if id.SlotIndex >= 0 {
		if err := fr.Set(id.SlotIndex, v); err != nil {
			return ip.errAt(pos, jexlerrors.KindAssignment, "%v", err)
		}
		return nil
	}
	return ip.assignContextName(id.Name, v, pos)
}

func (ip *Interpreter) assignContextName(name string, v value.Value, pos jexllexer.Position) error {
	if ip.Opts.LexicalShade && !ip.Ctx.Has(name) {
		return ip.errAt(pos, jexlerrors.KindVariableUndefined, "variable %q is not defined", name)
	}
	if err := ip.Ctx.Set(name, v); err != nil {
		return ip.errAt(pos, jexlerrors.KindAssignment, "%v", err)
	}
	return nil
}

func (ip *Interpreter) assignDot(target *jexlast.DotExpr, v value.Value, fr *frame.Frame) error {
	receiver, err := ip.eval(target.Receiver, fr)
	if err != nil {
		return err
	}
	if receiver.Kind() == value.KindNull && (target.Safe || ip.Opts.Safe) {
		ip.Logger.Debug("jexl: safe navigation short-circuit on null receiver", "member", target.Member, "line", target.Position.Line, "column", target.Position.Column)
		return nil
	}
	switch t := receiver.(type) {
	case *value.Map:
		t.Set(value.Str{Value: target.Member}, v)
		return nil
	case value.HostObject:
		setter, err := ip.Uber.GetPropertySet(t.Ref, target.Member)
		if err != nil {
			if ip.Opts.Strict {
				return ip.errAt(target.Position, jexlerrors.KindProperty, "no such settable property %q on %s", target.Member, t.Class)
			}
			return nil
		}
		return setter(t.Ref, v)
	default:
		return ip.errAt(target.Position, jexlerrors.KindProperty, "cannot set property %q on a %s", target.Member, receiver.Kind())
	}
}

func (ip *Interpreter) assignIndex(target *jexlast.IndexExpr, v value.Value, fr *frame.Frame) error {
	receiver, err := ip.eval(target.Receiver, fr)
	if err != nil {
		return err
	}
	if receiver.Kind() == value.KindNull && (target.Safe || ip.Opts.Safe) {
		ip.Logger.Debug("jexl: safe navigation short-circuit on null receiver", "line", target.Position.Line, "column", target.Position.Column)
		return nil
	}
	idx, err := ip.eval(target.Index, fr)
	if err != nil {
		return err
	}
	switch t := receiver.(type) {
	case *value.List:
		i, err := value.ToInt(idx)
		if err != nil {
			return ip.errAt(target.Position, jexlerrors.KindOperator, "list index must be an integer: %v", err)
		}
		if i < 0 || int(i) >= len(t.Items) {
			return ip.errAt(target.Position, jexlerrors.KindOperator, "index %d out of bounds (length %d)", i, len(t.Items))
		}
		t.Items[i] = v
		return nil
	case *value.Map:
		t.Set(idx, v)
		return nil
	default:
		return ip.errAt(target.Position, jexlerrors.KindOperator, "cannot index-assign into a %s", receiver.Kind())
	}
}
