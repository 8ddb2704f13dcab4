package jexlinterp

import (
	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/value"
)

// execStmt executes one statement and reports the control-flow outcome.
// For ctrlNone, result.val is the statement's own value (used to thread
// the "value of the last statement" script-result convention up through
// nested blocks); for ctrlReturn it is the returned value.
func (ip *Interpreter) execStmt(stmt jexlast.Statement, fr *frame.Frame) (result, error) {
	if cancelled, err := ip.pollCancel(stmt.Pos()); err != nil {
		return result{}, err
	} else if cancelled {
		return result{kind: ctrlReturn, val: value.Var}, nil
	}

	switch s := stmt.(type) {
	case *jexlast.ExprStmt:
		v, err := ip.eval(s.Expr, fr)
		if err != nil {
			return result{}, err
		}
		return result{val: v}, nil

	case *jexlast.BlockStmt:
		return ip.execBlock(s.Statements, fr)

	case *jexlast.VarDeclStmt:
		v := value.Value(value.Var)
		if s.Init != nil {
			var err error
			v, err = ip.eval(s.Init, fr)
			if err != nil {
				return result{}, err
			}
		}
		fr.Declare(s.Slot, s.Name, s.Const)
		if err := fr.Set(s.Slot, v); err != nil {
			return result{}, ip.errAt(s.Position, jexlerrors.KindAssignment, "%v", err)
		}
		return result{val: v}, nil

	case *jexlast.AssignStmt:
		v, err := ip.eval(s.Value, fr)
		if err != nil {
			return result{}, err
		}
		if err := ip.assign(s.Target, v, fr, s.Position); err != nil {
			return result{}, err
		}
		return result{val: v}, nil

	case *jexlast.IfStmt:
		cond, err := ip.eval(s.Cond, fr)
		if err != nil {
			return result{}, err
		}
		if cond.Truthy() {
			return ip.execStmt(s.Then, fr)
		}
		if s.Else != nil {
			return ip.execStmt(s.Else, fr)
		}
		return result{val: value.Var}, nil

	case *jexlast.WhileStmt:
		return ip.execWhile(s, fr)

	case *jexlast.DoWhileStmt:
		return ip.execDoWhile(s, fr)

	case *jexlast.ForStmt:
		return ip.execFor(s, fr)

	case *jexlast.ReturnStmt:
		v := value.Value(value.Var)
		if s.Value != nil {
			var err error
			v, err = ip.eval(s.Value, fr)
			if err != nil {
				return result{}, err
			}
		}
		return result{kind: ctrlReturn, val: v}, nil

	case *jexlast.BreakStmt:
		return result{kind: ctrlBreak}, nil

	case *jexlast.ContinueStmt:
		return result{kind: ctrlContinue}, nil

	case *jexlast.AnnotationStmt:
		return ip.execAnnotation(s, fr)

	default:
		return result{}, ip.errAt(stmt.Pos(), jexlerrors.KindParsing, "unhandled statement node %T", stmt)
	}
}

func (ip *Interpreter) execBlock(stmts []jexlast.Statement, fr *frame.Frame) (result, error) {
	last := value.Value(value.Var)
	for _, s := range stmts {
		r, err := ip.execStmt(s, fr)
		if err != nil {
			return result{}, err
		}
		if r.kind != ctrlNone {
			return r, nil
		}
		last = r.val
	}
	return result{val: last}, nil
}

func (ip *Interpreter) execWhile(s *jexlast.WhileStmt, fr *frame.Frame) (result, error) {
	for {
		if cancelled, err := ip.pollCancel(s.Position); err != nil {
			return result{}, err
		} else if cancelled {
			return result{kind: ctrlReturn, val: value.Var}, nil
		}
		cond, err := ip.eval(s.Cond, fr)
		if err != nil {
			return result{}, err
		}
		if !cond.Truthy() {
			return result{val: value.Var}, nil
		}
		r, err := ip.execStmt(s.Body, fr)
		if err != nil {
			return result{}, err
		}
		switch r.kind {
		case ctrlBreak:
			return result{val: value.Var}, nil
		case ctrlReturn:
			return r, nil
		}
	}
}

func (ip *Interpreter) execDoWhile(s *jexlast.DoWhileStmt, fr *frame.Frame) (result, error) {
	for {
		if cancelled, err := ip.pollCancel(s.Position); err != nil {
			return result{}, err
		} else if cancelled {
			return result{kind: ctrlReturn, val: value.Var}, nil
		}
		r, err := ip.execStmt(s.Body, fr)
		if err != nil {
			return result{}, err
		}
		switch r.kind {
		case ctrlBreak:
			return result{val: value.Var}, nil
		case ctrlReturn:
			return r, nil
		}
		cond, err := ip.eval(s.Cond, fr)
		if err != nil {
			return result{}, err
		}
		if !cond.Truthy() {
			return result{val: value.Var}, nil
		}
	}
}

// execFor iterates a List, SetVal, Map (over its keys), or Range, binding
// each element into VarSlot in turn (spec.md Testable Property S5).
func (ip *Interpreter) execFor(s *jexlast.ForStmt, fr *frame.Frame) (result, error) {
	iter, err := ip.eval(s.Iterable, fr)
	if err != nil {
		return result{}, err
	}
	items, err := ip.iterate(iter, s.Position)
	if err != nil {
		return result{}, err
	}
	fr.Declare(s.VarSlot, s.VarName, false)
	for _, item := range items {
		if cancelled, err := ip.pollCancel(s.Position); err != nil {
			return result{}, err
		} else if cancelled {
			return result{kind: ctrlReturn, val: value.Var}, nil
		}
		if err := fr.Set(s.VarSlot, item); err != nil {
			return result{}, ip.errAt(s.Position, jexlerrors.KindAssignment, "%v", err)
		}
		r, err := ip.execStmt(s.Body, fr)
		if err != nil {
			return result{}, err
		}
		switch r.kind {
		case ctrlBreak:
			return result{val: value.Var}, nil
		case ctrlReturn:
			return r, nil
		}
	}
	return result{val: value.Var}, nil
}

func (ip *Interpreter) iterate(v value.Value, pos jexllexer.Position) ([]value.Value, error) {
	switch t := v.(type) {
	case *value.List:
		return t.Items, nil
	case *value.SetVal:
		return t.Items(), nil
	case *value.Map:
		keys := t.Keys()
		out := make([]value.Value, len(keys))
		copy(out, keys)
		return out, nil
	case value.Range:
		var out []value.Value
		next := t.Iterator()
		for n, ok := next(); ok; n, ok = next() {
			out = append(out, value.Int{Value: n})
		}
		return out, nil
	case value.Null:
		return nil, nil
	default:
		return nil, ip.errAt(pos, jexlerrors.KindOperator, "cannot iterate a %s", v.Kind())
	}
}

// execAnnotation dispatches `@name(args) statement` through the context's
// AnnotationProcessor, or runs the statement inline under lenient mode
// (spec.md §4.5 Annotations).
func (ip *Interpreter) execAnnotation(s *jexlast.AnnotationStmt, fr *frame.Frame) (result, error) {
	args := make([]value.Value, len(s.Args))
	for i, a := range s.Args {
		v, err := ip.eval(a, fr)
		if err != nil {
			return result{}, err
		}
		args[i] = v
	}

	thunk := func() (value.Value, error) {
		r, err := ip.execStmt(s.Body, fr)
		return r.val, err
	}

	proc, ok := ip.Ctx.(jexlcontext.AnnotationProcessor)
	if !ok {
		if ip.Opts.Strict {
			return result{}, ip.errAt(s.Position, jexlerrors.KindAnnotation, "no annotation processor installed for %q", s.Name)
		}
		ip.Logger.Warn("jexl: annotation ignored, running body inline", "name", s.Name)
		v, err := thunk()
		if err != nil {
			return result{}, err
		}
		return result{val: v}, nil
	}
	v, err := proc.ProcessAnnotation(s.Name, args, thunk)
	if err != nil {
		return result{}, err
	}
	return result{val: v}, nil
}
