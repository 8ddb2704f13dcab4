package jexlinterp

import (
	"fmt"

	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/value"
)

// callBuiltin recognizes the two reserved pseudo-functions `empty(x)` and
// `size(x)` (SPEC_FULL.md Supplemented Features), dispatched ahead of any
// context/local lookup for a bare-name call so a context variable can never
// accidentally shadow them. Returns handled=false for every other name, so
// the caller falls through to ordinary call resolution.
func (ip *Interpreter) callBuiltin(name string, argExprs []jexlast.Expression, fr *frame.Frame, pos jexllexer.Position) (value.Value, bool, error) {
	switch name {
	case "empty":
		v, err := ip.evalSingleBuiltinArg(name, argExprs, fr, pos)
		if err != nil {
			return nil, true, err
		}
		return value.Bool{Value: isEmpty(v)}, true, nil

	case "size":
		v, err := ip.evalSingleBuiltinArg(name, argExprs, fr, pos)
		if err != nil {
			return nil, true, err
		}
		n, err := sizeOf(v)
		if err != nil {
			return nil, true, ip.errAt(pos, jexlerrors.KindOperator, "%v", err)
		}
		return value.Int{Value: int64(n)}, true, nil

	default:
		return nil, false, nil
	}
}

func (ip *Interpreter) evalSingleBuiltinArg(name string, argExprs []jexlast.Expression, fr *frame.Frame, pos jexllexer.Position) (value.Value, error) {
	if len(argExprs) != 1 {
		return nil, ip.errAt(pos, jexlerrors.KindMethod, "%s() takes exactly one argument, got %d", name, len(argExprs))
	}
	return ip.eval(argExprs[0], fr)
}

func isEmpty(v value.Value) bool {
	switch t := v.(type) {
	case value.Null:
		return true
	case value.Bool:
		return !t.Value
	case value.Str:
		return t.Value == ""
	case *value.List:
		return len(t.Items) == 0
	case *value.Map:
		return t.Len() == 0
	case *value.SetVal:
		return len(t.Items()) == 0
	case value.Range:
		return t.Lo > t.Hi
	default:
		return false
	}
}

func sizeOf(v value.Value) (int, error) {
	switch t := v.(type) {
	case value.Str:
		return len([]rune(t.Value)), nil
	case *value.List:
		return len(t.Items), nil
	case *value.Map:
		return t.Len(), nil
	case *value.SetVal:
		return len(t.Items()), nil
	case value.Range:
		if t.Hi < t.Lo {
			return 0, nil
		}
		return int(t.Hi-t.Lo) + 1, nil
	default:
		return 0, fmt.Errorf("size() is not defined for %s", v.Kind())
	}
}
