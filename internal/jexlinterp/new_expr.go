package jexlinterp

import (
	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/value"
)

// evalNewExpr implements `new pkg.Class(args)`: the class name is resolved
// through the host-installed ClassLoader (spec.md §6 Engine.setClassLoader)
// to a Go constructor func, then dispatched through Uberspect.GetConstructor
// the same way any other host invocation is, so the result is wrapped in a
// value.HostObject like a resolved namespace object.
func (ip *Interpreter) evalNewExpr(e *jexlast.NewExpr, fr *frame.Frame) (value.Value, error) {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ip.eval(a, fr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if ip.ClassLoader == nil {
		return nil, ip.errAt(e.Position, jexlerrors.KindMethod, "no class loader configured for %q", e.ClassName)
	}
	factory, ok := ip.ClassLoader(e.ClassName)
	if !ok {
		return nil, ip.errAt(e.Position, jexlerrors.KindMethod, "unknown class %q", e.ClassName)
	}
	inv, err := ip.Uber.GetConstructor(e.ClassName, factory, args)
	if err != nil {
		if ip.Opts.Strict {
			return nil, ip.errAt(e.Position, jexlerrors.KindMethod, "cannot construct %q: %v", e.ClassName, err)
		}
		return value.Var, nil
	}
	return inv(args)
}
