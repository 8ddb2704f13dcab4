package jexlinterp

import (
	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/value"
)

// evalCall dispatches `callee(args...)` by the shape of its Callee: a
// method call (DotExpr, or a dotted AntishIdent whose full path is not a
// context variable), a namespace call (NamespaceExpr), a local/global
// function call (Ident), or any other expression producing a Callable
// (spec.md §4.5 "Function calls").
func (ip *Interpreter) evalCall(e *jexlast.CallExpr, fr *frame.Frame) (value.Value, error) {
	if ident, ok := e.Callee.(*jexlast.Ident); ok && ident.SlotIndex < 0 {
		if v, handled, err := ip.callBuiltin(ident.Name, e.Args, fr, e.Position); handled {
			return v, err
		}
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ip.eval(a, fr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if cancelled, err := ip.pollCancel(e.Position); err != nil {
		return nil, err
	} else if cancelled {
		return value.Var, nil
	}

	switch callee := e.Callee.(type) {
	case *jexlast.DotExpr:
		return ip.evalMethodCall(callee, args, fr)
	case *jexlast.NamespaceExpr:
		return ip.evalNamespaceCall(callee, args)
	case *jexlast.Ident:
		return ip.evalIdentCall(callee, args, fr)
	case *jexlast.AntishIdent:
		if !(ip.Opts.Antish && ip.Ctx.Has(callee.String())) {
			n := len(callee.Parts)
			var recv jexlast.Expression = &jexlast.Ident{Position: callee.Position, Name: callee.Parts[0], SlotIndex: -1}
			if n > 2 {
				recv = &jexlast.AntishIdent{Position: callee.Position, Parts: callee.Parts[:n-1]}
			}
			return ip.evalMethodCall(&jexlast.DotExpr{Position: callee.Position, Receiver: recv, Member: callee.Parts[n-1]}, args, fr)
		}
		fn, err := ip.eval(callee, fr)
		if err != nil {
			return nil, err
		}
		return ip.invokeValue(fn, args, e.Position)
	default:
		fn, err := ip.eval(e.Callee, fr)
		if err != nil {
			return nil, err
		}
		return ip.invokeValue(fn, args, e.Position)
	}
}

func (ip *Interpreter) invokeValue(fn value.Value, args []value.Value, pos jexllexer.Position) (value.Value, error) {
	c, ok := fn.(value.Callable)
	if !ok {
		return nil, ip.errAt(pos, jexlerrors.KindMethod, "value of kind %s is not callable", fn.Kind())
	}
	return c.Invoke(args)
}

func (ip *Interpreter) evalIdentCall(id *jexlast.Ident, args []value.Value, fr *frame.Frame) (value.Value, error) {
	if id.SlotIndex >= 0 {
		return ip.invokeValue(valueOrNull(fr.Get(id.SlotIndex)), args, id.Position)
	}
	if v, ok := ip.Ctx.Get(id.Name); ok {
		return ip.invokeValue(v, args, id.Position)
	}
	if ip.Opts.Strict {
		return nil, ip.errAt(id.Position, jexlerrors.KindVariableUndefined, "function %q is not defined", id.Name)
	}
	return value.Var, nil
}

// evalMethodCall resolves `receiver.member(args)` via the Uberspect when
// the receiver is a HostObject, or falls back to treating the property
// itself as a Callable (e.g. a function stored in a Map entry).
func (ip *Interpreter) evalMethodCall(dot *jexlast.DotExpr, args []value.Value, fr *frame.Frame) (value.Value, error) {
	recv, err := ip.eval(dot.Receiver, fr)
	if err != nil {
		return nil, err
	}
	if recv.Kind() == value.KindNull && (dot.Safe || ip.Opts.Safe) {
		ip.Logger.Debug("jexl: safe navigation short-circuit on null receiver", "member", dot.Member, "line", dot.Position.Line, "column", dot.Position.Column)
		return value.Var, nil
	}
	if host, ok := recv.(value.HostObject); ok {
		inv, err := ip.Uber.GetMethod(host.Ref, dot.Member, args)
		if err != nil {
			if ip.Opts.Strict {
				return nil, ip.errAt(dot.Position, jexlerrors.KindMethod, "no such method %q on %s/%d", dot.Member, host.Class, len(args))
			}
			return value.Var, nil
		}
		return inv(args)
	}
	prop, err := ip.getProperty(recv, dot.Member, dot.Safe, dot.Position)
	if err != nil {
		return nil, err
	}
	if prop.Kind() == value.KindNull && dot.Safe {
		return value.Var, nil
	}
	return ip.invokeValue(prop, args, dot.Position)
}

func (ip *Interpreter) evalNamespaceCall(ns *jexlast.NamespaceExpr, args []value.Value) (value.Value, error) {
	obj, err := ip.resolveNamespace(ns.Namespace, ns.Position)
	if err != nil {
		return nil, err
	}
	inv, err := ip.Uber.GetMethod(obj, ns.Member, args)
	if err != nil {
		if ip.Opts.Strict {
			return nil, ip.errAt(ns.Position, jexlerrors.KindMethod, "no such namespace method %s:%s/%d", ns.Namespace, ns.Member, len(args))
		}
		return value.Var, nil
	}
	return inv(args)
}

// resolveNamespace looks up and, if needed, instantiates a namespace object
// once per evaluation (spec.md §4.5 "Namespace instance lifecycle"):
// Options.Namespaces is consulted first (engine/builder-registered
// namespaces), then the Context's NamespaceResolver, if any.
func (ip *Interpreter) resolveNamespace(name string, pos jexllexer.Position) (any, error) {
	if obj, ok := ip.namespaceObj[name]; ok {
		return obj, nil
	}
	var raw any
	var found bool
	if obj, ok := ip.Opts.Namespaces[name]; ok {
		raw, found = obj, true
	} else if nr, ok := ip.Ctx.(jexlcontext.NamespaceResolver); ok {
		raw, found = nr.ResolveNamespace(name)
	}
	if !found {
		return nil, ip.errAt(pos, jexlerrors.KindProperty, "unknown namespace %q", name)
	}
	if functor, ok := raw.(jexlcontext.NamespaceFunctor); ok {
		inst, err := functor.CreateFunctor(ip.Ctx)
		if err != nil {
			return nil, ip.errAt(pos, jexlerrors.KindMethod, "namespace %q functor failed: %v", name, err)
		}
		raw = inst
	}
	ip.namespaceObj[name] = raw
	return raw, nil
}

// invokeLambda runs a lambda's body in a fresh frame sized for its own
// params+locals+captures, binding each captured cell via Closure.BindInto
// before execution, honoring the interpreter's max call depth (spec.md §4.5
// "stack overflow").
func (ip *Interpreter) invokeLambda(lam *jexlast.LambdaExpr, closure *frame.Closure, args []value.Value) (value.Value, error) {
	ip.depth++
	defer func() { ip.depth-- }()
	if ip.depth > ip.maxDepth {
		return nil, ip.errAt(lam.Position, jexlerrors.KindStackOverflow, "exceeded maximum call depth %d", ip.maxDepth)
	}

	newFr := frame.New(lam.FrameSize)
	for i, p := range lam.Params {
		v := value.Value(value.Var)
		if i < len(args) {
			v = args[i]
		}
		newFr.Declare(p.Slot, p.Name, false)
		if err := newFr.Set(p.Slot, v); err != nil {
			return nil, ip.errAt(lam.Position, jexlerrors.KindAssignment, "%v", err)
		}
	}
	closure.BindInto(newFr)

	r, err := ip.execBlock(lam.Body, newFr)
	if err != nil {
		return nil, err
	}
	if r.kind == ctrlBreak || r.kind == ctrlContinue {
		return nil, ip.errAt(lam.Position, jexlerrors.KindFeature, "%s outside of a loop", r.kind)
	}
	return r.val, nil
}
