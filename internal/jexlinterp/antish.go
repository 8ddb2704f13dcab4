package jexlinterp

import (
	"strings"

	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/value"
)

// evalAntish resolves a dotted reference `a.b.c` whose root is not a known
// local symbol: it tries context lookups at progressively shorter prefixes,
// longest first, so `has("x.y")` wins over `has("x")` when both exist
// (spec.md §4.5 "Antish variable resolution", Testable Property 4). When no
// prefix matches — or when `antish` is off, so prefix probing never
// happens at all — the root segment falls back to an ordinary free-name
// read and the remaining segments become a plain property chain.
func (ip *Interpreter) evalAntish(node *jexlast.AntishIdent, fr *frame.Frame) (value.Value, error) {
	if ip.Opts.Antish {
		for n := len(node.Parts); n >= 1; n-- {
			candidate := strings.Join(node.Parts[:n], ".")
			if ip.Ctx.Has(candidate) {
				v, _ := ip.Ctx.Get(candidate)
				return ip.applyPropertyChain(valueOrNull(v), node.Parts[n:], node.Position)
			}
		}
	}
	root, err := ip.resolveFreeName(node.Parts[0], node.Position)
	if err != nil {
		return nil, err
	}
	return ip.applyPropertyChain(root, node.Parts[1:], node.Position)
}

// applyPropertyChain walks a sequence of plain (non-safe) `.member` steps
// off an already-resolved base value.
func (ip *Interpreter) applyPropertyChain(base value.Value, members []string, pos jexllexer.Position) (value.Value, error) {
	cur := base
	for _, m := range members {
		v, err := ip.getProperty(cur, m, false, pos)
		if err != nil {
			return nil, err
		}
		cur = v
	}
	return cur, nil
}

// getProperty reads a property off any receiver Value: Map lookup, Uberspect
// dispatch for a HostObject, a `.length` pseudo-property for collection/
// string kinds, or an error (spec.md §4.5 "Safe navigation" for the Safe
// short-circuit, §4.2 for the Uberspect path). A null receiver short-circuits
// to null whenever the `?.` operator marked this step (safe) OR the global
// `safe` Option is on (spec.md §4.5 "a null receiver anywhere in a `.` / `[]`
// chain short-circuits the rest of the chain to null" — that sentence
// describes the Options.Safe flag, not just the `?.` syntax).
func (ip *Interpreter) getProperty(recv value.Value, member string, safe bool, pos jexllexer.Position) (value.Value, error) {
	if recv.Kind() == value.KindNull {
		if safe || ip.Opts.Safe {
			ip.Logger.Debug("jexl: safe navigation short-circuit on null receiver", "member", member, "line", pos.Line, "column", pos.Column)
			return value.Var, nil
		}
		if ip.Opts.Strict {
			return nil, ip.errAt(pos, jexlerrors.KindVariableNullValue, "cannot read property %q of null", member)
		}
		return value.Var, nil
	}

	switch t := recv.(type) {
	case *value.Map:
		if v, ok := t.Get(value.Str{Value: member}); ok {
			return v, nil
		}
		if member == "length" {
			return value.Int{Value: int64(t.Len())}, nil
		}
		return ip.missingProperty(member, recv, pos)

	case *value.List:
		if member == "length" {
			return value.Int{Value: int64(len(t.Items))}, nil
		}
		return ip.missingProperty(member, recv, pos)

	case *value.SetVal:
		if member == "length" {
			return value.Int{Value: int64(len(t.Items()))}, nil
		}
		return ip.missingProperty(member, recv, pos)

	case value.Str:
		if member == "length" {
			return value.Int{Value: int64(len([]rune(t.Value)))}, nil
		}
		return ip.missingProperty(member, recv, pos)

	case value.HostObject:
		getter, err := ip.Uber.GetPropertyGet(t.Ref, member)
		if err != nil {
			return ip.missingProperty(member, recv, pos)
		}
		return getter(t.Ref)

	default:
		return ip.missingProperty(member, recv, pos)
	}
}

func (ip *Interpreter) missingProperty(member string, recv value.Value, pos jexllexer.Position) (value.Value, error) {
	if ip.Opts.Strict {
		return nil, ip.errAt(pos, jexlerrors.KindProperty, "no such property %q on %s", member, recv.Kind())
	}
	return value.Var, nil
}
