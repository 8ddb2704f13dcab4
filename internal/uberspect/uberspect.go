// Package uberspect implements the JEXL introspection/dispatch layer:
// resolving a property getter/setter, method, constructor, or operator
// overload on an arbitrary host object, under a permissions/sandbox policy,
// with a per-class resolution cache (spec.md §4.2).
//
// Grounded on the teacher's MethodRegistry (ID-based registration + name
// index under a mutex, internal/interp/runtime/method_registry.go) for the
// cache shape, generalized from "methods declared by the DWScript compiler"
// to "members discovered by Go reflection on an arbitrary host value",
// since JEXL (unlike DWScript) has no compile-time class declarations of
// its own — every receiver is a host object the embedding application
// supplies.
package uberspect

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jexl-go/jexl/internal/permissions"
	"github.com/jexl-go/jexl/internal/value"
)

// Strategy names the resolution order, matching spec.md §4.2's named
// strategies exactly.
type Strategy int

const (
	StrategyJEXL Strategy = iota // Duck, Map, List, Bean, Field
	StrategyStrict
	StrategyPowerful
)

// step names one of the five resolution phases.
type step int

const (
	stepDuck step = iota
	stepMap
	stepList
	stepBean
	stepField
)

var orderJEXL = []step{stepDuck, stepMap, stepList, stepBean, stepField}
var orderStrict = []step{stepBean, stepField, stepDuck}
var orderPowerful = []step{stepDuck, stepBean, stepMap, stepList, stepField}

func (s Strategy) order() []step {
	switch s {
	case StrategyStrict:
		return orderStrict
	case StrategyPowerful:
		return orderPowerful
	default:
		return orderJEXL
	}
}

// Getter reads a property off a receiver.
type Getter func(receiver any) (value.Value, error)

// Setter writes a property on a receiver.
type Setter func(receiver any, v value.Value) error

// Invocation calls a resolved method, constructor, or operator overload.
type Invocation func(args []value.Value) (value.Value, error)

// opKind distinguishes cache entries for the five public operations.
type opKind int

const (
	opPropertyGet opKind = iota
	opPropertySet
	opMethod
	opConstructor
	opOperator
)

// cacheKey is (operation, key, arity) per spec.md §4.2.
type cacheKey struct {
	op    opKind
	class string
	key   string
	arity int
}

// TryFailed is the sentinel "resolution missing" result, matching spec.md
// §4.2 "a missing-but-expected resolution returns a sentinel TRY_FAILED
// value internally". It is returned as a typed error so callers can test
// for it with errors.Is.
var TryFailed = fmt.Errorf("uberspect: resolution failed")

// Uberspect is the introspection/dispatch engine. One instance is normally
// shared by an Engine across concurrent evaluations: its cache is the
// engine's only shared mutable state besides the expression cache
// (spec.md §5).
type Uberspect struct {
	Strategy    Strategy
	Permissions *permissions.Permissions
	Sandbox     *permissions.Sandbox

	mu    sync.Mutex
	cache *lru.Cache[cacheKey, any]
}

// New builds an Uberspect with a bounded per-class resolution cache.
func New(perms *permissions.Permissions, sandbox *permissions.Sandbox, cacheSize int) *Uberspect {
	if cacheSize <= 0 {
		cacheSize = 2048
	}
	c, _ := lru.New[cacheKey, any](cacheSize)
	return &Uberspect{Strategy: StrategyJEXL, Permissions: perms, Sandbox: sandbox, cache: c}
}

func classNameOf(receiver any) string {
	if receiver == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(receiver)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// checkPermission gates a resolution against the permissions/sandbox policy
// before it is ever cached or returned, per spec.md §4.2: "a denied member
// reports as not found to the interpreter".
func (u *Uberspect) checkPermission(class, member string, kind permissions.MemberKind) bool {
	if u.Permissions != nil && !u.Permissions.Allows(class, member) {
		return false
	}
	if u.Sandbox != nil && !u.Sandbox.Allows(class, member, kind) {
		return false
	}
	return true
}

// GetPropertyGet resolves a getter for key on class, trying (in strategy
// order): an explicit getX method, an isX boolean method, map-style
// indexed access, or a public field. List-style numeric index access is
// not resolved here; GetIndexed handles it.
func (u *Uberspect) GetPropertyGet(receiver any, key string) (Getter, error) {
	class := classNameOf(receiver)
	if !u.checkPermission(class, key, permissions.MemberPropertyRead) {
		return nil, TryFailed
	}
	ck := cacheKey{op: opPropertyGet, class: class, key: key}
	if g, ok := u.cacheGet(ck); ok {
		if g == nil {
			return nil, TryFailed
		}
		return g.(Getter), nil
	}

	g := u.resolvePropertyGet(receiver, key)
	if g == nil {
		u.cachePut(ck, nil)
		return nil, TryFailed
	}
	u.cachePut(ck, g)
	return g, nil
}

func (u *Uberspect) resolvePropertyGet(receiver any, key string) Getter {
	rv := reflect.ValueOf(receiver)
	rt := rv.Type()
	title := strings.ToUpper(key[:1]) + key[1:]

	for _, st := range u.Strategy.order() {
		switch st {
		case stepDuck, stepBean:
			if m := rv.MethodByName("Get" + title); m.IsValid() && m.Type().NumIn() == 0 {
				return methodGetter("Get" + title)
			}
			if m := rv.MethodByName("Is" + title); m.IsValid() && m.Type().NumIn() == 0 {
				return methodGetter("Is" + title)
			}
		case stepMap:
			if rt.Kind() == reflect.Map {
				return func(receiver any) (value.Value, error) {
					mv := reflect.ValueOf(receiver)
					kv := mv.MapIndex(reflect.ValueOf(key))
					if !kv.IsValid() {
						return value.Var, nil
					}
					return GoToValue(kv.Interface())
				}
			}
		case stepList:
			if rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array {
				// numeric index access is handled by GetIndexed, not here.
			}
		case stepField:
			ft := rt
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() != reflect.Struct {
				continue
			}
			if f, ok := ft.FieldByName(title); ok && f.IsExported() {
				return func(receiver any) (value.Value, error) {
					fv := reflect.Indirect(reflect.ValueOf(receiver)).FieldByIndex(f.Index)
					return GoToValue(fv.Interface())
				}
			}
		}
	}
	return nil
}

func methodGetter(name string) Getter {
	return func(receiver any) (value.Value, error) {
		out := reflect.ValueOf(receiver).MethodByName(name).Call(nil)
		if len(out) == 0 {
			return value.Var, nil
		}
		return GoToValue(out[0].Interface())
	}
}

// GetIndexed resolves list-style numeric index access, the `stepList` arm
// of resolution, kept as a separate entry point since it takes an extra
// index argument the Getter signature does not carry.
func (u *Uberspect) GetIndexed(receiver any, index int) (value.Value, error) {
	rv := reflect.ValueOf(receiver)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, TryFailed
	}
	if index < 0 || index >= rv.Len() {
		return nil, fmt.Errorf("index %d out of bounds (length %d)", index, rv.Len())
	}
	return GoToValue(rv.Index(index).Interface())
}

// GetPropertySet resolves a setter for key on class.
func (u *Uberspect) GetPropertySet(receiver any, key string) (Setter, error) {
	class := classNameOf(receiver)
	if !u.checkPermission(class, key, permissions.MemberPropertyWrite) {
		return nil, TryFailed
	}
	ck := cacheKey{op: opPropertySet, class: class, key: key}
	if s, ok := u.cacheGet(ck); ok {
		if s == nil {
			return nil, TryFailed
		}
		return s.(Setter), nil
	}

	title := strings.ToUpper(key[:1]) + key[1:]
	rv := reflect.ValueOf(receiver)
	rt := rv.Type()

	var setter Setter
	if m := rv.MethodByName("Set" + title); m.IsValid() && m.Type().NumIn() == 1 {
		paramType := m.Type().In(0)
		setter = func(receiver any, v value.Value) error {
			arg, err := ValueToGo(v, paramType)
			if err != nil {
				return err
			}
			reflect.ValueOf(receiver).MethodByName("Set" + title).Call([]reflect.Value{arg})
			return nil
		}
	} else if f, ok := rt.FieldByName(title); ok && f.IsExported() {
		fieldType := f.Type
		setter = func(receiver any, v value.Value) error {
			arg, err := ValueToGo(v, fieldType)
			if err != nil {
				return err
			}
			fv := reflect.ValueOf(receiver).Elem().FieldByIndex(f.Index)
			if !fv.CanSet() {
				return fmt.Errorf("field %s is not settable on %s", key, class)
			}
			fv.Set(arg)
			return nil
		}
	}

	if setter == nil {
		u.cachePut(ck, nil)
		return nil, TryFailed
	}
	u.cachePut(ck, setter)
	return setter, nil
}

// GetMethod resolves a method by name and best-fit argument types.
func (u *Uberspect) GetMethod(receiver any, name string, args []value.Value) (Invocation, error) {
	class := classNameOf(receiver)
	if !u.checkPermission(class, name, permissions.MemberMethodCall) {
		return nil, TryFailed
	}
	ck := cacheKey{op: opMethod, class: class, key: name, arity: len(args)}
	if inv, ok := u.cacheGet(ck); ok {
		if inv == nil {
			return nil, TryFailed
		}
		return inv.(Invocation), nil
	}

	title := strings.ToUpper(name[:1]) + name[1:]
	m := reflect.ValueOf(receiver).MethodByName(title)
	if !m.IsValid() || m.Type().NumIn() != len(args) {
		u.cachePut(ck, nil)
		return nil, TryFailed
	}
	mt := m.Type()
	inv := Invocation(func(callArgs []value.Value) (value.Value, error) {
		in := make([]reflect.Value, len(callArgs))
		for i, a := range callArgs {
			gv, err := ValueToGo(a, mt.In(i))
			if err != nil {
				return nil, err
			}
			in[i] = gv
		}
		return invokeReflect(m, in)
	})
	u.cachePut(ck, inv)
	return inv, nil
}

// GetConstructor resolves a constructor function registered under class
// name `className`, looked up from a host-supplied factory table (the
// interpreter's `new pkg.Class(args)` expression passes the factory its
// ClassLoader returned for className). className gates the call through the same
// permissions/sandbox policy as every other resolution, per spec.md
// Testable Property 10 ("denied for all paths: property, method,
// constructor").
func (u *Uberspect) GetConstructor(className string, factory func(args []value.Value) (any, error), args []value.Value) (Invocation, error) {
	if factory == nil {
		return nil, TryFailed
	}
	if !u.checkPermission(className, "new", permissions.MemberMethodCall) {
		return nil, TryFailed
	}
	return func(callArgs []value.Value) (value.Value, error) {
		obj, err := factory(callArgs)
		if err != nil {
			return nil, err
		}
		return value.HostObject{Ref: obj, Class: classNameOf(obj)}, nil
	}, nil
}

// operatorOverloadNames maps a JEXL operator token to the method name an
// overload on the arithmetic or an operand's class must use, per
// spec.md §4.2.
var operatorOverloadNames = map[string]string{
	"+": "Add", "-": "Sub", "*": "Mul", "/": "Div", "%": "Mod",
	"==": "Equals", "<": "LessThan",
}

// GetOperator resolves a user-defined operator overload.
func (u *Uberspect) GetOperator(opcode string, l, r any) (Invocation, error) {
	name, ok := operatorOverloadNames[opcode]
	if !ok {
		return nil, TryFailed
	}
	class := classNameOf(l)
	ck := cacheKey{op: opOperator, class: class, key: opcode, arity: 2}
	if inv, ok := u.cacheGet(ck); ok {
		if inv == nil {
			return nil, TryFailed
		}
		return inv.(Invocation), nil
	}

	m := reflect.ValueOf(l).MethodByName(name)
	if !m.IsValid() || m.Type().NumIn() != 1 {
		u.cachePut(ck, nil)
		return nil, TryFailed
	}
	mt := m.Type()
	inv := Invocation(func(args []value.Value) (value.Value, error) {
		arg, err := ValueToGo(args[1], mt.In(0))
		if err != nil {
			return nil, err
		}
		return invokeReflect(m, []reflect.Value{arg})
	})
	u.cachePut(ck, inv)
	return inv, nil
}

func invokeReflect(m reflect.Value, in []reflect.Value) (value.Value, error) {
	out := m.Call(in)
	if len(out) == 0 {
		return value.Var, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) && !last.IsNil() {
		return nil, last.Interface().(error)
	}
	if len(out) == 1 {
		if _, isErr := last.Interface().(error); isErr {
			return value.Var, nil
		}
		return GoToValue(out[0].Interface())
	}
	return GoToValue(out[0].Interface())
}

func (u *Uberspect) cacheGet(k cacheKey) (any, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.cache.Get(k)
	return v, ok
}

func (u *Uberspect) cachePut(k cacheKey, v any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cache.Add(k, v)
}

// InvalidateClass drops every cached resolution for one class, the
// spec.md §4.2 "whole-class" cache invalidation triggered on classloader
// change; in Go there is no classloader, so this is exposed for hosts that
// hot-swap a type's method set via a plugin reload.
func (u *Uberspect) InvalidateClass(class string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, k := range u.cache.Keys() {
		if k.class == class {
			u.cache.Remove(k)
		}
	}
}
