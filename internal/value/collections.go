package value

import (
	"fmt"
	"strings"
)

// List is an ordered sequence value.
type List struct{ Items []Value }

func (l *List) Kind() Kind   { return KindList }
func (l *List) Truthy() bool { return len(l.Items) != 0 }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Equals(o Value) (bool, error) {
	ol, ok := o.(*List)
	if !ok || len(l.Items) != len(ol.Items) {
		return false, nil
	}
	for i := range l.Items {
		eq, err := l.Items[i].Equals(ol.Items[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (l *List) CompareTo(o Value) (int, error) {
	return 0, fmt.Errorf("list is not orderable")
}

// mapEntry preserves insertion order for Map, since Go maps are unordered
// and spec.md §3 requires an insertion-ordered mapping.
type mapEntry struct {
	Key Value
	Val Value
}

// Map is an insertion-ordered mapping keyed by arbitrary Values, keyed
// internally by their String() form since JEXL keys are usually identifiers
// or strings; lookups compare that string form, so keys with equal
// String() (such as 1 and "1") address the same entry.
type Map struct {
	entries []mapEntry
	index   map[string]int
}

// NewMap builds an empty ordered map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

func (m *Map) Kind() Kind   { return KindMap }
func (m *Map) Truthy() bool { return len(m.entries) != 0 }

func (m *Map) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key.String(), e.Val.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m *Map) Equals(o Value) (bool, error) {
	om, ok := o.(*Map)
	if !ok || len(m.entries) != len(om.entries) {
		return false, nil
	}
	for _, e := range m.entries {
		ov, ok := om.Get(e.Key)
		if !ok {
			return false, nil
		}
		eq, err := e.Val.Equals(ov)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (m *Map) CompareTo(o Value) (int, error) {
	return 0, fmt.Errorf("map is not orderable")
}

// Get looks up a value by the key's String() form.
func (m *Map) Get(key Value) (Value, bool) {
	i, ok := m.index[key.String()]
	if !ok {
		return nil, false
	}
	return m.entries[i].Val, true
}

// Set inserts or overwrites a key, preserving first-insertion order.
func (m *Map) Set(key, val Value) {
	k := key.String()
	if i, ok := m.index[k]; ok {
		m.entries[i].Val = val
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, mapEntry{Key: key, Val: val})
}

// Keys returns keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Key
	}
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// SetVal is a collection of distinct Values kept in insertion order, used by `in`/`=~`
// matching (spec.md §4.1).
type SetVal struct {
	items []Value
}

// NewSet builds an empty set.
func NewSet() *SetVal { return &SetVal{} }

func (s *SetVal) Kind() Kind   { return KindSet }
func (s *SetVal) Truthy() bool { return len(s.items) != 0 }

func (s *SetVal) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = it.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *SetVal) Equals(o Value) (bool, error) {
	os, ok := o.(*SetVal)
	if !ok || len(s.items) != len(os.items) {
		return false, nil
	}
	for _, it := range s.items {
		if !os.Contains(it) {
			return false, nil
		}
	}
	return true, nil
}

func (s *SetVal) CompareTo(o Value) (int, error) {
	return 0, fmt.Errorf("set is not orderable")
}

// Contains reports set membership by value equality.
func (s *SetVal) Contains(v Value) bool {
	for _, it := range s.items {
		if eq, err := it.Equals(v); err == nil && eq {
			return true
		}
	}
	return false
}

// Add inserts v if not already present.
func (s *SetVal) Add(v Value) {
	if !s.Contains(v) {
		s.items = append(s.items, v)
	}
}

// Items returns the set's elements in insertion order.
func (s *SetVal) Items() []Value { return s.items }

// Range is a lazy, finite, restartable inclusive integer sequence
// (spec.md §3 "range").
type Range struct {
	Lo, Hi int64
}

func (r Range) Kind() Kind   { return KindRange }
func (r Range) Truthy() bool { return r.Lo <= r.Hi }
func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Lo, r.Hi)
}

func (r Range) Equals(o Value) (bool, error) {
	or, ok := o.(Range)
	if !ok {
		return false, nil
	}
	return r.Lo == or.Lo && r.Hi == or.Hi, nil
}

func (r Range) CompareTo(o Value) (int, error) {
	return 0, fmt.Errorf("range is not orderable")
}

// Iterator returns a fresh, restarted iterator function yielding each
// integer in [Lo, Hi] and then (0, false).
func (r Range) Iterator() func() (int64, bool) {
	cur := r.Lo
	return func() (int64, bool) {
		if cur > r.Hi {
			return 0, false
		}
		v := cur
		cur++
		return v, true
	}
}

// Contains reports whether n falls within the range, used by `=~`.
func (r Range) Contains(n int64) bool { return n >= r.Lo && n <= r.Hi }

// HostObject is an opaque reference to a host-language object plus its
// class identity; only internal/uberspect inspects Ref and Class.
type HostObject struct {
	Ref   any
	Class string
}

func (h HostObject) Kind() Kind     { return KindHostObject }
func (h HostObject) Truthy() bool   { return h.Ref != nil }
func (h HostObject) String() string { return fmt.Sprintf("%s@%p", h.Class, h.Ref) }

func (h HostObject) Equals(o Value) (bool, error) {
	oh, ok := o.(HostObject)
	if !ok {
		return false, nil
	}
	return h.Ref == oh.Ref, nil
}

func (h HostObject) CompareTo(o Value) (int, error) {
	return 0, fmt.Errorf("host object %s is not orderable without a delegated comparator", h.Class)
}

// CallableKind distinguishes a script-lambda from a bundled host method,
// both represented uniformly as Callable.
type CallableKind int

const (
	CallableLambda CallableKind = iota
	CallableHostMethod
)

// Callable is a first-class function value: either a script-defined lambda
// closure or a bundle referring to a resolved host method invocation.
type Callable struct {
	CKind CallableKind
	Name  string
	Arity int
	// Invoke is supplied by internal/jexlinterp (for lambdas) or
	// internal/uberspect (for bundled host methods); kept as an opaque
	// function here so this package has no dependency on either.
	Invoke func(args []Value) (Value, error)
}

func (c Callable) Kind() Kind     { return KindCallable }
func (c Callable) Truthy() bool   { return true }
func (c Callable) String() string { return fmt.Sprintf("<function %s/%d>", c.Name, c.Arity) }

func (c Callable) Equals(o Value) (bool, error) {
	oc, ok := o.(Callable)
	if !ok {
		return false, nil
	}
	return c.Name == oc.Name && c.Arity == oc.Arity, nil
}

func (c Callable) CompareTo(o Value) (int, error) {
	return 0, fmt.Errorf("callable is not orderable")
}
