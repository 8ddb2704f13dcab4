package jexlcontext

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

// MapContext is a plain in-memory Context backed by a mutex-guarded map,
// generalized from the teacher's internal/interp/runtime/environment.go
// (a chained name->value store) with the chaining dropped: JEXL's Frame
// already owns lexical chaining, so a script-level Context only needs a
// single flat namespace plus the optional collaborator hooks.
type MapContext struct {
	mu        sync.RWMutex
	vars      map[string]value.Value
	namespaces map[string]any
	cancelled atomic.Bool
	opts      *Options
	annot     AnnotationProcessor
	pragma    PragmaProcessor
}

// NewMapContext builds an empty MapContext using opts (or a fresh
// default Options if opts is nil).
func NewMapContext(opts *Options) *MapContext {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &MapContext{vars: map[string]value.Value{}, namespaces: map[string]any{}, opts: opts}
}

func (c *MapContext) Get(name string) (value.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[name]
	return v, ok
}

func (c *MapContext) Set(name string, v value.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = v
	return nil
}

func (c *MapContext) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.vars[name]
	return ok
}

// SetHost converts a Go value through uberspect.GoToValue and stores it,
// the usual entry point for wiring host application data into a script.
func (c *MapContext) SetHost(name string, goVal any) error {
	v, err := uberspect.GoToValue(goVal)
	if err != nil {
		return err
	}
	return c.Set(name, v)
}

// SetNamespace registers a host object or NamespaceFunctor under name
// for `name:member(...)` namespace calls.
func (c *MapContext) SetNamespace(name string, ns any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.namespaces[name] = ns
}

func (c *MapContext) ResolveNamespace(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ns, ok := c.namespaces[name]
	return ns, ok
}

func (c *MapContext) EngineOptions() *Options { return c.opts }

func (c *MapContext) Cancelled() bool { return c.cancelled.Load() }

// Cancel sets the cancellation bit polled by the interpreter.
func (c *MapContext) Cancel() { c.cancelled.Store(true) }

// SetAnnotationProcessor installs the optional AnnotationProcessor hook.
func (c *MapContext) SetAnnotationProcessor(p AnnotationProcessor) { c.annot = p }

func (c *MapContext) ProcessAnnotation(name string, args []value.Value, thunk func() (value.Value, error)) (value.Value, error) {
	if c.annot == nil {
		if c.opts != nil && !c.opts.Strict {
			return thunk()
		}
		return nil, fmt.Errorf("no annotation processor registered for @%s", name)
	}
	return c.annot.ProcessAnnotation(name, args, thunk)
}

// SetPragmaProcessor installs the optional PragmaProcessor hook.
func (c *MapContext) SetPragmaProcessor(p PragmaProcessor) { c.pragma = p }

func (c *MapContext) ProcessPragma(key string, v value.Value) {
	if c.pragma != nil {
		c.pragma.ProcessPragma(key, v)
	}
}

var (
	_ Context             = (*MapContext)(nil)
	_ NamespaceResolver   = (*MapContext)(nil)
	_ OptionsSource       = (*MapContext)(nil)
	_ CancellationSource  = (*MapContext)(nil)
	_ AnnotationProcessor = (*MapContext)(nil)
	_ PragmaProcessor     = (*MapContext)(nil)
)
