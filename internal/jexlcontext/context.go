package jexlcontext

import "github.com/jexl-go/jexl/internal/value"

// AnnotationProcessor executes an annotated statement body, invoking
// thunk exactly once (spec.md §4.4 "the processor MUST invoke the thunk
// exactly once").
type AnnotationProcessor interface {
	ProcessAnnotation(name string, args []value.Value, thunk func() (value.Value, error)) (value.Value, error)
}

// PragmaProcessor handles a `#pragma key value;` prologue entry before
// interpretation begins.
type PragmaProcessor interface {
	ProcessPragma(key string, val value.Value)
}

// NamespaceResolver resolves a bare namespace name (the `ns` half of
// `ns:method(...)`) to a host object or a NamespaceFunctor.
type NamespaceResolver interface {
	ResolveNamespace(name string) (any, bool)
}

// NamespaceFunctor is a namespace that must be instantiated once per
// script evaluation rather than used as a bare host object (spec.md §4.5
// "Namespace instance lifecycle").
type NamespaceFunctor interface {
	CreateFunctor(ctx Context) (any, error)
}

// Context is everything the interpreter requires from the host
// (spec.md §4.4). Only Get/Set/Has are mandatory; the rest are detected
// via the optional interfaces in this file (NamespaceResolver,
// AnnotationProcessor, PragmaProcessor, CancellationSource,
// OptionsSource, ThreadLocalContext) using a type assertion, matching
// the "Optional" phrasing in the specification.
type Context interface {
	Get(name string) (value.Value, bool)
	Set(name string, v value.Value) error
	Has(name string) bool
}

// OptionsSource is implemented by a Context that wants to hand the
// interpreter a non-default Options at evaluation start.
type OptionsSource interface {
	EngineOptions() *Options
}

// CancellationSource is implemented by a Context that exposes a
// cooperative cancellation flag, polled at the safe points spec.md §4.5
// names (statement boundaries, loop iterations, before method calls).
type CancellationSource interface {
	Cancelled() bool
}

// ThreadLocalContext marks a Context that should be published to
// thread-local storage for the duration of an evaluation (spec.md §4.4).
// Go has no thread-local storage, and the engine stores the context
// nowhere: pkg/jexl's Expression.Evaluate and Script.Execute only call
// Publish before evaluating and Unpublish after, so a host Context can
// observe the publish lifecycle.
type ThreadLocalContext interface {
	Publish()
	Unpublish()
}
