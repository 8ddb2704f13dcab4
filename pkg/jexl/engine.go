package jexl

import (
	"log/slog"
	"sync"

	"golang.org/x/text/encoding"

	"github.com/jexl-go/jexl/internal/exprcache"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlinterp"
	"github.com/jexl-go/jexl/internal/jexlparser"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

// Engine is the long-lived, concurrency-safe entry point for parsing and
// evaluating JEXL source, built via Builder.Create() (spec.md §6). One
// Engine's Uberspect cache and expression cache are meant to be shared
// across every Script/Expression it creates and every goroutine that
// evaluates them (spec.md §5).
type Engine struct {
	opts     *jexlcontext.Options
	features jexlparser.Features
	uber     *uberspect.Uberspect
	cache    *exprcache.Cache
	maxDepth int
	logger   *slog.Logger

	charsetName string
	decoder     encoding.Encoding

	mu          sync.Mutex
	classLoader func(className string) (func(args []value.Value) (any, error), bool)
	threadCtx   any
}

// CreateExpression compiles source as a single expression, reusing a
// cached AST for repeated identical source when the Builder set a positive
// cache size; the Builder's default size of 0 leaves the cache disabled
// (spec.md §6 createExpression, §8 Testable Property 2 "cache determinism").
func (e *Engine) CreateExpression(source string) (*Expression, error) {
	prog, errs := e.cache.Parse(source, e.features, e.opts.ConstCapture)
	if len(errs) > 0 {
		return nil, &ParseError{Errors: errs}
	}
	return &Expression{engine: e, prog: prog, source: source}, nil
}

// CreateScript compiles source as a script, optionally naming positional
// parameters pre-declared as top-level frame slots (spec.md §6
// createScript(source[, params...])). Scripts are not cached: distinct
// param lists over identical source text would otherwise collide on the
// expression cache's (source, Features, constCapture) key.
func (e *Engine) CreateScript(source string, params ...string) (*Script, error) {
	p := jexlparser.NewWithParams(source, e.features, e.opts.ConstCapture, params)
	prog := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &ParseError{Errors: errs}
	}
	return &Script{engine: e, prog: prog, source: source}, nil
}

// Parse exposes the low-level `parse(source, features) → AST` operation
// (spec.md §6), bypassing the expression cache and this Engine's own
// Features setting entirely — callers use this when they need an AST
// under a Features value other than the one the Engine was built with.
func (e *Engine) Parse(source string, features jexlparser.Features) (*jexlast.Program, []error) {
	p := jexlparser.New(source, features, e.opts.ConstCapture)
	prog := p.Parse()
	return prog, p.Errors()
}

// GetVariables statically walks prog for every free variable reference
// (spec.md §6 getVariables(AST), algorithm defined in SPEC_FULL.md §4.5).
func (e *Engine) GetVariables(prog *jexlast.Program) []string {
	return jexlinterp.GetVariables(prog)
}

// SetClassLoader installs the resolver used by every `new pkg.Class(args)`
// expression evaluated through this Engine from now on (spec.md §6).
func (e *Engine) SetClassLoader(loader func(className string) (func(args []value.Value) (any, error), bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classLoader = loader
}

// SetCharset changes the IANA charset raw script bytes are decoded from
// before lexing (spec.md §6 Engine.setCharset). Affects only
// CreateExpressionBytes/CreateScriptBytes; string-based Create* calls are
// assumed already-decoded UTF-8.
func (e *Engine) SetCharset(name string) error {
	dec, err := resolveCharset(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.charsetName, e.decoder = name, dec
	return nil
}

// CreateExpressionBytes decodes raw through this Engine's current charset
// before compiling it as an expression.
func (e *Engine) CreateExpressionBytes(raw []byte) (*Expression, error) {
	e.mu.Lock()
	dec := e.decoder
	e.mu.Unlock()
	src, err := decodeSource(dec, raw)
	if err != nil {
		return nil, err
	}
	return e.CreateExpression(src)
}

// CreateScriptBytes is CreateScript plus charset decoding, mirroring
// CreateExpressionBytes.
func (e *Engine) CreateScriptBytes(raw []byte, params ...string) (*Script, error) {
	e.mu.Lock()
	dec := e.decoder
	e.mu.Unlock()
	src, err := decodeSource(dec, raw)
	if err != nil {
		return nil, err
	}
	return e.CreateScript(src, params...)
}

// SetThreadContext / GetThreadContext implement spec.md §6's per-Engine
// thread-context slot. Go has no goroutine-local storage to publish into
// the way the specification's host language does; this Engine instead
// exposes a single mutex-guarded slot, documented in DESIGN.md as a
// deliberate simplification — callers that need per-goroutine values
// should keep their own goroutine-scoped Context instead of relying on
// this slot across concurrent evaluations.
func (e *Engine) SetThreadContext(v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.threadCtx = v
}

func (e *Engine) GetThreadContext() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.threadCtx
}

func (e *Engine) interpreter(ctx jexlcontext.Context) *jexlinterp.Interpreter {
	e.mu.Lock()
	loader := e.classLoader
	e.mu.Unlock()
	ip := jexlinterp.New(ctx, e.uber, e.opts, e.maxDepth, e.logger)
	ip.ClassLoader = loader
	return ip
}

// ParseError wraps the accumulated parse-time errors from a failed
// CreateExpression/CreateScript/Parse call (spec.md §7 "parse-time errors
// always throw").
type ParseError struct {
	Errors []error
}

func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return "jexl: parse error"
	}
	return e.Errors[0].Error()
}

func (e *ParseError) Unwrap() []error { return e.Errors }
