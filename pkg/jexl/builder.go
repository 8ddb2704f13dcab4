// Package jexl is the public embedding surface: Engine, Builder, Script,
// and Expression, matching spec.md §6's language-agnostic API one-to-one.
// Grounded on the teacher's own facade split (a thin pkg/ package wrapping
// internal/ implementation) and its cmd/dwscript/cmd flag-driven
// evaluator.Config construction, generalized from flags to a fluent
// Builder since JEXL's Engine is created programmatically far more often
// than from a CLI.
package jexl

import (
	"log/slog"

	"github.com/jexl-go/jexl/internal/exprcache"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlparser"
	"github.com/jexl-go/jexl/internal/permissions"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

// Builder accumulates Options/Features/Permissions/Sandbox settings and
// produces an Engine with Create(), per spec.md §6 "Builder with
// chainable setters for every Options/Features/Permissions/Sandbox field
// and a terminal create() → Engine".
type Builder struct {
	opts           *jexlcontext.Options
	features       jexlparser.Features
	perms          *permissions.Permissions
	sandbox        *permissions.Sandbox
	strategy       uberspect.Strategy
	maxDepth       int
	cacheSize      int
	cacheThreshold int
	uberCacheSize  int
	charset        string
	logger         *slog.Logger
	classLoader    func(className string) (func(args []value.Value) (any, error), bool)
}

// NewBuilder returns a Builder seeded with spec.md's default Options mask
// and every Feature enabled, matching jexlcontext.NewDefaultOptions and
// jexlparser.NewFeatures.
func NewBuilder() *Builder {
	return &Builder{
		opts:     jexlcontext.NewDefaultOptions(),
		features: jexlparser.NewFeatures(),
		perms:    permissions.Unrestricted(),
	}
}

func (b *Builder) WithCancellable(v bool) *Builder         { b.opts.Cancellable = v; return b }
func (b *Builder) WithStrict(v bool) *Builder              { b.opts.Strict = v; return b }
func (b *Builder) WithSilent(v bool) *Builder              { b.opts.Silent = v; return b }
func (b *Builder) WithSafe(v bool) *Builder                { b.opts.Safe = v; return b }
func (b *Builder) WithLexical(v bool) *Builder             { b.opts.Lexical = v; return b }
func (b *Builder) WithAntish(v bool) *Builder              { b.opts.Antish = v; return b }
func (b *Builder) WithLexicalShade(v bool) *Builder        { b.opts.LexicalShade = v; return b }
func (b *Builder) WithSharedInstance(v bool) *Builder      { b.opts.SharedInstance = v; return b }
func (b *Builder) WithConstCapture(v bool) *Builder        { b.opts.ConstCapture = v; return b }
func (b *Builder) WithStrictInterpolation(v bool) *Builder { b.opts.StrictInterpolation = v; return b }
func (b *Builder) WithBooleanLogical(v bool) *Builder      { b.opts.BooleanLogical = v; return b }
func (b *Builder) WithStrictArithmetic(v bool) *Builder    { b.opts.StrictArithmetic = v; return b }
func (b *Builder) WithMathContext(mc value.MathContext) *Builder {
	b.opts.MathContext = mc
	return b
}
func (b *Builder) WithMathScale(scale int32) *Builder { b.opts.MathScale = scale; return b }
func (b *Builder) WithLocale(tag string) *Builder     { b.opts.Locale = tag; return b }

// WithFlags applies spec.md §6's `setFlags` string syntax: whitespace
// separated tokens, each optionally `+`/`-` prefixed. Errors for unknown
// tokens are collected and returned, not raised, matching
// Options.ApplyFlags's own non-fatal-per-token behavior.
func (b *Builder) WithFlags(flags string) ([]error, *Builder) {
	return b.opts.ApplyFlags(flags), b
}

func (b *Builder) WithNamespace(name string, ns any) *Builder {
	b.opts.Namespaces[name] = ns
	return b
}

func (b *Builder) WithImports(pkgs ...string) *Builder {
	b.opts.Imports = append(b.opts.Imports, pkgs...)
	return b
}

func (b *Builder) WithFeatureMask(mask jexlparser.Feature) *Builder {
	b.features.Mask = mask
	return b
}

func (b *Builder) WithFeatures(f jexlparser.Features) *Builder {
	b.features = f
	return b
}

func (b *Builder) WithReserved(names ...string) *Builder {
	b.features = b.features.WithReserved(names...)
	return b
}

func (b *Builder) WithPermissions(p *permissions.Permissions) *Builder {
	b.perms = p
	return b
}

func (b *Builder) WithRestrictedPermissions() *Builder {
	b.perms = permissions.Restricted()
	return b
}

func (b *Builder) WithUnrestrictedPermissions() *Builder {
	b.perms = permissions.Unrestricted()
	return b
}

// WithPermissionLines parses spec.md §6's `JexlPermissions.parse` grammar
// directly (`package.*` allow-lines, `package.Class { member; ... }`
// deny-lines).
func (b *Builder) WithPermissionLines(lines ...string) (*Builder, error) {
	p, err := permissions.Parse(lines...)
	if err != nil {
		return b, err
	}
	b.perms = p
	return b, nil
}

func (b *Builder) WithSandbox(s *permissions.Sandbox) *Builder {
	b.sandbox = s
	return b
}

func (b *Builder) WithStrategy(s uberspect.Strategy) *Builder {
	b.strategy = s
	return b
}

// WithMaxDepth sets the `stackOverflow` call-depth ceiling (an
// engine/builder-level setting, not an Options bit — see
// internal/jexlinterp.DefaultMaxDepth's doc comment).
func (b *Builder) WithMaxDepth(n int) *Builder {
	b.maxDepth = n
	return b
}

// WithCacheSize sets the createExpression AST cache's entry capacity
// (spec.md §4.7); 0 or negative disables the cache entirely.
func (b *Builder) WithCacheSize(n int) *Builder {
	b.cacheSize = n
	return b
}

// WithCacheThreshold sets the byte-length above which a source string
// bypasses the expression cache (default exprcache.DefaultThreshold).
func (b *Builder) WithCacheThreshold(n int) *Builder {
	b.cacheThreshold = n
	return b
}

func (b *Builder) WithUberspectCacheSize(n int) *Builder {
	b.uberCacheSize = n
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithCharset sets the IANA charset name source text is decoded from
// before lexing (spec.md §6 Engine.setCharset); empty or "UTF-8" is a
// no-op.
func (b *Builder) WithCharset(name string) *Builder {
	b.charset = name
	return b
}

// WithClassLoader installs the resolver `new pkg.Class(args)` expressions
// use (spec.md §6 Engine.setClassLoader): given a class name, it returns
// a constructor func plus whether the class is known.
func (b *Builder) WithClassLoader(loader func(className string) (func(args []value.Value) (any, error), bool)) *Builder {
	b.classLoader = loader
	return b
}

// Create builds the Engine. Returns an error only if a charset name was
// set and is not a recognized IANA encoding.
func (b *Builder) Create() (*Engine, error) {
	dec, err := resolveCharset(b.charset)
	if err != nil {
		return nil, err
	}
	uber := uberspect.New(b.perms, b.sandbox, b.uberCacheSize)
	uber.Strategy = b.strategy
	return &Engine{
		opts:        b.opts,
		features:    b.features,
		uber:        uber,
		cache:       exprcache.New(b.cacheSize, b.cacheThreshold),
		maxDepth:    b.maxDepth,
		logger:      b.logger,
		charsetName: b.charset,
		decoder:     dec,
		classLoader: b.classLoader,
	}, nil
}
