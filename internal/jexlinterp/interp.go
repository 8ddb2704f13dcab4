package jexlinterp

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jexl-go/jexl/internal/frame"
	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlcontext"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
	"github.com/jexl-go/jexl/internal/uberspect"
	"github.com/jexl-go/jexl/internal/value"
)

// DefaultMaxDepth is the call-depth ceiling used when New is given
// maxDepth<=0. Unlike the Options flags, `stackOverflow` is an engine/
// builder-level setting in spec.md (not a per-evaluation Options bit), so
// it is a constructor argument here rather than a jexlcontext.Options
// field, mirroring how a real JexlBuilder exposes it outside setFlags.
const DefaultMaxDepth = 2000

// Interpreter is the tree-walk evaluator over a jexlast.Program, holding
// the shared services every visit method consults: the host Context, the
// Uberspect dispatch engine, the active Options, and the Arithmetic table
// derived from them. Grounded on the teacher's evaluator.Evaluator, which
// plays the same "one struct, many visit methods" role for DWScript's AST.
type Interpreter struct {
	Ctx    jexlcontext.Context
	Uber   *uberspect.Uberspect
	Opts   *jexlcontext.Options
	Arith  value.Arithmetic
	Logger *slog.Logger

	// ClassLoader resolves a `new pkg.Class(args)` class name to a Go
	// constructor func, set by pkg/jexl.Engine.SetClassLoader (spec.md §6).
	// nil means `new` always fails with "no class loader configured".
	ClassLoader func(className string) (func(args []value.Value) (any, error), bool)

	maxDepth int
	depth    int

	cancelFlag   atomic.Bool
	namespaceObj map[string]any // namespace name -> resolved/instantiated object, once per evaluation
}

// New builds an Interpreter. opts, if nil, is taken from ctx's
// OptionsSource (if it implements one) or jexlcontext.NewDefaultOptions
// otherwise, per spec.md §4.4 "getEngineOptions". maxDepth<=0 uses
// DefaultMaxDepth. logger defaults to slog.Default() if nil.
func New(ctx jexlcontext.Context, uber *uberspect.Uberspect, opts *jexlcontext.Options, maxDepth int, logger *slog.Logger) *Interpreter {
	if opts == nil {
		if src, ok := ctx.(jexlcontext.OptionsSource); ok {
			opts = src.EngineOptions()
		} else {
			opts = jexlcontext.NewDefaultOptions()
		}
	}
	if !opts.SharedInstance {
		opts = opts.Clone()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{
		Ctx:  ctx,
		Uber: uber,
		Opts: opts,
		Arith: value.Arithmetic{
			StrictArithmetic: opts.StrictArithmetic,
			BooleanLogical:   opts.BooleanLogical,
			Math:             opts.MathContext,
			Collator:         localeCollator(opts.Locale),
		},
		Logger:       logger,
		maxDepth:     maxDepth,
		namespaceObj: map[string]any{},
	}
}

// localeCollator builds a collate.Collator for tag, or nil for an empty or
// unparseable tag, in which case string ordering falls back to byte-wise
// comparison. Grounded on the teacher's CompareText/CompareStr locale
// builtins (internal/interp/builtins/strings_compare.go).
func localeCollator(tag string) *collate.Collator {
	if tag == "" {
		return nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return nil
	}
	return collate.New(t)
}

// Run executes a parsed Program's pragma prologue then its statement body,
// returning the value of the last statement executed (or an explicit
// `return` value), per spec.md §6 Script.execute.
func (ip *Interpreter) Run(prog *jexlast.Program) (value.Value, error) {
	return ip.RunWithArgs(prog, nil)
}

// RunWithArgs is Run plus positional script arguments, bound into the
// top-level frame's slots 0..len(args)-1 before the prologue runs — the
// runtime counterpart of jexlparser.NewWithParams's parse-time slot
// reservation, so `pkg/jexl`'s `Script.execute(ctx, args...)` has
// somewhere to put its arguments (spec.md §6). Extra declared parameter
// slots beyond len(args) are left undeclared, reading as null until
// assigned, exactly like an ordinary unassigned local.
func (ip *Interpreter) RunWithArgs(prog *jexlast.Program, args []value.Value) (value.Value, error) {
	fr := frame.New(prog.FrameSize)
	for i, a := range args {
		if i >= prog.FrameSize {
			break
		}
		fr.Declare(i, "", false)
		if err := fr.Set(i, a); err != nil {
			return nil, err
		}
	}
	for _, pr := range prog.Pragmas {
		v, err := ip.eval(pr.Value, fr)
		if err != nil {
			return nil, err
		}
		if pp, ok := ip.Ctx.(jexlcontext.PragmaProcessor); ok {
			pp.ProcessPragma(pr.Key, v)
		} else if ip.Opts.Strict {
			return nil, ip.errAt(pr.Position, jexlerrors.KindAnnotation, "no pragma processor installed for %q", pr.Key)
		}
	}

	last := value.Value(value.Var)
	for _, stmt := range prog.Statements {
		if cancelled, err := ip.pollCancel(stmt.Pos()); err != nil {
			return nil, err
		} else if cancelled {
			return value.Var, nil
		}
		r, err := ip.execStmt(stmt, fr)
		if err != nil {
			return nil, err
		}
		switch r.kind {
		case ctrlReturn:
			return r.val, nil
		case ctrlBreak, ctrlContinue:
			return nil, ip.errAt(stmt.Pos(), jexlerrors.KindFeature, "%s outside of a loop", r.kind)
		}
		last = r.val
	}
	return last, nil
}

func (k ctrlKind) String() string {
	switch k {
	case ctrlBreak:
		return "break"
	case ctrlContinue:
		return "continue"
	default:
		return "statement"
	}
}

// pollCancel implements spec.md §4.5 "Cancellation": checked at every
// statement boundary, loop iteration, and before every method invocation.
// (cancelled, err) — err is non-nil only when `cancellable` is on and a
// cancel signal was observed, in which case execution must unwind entirely
// (raise Cancel); when `cancellable` is off a true `cancelled` with a nil
// err tells the caller to stop and yield null instead.
func (ip *Interpreter) pollCancel(pos jexllexer.Position) (cancelled bool, err error) {
	flagged := ip.cancelFlag.Load()
	if src, ok := ip.Ctx.(jexlcontext.CancellationSource); ok && src.Cancelled() {
		flagged = true
	}
	if !flagged {
		return false, nil
	}
	if ip.Opts.Cancellable {
		ip.Logger.Debug("jexl: cancellation observed", "line", pos.Line, "column", pos.Column)
		return true, ip.errAt(pos, jexlerrors.KindCancel, "evaluation cancelled")
	}
	return true, nil
}

// Cancel sets the interpreter's own cancel flag, the "internal cancel flag
// set by a cancel call" spec.md §4.5 names alongside the context's bit and
// a thread-interrupt signal (Go has no interrupt signal equivalent here;
// cooperative polling covers it).
func (ip *Interpreter) Cancel() { ip.cancelFlag.Store(true) }

func (ip *Interpreter) errAt(pos jexllexer.Position, kind jexlerrors.Kind, format string, args ...any) error {
	return jexlerrors.New(kind, jexlerrors.Locus{Pos: jexlerrors.Position{Line: pos.Line, Column: pos.Column}}, fmt.Sprintf(format, args...))
}
