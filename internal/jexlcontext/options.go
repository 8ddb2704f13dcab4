// Package jexlcontext is the bridge between the interpreter and the
// host application: variable storage, namespace resolution, annotation
// and pragma processing, and the Options/Permissions/Sandbox handles the
// interpreter reads once per evaluation (spec.md §4.4).
package jexlcontext

import (
	"strings"

	"github.com/jexl-go/jexl/internal/value"
)

// Options are the runtime-overridable evaluation flags from spec.md §3.
// The zero value is NOT the default; use NewDefaultOptions.
type Options struct {
	Cancellable         bool
	Strict              bool
	Silent              bool
	Safe                bool
	Lexical             bool
	Antish              bool
	LexicalShade         bool
	SharedInstance       bool
	ConstCapture         bool
	StrictInterpolation  bool
	BooleanLogical       bool
	StrictArithmetic     bool

	MathContext value.MathContext
	MathScale   int32

	Namespaces map[string]any       // name -> host namespace object or NamespaceFunctor
	Imports    []string             // ordered set of package prefixes

	// Locale is a BCP 47 tag (e.g. "de", "tr-TR"); empty means byte-wise
	// string comparison. Not one of spec.md §6's setFlags tokens (it takes
	// a value, not a bit), so it is set directly rather than via
	// ApplyFlags, same as MathContext/MathScale.
	Locale string
}

// NewDefaultOptions returns spec.md's default mask: `cancellable | strict
// | antish | safe`, plus the value package's default MathContext.
func NewDefaultOptions() *Options {
	return &Options{
		Cancellable: true,
		Strict:      true,
		Antish:      true,
		Safe:        true,
		MathContext: value.DefaultMathContext,
		MathScale:   value.DefaultMathContext.Scale,
		Namespaces:  map[string]any{},
	}
}

// flagNames is the recognized token set for the `setFlags` string syntax
// (spec.md §6 "Options flag syntax").
var flagNames = map[string]func(*Options, bool){
	"cancellable":         func(o *Options, v bool) { o.Cancellable = v },
	"strict":              func(o *Options, v bool) { o.Strict = v },
	"silent":              func(o *Options, v bool) { o.Silent = v },
	"safe":                func(o *Options, v bool) { o.Safe = v },
	"lexical":             func(o *Options, v bool) { o.Lexical = v },
	"antish":              func(o *Options, v bool) { o.Antish = v },
	"lexicalShade":        func(o *Options, v bool) { o.LexicalShade = v },
	"sharedInstance":      func(o *Options, v bool) { o.SharedInstance = v },
	"constCapture":        func(o *Options, v bool) { o.ConstCapture = v },
	"strictInterpolation": func(o *Options, v bool) { o.StrictInterpolation = v },
	"booleanLogical":      func(o *Options, v bool) { o.BooleanLogical = v },
}

// ApplyFlags parses the `setFlags` string syntax: a whitespace-separated
// list of tokens, each optionally prefixed `+` (set, default) or `-`
// (unset). Unknown tokens are reported but do not stop processing of the
// remaining tokens.
func (o *Options) ApplyFlags(flags string) []error {
	var errs []error
	for _, tok := range strings.Fields(flags) {
		name, set := tok, true
		switch {
		case strings.HasPrefix(tok, "+"):
			name, set = tok[1:], true
		case strings.HasPrefix(tok, "-"):
			name, set = tok[1:], false
		}
		fn, ok := flagNames[name]
		if !ok {
			errs = append(errs, &UnknownFlagError{Flag: name})
			continue
		}
		fn(o, set)
	}
	return errs
}

// UnknownFlagError reports an unrecognized `setFlags` token.
type UnknownFlagError struct{ Flag string }

func (e *UnknownFlagError) Error() string { return "unknown option flag: " + e.Flag }

// Clone returns a copy with its own Namespaces map and Imports slice (the
// namespace objects themselves are shared), used by the interpreter to take a private
// snapshot of options at evaluation start unless SharedInstance is set
// (spec.md §4.4 "getEngineOptions ... the interpreter uses a private copy
// unless sharedInstance is set").
func (o *Options) Clone() *Options {
	cp := *o
	cp.Namespaces = make(map[string]any, len(o.Namespaces))
	for k, v := range o.Namespaces {
		cp.Namespaces[k] = v
	}
	cp.Imports = append([]string(nil), o.Imports...)
	return &cp
}
