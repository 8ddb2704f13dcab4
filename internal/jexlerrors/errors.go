// Package jexlerrors provides the structured error model for JEXL evaluation
// and parsing: locations, kinds, pretty-printed detail, and stack cleaning.
package jexlerrors

import (
	"fmt"
	"strings"
)

// Kind identifies the category of a JEXL error, matching the error-kind
// taxonomy from the language specification.
type Kind int

const (
	KindTokenization Kind = iota
	KindParsing
	KindAmbiguous
	KindAssignment
	KindFeature
	KindVariableUndefined
	KindVariableRedefined
	KindVariableNullValue
	KindProperty
	KindMethod
	KindOperator
	KindAnnotation
	KindStackOverflow
	KindNullOperand
	KindCancel
)

// String returns the camelCase error kind name used in formatted messages.
func (k Kind) String() string {
	switch k {
	case KindTokenization:
		return "tokenization"
	case KindParsing:
		return "parsing"
	case KindAmbiguous:
		return "ambiguous"
	case KindAssignment:
		return "assignment"
	case KindFeature:
		return "feature"
	case KindVariableUndefined, KindVariableRedefined, KindVariableNullValue:
		return "variable"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindOperator:
		return "operator"
	case KindAnnotation:
		return "annotation"
	case KindStackOverflow:
		return "stackOverflow"
	case KindNullOperand:
		return "nullOperand"
	case KindCancel:
		return "cancel"
	default:
		return "error"
	}
}

// Position is a 1-based line/column pair, optionally spanning to an end.
type Position struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Locus is the `(name?, line, column)` error locus from the specification.
type Locus struct {
	Name string
	Pos  Position
}

// Error is a structured JEXL evaluation or parse error. It carries a Kind,
// a Locus, a human detail string, an optional pretty-printed offending
// fragment ("Detail" in the spec), and a cleaned call stack.
type Error struct {
	Kind    Kind
	Locus   Locus
	Detail  string
	Snippet string // method signature or pretty-printed fragment, if any
	Stack   StackTrace
	Cause   error
}

// Error implements the error interface, rendering `name@line:column detail`
// as specified in §6.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Locus.Name != "" {
		fmt.Fprintf(&sb, "%s@%d:%d ", e.Locus.Name, e.Locus.Pos.Line, e.Locus.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "@%d:%d ", e.Locus.Pos.Line, e.Locus.Pos.Column)
	}
	sb.WriteString(e.Detail)
	if e.Snippet != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Snippet)
	}
	return sb.String()
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// New builds a new Error of the given kind at the given locus.
func New(kind Kind, locus Locus, detail string) *Error {
	return &Error{Kind: kind, Locus: locus, Detail: detail}
}

// WithSnippet attaches a pretty-printed detail fragment, e.g. a method
// signature `name(T1, T2, ...)` for Method errors.
func (e *Error) WithSnippet(s string) *Error {
	e.Snippet = s
	return e
}

// WithStack attaches a cleaned call stack.
func (e *Error) WithStack(st StackTrace) *Error {
	e.Stack = st
	return e
}

// WithCause wraps an underlying cause, used for TryFailed unwrapping of a
// host invocation panic/error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// sourceSliceWidth is the window width for the "near '...'" rendering.
const sourceSliceWidth = 42

// RenderSourceSlice implements the §4.6 source-slice rendering rule: lines
// of 42 characters or fewer are rendered whole; longer lines are rendered
// as a 42-char window centered on the reported column.
func RenderSourceSlice(line string, column int) string {
	if len([]rune(line)) <= sourceSliceWidth {
		return fmt.Sprintf("in '%s'", line)
	}
	runes := []rune(line)
	half := sourceSliceWidth / 2
	start := column - half
	if start < 0 {
		start = 0
	}
	end := start + sourceSliceWidth
	if end > len(runes) {
		end = len(runes)
		start = end - sourceSliceWidth
		if start < 0 {
			start = 0
		}
	}
	return fmt.Sprintf("near '... %s ...'", string(runes[start:end]))
}
