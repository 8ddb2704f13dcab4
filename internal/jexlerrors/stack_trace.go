package jexlerrors

import (
	"fmt"
	"strings"
)

// StackFrame is a single frame of a JEXL call stack: the callable being
// executed and its source location, grounded on the teacher's
// internal/errors.StackFrame.
type StackFrame struct {
	Name string
	Pos  Position
}

// String renders a frame as "name [line: N, column: M]".
func (f StackFrame) String() string {
	return fmt.Sprintf("%s [line: %d, column: %d]", f.Name, f.Pos.Line, f.Pos.Column)
}

// StackTrace is a call stack ordered oldest (bottom) to newest (top).
type StackTrace []StackFrame

// String renders the stack newest-first, one frame per line.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// internalPackages lists the logical "package" names whose frames are
// stripped by Clean: the parser and interpreter's own plumbing, leaving
// only host-callable frames (spec.md §4.6 "stack cleaning").
var internalPackages = map[string]bool{
	"<parser>":    true,
	"<lexer>":     true,
	"<interp>":    true,
	"<uberspect>": true,
}

// Clean removes frames whose Name marks them as internal parser/interpreter
// plumbing rather than a host-visible callable.
func Clean(st StackTrace) StackTrace {
	out := make(StackTrace, 0, len(st))
	for _, f := range st {
		if internalPackages[f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}
