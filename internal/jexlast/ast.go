// Package jexlast defines the JEXL Abstract Syntax Tree node shapes. Per
// spec.md §3's "AST node" contract, every node carries a kind (its Go
// type), a source location, children, an optional literal payload, and an
// optional symbol index for identifiers a Frame-aware resolver bound at
// parse time. Grounded on the teacher's internal/ast.Node/Expression/
// Statement split (internal/ast/ast.go).
package jexlast

import (
	"strconv"
	"strings"

	"github.com/jexl-go/jexl/internal/jexllexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	Pos() jexllexer.Position
	String() string
}

// Expression is any node that produces a Value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that is executed for effect.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: a prologue of pragmas followed by a body of
// statements (spec.md SPEC_FULL.md §3 pragma prologue grammar).
type Program struct {
	Pragmas    []*Pragma
	Statements []Statement
	FrameSize  int // total top-level slots: params (from NewWithParams) + locals

	// Params is the prefix of Locals pre-declared by jexlparser.NewWithParams
	// before any source was parsed (Script.getParameters(), SPEC_FULL.md §3).
	Params []string
	// Locals is every name declared directly in the top-level scope, in
	// declaration order, params included (Script.getLocalVariables()).
	Locals []string
}

func (p *Program) Pos() jexllexer.Position { return jexllexer.Position{Line: 1, Column: 1} }
func (p *Program) String() string {
	var sb strings.Builder
	for _, pr := range p.Pragmas {
		sb.WriteString(pr.String())
		sb.WriteString("\n")
	}
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Pragma is a top-of-script directive: `#pragma key value;`.
type Pragma struct {
	Position jexllexer.Position
	Key      string
	Value    Expression
}

func (p *Pragma) Pos() jexllexer.Position { return p.Position }
func (p *Pragma) String() string          { return "#pragma " + p.Key + " " + p.Value.String() + ";" }

// ---- Identifiers & literals ----

// Ident is a bare identifier. SlotIndex is >=0 once a frame-aware resolver
// has bound it to a local symbol; -1 means "free name, resolve against the
// context" (spec.md §3 AST node invariant).
type Ident struct {
	Position  jexllexer.Position
	Name      string
	SlotIndex int
}

func (i *Ident) Pos() jexllexer.Position { return i.Position }
func (i *Ident) String() string          { return i.Name }
func (i *Ident) expressionNode()         {}

// AntishIdent is a dotted reference `a.b.c` whose root `a` is not a known
// local symbol at parse time; it carries the full dotted string and the
// per-segment split so the interpreter can walk prefixes longest-to-
// shortest without re-splitting the string at runtime (spec.md §4.5, §9).
type AntishIdent struct {
	Position jexllexer.Position
	Parts    []string // e.g. ["a", "b", "c"]
}

func (a *AntishIdent) Pos() jexllexer.Position { return a.Position }
func (a *AntishIdent) String() string          { return strings.Join(a.Parts, ".") }
func (a *AntishIdent) expressionNode()         {}

// IntLiteral is an integer literal.
type IntLiteral struct {
	Position jexllexer.Position
	Value    int64
}

func (n *IntLiteral) Pos() jexllexer.Position { return n.Position }
func (n *IntLiteral) String() string          { return strconv.FormatInt(n.Value, 10) }
func (n *IntLiteral) expressionNode()         {}

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Position jexllexer.Position
	Value    float64
}

func (n *FloatLiteral) Pos() jexllexer.Position { return n.Position }
func (n *FloatLiteral) String() string          { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *FloatLiteral) expressionNode()         {}

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	Position jexllexer.Position
	Value    string
}

func (n *StringLiteral) Pos() jexllexer.Position { return n.Position }
func (n *StringLiteral) String() string          { return "\"" + n.Value + "\"" }
func (n *StringLiteral) expressionNode()         {}

// BoolLiteral is `true`/`false`.
type BoolLiteral struct {
	Position jexllexer.Position
	Value    bool
}

func (n *BoolLiteral) Pos() jexllexer.Position { return n.Position }
func (n *BoolLiteral) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}
func (n *BoolLiteral) expressionNode() {}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	Position jexllexer.Position
}

func (n *NullLiteral) Pos() jexllexer.Position { return n.Position }
func (n *NullLiteral) String() string          { return "null" }
func (n *NullLiteral) expressionNode()         {}

// TemplateString is `` `text ${expr} text` ``, split into literal segments
// and interleaved expressions (spec.md §4.5 Interpolation).
type TemplateString struct {
	Position jexllexer.Position
	Segments []string     // len = len(Exprs)+1
	Exprs    []Expression
}

func (n *TemplateString) Pos() jexllexer.Position { return n.Position }
func (n *TemplateString) String() string           { return "`template`" }
func (n *TemplateString) expressionNode()          {}

// IsBareInterpolation reports whether the template is exactly one
// `${expr}` with no surrounding text (spec.md §4.5 strictInterpolation).
func (n *TemplateString) IsBareInterpolation() bool {
	return len(n.Exprs) == 1 && n.Segments[0] == "" && n.Segments[1] == ""
}
