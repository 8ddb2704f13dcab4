package jexlast

import (
	"strings"

	"github.com/jexl-go/jexl/internal/jexllexer"
)

// BinaryOp is one of the binary operator node kinds; spec.md §4.1 lists
// the closed operator set this interpreter must give meaning to.
type BinaryOp string

const (
	OpAdd       BinaryOp = "+"
	OpSub       BinaryOp = "-"
	OpMul       BinaryOp = "*"
	OpDiv       BinaryOp = "/"
	OpMod       BinaryOp = "%"
	OpEq        BinaryOp = "=="
	OpNeq       BinaryOp = "!="
	OpLt        BinaryOp = "<"
	OpLe        BinaryOp = "<="
	OpGt        BinaryOp = ">"
	OpGe        BinaryOp = ">="
	OpAnd       BinaryOp = "&&"
	OpOr        BinaryOp = "||"
	OpBitAnd    BinaryOp = "&"
	OpBitOr     BinaryOp = "|"
	OpBitXor    BinaryOp = "^"
	OpShl       BinaryOp = "<<"
	OpShr       BinaryOp = ">>"
	OpUShr      BinaryOp = ">>>"
	OpMatch     BinaryOp = "=~"
	OpNotMatch  BinaryOp = "!~"
	OpStarts    BinaryOp = "=^"
	OpEnds      BinaryOp = "=$"
	OpRange     BinaryOp = ".."
	OpCoalesce  BinaryOp = "??"
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Position jexllexer.Position
	Op       BinaryOp
	Left     Expression
	Right    Expression
}

func (n *BinaryExpr) Pos() jexllexer.Position { return n.Position }
func (n *BinaryExpr) String() string {
	return "(" + n.Left.String() + " " + string(n.Op) + " " + n.Right.String() + ")"
}
func (n *BinaryExpr) expressionNode() {}

// UnaryOp identifies a prefix unary operator.
type UnaryOp string

const (
	OpNeg    UnaryOp = "-"
	OpNot    UnaryOp = "!"
	OpBitNot UnaryOp = "~"
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	Position jexllexer.Position
	Op       UnaryOp
	Operand  Expression
}

func (n *UnaryExpr) Pos() jexllexer.Position { return n.Position }
func (n *UnaryExpr) String() string          { return "(" + string(n.Op) + n.Operand.String() + ")" }
func (n *UnaryExpr) expressionNode()         {}

// TernaryExpr is `cond ? then : else`, and also represents the Elvis form
// `cond ?: else` when Then is nil (then-branch defaults to cond itself).
type TernaryExpr struct {
	Position jexllexer.Position
	Cond     Expression
	Then     Expression // nil for the Elvis `?:` shorthand
	Else     Expression
}

func (n *TernaryExpr) Pos() jexllexer.Position { return n.Position }
func (n *TernaryExpr) String() string {
	if n.Then == nil {
		return "(" + n.Cond.String() + " ?: " + n.Else.String() + ")"
	}
	return "(" + n.Cond.String() + " ? " + n.Then.String() + " : " + n.Else.String() + ")"
}
func (n *TernaryExpr) expressionNode() {}

// DotExpr is `receiver.member` (a property read or the start of a method
// call, disambiguated by the parser only at a wrapping CallExpr); Safe
// marks a `?.` safe-navigation step (spec.md §4.5 Safe navigation).
type DotExpr struct {
	Position jexllexer.Position
	Receiver Expression
	Member   string
	Safe     bool
}

func (n *DotExpr) Pos() jexllexer.Position { return n.Position }
func (n *DotExpr) String() string {
	sep := "."
	if n.Safe {
		sep = "?."
	}
	return n.Receiver.String() + sep + n.Member
}
func (n *DotExpr) expressionNode() {}

// IndexExpr is `receiver[index]`.
type IndexExpr struct {
	Position jexllexer.Position
	Receiver Expression
	Index    Expression
	Safe     bool
}

func (n *IndexExpr) Pos() jexllexer.Position { return n.Position }
func (n *IndexExpr) String() string {
	return n.Receiver.String() + "[" + n.Index.String() + "]"
}
func (n *IndexExpr) expressionNode() {}

// CallExpr is `callee(args...)`. Callee is either an Ident (top-level
// function/local variable call), a DotExpr (method call), or a
// NamespaceExpr (`ns:m(args)`).
type CallExpr struct {
	Position jexllexer.Position
	Callee   Expression
	Args     []Expression
}

func (n *CallExpr) Pos() jexllexer.Position { return n.Position }
func (n *CallExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (n *CallExpr) expressionNode() {}

// NamespaceExpr is `ns:m`, the callee half of a namespace call
// (spec.md §4.5 "Function calls").
type NamespaceExpr struct {
	Position  jexllexer.Position
	Namespace string
	Member    string
}

func (n *NamespaceExpr) Pos() jexllexer.Position { return n.Position }
func (n *NamespaceExpr) String() string           { return n.Namespace + ":" + n.Member }
func (n *NamespaceExpr) expressionNode()          {}

// NewExpr is `new pkg.Class(args)`, gated by FeatureNewInstance and
// resolved at evaluation time through the host's registered class loader
// (spec.md §6 Engine.setClassLoader).
type NewExpr struct {
	Position  jexllexer.Position
	ClassName string
	Args      []Expression
}

func (n *NewExpr) Pos() jexllexer.Position { return n.Position }
func (n *NewExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return "new " + n.ClassName + "(" + strings.Join(parts, ", ") + ")"
}
func (n *NewExpr) expressionNode() {}

// ListExpr is `[e1, e2, ...]`.
type ListExpr struct {
	Position jexllexer.Position
	Elements []Expression
}

func (n *ListExpr) Pos() jexllexer.Position { return n.Position }
func (n *ListExpr) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (n *ListExpr) expressionNode() {}

// MapEntry is one `key: value` pair in a MapExpr.
type MapEntry struct {
	Key Expression
	Val Expression
}

// MapExpr is `{k1: v1, k2: v2}`.
type MapExpr struct {
	Position jexllexer.Position
	Entries  []MapEntry
}

func (n *MapExpr) Pos() jexllexer.Position { return n.Position }
func (n *MapExpr) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.Key.String() + ": " + e.Val.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (n *MapExpr) expressionNode() {}

// SetExpr is `{e1, e2, ...}`, distinguished from MapExpr by the parser
// seeing no `:` after the first element.
type SetExpr struct {
	Position jexllexer.Position
	Elements []Expression
}

func (n *SetExpr) Pos() jexllexer.Position { return n.Position }
func (n *SetExpr) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (n *SetExpr) expressionNode() {}

// LambdaParam is one parameter of a LambdaExpr.
type LambdaParam struct {
	Name string
	Slot int
}

// LambdaExpr is `(params) -> body` or `(params) -> { statements }`
// (spec.md §3 Frame "parameter arity").
type LambdaExpr struct {
	Position  jexllexer.Position
	Params    []LambdaParam
	Body      []Statement
	FrameSize int // total slots needed: params + locals + captures

	// Captures[i] is the slot index in the ENCLOSING frame that capture i
	// reads from at lambda-creation time; CaptureSlots[i] is the slot in
	// THIS lambda's own frame that capture i is bound into, the same slot
	// number the parser gave every reference to that free variable inside
	// the lambda body.
	Captures     []int
	CaptureSlots []int
	ConstCapture bool
}

func (n *LambdaExpr) Pos() jexllexer.Position { return n.Position }
func (n *LambdaExpr) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return "(" + strings.Join(names, ", ") + ") -> { ... }"
}
func (n *LambdaExpr) expressionNode() {}

// AnnotationStmt is `@name(args) statement`, dispatched through the
// context's AnnotationProcessor (spec.md §4.5 Annotations).
type AnnotationStmt struct {
	Position jexllexer.Position
	Name     string
	Args     []Expression
	Body     Statement
}

func (n *AnnotationStmt) Pos() jexllexer.Position { return n.Position }
func (n *AnnotationStmt) String() string           { return "@" + n.Name + " " + n.Body.String() }
func (n *AnnotationStmt) statementNode()           {}
