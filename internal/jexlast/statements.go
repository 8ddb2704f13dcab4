package jexlast

import (
	"strings"

	"github.com/jexl-go/jexl/internal/jexllexer"
)

// ExprStmt is an expression evaluated for its value/side effects.
type ExprStmt struct {
	Position jexllexer.Position
	Expr     Expression
}

func (n *ExprStmt) Pos() jexllexer.Position { return n.Position }
func (n *ExprStmt) String() string          { return n.Expr.String() + ";" }
func (n *ExprStmt) statementNode()          {}

// BlockStmt is `{ statements }`, a lexical block (spec.md §4.3 "each
// lexical block ... records declared symbols").
type BlockStmt struct {
	Position   jexllexer.Position
	Statements []Statement
}

func (n *BlockStmt) Pos() jexllexer.Position { return n.Position }
func (n *BlockStmt) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, s := range n.Statements {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
func (n *BlockStmt) statementNode() {}

// VarDeclStmt is `var name = init;`, optionally const (spec.md §4.3
// "const/let semantics").
type VarDeclStmt struct {
	Position jexllexer.Position
	Name     string
	Slot     int
	Const    bool
	Init     Expression // may be nil
}

func (n *VarDeclStmt) Pos() jexllexer.Position { return n.Position }
func (n *VarDeclStmt) String() string {
	if n.Init == nil {
		return "var " + n.Name + ";"
	}
	return "var " + n.Name + " = " + n.Init.String() + ";"
}
func (n *VarDeclStmt) statementNode() {}

// AssignTarget is the left-hand side of an AssignStmt: either a bound
// local (Slot >= 0), a free context name, or a Dot/Index expression for
// property/element assignment.
type AssignTarget struct {
	Ident  *Ident       // non-nil for a slot-bound or free simple name target
	Antish *AntishIdent // non-nil for a dotted context-variable target `a.b.c = ...`
	Dot    *DotExpr     // non-nil for obj.prop = ...
	Index  *IndexExpr   // non-nil for obj[k] = ...
}

// AssignStmt is `target = value;`.
type AssignStmt struct {
	Position jexllexer.Position
	Target   AssignTarget
	Value    Expression
}

func (n *AssignStmt) Pos() jexllexer.Position { return n.Position }
func (n *AssignStmt) String() string {
	switch {
	case n.Target.Ident != nil:
		return n.Target.Ident.String() + " = " + n.Value.String() + ";"
	case n.Target.Antish != nil:
		return n.Target.Antish.String() + " = " + n.Value.String() + ";"
	case n.Target.Dot != nil:
		return n.Target.Dot.String() + " = " + n.Value.String() + ";"
	default:
		return n.Target.Index.String() + " = " + n.Value.String() + ";"
	}
}
func (n *AssignStmt) statementNode() {}

// IfStmt is `if (cond) then else else`.
type IfStmt struct {
	Position jexllexer.Position
	Cond     Expression
	Then     Statement
	Else     Statement // nil if no else branch
}

func (n *IfStmt) Pos() jexllexer.Position { return n.Position }
func (n *IfStmt) String() string {
	if n.Else == nil {
		return "if (" + n.Cond.String() + ") " + n.Then.String()
	}
	return "if (" + n.Cond.String() + ") " + n.Then.String() + " else " + n.Else.String()
}
func (n *IfStmt) statementNode() {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Position jexllexer.Position
	Cond     Expression
	Body     Statement
}

func (n *WhileStmt) Pos() jexllexer.Position { return n.Position }
func (n *WhileStmt) String() string          { return "while (" + n.Cond.String() + ") " + n.Body.String() }
func (n *WhileStmt) statementNode()          {}

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	Position jexllexer.Position
	Body     Statement
	Cond     Expression
}

func (n *DoWhileStmt) Pos() jexllexer.Position { return n.Position }
func (n *DoWhileStmt) String() string {
	return "do " + n.Body.String() + " while (" + n.Cond.String() + ");"
}
func (n *DoWhileStmt) statementNode() {}

// ForStmt is `for (var x : iterable) body`, the sole loop form JEXL needs
// (range/list/set/map iteration); spec.md §4.1 Range + Testable Property
// S5 both exercise this shape.
type ForStmt struct {
	Position jexllexer.Position
	VarName  string
	VarSlot  int
	Iterable Expression
	Body     Statement
}

func (n *ForStmt) Pos() jexllexer.Position { return n.Position }
func (n *ForStmt) String() string {
	return "for (var " + n.VarName + " : " + n.Iterable.String() + ") " + n.Body.String()
}
func (n *ForStmt) statementNode() {}

// ReturnStmt is `return expr;` (expr may be nil).
type ReturnStmt struct {
	Position jexllexer.Position
	Value    Expression
}

func (n *ReturnStmt) Pos() jexllexer.Position { return n.Position }
func (n *ReturnStmt) String() string {
	if n.Value == nil {
		return "return;"
	}
	return "return " + n.Value.String() + ";"
}
func (n *ReturnStmt) statementNode() {}

// BreakStmt is `break;`.
type BreakStmt struct{ Position jexllexer.Position }

func (n *BreakStmt) Pos() jexllexer.Position { return n.Position }
func (n *BreakStmt) String() string          { return "break;" }
func (n *BreakStmt) statementNode()          {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ Position jexllexer.Position }

func (n *ContinueStmt) Pos() jexllexer.Position { return n.Position }
func (n *ContinueStmt) String() string          { return "continue;" }
func (n *ContinueStmt) statementNode()          {}
