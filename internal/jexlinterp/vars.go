package jexlinterp

import "github.com/jexl-go/jexl/internal/jexlast"

// GetVariables statically walks a parsed Program collecting every free
// variable reference: a simple Ident never bound to a frame slot
// (SlotIndex<0) contributes its bare name, and an AntishIdent contributes
// its full dotted path, per SPEC_FULL.md §4.5's documented
// `getVariables(AST)` algorithm — a parse-time-free, frame-resolved
// identifier is skipped since it never touches the Context. Order is
// first-occurrence; duplicates are suppressed.
func GetVariables(prog *jexlast.Program) []string {
	c := &varCollector{seen: map[string]bool{}}
	for _, pr := range prog.Pragmas {
		c.walkExpr(pr.Value)
	}
	for _, s := range prog.Statements {
		c.walkStmt(s)
	}
	return c.names
}

type varCollector struct {
	names []string
	seen  map[string]bool
}

func (c *varCollector) add(name string) {
	if !c.seen[name] {
		c.seen[name] = true
		c.names = append(c.names, name)
	}
}

func (c *varCollector) walkStmt(s jexlast.Statement) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *jexlast.ExprStmt:
		c.walkExpr(n.Expr)
	case *jexlast.BlockStmt:
		for _, st := range n.Statements {
			c.walkStmt(st)
		}
	case *jexlast.VarDeclStmt:
		c.walkExpr(n.Init)
	case *jexlast.AssignStmt:
		c.walkAssignTarget(n.Target)
		c.walkExpr(n.Value)
	case *jexlast.IfStmt:
		c.walkExpr(n.Cond)
		c.walkStmt(n.Then)
		c.walkStmt(n.Else)
	case *jexlast.WhileStmt:
		c.walkExpr(n.Cond)
		c.walkStmt(n.Body)
	case *jexlast.DoWhileStmt:
		c.walkStmt(n.Body)
		c.walkExpr(n.Cond)
	case *jexlast.ForStmt:
		c.walkExpr(n.Iterable)
		c.walkStmt(n.Body)
	case *jexlast.ReturnStmt:
		c.walkExpr(n.Value)
	case *jexlast.AnnotationStmt:
		for _, a := range n.Args {
			c.walkExpr(a)
		}
		c.walkStmt(n.Body)
	}
}

func (c *varCollector) walkAssignTarget(t jexlast.AssignTarget) {
	switch {
	case t.Ident != nil:
		c.walkExpr(t.Ident)
	case t.Antish != nil:
		c.add(t.Antish.String())
	case t.Dot != nil:
		c.walkExpr(t.Dot)
	case t.Index != nil:
		c.walkExpr(t.Index)
	}
}

func (c *varCollector) walkExpr(e jexlast.Expression) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *jexlast.Ident:
		if n.SlotIndex < 0 {
			c.add(n.Name)
		}
	case *jexlast.AntishIdent:
		c.add(n.String())
	case *jexlast.TemplateString:
		for _, sub := range n.Exprs {
			c.walkExpr(sub)
		}
	case *jexlast.BinaryExpr:
		c.walkExpr(n.Left)
		c.walkExpr(n.Right)
	case *jexlast.UnaryExpr:
		c.walkExpr(n.Operand)
	case *jexlast.TernaryExpr:
		c.walkExpr(n.Cond)
		c.walkExpr(n.Then)
		c.walkExpr(n.Else)
	case *jexlast.DotExpr:
		c.walkExpr(n.Receiver)
	case *jexlast.IndexExpr:
		c.walkExpr(n.Receiver)
		c.walkExpr(n.Index)
	case *jexlast.CallExpr:
		c.walkExpr(n.Callee)
		for _, a := range n.Args {
			c.walkExpr(a)
		}
	case *jexlast.ListExpr:
		for _, el := range n.Elements {
			c.walkExpr(el)
		}
	case *jexlast.MapExpr:
		for _, entry := range n.Entries {
			c.walkExpr(entry.Key)
			c.walkExpr(entry.Val)
		}
	case *jexlast.SetExpr:
		for _, el := range n.Elements {
			c.walkExpr(el)
		}
	case *jexlast.LambdaExpr:
		for _, st := range n.Body {
			c.walkStmt(st)
		}
	case *jexlast.NewExpr:
		for _, a := range n.Args {
			c.walkExpr(a)
		}
	}
}
