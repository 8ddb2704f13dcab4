// Package jexlparser turns a jexllexer token stream into a jexlast tree,
// binding identifiers to Frame slots as it goes and enforcing Features
// (parse-time gate bits) and the `lexical`/`lexicalShade`/`constCapture`
// options along the way, per spec.md §3-§4. Grounded on the teacher's
// internal/parser (Pratt-style precedence climbing keyed off token type)
// generalized from DWScript's grammar to JEXL's.
package jexlparser

import (
	"fmt"

	"github.com/jexl-go/jexl/internal/jexlast"
	"github.com/jexl-go/jexl/internal/jexlerrors"
	"github.com/jexl-go/jexl/internal/jexllexer"
)

// precedence levels, lowest to highest.
const (
	precLowest = iota
	precCoalesce
	precOr
	precAnd
	precEquality
	precRelational
	precMatch
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precRange
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binPrec = map[jexllexer.Type]int{
	jexllexer.QUESTION_QUESTION: precCoalesce,
	jexllexer.OR:                precOr,
	jexllexer.AND:               precAnd,
	jexllexer.EQ:                precEquality,
	jexllexer.NEQ:               precEquality,
	jexllexer.LT:                precRelational,
	jexllexer.LE:                precRelational,
	jexllexer.GT:                precRelational,
	jexllexer.GE:                precRelational,
	jexllexer.MATCH:             precMatch,
	jexllexer.NOT_MATCH:         precMatch,
	jexllexer.STARTS:            precMatch,
	jexllexer.ENDS:              precMatch,
	jexllexer.PIPE:              precBitOr,
	jexllexer.CARET:             precBitXor,
	jexllexer.AMP:               precBitAnd,
	jexllexer.SHL:               precShift,
	jexllexer.SHR:               precShift,
	jexllexer.USHR:              precShift,
	jexllexer.RANGE:             precRange,
	jexllexer.PLUS:              precAdditive,
	jexllexer.MINUS:             precAdditive,
	jexllexer.STAR:              precMultiplicative,
	jexllexer.SLASH:             precMultiplicative,
	jexllexer.PERCENT:           precMultiplicative,
}

var binOps = map[jexllexer.Type]jexlast.BinaryOp{
	jexllexer.PLUS:              jexlast.OpAdd,
	jexllexer.MINUS:             jexlast.OpSub,
	jexllexer.STAR:              jexlast.OpMul,
	jexllexer.SLASH:             jexlast.OpDiv,
	jexllexer.PERCENT:           jexlast.OpMod,
	jexllexer.EQ:                jexlast.OpEq,
	jexllexer.NEQ:               jexlast.OpNeq,
	jexllexer.LT:                jexlast.OpLt,
	jexllexer.LE:                jexlast.OpLe,
	jexllexer.GT:                jexlast.OpGt,
	jexllexer.GE:                jexlast.OpGe,
	jexllexer.AND:               jexlast.OpAnd,
	jexllexer.OR:                jexlast.OpOr,
	jexllexer.AMP:               jexlast.OpBitAnd,
	jexllexer.PIPE:              jexlast.OpBitOr,
	jexllexer.CARET:             jexlast.OpBitXor,
	jexllexer.SHL:               jexlast.OpShl,
	jexllexer.SHR:               jexlast.OpShr,
	jexllexer.USHR:              jexlast.OpUShr,
	jexllexer.MATCH:             jexlast.OpMatch,
	jexllexer.NOT_MATCH:         jexlast.OpNotMatch,
	jexllexer.STARTS:            jexlast.OpStarts,
	jexllexer.ENDS:              jexlast.OpEnds,
	jexllexer.RANGE:             jexlast.OpRange,
	jexllexer.QUESTION_QUESTION: jexlast.OpCoalesce,
}

// Parser consumes a token stream and builds a jexlast.Program.
type Parser struct {
	l        *jexllexer.Lexer
	features Features
	constCapture bool
	params   []string

	cur  jexllexer.Token
	peek jexllexer.Token

	scope     *scope
	loopDepth int
	errs      []error
}

// New creates a Parser over source with the given Features. constCapture
// mirrors the Options bit of the same name (spec.md §4.3/§9.6).
func New(source string, features Features, constCapture bool) *Parser {
	return NewWithParams(source, features, constCapture, nil)
}

// NewWithParams is New plus a set of script parameter names, pre-declared
// as top-level frame slots 0..len(params)-1 before a single token of
// source is read — the parse-time counterpart of pkg/jexl's
// `createScript(source, params...)`, so the body can reference its own
// parameters as ordinary resolved locals and `Program.FrameSize` already
// accounts for them.
func NewWithParams(source string, features Features, constCapture bool, params []string) *Parser {
	p := &Parser{l: jexllexer.New(source), features: features, constCapture: constCapture, params: params}
	p.scope = newRootScope(true, true)
	for _, name := range params {
		p.scope.declare(name)
	}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos jexllexer.Position, kind jexlerrors.Kind, format string, args ...any) {
	p.errs = append(p.errs, jexlerrors.New(kind, jexlerrors.Locus{Pos: jexlerrors.Position{Line: pos.Line, Column: pos.Column}}, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t jexllexer.Type, what string) jexllexer.Token {
	if p.cur.Type != t {
		p.errorf(p.cur.Pos, jexlerrors.KindParsing, "expected %s, found %q", what, p.cur.Literal)
		tok := p.cur
		return tok
	}
	tok := p.cur
	p.advance()
	return tok
}

// Errors returns every parse error accumulated while building the tree.
func (p *Parser) Errors() []error { return p.errs }

// Parse consumes the entire token stream and returns the resulting
// Program. Accumulated errors are also available via Errors().
func (p *Parser) Parse() *jexlast.Program {
	prog := &jexlast.Program{}
	for p.cur.Type == jexllexer.PRAGMA {
		prog.Pragmas = append(prog.Pragmas, p.parsePragma())
	}
	for p.cur.Type != jexllexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	prog.FrameSize = p.scope.frameSize()
	prog.Params = append([]string(nil), p.params...)
	prog.Locals = p.scope.declaredNames()
	return prog
}

// parsePragma reads `#pragma key value;`. The lexer tokenizes `#pragma`
// as keyword PRAGMA (spec.md SPEC_FULL.md §3 pragma prologue grammar);
// key is a bare identifier, value any primary expression.
func (p *Parser) parsePragma() *jexlast.Pragma {
	pos := p.cur.Pos
	p.advance() // consume 'pragma'
	keyTok := p.expect(jexllexer.IDENT, "pragma key")
	val := p.parseExpression(precLowest)
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.Pragma{Position: pos, Key: keyTok.Literal, Value: val}
}

// ---- Statements ----

func (p *Parser) parseStatement() jexlast.Statement {
	switch p.cur.Type {
	case jexllexer.VAR:
		return p.parseVarDecl()
	case jexllexer.IF:
		return p.parseIf()
	case jexllexer.WHILE:
		return p.parseWhile()
	case jexllexer.DO:
		return p.parseDoWhile()
	case jexllexer.FOR:
		return p.parseFor()
	case jexllexer.RETURN:
		return p.parseReturn()
	case jexllexer.BREAK:
		return p.parseBreak()
	case jexllexer.CONTINUE:
		return p.parseContinue()
	case jexllexer.LBRACE:
		return p.parseBlock()
	case jexllexer.AT:
		return p.parseAnnotation()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *jexlast.BlockStmt {
	pos := p.cur.Pos
	p.expect(jexllexer.LBRACE, "'{'")
	parent := p.scope
	p.scope = parent.pushBlock()
	var stmts []jexlast.Statement
	for p.cur.Type != jexllexer.RBRACE && p.cur.Type != jexllexer.EOF {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(jexllexer.RBRACE, "'}'")
	p.scope = parent
	return &jexlast.BlockStmt{Position: pos, Statements: stmts}
}

// parseVarDecl reads `var name = init;`. All JEXL locals declared with
// `var` are mutable; a binding is const only via lambda parameter
// capture rules, so isConst is always false here (spec.md §4.3 ties
// constness to captured cells, not to `var` itself).
func (p *Parser) parseVarDecl() *jexlast.VarDeclStmt {
	pos := p.cur.Pos
	p.advance() // consume 'var'
	nameTok := p.expect(jexllexer.IDENT, "identifier")
	if !p.features.Has(FeatureLocals) {
		p.errorf(pos, jexlerrors.KindFeature, "local variable declarations are disabled")
	}
	slot, ok := p.scope.declare(nameTok.Literal)
	if !ok {
		p.errorf(nameTok.Pos, jexlerrors.KindParsing, "%q is already declared in this block", nameTok.Literal)
	}
	var init jexlast.Expression
	if p.cur.Type == jexllexer.ASSIGN {
		p.advance()
		init = p.parseExpression(precLowest)
	}
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.VarDeclStmt{Position: pos, Name: nameTok.Literal, Slot: slot, Init: init}
}

func (p *Parser) parseIf() *jexlast.IfStmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(jexllexer.LPAREN, "'('")
	cond := p.parseExpression(precLowest)
	p.expect(jexllexer.RPAREN, "')'")
	then := p.parseStatement()
	var elseStmt jexlast.Statement
	if p.cur.Type == jexllexer.ELSE {
		p.advance()
		elseStmt = p.parseStatement()
	}
	return &jexlast.IfStmt{Position: pos, Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhile() *jexlast.WhileStmt {
	pos := p.cur.Pos
	if !p.features.Has(FeatureLoops) {
		p.errorf(pos, jexlerrors.KindFeature, "loops are disabled")
	}
	p.advance()
	p.expect(jexllexer.LPAREN, "'('")
	cond := p.parseExpression(precLowest)
	p.expect(jexllexer.RPAREN, "')'")
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return &jexlast.WhileStmt{Position: pos, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() *jexlast.DoWhileStmt {
	pos := p.cur.Pos
	if !p.features.Has(FeatureLoops) {
		p.errorf(pos, jexlerrors.KindFeature, "loops are disabled")
	}
	p.advance()
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	p.expect(jexllexer.WHILE, "'while'")
	p.expect(jexllexer.LPAREN, "'('")
	cond := p.parseExpression(precLowest)
	p.expect(jexllexer.RPAREN, "')'")
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.DoWhileStmt{Position: pos, Body: body, Cond: cond}
}

// parseFor reads `for (var name : iterable) body`, the single loop form
// JEXL's grammar supports (spec.md Testable Property S5).
func (p *Parser) parseFor() *jexlast.ForStmt {
	pos := p.cur.Pos
	if !p.features.Has(FeatureLoops) {
		p.errorf(pos, jexlerrors.KindFeature, "loops are disabled")
	}
	p.advance()
	p.expect(jexllexer.LPAREN, "'('")
	p.expect(jexllexer.VAR, "'var'")
	nameTok := p.expect(jexllexer.IDENT, "identifier")
	p.expect(jexllexer.COLON, "':'")
	iterable := p.parseExpression(precLowest)
	p.expect(jexllexer.RPAREN, "')'")

	parent := p.scope
	p.scope = parent.pushBlock()
	slot, _ := p.scope.declare(nameTok.Literal)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	p.scope = parent

	return &jexlast.ForStmt{Position: pos, VarName: nameTok.Literal, VarSlot: slot, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturn() *jexlast.ReturnStmt {
	pos := p.cur.Pos
	p.advance()
	var val jexlast.Expression
	if p.cur.Type != jexllexer.SEMI && p.cur.Type != jexllexer.RBRACE && p.cur.Type != jexllexer.EOF {
		val = p.parseExpression(precLowest)
	}
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.ReturnStmt{Position: pos, Value: val}
}

func (p *Parser) parseBreak() *jexlast.BreakStmt {
	pos := p.cur.Pos
	if p.loopDepth == 0 {
		p.errorf(pos, jexlerrors.KindFeature, "'break' outside of a loop")
	}
	p.advance()
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.BreakStmt{Position: pos}
}

func (p *Parser) parseContinue() *jexlast.ContinueStmt {
	pos := p.cur.Pos
	if p.loopDepth == 0 {
		p.errorf(pos, jexlerrors.KindFeature, "'continue' outside of a loop")
	}
	p.advance()
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.ContinueStmt{Position: pos}
}

func (p *Parser) parseAnnotation() jexlast.Statement {
	pos := p.cur.Pos
	p.advance() // consume '@'
	nameTok := p.expect(jexllexer.IDENT, "annotation name")
	var args []jexlast.Expression
	if p.cur.Type == jexllexer.LPAREN {
		p.advance()
		for p.cur.Type != jexllexer.RPAREN && p.cur.Type != jexllexer.EOF {
			args = append(args, p.parseExpression(precLowest))
			if p.cur.Type == jexllexer.COMMA {
				p.advance()
			}
		}
		p.expect(jexllexer.RPAREN, "')'")
	}
	body := p.parseStatement()
	return &jexlast.AnnotationStmt{Position: pos, Name: nameTok.Literal, Args: args, Body: body}
}

// parseExprStmt parses an expression, then checks for a trailing `=` to
// turn it into an AssignStmt; assignment is handled at statement level
// (not inside parseExpression's Pratt loop) because only a narrow set of
// expression shapes are valid assignment targets, matching the teacher's
// split between expression-parsing and statement-level assignment
// parsing (internal/parser assignment handling).
func (p *Parser) parseExprStmt() jexlast.Statement {
	pos := p.cur.Pos
	expr := p.parseExpression(precLowest)
	if p.cur.Type == jexllexer.ASSIGN {
		target, ok := p.asAssignTarget(expr)
		if !ok {
			p.errorf(pos, jexlerrors.KindAssignment, "invalid assignment target")
		}
		p.advance() // consume '='
		value := p.parseExpression(precLowest)
		if p.cur.Type == jexllexer.SEMI {
			p.advance()
		}
		if !p.features.Has(FeatureSideEffects) {
			p.errorf(pos, jexlerrors.KindFeature, "assignment is disabled")
		}
		isGlobal := target.Antish != nil || (target.Ident != nil && target.Ident.SlotIndex < 0)
		if isGlobal && !p.features.Has(FeatureSideEffectsGlobals) {
			p.errorf(pos, jexlerrors.KindFeature, "assignment to context variables is disabled")
		}
		if target.Ident != nil && p.constCapture && p.scope.isCapturedHere(target.Ident.Name) {
			p.errorf(pos, jexlerrors.KindAssignment, "%q is captured by value and cannot be assigned here", target.Ident.Name)
		}
		return &jexlast.AssignStmt{Position: pos, Target: target, Value: value}
	}
	if p.cur.Type == jexllexer.SEMI {
		p.advance()
	}
	return &jexlast.ExprStmt{Position: pos, Expr: expr}
}

// asAssignTarget narrows an already-parsed expression to a legal
// assignment target shape.
func (p *Parser) asAssignTarget(expr jexlast.Expression) (jexlast.AssignTarget, bool) {
	switch e := expr.(type) {
	case *jexlast.Ident:
		return jexlast.AssignTarget{Ident: e}, true
	case *jexlast.AntishIdent:
		return jexlast.AssignTarget{Antish: e}, true
	case *jexlast.DotExpr:
		return jexlast.AssignTarget{Dot: e}, true
	case *jexlast.IndexExpr:
		return jexlast.AssignTarget{Index: e}, true
	default:
		return jexlast.AssignTarget{}, false
	}
}

// ---- Expressions (Pratt / precedence climbing) ----

func (p *Parser) parseExpression(minPrec int) jexlast.Expression {
	left := p.parseUnary()
	for {
		prec, ok := binPrec[p.cur.Type]
		if !ok || prec < minPrec {
			return p.maybeTernary(left)
		}
		op := binOps[p.cur.Type]
		opPos := p.cur.Pos
		p.advance()
		nextMin := prec + 1
		right := p.parseExpression(nextMin)
		left = &jexlast.BinaryExpr{Position: opPos, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) maybeTernary(cond jexlast.Expression) jexlast.Expression {
	if p.cur.Type != jexllexer.QUESTION {
		return cond
	}
	pos := p.cur.Pos
	p.advance()
	if p.cur.Type == jexllexer.COLON {
		p.advance()
		elseExpr := p.parseExpression(precLowest)
		return &jexlast.TernaryExpr{Position: pos, Cond: cond, Else: elseExpr}
	}
	thenExpr := p.parseExpression(precLowest)
	p.expect(jexllexer.COLON, "':'")
	elseExpr := p.parseExpression(precLowest)
	return &jexlast.TernaryExpr{Position: pos, Cond: cond, Then: thenExpr, Else: elseExpr}
}

func (p *Parser) parseUnary() jexlast.Expression {
	switch p.cur.Type {
	case jexllexer.MINUS:
		pos := p.cur.Pos
		p.advance()
		return &jexlast.UnaryExpr{Position: pos, Op: jexlast.OpNeg, Operand: p.parseUnary()}
	case jexllexer.BANG:
		pos := p.cur.Pos
		p.advance()
		return &jexlast.UnaryExpr{Position: pos, Op: jexlast.OpNot, Operand: p.parseUnary()}
	case jexllexer.TILDE:
		pos := p.cur.Pos
		p.advance()
		return &jexlast.UnaryExpr{Position: pos, Op: jexlast.OpBitNot, Operand: p.parseUnary()}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parsePostfix(expr jexlast.Expression) jexlast.Expression {
	for {
		switch p.cur.Type {
		case jexllexer.DOT, jexllexer.QUESTION_DOT:
			safe := p.cur.Type == jexllexer.QUESTION_DOT
			pos := p.cur.Pos
			p.advance()
			memberTok := p.expect(jexllexer.IDENT, "member name")
			expr = &jexlast.DotExpr{Position: pos, Receiver: expr, Member: memberTok.Literal, Safe: safe}
		case jexllexer.LBRACKET:
			pos := p.cur.Pos
			p.advance()
			idx := p.parseExpression(precLowest)
			p.expect(jexllexer.RBRACKET, "']'")
			expr = &jexlast.IndexExpr{Position: pos, Receiver: expr, Index: idx}
		case jexllexer.LPAREN:
			pos := p.cur.Pos
			p.advance()
			var args []jexlast.Expression
			for p.cur.Type != jexllexer.RPAREN && p.cur.Type != jexllexer.EOF {
				args = append(args, p.parseExpression(precLowest))
				if p.cur.Type == jexllexer.COMMA {
					p.advance()
				}
			}
			p.expect(jexllexer.RPAREN, "')'")
			expr = &jexlast.CallExpr{Position: pos, Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

// parseNewExpr parses `new pkg.Class(args)`, a dotted class name followed
// by a parenthesized argument list, gated by FeatureNewInstance.
func (p *Parser) parseNewExpr() jexlast.Expression {
	pos := p.cur.Pos
	p.advance()
	if !p.features.Has(FeatureNewInstance) {
		p.errorf(pos, jexlerrors.KindFeature, "'new' is disabled")
	}
	nameTok := p.expect(jexllexer.IDENT, "class name")
	name := nameTok.Literal
	for p.cur.Type == jexllexer.DOT {
		p.advance()
		part := p.expect(jexllexer.IDENT, "class name segment")
		name += "." + part.Literal
	}
	p.expect(jexllexer.LPAREN, "'('")
	var args []jexlast.Expression
	for p.cur.Type != jexllexer.RPAREN && p.cur.Type != jexllexer.EOF {
		args = append(args, p.parseExpression(precLowest))
		if p.cur.Type == jexllexer.COMMA {
			p.advance()
		}
	}
	p.expect(jexllexer.RPAREN, "')'")
	return &jexlast.NewExpr{Position: pos, ClassName: name, Args: args}
}

func (p *Parser) parsePrimary() jexlast.Expression {
	pos := p.cur.Pos
	switch p.cur.Type {
	case jexllexer.INT:
		return p.parseIntLiteral()
	case jexllexer.FLOAT:
		return p.parseFloatLiteral()
	case jexllexer.STRING:
		lit := p.cur.Literal
		p.advance()
		return &jexlast.StringLiteral{Position: pos, Value: lit}
	case jexllexer.TEMPLATE_STR:
		return p.parseTemplate()
	case jexllexer.TRUE:
		p.advance()
		return &jexlast.BoolLiteral{Position: pos, Value: true}
	case jexllexer.FALSE:
		p.advance()
		return &jexlast.BoolLiteral{Position: pos, Value: false}
	case jexllexer.NULL:
		p.advance()
		return &jexlast.NullLiteral{Position: pos}
	case jexllexer.LPAREN:
		return p.parseParenOrLambda()
	case jexllexer.LBRACKET:
		return p.parseListLiteral()
	case jexllexer.LBRACE:
		return p.parseMapOrSetLiteral()
	case jexllexer.IDENT:
		return p.parseIdentOrNamespace()
	case jexllexer.NEW:
		return p.parseNewExpr()
	default:
		p.errorf(pos, jexlerrors.KindParsing, "unexpected token %q", p.cur.Literal)
		p.advance()
		return &jexlast.NullLiteral{Position: pos}
	}
}

func (p *Parser) parseIntLiteral() jexlast.Expression {
	pos := p.cur.Pos
	lit := p.cur.Literal
	p.advance()
	v, err := parseInt64(lit)
	if err != nil {
		p.errorf(pos, jexlerrors.KindTokenization, "invalid integer literal %q", lit)
	}
	return &jexlast.IntLiteral{Position: pos, Value: v}
}

func (p *Parser) parseFloatLiteral() jexlast.Expression {
	pos := p.cur.Pos
	lit := p.cur.Literal
	p.advance()
	v, err := parseFloat64(lit)
	if err != nil {
		p.errorf(pos, jexlerrors.KindTokenization, "invalid float literal %q", lit)
	}
	return &jexlast.FloatLiteral{Position: pos, Value: v}
}

// parseTemplate splits a `${...}` interpolation body into literal
// segments and sub-expressions, each sub-expression re-lexed/parsed with
// its own Parser sharing this parser's Features and scope for antish
// resolution of names used inside the interpolation (spec.md §4.5).
func (p *Parser) parseTemplate() jexlast.Expression {
	pos := p.cur.Pos
	body := p.cur.Literal
	p.advance()

	var segments []string
	var exprs []jexlast.Expression
	var lit []byte
	i := 0
	for i < len(body) {
		if body[i] == '$' && i+1 < len(body) && body[i+1] == '{' {
			segments = append(segments, string(lit))
			lit = lit[:0]
			depth := 1
			j := i + 2
			start := j
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			sub := body[start:j]
			subParser := New(sub, p.features, p.constCapture)
			subParser.scope = p.scope
			exprs = append(exprs, subParser.parseExpression(precLowest))
			p.errs = append(p.errs, subParser.errs...)
			i = j + 1
			continue
		}
		lit = append(lit, body[i])
		i++
	}
	segments = append(segments, string(lit))
	return &jexlast.TemplateString{Position: pos, Segments: segments, Exprs: exprs}
}

func (p *Parser) parseListLiteral() jexlast.Expression {
	pos := p.cur.Pos
	p.advance() // '['
	var elems []jexlast.Expression
	for p.cur.Type != jexllexer.RBRACKET && p.cur.Type != jexllexer.EOF {
		elems = append(elems, p.parseExpression(precLowest))
		if p.cur.Type == jexllexer.COMMA {
			p.advance()
		}
	}
	p.expect(jexllexer.RBRACKET, "']'")
	return &jexlast.ListExpr{Position: pos, Elements: elems}
}

// parseMapOrSetLiteral disambiguates `{}`/`{a, b}` (set) from
// `{a: 1, b: 2}` (map) by peeking past the first element for a colon.
func (p *Parser) parseMapOrSetLiteral() jexlast.Expression {
	pos := p.cur.Pos
	p.advance() // '{'
	if p.cur.Type == jexllexer.RBRACE {
		p.advance()
		return &jexlast.MapExpr{Position: pos}
	}
	first := p.parseExpression(precLowest)
	if p.cur.Type == jexllexer.COLON {
		p.advance()
		val := p.parseExpression(precLowest)
		entries := []jexlast.MapEntry{{Key: first, Val: val}}
		for p.cur.Type == jexllexer.COMMA {
			p.advance()
			k := p.parseExpression(precLowest)
			p.expect(jexllexer.COLON, "':'")
			v := p.parseExpression(precLowest)
			entries = append(entries, jexlast.MapEntry{Key: k, Val: v})
		}
		p.expect(jexllexer.RBRACE, "'}'")
		return &jexlast.MapExpr{Position: pos, Entries: entries}
	}
	elems := []jexlast.Expression{first}
	for p.cur.Type == jexllexer.COMMA {
		p.advance()
		elems = append(elems, p.parseExpression(precLowest))
	}
	p.expect(jexllexer.RBRACE, "'}'")
	return &jexlast.SetExpr{Position: pos, Elements: elems}
}

// parseParenOrLambda disambiguates `(expr)` from `(params) -> body` by
// scanning ahead for `)->`/`) ->` after a balanced paren group; JEXL
// lambdas always introduce with `->` immediately after the closing paren
// (spec.md §4.3 lambda parameter arity).
func (p *Parser) parseParenOrLambda() jexlast.Expression {
	if p.looksLikeLambdaParams() {
		return p.parseLambda()
	}
	p.advance() // '('
	expr := p.parseExpression(precLowest)
	p.expect(jexllexer.RPAREN, "')'")
	return expr
}

// looksLikeLambdaParams performs bounded lookahead over the raw lexer to
// decide if the current '(' begins a lambda parameter list. It lexes a
// private copy of the stream so the main parser's position is untouched
// on a negative result.
func (p *Parser) looksLikeLambdaParams() bool {
	clone := *p.l
	cl := &clone
	depth := 1 // p.cur is the opening '(' already
	for depth > 0 {
		switch cl.NextToken().Type {
		case jexllexer.LPAREN:
			depth++
		case jexllexer.RPAREN:
			depth--
		case jexllexer.EOF:
			return false
		}
	}
	return cl.NextToken().Type == jexllexer.ARROW
}

func (p *Parser) parseLambda() jexlast.Expression {
	pos := p.cur.Pos
	if !p.features.Has(FeatureLambda) {
		p.errorf(pos, jexlerrors.KindFeature, "lambda expressions are disabled")
	}
	p.expect(jexllexer.LPAREN, "'('")

	outer := p.scope
	p.scope = outer.pushLambda()
	var params []jexlast.LambdaParam
	for p.cur.Type != jexllexer.RPAREN && p.cur.Type != jexllexer.EOF {
		nameTok := p.expect(jexllexer.IDENT, "parameter name")
		slot, _ := p.scope.declare(nameTok.Literal)
		params = append(params, jexlast.LambdaParam{Name: nameTok.Literal, Slot: slot})
		if p.cur.Type == jexllexer.COMMA {
			p.advance()
		}
	}
	p.expect(jexllexer.RPAREN, "')'")
	p.expect(jexllexer.ARROW, "'->'")

	var body []jexlast.Statement
	if p.cur.Type == jexllexer.LBRACE {
		block := p.parseBlock()
		body = block.Statements
	} else {
		exprPos := p.cur.Pos
		body = []jexlast.Statement{&jexlast.ReturnStmt{Position: exprPos, Value: p.parseExpression(precLowest)}}
	}

	captures := make([]int, len(p.scope.captureOrder))
	captureSlots := make([]int, len(p.scope.captureOrder))
	for i, name := range p.scope.captureOrder {
		outerSlot, _, _ := outer.resolve(name)
		captures[i] = outerSlot
		captureSlots[i] = p.scope.captures[name]
	}
	frameSize := p.scope.frameSize()
	lam := &jexlast.LambdaExpr{
		Position:     pos,
		Params:       params,
		Body:         body,
		FrameSize:    frameSize,
		Captures:     captures,
		CaptureSlots: captureSlots,
		ConstCapture: p.constCapture,
	}
	p.scope = outer
	return lam
}

// parseIdentOrNamespace reads a bare identifier, greedily extending a
// dotted chain into an AntishIdent when the root name is not a resolved
// local and `antish` semantics apply (left to the interpreter: the
// parser only needs to distinguish a bound local Ident, carrying its
// slot, from a free dotted reference). `ns:member` is recognized here
// too, since both share the IDENT lookahead.
func (p *Parser) parseIdentOrNamespace() jexlast.Expression {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.advance()

	if p.cur.Type == jexllexer.NAMESPACE_SEP {
		p.advance()
		memberTok := p.expect(jexllexer.IDENT, "namespace member")
		return &jexlast.NamespaceExpr{Position: pos, Namespace: name, Member: memberTok.Literal}
	}

	if slot, _, found := p.scope.resolve(name); found {
		return &jexlast.Ident{Position: pos, Name: name, SlotIndex: slot}
	}

	if p.features.Has(FeatureReserved) && p.features.IsReserved(name) {
		p.errorf(pos, jexlerrors.KindFeature, "%q is a reserved name", name)
	}

	parts := []string{name}
	for p.cur.Type == jexllexer.DOT && p.peek.Type == jexllexer.IDENT {
		p.advance()
		parts = append(parts, p.cur.Literal)
		p.advance()
	}
	if len(parts) == 1 {
		return &jexlast.Ident{Position: pos, Name: name, SlotIndex: -1}
	}
	return &jexlast.AntishIdent{Position: pos, Parts: parts}
}
