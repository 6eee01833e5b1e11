// Package parser implements the syntax analysis for the source dialect.
// It uses recursive descent for statements and declarations, and Pratt-style
// precedence climbing for expressions and type expressions.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"typeforge/internal/ast"
	"typeforge/internal/span"
	"typeforge/internal/token"
)

// SyntaxError is raised on the first parse failure. The parser performs no
// error recovery: a single SyntaxError aborts the whole parse.
type SyntaxError struct {
	Message string
	Span    span.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Span.Start)
}

// ============================================================
// Binary operator binding power
// ============================================================

const (
	bpNone         = 0
	bpNullish      = 10 // || ??
	bpLogicalAnd   = 20 // &&
	bpBitOr        = 30 // |
	bpBitXor       = 40 // ^
	bpBitAnd       = 50 // &
	bpEquality     = 60 // == === != !==
	bpRelational   = 70 // < > <= >= instanceof in
	bpShift        = 80 // << >> >>>
	bpAdditive     = 90 // + -
	bpMultiplicative = 100 // * / %
	bpExponent     = 110 // ** (right-assoc)
)

// binaryInfo returns the binding power of kind as an infix binary/logical
// operator, and whether it is right-associative. bp == 0 means kind is not
// a binary operator at this level.
func binaryInfo(kind token.Kind) (bp int, rightAssoc bool) {
	switch kind {
	case token.PIPE_PIPE, token.QUESTION_QUESTION:
		return bpNullish, false
	case token.AMP_AMP:
		return bpLogicalAnd, false
	case token.PIPE:
		return bpBitOr, false
	case token.CARET:
		return bpBitXor, false
	case token.AMP:
		return bpBitAnd, false
	case token.EQ, token.EQ_STRICT, token.NEQ, token.NEQ_STRICT:
		return bpEquality, false
	case token.LT, token.GT, token.LTE, token.GTE, token.KW_INSTANCEOF, token.KW_IN:
		return bpRelational, false
	case token.SHL, token.SHR, token.USHR:
		return bpShift, false
	case token.PLUS, token.MINUS:
		return bpAdditive, false
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiplicative, false
	case token.STAR_STAR:
		return bpExponent, true
	default:
		return bpNone, false
	}
}

func isLogicalOp(kind token.Kind) bool {
	return kind == token.PIPE_PIPE || kind == token.AMP_AMP || kind == token.QUESTION_QUESTION
}

var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true,
	token.STAR_STAR_ASSIGN: true, token.SHL_ASSIGN: true, token.SHR_ASSIGN: true,
	token.USHR_ASSIGN: true, token.AMP_ASSIGN: true, token.PIPE_ASSIGN: true,
	token.CARET_ASSIGN: true, token.AMP_AMP_ASSIGN: true, token.PIPE_PIPE_ASSIGN: true,
	token.QUESTION_QUESTION_ASSIGN: true,
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens    []token.Token
	pos       int
	pendingGT int // remaining '>' characters split out of a multi-char '>>'/'>>>' token
}

// Parse parses a complete token stream into a Program. It returns a
// *SyntaxError on the first malformed construct; there is no recovery.
func Parse(tokens []token.Token) (program *ast.Program, err error) {
	p := &Parser{tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	program = p.parseProgram()
	return program, nil
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pendingGT > 0 {
		return token.Token{Kind: token.GT, Lexeme: ">", Span: p.tokens[p.pos].Span}
	}
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

// peekAhead looks n tokens beyond the current one, ignoring any pending
// split-angle-bracket state (only used away from generic argument lists).
func (p *Parser) peekAhead(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	if p.pendingGT > 0 {
		p.pendingGT--
		return token.Token{Kind: token.GT, Lexeme: ">", Span: p.tokens[p.pos].Span}
	}
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

func (p *Parser) fail(s span.Span, format string, args ...interface{}) {
	panic(&SyntaxError{Message: fmt.Sprintf(format, args...), Span: s})
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	tok := p.peek()
	p.fail(tok.Span, "expected %q, got %q (%q)", kind, tok.Kind, tok.Lexeme)
	return token.Token{}
}

// expectName accepts an identifier, or any keyword used as a property/member
// name (e.g. `obj.default`, `{ type: 1 }`).
func (p *Parser) expectName() token.Token {
	tok := p.peek()
	if tok.Kind == token.IDENT || tok.Kind.IsKeyword() {
		return p.advance()
	}
	p.fail(tok.Span, "expected identifier, got %q", tok.Kind)
	return token.Token{}
}

// consumeGT closes a `<...>` list, splitting a `>>`/`>>>` token if the
// closing angle bracket is fused with others from nested generics.
func (p *Parser) consumeGT() {
	if p.pendingGT > 0 {
		p.pendingGT--
		return
	}
	tok := p.peek()
	switch tok.Kind {
	case token.GT:
		p.advance()
	case token.SHR:
		p.pendingGT = 1
		p.pos++
	case token.USHR:
		p.pendingGT = 2
		p.pos++
	default:
		p.fail(tok.Span, "expected '>', got %q", tok.Kind)
	}
}

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) spanFrom(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func exprBase(s span.Span) ast.ExprBase { return ast.ExprBase{NodeBase: ast.NodeBase{Span: s}} }
func stmtBase(s span.Span) ast.StmtBase { return ast.StmtBase{NodeBase: ast.NodeBase{Span: s}} }
func typeBase(s span.Span) ast.TypeExprBase {
	return ast.TypeExprBase{NodeBase: ast.NodeBase{Span: s}}
}

// speculate attempts fn, rolling the cursor back and reporting failure if fn
// panics with a *SyntaxError. Used at the bounded-speculation points: arrow
// function vs. parenthesized expression, and call-site type arguments vs.
// the less-than operator.
func (p *Parser) speculate(fn func() ast.Expr) (result ast.Expr, ok bool) {
	save := p.pos
	savedPending := p.pendingGT
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(*SyntaxError); isSyntax {
				p.pos = save
				p.pendingGT = savedPending
				result, ok = nil, false
				return
			}
			panic(r)
		}
	}()
	result = fn()
	ok = true
	return
}

// ============================================================
// Program / statement dispatch
// ============================================================

func (p *Parser) parseProgram() *ast.Program {
	start := p.peek().Span.Start
	prog := &ast.Program{}
	for !p.isAtEnd() {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	prog.Span = span.Span{Start: start, End: p.prevEnd()}
	return prog
}

func (p *Parser) parseStatement() ast.Stmt {
	if p.check(token.AT) {
		return p.parseDecoratedDeclaration()
	}

	switch p.peekKind() {
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		tok := p.advance()
		return &ast.EmptyStmt{StmtBase: stmtBase(tok.Span)}
	case token.KW_VAR, token.KW_LET, token.KW_CONST:
		if p.check(token.KW_CONST) && p.peekAhead(1).Kind == token.KW_ENUM {
			p.advance()
			return p.parseEnumDecl(false, true)
		}
		stmt := p.parseVarDeclStmt()
		p.expect(token.SEMICOLON)
		return stmt
	case token.KW_FUNCTION:
		return p.parseFunctionDecl(false, false)
	case token.KW_ASYNC:
		if p.peekAhead(1).Kind == token.KW_FUNCTION {
			p.advance()
			return p.parseFunctionDecl(false, true)
		}
		return p.parseExprStmt()
	case token.KW_CLASS:
		return p.parseClassDecl(nil, false)
	case token.KW_ABSTRACT:
		return p.parseClassDecl(nil, false)
	case token.KW_INTERFACE:
		return p.parseInterfaceDecl(false)
	case token.KW_TYPE:
		stmt := p.parseTypeAliasDecl(false)
		p.expect(token.SEMICOLON)
		return stmt
	case token.KW_ENUM:
		return p.parseEnumDecl(false, false)
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_DO:
		return p.parseDoWhileStmt()
	case token.KW_FOR:
		return p.parseForStmt()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.KW_BREAK:
		return p.parseBreakStmt()
	case token.KW_CONTINUE:
		return p.parseContinueStmt()
	case token.KW_SWITCH:
		return p.parseSwitchStmt()
	case token.KW_TRY:
		return p.parseTryStmt()
	case token.KW_THROW:
		return p.parseThrowStmt()
	case token.KW_IMPORT:
		stmt := p.parseImportStmt()
		p.expect(token.SEMICOLON)
		return stmt
	case token.KW_EXPORT:
		return p.parseExportStmt()
	case token.KW_DECLARE:
		// `declare` prefixes an ambient declaration; parsed but the ambient
		// distinction has no effect on later stages, so we just skip past it.
		p.advance()
		return p.parseStatement()
	default:
		return p.parseExprStmt()
	}
}

// parseDecoratedDeclaration parses a leading run of @decorator expressions,
// legal only immediately before a class declaration (optionally exported).
func (p *Parser) parseDecoratedDeclaration() ast.Stmt {
	decorators := p.parseDecorators()
	if p.check(token.KW_EXPORT) {
		start := p.advance()
		def := false
		if p.check(token.KW_DEFAULT) {
			p.advance()
			def = true
		}
		if !p.match(token.KW_CLASS, token.KW_ABSTRACT) {
			p.fail(p.peek().Span, "decorators are only legal before a class declaration")
		}
		decl := p.parseClassDecl(decorators, true)
		return &ast.ExportStmt{
			StmtBase: stmtBase(p.spanFrom(start.Span.Start)),
			Default:  def,
			Decl:     decl,
		}
	}
	if !p.match(token.KW_CLASS, token.KW_ABSTRACT) {
		p.fail(p.peek().Span, "decorators are only legal before a class declaration or a class member")
	}
	return p.parseClassDecl(decorators, false)
}

func (p *Parser) parseDecorators() []ast.Decorator {
	var decorators []ast.Decorator
	for p.check(token.AT) {
		start := p.advance()
		expr := p.parseLeftHandSide()
		decorators = append(decorators, ast.Decorator{
			Span:       p.spanFrom(start.Span.Start),
			Expression: expr,
		})
	}
	return decorators
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBRACE)
	block := &ast.BlockStmt{}
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		block.Stmts = append(block.Stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)
	block.Span = p.spanFrom(start.Span.Start)
	return block
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.peek().Span.Start
	expr := p.parseExpr()
	p.expect(token.SEMICOLON)
	return &ast.ExprStmt{StmtBase: stmtBase(p.spanFrom(start)), Expr: expr}
}

// ============================================================
// Variable declarations
// ============================================================

func (p *Parser) parseVarDeclStmt() *ast.VarDeclStmt {
	start := p.advance() // var | let | const
	kind := ast.VarKindVar
	switch start.Kind {
	case token.KW_LET:
		kind = ast.VarKindLet
	case token.KW_CONST:
		kind = ast.VarKindConst
	}
	stmt := &ast.VarDeclStmt{Kind: kind}
	stmt.Declarations = append(stmt.Declarations, p.parseVarDeclarator())
	for p.check(token.COMMA) {
		p.advance()
		stmt.Declarations = append(stmt.Declarations, p.parseVarDeclarator())
	}
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

func (p *Parser) parseVarDeclarator() ast.VarDeclarator {
	nameTok := p.expectName()
	d := ast.VarDeclarator{Span: nameTok.Span, Name: nameTok.Lexeme}
	if p.check(token.COLON) {
		p.advance()
		d.Type = p.parseType()
	}
	if p.check(token.ASSIGN) {
		p.advance()
		d.Init = p.parseAssignment()
	}
	d.Span = p.spanFrom(nameTok.Span.Start)
	return d
}

// ============================================================
// Functions
// ============================================================

func (p *Parser) parseFunctionDecl(exported, async bool) *ast.FunctionDecl {
	start := p.expect(token.KW_FUNCTION)
	isDefault := false
	if exported && p.check(token.KW_DEFAULT) {
		p.advance()
		isDefault = true
	}
	decl := &ast.FunctionDecl{Async: async, Exported: exported, Default: isDefault}
	if p.check(token.IDENT) || (!isDefault && p.peek().Kind != token.LPAREN) {
		decl.Name = p.expectName().Lexeme
	}
	p.skipTypeParams()
	decl.Params = p.parseParamList()
	if p.check(token.COLON) {
		p.advance()
		decl.ReturnType = p.parseType()
	}
	decl.Body = p.parseBlock()
	decl.Span = p.spanFrom(start.Span.Start)
	return decl
}

// parseParamList parses `(a: T, b?: U, ...rest: V[])`.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.check(token.RPAREN) {
		start := p.peek().Span.Start
		param := ast.Param{}
		if p.check(token.DOT_DOT_DOT) {
			p.advance()
			param.Rest = true
		}
		// TS parameter-property modifiers (public/private/readonly on
		// constructor params) are accepted and discarded: this dialect
		// records field declarations only via explicit class bodies.
		for p.match(token.KW_PUBLIC, token.KW_PRIVATE, token.KW_PROTECTED, token.KW_READONLY) {
			p.advance()
		}
		nameTok := p.expectName()
		param.Name = nameTok.Lexeme
		if p.check(token.QUESTION) {
			p.advance()
			param.Optional = true
		}
		if p.check(token.COLON) {
			p.advance()
			param.Type = p.parseType()
		}
		if p.check(token.ASSIGN) {
			p.advance()
			param.Default = p.parseAssignment()
		}
		param.Span = p.spanFrom(start)
		params = append(params, param)
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params
}

// skipTypeParams consumes an optional `<T, U extends V = W>` generic
// parameter list. Generic parameters are parsed for syntactic completeness
// and erased at emission; no substitution is performed by the checker.
func (p *Parser) skipTypeParams() []ast.TypeParam {
	if !p.check(token.LT) {
		return nil
	}
	p.advance()
	var params []ast.TypeParam
	for !p.check(token.GT) && p.peekKind() != token.SHR && p.peekKind() != token.USHR {
		start := p.peek().Span.Start
		name := p.expectName().Lexeme
		tp := ast.TypeParam{Name: name}
		if p.check(token.KW_EXTENDS) {
			p.advance()
			tp.Constraint = p.parseType()
		}
		if p.check(token.ASSIGN) {
			p.advance()
			tp.Default = p.parseType()
		}
		tp.Span = p.spanFrom(start)
		params = append(params, tp)
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	p.consumeGT()
	return params
}

// ============================================================
// Control flow
// ============================================================

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // if
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlockOrSingle()
	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if p.check(token.KW_ELSE) {
		p.advance()
		if p.check(token.KW_IF) {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlockOrSingle()
		}
	}
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

// parseBlockOrSingle allows a bare statement as an if/while/for body, always
// normalized to a *BlockStmt so the emitter has one shape to print.
func (p *Parser) parseBlockOrSingle() *ast.BlockStmt {
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	start := p.peek().Span.Start
	stmt := p.parseStatement()
	return &ast.BlockStmt{StmtBase: stmtBase(p.spanFrom(start)), Stmts: []ast.Stmt{stmt}}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance()
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlockOrSingle()
	return &ast.WhileStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Condition: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	start := p.advance() // do
	body := p.parseBlockOrSingle()
	p.expect(token.KW_WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.SEMICOLON)
	return &ast.DoWhileStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Body: body, Condition: cond}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.advance()
	stmt := &ast.ReturnStmt{}
	if !p.check(token.SEMICOLON) {
		stmt.Value = p.parseExpr()
	}
	p.expect(token.SEMICOLON)
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.advance()
	stmt := &ast.BreakStmt{}
	if p.check(token.IDENT) {
		stmt.Label = p.advance().Lexeme
	}
	p.expect(token.SEMICOLON)
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	start := p.advance()
	stmt := &ast.ContinueStmt{}
	if p.check(token.IDENT) {
		stmt.Label = p.advance().Lexeme
	}
	p.expect(token.SEMICOLON)
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

func (p *Parser) parseThrowStmt() *ast.ThrowStmt {
	start := p.advance()
	value := p.parseExpr()
	p.expect(token.SEMICOLON)
	return &ast.ThrowStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Value: value}
}

func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	start := p.advance()
	p.expect(token.LPAREN)
	disc := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	stmt := &ast.SwitchStmt{Discriminant: disc}
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		caseStart := p.peek().Span.Start
		c := ast.SwitchCase{}
		if p.check(token.KW_CASE) {
			p.advance()
			c.Test = p.parseExpr()
		} else {
			p.expect(token.KW_DEFAULT)
		}
		p.expect(token.COLON)
		for !p.match(token.KW_CASE, token.KW_DEFAULT, token.RBRACE) && !p.isAtEnd() {
			c.Body = append(c.Body, p.parseStatement())
		}
		c.Span = p.spanFrom(caseStart)
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(token.RBRACE)
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

func (p *Parser) parseTryStmt() *ast.TryStmt {
	start := p.advance()
	stmt := &ast.TryStmt{Block: p.parseBlock()}
	if p.check(token.KW_CATCH) {
		catchStart := p.advance()
		clause := &ast.CatchClause{}
		if p.check(token.LPAREN) {
			p.advance()
			clause.Param = p.expectName().Lexeme
			if p.check(token.COLON) { // catch(e: unknown) — type erased
				p.advance()
				p.parseType()
			}
			p.expect(token.RPAREN)
		}
		clause.Body = p.parseBlock()
		clause.Span = p.spanFrom(catchStart.Span.Start)
		stmt.Catch = clause
	}
	if p.check(token.KW_FINALLY) {
		p.advance()
		stmt.Finally = p.parseBlock()
	}
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

// parseForStmt dispatches between C-style, for-in, and for-of loops.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.advance()
	p.expect(token.LPAREN)

	if p.check(token.SEMICOLON) {
		return p.parseCStyleFor(start, nil)
	}

	if p.match(token.KW_VAR, token.KW_LET, token.KW_CONST) {
		kindTok := p.advance()
		kind := varKindOf(kindTok.Kind)
		nameTok := p.expectName()
		var varType ast.TypeExpr
		if p.check(token.COLON) {
			p.advance()
			varType = p.parseType()
		}
		if p.check(token.KW_OF) {
			p.advance()
			iterable := p.parseAssignment()
			p.expect(token.RPAREN)
			body := p.parseBlockOrSingle()
			return &ast.ForOfStmt{
				StmtBase: stmtBase(p.spanFrom(start.Span.Start)),
				Kind:     kind, VarName: nameTok.Lexeme, VarType: varType, IsDecl: true,
				Iterable: iterable, Body: body,
			}
		}
		if p.check(token.KW_IN) {
			p.advance()
			object := p.parseAssignment()
			p.expect(token.RPAREN)
			body := p.parseBlockOrSingle()
			return &ast.ForInStmt{
				StmtBase: stmtBase(p.spanFrom(start.Span.Start)),
				Kind:     kind, VarName: nameTok.Lexeme, VarType: varType, IsDecl: true,
				Object: object, Body: body,
			}
		}
		// C-style for with a declared init: rebuild the declarator manually
		// since the name/type/of/in check above already consumed it.
		decl := ast.VarDeclarator{Span: nameTok.Span, Name: nameTok.Lexeme, Type: varType}
		if p.check(token.ASSIGN) {
			p.advance()
			decl.Init = p.parseAssignment()
		}
		stmt := &ast.VarDeclStmt{Kind: kind, Declarations: []ast.VarDeclarator{decl}}
		for p.check(token.COMMA) {
			p.advance()
			stmt.Declarations = append(stmt.Declarations, p.parseVarDeclarator())
		}
		stmt.Span = p.spanFrom(start.Span.Start)
		return p.parseCStyleFor(start, stmt)
	}

	init := p.parseExpr()
	if p.check(token.KW_OF) {
		p.advance()
		iterable := p.parseAssignment()
		p.expect(token.RPAREN)
		body := p.parseBlockOrSingle()
		return &ast.ForOfStmt{
			StmtBase: stmtBase(p.spanFrom(start.Span.Start)),
			VarName:  exprIdentName(init), IsDecl: false, Iterable: iterable, Body: body,
		}
	}
	if p.check(token.KW_IN) {
		p.advance()
		object := p.parseAssignment()
		p.expect(token.RPAREN)
		body := p.parseBlockOrSingle()
		return &ast.ForInStmt{
			StmtBase: stmtBase(p.spanFrom(start.Span.Start)),
			VarName:  exprIdentName(init), IsDecl: false, Object: object, Body: body,
		}
	}
	initStmt := &ast.ExprStmt{StmtBase: stmtBase(init.GetSpan()), Expr: init}
	return p.parseCStyleFor(start, initStmt)
}

func exprIdentName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func varKindOf(k token.Kind) ast.VarKind {
	switch k {
	case token.KW_LET:
		return ast.VarKindLet
	case token.KW_CONST:
		return ast.VarKindConst
	default:
		return ast.VarKindVar
	}
}

func (p *Parser) parseCStyleFor(start token.Token, init ast.Node) *ast.ForStmt {
	p.expect(token.SEMICOLON)
	stmt := &ast.ForStmt{Init: init}
	if !p.check(token.SEMICOLON) {
		stmt.Condition = p.parseExpr()
	}
	p.expect(token.SEMICOLON)
	if !p.check(token.RPAREN) {
		stmt.Update = p.parseExpr()
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseBlockOrSingle()
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

// ============================================================
// Modules
// ============================================================

func (p *Parser) parseImportStmt() *ast.ImportStmt {
	start := p.advance() // import
	stmt := &ast.ImportStmt{}

	if p.check(token.STRING) {
		// import "side-effect-module";
		stmt.Source = p.advance().Lexeme
		stmt.Span = p.spanFrom(start.Span.Start)
		return stmt
	}

	if p.check(token.IDENT) {
		nameTok := p.advance()
		stmt.Specifiers = append(stmt.Specifiers, ast.ImportSpecifier{
			Span: nameTok.Span, Imported: "default", Local: nameTok.Lexeme, IsDefault: true,
		})
		if p.check(token.COMMA) {
			p.advance()
		}
	}

	if p.check(token.STAR) {
		starTok := p.advance()
		p.expect(token.KW_AS)
		localTok := p.expectName()
		stmt.Specifiers = append(stmt.Specifiers, ast.ImportSpecifier{
			Span: p.spanFrom(starTok.Span.Start), Imported: "*", Local: localTok.Lexeme, IsNamespace: true,
		})
	} else if p.check(token.LBRACE) {
		p.advance()
		for !p.check(token.RBRACE) {
			spec := p.parseImportSpecifier()
			stmt.Specifiers = append(stmt.Specifiers, spec)
			if !p.check(token.COMMA) {
				break
			}
			p.advance()
		}
		p.expect(token.RBRACE)
	}

	p.expect(token.KW_FROM)
	stmt.Source = p.expect(token.STRING).Lexeme
	stmt.Span = p.spanFrom(start.Span.Start)
	return stmt
}

func (p *Parser) parseImportSpecifier() ast.ImportSpecifier {
	nameTok := p.expectName()
	spec := ast.ImportSpecifier{Span: nameTok.Span, Imported: nameTok.Lexeme, Local: nameTok.Lexeme}
	if p.check(token.KW_AS) {
		p.advance()
		spec.Local = p.expectName().Lexeme
	}
	spec.Span = p.spanFrom(nameTok.Span.Start)
	return spec
}

func (p *Parser) parseExportStmt() ast.Stmt {
	start := p.advance() // export

	if p.check(token.KW_DEFAULT) {
		p.advance()
		if p.match(token.KW_FUNCTION, token.KW_CLASS, token.KW_ABSTRACT) || (p.check(token.KW_ASYNC) && p.peekAhead(1).Kind == token.KW_FUNCTION) {
			var decl ast.Stmt
			switch {
			case p.check(token.KW_ASYNC):
				p.advance()
				decl = p.parseFunctionDecl(true, true)
			case p.check(token.KW_FUNCTION):
				decl = p.parseFunctionDecl(true, false)
			default:
				decl = p.parseClassDecl(nil, true)
			}
			return &ast.ExportStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Default: true, Decl: decl}
		}
		value := p.parseAssignment()
		p.expect(token.SEMICOLON)
		return &ast.ExportStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Default: true, Value: value}
	}

	if p.check(token.LBRACE) {
		p.advance()
		var names []string
		for !p.check(token.RBRACE) {
			names = append(names, p.expectName().Lexeme)
			if p.check(token.KW_AS) {
				p.advance()
				p.expectName()
			}
			if !p.check(token.COMMA) {
				break
			}
			p.advance()
		}
		p.expect(token.RBRACE)
		source := ""
		if p.check(token.KW_FROM) {
			p.advance()
			source = p.expect(token.STRING).Lexeme
		}
		p.expect(token.SEMICOLON)
		return &ast.ExportStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Names: names, Source: source}
	}

	var decl ast.Stmt
	switch p.peekKind() {
	case token.KW_ASYNC:
		p.advance()
		decl = p.parseFunctionDecl(true, true)
	case token.KW_FUNCTION:
		decl = p.parseFunctionDecl(true, false)
	case token.KW_CLASS, token.KW_ABSTRACT:
		decl = p.parseClassDecl(nil, true)
	case token.KW_INTERFACE:
		decl = p.parseInterfaceDecl(true)
	case token.KW_TYPE:
		decl = p.parseTypeAliasDecl(true)
		p.expect(token.SEMICOLON)
	case token.KW_ENUM:
		decl = p.parseEnumDecl(true, false)
	case token.KW_CONST:
		if p.peekAhead(1).Kind == token.KW_ENUM {
			p.advance()
			decl = p.parseEnumDecl(true, true)
		} else {
			decl = p.parseVarDeclStmt()
			p.expect(token.SEMICOLON)
		}
	case token.KW_VAR, token.KW_LET:
		decl = p.parseVarDeclStmt()
		p.expect(token.SEMICOLON)
	default:
		p.fail(p.peek().Span, "expected a declaration after 'export', got %q", p.peekKind())
	}
	return &ast.ExportStmt{StmtBase: stmtBase(p.spanFrom(start.Span.Start)), Decl: decl}
}

// ============================================================
// Interfaces, type aliases, enums
// ============================================================

func (p *Parser) parseInterfaceDecl(exported bool) *ast.InterfaceDecl {
	start := p.advance() // interface
	name := p.expectName().Lexeme
	decl := &ast.InterfaceDecl{Name: name, Exported: exported}
	decl.TypeParams = p.skipTypeParams()
	if p.check(token.KW_EXTENDS) {
		p.advance()
		decl.Extends = append(decl.Extends, p.parseType())
		for p.check(token.COMMA) {
			p.advance()
			decl.Extends = append(decl.Extends, p.parseType())
		}
	}
	p.expect(token.LBRACE)
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if p.check(token.LBRACKET) && p.looksLikeIndexSignature() {
			decl.IndexSignature = p.parseIndexSignature()
		} else {
			decl.Members = append(decl.Members, p.parseInterfaceMember())
		}
		if p.match(token.SEMICOLON, token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	decl.Span = p.spanFrom(start.Span.Start)
	return decl
}

// looksLikeIndexSignature checks for `[` IDENT `:` without consuming.
func (p *Parser) looksLikeIndexSignature() bool {
	return p.peekAhead(1).Kind == token.IDENT && p.peekAhead(2).Kind == token.COLON
}

func (p *Parser) parseIndexSignature() *ast.IndexSignature {
	start := p.advance() // [
	keyName := p.expectName().Lexeme
	p.expect(token.COLON)
	keyType := p.parseType()
	p.expect(token.RBRACKET)
	p.expect(token.COLON)
	valueType := p.parseType()
	return &ast.IndexSignature{
		Span: p.spanFrom(start.Span.Start), KeyName: keyName, KeyType: keyType, ValueType: valueType,
	}
}

func (p *Parser) parseInterfaceMember() ast.InterfaceMember {
	start := p.peek().Span.Start
	readonly := false
	if p.check(token.KW_READONLY) {
		p.advance()
		readonly = true
	}
	name := p.expectName().Lexeme
	member := ast.InterfaceMember{Name: name, Readonly: readonly}
	if p.check(token.QUESTION) {
		p.advance()
		member.Optional = true
	}
	if p.check(token.LPAREN) {
		member.Method = true
		member.Params = p.parseParamList()
		if p.check(token.COLON) {
			p.advance()
			member.Type = p.parseType()
		}
	} else {
		p.expect(token.COLON)
		member.Type = p.parseType()
	}
	member.Span = p.spanFrom(start)
	return member
}

func (p *Parser) parseTypeAliasDecl(exported bool) *ast.TypeAliasDecl {
	start := p.advance() // type
	name := p.expectName().Lexeme
	decl := &ast.TypeAliasDecl{Name: name, Exported: exported}
	decl.TypeParams = p.skipTypeParams()
	p.expect(token.ASSIGN)
	decl.Type = p.parseType()
	decl.Span = p.spanFrom(start.Span.Start)
	return decl
}

func (p *Parser) parseEnumDecl(exported, isConst bool) *ast.EnumDecl {
	start := p.advance() // enum
	name := p.expectName().Lexeme
	decl := &ast.EnumDecl{Name: name, Exported: exported, Const: isConst}
	p.expect(token.LBRACE)
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		memberStart := p.peek().Span.Start
		memberName := p.expectName().Lexeme
		member := ast.EnumMember{Name: memberName}
		if p.check(token.ASSIGN) {
			p.advance()
			member.Init = p.parseAssignment()
		}
		member.Span = p.spanFrom(memberStart)
		decl.Members = append(decl.Members, member)
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	decl.Span = p.spanFrom(start.Span.Start)
	return decl
}

// ============================================================
// Classes
// ============================================================

func (p *Parser) parseClassDecl(decorators []ast.Decorator, exported bool) *ast.ClassDecl {
	abstract := false
	startTok := p.peek()
	if p.check(token.KW_ABSTRACT) {
		p.advance()
		abstract = true
	}
	start := p.expect(token.KW_CLASS)
	if abstract {
		start = startTok
	}
	decl := &ast.ClassDecl{Decorators: decorators, Exported: exported, Abstract: abstract}
	if p.check(token.IDENT) {
		decl.Name = p.expectName().Lexeme
	}
	decl.TypeParams = p.skipTypeParams()
	if p.check(token.KW_EXTENDS) {
		p.advance()
		decl.SuperClass = p.parseType()
		if p.check(token.LPAREN) {
			decl.SuperArgs = p.parseArgumentList()
		}
	}
	if p.check(token.KW_IMPLEMENTS) {
		p.advance()
		decl.Implements = append(decl.Implements, p.parseType())
		for p.check(token.COMMA) {
			p.advance()
			decl.Implements = append(decl.Implements, p.parseType())
		}
	}
	p.expect(token.LBRACE)
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if p.check(token.SEMICOLON) {
			p.advance()
			continue
		}
		p.parseClassMember(decl)
	}
	p.expect(token.RBRACE)
	decl.Span = p.spanFrom(start.Span.Start)
	return decl
}

func (p *Parser) parseClassMember(decl *ast.ClassDecl) {
	start := p.peek().Span.Start
	memberDecorators := p.parseDecorators()

	var visibility ast.Visibility
	static, readonly, abstract, async := false, false, false, false
	kind := ast.MethodKindMethod

modifiers:
	for {
		switch p.peekKind() {
		case token.KW_PUBLIC:
			p.advance()
			visibility = ast.VisibilityPublic
		case token.KW_PRIVATE:
			p.advance()
			visibility = ast.VisibilityPrivate
		case token.KW_PROTECTED:
			p.advance()
			visibility = ast.VisibilityProtected
		case token.KW_STATIC:
			p.advance()
			static = true
		case token.KW_READONLY:
			p.advance()
			readonly = true
		case token.KW_ABSTRACT:
			p.advance()
			abstract = true
		case token.KW_ASYNC:
			p.advance()
			async = true
		default:
			break modifiers
		}
	}

	if p.check(token.KW_GET) && p.peekAhead(1).Kind != token.LPAREN {
		p.advance()
		kind = ast.MethodKindGetter
	} else if p.check(token.KW_SET) && p.peekAhead(1).Kind != token.LPAREN {
		p.advance()
		kind = ast.MethodKindSetter
	}

	nameTok := p.expectName()
	name := nameTok.Lexeme
	if name == "constructor" {
		kind = ast.MethodKindConstructor
	}

	optional := false
	if p.check(token.QUESTION) {
		p.advance()
		optional = true
	}

	if p.check(token.LPAREN) || p.check(token.LT) {
		p.skipTypeParams()
		params := p.parseParamList()
		var returnType ast.TypeExpr
		if p.check(token.COLON) {
			p.advance()
			returnType = p.parseType()
		}
		var body *ast.BlockStmt
		if p.check(token.LBRACE) {
			body = p.parseBlock()
		} else {
			p.expect(token.SEMICOLON) // abstract/interface-style method: no body
		}
		decl.Methods = append(decl.Methods, ast.MethodDecl{
			Span: p.spanFrom(start), Decorators: memberDecorators, Name: name, Params: params,
			ReturnType: returnType, Body: body, Static: static, Abstract: abstract, Async: async,
			Kind: kind, Visibility: visibility,
		})
		return
	}

	prop := ast.PropertyDecl{
		Decorators: memberDecorators, Name: name, Static: static,
		Readonly: readonly, Optional: optional, Abstract: abstract, Visibility: visibility,
	}
	if p.check(token.COLON) {
		p.advance()
		prop.Type = p.parseType()
	}
	if p.check(token.ASSIGN) {
		p.advance()
		prop.Init = p.parseAssignment()
	}
	p.expect(token.SEMICOLON)
	prop.Span = p.spanFrom(start)
	decl.Properties = append(decl.Properties, prop)
}

// ============================================================
// Expressions
// ============================================================

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	// Arrow functions start like a parenthesized expression or a bare
	// identifier; check both forms before falling into the precedence chain.
	if arrow, ok := p.tryParseArrowFunction(); ok {
		return arrow
	}

	left := p.parseConditional()
	if assignOps[p.peekKind()] {
		opTok := p.advance()
		right := p.parseAssignment()
		return &ast.AssignExpr{
			ExprBase: exprBase(span.Span{Start: left.GetSpan().Start, End: right.GetSpan().End}),
			Op:       opTok.Kind, Target: left, Value: right,
		}
	}
	return left
}

// tryParseArrowFunction detects `x => ...` and `(params) => ...` forms.
// The single-identifier form is fully determined by one token of lookahead;
// the parenthesized form requires the bounded speculation the grammar calls
// for, since `(a, b)` is also a valid parenthesized... expression is not
// actually valid for more than one element, but `(a)` alone is ambiguous
// with a parenthesized expression and must be tried both ways.
func (p *Parser) tryParseArrowFunction() (ast.Expr, bool) {
	if p.check(token.IDENT) && p.peekAhead(1).Kind == token.ARROW {
		start := p.peek().Span.Start
		nameTok := p.advance()
		p.advance() // =>
		param := ast.Param{Span: nameTok.Span, Name: nameTok.Lexeme}
		body := p.parseArrowBody()
		return &ast.ArrowFunctionExpr{
			ExprBase: exprBase(p.spanFrom(start)), Params: []ast.Param{param}, Body: body,
		}, true
	}

	if p.check(token.KW_ASYNC) && p.peekAhead(1).Kind == token.IDENT && p.peekAhead(2).Kind == token.ARROW {
		start := p.advance().Span.Start
		nameTok := p.advance()
		p.advance()
		param := ast.Param{Span: nameTok.Span, Name: nameTok.Lexeme}
		body := p.parseArrowBody()
		return &ast.ArrowFunctionExpr{
			ExprBase: exprBase(p.spanFrom(start)), Params: []ast.Param{param}, Body: body, Async: true,
		}, true
	}

	if !p.check(token.LPAREN) && !p.check(token.KW_ASYNC) {
		return nil, false
	}

	result, ok := p.speculate(func() ast.Expr {
		start := p.peek().Span.Start
		async := false
		if p.check(token.KW_ASYNC) {
			p.advance()
			async = true
		}
		if !p.check(token.LPAREN) {
			p.fail(p.peek().Span, "not an arrow function")
		}
		params := p.parseParamList()
		var returnType ast.TypeExpr
		if p.check(token.COLON) {
			p.advance()
			returnType = p.parseType()
		}
		if !p.check(token.ARROW) {
			p.fail(p.peek().Span, "not an arrow function")
		}
		p.advance()
		body := p.parseArrowBody()
		return &ast.ArrowFunctionExpr{
			ExprBase: exprBase(p.spanFrom(start)), Params: params, ReturnType: returnType,
			Body: body, Async: async,
		}
	})
	return result, ok
}

func (p *Parser) parseArrowBody() ast.Node {
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseAssignment()
}

func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseBinary(bpNullish)
	if p.check(token.QUESTION) {
		p.advance()
		then := p.parseAssignment()
		p.expect(token.COLON)
		elseExpr := p.parseAssignment()
		return &ast.ConditionalExpr{
			ExprBase:  exprBase(span.Span{Start: cond.GetSpan().Start, End: elseExpr.GetSpan().End}),
			Condition: cond, Then: then, Else: elseExpr,
		}
	}
	return cond
}

// parseBinary implements precedence climbing over the binary/logical
// operator ladder, from nullish-or-logical-or down through exponentiation.
func (p *Parser) parseBinary(minBP int) ast.Expr {
	left := p.parseUnary()
	for {
		kind := p.peekKind()
		bp, rightAssoc := binaryInfo(kind)
		if bp == 0 || bp < minBP {
			return left
		}
		opTok := p.advance()
		nextMinBP := bp + 1
		if rightAssoc {
			nextMinBP = bp
		}
		right := p.parseBinary(nextMinBP)
		sp := span.Span{Start: left.GetSpan().Start, End: right.GetSpan().End}
		if isLogicalOp(kind) {
			left = &ast.LogicalExpr{ExprBase: exprBase(sp), Op: opTok.Kind, Left: left, Right: right}
		} else {
			left = &ast.BinaryExpr{ExprBase: exprBase(sp), Op: opTok.Kind, Left: left, Right: right}
		}
	}
}

var prefixUnaryOps = map[token.Kind]bool{
	token.BANG: true, token.MINUS: true, token.PLUS: true, token.TILDE: true,
	token.KW_TYPEOF: true, token.KW_DELETE: true, token.KW_AWAIT: true,
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()

	if tok.Kind == token.LT {
		// Prefix type-assertion cast: <T>expr. JSX ambiguity is out of scope.
		start := p.advance().Span.Start
		t := p.parseType()
		p.consumeGT()
		operand := p.parseUnary()
		return &ast.TypeAssertionExpr{
			ExprBase: exprBase(p.spanFrom(start)), Type: t, Expression: operand,
		}
	}

	if tok.Kind == token.PLUS_PLUS || tok.Kind == token.MINUS_MINUS {
		p.advance()
		operand := p.parseUnary()
		return &ast.UpdateExpr{
			ExprBase: exprBase(span.Span{Start: tok.Span.Start, End: operand.GetSpan().End}),
			Op:       tok.Kind, Operand: operand, Prefix: true,
		}
	}

	if prefixUnaryOps[tok.Kind] {
		p.advance()
		operand := p.parseUnary()
		result := ast.Expr(&ast.UnaryExpr{
			ExprBase: exprBase(span.Span{Start: tok.Span.Start, End: operand.GetSpan().End}),
			Op:       tok.Kind, Operand: operand,
		})
		if tok.Kind == token.KW_AWAIT {
			result = &ast.AwaitExpr{
				ExprBase: exprBase(span.Span{Start: tok.Span.Start, End: operand.GetSpan().End}),
				Argument: operand,
			}
		}
		return result
	}

	if tok.Kind == token.KW_YIELD {
		p.advance()
		delegate := false
		if p.check(token.STAR) {
			p.advance()
			delegate = true
		}
		var arg ast.Expr
		if !p.match(token.SEMICOLON, token.RPAREN, token.RBRACE, token.RBRACKET, token.COMMA, token.COLON, token.EOF) {
			arg = p.parseAssignment()
		}
		end := tok.Span.End
		if arg != nil {
			end = arg.GetSpan().End
		}
		return &ast.YieldExpr{ExprBase: exprBase(span.Span{Start: tok.Span.Start, End: end}), Argument: arg, Delegate: delegate}
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parseLeftHandSide()
	for {
		switch p.peekKind() {
		case token.PLUS_PLUS, token.MINUS_MINUS:
			opTok := p.advance()
			expr = &ast.UpdateExpr{
				ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: opTok.Span.End}),
				Op:       opTok.Kind, Operand: expr, Prefix: false,
			}
		case token.BANG:
			bangTok := p.advance()
			expr = &ast.NonNullExpr{
				ExprBase:   exprBase(span.Span{Start: expr.GetSpan().Start, End: bangTok.Span.End}),
				Expression: expr,
			}
		case token.KW_AS:
			p.advance()
			t := p.parseType()
			expr = &ast.AsExpr{
				ExprBase:   exprBase(span.Span{Start: expr.GetSpan().Start, End: p.prevEnd()}),
				Expression: expr, Type: t,
			}
		default:
			return expr
		}
	}
}

// parseLeftHandSide handles the call/member/computed/optional-chain/new
// productions, including the bounded speculation between a call-site
// type-argument list and the less-than operator.
func (p *Parser) parseLeftHandSide() ast.Expr {
	var expr ast.Expr
	if p.check(token.KW_NEW) {
		expr = p.parseNewExpr()
	} else {
		expr = p.parsePrimary()
	}

	for {
		switch p.peekKind() {
		case token.DOT:
			p.advance()
			nameTok := p.expectName()
			expr = &ast.MemberExpr{
				ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: nameTok.Span.End}),
				Object:   expr, Property: nameTok.Lexeme,
			}
		case token.QUESTION_DOT:
			p.advance()
			switch p.peekKind() {
			case token.LPAREN:
				args := p.parseArgumentList()
				expr = &ast.CallExpr{
					ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: p.prevEnd()}),
					Callee:   expr, Args: args, Optional: true,
				}
			case token.LBRACKET:
				p.advance()
				idx := p.parseExpr()
				end := p.expect(token.RBRACKET)
				expr = &ast.ComputedMemberExpr{
					ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: end.Span.End}),
					Object:   expr, Property: idx, Optional: true,
				}
			default:
				nameTok := p.expectName()
				expr = &ast.MemberExpr{
					ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: nameTok.Span.End}),
					Object:   expr, Property: nameTok.Lexeme, Optional: true,
				}
			}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBRACKET)
			expr = &ast.ComputedMemberExpr{
				ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: end.Span.End}),
				Object:   expr, Property: idx,
			}
		case token.LPAREN:
			args := p.parseArgumentList()
			expr = &ast.CallExpr{
				ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: p.prevEnd()}),
				Callee:   expr, Args: args,
			}
		case token.LT:
			// Speculate: call-site type arguments, e.g. `f<number>(x)`.
			if call, ok := p.speculateCallTypeArgs(expr); ok {
				expr = call
				continue
			}
			return expr
		case token.TEMPLATE_LITERAL, token.TEMPLATE_HEAD:
			tmpl := p.parseTemplateLiteral()
			expr = &ast.TaggedTemplateExpr{
				ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: tmpl.GetSpan().End}),
				Tag:      expr, Template: tmpl,
			}
		default:
			return expr
		}
	}
}

func (p *Parser) speculateCallTypeArgs(callee ast.Expr) (ast.Expr, bool) {
	return p.speculate(func() ast.Expr {
		p.advance() // <
		if !p.check(token.GT) {
			p.parseType()
			for p.check(token.COMMA) {
				p.advance()
				p.parseType()
			}
		}
		p.consumeGT()
		if !p.check(token.LPAREN) {
			p.fail(p.peek().Span, "not a call-site type-argument list")
		}
		args := p.parseArgumentList()
		return &ast.CallExpr{
			ExprBase: exprBase(span.Span{Start: callee.GetSpan().Start, End: p.prevEnd()}),
			Callee:   callee, Args: args,
		}
	})
}

func (p *Parser) parseArgumentList() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		if p.check(token.DOT_DOT_DOT) {
			start := p.advance().Span.Start
			arg := p.parseAssignment()
			args = append(args, &ast.SpreadExpr{ExprBase: exprBase(p.spanFrom(start)), Argument: arg})
		} else {
			args = append(args, p.parseAssignment())
		}
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseNewExpr() ast.Expr {
	start := p.advance() // new
	callee := p.parseLeftHandSideNoCall()
	var args []ast.Expr
	if p.check(token.LPAREN) {
		args = p.parseArgumentList()
	}
	return &ast.NewExpr{ExprBase: exprBase(p.spanFrom(start.Span.Start)), Callee: callee, Args: args}
}

// parseLeftHandSideNoCall parses the constructor reference in `new X.Y(...)`
// without consuming a following '(' as part of the reference itself.
func (p *Parser) parseLeftHandSideNoCall() ast.Expr {
	var expr ast.Expr
	if p.check(token.KW_NEW) {
		expr = p.parseNewExpr()
	} else {
		expr = p.parsePrimary()
	}
	for p.check(token.DOT) {
		p.advance()
		nameTok := p.expectName()
		expr = &ast.MemberExpr{
			ExprBase: exprBase(span.Span{Start: expr.GetSpan().Start, End: nameTok.Span.End}),
			Object:   expr, Property: nameTok.Lexeme,
		}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return parseNumberLit(tok)
	case token.STRING:
		p.advance()
		return &ast.StringLit{ExprBase: exprBase(tok.Span), Value: tok.Lexeme}
	case token.KW_TRUE:
		p.advance()
		return &ast.BoolLit{ExprBase: exprBase(tok.Span), Value: true}
	case token.KW_FALSE:
		p.advance()
		return &ast.BoolLit{ExprBase: exprBase(tok.Span), Value: false}
	case token.KW_NULL:
		p.advance()
		return &ast.NullLit{ExprBase: exprBase(tok.Span)}
	case token.KW_UNDEFINED:
		p.advance()
		return &ast.UndefinedLit{ExprBase: exprBase(tok.Span)}
	case token.KW_THIS:
		p.advance()
		return &ast.ThisExpr{ExprBase: exprBase(tok.Span)}
	case token.KW_SUPER:
		p.advance()
		return &ast.SuperExpr{ExprBase: exprBase(tok.Span)}
	case token.IDENT:
		p.advance()
		return &ast.Ident{ExprBase: exprBase(tok.Span), Name: tok.Lexeme}
	case token.TEMPLATE_LITERAL, token.TEMPLATE_HEAD:
		return p.parseTemplateLiteral()
	case token.LPAREN:
		p.advance()
		expr := p.parseExpr()
		end := p.expect(token.RPAREN)
		return &ast.ParenExpr{ExprBase: exprBase(span.Span{Start: tok.Span.Start, End: end.Span.End}), Expression: expr}
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseObjectLit()
	case token.KW_FUNCTION:
		return p.parseFunctionExpr(false)
	case token.KW_ASYNC:
		if p.peekAhead(1).Kind == token.KW_FUNCTION {
			p.advance()
			return p.parseFunctionExpr(true)
		}
	case token.KW_CLASS:
		decl := p.parseClassDecl(nil, false)
		return &ast.ClassExpr{ExprBase: exprBase(decl.Span), Class: decl}
	}

	p.fail(tok.Span, "unexpected token %q (%q)", tok.Kind, tok.Lexeme)
	return nil
}

func parseNumberLit(tok token.Token) *ast.NumberLit {
	raw := tok.Lexeme
	isBig := strings.HasSuffix(raw, "n")
	digits := strings.TrimSuffix(raw, "n")
	digits = strings.ReplaceAll(digits, "_", "")

	var value float64
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		v, _ := strconv.ParseUint(digits[2:], 16, 64)
		value = float64(v)
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		v, _ := strconv.ParseUint(digits[2:], 2, 64)
		value = float64(v)
	case strings.HasPrefix(digits, "0o") || strings.HasPrefix(digits, "0O"):
		v, _ := strconv.ParseUint(digits[2:], 8, 64)
		value = float64(v)
	default:
		v, _ := strconv.ParseFloat(digits, 64)
		value = v
	}
	return &ast.NumberLit{ExprBase: exprBase(tok.Span), Value: value, IsBig: isBig, Raw: raw}
}

func (p *Parser) parseFunctionExpr(async bool) *ast.FunctionExpr {
	start := p.advance() // function
	expr := &ast.FunctionExpr{Async: async}
	if p.check(token.IDENT) {
		expr.Name = p.advance().Lexeme
	}
	p.skipTypeParams()
	expr.Params = p.parseParamList()
	if p.check(token.COLON) {
		p.advance()
		expr.ReturnType = p.parseType()
	}
	expr.Body = p.parseBlock()
	expr.Span = p.spanFrom(start.Span.Start)
	return expr
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	start := p.advance() // [
	var elements []ast.Expr
	for !p.check(token.RBRACKET) {
		if p.check(token.DOT_DOT_DOT) {
			elStart := p.advance().Span.Start
			el := p.parseAssignment()
			elements = append(elements, &ast.SpreadExpr{ExprBase: exprBase(p.spanFrom(elStart)), Argument: el})
		} else {
			elements = append(elements, p.parseAssignment())
		}
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	end := p.expect(token.RBRACKET)
	return &ast.ArrayLit{ExprBase: exprBase(span.Span{Start: start.Span.Start, End: end.Span.End}), Elements: elements}
}

func (p *Parser) parseObjectLit() *ast.ObjectLit {
	start := p.advance() // {
	var props []ast.ObjectProperty
	for !p.check(token.RBRACE) {
		props = append(props, p.parseObjectProperty())
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	end := p.expect(token.RBRACE)
	return &ast.ObjectLit{ExprBase: exprBase(span.Span{Start: start.Span.Start, End: end.Span.End}), Properties: props}
}

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	start := p.peek().Span.Start

	if p.check(token.DOT_DOT_DOT) {
		p.advance()
		val := p.parseAssignment()
		return ast.ObjectProperty{Span: p.spanFrom(start), Spread: true, Value: val}
	}

	if p.check(token.LBRACKET) {
		p.advance()
		keyExpr := p.parseAssignment()
		p.expect(token.RBRACKET)
		p.expect(token.COLON)
		value := p.parseAssignment()
		return ast.ObjectProperty{Span: p.spanFrom(start), Computed: true, KeyExpr: keyExpr, Value: value}
	}

	var key string

	if p.check(token.STRING) || p.check(token.NUMBER) {
		key = p.advance().Lexeme
	} else {
		key = p.expectName().Lexeme
	}

	// Method shorthand: { greet(x) { ... } }
	if p.check(token.LPAREN) {
		params := p.parseParamList()
		var returnType ast.TypeExpr
		if p.check(token.COLON) {
			p.advance()
			returnType = p.parseType()
		}
		body := p.parseBlock()
		fn := &ast.FunctionExpr{
			ExprBase: exprBase(p.spanFrom(start)), Params: params, ReturnType: returnType, Body: body,
		}
		return ast.ObjectProperty{Span: p.spanFrom(start), Key: key, Value: fn}
	}

	if p.check(token.COLON) {
		p.advance()
		val := p.parseAssignment()
		return ast.ObjectProperty{Span: p.spanFrom(start), Key: key, Value: val}
	}

	// Shorthand { x } — value is an Ident referencing the same name.
	return ast.ObjectProperty{
		Span: p.spanFrom(start), Key: key,
		Value: &ast.Ident{ExprBase: exprBase(p.spanFrom(start)), Name: key},
	}
}

// parseTemplateLiteral consumes a TEMPLATE_LITERAL, or a
// TEMPLATE_HEAD/expr/TEMPLATE_MIDDLE.../TEMPLATE_TAIL run.
func (p *Parser) parseTemplateLiteral() *ast.TemplateLiteral {
	start := p.peek()
	if start.Kind == token.TEMPLATE_LITERAL {
		p.advance()
		return &ast.TemplateLiteral{ExprBase: exprBase(start.Span), Parts: []string{start.Lexeme}}
	}

	headTok := p.expect(token.TEMPLATE_HEAD)
	lit := &ast.TemplateLiteral{ExprBase: exprBase(headTok.Span), Parts: []string{headTok.Lexeme}}
	for {
		lit.Exprs = append(lit.Exprs, p.parseExpr())
		switch p.peekKind() {
		case token.TEMPLATE_MIDDLE:
			midTok := p.advance()
			lit.Parts = append(lit.Parts, midTok.Lexeme)
		case token.TEMPLATE_TAIL:
			tailTok := p.advance()
			lit.Parts = append(lit.Parts, tailTok.Lexeme)
			lit.Span = span.Span{Start: headTok.Span.Start, End: tailTok.Span.End}
			return lit
		default:
			p.fail(p.peek().Span, "unterminated template literal expression")
		}
	}
}

// ============================================================
// Type expressions
// ============================================================

// parseType implements: union → intersection → postfix (array/indexed
// access) → primary, plus the conditional-type extension after a primary
// type reference. `extends` is an unambiguous keyword signal at this
// position, so no backtracking is needed to recognize a conditional type
// (unlike the arrow-function and call-type-argument speculation points).
func (p *Parser) parseType() ast.TypeExpr {
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	if p.check(token.PIPE) { // leading `|` before the first arm is permitted
		p.advance()
	}
	start := p.peek().Span.Start
	first := p.parseIntersectionType()
	if !p.check(token.PIPE) {
		return first
	}
	arms := []ast.TypeExpr{first}
	for p.check(token.PIPE) {
		p.advance()
		arms = append(arms, p.parseIntersectionType())
	}
	return &ast.UnionTypeExpr{TypeExprBase: typeBase(p.spanFrom(start)), Arms: arms}
}

func (p *Parser) parseIntersectionType() ast.TypeExpr {
	if p.check(token.AMP) {
		p.advance()
	}
	start := p.peek().Span.Start
	first := p.parseConditionalTypeArm()
	if !p.check(token.AMP) {
		return first
	}
	arms := []ast.TypeExpr{first}
	for p.check(token.AMP) {
		p.advance()
		arms = append(arms, p.parseConditionalTypeArm())
	}
	return &ast.IntersectionTypeExpr{TypeExprBase: typeBase(p.spanFrom(start)), Arms: arms}
}

func (p *Parser) parseConditionalTypeArm() ast.TypeExpr {
	start := p.peek().Span.Start
	check := p.parsePostfixType()
	if !p.check(token.KW_EXTENDS) {
		return check
	}
	p.advance()
	extendsType := p.parsePostfixType()
	p.expect(token.QUESTION)
	trueType := p.parseType()
	p.expect(token.COLON)
	falseType := p.parseType()
	return &ast.ConditionalTypeExpr{
		TypeExprBase: typeBase(p.spanFrom(start)),
		Check:        check, Extends: extendsType, True: trueType, False: falseType,
	}
}

func (p *Parser) parsePostfixType() ast.TypeExpr {
	start := p.peek().Span.Start
	t := p.parsePrimaryType()
	for {
		switch p.peekKind() {
		case token.LBRACKET:
			p.advance()
			if p.check(token.RBRACKET) {
				p.advance()
				t = &ast.ArrayTypeExpr{TypeExprBase: typeBase(p.spanFrom(start)), Element: t}
				continue
			}
			idx := p.parseType()
			p.expect(token.RBRACKET)
			t = &ast.IndexedAccessTypeExpr{TypeExprBase: typeBase(p.spanFrom(start)), Object: t, Index: idx}
		default:
			return t
		}
	}
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	tok := p.peek()

	switch tok.Kind {
	case token.LPAREN:
		// Could be a parenthesized type or a function type `(a: T) => R`.
		if result, ok := p.speculateFunctionType(); ok {
			return result
		}
		p.advance()
		inner := p.parseType()
		p.expect(token.RPAREN)
		return &ast.ParenTypeExpr{TypeExprBase: typeBase(span.Span{Start: tok.Span.Start, End: p.prevEnd()}), Inner: inner}
	case token.LBRACKET:
		return p.parseTupleType()
	case token.LBRACE:
		return p.parseObjectType()
	case token.STRING:
		p.advance()
		return &ast.LiteralTypeExpr{TypeExprBase: typeBase(tok.Span), Kind: ast.LiteralTypeString, Value: tok.Lexeme}
	case token.NUMBER:
		p.advance()
		lit := parseNumberLit(tok)
		return &ast.LiteralTypeExpr{TypeExprBase: typeBase(tok.Span), Kind: ast.LiteralTypeNumber, Value: lit.Value}
	case token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.LiteralTypeExpr{TypeExprBase: typeBase(tok.Span), Kind: ast.LiteralTypeBoolean, Value: tok.Kind == token.KW_TRUE}
	case token.KW_TYPEOF:
		p.advance()
		nameTok := p.expectName()
		return &ast.TypeQueryExpr{TypeExprBase: typeBase(p.spanFrom(tok.Span.Start)), ExprName: nameTok.Lexeme}
	case token.KW_KEYOF:
		p.advance()
		operand := p.parsePostfixType()
		return &ast.KeyofTypeExpr{TypeExprBase: typeBase(p.spanFrom(tok.Span.Start)), Operand: operand}
	case token.KW_INFER:
		p.advance()
		nameTok := p.expectName()
		return &ast.InferTypeExpr{TypeExprBase: typeBase(p.spanFrom(tok.Span.Start)), Name: nameTok.Lexeme}
	default:
		if tok.Kind == token.IDENT || tok.Kind.IsKeyword() {
			p.advance()
			ref := &ast.TypeRef{TypeExprBase: typeBase(tok.Span), Name: tok.Lexeme}
			for p.check(token.DOT) { // qualified names: A.B.C
				p.advance()
				part := p.expectName()
				ref.Name += "." + part.Lexeme
			}
			if p.check(token.LT) {
				p.advance()
				if !p.check(token.GT) {
					ref.Args = append(ref.Args, p.parseType())
					for p.check(token.COMMA) {
						p.advance()
						ref.Args = append(ref.Args, p.parseType())
					}
				}
				p.consumeGT()
			}
			ref.Span = p.spanFrom(tok.Span.Start)
			return ref
		}
	}

	p.fail(tok.Span, "unexpected token in type position: %q (%q)", tok.Kind, tok.Lexeme)
	return nil
}

// speculateFunctionType mirrors speculate's rollback behavior but for
// TypeExpr results, since Go generics are avoided here to match the
// teacher's non-generic style throughout the codebase.
func (p *Parser) speculateFunctionType() (t ast.TypeExpr, ok bool) {
	save := p.pos
	savedPending := p.pendingGT
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(*SyntaxError); isSyntax {
				p.pos = save
				p.pendingGT = savedPending
				t, ok = nil, false
				return
			}
			panic(r)
		}
	}()
	start := p.peek().Span.Start
	p.expect(token.LPAREN)
	var params []ast.FunctionTypeParam
	for !p.check(token.RPAREN) {
		fp := ast.FunctionTypeParam{}
		if p.check(token.DOT_DOT_DOT) {
			p.advance()
			fp.Rest = true
		}
		fp.Name = p.expectName().Lexeme
		if p.check(token.QUESTION) {
			p.advance()
			fp.Optional = true
		}
		p.expect(token.COLON)
		fp.Type = p.parseType()
		params = append(params, fp)
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	if !p.check(token.ARROW) {
		p.fail(p.peek().Span, "not a function type")
	}
	p.advance()
	ret := p.parseType()
	t = &ast.FunctionTypeExpr{TypeExprBase: typeBase(p.spanFrom(start)), Params: params, ReturnType: ret}
	ok = true
	return
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	start := p.advance() // [
	var elements []ast.TypeExpr
	for !p.check(token.RBRACKET) {
		elStart := p.peek().Span.Start
		if p.check(token.DOT_DOT_DOT) {
			p.advance()
			inner := p.parseType()
			elements = append(elements, &ast.RestTypeExpr{TypeExprBase: typeBase(p.spanFrom(elStart)), Inner: inner})
		} else {
			t := p.parseType()
			if p.check(token.QUESTION) {
				p.advance()
				t = &ast.OptionalTypeExpr{TypeExprBase: typeBase(p.spanFrom(elStart)), Inner: t}
			}
			elements = append(elements, t)
		}
		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}
	end := p.expect(token.RBRACKET)
	return &ast.TupleTypeExpr{TypeExprBase: typeBase(span.Span{Start: start.Span.Start, End: end.Span.End}), Elements: elements}
}

func (p *Parser) parseObjectType() ast.TypeExpr {
	start := p.advance() // {
	obj := &ast.ObjectTypeExpr{}
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if p.check(token.LBRACKET) && p.looksLikeIndexSignature() {
			obj.IndexSignature = p.parseIndexSignature()
		} else {
			obj.Members = append(obj.Members, p.parseObjectTypeMember())
		}
		if p.match(token.SEMICOLON, token.COMMA) {
			p.advance()
		}
	}
	end := p.expect(token.RBRACE)
	obj.Span = span.Span{Start: start.Span.Start, End: end.Span.End}
	return obj
}

func (p *Parser) parseObjectTypeMember() ast.ObjectTypeMember {
	readonly := false
	if p.check(token.KW_READONLY) {
		p.advance()
		readonly = true
	}
	name := p.expectName().Lexeme
	member := ast.ObjectTypeMember{Name: name, Readonly: readonly}
	if p.check(token.QUESTION) {
		p.advance()
		member.Optional = true
	}
	if p.check(token.LPAREN) {
		member.Method = true
		params := p.parseParamList()
		for _, prm := range params {
			member.Params = append(member.Params, ast.FunctionTypeParam{Name: prm.Name, Type: prm.Type, Optional: prm.Optional, Rest: prm.Rest})
		}
		p.expect(token.COLON)
		member.Type = p.parseType()
	} else {
		p.expect(token.COLON)
		member.Type = p.parseType()
	}
	return member
}
