// Package parser builds ast.CompilationUnit parse trees from Reso source
// text via recursive descent. The teacher's own frontend/parser.go is
// goyacc-generated from a .y grammar file, a toolchain step unavailable here;
// this package is a hand-written stand-in that produces the same node shapes
// internal/codegen already expects (VarDecl carrying ast.VarDeclInfo, TypeName
// with "&" Data for references, the four-child For layout, and so on).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"reso/internal/ast"
	"reso/internal/lexer"
)

// Parser consumes a lexer.Lexer's Token stream and builds an ast.Node tree.
type Parser struct {
	file string
	lex  *lexer.Lexer
	err  error
}

// New returns a Parser over src, identified as file in diagnostics.
func New(file, src string) *Parser {
	return &Parser{file: file, lex: lexer.New(file, src)}
}

// Parse returns the CompilationUnit for the whole token stream, or the first
// syntax error encountered.
func Parse(file, src string) (*ast.CompilationUnit, error) {
	p := New(file, src)
	unit := p.parseUnit()
	if p.err != nil {
		return nil, p.err
	}
	return unit, nil
}

func (p *Parser) fail(tok lexer.Token, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	p.err = fmt.Errorf("%s:%d:%d: %s", p.file, tok.Line, tok.Col, msg)
}

func (p *Parser) peek() lexer.Token { return p.lex.Peek() }
func (p *Parser) next() lexer.Token { return p.lex.Next() }

func (p *Parser) atEOF() bool { return p.peek().Kind == lexer.EOF }

// expectPunct consumes the next token if it is Punct text, else records a
// syntax error and returns the unexpected token without consuming it.
func (p *Parser) expectPunct(text string) lexer.Token {
	t := p.peek()
	if t.Kind != lexer.Punct || t.Text != text {
		p.fail(t, "expected %q, found %s", text, t)
		return t
	}
	return p.next()
}

func (p *Parser) expectKeyword(word string) lexer.Token {
	t := p.peek()
	if t.Kind != lexer.Keyword || t.Text != word {
		p.fail(t, "expected keyword %q, found %s", word, t)
		return t
	}
	return p.next()
}

func (p *Parser) expectIdent() lexer.Token {
	t := p.peek()
	if t.Kind != lexer.Ident {
		p.fail(t, "expected identifier, found %s", t)
		return t
	}
	return p.next()
}

func (p *Parser) isPunct(text string) bool {
	t := p.peek()
	return t.Kind == lexer.Punct && t.Text == text
}

func (p *Parser) isKeyword(word string) bool {
	t := p.peek()
	return t.Kind == lexer.Keyword && t.Text == word
}

// parseUnit parses a whole file: a sequence of top-level declarations.
func (p *Parser) parseUnit() *ast.CompilationUnit {
	t0 := p.peek()
	root := &ast.Node{Kind: ast.Unit, Line: t0.Line, Col: t0.Col}
	for !p.atEOF() && p.err == nil {
		decl := p.parseTopLevelDecl()
		if decl == nil {
			break
		}
		root.Children = append(root.Children, decl)
	}
	return &ast.CompilationUnit{File: p.file, Root: root}
}

func (p *Parser) parseTopLevelDecl() *ast.Node {
	switch {
	case p.isKeyword("resource"):
		return p.parseResourceDecl()
	case p.isKeyword("type"):
		return p.parseTypeAliasDecl()
	case p.isKeyword("fn"):
		return p.parseFunctionDecl()
	default:
		t := p.peek()
		p.fail(t, "expected a declaration (resource/type/fn), found %s", t)
		return nil
	}
}

// parseResourceDecl: "resource" Ident "{" (Ident ":" TypeName ("," Ident ":" TypeName)* ","?)? "}"
func (p *Parser) parseResourceDecl() *ast.Node {
	kw := p.expectKeyword("resource")
	name := p.expectIdent()
	p.expectPunct("{")
	fieldList := &ast.Node{Kind: ast.FieldList, Line: kw.Line, Col: kw.Col}
	for !p.isPunct("}") && p.err == nil {
		ft := p.expectIdent()
		p.expectPunct(":")
		typeName := p.parseTypeName()
		fieldList.Children = append(fieldList.Children, &ast.Node{
			Kind: ast.Field, Data: ft.Text, Line: ft.Line, Col: ft.Col,
			Children: []*ast.Node{typeName},
		})
		if p.isPunct(",") {
			p.next()
		} else {
			break
		}
	}
	p.expectPunct("}")
	return &ast.Node{
		Kind: ast.ResourceDecl, Data: name.Text, Line: kw.Line, Col: kw.Col,
		Children: []*ast.Node{fieldList},
	}
}

// parseTypeAliasDecl: "type" Ident "=" TypeName ";"
func (p *Parser) parseTypeAliasDecl() *ast.Node {
	kw := p.expectKeyword("type")
	name := p.expectIdent()
	p.expectPunct("=")
	underlying := p.parseTypeName()
	p.expectPunct(";")
	return &ast.Node{
		Kind: ast.TypeAliasDecl, Data: name.Text, Line: kw.Line, Col: kw.Col,
		Children: []*ast.Node{underlying},
	}
}

// parseFunctionDecl: "fn" Ident "(" (Ident ":" TypeName ("," Ident ":" TypeName)* ","?)? ")" "->" TypeName Block
func (p *Parser) parseFunctionDecl() *ast.Node {
	kw := p.expectKeyword("fn")
	name := p.expectIdent()
	p.expectPunct("(")
	paramList := &ast.Node{Kind: ast.ParamList, Line: kw.Line, Col: kw.Col}
	for !p.isPunct(")") && p.err == nil {
		pt := p.expectIdent()
		p.expectPunct(":")
		typeName := p.parseTypeName()
		paramList.Children = append(paramList.Children, &ast.Node{
			Kind: ast.Param, Data: pt.Text, Line: pt.Line, Col: pt.Col,
			Children: []*ast.Node{typeName},
		})
		if p.isPunct(",") {
			p.next()
		} else {
			break
		}
	}
	p.expectPunct(")")
	p.expectPunct("->")
	retType := p.parseTypeName()
	body := p.parseBlock()
	return &ast.Node{
		Kind: ast.FunctionDecl, Data: name.Text, Line: kw.Line, Col: kw.Col,
		Children: []*ast.Node{paramList, retType, body},
	}
}

// parseTypeName parses a primitive/resource name or a "&" reference prefix.
func (p *Parser) parseTypeName() *ast.Node {
	t := p.peek()
	if t.Kind == lexer.Punct && t.Text == "&" {
		p.next()
		pointee := p.parseTypeName()
		return &ast.Node{Kind: ast.TypeName, Data: "&", Line: t.Line, Col: t.Col, Children: []*ast.Node{pointee}}
	}
	name := p.expectIdent()
	return &ast.Node{Kind: ast.TypeName, Data: name.Text, Line: name.Line, Col: name.Col}
}

// parseBlock: "{" Stmt* "}"
func (p *Parser) parseBlock() *ast.Node {
	open := p.expectPunct("{")
	blk := &ast.Node{Kind: ast.Block, Line: open.Line, Col: open.Col}
	for !p.isPunct("}") && !p.atEOF() && p.err == nil {
		blk.Children = append(blk.Children, p.parseStmt())
	}
	p.expectPunct("}")
	return blk
}

func (p *Parser) parseStmt() *ast.Node {
	switch {
	case p.isPunct("{"):
		return p.parseBlock()
	case p.isKeyword("var") || p.isKeyword("mut"):
		return p.parseVarDecl()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("return"):
		return p.parseReturn()
	default:
		return p.parseSimpleStmt()
	}
}

// parseVarDecl: ("var" | "mut") Ident (":" TypeName)? "=" Expr ";"
func (p *Parser) parseVarDecl() *ast.Node {
	kw := p.next()
	mutable := kw.Text == "mut"
	name := p.expectIdent()
	var typeNode *ast.Node
	if p.isPunct(":") {
		p.next()
		typeNode = p.parseTypeName()
	}
	p.expectPunct("=")
	init := p.parseExpr()
	p.expectPunct(";")
	return &ast.Node{
		Kind: ast.VarDecl,
		Data: ast.VarDeclInfo{Name: name.Text, Mutable: mutable},
		Line: kw.Line, Col: kw.Col,
		Children: []*ast.Node{typeNode, init},
	}
}

// parseSimpleStmt distinguishes an assignment ("lhs = expr;") from a bare
// expression statement by speculatively parsing an expression first: a
// standalone Identifier immediately followed by "=" is an Assignment.
func (p *Parser) parseSimpleStmt() *ast.Node {
	start := p.peek()
	expr := p.parseExpr()
	if expr.Kind == ast.Identifier && p.isPunct("=") {
		p.next()
		rhs := p.parseExpr()
		p.expectPunct(";")
		return &ast.Node{Kind: ast.Assignment, Line: start.Line, Col: start.Col, Children: []*ast.Node{expr, rhs}}
	}
	p.expectPunct(";")
	return &ast.Node{Kind: ast.ExprStmt, Line: start.Line, Col: start.Col, Children: []*ast.Node{expr}}
}

// parseSimpleStmtNoSemi is the init/post-clause form used inside a for header,
// where the statement is not itself terminated by ";" (the header's own
// separators serve that role). It additionally accepts a var/mut binding, so
// a for loop can scope its own counter to the loop (§4.4's "for" init scope).
func (p *Parser) parseSimpleStmtNoSemi() *ast.Node {
	if p.isKeyword("var") || p.isKeyword("mut") {
		return p.parseVarDeclNoSemi()
	}
	start := p.peek()
	expr := p.parseExpr()
	if expr.Kind == ast.Identifier && p.isPunct("=") {
		p.next()
		rhs := p.parseExpr()
		return &ast.Node{Kind: ast.Assignment, Line: start.Line, Col: start.Col, Children: []*ast.Node{expr, rhs}}
	}
	return &ast.Node{Kind: ast.ExprStmt, Line: start.Line, Col: start.Col, Children: []*ast.Node{expr}}
}

// parseVarDeclNoSemi is parseVarDecl without the trailing ";", used only for
// a for statement's init clause.
func (p *Parser) parseVarDeclNoSemi() *ast.Node {
	kw := p.next()
	mutable := kw.Text == "mut"
	name := p.expectIdent()
	var typeNode *ast.Node
	if p.isPunct(":") {
		p.next()
		typeNode = p.parseTypeName()
	}
	p.expectPunct("=")
	init := p.parseExpr()
	return &ast.Node{
		Kind: ast.VarDecl,
		Data: ast.VarDeclInfo{Name: name.Text, Mutable: mutable},
		Line: kw.Line, Col: kw.Col,
		Children: []*ast.Node{typeNode, init},
	}
}

// parseIf: "if" Expr Block ("else" (If | Block))?
func (p *Parser) parseIf() *ast.Node {
	kw := p.expectKeyword("if")
	cond := p.parseExpr()
	thenBlk := p.parseBlock()
	children := []*ast.Node{cond, thenBlk}
	if p.isKeyword("else") {
		p.next()
		if p.isKeyword("if") {
			// An else-if is wrapped in a Block so the else arm always has
			// the Block shape internal/codegen's lowerIf lowers.
			nested := p.parseIf()
			children = append(children, &ast.Node{Kind: ast.Block, Line: nested.Line, Col: nested.Col, Children: []*ast.Node{nested}})
		} else {
			children = append(children, p.parseBlock())
		}
	}
	return &ast.Node{Kind: ast.If, Line: kw.Line, Col: kw.Col, Children: children}
}

// parseWhile: "while" Expr Block
func (p *Parser) parseWhile() *ast.Node {
	kw := p.expectKeyword("while")
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.Node{Kind: ast.While, Line: kw.Line, Col: kw.Col, Children: []*ast.Node{cond, body}}
}

// parseFor: "for" "(" SimpleStmt? ";" Expr? ";" SimpleStmt? ")" Block
func (p *Parser) parseFor() *ast.Node {
	kw := p.expectKeyword("for")
	p.expectPunct("(")

	var initStmt *ast.Node
	if !p.isPunct(";") {
		initStmt = p.parseSimpleStmtNoSemi()
	}
	p.expectPunct(";")

	var condExpr *ast.Node
	if !p.isPunct(";") {
		condExpr = p.parseExpr()
	}
	p.expectPunct(";")

	var postStmt *ast.Node
	if !p.isPunct(")") {
		postStmt = p.parseSimpleStmtNoSemi()
	}
	p.expectPunct(")")

	body := p.parseBlock()
	return &ast.Node{
		Kind: ast.For, Line: kw.Line, Col: kw.Col,
		Children: []*ast.Node{initStmt, condExpr, postStmt, body},
	}
}

// parseReturn: "return" Expr? ";"
func (p *Parser) parseReturn() *ast.Node {
	kw := p.expectKeyword("return")
	n := &ast.Node{Kind: ast.Return, Line: kw.Line, Col: kw.Col}
	if !p.isPunct(";") {
		n.Children = append(n.Children, p.parseExpr())
	}
	p.expectPunct(";")
	return n
}

// Expression grammar, precedence climbing low to high:
//
//	|| -> && -> equality(==,!=) -> relational(<,<=,>,>=) -> additive(+,-)
//	-> multiplicative(*,/,%) -> cast(as) -> unary(!,-) -> primary
func (p *Parser) parseExpr() *ast.Node { return p.parseOr() }

func (p *Parser) parseOr() *ast.Node {
	left := p.parseAnd()
	for p.isPunct("||") {
		op := p.next()
		right := p.parseAnd()
		left = &ast.Node{Kind: ast.BinaryExpr, Data: "||", Line: op.Line, Col: op.Col, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseAnd() *ast.Node {
	left := p.parseEquality()
	for p.isPunct("&&") {
		op := p.next()
		right := p.parseEquality()
		left = &ast.Node{Kind: ast.BinaryExpr, Data: "&&", Line: op.Line, Col: op.Col, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseEquality() *ast.Node {
	left := p.parseRelational()
	for p.isPunct("==") || p.isPunct("!=") {
		op := p.next()
		right := p.parseRelational()
		left = &ast.Node{Kind: ast.BinaryExpr, Data: op.Text, Line: op.Line, Col: op.Col, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseRelational() *ast.Node {
	left := p.parseAdditive()
	for p.isPunct("<") || p.isPunct("<=") || p.isPunct(">") || p.isPunct(">=") {
		op := p.next()
		right := p.parseAdditive()
		left = &ast.Node{Kind: ast.BinaryExpr, Data: op.Text, Line: op.Line, Col: op.Col, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseMultiplicative()
	for p.isPunct("+") || p.isPunct("-") {
		op := p.next()
		right := p.parseMultiplicative()
		left = &ast.Node{Kind: ast.BinaryExpr, Data: op.Text, Line: op.Line, Col: op.Col, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseMultiplicative() *ast.Node {
	left := p.parseCast()
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		op := p.next()
		right := p.parseCast()
		left = &ast.Node{Kind: ast.BinaryExpr, Data: op.Text, Line: op.Line, Col: op.Col, Children: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseCast() *ast.Node {
	left := p.parseUnary()
	for p.isKeyword("as") {
		kw := p.next()
		target := p.parseTypeName()
		left = &ast.Node{Kind: ast.Cast, Line: kw.Line, Col: kw.Col, Children: []*ast.Node{left, target}}
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	if p.isPunct("-") || p.isPunct("!") {
		op := p.next()
		operand := p.parseUnary()
		return &ast.Node{Kind: ast.UnaryExpr, Data: op.Text, Line: op.Line, Col: op.Col, Children: []*ast.Node{operand}}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() *ast.Node {
	t := p.peek()
	switch {
	case t.Kind == lexer.Punct && t.Text == "(":
		p.next()
		inner := p.parseExpr()
		p.expectPunct(")")
		return inner

	case t.Kind == lexer.Int:
		p.next()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			p.fail(t, "invalid integer literal %q", t.Text)
		}
		return &ast.Node{Kind: ast.IntLiteral, Data: v, Line: t.Line, Col: t.Col}

	case t.Kind == lexer.Float:
		p.next()
		v, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			p.fail(t, "invalid float literal %q", t.Text)
		}
		return &ast.Node{Kind: ast.FloatLiteral, Data: v, Line: t.Line, Col: t.Col}

	case t.Kind == lexer.Char:
		p.next()
		r := decodeCharLiteral(t.Text)
		return &ast.Node{Kind: ast.CharLiteral, Data: int64(r), Line: t.Line, Col: t.Col}

	case t.Kind == lexer.String:
		p.next()
		return &ast.Node{Kind: ast.StringLiteral, Data: decodeStringLiteral(t.Text), Line: t.Line, Col: t.Col}

	case t.Kind == lexer.Keyword && t.Text == "true":
		p.next()
		return &ast.Node{Kind: ast.BoolLiteral, Data: true, Line: t.Line, Col: t.Col}

	case t.Kind == lexer.Keyword && t.Text == "false":
		p.next()
		return &ast.Node{Kind: ast.BoolLiteral, Data: false, Line: t.Line, Col: t.Col}

	case t.Kind == lexer.Keyword && t.Text == "null":
		p.next()
		return &ast.Node{Kind: ast.NullLiteral, Line: t.Line, Col: t.Col}

	case t.Kind == lexer.Keyword && t.Text == "new":
		return p.parseResourceConstruct()

	case t.Kind == lexer.Ident:
		p.next()
		if p.isPunct("(") {
			return p.parseCallArgs(t.Text, t.Line, t.Col, ast.Call)
		}
		return &ast.Node{Kind: ast.Identifier, Data: t.Text, Line: t.Line, Col: t.Col}

	default:
		p.fail(t, "unexpected token %s in expression", t)
		p.next()
		return &ast.Node{Kind: ast.NullLiteral, Line: t.Line, Col: t.Col}
	}
}

// parseResourceConstruct: "new" Ident "(" (Expr ("," Expr)* ","?)? ")"
func (p *Parser) parseResourceConstruct() *ast.Node {
	kw := p.expectKeyword("new")
	name := p.expectIdent()
	return p.parseCallArgs(name.Text, kw.Line, kw.Col, ast.ResourceConstruct)
}

func (p *Parser) parseCallArgs(name string, line, col int, kind ast.Kind) *ast.Node {
	p.expectPunct("(")
	var args []*ast.Node
	for !p.isPunct(")") && p.err == nil {
		args = append(args, p.parseExpr())
		if p.isPunct(",") {
			p.next()
		} else {
			break
		}
	}
	p.expectPunct(")")
	return &ast.Node{Kind: kind, Data: name, Line: line, Col: col, Children: args}
}

// decodeCharLiteral interprets the raw text between a char literal's quotes
// (as captured by the lexer), handling the small escape set Reso source uses.
func decodeCharLiteral(raw string) rune {
	if len(raw) == 0 {
		return 0
	}
	if raw[0] == '\\' && len(raw) > 1 {
		return unescapeByte(raw[1])
	}
	for _, r := range raw {
		return r
	}
	return 0
}

func decodeStringLiteral(raw string) string {
	var b strings.Builder
	for i1 := 0; i1 < len(raw); i1++ {
		if raw[i1] == '\\' && i1+1 < len(raw) {
			b.WriteByte(byte(unescapeByte(raw[i1+1])))
			i1++
			continue
		}
		b.WriteByte(raw[i1])
	}
	return b.String()
}

func unescapeByte(c byte) rune {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return rune(c)
	}
}
