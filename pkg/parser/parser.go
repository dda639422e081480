// Package parser turns a token stream into a ParaC AST, built directly into
// an ast.Arena. It implements the concrete grammar of SPEC_FULL.md §6.2,
// which both produces and only produces nodes of the shapes ast (and hence
// pkg/eval) require.
//
// Grounded on the teacher's pkg/parser/parser.go: the same precedence-table
// Pratt-expression-parsing style, paired with a recursive-descent statement
// parser, adapted to emit ast.Ref values into an arena instead of
// allocating ast.Expression/ast.Statement pointers.
package parser

import (
	"fmt"
	"strconv"

	"paracl/pkg/ast"
	"paracl/pkg/interner"
	"paracl/pkg/lexer"
	"paracl/pkg/token"
)

// precedence levels, lowest to highest binding power.
const (
	_ int = iota
	LOWEST
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	RELATIONAL
	SUM
	PRODUCT
	PREFIX
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.LT:       RELATIONAL,
	token.GT:       RELATIONAL,
	token.LTE:      RELATIONAL,
	token.GTE:      RELATIONAL,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
}

var binaryOps = map[token.TokenType]ast.Operator{
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.ASTERISK: ast.OpMul,
	token.SLASH:    ast.OpDiv,
	token.PERCENT:  ast.OpMod,
	token.LT:       ast.OpLt,
	token.GT:       ast.OpGt,
	token.LTE:      ast.OpLe,
	token.GTE:      ast.OpGe,
	token.EQ:       ast.OpEq,
	token.NOT_EQ:   ast.OpNe,
	token.AND:      ast.OpAnd,
	token.OR:       ast.OpOr,
}

// SyntaxError reports a parse failure with its source position, grounded on
// original_source/include/driver.hh threading a location through parse
// errors (see SPEC_FULL.md §12).
type SyntaxError struct {
	Line, Column int
	Msg          string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

type Parser struct {
	l     *lexer.Lexer
	arena *ast.Arena
	names *interner.Interner

	curToken  token.Token
	peekToken token.Token
}

// New returns a Parser that will build nodes into arena and intern
// identifiers into names.
func New(l *lexer.Lexer, arena *ast.Arena, names *interner.Interner) *Parser {
	p := &Parser{l: l, arena: arena, names: names}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.TokenType) error {
	if p.peekIs(t) {
		p.nextToken()
		return nil
	}
	return p.errorf("expected next token to be %s, got %s (%q) instead", t, p.peekToken.Type, p.peekToken.Literal)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.curToken.Line, Column: p.curToken.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses an entire ParaC source file into one root Scope node
// (spec.md §6: "program := scope"). It stops at EOF; the root scope is
// never pushed/popped by the parser itself — that's the evaluator's job
// when it receives the root node (spec.md §2).
func (p *Parser) ParseProgram() (ast.Ref, error) {
	startTok := p.curToken
	var stmts []ast.Ref
	for !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.NoRef, err
		}
		stmts = append(stmts, stmt)
		p.nextToken()
	}
	return p.arena.NewScope(startTok, stmts), nil
}

func (p *Parser) parseStatement() (ast.Ref, error) {
	switch p.curToken.Type {
	case token.PRINT:
		return p.parsePrintStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.LBRACE:
		return p.parseScope()
	case token.IDENT:
		return p.parseAssignStatement()
	default:
		return ast.NoRef, p.errorf("unexpected token %s (%q) at start of statement", p.curToken.Type, p.curToken.Literal)
	}
}

// parseBlockOrStatement parses the body of an if/while: either a single
// statement or a brace-delimited Scope, matching SPEC_FULL.md §6.2.
func (p *Parser) parseBlockOrStatement() (ast.Ref, error) {
	if p.curIs(token.LBRACE) {
		return p.parseScope()
	}
	return p.parseStatement()
}

func (p *Parser) parseScope() (ast.Ref, error) {
	startTok := p.curToken // '{'
	p.nextToken()

	var stmts []ast.Ref
	for !p.curIs(token.RBRACE) {
		if p.curIs(token.EOF) {
			return ast.NoRef, p.errorf("unexpected EOF, expected %s", token.RBRACE)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.NoRef, err
		}
		stmts = append(stmts, stmt)
		p.nextToken()
	}
	return p.arena.NewScope(startTok, stmts), nil
}

func (p *Parser) parseAssignStatement() (ast.Ref, error) {
	lhs, err := p.parseLhs()
	if err != nil {
		return ast.NoRef, err
	}
	if err := p.expect(token.ASSIGN); err != nil {
		return ast.NoRef, err
	}
	assignTok := p.curToken
	p.nextToken()

	rhs, err := p.parseRhs()
	if err != nil {
		return ast.NoRef, err
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return ast.NoRef, err
	}
	return p.arena.NewAssign(assignTok, lhs, rhs), nil
}

// parseLhs parses `IDENT ('[' expr ']')*`: a Variable, optionally wrapped
// in a chain of ArrayIndex nodes (spec.md §3.4: lhs is Variable or
// ArrayIndex, and an ArrayIndex's target is itself a Variable or
// ArrayIndex).
func (p *Parser) parseLhs() (ast.Ref, error) {
	if !p.curIs(token.IDENT) {
		return ast.NoRef, p.errorf("expected identifier, got %s (%q)", p.curToken.Type, p.curToken.Literal)
	}
	tok := p.curToken
	node := p.arena.NewVariable(tok, p.names.Intern(tok.Literal))

	for p.peekIs(token.LBRACKET) {
		p.nextToken() // consume '['
		idxTok := p.curToken
		p.nextToken()
		idx, err := p.parseExpression(LOWEST)
		if err != nil {
			return ast.NoRef, err
		}
		if err := p.expect(token.RBRACKET); err != nil {
			return ast.NoRef, err
		}
		node = p.arena.NewArrayIndex(idxTok, node, idx)
	}
	return node, nil
}

// parseRhs parses `expr | array_init`, plus the resolved open question of
// spec.md §9 that Assign is itself a value-yielding expression: an rhs that
// starts with an lhs immediately followed by ':=' is a nested Assign, so
// that `a := b := 5` parses with the right-associative chain spec.md §9
// describes ("so that a := b := 5 is meaningful").
func (p *Parser) parseRhs() (ast.Ref, error) {
	switch p.curToken.Type {
	case token.REPEAT:
		return p.parseRepeat()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.IDENT:
		return p.parseAssignOrExpr()
	default:
		return p.parseExpression(LOWEST)
	}
}

// parseAssignOrExpr parses an IDENT-led lhs (a Variable, optionally
// subscripted) and decides whether it's the target of a nested assignment
// or just the start of an ordinary expression, without needing to
// backtrack the lexer.
func (p *Parser) parseAssignOrExpr() (ast.Ref, error) {
	lhs, err := p.parseLhs()
	if err != nil {
		return ast.NoRef, err
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken() // on ':='
		assignTok := p.curToken
		p.nextToken() // move to rhs start
		rhs, err := p.parseRhs()
		if err != nil {
			return ast.NoRef, err
		}
		return p.arena.NewAssign(assignTok, lhs, rhs), nil
	}
	return p.parseExpressionFrom(lhs, LOWEST)
}

// parseRepeat parses `'repeat' expr ['of' expr]`. The first expr is the
// element when followed by 'of'; otherwise it's the size and the element
// defaults to absent (Integer(0) at evaluation time), matching the worked
// boundary example in spec.md §8 ("repeat 0 of n") together with §4.F's
// "If element_expr is absent, elements are Integer(0))".
func (p *Parser) parseRepeat() (ast.Ref, error) {
	repeatTok := p.curToken
	p.nextToken()

	first, err := p.parseExpression(LOWEST)
	if err != nil {
		return ast.NoRef, err
	}

	if p.peekIs(token.OF) {
		p.nextToken() // now on 'of'
		p.nextToken() // move to size expr
		size, err := p.parseExpression(LOWEST)
		if err != nil {
			return ast.NoRef, err
		}
		return p.arena.NewRepeat(repeatTok, first, size), nil
	}

	return p.arena.NewRepeat(repeatTok, ast.NoRef, first), nil
}

func (p *Parser) parseArrayLiteral() (ast.Ref, error) {
	startTok := p.curToken // '['
	p.nextToken()

	var elems []ast.Ref
	if p.curIs(token.RBRACKET) {
		return p.arena.NewArrayLiteral(startTok, elems), nil
	}

	for {
		var el ast.Ref
		var err error
		if p.curIs(token.LBRACKET) {
			el, err = p.parseArrayLiteral()
		} else {
			el, err = p.parseExpression(LOWEST)
		}
		if err != nil {
			return ast.NoRef, err
		}
		elems = append(elems, el)

		if p.peekIs(token.COMMA) {
			p.nextToken() // on ','
			p.nextToken() // move to next element
			continue
		}
		break
	}
	if err := p.expect(token.RBRACKET); err != nil {
		return ast.NoRef, err
	}
	return p.arena.NewArrayLiteral(startTok, elems), nil
}

func (p *Parser) parsePrintStatement() (ast.Ref, error) {
	printTok := p.curToken
	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return ast.NoRef, err
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return ast.NoRef, err
	}
	return p.arena.NewPrint(printTok, expr), nil
}

func (p *Parser) parseIfStatement() (ast.Ref, error) {
	ifTok := p.curToken
	if err := p.expect(token.LPAREN); err != nil {
		return ast.NoRef, err
	}
	p.nextToken()
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return ast.NoRef, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return ast.NoRef, err
	}
	p.nextToken()

	then, err := p.parseBlockOrStatement()
	if err != nil {
		return ast.NoRef, err
	}

	elseBranch := ast.NoRef
	if p.peekIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		elseBranch, err = p.parseBlockOrStatement()
		if err != nil {
			return ast.NoRef, err
		}
	}

	return p.arena.NewIf(ifTok, cond, then, elseBranch), nil
}

func (p *Parser) parseWhileStatement() (ast.Ref, error) {
	whileTok := p.curToken
	if err := p.expect(token.LPAREN); err != nil {
		return ast.NoRef, err
	}
	p.nextToken()
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return ast.NoRef, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return ast.NoRef, err
	}
	p.nextToken()

	body, err := p.parseBlockOrStatement()
	if err != nil {
		return ast.NoRef, err
	}
	return p.arena.NewWhile(whileTok, cond, body), nil
}

// parseExpression is the Pratt-style precedence-climbing core, grounded on
// the teacher's parseExpression in pkg/parser/parser.go.
func (p *Parser) parseExpression(precedence int) (ast.Ref, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return ast.NoRef, err
	}
	return p.parseExpressionFrom(left, precedence)
}

// parseExpressionFrom runs the same precedence-climbing loop as
// parseExpression, but starting from an already-parsed left operand —
// needed by parseAssignOrExpr, which must parse an lhs once and then decide
// whether it heads a nested assignment or an ordinary expression.
func (p *Parser) parseExpressionFrom(left ast.Ref, precedence int) (ast.Ref, error) {
	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		op, ok := binaryOps[p.peekToken.Type]
		if !ok {
			break
		}
		p.nextToken()
		opTok := p.curToken
		curPrecedence := precedences[opTok.Type]
		p.nextToken()
		right, err := p.parseExpression(curPrecedence)
		if err != nil {
			return ast.NoRef, err
		}
		left = p.arena.NewBinaryOp(opTok, op, left, right)
	}
	return left, nil
}

func (p *Parser) parsePrefix() (ast.Ref, error) {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseVariableOrIndex()
	case token.INT:
		return p.parseIntegerLiteral()
	case token.QUESTION:
		return p.arena.NewInput(p.curToken), nil
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.MINUS:
		return p.parseUnary(ast.OpNeg)
	case token.NOT:
		return p.parseUnary(ast.OpNot)
	default:
		return ast.NoRef, p.errorf("unexpected token %s (%q) in expression", p.curToken.Type, p.curToken.Literal)
	}
}

func (p *Parser) parseVariableOrIndex() (ast.Ref, error) {
	tok := p.curToken
	node := p.arena.NewVariable(tok, p.names.Intern(tok.Literal))

	for p.peekIs(token.LBRACKET) {
		p.nextToken()
		idxTok := p.curToken
		p.nextToken()
		idx, err := p.parseExpression(LOWEST)
		if err != nil {
			return ast.NoRef, err
		}
		if err := p.expect(token.RBRACKET); err != nil {
			return ast.NoRef, err
		}
		node = p.arena.NewArrayIndex(idxTok, node, idx)
	}
	return node, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Ref, error) {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return ast.NoRef, p.errorf("invalid integer literal %q", tok.Literal)
	}
	return p.arena.NewConstant(tok, v), nil
}

func (p *Parser) parseGroupedExpression() (ast.Ref, error) {
	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return ast.NoRef, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return ast.NoRef, err
	}
	return expr, nil
}

func (p *Parser) parseUnary(op ast.Operator) (ast.Ref, error) {
	tok := p.curToken
	p.nextToken()
	operand, err := p.parseExpression(PREFIX)
	if err != nil {
		return ast.NoRef, err
	}
	return p.arena.NewUnaryOp(tok, op, operand), nil
}
