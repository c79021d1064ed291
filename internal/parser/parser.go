// Package parser implements a recursive-descent, precedence-climbing
// grammar producing the ast package's node types. It stops at the
// first syntax error rather than attempting recovery.
package parser

import (
	"fmt"

	"github.com/oarkflow/spl/internal/ast"
	"github.com/oarkflow/spl/internal/splerr"
	"github.com/oarkflow/spl/internal/token"
)

// Parser consumes a finished token slice (always EOF-terminated) and
// builds an AST.
type Parser struct {
	tokens  []token.Token
	current int
}

// New constructs a parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses the whole token stream into a Program root.
func ParseProgram(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	var statements []ast.Stmt
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return &ast.Program{Statements: statements}, nil
}

func (p *Parser) peek() token.Token      { return p.tokens[p.current] }
func (p *Parser) previous() token.Token  { return p.tokens[p.current-1] }
func (p *Parser) isAtEnd() bool          { return p.peek().Kind == token.EOF }
func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok token.Token, message string) error {
	where := fmt.Sprintf("'%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = "end"
	}
	return splerr.Syntax(splerr.KindParseError, "Error at %s: %s", where, message)
}

// ---- statements ----

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FUN):
		return p.funDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) varDecl() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect variable name after 'var'.")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(token.EQUAL) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: name.Lexeme, Init: init}, nil
}

func (p *Parser) funDecl() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect function name after 'fun'.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after function name."); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(token.RIGHT_PAREN) {
		for {
			pname, err := p.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, pname.Lexeme)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if !p.check(token.LEFT_BRACE) {
		return nil, p.errorAt(p.peek(), "Expect function body to be a block.")
	}
	p.advance()
	body, err := p.blockAfterBrace()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.LEFT_BRACE):
		return p.blockAfterBrace()
	case p.match(token.PRINT):
		return p.printStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	var value ast.Expr
	if !p.check(token.SEMICOLON) && !p.isAtEnd() && !p.check(token.RIGHT_BRACE) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value}, nil
}

func (p *Parser) printStmt() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Value: value}, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body}, nil
}

// forStmt desugars `for (init; cond; update) body` into a block
// holding the initializer followed by an equivalent while loop whose
// body runs the update expression after the original body. Without an
// initializer the while loop is returned on its own, with no outer
// block.
func (p *Parser) forStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		v, err := p.varDecl()
		if err != nil {
			return nil, err
		}
		initializer = v
	default:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop initializer."); err != nil {
			return nil, err
		}
		initializer = &ast.ExprStmt{Value: e}
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var update ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		u, err := p.expression()
		if err != nil {
			return nil, err
		}
		update = u
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, isVar := body.(*ast.VarDecl); isVar {
		return nil, splerr.Syntax(splerr.KindParseError, "Error: Expect block after for clauses.")
	}

	if cond == nil {
		cond = &ast.BooleanLit{Value: true}
	}
	if update != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.ExprStmt{Value: update}}}
	}
	loop := ast.Stmt(&ast.WhileStmt{Cond: cond, Body: body})

	if initializer == nil {
		return loop, nil
	}
	return &ast.Block{Statements: []ast.Stmt{initializer, loop}}, nil
}

func (p *Parser) blockAfterBrace() (*ast.Block, error) {
	var statements []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}'."); err != nil {
		return nil, err
	}
	return &ast.Block{Statements: statements}, nil
}

func (p *Parser) exprStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(token.SEMICOLON)
	return &ast.ExprStmt{Value: expr}, nil
}

// ---- expressions ----

func (p *Parser) expression() (ast.Expr, error) { return p.assignment() }

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(token.EQUAL) {
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			return nil, splerr.Runtime(splerr.KindInvalidAssignmentTarget, "Invalid assignment target.")
		}
		return &ast.Assign{Name: ident.Name, Value: value}, nil
	}
	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Op: "or", Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND) {
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Op: "and", Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Op: op.Lexeme, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Op: op.Lexeme, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) additive() (ast.Expr, error) {
	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Op: op.Lexeme, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) multiplicative() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.STAR, token.SLASH, token.MOD) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Op: op.Lexeme, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op.Lexeme, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LEFT_PAREN) {
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		expr = &ast.Call{Callee: expr, Args: args}
	}
	return expr, nil
}

func (p *Parser) arguments() ([]ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments."); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.NUMBER):
		tok := p.previous()
		return &ast.NumberLit{Lexeme: tok.Lexeme, Value: tok.Literal.Number}, nil
	case p.match(token.STRING):
		return &ast.StringLit{Value: p.previous().Literal.Str}, nil
	case p.match(token.TRUE):
		return &ast.BooleanLit{Value: true}, nil
	case p.match(token.FALSE):
		return &ast.BooleanLit{Value: false}, nil
	case p.match(token.NIL):
		return &ast.NilLit{}, nil
	case p.match(token.IDENTIFIER):
		return &ast.Identifier{Name: p.previous().Lexeme}, nil
	case p.match(token.LEFT_PAREN):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, "Expect ')'"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: inner}, nil
	default:
		return nil, p.errorAt(p.peek(), "Expect expression.")
	}
}
