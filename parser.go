package main

import "fmt"

// ParseError reports a grammar violation at Tok.
type ParseError struct {
	Tok Token
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Tok.Pos, e.Msg)
}

// Parser builds a Function from a token slice by recursive descent.
//
// Grammar:
//
//	program    = block EOF
//	stmt       = block
//	           | "if" "(" expr ")" stmt ("else" stmt)?
//	           | "for" "(" expr? ";" expr? ";" expr? ")" stmt
//	           | "while" "(" expr ")" stmt
//	           | "return" expr ";"
//	           | expr? ";"
//	block      = "{" stmt* "}"
//	expr       = assign
//	assign     = equality ("=" assign)?
//	equality   = relational ("==" relational | "!=" relational)*
//	relational = add ("<" add | "<=" add | ">" add | ">=" add)*
//	add        = mul ("+" mul | "-" mul)*
//	mul        = unary ("*" unary | "/" unary)*
//	unary      = ("+" | "-") unary | primary
//	primary    = num | ident | "(" expr ")"
type Parser struct {
	tokens []Token
	pos    int
	fn     *Function
	vars   map[string]VarID
}

// NewParser creates a parser over tokens, which must end with an EOF token.
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		fn:     &Function{Body: NoNode},
		vars:   make(map[string]VarID),
	}
}

// Parse parses a whole program. The returned Function has no frame layout
// yet; call LayoutFrame before generating code.
func Parse(tokens []Token) (*Function, error) {
	p := NewParser(tokens)
	if !p.equal("{") {
		return nil, p.errorf(p.peek(), "expected '{'")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != EOF {
		return nil, p.errorf(p.peek(), "extra token")
	}
	p.fn.Body = body
	return p.fn, nil
}

// parseExpressionOnly parses a lone expression followed by EOF. The
// expression's id is stored in Body.
func parseExpressionOnly(tokens []Token) (*Function, error) {
	p := NewParser(tokens)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != EOF {
		return nil, p.errorf(p.peek(), "extra token")
	}
	p.fn.Body = expr
	return p.fn, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token. The EOF token is never
// consumed.
func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

// equal reports whether the current token is the punctuator or keyword s.
func (p *Parser) equal(s string) bool {
	tok := p.peek()
	return (tok.Kind == PUNCT || tok.Kind == KEYWORD) && tok.Text == s
}

// consume advances past s if it is the current token.
func (p *Parser) consume(s string) bool {
	if p.equal(s) {
		p.advance()
		return true
	}
	return false
}

// skip consumes s or fails.
func (p *Parser) skip(s string) error {
	if !p.consume(s) {
		return p.errorf(p.peek(), "expected '%s'", s)
	}
	return nil
}

func (p *Parser) parseStatement() (NodeID, error) {
	tok := p.peek()
	if tok.Kind == EOF {
		return NoNode, p.errorf(tok, "unexpected end of input")
	}

	switch {
	case p.equal("{"):
		return p.parseBlock()

	case p.equal("if"):
		return p.parseIf()

	case p.equal("for"):
		return p.parseFor()

	case p.equal("while"):
		return p.parseWhile()

	case p.equal("return"):
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return NoNode, err
		}
		if err := p.skip(";"); err != nil {
			return NoNode, err
		}
		return p.fn.add(&ReturnNode{Expr: expr}), nil

	default:
		return p.parseExprStatement()
	}
}

// parseBlock parses "{" stmt* "}".
func (p *Parser) parseBlock() (NodeID, error) {
	if err := p.skip("{"); err != nil {
		return NoNode, err
	}
	block := &BlockNode{}
	for !p.equal("}") {
		if p.peek().Kind == EOF {
			return NoNode, p.errorf(p.peek(), "unterminated block, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return NoNode, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.advance() // '}'
	return p.fn.add(block), nil
}

func (p *Parser) parseIf() (NodeID, error) {
	p.advance() // 'if'
	if err := p.skip("("); err != nil {
		return NoNode, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return NoNode, err
	}
	if err := p.skip(")"); err != nil {
		return NoNode, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return NoNode, err
	}
	els := NoNode
	if p.consume("else") {
		els, err = p.parseStatement()
		if err != nil {
			return NoNode, err
		}
	}
	return p.fn.add(&IfNode{Cond: cond, Then: then, Else: els}), nil
}

func (p *Parser) parseFor() (NodeID, error) {
	p.advance() // 'for'
	if err := p.skip("("); err != nil {
		return NoNode, err
	}
	loop := &LoopNode{Init: NoNode, Cond: NoNode, Post: NoNode}

	var err error
	if loop.Init, err = p.parseOptionalExpr(";"); err != nil {
		return NoNode, err
	}
	if err := p.skip(";"); err != nil {
		return NoNode, err
	}
	if loop.Cond, err = p.parseOptionalExpr(";"); err != nil {
		return NoNode, err
	}
	if err := p.skip(";"); err != nil {
		return NoNode, err
	}
	if loop.Post, err = p.parseOptionalExpr(")"); err != nil {
		return NoNode, err
	}
	if err := p.skip(")"); err != nil {
		return NoNode, err
	}
	if loop.Body, err = p.parseStatement(); err != nil {
		return NoNode, err
	}
	return p.fn.add(loop), nil
}

func (p *Parser) parseWhile() (NodeID, error) {
	p.advance() // 'while'
	if err := p.skip("("); err != nil {
		return NoNode, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return NoNode, err
	}
	if err := p.skip(")"); err != nil {
		return NoNode, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return NoNode, err
	}
	return p.fn.add(&LoopNode{Init: NoNode, Cond: cond, Post: NoNode, Body: body}), nil
}

// parseOptionalExpr parses an expression unless the current token is end.
func (p *Parser) parseOptionalExpr(end string) (NodeID, error) {
	if p.equal(end) {
		return NoNode, nil
	}
	return p.parseExpr()
}

func (p *Parser) parseExprStatement() (NodeID, error) {
	if p.consume(";") {
		return p.fn.add(&ExprStmtNode{Expr: NoNode}), nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return NoNode, err
	}
	if err := p.skip(";"); err != nil {
		return NoNode, err
	}
	return p.fn.add(&ExprStmtNode{Expr: expr}), nil
}

func (p *Parser) parseExpr() (NodeID, error) {
	return p.parseAssign()
}

// parseAssign is right-associative: a=b=c is a=(b=c).
func (p *Parser) parseAssign() (NodeID, error) {
	start := p.peek()
	lhs, err := p.parseEquality()
	if err != nil {
		return NoNode, err
	}
	if !p.equal("=") {
		return lhs, nil
	}
	if _, ok := p.fn.Node(lhs).(*VarNode); !ok {
		return NoNode, p.errorf(start, "not an lvalue")
	}
	p.advance()
	rhs, err := p.parseAssign()
	if err != nil {
		return NoNode, err
	}
	return p.fn.add(&BinaryNode{Op: OpAssign, LHS: lhs, RHS: rhs}), nil
}

func (p *Parser) parseEquality() (NodeID, error) {
	node, err := p.parseRelational()
	if err != nil {
		return NoNode, err
	}
	for {
		var op BinaryOp
		switch {
		case p.equal("=="):
			op = OpEq
		case p.equal("!="):
			op = OpNe
		default:
			return node, nil
		}
		p.advance()
		rhs, err := p.parseRelational()
		if err != nil {
			return NoNode, err
		}
		node = p.fn.add(&BinaryNode{Op: op, LHS: node, RHS: rhs})
	}
}

func (p *Parser) parseRelational() (NodeID, error) {
	node, err := p.parseAdd()
	if err != nil {
		return NoNode, err
	}
	for {
		var op BinaryOp
		swap := false
		switch {
		case p.equal("<"):
			op = OpLt
		case p.equal("<="):
			op = OpLe
		case p.equal(">"):
			op, swap = OpLt, true
		case p.equal(">="):
			op, swap = OpLe, true
		default:
			return node, nil
		}
		p.advance()
		rhs, err := p.parseAdd()
		if err != nil {
			return NoNode, err
		}
		if swap {
			node = p.fn.add(&BinaryNode{Op: op, LHS: rhs, RHS: node})
		} else {
			node = p.fn.add(&BinaryNode{Op: op, LHS: node, RHS: rhs})
		}
	}
}

func (p *Parser) parseAdd() (NodeID, error) {
	node, err := p.parseMul()
	if err != nil {
		return NoNode, err
	}
	for {
		var op BinaryOp
		switch {
		case p.equal("+"):
			op = OpAdd
		case p.equal("-"):
			op = OpSub
		default:
			return node, nil
		}
		p.advance()
		rhs, err := p.parseMul()
		if err != nil {
			return NoNode, err
		}
		node = p.fn.add(&BinaryNode{Op: op, LHS: node, RHS: rhs})
	}
}

func (p *Parser) parseMul() (NodeID, error) {
	node, err := p.parseUnary()
	if err != nil {
		return NoNode, err
	}
	for {
		var op BinaryOp
		switch {
		case p.equal("*"):
			op = OpMul
		case p.equal("/"):
			op = OpDiv
		default:
			return node, nil
		}
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return NoNode, err
		}
		node = p.fn.add(&BinaryNode{Op: op, LHS: node, RHS: rhs})
	}
}

// parseUnary handles any chain of prefix signs, e.g. "- -5" or "+-x".
func (p *Parser) parseUnary() (NodeID, error) {
	if p.consume("+") {
		return p.parseUnary()
	}
	if p.consume("-") {
		operand, err := p.parseUnary()
		if err != nil {
			return NoNode, err
		}
		return p.fn.add(&NegNode{Operand: operand}), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (NodeID, error) {
	tok := p.peek()
	switch tok.Kind {
	case NUM:
		p.advance()
		return p.fn.add(&NumNode{Value: tok.Value}), nil

	case IDENT:
		p.advance()
		return p.fn.add(&VarNode{Var: p.bindVar(tok.Text)}), nil
	}

	if p.consume("(") {
		expr, err := p.parseExpr()
		if err != nil {
			return NoNode, err
		}
		if err := p.skip(")"); err != nil {
			return NoNode, err
		}
		return expr, nil
	}

	if tok.Kind == EOF {
		return NoNode, p.errorf(tok, "unexpected end of input")
	}
	return NoNode, p.errorf(tok, "expected an expression")
}

// bindVar returns the local named name, creating it on first mention.
func (p *Parser) bindVar(name string) VarID {
	if id, ok := p.vars[name]; ok {
		return id
	}
	id := VarID(len(p.fn.Locals))
	p.fn.Locals = append(p.fn.Locals, Var{Name: name})
	p.vars[name] = id
	return id
}
