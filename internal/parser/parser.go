package parser

import (
	"fmt"

	"github.com/ibfleming/cminus/internal/ast"
	"github.com/ibfleming/cminus/internal/lexer"
)

// Parser is a single-pass recursive-descent parser with one token of
// lookahead, sufficient for C-'s unambiguous grammar.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	errors []string
}

// New constructs a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Errors returns accumulated syntax errors, in the order encountered.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.cur.Pos.Line, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.errorf("expected %s but found %q", t, p.cur.Literal)
	}
	p.next()
	return tok
}

func (p *Parser) at(t lexer.TokenType) bool { return p.cur.Type == t }

// ParseProgram parses a whole source file into the declaration-sibling
// chain the core expects as its AST root.
func (p *Parser) ParseProgram() *ast.Node {
	var head, tail *ast.Node
	for p.cur.Type != lexer.EOF {
		decl := p.parseDeclaration()
		if decl == nil {
			p.next()
			continue
		}
		if head == nil {
			head = decl
		} else {
			tail.AddSibling(decl)
		}
		tail = decl.Last()
	}
	return head
}

func isTypeSpecifier(t lexer.TokenType) bool {
	return t == lexer.INT || t == lexer.CHAR || t == lexer.BOOL
}

func (p *Parser) parseTypeSpecifier() ast.DataType {
	switch p.cur.Type {
	case lexer.INT:
		p.next()
		return ast.Int
	case lexer.CHAR:
		p.next()
		return ast.Char
	case lexer.BOOL:
		p.next()
		return ast.Bool
	default:
		p.errorf("expected a type specifier but found %q", p.cur.Literal)
		return ast.Undefined
	}
}

// parseDeclaration parses a top-level or local variable/function/static
// declaration.
func (p *Parser) parseDeclaration() *ast.Node {
	line := p.cur.Pos.Line

	isStatic := false
	if p.at(lexer.STATIC) {
		isStatic = true
		p.next()
	}

	if !isTypeSpecifier(p.cur.Type) {
		if isStatic {
			p.errorf("expected a type specifier after 'static'")
			return nil
		}
		// No type specifier: a void-returning function declaration.
		return p.parseFunctionDeclaration(ast.Void, line)
	}

	dataType := p.parseTypeSpecifier()
	name := p.expect(lexer.IDENT).Literal

	if p.at(lexer.LPAREN) {
		return p.finishFunctionDeclaration(dataType, name, line)
	}

	return p.finishVarDeclaration(dataType, name, isStatic, line)
}

func (p *Parser) parseFunctionDeclaration(dataType ast.DataType, line int) *ast.Node {
	name := p.expect(lexer.IDENT).Literal
	return p.finishFunctionDeclaration(dataType, name, line)
}

func (p *Parser) finishFunctionDeclaration(dataType ast.DataType, name string, line int) *ast.Node {
	fn := ast.New(ast.Func, line)
	fn.Literal = name
	fn.DataType = dataType
	fn.ParmList = make(map[int]*ast.Node)

	p.expect(lexer.LPAREN)
	var paramsHead, paramsTail *ast.Node
	idx := 0
	if !p.at(lexer.RPAREN) {
		for {
			param := p.parseParam()
			fn.ParmList[idx] = param
			idx++
			if paramsHead == nil {
				paramsHead = param
			} else {
				paramsTail.AddSibling(param)
			}
			paramsTail = param
			if !p.at(lexer.COMMA) {
				break
			}
			p.next()
		}
	}
	fn.ParmCount = idx
	p.expect(lexer.RPAREN)

	if paramsHead != nil {
		fn.Children[0] = paramsHead
	}
	body := p.parseCompoundStatement()
	body.IsFunctionCompound = true
	fn.Children[1] = body
	if name == "main" {
		fn.IsMain = true
	}
	return fn
}

func (p *Parser) parseParam() *ast.Node {
	line := p.cur.Pos.Line
	dt := p.parseTypeSpecifier()
	name := p.expect(lexer.IDENT).Literal
	if p.at(lexer.LBRACKET) {
		p.next()
		p.expect(lexer.RBRACKET)
		n := ast.New(ast.ParmArr, line)
		n.Literal = name
		n.DataType = dt
		n.IsArray = true
		n.Size = 1 // passed by reference: one word holds the base address
		return n
	}
	n := ast.New(ast.Parm, line)
	n.Literal = name
	n.DataType = dt
	n.Size = 1
	return n
}

func (p *Parser) finishVarDeclaration(dataType ast.DataType, name string, isStatic bool, line int) *ast.Node {
	kind := ast.Var
	if p.at(lexer.LBRACKET) {
		kind = ast.VarArr
	}
	if isStatic {
		kind = ast.Static
	}

	n := ast.New(kind, line)
	n.Literal = name
	n.DataType = dataType
	n.IsStatic = isStatic
	n.Size = 1

	if p.at(lexer.LBRACKET) {
		p.next()
		n.IsArray = true
		if p.at(lexer.NUMCONST) {
			size := ast.New(ast.NumConst, p.cur.Pos.Line)
			size.DataType = ast.Int
			size.IsConst = true
			size.Payload.Int = p.cur.IntVal
			n.Children[0] = size
			// One extra word holds the array's length ahead of its base.
			n.Size = p.cur.IntVal + 1
			p.next()
		}
		p.expect(lexer.RBRACKET)
	}

	if p.at(lexer.ASSIGN) {
		p.next()
		n.Children[1] = p.parseExpression()
	}

	p.expect(lexer.SEMI)
	return n
}

// parseCompoundStatement parses "{ local-declarations statement-list }".
func (p *Parser) parseCompoundStatement() *ast.Node {
	line := p.cur.Pos.Line
	p.expect(lexer.LBRACE)

	n := ast.New(ast.Compound, line)

	var declHead, declTail *ast.Node
	for isTypeSpecifier(p.cur.Type) || p.at(lexer.STATIC) {
		d := p.parseDeclaration()
		if d == nil {
			continue
		}
		if declHead == nil {
			declHead = d
		} else {
			declTail.AddSibling(d)
		}
		declTail = d.Last()
	}
	n.Children[0] = declHead

	var stmtHead, stmtTail *ast.Node
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		s := p.parseStatement()
		if s == nil {
			continue
		}
		if stmtHead == nil {
			stmtHead = s
		} else {
			stmtTail.AddSibling(s)
		}
		stmtTail = s.Last()
	}
	n.Children[1] = stmtHead

	p.expect(lexer.RBRACE)
	return n
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.cur.Type {
	case lexer.LBRACE:
		return p.parseCompoundStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.SEMI:
		p.next()
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseIfStatement() *ast.Node {
	line := p.cur.Pos.Line
	p.next() // 'if'
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.THEN)
	n := ast.New(ast.If, line)
	n.Children[0] = cond
	n.Children[1] = p.parseStatement()
	if p.at(lexer.ELSE) {
		p.next()
		n.Children[2] = p.parseStatement()
	}
	return n
}

func (p *Parser) parseWhileStatement() *ast.Node {
	line := p.cur.Pos.Line
	p.next() // 'while'
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.DO)
	n := ast.New(ast.While, line)
	n.Children[0] = cond
	n.Children[1] = p.parseStatement()
	return n
}

func (p *Parser) parseForStatement() *ast.Node {
	line := p.cur.Pos.Line
	p.next() // 'for'

	ctrl := ast.New(ast.Var, line)
	ctrl.Literal = p.expect(lexer.IDENT).Literal
	ctrl.DataType = ast.Int

	p.expect(lexer.ASSIGN)
	start := p.parseExpression()
	p.expect(lexer.TO)
	stop := p.parseExpression()

	var step *ast.Node
	if p.at(lexer.BY) {
		p.next()
		step = p.parseExpression()
	}
	p.expect(lexer.DO)

	rng := ast.New(ast.Range, line)
	rng.Children[0] = start
	rng.Children[1] = stop
	rng.Children[2] = step

	n := ast.New(ast.For, line)
	n.Children[0] = ctrl
	n.Children[1] = rng
	n.Children[2] = p.parseStatement()
	return n
}

func (p *Parser) parseReturnStatement() *ast.Node {
	line := p.cur.Pos.Line
	p.next() // 'return'
	n := ast.New(ast.Return, line)
	if !p.at(lexer.SEMI) {
		n.Children[0] = p.parseExpression()
	}
	p.expect(lexer.SEMI)
	return n
}

func (p *Parser) parseBreakStatement() *ast.Node {
	line := p.cur.Pos.Line
	p.next() // 'break'
	p.expect(lexer.SEMI)
	return ast.New(ast.Break, line)
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	if p.at(lexer.SEMI) {
		p.next()
		return nil
	}
	n := p.parseExpression()
	p.expect(lexer.SEMI)
	return n
}

// --- Expressions, precedence climbing, lowest to highest. ---

func (p *Parser) parseExpression() *ast.Node {
	return p.parseAssignment()
}

var assignClasses = map[lexer.TokenType]ast.TokenClass{
	lexer.ASSIGN: ast.ClassAssign,
	lexer.ADDASS: ast.ClassAddAss,
	lexer.SUBASS: ast.ClassSubAss,
	lexer.MULASS: ast.ClassMulAss,
	lexer.DIVASS: ast.ClassDivAss,
}

func (p *Parser) parseAssignment() *ast.Node {
	lhs := p.parseOr()
	if class, ok := assignClasses[p.cur.Type]; ok {
		line := p.cur.Pos.Line
		lit := p.cur.Literal
		p.next()
		rhs := p.parseAssignment()
		n := ast.New(ast.Assign, line)
		n.TokenClass = class
		n.Literal = lit
		n.Children[0] = lhs
		n.Children[1] = rhs
		return n
	}
	return lhs
}

func (p *Parser) parseOr() *ast.Node {
	lhs := p.parseAnd()
	for p.at(lexer.OR) {
		line := p.cur.Pos.Line
		p.next()
		n := ast.New(ast.Or, line)
		n.Children[0] = lhs
		n.Children[1] = p.parseAnd()
		lhs = n
	}
	return lhs
}

func (p *Parser) parseAnd() *ast.Node {
	lhs := p.parseNot()
	for p.at(lexer.AND) {
		line := p.cur.Pos.Line
		p.next()
		n := ast.New(ast.And, line)
		n.Children[0] = lhs
		n.Children[1] = p.parseNot()
		lhs = n
	}
	return lhs
}

func (p *Parser) parseNot() *ast.Node {
	if p.at(lexer.NOT) {
		line := p.cur.Pos.Line
		p.next()
		n := ast.New(ast.Not, line)
		n.Children[0] = p.parseNot()
		return n
	}
	return p.parseRelational()
}

var relClasses = map[lexer.TokenType]ast.TokenClass{
	lexer.LT:  ast.ClassLT,
	lexer.GT:  ast.ClassGT,
	lexer.EQ:  ast.ClassEQ,
	lexer.NE:  ast.ClassNE,
	lexer.NLT: ast.ClassNLT,
	lexer.NGT: ast.ClassNGT,
}

func (p *Parser) parseRelational() *ast.Node {
	lhs := p.parseAdditive()
	if class, ok := relClasses[p.cur.Type]; ok {
		line := p.cur.Pos.Line
		lit := p.cur.Literal
		p.next()
		n := ast.New(ast.BinOp, line)
		n.TokenClass = class
		n.Literal = lit
		n.Children[0] = lhs
		n.Children[1] = p.parseAdditive()
		return n
	}
	return lhs
}

func (p *Parser) parseAdditive() *ast.Node {
	lhs := p.parseTerm()
	for p.at(lexer.PLUS) || p.at(lexer.MINUS) {
		line := p.cur.Pos.Line
		lit := p.cur.Literal
		class := ast.ClassPlus
		if p.cur.Type == lexer.MINUS {
			class = ast.ClassMinus
		}
		p.next()
		n := ast.New(ast.BinOp, line)
		n.TokenClass = class
		n.Literal = lit
		n.Children[0] = lhs
		n.Children[1] = p.parseTerm()
		lhs = n
	}
	return lhs
}

func (p *Parser) parseTerm() *ast.Node {
	lhs := p.parseUnary()
	for p.at(lexer.TIMES) || p.at(lexer.OVER) || p.at(lexer.MOD) {
		line := p.cur.Pos.Line
		lit := p.cur.Literal
		var class ast.TokenClass
		switch p.cur.Type {
		case lexer.TIMES:
			class = ast.ClassTimes
		case lexer.OVER:
			class = ast.ClassDivide
		case lexer.MOD:
			class = ast.ClassMod
		}
		p.next()
		n := ast.New(ast.BinOp, line)
		n.TokenClass = class
		n.Literal = lit
		n.Children[0] = lhs
		n.Children[1] = p.parseUnary()
		lhs = n
	}
	return lhs
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.cur.Type {
	case lexer.MINUS:
		line := p.cur.Pos.Line
		p.next()
		n := ast.New(ast.ChSign, line)
		n.Children[0] = p.parseUnary()
		return n
	case lexer.IDENT:
		if p.cur.Literal == "sizeof" {
			line := p.cur.Pos.Line
			p.next()
			n := ast.New(ast.SizeOf, line)
			n.Children[0] = p.parseUnary()
			return n
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.INC, lexer.DEC:
			line := p.cur.Pos.Line
			class := ast.ClassInc
			lit := "++"
			if p.cur.Type == lexer.DEC {
				class = ast.ClassDec
				lit = "--"
			}
			p.next()
			assign := ast.New(ast.Assign, line)
			assign.TokenClass = class
			assign.Literal = lit
			assign.Children[0] = n
			n = assign
		case lexer.QUES:
			line := p.cur.Pos.Line
			p.next()
			t := ast.New(ast.Ternary, line)
			t.Children[0] = n
			n = t
		default:
			return n
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	line := p.cur.Pos.Line
	switch p.cur.Type {
	case lexer.LPAREN:
		p.next()
		n := p.parseExpression()
		p.expect(lexer.RPAREN)
		return n
	case lexer.NUMCONST:
		n := ast.New(ast.NumConst, line)
		n.DataType = ast.Int
		n.IsConst = true
		n.Payload.Int = p.cur.IntVal
		n.Literal = p.cur.Literal
		p.next()
		return n
	case lexer.CHARCONST:
		n := ast.New(ast.CharConst, line)
		n.DataType = ast.Char
		n.IsConst = true
		n.Payload.Char = p.cur.CharVal
		n.Literal = p.cur.Literal
		p.next()
		return n
	case lexer.STRINGCONST:
		n := ast.New(ast.StringConst, line)
		n.DataType = ast.Char
		n.IsArray = true
		n.IsConst = true
		n.Payload.Str = p.cur.StrVal
		n.Literal = p.cur.Literal
		n.Size = len(p.cur.StrVal) + 1 // +1 for the length word stored above its base
		p.next()
		return n
	case lexer.BOOLCONST:
		n := ast.New(ast.BoolConst, line)
		n.DataType = ast.Bool
		n.IsConst = true
		n.Payload.Int = p.cur.IntVal
		n.Literal = p.cur.Literal
		p.next()
		return n
	case lexer.IDENT:
		name := p.cur.Literal
		p.next()
		switch p.cur.Type {
		case lexer.LPAREN:
			return p.finishCall(name, line)
		case lexer.LBRACKET:
			return p.finishIndex(name, line)
		default:
			n := ast.New(ast.Id, line)
			n.Literal = name
			return n
		}
	default:
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		p.next()
		return ast.New(ast.NumConst, line)
	}
}

func (p *Parser) finishCall(name string, line int) *ast.Node {
	p.expect(lexer.LPAREN)
	n := ast.New(ast.Call, line)
	n.Literal = name
	var head, tail *ast.Node
	if !p.at(lexer.RPAREN) {
		for {
			arg := p.parseExpression()
			if head == nil {
				head = arg
			} else {
				tail.AddSibling(arg)
			}
			tail = arg
			if !p.at(lexer.COMMA) {
				break
			}
			p.next()
		}
	}
	n.Children[0] = head
	p.expect(lexer.RPAREN)
	return n
}

func (p *Parser) finishIndex(name string, line int) *ast.Node {
	id := ast.New(ast.Id, line)
	id.Literal = name
	p.expect(lexer.LBRACKET)
	index := p.parseExpression()
	p.expect(lexer.RBRACKET)
	n := ast.New(ast.ArrIndex, line)
	n.Literal = name
	n.IsIndexed = true
	n.Children[0] = id
	n.Children[1] = index
	return n
}
