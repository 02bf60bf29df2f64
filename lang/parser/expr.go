package parser

import (
	"strings"

	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/token"
	"github.com/mna/hiw/lang/value"
)

// parseExpr parses `expression = assignment | test`. Assignment is
// recognized after the fact: a bare Var parsed as a test, immediately
// followed by '=', is rewound into a Set node. This needs no extra
// lookahead beyond the single token the lexer already buffers.
func (p *Parser) parseExpr() *ast.Node {
	pos := p.tok.Pos
	left := p.parseTest()
	if p.tok.Kind == token.EQ {
		if left.Kind != ast.Var {
			p.errorf(pos, "left-hand side of assignment must be an identifier")
		}
		name := left.Value
		p.advance()
		rhs := p.parseExpr()
		return ast.New(ast.Set, pos, name, rhs, nil, nil)
	}
	return left
}

func (p *Parser) parseTest() *ast.Node {
	left := p.parseSumma()
	var kind ast.Kind
	switch p.tok.Kind {
	case token.LT:
		kind = ast.Lt
	case token.GT:
		kind = ast.Bt
	case token.EQEQ:
		kind = ast.Eq
	default:
		return left
	}
	pos := p.tok.Pos
	p.advance()
	right := p.parseSumma()
	return ast.New(kind, pos, token.Token{}, left, right, nil)
}

func (p *Parser) parseSumma() *ast.Node {
	left := p.parseTerm()
	for {
		var kind ast.Kind
		switch p.tok.Kind {
		case token.PLUS:
			kind = ast.Add
		case token.MINUS:
			kind = ast.Sub
		case token.STAR:
			kind = ast.Mult
		case token.SLASH:
			kind = ast.Div
		default:
			return left
		}
		pos := p.tok.Pos
		p.advance()
		right := p.parseTerm()
		left = ast.New(kind, pos, token.Token{}, left, right, nil)
	}
}

func (p *Parser) parseTerm() *ast.Node {
	pos := p.tok.Pos

	var n *ast.Node
	switch p.tok.Kind {
	case token.IDENT:
		tok := p.tok
		p.advance()
		n = ast.New(ast.Var, pos, tok, nil, nil, nil)
	case token.NUM:
		tok := p.tok
		p.advance()
		n = ast.New(ast.Const, pos, tok, nil, nil, nil)
	case token.QUOTE:
		n = p.parseStringLiteral()
	case token.TRUE, token.FALSE:
		tok := p.tok
		p.advance()
		n = ast.New(ast.BoolLit, pos, tok, nil, nil, nil)
	case token.LPAREN:
		p.advance()
		n = p.parseExpr()
		p.expect(token.RPAREN)
	case token.LBRACK:
		// An array literal is also reachable as a primary expression (scenario
		// "a = [1, 2, 3];" requires it): see DESIGN.md.
		n = p.parseArrayLit()
	default:
		p.errorExpected(pos, []token.Kind{token.IDENT, token.NUM, token.QUOTE, token.TRUE, token.FALSE, token.LPAREN, token.LBRACK})
		panic(errPanicMode)
	}
	return p.parseSuffix(n)
}

// parseSuffix consumes zero or more postfix suffixes: indexing, direct
// calls (only legal on a bare identifier) and method-form calls.
func (p *Parser) parseSuffix(n *ast.Node) *ast.Node {
	for {
		switch p.tok.Kind {
		case token.LBRACK:
			pos := p.tok.Pos
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			n = ast.New(ast.Slice, pos, token.Token{}, n, idx, nil)

		case token.LPAREN:
			pos := p.tok.Pos
			var callee token.Token
			if n.Kind == ast.Var {
				callee = n.Value
			} else {
				p.errorf(pos, "call target must be an identifier")
			}
			args := p.parseParenArgs()
			n = ast.New(ast.FunctionCall, pos, callee, args, nil, nil)

		case token.DOT:
			pos := p.tok.Pos
			p.advance()
			name := p.expectIdent()
			args := p.parseParenArgs()
			// the receiver is compiled as if it were simply the first argument.
			full := ast.New(ast.ArgsEnum, pos, token.Token{}, n, args, nil)
			n = ast.New(ast.FunctionCall, pos, name, full, nil, nil)

		default:
			return n
		}
	}
}

// parseStringLiteral reassembles the lexer's per-fragment STR tokens
// between a matched pair of QUOTE tokens into a single String node,
// preserving interior whitespace (lexer.nextStringToken already prefixes a
// fragment with a space when one was skipped).
func (p *Parser) parseStringLiteral() *ast.Node {
	pos := p.expect(token.QUOTE)
	var sb strings.Builder
	for p.tok.Kind == token.STR {
		sb.WriteString(p.tok.Raw)
		p.advance()
	}
	p.expect(token.QUOTE)
	lit := sb.String()
	tok := token.Token{Kind: token.STR, Pos: pos, Raw: lit, Value: value.Str(lit)}
	return ast.New(ast.String, pos, tok, nil, nil, nil)
}

func (p *Parser) parseArrayLit() *ast.Node {
	pos := p.expect(token.LBRACK)
	var elems []*ast.Node
	for p.tok.Kind != token.RBRACK && p.tok.Kind != token.EOF {
		elems = append(elems, p.parseExpr())
		if p.tok.Kind == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACK)
	return ast.New(ast.ArrayLit, pos, token.Token{}, buildBrackEnum(elems), nil, nil)
}

// parseArgList parses a comma-separated expression list up to (not
// including) close. EOF before close is the one genuinely fatal parser
// state: it propagates out of ParseProgram instead of being recovered.
func (p *Parser) parseArgList(close token.Kind) *ast.Node {
	var args []*ast.Node
	for p.tok.Kind != close && p.tok.Kind != token.EOF {
		args = append(args, p.parseExpr())
		if p.tok.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if p.tok.Kind == token.EOF {
		panic(fatalErr{&Error{Pos: p.tok.Pos, Msg: "unexpected end of file in argument list"}})
	}
	return buildArgsEnum(args)
}

func (p *Parser) parseParenArgs() *ast.Node {
	p.expect(token.LPAREN)
	args := p.parseArgList(token.RPAREN)
	p.expect(token.RPAREN)
	return args
}

func buildArgsEnum(args []*ast.Node) *ast.Node {
	if len(args) == 0 {
		return ast.New(ast.Empty, token.Pos{}, token.Token{}, nil, nil, nil)
	}
	rest := buildArgsEnum(args[1:])
	return ast.New(ast.ArgsEnum, args[0].Pos, token.Token{}, args[0], rest, nil)
}

func buildBrackEnum(elems []*ast.Node) *ast.Node {
	if len(elems) == 0 {
		return ast.New(ast.Empty, token.Pos{}, token.Token{}, nil, nil, nil)
	}
	rest := buildBrackEnum(elems[1:])
	return ast.New(ast.BrackEnum, elems[0].Pos, token.Token{}, elems[0], rest, nil)
}
