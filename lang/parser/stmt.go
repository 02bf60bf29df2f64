package parser

import (
	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/token"
)

// ParseProgram parses the entire token stream into one right-leaning Prog
// chain. A fatalErr (EOF mid argument list) is the only thing that escapes
// as err; every other diagnostic is accumulated and returned via Err().
func (p *Parser) ParseProgram() (prog *ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(fatalErr); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()

	var stmts []*ast.Node
	for p.tok.Kind != token.EOF {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return buildProg(stmts), nil
}

// parseStmt parses one statement. It returns nil for a bare ';', which the
// caller drops rather than folding into the chain.
func (p *Parser) parseStmt() (stmt *ast.Node) {
	pos := p.tok.Pos

	defer func() {
		if r := recover(); r != nil {
			if r == errPanicMode {
				stmt = ast.New(ast.Bad, pos, token.Token{}, nil, nil, nil)
				p.syncAfterError()
				return
			}
			panic(r) // fatalErr and anything else propagate to ParseProgram
		}
	}()

	switch p.tok.Kind {
	case token.SEMI:
		p.advance()
		return nil
	case token.PRINT:
		return p.parsePrint()
	case token.INPUT:
		return p.parseInput()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.DEFINE:
		return p.parseDefine()
	case token.OPMACRO:
		return p.parseOpMacro()
	case token.USING:
		return p.parseUsing()
	case token.LBRACE:
		body := p.parseBlock()
		p.closeBlockStmt()
		return body
	case token.LBRACK:
		n := p.parseArrayLit()
		p.expectTerminator()
		return n
	default:
		n := p.parseExpr()
		p.expectTerminator()
		if n.Kind == ast.Set {
			return n
		}
		return ast.New(ast.Expr, n.Pos, token.Token{}, n, nil, nil)
	}
}

// parseBodyStmt parses the "statement" child of if/while/for: a plain
// statement, coerced from nil (a bare ';') to an explicit Empty node so the
// parent's Op slot is never nil.
func (p *Parser) parseBodyStmt() *ast.Node {
	pos := p.tok.Pos
	if s := p.parseStmt(); s != nil {
		return s
	}
	return ast.New(ast.Empty, pos, token.Token{}, nil, nil, nil)
}

func (p *Parser) parsePrint() *ast.Node {
	pos := p.expect(token.PRINT)
	p.expect(token.LPAREN)
	arg := p.parseExpr()
	if p.tok.Kind == token.EOF {
		panic(fatalErr{&Error{Pos: p.tok.Pos, Msg: "unexpected end of file in argument list"}})
	}
	p.expect(token.RPAREN)
	p.expectTerminator()
	return ast.New(ast.Print, pos, token.Token{}, arg, nil, nil)
}

func (p *Parser) parseInput() *ast.Node {
	pos := p.expect(token.INPUT)
	p.expect(token.LPAREN)
	var arg *ast.Node
	if p.tok.Kind != token.RPAREN {
		arg = p.parseExpr()
	}
	p.expect(token.RPAREN)
	p.expectTerminator()
	return ast.New(ast.Input, pos, token.Token{}, arg, nil, nil)
}

func (p *Parser) parseIf() *ast.Node {
	pos := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBodyStmt()
	if p.tok.Kind == token.ELSE {
		p.advance()
		els := p.parseBodyStmt()
		return ast.New(ast.IfElse, pos, token.Token{}, cond, then, els)
	}
	return ast.New(ast.If, pos, token.Token{}, cond, then, nil)
}

func (p *Parser) parseWhile() *ast.Node {
	pos := p.expect(token.WHILE)
	cond := p.parseExpr()
	body := p.parseBodyStmt()
	return ast.New(ast.While, pos, token.Token{}, cond, body, nil)
}

func (p *Parser) parseFor() *ast.Node {
	pos := p.expect(token.FOR)
	name := p.expectIdent()
	p.expect(token.IN)
	iter := p.parseExpr()
	body := p.parseBodyStmt()
	return ast.New(ast.For, pos, name, iter, body, nil)
}

func (p *Parser) parseDefine() *ast.Node {
	pos := p.expect(token.DEFINE)
	name := p.expectIdent()
	params := p.parseParenArgs()
	body := p.parseBlock()
	p.closeBlockStmt()
	return ast.New(ast.FunctionDefine, pos, name, params, body, nil)
}

func (p *Parser) parseOpMacro() *ast.Node {
	pos := p.expect(token.OPMACRO)
	args := p.parseParenArgs()
	p.expectTerminator()
	return ast.New(ast.OpMacro, pos, token.Token{}, args, nil, nil)
}

func (p *Parser) parseUsing() *ast.Node {
	pos := p.expect(token.USING)
	path := p.parseStringLiteral()
	p.expectTerminator()
	return ast.New(ast.FileImport, pos, path.Value, nil, nil, nil)
}

// parseBlock parses '{' statement* '}' and folds the statements into a
// left-leaning Seq chain (each new statement wraps the accumulator on the
// left), as spec.md describes for blocks.
func (p *Parser) parseBlock() *ast.Node {
	p.expect(token.LBRACE)
	var stmts []*ast.Node
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBRACE)
	return buildSeq(stmts)
}

func buildSeq(stmts []*ast.Node) *ast.Node {
	if len(stmts) == 0 {
		return ast.New(ast.Empty, token.Pos{}, token.Token{}, nil, nil, nil)
	}
	acc := stmts[0]
	for _, s := range stmts[1:] {
		acc = ast.New(ast.Seq, s.Pos, token.Token{}, acc, s, nil)
	}
	return acc
}

// buildProg folds top-level statements into a right-leaning cons chain:
// Op1 is the head statement, Op2 is the rest of the program.
func buildProg(stmts []*ast.Node) *ast.Node {
	if len(stmts) == 0 {
		return ast.New(ast.Empty, token.Pos{}, token.Token{}, nil, nil, nil)
	}
	rest := buildProg(stmts[1:])
	return ast.New(ast.Prog, stmts[0].Pos, token.Token{}, stmts[0], rest, nil)
}

// syncMode distinguishes, for a given synchronization token, whether
// recovery should consume it (syncAfter — it closes the thing that failed,
// like ';' or a block's '}') or leave it for the next parseStmt to see
// fresh (syncAt — it starts a new, recognizable statement).
type syncMode int

const (
	syncAfter syncMode = iota
	syncAt
)

// syncToks are the tokens considered safe synchronization points after a
// parse error. RBRACE is syncAfter rather than syncAt: unlike the statement
// keywords, it can itself be the very token that triggered the error (a
// stray '}' parsed where an expression was expected), and leaving it
// unconsumed in that case would make syncAfterError return the same
// position forever.
var syncToks = map[token.Kind]syncMode{
	token.SEMI:    syncAfter,
	token.RBRACE:  syncAfter,
	token.PRINT:   syncAt,
	token.INPUT:   syncAt,
	token.IF:      syncAt,
	token.WHILE:   syncAt,
	token.FOR:     syncAt,
	token.DEFINE:  syncAt,
	token.OPMACRO: syncAt,
	token.USING:   syncAt,
	token.LBRACE:  syncAt,
}

func (p *Parser) syncAfterError() token.Pos {
	for p.tok.Kind != token.EOF {
		if mode, ok := syncToks[p.tok.Kind]; ok {
			if mode == syncAfter {
				p.advance()
			}
			return p.tok.Pos
		}
		p.advance()
	}
	return p.tok.Pos
}
