// Package parser implements the recursive-descent parser that turns a
// lexer.Lexer's token stream into a list of statement trees.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mna/hiw/lang/lexer"
	"github.com/mna/hiw/lang/token"
)

// errPanicMode is the sentinel p.expect panics with; recovered at the
// statement level in parseStmt, which turns the interval into a Bad node.
var errPanicMode = errors.New("parser: panic mode")

// Parser consumes tokens one at a time from a lexer.Lexer and accumulates
// diagnostics without aborting, except for genuinely unrecoverable states
// (see fatalErr).
type Parser struct {
	lex    *lexer.Lexer
	errors ErrorList

	tok token.Token // current token
}

// New creates a Parser reading from lex, which must already have had
// Preprocess applied to its source.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tok = p.lex.NextToken()
}

// Errors returns every diagnostic accumulated so far.
func (p *Parser) Errors() ErrorList { return p.errors }

// Err returns Errors() as an error, or nil if empty.
func (p *Parser) Err() error { return p.errors.Err() }

func (p *Parser) errorf(pos token.Pos, format string, args ...any) {
	p.errors.Add(pos, fmt.Sprintf(format, args...))
}

// expect consumes the current token if it matches one of kinds, returning
// its position; otherwise it records an error and panics with
// errPanicMode, recovered by parseStmt.
func (p *Parser) expect(kinds ...token.Kind) token.Pos {
	pos := p.tok.Pos
	for _, k := range kinds {
		if p.tok.Kind == k {
			p.advance()
			return pos
		}
	}
	p.errorExpected(pos, kinds)
	panic(errPanicMode)
}

// expectIdent is like expect(token.IDENT) but returns the full token, since
// callers need the identifier's literal text, not just its position.
func (p *Parser) expectIdent() token.Token {
	if p.tok.Kind != token.IDENT {
		p.errorExpected(p.tok.Pos, []token.Kind{token.IDENT})
		panic(errPanicMode)
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *Parser) errorExpected(pos token.Pos, kinds []token.Kind) {
	var buf strings.Builder
	for i, k := range kinds {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k.String())
	}
	lbl := buf.String()
	if len(kinds) > 1 {
		lbl = "one of " + lbl
	}
	p.errorf(pos, "expected %s, found %s", lbl, p.tok.Kind)
}

// expectTerminator consumes a trailing ';', recording (not aborting on) a
// missing one, per spec: "missing terminators record errors without
// aborting".
func (p *Parser) expectTerminator() {
	if p.tok.Kind == token.SEMI {
		p.advance()
		return
	}
	p.errorf(p.tok.Pos, "missing ';'")
}

// closeBlockStmt is called immediately after consuming a block's closing
// '}'. A following ';' is swallowed; a following 'else' is left for the
// enclosing if to see; anything that cannot legally follow a block here
// (not an enclosing block/program boundary either) is flagged.
func (p *Parser) closeBlockStmt() {
	switch p.tok.Kind {
	case token.SEMI:
		p.advance()
	case token.ELSE, token.EOF, token.RBRACE:
	default:
		p.errorf(p.tok.Pos, "expected ';' or 'else' after block, found %s", p.tok.Kind)
	}
}
