// Package binder implements a pre-compilation validation pass over the
// parsed program: it collects FunctionDefine names and arities and flags
// duplicate definitions, so that a bad program produces one clear
// diagnostic instead of a confusing mid-splice compiler failure.
//
// This is a drastically trimmed cousin of a lexical-scope resolver: hiw
// has no closures and no block scoping (the machine has one flat global
// variable table), so there is no binding graph to build — only a
// function-table sanity check to perform ahead of compilation.
package binder

import (
	"fmt"

	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/token"
)

// Error is a single binder diagnostic.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Pos.Filename, e.Pos.Line, e.Msg)
}

// ErrorList accumulates binder Errors.
type ErrorList []*Error

func (l ErrorList) Error() string {
	s := ""
	for i, e := range l {
		if i > 0 {
			s += "\n"
		}
		s += e.Error()
	}
	return s
}

func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Func records a function signature seen during the walk.
type Func struct {
	Name  string
	Arity int
	Pos   token.Pos
}

// Check walks prog (a Prog chain, see lang/ast) and returns the set of
// top-level function definitions, or a non-nil error if any name is
// defined more than once.
func Check(prog *ast.Node) (map[string]Func, error) {
	funcs := make(map[string]Func)
	var errs ErrorList

	walkProg(prog, func(stmt *ast.Node) {
		if stmt.Kind != ast.FunctionDefine {
			return
		}
		name := stmt.Value.Raw
		arity := countParams(stmt.Op1)
		if prev, ok := funcs[name]; ok {
			errs = append(errs, &Error{
				Pos: stmt.Pos,
				Msg: fmt.Sprintf("function %q redefined (first defined at %s:%d)", name, prev.Pos.Filename, prev.Pos.Line),
			})
			return
		}
		funcs[name] = Func{Name: name, Arity: arity, Pos: stmt.Pos}
	})

	return funcs, errs.Err()
}

// walkProg visits every top-level statement of a Prog chain in order.
func walkProg(prog *ast.Node, visit func(*ast.Node)) {
	for prog != nil && prog.Kind == ast.Prog {
		visit(prog.Op1)
		prog = prog.Op2
	}
}

// countParams counts the leading identifiers of an ArgsEnum chain, the
// shape a parameter list parses to (see lang/parser.parseParenArgs).
func countParams(params *ast.Node) int {
	n := 0
	for params != nil && params.Kind == ast.ArgsEnum {
		n++
		params = params.Op2
	}
	return n
}
