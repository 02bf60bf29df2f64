package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/lexer"
	"github.com/mna/hiw/lang/parser"
)

func parseProgram(t *testing.T, src string) *ast.Node {
	t.Helper()
	l := lexer.New(lexer.Preprocess(src), "test")
	p := parser.New(l)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.NoError(t, l.Errors.Err())
	require.NoError(t, p.Err())
	return prog
}

// stmts flattens a right-leaning Prog chain into a slice for easy indexing
// in assertions.
func stmts(prog *ast.Node) []*ast.Node {
	var out []*ast.Node
	for prog != nil && prog.Kind == ast.Prog {
		out = append(out, prog.Op1)
		prog = prog.Op2
	}
	return out
}

func TestParseAssignmentAndBinary(t *testing.T) {
	prog := parseProgram(t, `a = 1 + 2 * 3;`)
	ss := stmts(prog)
	require.Len(t, ss, 1)

	set := ss[0]
	require.Equal(t, ast.Set, set.Kind)
	assert.Equal(t, "a", set.Value.Raw)

	// + - * / share one precedence level and associate left:
	// 1 + 2 * 3 is (1 + 2) * 3.
	mult := set.Op1
	require.Equal(t, ast.Mult, mult.Kind)
	require.Equal(t, ast.Add, mult.Op1.Kind)
	assert.Equal(t, ast.Const, mult.Op2.Kind)
}

func TestParseIfElse(t *testing.T) {
	prog := parseProgram(t, `if a < b { print(1); } else { print(2); }`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	assert.Equal(t, ast.IfElse, ss[0].Kind)
	assert.Equal(t, ast.Lt, ss[0].Op1.Kind)
}

func TestParseWhile(t *testing.T) {
	prog := parseProgram(t, `while i < 3 { print(i); }`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	assert.Equal(t, ast.While, ss[0].Kind)
}

func TestParseForIn(t *testing.T) {
	prog := parseProgram(t, `for x in [1, 2, 3] { print(x); }`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	require.Equal(t, ast.For, ss[0].Kind)
	assert.Equal(t, "x", ss[0].Value.Raw)
	assert.Equal(t, ast.ArrayLit, ss[0].Op1.Kind)
}

func TestParseFunctionDefineAndCall(t *testing.T) {
	prog := parseProgram(t, `define add(a, b) { print(a + b); }; add(1, 2);`)
	ss := stmts(prog)
	require.Len(t, ss, 2)
	require.Equal(t, ast.FunctionDefine, ss[0].Kind)
	assert.Equal(t, "add", ss[0].Value.Raw)

	require.Equal(t, ast.Expr, ss[1].Kind)
	call := ss[1].Op1
	require.Equal(t, ast.FunctionCall, call.Kind)
	assert.Equal(t, "add", call.Value.Raw)
}

func TestParseMethodFormCallPrependsReceiver(t *testing.T) {
	prog := parseProgram(t, `define describe(x) { print(x); }; a.describe();`)
	ss := stmts(prog)
	require.Len(t, ss, 2)

	call := ss[1].Op1
	require.Equal(t, ast.FunctionCall, call.Kind)
	assert.Equal(t, "describe", call.Value.Raw)
	require.Equal(t, ast.ArgsEnum, call.Op1.Kind)
	assert.Equal(t, ast.Var, call.Op1.Op1.Kind)
	assert.Equal(t, "a", call.Op1.Op1.Value.Raw)
	assert.Nil(t, call.Op2)
}

func TestParseArrayLiteralAsExpression(t *testing.T) {
	prog := parseProgram(t, `a = [1, 2, 3];`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	set := ss[0]
	require.Equal(t, ast.Set, set.Kind)
	assert.Equal(t, ast.ArrayLit, set.Op1.Kind)
}

func TestParseStringLiteralWithInteriorSpace(t *testing.T) {
	prog := parseProgram(t, `print("hello world");`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	str := ss[0].Op1
	require.Equal(t, ast.String, str.Kind)
	assert.Equal(t, "hello world", str.Value.Raw)
}

func TestParseUsing(t *testing.T) {
	prog := parseProgram(t, `using "lib.hiw";`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	assert.Equal(t, ast.FileImport, ss[0].Kind)
}

func TestParseOpMacro(t *testing.T) {
	prog := parseProgram(t, `op!(PUSH, 1, PRINT);`)
	ss := stmts(prog)
	require.Len(t, ss, 1)
	assert.Equal(t, ast.OpMacro, ss[0].Kind)
}

func TestParseMissingSemicolonRecordsErrorButRecovers(t *testing.T) {
	l := lexer.New(lexer.Preprocess("a = 1\nb = 2;"), "test")
	p := parser.New(l)
	prog, err := p.ParseProgram()
	require.NoError(t, err) // missing ';' is recorded, not fatal
	require.Error(t, p.Err())

	ss := stmts(prog)
	require.Len(t, ss, 2)
	assert.Equal(t, ast.Set, ss[1].Kind)
}

func TestParseUnexpectedTokenBecomesBadNode(t *testing.T) {
	l := lexer.New(lexer.Preprocess("} print(1);"), "test")
	p := parser.New(l)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.Error(t, p.Err())

	ss := stmts(prog)
	require.Len(t, ss, 2)
	assert.Equal(t, ast.Bad, ss[0].Kind)
	assert.Equal(t, ast.Print, ss[1].Kind)
}

func TestParseUnterminatedArgListIsFatal(t *testing.T) {
	l := lexer.New(lexer.Preprocess("print(1"), "test")
	p := parser.New(l)
	_, err := p.ParseProgram()
	require.Error(t, err)
}
