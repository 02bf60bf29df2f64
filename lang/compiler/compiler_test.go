package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/hiw/lang/compiler"
	"github.com/mna/hiw/lang/lexer"
	"github.com/mna/hiw/lang/parser"
	"github.com/mna/hiw/lang/value"
)

func compileSrc(t *testing.T, src string) (*compiler.ByteCode, error) {
	t.Helper()
	l := lexer.New(lexer.Preprocess(src), "test")
	p := parser.New(l)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.NoError(t, l.Errors.Err())
	require.NoError(t, p.Err())

	c := compiler.New("test", compiler.NoopResolver{}, nil)
	return c.CompileProgram(prog)
}

func TestCompileProgramEndsInHalt(t *testing.T) {
	bc, err := compileSrc(t, `print(1);`)
	require.NoError(t, err)
	require.NotEmpty(t, bc.Program)
	assert.Equal(t, compiler.HALT, bc.Program[len(bc.Program)-1].Op)
}

func TestCompileIfElseBranchTargetsAreMonotonic(t *testing.T) {
	bc, err := compileSrc(t, `if a < b { print(1); } else { print(2); }`)
	require.NoError(t, err)
	require.NotEmpty(t, bc.JumpCodes)

	for pos := range bc.JumpCodes {
		require.Less(t, pos, len(bc.Program))
		require.Equal(t, compiler.ARG, bc.Program[pos].Op)
		target := int(bc.Program[pos].Arg.(value.Int))
		assert.GreaterOrEqual(t, target, 0)
		assert.LessOrEqual(t, target, len(bc.Program))
	}
}

func TestCompileWhileLoopBranchesBackward(t *testing.T) {
	bc, err := compileSrc(t, `while i < 3 { print(i); }`)
	require.NoError(t, err)
	require.NotEmpty(t, bc.JumpCodes)

	// The loop's closing JMP forms a back-edge: its target is a position
	// strictly earlier than the JMP itself, unlike the forward skip-JMPs
	// compileWhile also emits.
	foundBackEdge := false
	for pos := range bc.JumpCodes {
		op := bc.Program[pos]
		require.Equal(t, compiler.ARG, op.Op)
		target := int(op.Arg.(value.Int))
		if target < pos {
			foundBackEdge = true
		}
	}
	assert.True(t, foundBackEdge, "expected at least one backward branch target")
}

func TestCompileUndefinedFunctionCallFails(t *testing.T) {
	_, err := compileSrc(t, `add(1, 2);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undefined function`)
}

func TestCompileFunctionCallArityMismatchFails(t *testing.T) {
	_, err := compileSrc(t, `define add(a, b) { print(a + b); }; add(1);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 argument")
}

func TestCompileFunctionCallSplicesBodyAndUnbindsParams(t *testing.T) {
	bc, err := compileSrc(t, `define add(a, b) { print(a + b); }; add(1, 2);`)
	require.NoError(t, err)

	var stores, fetches, drops, prints int
	for _, op := range bc.Program {
		switch op.Op {
		case compiler.STORE:
			stores++
		case compiler.FETCH:
			fetches++
		case compiler.DROP:
			drops++
		case compiler.PRINT:
			prints++
		}
	}
	// 2 STOREs binding args, plus 1 STORE? no: add's body has no Set, only
	// the binder STOREs for params (2) matter here as a lower bound.
	assert.GreaterOrEqual(t, stores, 2)
	assert.GreaterOrEqual(t, fetches, 2)
	assert.Equal(t, 2, drops) // one DROP per parameter after the call
	assert.Equal(t, 1, prints)
}

func TestCompileDuplicateFunctionDefinitionFails(t *testing.T) {
	_, err := compileSrc(t, `
define f() { print(1); };
define f() { print(2); }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redefined")
}

func TestCompileOpMacroEmitsRawOpcodes(t *testing.T) {
	bc, err := compileSrc(t, `op!(PUSH, 1, PRINT);`)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(bc.Program), 3)
	assert.Equal(t, compiler.PUSH, bc.Program[0].Op)
	assert.Equal(t, compiler.ARG, bc.Program[1].Op)
	assert.Equal(t, compiler.PRINT, bc.Program[2].Op)
}

func TestCompileArrayLiteralEmitsCleanAndArr(t *testing.T) {
	bc, err := compileSrc(t, `a = [1, 2, 3];`)
	require.NoError(t, err)

	var sawClean, sawArr bool
	for _, op := range bc.Program {
		if op.Op == compiler.CLEAN {
			sawClean = true
		}
		if op.Op == compiler.ARR {
			sawArr = true
		}
	}
	assert.True(t, sawClean)
	assert.True(t, sawArr)
}

func TestCompileForLoopUsesHiddenTemporaries(t *testing.T) {
	bc, err := compileSrc(t, `for x in [1, 2] { print(x); }`)
	require.NoError(t, err)

	var varCount, dropCount int
	for _, op := range bc.Program {
		switch op.Op {
		case compiler.VAR:
			varCount++
		case compiler.DROP:
			dropCount++
		}
	}
	assert.Equal(t, 1, varCount) // the hidden index variable
	assert.Equal(t, 2, dropCount) // array temp + index temp
}
