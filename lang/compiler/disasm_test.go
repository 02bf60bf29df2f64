package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/hiw/lang/compiler"
)

func TestDisassembleMarksJumpTargets(t *testing.T) {
	bc, err := compileSrc(t, `if a < b { print(1); } else { print(2); }`)
	require.NoError(t, err)

	out := compiler.Disassemble(bc)
	assert.Contains(t, out, "JZ")
	assert.Contains(t, out, "*")
}

func TestSortedJumpCodesIsAscending(t *testing.T) {
	bc, err := compileSrc(t, `while i < 3 { print(i); i = i + 1; }`)
	require.NoError(t, err)

	positions := compiler.SortedJumpCodes(bc.JumpCodes)
	for i := 1; i < len(positions); i++ {
		assert.Less(t, positions[i-1], positions[i])
	}
}

func TestFunctionNamesIsSorted(t *testing.T) {
	bc, err := compileSrc(t, `
define zeta() { print(1); };
define alpha() { print(2); }
`)
	require.NoError(t, err)

	names := compiler.FunctionNames(bc.Functions)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}
