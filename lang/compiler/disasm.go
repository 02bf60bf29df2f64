package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortedJumpCodes returns the positions in jc in ascending order, for
// deterministic disassembly output (map iteration order is not stable).
func SortedJumpCodes(jc map[int]struct{}) []int {
	positions := maps.Keys(jc)
	slices.Sort(positions)
	return positions
}

// FunctionNames returns the names of every function in functions, sorted,
// again for deterministic output across otherwise-unordered map iteration.
func FunctionNames(functions map[string]*Function) []string {
	names := maps.Keys(functions)
	slices.Sort(names)
	return names
}

// Disassemble renders bc as one mnemonic per line, annotating every
// position that JumpCodes marks as a branch target. It exists for tests
// and debugging, not for any runtime path.
func Disassemble(bc *ByteCode) string {
	var sb strings.Builder
	jumps := SortedJumpCodes(bc.JumpCodes)
	jumpSet := make(map[int]bool, len(jumps))
	for _, p := range jumps {
		jumpSet[p] = true
	}

	for i := 0; i < len(bc.Program); i++ {
		op := bc.Program[i]
		marker := " "
		if jumpSet[i] {
			marker = "*"
		}
		if op.Op == ARG {
			fmt.Fprintf(&sb, "%4d%s ARG %v\n", i, marker, op.Arg)
		} else {
			fmt.Fprintf(&sb, "%4d%s %s\n", i, marker, op.Op)
		}
	}

	for _, name := range FunctionNames(bc.Functions) {
		fn := bc.Functions[name]
		fmt.Fprintf(&sb, "function %s(%s):\n", name, strings.Join(fn.Params, ", "))
	}

	return sb.String()
}
