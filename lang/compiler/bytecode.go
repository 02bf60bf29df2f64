package compiler

import (
	"github.com/mna/hiw/lang/token"
	"github.com/mna/hiw/lang/value"
)

// Operation is one cell of the flat instruction stream: either an opcode
// or, when Op is ARG, an operand carrying a value (a pushed constant, a
// variable name, or a branch target encoded as value.Int). Pos is the
// source position of the statement that emitted the opcode cell; it is
// zero on ARG cells, which carry no diagnostic of their own.
type Operation struct {
	Op  Opcode
	Arg value.Value // meaningful only when Op == ARG
	Pos token.Pos
}

// Function is a compiled function body: its body carries no terminal HALT
// (spliced bodies run into whatever follows them) and its JumpCodes record
// every branch-target cell inside Program that must be re-based when the
// body is spliced into a caller. Pos is the position of the defining
// `define`, kept so a later redefinition (possibly from a different
// compilation unit entirely) can point back at the first one.
type Function struct {
	Name      string
	Params    []string
	Program   []Operation
	JumpCodes map[int]struct{}
	Pos       token.Pos
}

// ByteCode is the compiler's output: the top-level program, the table of
// every function defined anywhere in the compilation unit (including
// spliced imports), and the program's own JumpCodes set.
type ByteCode struct {
	Program   []Operation
	Functions map[string]*Function
	JumpCodes map[int]struct{}
}

// ImportResolver resolves a `using "path";` path to loadable source. The
// search heuristics themselves (cwd, then executable directory, with the
// executable directory winning ties) are an out-of-core-scope collaborator;
// the compiler only consumes this interface plus a LoadSource function.
type ImportResolver interface {
	Resolve(path string) (abs string, ok bool)
}

// LoadSource reads the source at an already-resolved absolute path.
type LoadSource func(path string) (string, error)

// NoopResolver always reports a path as unresolved. It is the resolver
// used by tests that never exercise `using`.
type NoopResolver struct{}

func (NoopResolver) Resolve(string) (string, bool) { return "", false }
