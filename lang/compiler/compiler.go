// Package compiler lowers a parsed hiw program to flat bytecode: a single
// pass over the AST that emits instructions as it goes and fixes up
// forward branch targets once their destination is known.
package compiler

import (
	"fmt"

	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/binder"
	"github.com/mna/hiw/lang/token"
	"github.com/mna/hiw/lang/value"
)

// Compiler holds the state shared by every compilation unit of one source
// file and its imports: the function table (so a function defined in an
// imported file is callable from the importer and vice versa) and the
// import collaborators. Compiling itself happens in terms of fcomp, one
// per top-level program, per function body, and per imported unit.
type Compiler struct {
	filename string
	resolver ImportResolver
	load     LoadSource

	functions   map[string]*Function
	tempCounter int
}

// New creates a Compiler for filename. resolver/load are consulted only
// when the program contains a `using` statement; pass NoopResolver and a
// nil LoadSource when the caller knows it will not.
func New(filename string, resolver ImportResolver, load LoadSource) *Compiler {
	return &Compiler{
		filename:  filename,
		resolver:  resolver,
		load:      load,
		functions: make(map[string]*Function),
	}
}

func (c *Compiler) nextTemp(prefix string) string {
	c.tempCounter++
	return fmt.Sprintf("%s$%d", prefix, c.tempCounter)
}

// CompileProgram runs the binder pre-pass (duplicate-definition check;
// call arity is checked later, at each call site) then lowers prog to a
// ByteCode ending in a final HALT.
func (c *Compiler) CompileProgram(prog *ast.Node) (*ByteCode, error) {
	if _, err := binder.Check(prog); err != nil {
		return nil, err
	}

	f := newFcomp(c)
	f.compileProg(prog)
	if f.err != nil {
		return nil, f.err
	}
	f.emit(HALT)

	return &ByteCode{Program: f.program, Functions: c.functions, JumpCodes: f.jumpCodes}, nil
}

// fcomp is one compilation unit's emission buffer: the top-level program,
// a single function body, or an imported file's program. Its pc is always
// len(program), so branch fix-up never needs a separate counter.
type fcomp struct {
	c         *Compiler
	program   []Operation
	jumpCodes map[int]struct{}
	err       error
	pos       token.Pos // position of the statement currently being compiled
}

func newFcomp(c *Compiler) *fcomp {
	return &fcomp{c: c, jumpCodes: make(map[int]struct{})}
}

func (f *fcomp) pc() int { return len(f.program) }

func (f *fcomp) emit(op Opcode) { f.program = append(f.program, Operation{Op: op, Pos: f.pos}) }

func (f *fcomp) emitArg(v value.Value) { f.program = append(f.program, Operation{Op: ARG, Arg: v}) }

func (f *fcomp) patchArg(pos, target int) {
	f.program[pos] = Operation{Op: ARG, Arg: value.Int(int32(target))}
}

func (f *fcomp) failAt(n *ast.Node, format string, args ...any) {
	if f.err == nil {
		f.err = &Error{Pos: n.Pos, Msg: fmt.Sprintf(format, args...)}
	}
}

// compileProg walks a right-leaning Prog chain, compiling each top-level
// statement in order.
func (f *fcomp) compileProg(n *ast.Node) {
	for n != nil && n.Kind == ast.Prog && f.err == nil {
		f.compileNode(n.Op1)
		n = n.Op2
	}
}

// compileSeq walks a left-leaning Seq chain built for `{ }` blocks.
func (f *fcomp) compileSeq(n *ast.Node) {
	if n == nil || n.Kind != ast.Seq {
		f.compileNode(n)
		return
	}
	f.compileSeq(n.Op1)
	f.compileNode(n.Op2)
}

// compileArgsEnum compiles every element of an ArgsEnum chain in order,
// leaving one pushed value per element on the stack. It is reused for both
// call arguments and (oddly, but deliberately — see FunctionDefine below) a
// function's own parameter list.
func (f *fcomp) compileArgsEnum(n *ast.Node) {
	for n != nil && n.Kind == ast.ArgsEnum && f.err == nil {
		f.compileNode(n.Op1)
		n = n.Op2
	}
}

func (f *fcomp) compileBrackEnum(n *ast.Node) {
	for n != nil && n.Kind == ast.BrackEnum && f.err == nil {
		f.compileNode(n.Op1)
		n = n.Op2
	}
}

func countArgsEnum(n *ast.Node) int {
	c := 0
	for n != nil && n.Kind == ast.ArgsEnum {
		c++
		n = n.Op2
	}
	return c
}

// compileNode is the pattern-directed core of the compiler: one case per
// ast.Kind.
func (f *fcomp) compileNode(n *ast.Node) {
	if f.err != nil || n == nil {
		return
	}
	if n.Pos.Filename != "" || n.Pos.Line != 0 {
		f.pos = n.Pos
	}

	switch n.Kind {
	case ast.Empty, ast.Bad:
		// no-op

	case ast.Prog:
		f.compileProg(n)
	case ast.Seq:
		f.compileSeq(n)

	case ast.Expr:
		f.compileNode(n.Op1)
		switch n.Op1.Kind {
		case ast.Set, ast.FunctionCall, ast.Print, ast.Input:
			// these leave nothing (Set) or are run purely for effect
			// (FunctionCall's net stack effect is whatever its spliced body
			// does; Print/Input are statement-only forms) — nothing to drop.
		default:
			f.emit(POP)
		}

	case ast.Const, ast.String, ast.BoolLit:
		f.emit(PUSH)
		f.emitArg(n.Value.Value)

	case ast.Var:
		f.emit(FETCH)
		f.emitArg(value.Str(n.Value.Raw))

	case ast.ArrayLit:
		// CLEAN first, then element pushes, then ARR: ARR drains the whole
		// stack, so anything left over from an enclosing expression would
		// otherwise be captured too (spec.md §9 "ARR semantics").
		f.emit(CLEAN)
		f.compileBrackEnum(n.Op1)
		f.emit(ARR)

	case ast.Add:
		f.compileBinary(n, ADD)
	case ast.Sub:
		f.compileBinary(n, SUB)
	case ast.Mult:
		f.compileBinary(n, MULT)
	case ast.Div:
		f.compileBinary(n, DIV)
	case ast.Lt:
		f.compileBinary(n, LT)
	case ast.Bt:
		f.compileBinary(n, BT)
	case ast.Eq:
		f.compileBinary(n, EQ)

	case ast.Set:
		f.compileNode(n.Op1)
		f.emit(STORE)
		f.emitArg(value.Str(n.Value.Raw))

	case ast.Slice:
		f.compileNode(n.Op1)
		f.compileNode(n.Op2)
		f.emit(SLICE)

	case ast.Print:
		f.compileNode(n.Op1)
		f.emit(PRINT)

	case ast.Input:
		// The optional argument to `input(...)` is not itself read by the
		// INPUT opcode (it takes no operand); compiling it as a PRINT first
		// gives it an observable role as a prompt, the only sensible meaning
		// for an expression that precedes a blocking read (open question,
		// see DESIGN.md).
		if n.Op1 != nil {
			f.compileNode(n.Op1)
			f.emit(PRINT)
		}
		f.emit(INPUT)

	case ast.If:
		f.compileIf(n)
	case ast.IfElse:
		f.compileIfElse(n)
	case ast.While:
		f.compileWhile(n)
	case ast.For:
		f.compileFor(n)

	case ast.FunctionDefine:
		f.compileFunctionDefine(n)
	case ast.FunctionCall:
		f.compileFunctionCall(n)

	case ast.OpMacro:
		f.compileOpMacro(n)
	case ast.FileImport:
		f.compileImport(n)

	default:
		f.failAt(n, "cannot compile node kind %s", n.Kind)
	}
}

func (f *fcomp) compileBinary(n *ast.Node, op Opcode) {
	f.compileNode(n.Op1)
	f.compileNode(n.Op2)
	f.emit(op)
}
