package compiler

import (
	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/value"
)

// compileIf emits:
//
//	<cond>
//	JZ   ARG(pc+4)      ; jump past the skip-JMP when cond is true
//	JMP  ARG(?)          ; taken when cond is false, patched below
//	<then>
//	                     ; patched JMP target lands here
//
// pc is the position of the JZ itself, so JZ's target is the first cell
// after the skip-JMP's ARG: <then>'s first instruction.
func (f *fcomp) compileIf(n *ast.Node) {
	f.compileNode(n.Op1)

	f.emit(JZ)
	jzArg := f.pc()
	f.emitArg(nil)
	f.patchArg(jzArg, jzArg+3)
	f.jumpCodes[jzArg] = struct{}{}

	f.emit(JMP)
	jmpArg := f.pc()
	f.emitArg(nil)
	f.jumpCodes[jmpArg] = struct{}{}

	f.compileNode(n.Op2)

	f.patchArg(jmpArg, f.pc())
}

// compileIfElse extends compileIf with a second skip-JMP after the
// then-branch, so the then-branch's fallthrough hops over the else-branch.
func (f *fcomp) compileIfElse(n *ast.Node) {
	f.compileNode(n.Op1)

	f.emit(JZ)
	jzArg := f.pc()
	f.emitArg(nil)
	f.patchArg(jzArg, jzArg+3)
	f.jumpCodes[jzArg] = struct{}{}

	f.emit(JMP)
	toElse := f.pc()
	f.emitArg(nil)
	f.jumpCodes[toElse] = struct{}{}

	f.compileNode(n.Op2) // then

	f.emit(JMP)
	toEnd := f.pc()
	f.emitArg(nil)
	f.jumpCodes[toEnd] = struct{}{}

	f.patchArg(toElse, f.pc())
	f.compileNode(n.Op3) // else

	f.patchArg(toEnd, f.pc())
}

// compileWhile reuses the same JZ/skip-JMP header as compileIf for the
// loop test, then closes the body with an unconditional jump back to the
// pre-condition address.
func (f *fcomp) compileWhile(n *ast.Node) {
	condStart := f.pc()
	f.compileNode(n.Op1)

	f.emit(JZ)
	jzArg := f.pc()
	f.emitArg(nil)
	f.patchArg(jzArg, jzArg+3)
	f.jumpCodes[jzArg] = struct{}{}

	f.emit(JMP)
	toEnd := f.pc()
	f.emitArg(nil)
	f.jumpCodes[toEnd] = struct{}{}

	f.compileNode(n.Op2) // body

	f.emit(JMP)
	back := f.pc()
	f.emitArg(nil)
	f.patchArg(back, condStart)
	f.jumpCodes[back] = struct{}{}

	f.patchArg(toEnd, f.pc())
}

// compileFor lowers `for name in iter body` to index-based iteration over
// an Array, the open question spec.md §9 leaves for implementers to
// resolve: evaluate iter once into a hidden temporary, then loop while a
// hidden index is less than its length, binding name to the element at
// that index before each execution of body.
func (f *fcomp) compileFor(n *ast.Node) {
	arrName := f.c.nextTemp("$for_arr")
	idxName := f.c.nextTemp("$for_idx")
	loopVar := n.Value.Raw

	f.compileNode(n.Op1) // iterable expression
	f.emit(STORE)
	f.emitArg(value.Str(arrName))

	f.emit(VAR)
	f.emitArg(value.Str(idxName))
	f.emitArg(value.Int(0))

	condStart := f.pc()
	f.emit(FETCH)
	f.emitArg(value.Str(idxName))
	f.emit(FETCH)
	f.emitArg(value.Str(arrName))
	f.emit(LEN)
	f.emit(LT)

	f.emit(JZ)
	jzArg := f.pc()
	f.emitArg(nil)
	f.patchArg(jzArg, jzArg+3)
	f.jumpCodes[jzArg] = struct{}{}

	f.emit(JMP)
	toEnd := f.pc()
	f.emitArg(nil)
	f.jumpCodes[toEnd] = struct{}{}

	f.emit(FETCH)
	f.emitArg(value.Str(arrName))
	f.emit(FETCH)
	f.emitArg(value.Str(idxName))
	f.emit(SLICE)
	f.emit(STORE)
	f.emitArg(value.Str(loopVar))

	f.compileNode(n.Op2) // body

	f.emit(FETCH)
	f.emitArg(value.Str(idxName))
	f.emit(PUSH)
	f.emitArg(value.Int(1))
	f.emit(ADD)
	f.emit(STORE)
	f.emitArg(value.Str(idxName))

	f.emit(JMP)
	back := f.pc()
	f.emitArg(nil)
	f.patchArg(back, condStart)
	f.jumpCodes[back] = struct{}{}

	f.patchArg(toEnd, f.pc())

	f.emit(DROP)
	f.emitArg(value.Str(arrName))
	f.emit(DROP)
	f.emitArg(value.Str(idxName))
}
