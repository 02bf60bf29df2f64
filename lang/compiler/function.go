package compiler

import (
	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/value"
)

// compileFunctionDefine compiles the parameter list exactly like an
// ordinary argument list — each Var there compiles to FETCH, ARG(name) —
// then strips the FETCH opcodes back out, keeping only the ARG cells,
// which hold the formal parameter names. This reuses compileArgsEnum
// instead of a second, parallel "parse/compile identifiers" path.
func (f *fcomp) compileFunctionDefine(n *ast.Node) {
	name := n.Value.Raw

	paramsComp := newFcomp(f.c)
	paramsComp.compileArgsEnum(n.Op1)
	var params []string
	for _, op := range paramsComp.program {
		if op.Op == ARG {
			params = append(params, string(op.Arg.(value.Str)))
		}
	}

	bodyComp := newFcomp(f.c)
	bodyComp.compileNode(n.Op2)
	if bodyComp.err != nil {
		f.err = bodyComp.err
		return
	}

	body := bodyComp.program
	if ln := len(body); ln > 0 && body[ln-1].Op == HALT {
		body = body[:ln-1]
	}

	// f.c.functions is shared across the whole compilation unit, including
	// every spliced import, so this is also where a definition split across
	// two files (or shadowing one pulled in by `using`) gets caught — the
	// binder's own pre-pass only ever sees one file's Prog chain at a time.
	if prev, ok := f.c.functions[name]; ok {
		f.failAt(n, "function %q redefined (first defined at %s:%d)", name, prev.Pos.Filename, prev.Pos.Line)
		return
	}

	f.c.functions[name] = &Function{
		Name:      name,
		Params:    params,
		Program:   body,
		JumpCodes: bodyComp.jumpCodes,
		Pos:       n.Pos,
	}
}

// compileFunctionCall compiles the call arguments, binds them into the
// callee's parameters (last argument into last parameter, so the stack
// unwinds in the natural order), splices the callee's body, then unbinds
// the parameters. Every branch target carried by the callee's JumpCodes is
// re-based by the position the splice lands at — the body's own jump
// targets are relative to its own program, which always starts at 0.
func (f *fcomp) compileFunctionCall(n *ast.Node) {
	name := n.Value.Raw
	fn, ok := f.c.functions[name]
	if !ok {
		f.failAt(n, "call to undefined function %q", name)
		return
	}

	argCount := countArgsEnum(n.Op1)
	if argCount != len(fn.Params) {
		f.failAt(n, "function %q expects %d argument(s), got %d", name, len(fn.Params), argCount)
		return
	}

	f.compileArgsEnum(n.Op1)

	for i := len(fn.Params) - 1; i >= 0; i-- {
		f.emit(STORE)
		f.emitArg(value.Str(fn.Params[i]))
	}

	f.spliceBody(fn.Program, fn.JumpCodes)

	for _, p := range fn.Params {
		f.emit(DROP)
		f.emitArg(value.Str(p))
	}
}

// spliceBody appends body into f.program, re-basing any operand position
// named in jumpCodes (targets relative to body's own start) by the
// position the splice lands at in f.program.
func (f *fcomp) spliceBody(body []Operation, jumpCodes map[int]struct{}) {
	base := f.pc()
	for i, op := range body {
		if op.Op == ARG {
			if _, isJump := jumpCodes[i]; isJump {
				rebased := int32(op.Arg.(value.Int)) + int32(base)
				f.program = append(f.program, Operation{Op: ARG, Arg: value.Int(rebased)})
				f.jumpCodes[base+i] = struct{}{}
				continue
			}
		}
		f.program = append(f.program, op)
	}
}
