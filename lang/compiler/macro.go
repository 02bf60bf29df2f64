package compiler

import (
	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/value"
)

// compileOpMacro is the sole facility letting user code stitch raw
// bytecode into the program stream: each argument spelling a mnemonic
// (e.g. "PUSH", "JZ") is emitted directly as that opcode; any other
// argument becomes an ARG operand of the opcode that precedes it.
func (f *fcomp) compileOpMacro(n *ast.Node) {
	args := n.Op1
	pendingJump := false

	for args != nil && args.Kind == ast.ArgsEnum {
		arg := args.Op1

		if arg.Kind == ast.Var {
			if op, ok := reverseLookupOpcode[arg.Value.Raw]; ok {
				f.emit(op)
				pendingJump = isJump(op)
				args = args.Op2
				continue
			}
			pos := f.pc()
			f.emitArg(value.Str(arg.Value.Raw))
			if pendingJump {
				f.jumpCodes[pos] = struct{}{}
			}
			pendingJump = false
			args = args.Op2
			continue
		}

		pos := f.pc()
		f.emitArg(arg.Value.Value)
		if pendingJump {
			f.jumpCodes[pos] = struct{}{}
		}
		pendingJump = false
		args = args.Op2
	}
}
