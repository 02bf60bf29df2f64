// Package machine implements the hiw bytecode interpreter: a flat pc-loop
// over a compiler.ByteCode, dispatching on opcode with a plain operand
// stack and a global name table. It never recovers from a runtime error by
// itself — the caller decides whether to report it and exit.
package machine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/hiw/lang/compiler"
	"github.com/mna/hiw/lang/token"
	"github.com/mna/hiw/lang/value"
)

// State is the VM's run state: Ready → Running → (Halted | Errored).
type State int

const (
	Ready State = iota
	Running
	Halted
	Errored
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// VM is a single, strictly single-threaded interpreter. Stdout/Stderr/Stdin
// default to the process streams; set them before calling Run to redirect
// I/O (tests do this to capture PRINT output and feed INPUT).
type VM struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	vars  *varTable
	stack []value.Value
	in    *bufio.Reader

	state State
}

// New returns a VM in the Ready state, with its variable table allocated.
func New() *VM {
	return &VM{vars: newVarTable(), state: Ready}
}

func (vm *VM) init() {
	if vm.Stdout == nil {
		vm.Stdout = os.Stdout
	}
	if vm.Stderr == nil {
		vm.Stderr = os.Stderr
	}
	if vm.Stdin == nil {
		vm.Stdin = os.Stdin
	}
	vm.in = bufio.NewReader(vm.Stdin)
}

// State reports the VM's current run state.
func (vm *VM) State() State { return vm.state }

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

// pop reports false when the stack is empty rather than panicking; most
// callers turn that into a RuntimeError at their own call site, since only
// they know the right message and the faulting position.
func (vm *VM) pop() (value.Value, bool) {
	if len(vm.stack) == 0 {
		return nil, false
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, true
}

// popOrZero implements STORE's documented default: an empty stack store
// binds Int(0) rather than faulting.
func (vm *VM) popOrZero() value.Value {
	if v, ok := vm.pop(); ok {
		return v
	}
	return value.Int(0)
}

func runtimeErrf(pos token.Pos, format string, args ...any) error {
	return &RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Run executes bc.Program from pc 0 until HALT, a runtime error, or ctx's
// cancellation. It is not safe to call Run twice on the same VM: a fresh VM
// is cheap (New()) and the state machine only ever moves forward.
//
// ctx is checked once per instruction rather than creating a genuine
// suspension point — spec.md §5 rules out any blocking point besides
// INPUT/PRINT's own synchronous I/O, so cancellation here is cooperative,
// not preemptive.
func (vm *VM) Run(ctx context.Context, bc *compiler.ByteCode) error {
	vm.init()
	vm.state = Running

	program := bc.Program
	pc := 0

	for pc < len(program) {
		if err := ctx.Err(); err != nil {
			vm.state = Errored
			return err
		}

		op := program[pc].Op
		pos := program[pc].Pos

		switch op {
		case compiler.NOOP:
			pc++

		case compiler.HALT:
			vm.state = Halted
			return nil

		case compiler.PUSH:
			vm.push(program[pc+1].Arg)
			pc += 2

		case compiler.POP:
			if _, ok := vm.pop(); !ok {
				return vm.fail(pos, "stack underflow on POP")
			}
			pc++

		case compiler.CLEAN:
			vm.stack = vm.stack[:0]
			pc++

		case compiler.ADD, compiler.SUB, compiler.MULT, compiler.DIV:
			b, okb := vm.pop()
			a, oka := vm.pop()
			if !oka || !okb {
				return vm.fail(pos, "stack underflow on %s", op)
			}
			res, err := evalArith(op, a, b)
			if err != nil {
				return vm.fail(pos, "%v", err)
			}
			vm.push(res)
			pc++

		case compiler.LT, compiler.BT, compiler.EQ:
			b, okb := vm.pop()
			a, oka := vm.pop()
			if !oka || !okb {
				return vm.fail(pos, "stack underflow on %s", op)
			}
			res, err := evalCompare(op, a, b)
			if err != nil {
				return vm.fail(pos, "%v", err)
			}
			vm.push(res)
			pc++

		case compiler.VAR:
			name := string(program[pc+1].Arg.(value.Str))
			vm.vars.set(name, program[pc+2].Arg)
			pc += 3

		case compiler.STORE:
			name := string(program[pc+1].Arg.(value.Str))
			vm.vars.set(name, vm.popOrZero())
			pc += 2

		case compiler.FETCH:
			name := string(program[pc+1].Arg.(value.Str))
			v, ok := vm.vars.get(name)
			if !ok {
				return vm.fail(pos, "undefined variable %q", name)
			}
			vm.push(v)
			pc += 2

		case compiler.DROP:
			name := string(program[pc+1].Arg.(value.Str))
			if !vm.vars.delete(name) {
				return vm.fail(pos, "undefined variable %q", name)
			}
			pc += 2

		case compiler.PRINT:
			v, ok := vm.pop()
			if !ok {
				return vm.fail(pos, "stack underflow on PRINT")
			}
			vm.doPrint(v)
			pc++

		case compiler.INPUT:
			line, err := vm.in.ReadString('\n')
			if err != nil && line == "" {
				line = ""
			}
			vm.push(value.Str(trimTrailing(line)))
			pc++

		case compiler.TYPE:
			v, ok := vm.pop()
			if !ok {
				return vm.fail(pos, "stack underflow on TYPE")
			}
			vm.push(value.Str(v.Type()))
			pc++

		case compiler.LEN:
			v, ok := vm.pop()
			if !ok {
				return vm.fail(pos, "stack underflow on LEN")
			}
			vm.push(evalLen(v))
			pc++

		case compiler.TO_INT:
			v, ok := vm.pop()
			if !ok {
				return vm.fail(pos, "stack underflow on TO_INT")
			}
			vm.push(evalToInt(v))
			pc++

		case compiler.TO_STR:
			v, ok := vm.pop()
			if !ok {
				return vm.fail(pos, "stack underflow on TO_STR")
			}
			vm.push(value.Str(v.String()))
			pc++

		case compiler.ARR:
			elems := make([]value.Value, len(vm.stack))
			copy(elems, vm.stack)
			vm.stack = vm.stack[:0]
			vm.push(value.NewArray(elems))
			pc++

		case compiler.SLICE:
			idxv, okIdx := vm.pop()
			container, okC := vm.pop()
			if !okIdx || !okC {
				return vm.fail(pos, "stack underflow on SLICE")
			}
			res, err := evalSlice(container, idxv)
			if err != nil {
				return vm.fail(pos, "%v", err)
			}
			vm.push(res)
			pc++

		case compiler.JMP:
			target := int(program[pc+1].Arg.(value.Int))
			if target < 0 || target > len(program) {
				return vm.fail(pos, "branch target %d out of range", target)
			}
			pc = target

		case compiler.JZ, compiler.JNZ:
			b, ok := vm.pop()
			if !ok {
				return vm.fail(pos, "stack underflow on %s", op)
			}
			bv, ok := b.(value.Bool)
			if !ok {
				return vm.fail(pos, "%s requires a Bool, got %s", op, b.Type())
			}
			target := int(program[pc+1].Arg.(value.Int))
			if target < 0 || target > len(program) {
				return vm.fail(pos, "branch target %d out of range", target)
			}
			taken := bool(bv)
			if op == compiler.JNZ {
				taken = !taken
			}
			if taken {
				pc = target
			} else {
				pc += 2
			}

		default:
			// Unknown opcodes, including bare ARG cells reached as if they
			// were instructions, log and advance by one cell. The VM never
			// panics on malformed bytecode.
			fmt.Fprintf(vm.Stderr, "hiw: unrecognized opcode %s at pc=%d, skipping\n", op, pc)
			pc++
		}
	}

	vm.state = Halted
	return nil
}

func (vm *VM) fail(pos token.Pos, format string, args ...any) error {
	vm.state = Errored
	return runtimeErrf(pos, format, args...)
}

func trimTrailing(s string) string {
	for len(s) > 0 {
		c := s[len(s)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}
