package compiler

// Opcode identifies one bytecode instruction or, for ARG, one operand cell
// in the flat interleaved instruction stream.
type Opcode uint8

//nolint:revive
const (
	NOOP Opcode = iota

	PUSH
	POP
	CLEAN

	ADD
	SUB
	MULT
	DIV

	LT
	BT
	EQ

	VAR
	STORE
	FETCH
	DROP

	PRINT
	INPUT

	TYPE
	LEN
	TO_INT
	TO_STR

	ARR
	SLICE

	JMP
	JZ
	JNZ

	HALT

	// ARG is not a real instruction: it tags an operand cell immediately
	// following the opcode that consumes it, carrying a value.Value payload
	// (for PUSH/VAR/STORE/FETCH/DROP) or a branch target (for JMP/JZ/JNZ,
	// encoded as value.Int).
	ARG
)

var opcodeNames = [...]string{
	NOOP:   "NOOP",
	PUSH:   "PUSH",
	POP:    "POP",
	CLEAN:  "CLEAN",
	ADD:    "ADD",
	SUB:    "SUB",
	MULT:   "MULT",
	DIV:    "DIV",
	LT:     "LT",
	BT:     "BT",
	EQ:     "EQ",
	VAR:    "VAR",
	STORE:  "STORE",
	FETCH:  "FETCH",
	DROP:   "DROP",
	PRINT:  "PRINT",
	INPUT:  "INPUT",
	TYPE:   "TYPE",
	LEN:    "LEN",
	TO_INT: "TO_INT",
	TO_STR: "TO_STR",
	ARR:    "ARR",
	SLICE:  "SLICE",
	JMP:    "JMP",
	JZ:     "JZ",
	JNZ:    "JNZ",
	HALT:   "HALT",
	ARG:    "ARG",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// operandWidth reports how many ARG cells follow op in the instruction
// stream: 0, 1, or 2 (VAR alone takes two: name then value).
func operandWidth(op Opcode) int {
	switch op {
	case VAR:
		return 2
	case PUSH, STORE, FETCH, DROP, JMP, JZ, JNZ:
		return 1
	default:
		return 0
	}
}

// isJump reports whether op is a branch instruction whose single operand
// is a target position that must be tracked in a JumpCodes set.
func isJump(op Opcode) bool {
	return op == JMP || op == JZ || op == JNZ
}

// reverseLookupOpcode maps a bytecode mnemonic's spelling back to its
// Opcode, built once from opcodeNames — the op! macro's sole mechanism for
// turning a bare identifier argument into raw bytecode.
var reverseLookupOpcode = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		if name != "" {
			m[name] = Opcode(op)
		}
	}
	return m
}()
