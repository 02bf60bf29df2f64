// Package ast defines the abstract syntax tree produced by the parser: one
// Node type with up to three ordered child slots, enumerated by Kind.
package ast

import "github.com/mna/hiw/lang/token"

// Kind enumerates every node shape in the AST.
type Kind uint8

//nolint:revive
const (
	Bad Kind = iota

	// literals
	Const // integer literal; Value holds it
	String
	BoolLit
	ArrayLit
	Var

	// binary operators: Op1, Op2 are operands
	Add
	Sub
	Mult
	Div
	Lt
	Bt
	Eq

	// assignment: Value is the name, Op1 is the right-hand side
	Set

	// control flow
	If     // Op1: cond, Op2: then
	IfElse // Op1: cond, Op2: then, Op3: else
	While  // Op1: cond, Op2: body
	For    // Value: loop variable name, Op1: iterable expr, Op2: body

	// callable
	FunctionDefine // Value: name, Op1: param chain, Op2: body
	FunctionCall   // Value: callee name, Op1: argument chain (Op2 is unused)
	Print
	Input

	// composition
	Seq       // Op1: head, Op2: rest
	Prog      // top-level program: Op1: head, Op2: rest
	Expr      // expression used as a statement
	BrackEnum // element chain inside an array literal
	ArgsEnum  // argument chain inside a call
	Empty     // the ';' no-op statement

	// special
	Slice      // Op1: container, Op2: index
	FileImport // Value: path
	OpMacro    // Op1: argument chain (identifiers)
)

// Node is the single AST node type. Kind determines which of Value,
// Op1/Op2/Op3 are meaningful; see the Kind constants above for the per-kind
// layout, matching the source specification's invariants exactly.
type Node struct {
	Kind  Kind
	Value token.Token // optional literal/name payload
	Op1   *Node
	Op2   *Node
	Op3   *Node
	Pos   token.Pos
}

// New builds a Node, a tiny convenience over a composite literal used
// throughout the parser.
func New(kind Kind, pos token.Pos, value token.Token, op1, op2, op3 *Node) *Node {
	return &Node{Kind: kind, Pos: pos, Value: value, Op1: op1, Op2: op2, Op3: op3}
}

var kindNames = [...]string{
	Bad:            "bad",
	Const:          "const",
	String:         "string",
	BoolLit:        "bool",
	ArrayLit:       "array",
	Var:            "var",
	Add:            "add",
	Sub:            "sub",
	Mult:           "mult",
	Div:            "div",
	Lt:             "lt",
	Bt:             "bt",
	Eq:             "eq",
	Set:            "set",
	If:             "if",
	IfElse:         "if_else",
	While:          "while",
	For:            "for",
	FunctionDefine: "function_define",
	FunctionCall:   "function_call",
	Print:          "print",
	Input:          "input",
	Seq:            "seq",
	Prog:           "prog",
	Expr:           "expr",
	BrackEnum:      "brack_enum",
	ArgsEnum:       "args_enum",
	Empty:          "empty",
	Slice:          "slice",
	FileImport:     "file_import",
	OpMacro:        "op_macro",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
