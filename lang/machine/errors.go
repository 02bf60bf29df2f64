package machine

import (
	"fmt"

	"github.com/mna/hiw/lang/token"
)

// RuntimeError is the error the VM reports when execution cannot continue:
// a stack underflow, a type mismatch, an undefined or re-dropped variable,
// or an out-of-range branch or index (TO_INT never faults: a value it
// cannot convert yields the "INT_PARSE_ERROR" sentinel instead). It
// carries the position of the Operation that faulted, tagged at emission
// time by the compiler, so the message reads like a compile error even
// though it surfaces at run time.
type RuntimeError struct {
	Pos token.Pos
	Msg string
}

func (e *RuntimeError) Error() string {
	if e.Pos.Filename == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s:%d: %s\n\t%s", e.Pos.Filename, e.Pos.Line, e.Msg, e.Pos.Text)
}
