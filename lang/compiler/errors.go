package compiler

import (
	"fmt"

	"github.com/mna/hiw/lang/token"
)

// Error is a single compile diagnostic. Unlike lexer/parser ErrorLists,
// compile errors are fatal: the compiler stops at the first one (spec.md
// §7: "Compile errors: fatal; abort after the pass").
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s\n\t%s", e.Pos.Filename, e.Pos.Line, e.Msg, e.Pos.Text)
}
