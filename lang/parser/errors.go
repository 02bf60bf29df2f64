package parser

import (
	"fmt"
	"strings"

	"github.com/mna/hiw/lang/token"
)

// Error is a single parse diagnostic.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s\n\t%s", e.Pos.Filename, e.Pos.Line, e.Msg, e.Pos.Text)
}

// ErrorList accumulates parse Errors across a pass.
type ErrorList []*Error

func (l *ErrorList) Add(pos token.Pos, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	for i, e := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// fatalErr is the sentinel a genuinely unrecoverable parse state (EOF mid
// argument list) panics with; unlike errPanicMode it is not recovered by
// parseStmt and propagates out of ParseProgram.
type fatalErr struct{ err error }

func (f fatalErr) Error() string { return f.err.Error() }
