package lexer

import (
	"fmt"
	"strings"

	"github.com/mna/hiw/lang/token"
)

// Error is a single lexical diagnostic, anchored to a source line.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s\n\t%s", e.Pos.Filename, e.Pos.Line, e.Msg, e.Pos.Text)
}

// ErrorList accumulates Errors across a lexing pass. It is never used to
// abort the lexer itself (lexing always continues to EOF) but its Err method
// is what the driver calls to decide whether to abort the pipeline.
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

// Unwrap allows errors.Is/As to range over every accumulated diagnostic.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns the ErrorList as an error, or nil if it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
