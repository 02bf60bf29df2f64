package machine

import (
	"fmt"
	"strings"

	"github.com/mna/hiw/lang/value"
)

// magic PRINT arguments that divert to a debug dump instead of rendering
// the popped value itself.
const (
	magicStack = value.Str("::stack")
	magicVar   = value.Str("::var")
)

// doPrint implements PRINT: render v and write one line, unless v is one of
// the two reserved debug strings, in which case the VM's own state is
// dumped instead.
func (vm *VM) doPrint(v value.Value) {
	if s, ok := v.(value.Str); ok {
		switch s {
		case magicStack:
			fmt.Fprintln(vm.Stdout, vm.renderStack())
			return
		case magicVar:
			fmt.Fprint(vm.Stdout, vm.vars.render())
			return
		}
	}
	fmt.Fprintln(vm.Stdout, v.String())
}

func (vm *VM) renderStack() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vm.stack {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
