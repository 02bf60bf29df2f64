package machine

import (
	"strings"

	"github.com/dolthub/swiss"

	"github.com/mna/hiw/lang/value"
)

// varTable is the VM's global variable binding table: a thin wrapper over a
// swiss.Map, the same shape the teacher's lang/machine/map.go wraps around
// values.Value keys — here keyed by variable name instead, since hiw has no
// closures or lexical scoping to motivate a Value-keyed map.
type varTable struct {
	m *swiss.Map[string, value.Value]
}

func newVarTable() *varTable {
	return &varTable{m: swiss.NewMap[string, value.Value](16)}
}

func (t *varTable) get(name string) (value.Value, bool) {
	return t.m.Get(name)
}

func (t *varTable) set(name string, v value.Value) {
	t.m.Put(name, v)
}

func (t *varTable) delete(name string) bool {
	return t.m.Delete(name)
}

// render produces the "::var" debug dump: every binding, one per line, in
// no particular order (the map gives none), prefixed with the name.
func (t *varTable) render() string {
	var sb strings.Builder
	t.m.Iter(func(k string, v value.Value) bool {
		sb.WriteString(k)
		sb.WriteString(" = ")
		sb.WriteString(v.String())
		sb.WriteByte('\n')
		return false
	})
	return sb.String()
}
