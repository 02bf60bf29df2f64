package machine

import (
	"fmt"
	"strings"

	"github.com/mna/hiw/lang/compiler"
	"github.com/mna/hiw/lang/value"
)

// evalArith implements ADD/SUB/MULT/DIV's cross-type table. a and b are
// already popped in the right order (a pushed first, b second).
func evalArith(op compiler.Opcode, a, b value.Value) (value.Value, error) {
	switch op {
	case compiler.ADD:
		return evalAdd(a, b)
	case compiler.SUB:
		ai, ok1 := a.(value.Int)
		bi, ok2 := b.(value.Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("SUB requires two Int, got %s and %s", a.Type(), b.Type())
		}
		return ai - bi, nil
	case compiler.MULT:
		return evalMult(a, b)
	case compiler.DIV:
		return evalDiv(a, b)
	default:
		return nil, fmt.Errorf("not an arithmetic opcode: %s", op)
	}
}

func evalAdd(a, b value.Value) (value.Value, error) {
	if ai, ok := a.(value.Int); ok {
		if bi, ok := b.(value.Int); ok {
			return ai + bi, nil
		}
	}
	if ab, ok := a.(value.Bool); ok {
		if bb, ok := b.(value.Bool); ok {
			var res bool
			switch {
			case bool(ab) && bool(bb):
				res = true
			case !bool(ab) && !bool(bb):
				res = false
			case bool(ab) && !bool(bb):
				res = true
			case !bool(ab) && bool(bb):
				res = false
			}
			return value.Bool(res), nil
		}
	}
	if aa, ok := a.(value.Array); ok {
		if ba, ok := b.(value.Array); ok {
			elems := make([]value.Value, 0, aa.Len()+ba.Len())
			elems = append(elems, aa.Elems()...)
			elems = append(elems, ba.Elems()...)
			return value.NewArray(elems), nil
		}
	}
	if _, ok := a.(value.Str); ok {
		return value.Str(a.String() + b.String()), nil
	}
	if _, ok := b.(value.Str); ok {
		return value.Str(a.String() + b.String()), nil
	}
	return nil, fmt.Errorf("ADD not defined for %s and %s", a.Type(), b.Type())
}

func evalMult(a, b value.Value) (value.Value, error) {
	if ai, ok := a.(value.Int); ok {
		if bi, ok := b.(value.Int); ok {
			return ai * bi, nil
		}
		if bs, ok := b.(value.Str); ok {
			return value.Str(repeatStr(string(bs), int(ai))), nil
		}
		if ba, ok := b.(value.Array); ok {
			return repeatArray(ba, int(ai)), nil
		}
	}
	if as, ok := a.(value.Str); ok {
		if bi, ok := b.(value.Int); ok {
			return value.Str(repeatStr(string(as), int(bi))), nil
		}
	}
	if aa, ok := a.(value.Array); ok {
		if bi, ok := b.(value.Int); ok {
			return repeatArray(aa, int(bi)), nil
		}
	}
	return nil, fmt.Errorf("MULT not defined for %s and %s", a.Type(), b.Type())
}

func repeatStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

func repeatArray(a value.Array, n int) value.Array {
	if n <= 0 {
		return value.NewArray(nil)
	}
	elems := make([]value.Value, 0, a.Len()*n)
	for i := 0; i < n; i++ {
		elems = append(elems, a.Elems()...)
	}
	return value.NewArray(elems)
}

func evalDiv(a, b value.Value) (value.Value, error) {
	if ai, ok := a.(value.Int); ok {
		if bi, ok := b.(value.Int); ok {
			if bi == 0 {
				return nil, fmt.Errorf("DIV by zero")
			}
			return ai / bi, nil
		}
	}
	if as, ok := a.(value.Str); ok {
		if bi, ok := b.(value.Int); ok {
			if bi == 0 {
				return nil, fmt.Errorf("DIV by zero")
			}
			n := len(string(as)) / int(bi)
			if n < 0 {
				n = 0
			}
			if n > len(string(as)) {
				n = len(string(as))
			}
			return value.Str(string(as)[:n]), nil
		}
	}
	return nil, fmt.Errorf("DIV not defined for %s and %s", a.Type(), b.Type())
}

// evalCompare implements LT/BT/EQ. LT and BT compare by the table's notion
// of "size" (numeric value for Int, length for Str/Array); EQ is structural
// equality across any two values, regardless of type.
func evalCompare(op compiler.Opcode, a, b value.Value) (value.Value, error) {
	if op == compiler.EQ {
		return value.Bool(value.Equal(a, b)), nil
	}

	ak, ok1 := compareKey(a)
	bk, ok2 := compareKey(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%s not defined for %s and %s", op, a.Type(), b.Type())
	}

	if op == compiler.LT {
		return value.Bool(ak < bk), nil
	}
	return value.Bool(ak > bk), nil
}

// compareKey returns the integer key LT/BT compare by: an Int's own value,
// or a Str/Array's length.
func compareKey(v value.Value) (int, bool) {
	switch vv := v.(type) {
	case value.Int:
		return int(vv), true
	case value.Str:
		return len(string(vv)), true
	case value.Array:
		return vv.Len(), true
	default:
		return 0, false
	}
}
