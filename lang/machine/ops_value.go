package machine

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/mna/hiw/lang/value"
)

// intParseErrorSentinel is TO_INT's documented fallback: pushed whenever the
// popped value cannot be reduced to an Int, whether because it's a Str that
// fails to parse or because it's a Bool/Array entirely.
const intParseErrorSentinel = value.Str("INT_PARSE_ERROR")

// evalLen implements LEN: Str counts runes, Array counts elements, and Int
// passes through unchanged — spec'd as "undocumented legacy" behavior, kept
// verbatim rather than rationalized away.
func evalLen(v value.Value) value.Value {
	switch vv := v.(type) {
	case value.Str:
		return value.Int(utf8.RuneCountInString(string(vv)))
	case value.Array:
		return value.Int(vv.Len())
	case value.Int:
		return vv
	default:
		return value.Int(0)
	}
}

func evalToInt(v value.Value) value.Value {
	switch vv := v.(type) {
	case value.Int:
		return vv
	case value.Str:
		n, err := strconv.ParseInt(string(vv), 10, 32)
		if err != nil {
			return intParseErrorSentinel
		}
		return value.Int(n)
	default:
		return intParseErrorSentinel
	}
}

// evalSlice implements SLICE: pop order is index then container, per
// spec.md's opcode table, so the caller passes (container, index) already
// un-reversed.
func evalSlice(container, idx value.Value) (value.Value, error) {
	i, ok := idx.(value.Int)
	if !ok {
		return nil, fmt.Errorf("SLICE index must be Int, got %s", idx.Type())
	}
	if i < 0 {
		return nil, fmt.Errorf("SLICE index %d is negative", i)
	}

	switch c := container.(type) {
	case value.Array:
		if int(i) >= c.Len() {
			return nil, fmt.Errorf("SLICE index %d out of range (len %d)", i, c.Len())
		}
		return c.At(int(i)), nil
	case value.Str:
		runes := []rune(string(c))
		if int(i) >= len(runes) {
			return nil, fmt.Errorf("SLICE index %d out of range (len %d)", i, len(runes))
		}
		return value.Str(string(runes[i])), nil
	default:
		return nil, fmt.Errorf("SLICE requires Str or Array, got %s", container.Type())
	}
}
