package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/hiw/lang/value"
)

func TestIntString(t *testing.T) {
	assert.Equal(t, "42", value.Int(42).String())
	assert.Equal(t, "-7", value.Int(-7).String())
	assert.Equal(t, "INT", value.Int(0).Type())
}

func TestStrString(t *testing.T) {
	assert.Equal(t, "hello", value.Str("hello").String())
	assert.Equal(t, "STR", value.Str("").Type())
}

func TestBoolString(t *testing.T) {
	assert.Equal(t, "true", value.Bool(true).String())
	assert.Equal(t, "false", value.Bool(false).String())
	assert.Equal(t, "BOOL", value.Bool(true).Type())
}

func TestArrayString(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1), value.Str("x"), value.Bool(true)})
	assert.Equal(t, "[1,x,true]", a.String())
	assert.Equal(t, "ARRAY", a.Type())
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, value.Int(1), a.At(0))
}

func TestArrayAppendDoesNotMutate(t *testing.T) {
	a := value.NewArray([]value.Value{value.Int(1)})
	b := a.Append(value.Int(2))

	require.Equal(t, 1, a.Len())
	require.Equal(t, 2, b.Len())
	assert.Equal(t, value.Int(2), b.At(1))
}

func TestEqualReflexiveAndTyped(t *testing.T) {
	cases := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"equal ints", value.Int(3), value.Int(3), true},
		{"unequal ints", value.Int(3), value.Int(4), false},
		{"equal strs", value.Str("a"), value.Str("a"), true},
		{"cross type", value.Int(1), value.Str("1"), false},
		{"equal bools", value.Bool(true), value.Bool(true), true},
		{
			"nested arrays",
			value.NewArray([]value.Value{value.Int(1), value.NewArray([]value.Value{value.Str("a")})}),
			value.NewArray([]value.Value{value.Int(1), value.NewArray([]value.Value{value.Str("a")})}),
			true,
		},
		{
			"different length arrays",
			value.NewArray([]value.Value{value.Int(1)}),
			value.NewArray([]value.Value{value.Int(1), value.Int(2)}),
			false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, value.Equal(c.a, c.b))
			assert.Equal(t, c.want, value.Equal(c.b, c.a), "EQ must be symmetric")
		})
	}
}
