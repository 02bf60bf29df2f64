package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/hiw/lang/ast"
	"github.com/mna/hiw/lang/token"
)

func TestKindStringCoversEveryKind(t *testing.T) {
	for k := ast.Bad; k <= ast.OpMacro; k++ {
		assert.NotEqual(t, "unknown", k.String(), "kind %d has no name", k)
	}
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "unknown", ast.Kind(255).String())
}

func TestNewBuildsNode(t *testing.T) {
	pos := token.Pos{Filename: "f", Line: 1}
	left := ast.New(ast.Const, pos, token.Token{Kind: token.NUM}, nil, nil, nil)
	right := ast.New(ast.Const, pos, token.Token{Kind: token.NUM}, nil, nil, nil)
	n := ast.New(ast.Add, pos, token.Token{}, left, right, nil)

	assert.Equal(t, ast.Add, n.Kind)
	assert.Same(t, left, n.Op1)
	assert.Same(t, right, n.Op2)
	assert.Nil(t, n.Op3)
	assert.Equal(t, pos, n.Pos)
}
