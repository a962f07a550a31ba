package ast_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/token"
)

// treeDiff compares two Value trees by content rather than pointer
// identity, ignoring the unexported big.Int internals (compared instead
// via big.Int.Cmp through a custom Comparer).
func treeDiff(a, b *ast.Value) string {
	bigIntCmp := cmp.Comparer(func(x, y *big.Int) bool {
		if x == nil || y == nil {
			return x == y
		}
		return x.Cmp(y) == 0
	})
	return cmp.Diff(a, b, bigIntCmp, cmpopts.IgnoreFields(ast.Value{}, "Mark"))
}

func TestTreeDiffReportsNoDifferenceForEqualShapedTrees(t *testing.T) {
	mark1 := token.Mark{Line: 1}
	mark2 := token.Mark{Line: 2}
	a := ast.Mapping([]ast.Pair{
		{Key: ast.String("a", mark1), Value: ast.BigInt(big.NewInt(9), mark1)},
	}, mark1)
	b := ast.Mapping([]ast.Pair{
		{Key: ast.String("a", mark2), Value: ast.BigInt(big.NewInt(9), mark2)},
	}, mark2)
	assert.Empty(t, treeDiff(a, b))
}

func TestTreeDiffReportsDifferenceForDifferentContent(t *testing.T) {
	mark := token.Mark{}
	a := ast.String("x", mark)
	b := ast.String("y", mark)
	assert.NotEmpty(t, treeDiff(a, b))
}

func TestConstructorsSetTags(t *testing.T) {
	mark := token.Mark{}
	assert.Equal(t, "tag:yaml.org,2002:null", ast.Null(mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:bool", ast.Bool(true, mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:int", ast.Int(1, mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:int", ast.BigInt(big.NewInt(1), mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:float", ast.Float(1.5, mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:str", ast.String("x", mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:seq", ast.Sequence(nil, mark).Tag)
	assert.Equal(t, "tag:yaml.org,2002:map", ast.Mapping(nil, mark).Tag)
}

func TestGet(t *testing.T) {
	mark := token.Mark{}
	m := ast.Mapping([]ast.Pair{
		{Key: ast.String("a", mark), Value: ast.Int(1, mark)},
		{Key: ast.String("b", mark), Value: ast.Int(2, mark)},
	}, mark)
	assert.Equal(t, int64(1), m.Get("a").Int)
	assert.Equal(t, int64(2), m.Get("b").Int)
	assert.Nil(t, m.Get("c"))
	assert.Nil(t, ast.String("x", mark).Get("a"))
}

func TestEqualStructuralOrderSensitive(t *testing.T) {
	mark := token.Mark{}
	a := ast.Sequence([]*ast.Value{ast.Int(1, mark), ast.Int(2, mark)}, mark)
	b := ast.Sequence([]*ast.Value{ast.Int(1, mark), ast.Int(2, mark)}, mark)
	c := ast.Sequence([]*ast.Value{ast.Int(2, mark), ast.Int(1, mark)}, mark)
	assert.True(t, ast.Equal(a, b))
	assert.False(t, ast.Equal(a, c))
}

func TestEqualBigInt(t *testing.T) {
	mark := token.Mark{}
	a := ast.BigInt(big.NewInt(42), mark)
	b := ast.BigInt(big.NewInt(42), mark)
	assert.True(t, ast.Equal(a, b))
}

func TestUnwrapIterative(t *testing.T) {
	mark := token.Mark{}
	inner := ast.String("leaf", mark)
	wrapped := &ast.Value{Kind: ast.TaggedKind, Tag: "!x", Inner: &ast.Value{Kind: ast.TaggedKind, Tag: "!y", Inner: inner}}
	assert.Same(t, inner, ast.Unwrap(wrapped))
}

func TestCloneIsShallow(t *testing.T) {
	mark := token.Mark{}
	orig := ast.Sequence([]*ast.Value{ast.Int(1, mark)}, mark)
	clone := ast.Clone(orig)
	assert.NotSame(t, orig, clone)
	assert.Same(t, orig.Sequence[0], clone.Sequence[0])
}
