package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/decode"
	"go.yamlcore.dev/yaml/token"
)

func mk() token.Mark { return token.Mark{} }

func TestDecodeScalarsIntoPrimitives(t *testing.T) {
	var i int
	require.NoError(t, decode.Decode(ast.Int(42, mk()), &i))
	assert.Equal(t, 42, i)

	var s string
	require.NoError(t, decode.Decode(ast.String("hi", mk()), &s))
	assert.Equal(t, "hi", s)

	var b bool
	require.NoError(t, decode.Decode(ast.Bool(true, mk()), &b))
	assert.True(t, b)

	var f float64
	require.NoError(t, decode.Decode(ast.Float(1.5, mk()), &f))
	assert.Equal(t, 1.5, f)
}

func TestDecodeSequenceIntoSlice(t *testing.T) {
	v := ast.Sequence([]*ast.Value{ast.Int(1, mk()), ast.Int(2, mk()), ast.Int(3, mk())}, mk())
	var out []int
	require.NoError(t, decode.Decode(v, &out))
	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestDecodeMappingIntoMap(t *testing.T) {
	v := ast.Mapping([]ast.Pair{
		{Key: ast.String("a", mk()), Value: ast.Int(1, mk())},
		{Key: ast.String("b", mk()), Value: ast.Int(2, mk())},
	}, mk())
	var out map[string]int
	require.NoError(t, decode.Decode(v, &out))
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, out)
}

type person struct {
	Name string `yaml:"name"`
	Age  int    `yaml:"age,omitempty"`
}

func TestDecodeMappingIntoStruct(t *testing.T) {
	v := ast.Mapping([]ast.Pair{
		{Key: ast.String("name", mk()), Value: ast.String("ada", mk())},
		{Key: ast.String("age", mk()), Value: ast.Int(30, mk())},
		{Key: ast.String("extra", mk()), Value: ast.String("ignored", mk())},
	}, mk())
	var p person
	require.NoError(t, decode.Decode(v, &p))
	assert.Equal(t, "ada", p.Name)
	assert.Equal(t, 30, p.Age)
}

type inner struct {
	X int `yaml:"x"`
}
type outer struct {
	inner `yaml:",inline"`
	Y     int `yaml:"y"`
}

func TestDecodeInlineEmbeddedStruct(t *testing.T) {
	v := ast.Mapping([]ast.Pair{
		{Key: ast.String("x", mk()), Value: ast.Int(1, mk())},
		{Key: ast.String("y", mk()), Value: ast.Int(2, mk())},
	}, mk())
	var o outer
	require.NoError(t, decode.Decode(v, &o))
	assert.Equal(t, 1, o.X)
	assert.Equal(t, 2, o.Y)
}

func TestDecodeAliasResolvesSharedValue(t *testing.T) {
	shared := ast.Int(7, mk())
	shared.AnchorID = 1
	root := ast.Sequence([]*ast.Value{shared, ast.Alias(1, mk())}, mk())
	var out []int
	require.NoError(t, decode.Decode(root, &out))
	assert.Equal(t, []int{7, 7}, out)
}

func TestDecodeUndefinedAliasErrors(t *testing.T) {
	root := ast.Alias(99, mk())
	var out int
	assert.Error(t, decode.Decode(root, &out))
}

func TestDecodeRepetitionLimitExceeded(t *testing.T) {
	shared := ast.Int(1, mk())
	shared.AnchorID = 1
	// Repeated aliases of one anchor: each element aliases the same
	// anchor, so a low max-total cap trips quickly without needing a
	// genuinely huge tree.
	elems := make([]*ast.Value, 5)
	for i := range elems {
		elems[i] = ast.Alias(1, mk())
	}
	root := ast.Sequence(append([]*ast.Value{shared}, elems...), mk())
	var out []int
	err := decode.Decode(root, &out, decode.WithLimits(100, 3))
	assert.Error(t, err)
}

func TestDecodeTargetMustBePointer(t *testing.T) {
	var i int
	err := decode.Decode(ast.Int(1, mk()), i)
	assert.Error(t, err)
}

func TestDecodeWithValidation(t *testing.T) {
	v := ast.Int(5, mk())
	var i int
	err := decode.Decode(v, &i, decode.WithValidation(func(interface{}) error {
		return assertErr{}
	}))
	assert.Error(t, err)
}

type assertErr struct{}

func (assertErr) Error() string { return "validation boom" }
