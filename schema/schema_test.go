package schema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/schema"
	"go.yamlcore.dev/yaml/token"
)

func TestFailsafeAlwaysString(t *testing.T) {
	v, err := schema.Resolve(schema.Failsafe, "true", token.Mark{})
	require.NoError(t, err)
	assert.Equal(t, ast.StringKind, v.Kind)
	assert.Equal(t, "true", v.Str)
}

func TestCoreNullVariants(t *testing.T) {
	for _, text := range []string{"~", "null", "Null", "NULL", ""} {
		v, err := schema.Resolve(schema.Core, text, token.Mark{})
		require.NoError(t, err)
		assert.Equal(t, ast.NullKind, v.Kind, "text=%q", text)
	}
}

func TestCoreBoolVariants(t *testing.T) {
	for _, text := range []string{"true", "True", "TRUE"} {
		v, err := schema.Resolve(schema.Core, text, token.Mark{})
		require.NoError(t, err)
		assert.True(t, v.Bool)
	}
	for _, text := range []string{"false", "False", "FALSE"} {
		v, err := schema.Resolve(schema.Core, text, token.Mark{})
		require.NoError(t, err)
		assert.False(t, v.Bool)
	}
}

func TestCoreIntForms(t *testing.T) {
	v, err := schema.Resolve(schema.Core, "0o17", token.Mark{})
	require.NoError(t, err)
	require.Equal(t, ast.IntKind, v.Kind)
	assert.EqualValues(t, 15, v.Int)

	v, err = schema.Resolve(schema.Core, "0x1F", token.Mark{})
	require.NoError(t, err)
	assert.EqualValues(t, 31, v.Int)

	v, err = schema.Resolve(schema.Core, "1_000", token.Mark{})
	require.NoError(t, err)
	assert.EqualValues(t, 1000, v.Int)
}

func TestCoreFloatAndSpecials(t *testing.T) {
	v, err := schema.Resolve(schema.Core, ".inf", token.Mark{})
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Float, 1))

	v, err = schema.Resolve(schema.Core, "-.inf", token.Mark{})
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Float, -1))

	v, err = schema.Resolve(schema.Core, ".nan", token.Mark{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.Float))

	v, err = schema.Resolve(schema.Core, "1.5e3", token.Mark{})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, v.Float)
}

func TestCoreFallsBackToString(t *testing.T) {
	v, err := schema.Resolve(schema.Core, "hello world", token.Mark{})
	require.NoError(t, err)
	assert.Equal(t, ast.StringKind, v.Kind)
	assert.Equal(t, "hello world", v.Str)
}

func TestJSONStrictRejectsNonLiteral(t *testing.T) {
	_, err := schema.Resolve(schema.JSON, "hello", token.Mark{})
	require.Error(t, err)
}

func TestJSONAcceptsLiterals(t *testing.T) {
	v, err := schema.Resolve(schema.JSON, "null", token.Mark{})
	require.NoError(t, err)
	assert.Equal(t, ast.NullKind, v.Kind)

	v, err = schema.Resolve(schema.JSON, "42", token.Mark{})
	require.NoError(t, err)
	assert.EqualValues(t, 42, v.Int)
}

func TestTagForKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "tag:yaml.org,2002:str", schema.TagFor("!!str"))
	assert.Equal(t, "", schema.TagFor("!!custom"))
}
