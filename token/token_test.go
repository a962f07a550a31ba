package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.yamlcore.dev/yaml/token"
)

func TestMarkString(t *testing.T) {
	m := token.Mark{Offset: 10, Line: 2, Column: 5}
	assert.Equal(t, "2:5", m.String())
}

func TestMarkLess(t *testing.T) {
	a := token.Mark{Offset: 1}
	b := token.Mark{Offset: 2}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.StreamStart:        "StreamStart",
		token.BlockMappingStart:  "BlockMappingStart",
		token.FlowSequenceEnd:    "FlowSequenceEnd",
		token.Scalar:             "Scalar",
		token.Kind(9999):         "Unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestNewAndQuoted(t *testing.T) {
	mark := token.Mark{Line: 1, Column: 1}
	plain := token.New("foo", "foo", mark)
	assert.Equal(t, token.Scalar, plain.Kind)
	assert.Equal(t, token.Plain, plain.Style)
	assert.Equal(t, "foo", plain.Value)

	quoted := token.Quoted(token.DoubleQuoted, "bar", `"bar"`, mark)
	assert.Equal(t, token.DoubleQuoted, quoted.Style)
	assert.Equal(t, "bar", quoted.Value)
	assert.Equal(t, `"bar"`, quoted.Origin)
}

func TestTokenStringNil(t *testing.T) {
	var tok *token.Token
	assert.Equal(t, "<nil>", tok.String())
}
