package chars_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/chars"
)

func drain(t *testing.T, src *chars.Source) string {
	t.Helper()
	var out []rune
	for !src.EOF() {
		out = append(out, src.Current())
		require.NoError(t, src.Advance())
	}
	return string(out)
}

func TestDecodePlainUTF8(t *testing.T) {
	src, err := chars.Decode([]byte("abc\n"))
	require.NoError(t, err)
	assert.Equal(t, "abc\n", drain(t, src))
}

func TestDecodeStripsUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x")...)
	src, err := chars.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "x", drain(t, src))
}

func TestCRLFNormalizedToLF(t *testing.T) {
	src, err := chars.Decode([]byte("a\r\nb\rc"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", drain(t, src))
}

func TestMarkAdvancesLineAndColumn(t *testing.T) {
	src, err := chars.Decode([]byte("ab\ncd"))
	require.NoError(t, err)
	first := src.Mark()
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 1, first.Column)
	require.NoError(t, src.Advance())
	require.NoError(t, src.Advance())
	require.NoError(t, src.Advance()) // crosses the \n
	assert.Equal(t, 2, src.Mark().Line)
	assert.Equal(t, 1, src.Mark().Column)
}

func TestPeekBeyondEOFReturnsZero(t *testing.T) {
	src, err := chars.Decode([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, rune(0), src.Peek(5))
}

func TestEmptyInput(t *testing.T) {
	src, err := chars.Decode(nil)
	require.NoError(t, err)
	assert.True(t, src.EOF())
}
