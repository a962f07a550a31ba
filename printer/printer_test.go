package printer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.yamlcore.dev/yaml/printer"
	"go.yamlcore.dev/yaml/token"
)

func TestLineNumberFormat(t *testing.T) {
	assert.Equal(t, " 1 | ", printer.LineNumberFormat(1))
	assert.Equal(t, "12 | ", printer.LineNumberFormat(12))
}

func TestSnippetIncludesContextLines(t *testing.T) {
	source := "a: 1\nb: 2\nc: 3\n"
	out := printer.Snippet(source, token.Mark{Line: 2, Column: 1}, false)
	assert.Contains(t, out, "a: 1")
	assert.Contains(t, out, "b: 2")
	assert.Contains(t, out, "c: 3")
	assert.Contains(t, out, "^")
}

func TestSnippetOutOfRangeLine(t *testing.T) {
	out := printer.Snippet("a: 1\n", token.Mark{Line: 100, Column: 1}, false)
	assert.Equal(t, "", out)
}

func TestFprintWithBuffer(t *testing.T) {
	var buf bytes.Buffer
	printer.Fprint(&buf, "boom", "a: 1\n", token.Mark{Line: 1, Column: 1})
	out := buf.String()
	assert.True(t, strings.Contains(out, "boom"))
	assert.True(t, strings.Contains(out, "a: 1"))
}
