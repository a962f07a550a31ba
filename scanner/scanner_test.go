package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/scanner"
	"go.yamlcore.dev/yaml/token"
)

func scanAll(t *testing.T, src string) []*token.Token {
	t.Helper()
	sc, err := scanner.New([]byte(src))
	require.NoError(t, err)
	var toks []*token.Token
	for {
		tok, err := sc.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.StreamEnd {
			break
		}
	}
	return toks
}

func kinds(toks []*token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestBlockSequenceOfPlainScalars(t *testing.T) {
	toks := scanAll(t, "- a\n- b\n- c\n")
	assert.Equal(t, []token.Kind{
		token.StreamStart,
		token.BlockSequenceStart,
		token.BlockEntry, token.Scalar,
		token.BlockEntry, token.Scalar,
		token.BlockEntry, token.Scalar,
		token.BlockSequenceEnd,
		token.StreamEnd,
	}, kinds(toks))
}

func TestBlockMappingRetroactivePromotion(t *testing.T) {
	toks := scanAll(t, "a: 1\nb: 2\n")
	assert.Equal(t, []token.Kind{
		token.StreamStart,
		token.BlockMappingStart,
		token.Scalar, token.Value, token.Scalar,
		token.Scalar, token.Value, token.Scalar,
		token.BlockMappingEnd,
		token.StreamEnd,
	}, kinds(toks))
}

func TestFlowSequenceAndEntries(t *testing.T) {
	toks := scanAll(t, "[1, 2, 3]\n")
	assert.Equal(t, []token.Kind{
		token.StreamStart,
		token.FlowSequenceStart,
		token.Scalar, token.FlowEntry,
		token.Scalar, token.FlowEntry,
		token.Scalar,
		token.FlowSequenceEnd,
		token.StreamEnd,
	}, kinds(toks))
}

func TestAnchorAliasAndTagTokens(t *testing.T) {
	toks := scanAll(t, "a: &x 1\nb: *x\nc: !!str 2\n")
	var gotKinds []token.Kind
	for _, tok := range toks {
		gotKinds = append(gotKinds, tok.Kind)
	}
	assert.Contains(t, gotKinds, token.Anchor)
	assert.Contains(t, gotKinds, token.Alias)
	assert.Contains(t, gotKinds, token.Tag)
}

func TestSingleQuotedEscape(t *testing.T) {
	toks := scanAll(t, "'it''s'\n")
	require.Len(t, toks, 3)
	assert.Equal(t, "it's", toks[1].Value)
}

func TestDoubleQuotedEscapes(t *testing.T) {
	toks := scanAll(t, `"a\tb\n\x41"` + "\n")
	require.Len(t, toks, 3)
	assert.Equal(t, "a\tb\nA", toks[1].Value)
}

func TestBlockLiteralStrip(t *testing.T) {
	toks := scanAll(t, "k: |-\n  one\n  two\n")
	var scalarTok *token.Token
	for _, tok := range toks {
		if tok.Kind == token.Scalar && tok.Style == token.Literal {
			scalarTok = tok
		}
	}
	require.NotNil(t, scalarTok)
	assert.Equal(t, "one\ntwo", scalarTok.Value)
}

func TestBlockFoldedClip(t *testing.T) {
	toks := scanAll(t, "k: >\n  one\n  two\n")
	var scalarTok *token.Token
	for _, tok := range toks {
		if tok.Kind == token.Scalar && tok.Style == token.Folded {
			scalarTok = tok
		}
	}
	require.NotNil(t, scalarTok)
	assert.Equal(t, "one two\n", scalarTok.Value)
}

func TestBlockFoldedBlankLineYieldsSingleBreak(t *testing.T) {
	toks := scanAll(t, "k: >\n  foo\n\n  bar\n")
	var scalarTok *token.Token
	for _, tok := range toks {
		if tok.Kind == token.Scalar && tok.Style == token.Folded {
			scalarTok = tok
		}
	}
	require.NotNil(t, scalarTok)
	assert.Equal(t, "foo\nbar\n", scalarTok.Value)
}

func TestBlockFoldedTwoBlankLinesYieldTwoBreaks(t *testing.T) {
	toks := scanAll(t, "k: >\n  foo\n\n\n  bar\n")
	var scalarTok *token.Token
	for _, tok := range toks {
		if tok.Kind == token.Scalar && tok.Style == token.Folded {
			scalarTok = tok
		}
	}
	require.NotNil(t, scalarTok)
	assert.Equal(t, "foo\n\nbar\n", scalarTok.Value)
}

func TestDocumentMarkers(t *testing.T) {
	toks := scanAll(t, "---\na: 1\n...\n")
	assert.Equal(t, token.DocumentStart, toks[1].Kind)
	var sawEnd bool
	for _, tok := range toks {
		if tok.Kind == token.DocumentEnd {
			sawEnd = true
		}
	}
	assert.True(t, sawEnd)
}

func TestUnbalancedFlowIsScanError(t *testing.T) {
	sc, err := scanner.New([]byte("]\n"))
	require.NoError(t, err)
	_, err = sc.Next() // StreamStart
	require.NoError(t, err)
	_, err = sc.Next()
	require.Error(t, err)
}

func TestSimpleKeyLengthBoundary(t *testing.T) {
	okKey := make([]byte, scanner.MaxSimpleKeyLength)
	for i := range okKey {
		okKey[i] = 'a'
	}
	src := string(okKey) + ": 1\n"
	sc, err := scanner.New([]byte(src))
	require.NoError(t, err)
	for {
		tok, err := sc.Next()
		require.NoError(t, err)
		if tok.Kind == token.StreamEnd {
			break
		}
	}

	tooLong := make([]byte, scanner.MaxSimpleKeyLength+1)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	src2 := string(tooLong) + ": 1\n"
	sc2, err := scanner.New([]byte(src2))
	require.NoError(t, err)
	var sawErr bool
	for {
		_, err := sc2.Next()
		if err != nil {
			sawErr = true
			break
		}
	}
	assert.True(t, sawErr)
}

func TestPeekDoesNotConsume(t *testing.T) {
	sc, err := scanner.New([]byte("a: 1\n"))
	require.NoError(t, err)
	first, err := sc.Peek(0)
	require.NoError(t, err)
	second, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
