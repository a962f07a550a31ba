package yerrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/token"
	"go.yamlcore.dev/yaml/yerrors"
)

func TestKindString(t *testing.T) {
	cases := map[yerrors.Kind]string{
		yerrors.IoError:              "IoError",
		yerrors.ScanError:            "ScanError",
		yerrors.ParseError:           "ParseError",
		yerrors.LoadError:            "LoadError",
		yerrors.SchemaError:          "SchemaError",
		yerrors.TypeError:            "TypeError",
		yerrors.RepetitionLimitError: "RepetitionLimitError",
		yerrors.Custom:               "Custom",
		yerrors.Kind(9999):           "Unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestNewFormatsMessage(t *testing.T) {
	mark := token.Mark{Line: 3, Column: 4}
	err := yerrors.New(yerrors.ScanError, mark, "bad char %q", '!')
	assert.Contains(t, err.Error(), "ScanError")
	assert.Contains(t, err.Error(), "bad char '!'")
	assert.Contains(t, err.Error(), "3:4")
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	mark := token.Mark{Line: 1, Column: 1}
	err := yerrors.Wrap(yerrors.LoadError, mark, cause, "load failed")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "underlying")
}

func TestWithSecondaryAndPath(t *testing.T) {
	mark := token.Mark{Line: 5, Column: 1}
	secondary := token.Mark{Line: 1, Column: 1}
	err := yerrors.New(yerrors.TypeError, mark, "type mismatch").
		WithSecondary(secondary).
		WithPath([]string{"a", "0", "b"})
	require.NotNil(t, err.Secondary)
	assert.Equal(t, secondary, *err.Secondary)
	assert.Equal(t, []string{"a", "0", "b"}, err.Path)
	assert.Contains(t, err.Error(), "(see 1:1)")
	assert.Contains(t, err.Error(), "[path.a.0.b]")
}

func TestWithSourceRendersSnippet(t *testing.T) {
	mark := token.Mark{Line: 2, Column: 1}
	err := yerrors.New(yerrors.ScanError, mark, "bad token").WithSource([]byte("a: 1\nb: [\nc: 3\n"))
	assert.Contains(t, err.Error(), "bad token")
	assert.Contains(t, err.Error(), "b: [")
	assert.Contains(t, err.Error(), "^")
}

func TestRepetitionLimitExceeded(t *testing.T) {
	mark := token.Mark{Line: 1, Column: 1}
	err := yerrors.RepetitionLimitExceeded(mark, "active depth", 100)
	assert.Equal(t, yerrors.RepetitionLimitError, err.Kind)
	assert.Contains(t, err.Error(), "active depth")
	assert.Contains(t, err.Error(), "100")
}
